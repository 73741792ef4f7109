// Command loxgo is the thin driver around the compiler and VM: a
// subcommands.Commander dispatching to "run", "repl", and "disasm",
// grounded on kristofer-smog's cmd/smog/main.go and on the run/repl
// split used by the pack's other Lox-like driver, informatter-nilan's
// cmd_run.go and cmd_repl.go.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/kristofer/loxgo/internal/compiler"
	"github.com/kristofer/loxgo/internal/config"
	"github.com/kristofer/loxgo/internal/gc"
	"github.com/kristofer/loxgo/internal/value"
	"github.com/kristofer/loxgo/internal/vm"
)

// Exit codes per spec §6: sysexits-flavored, not subcommands' own
// ExitSuccess/ExitFailure pair, so both commands return their own int
// directly from main rather than a subcommands.ExitStatus.
const (
	exitSuccess    = 0
	exitCompileErr = 65
	exitRuntimeErr = 70
	exitIOErr      = 74
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loxgo: bad configuration: %v\n", err)
		os.Exit(exitIOErr)
	}
	compiler.DebugPrintCode = cfg.DebugPrintCode
	value.IntegerOnly = cfg.IntegerOnly

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&runCmd{cfg: cfg}, "")
	subcommands.Register(&replCmd{cfg: cfg}, "")
	subcommands.Register(&disasmCmd{}, "")

	if len(os.Args) < 2 {
		os.Exit(runREPL(cfg))
	}

	// spec.md §6's external CLI contract is just "no arguments: REPL;
	// one path argument: run that file" — it knows nothing of
	// subcommands. A bare `loxgo <file>` where <file> isn't one of the
	// names above is that literal one-path-argument form, so it's
	// dispatched as implicit `run <file>` rather than falling into
	// subcommands.Execute and failing as an unrecognized command.
	if len(os.Args) == 2 && !knownSubcommands[os.Args[1]] {
		os.Exit(runFile(cfg, os.Args[1]))
	}

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

// knownSubcommands names every subcommand registered above, so main
// can tell a subcommand name apart from a bare script path.
var knownSubcommands = map[string]bool{
	"run": true, "repl": true, "disasm": true,
	"help": true, "flags": true,
}

// newMachine wires one heap, one collector, and one VM together the
// way every entry point needs: spec §5's "one process-wide VM
// instance" sitting on a heap whose allocators can trigger the
// collector installed over it.
func newMachine(cfg config.Config) *vm.VM {
	heap := value.NewHeap()
	heap.StressGC = cfg.DebugStressGC
	heap.LogGC = cfg.DebugLogGC

	machine := vm.New(heap)
	machine.TraceExecution = cfg.DebugTraceExecution
	gc.Install(heap, machine)
	return machine
}

func interpret(machine *vm.VM, source string) int {
	fn, err := compiler.Compile(source, machine.Heap())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitCompileErr
	}
	if err := machine.Interpret(fn); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitRuntimeErr
	}
	return exitSuccess
}
