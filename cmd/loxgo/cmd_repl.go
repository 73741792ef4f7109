package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"github.com/kristofer/loxgo/internal/config"
	"github.com/kristofer/loxgo/internal/vm"
)

// replCmd starts an interactive line-at-a-time session, one source
// line compiled and run per Enter press, sharing the machine's heap
// and globals across lines the way informatter-nilan's cmd_repl.go
// shares one interpreter across scanner lines.
type replCmd struct {
	cfg config.Config
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "start an interactive loxgo session" }
func (*replCmd) Usage() string {
	return "repl:\n  Start a line-at-a-time loxgo REPL.\n"
}
func (*replCmd) SetFlags(*flag.FlagSet) {}

func (r *replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	os.Exit(repl(newMachine(r.cfg)))
	return subcommands.ExitSuccess
}

func repl(machine *vm.VM) int {
	rl, err := readline.New("> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "loxgo: %v\n", err)
		return exitIOErr
	}
	defer rl.Close()

	fmt.Println("loxgo REPL — Ctrl-D to exit")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return exitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "loxgo: %v\n", err)
			return exitIOErr
		}
		if line == "" {
			continue
		}
		// A REPL line's compile error shouldn't kill the session; only
		// an explicit exit (Ctrl-D) does that.
		interpret(machine, line)
	}
}
