package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/kristofer/loxgo/internal/compiler"
	"github.com/kristofer/loxgo/internal/debug"
	"github.com/kristofer/loxgo/internal/value"
)

// disasmCmd compiles a source file and prints its bytecode without
// running it. There is no persisted bytecode format (spec §6) — this
// always recompiles from source, it never reads a .sg-style artifact.
type disasmCmd struct{}

func (*disasmCmd) Name() string     { return "disasm" }
func (*disasmCmd) Synopsis() string { return "compile a file and print its bytecode" }
func (*disasmCmd) Usage() string {
	return "disasm <file>:\n  Compile a loxgo script and disassemble every function, without running it.\n"
}
func (*disasmCmd) SetFlags(*flag.FlagSet) {}

func (*disasmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "loxgo disasm: no file given")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "loxgo: %v\n", err)
		os.Exit(exitIOErr)
	}

	heap := value.NewHeap()
	script, err := compiler.Compile(string(data), heap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(exitCompileErr)
	}

	debug.Disassemble(os.Stdout, script.Chunk, "<script>")
	walkNestedFunctions(script.Chunk)
	return subcommands.ExitSuccess
}

// walkNestedFunctions disassembles every ObjFunction reachable through
// a chunk's constant pool, matching what DEBUG_PRINT_CODE would have
// printed for each function as it finished compiling (compiler.go's
// popCompiler), but gathered after the fact from the finished script.
func walkNestedFunctions(c *value.Chunk) {
	for _, k := range c.Constants {
		fn, ok := k.(*value.ObjFunction)
		if !ok {
			continue
		}
		name := "<anonymous fn>"
		if fn.Name != nil {
			name = fn.Name.Chars
		}
		debug.Disassemble(os.Stdout, fn.Chunk, name)
		walkNestedFunctions(fn.Chunk)
	}
}
