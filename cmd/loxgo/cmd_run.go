package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/kristofer/loxgo/internal/config"
)

// runCmd executes a single source file to completion and exits.
type runCmd struct {
	cfg config.Config
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "run a loxgo source file" }
func (*runCmd) Usage() string {
	return "run <file>:\n  Compile and execute a loxgo script.\n"
}
func (*runCmd) SetFlags(*flag.FlagSet) {}

func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "loxgo run: no file given")
		return subcommands.ExitUsageError
	}
	os.Exit(runFile(r.cfg, args[0]))
	return subcommands.ExitSuccess
}

// runFile reads and executes a single script file to completion,
// returning the exit code interpret decided on or exitIOErr on a read
// failure. Shared by the "run" subcommand and main's bare
// `loxgo <file>` shorthand.
func runFile(cfg config.Config, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loxgo: %v\n", err)
		return exitIOErr
	}
	return interpret(newMachine(cfg), string(data))
}

// runREPL is the zero-argument default (spec §6: "no arguments enters
// a line-at-a-time REPL"), invoked before subcommands dispatch even
// runs so that `loxgo` with nothing after it still behaves like the
// teacher's bare invocation rather than printing command-not-found.
func runREPL(cfg config.Config) int {
	machine := newMachine(cfg)
	return repl(machine)
}
