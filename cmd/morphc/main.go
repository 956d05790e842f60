// Command morphc is the compiler's CLI driver (SPEC_FULL.md §2.1, §6). It
// loads project configuration, drives the orchestrator, prints diagnostics,
// and sets the process exit code.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jinnzest/morphc/internal/aspects"
	"github.com/jinnzest/morphc/internal/aspects/complexity"
	"github.com/jinnzest/morphc/internal/aspects/sideeffect"
	"github.com/jinnzest/morphc/internal/buildcache"
	"github.com/jinnzest/morphc/internal/cliutil"
	"github.com/jinnzest/morphc/internal/config"
	"github.com/jinnzest/morphc/internal/externals"
	"github.com/jinnzest/morphc/internal/orchestrator"
)

// unitName is the single implicit compilation unit every project builds:
// src/main.astn, hashes/main.hsh. The distilled spec never names a unit
// explicitly in its CLI surface ("morphc build [project-dir]" takes no unit
// argument), so this is the simplest reading consistent with that surface;
// recorded as a decision in DESIGN.md.
const unitName = "main"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return -1
	}

	switch args[0] {
	case "build":
		dir := "."
		if len(args) > 1 {
			dir = args[1]
		}
		return runBuild(dir)
	case "query":
		if len(args) < 2 {
			printUsage()
			return -1
		}
		dir := "."
		if len(args) > 2 {
			dir = args[2]
		}
		return runQuery(dir, args[1])
	default:
		printUsage()
		return -1
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: morphc build [project-dir] | morphc query <name> [project-dir]")
}

func runBuild(dir string) int {
	cfg, err := config.Load(dir)
	if err != nil {
		log.Printf("loading project configuration: %v", err)
		return -1
	}

	registry := aspects.NewRegistry(
		sideeffect.New(cfg.Aspects.SideEffect),
		complexity.New(cfg.Aspects.Complexity),
	)

	result := orchestrator.Compile(cfg, registry, externals.Builtins(), unitName)

	printer := cliutil.NewStdoutPrinter()
	if len(result.Diagnostics) > 0 {
		printer.PrintDiagnostics(result.RunID, result.Diagnostics)
	}
	if result.Failed {
		return -1
	}
	log.Printf("run %s: compiled %d function(s)", result.RunID, len(result.Funcs))
	return 0
}

// runQuery implements the read-only `morphc query <name>` command
// (SPEC_FULL.md §6, S7): it never touches src/, hints/, or analytics/.
func runQuery(dir, name string) int {
	cfg, err := config.Load(dir)
	if err != nil {
		log.Printf("loading project configuration: %v", err)
		return 0
	}

	ctx := context.Background()
	db, err := buildcache.Open(ctx, cfg.IndexPath())
	if err != nil {
		fmt.Println("no index entry")
		return 0
	}
	defer db.Close()

	entry, ok, err := buildcache.Query(ctx, db, name)
	if err != nil || !ok {
		fmt.Println("no index entry")
		return 0
	}
	fmt.Printf("%s: %s\n  side effects: %s\n  complexity: %s\n", entry.Name, entry.Signature, entry.SideEffect, entry.Complexity)
	return 0
}
