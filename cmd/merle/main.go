// Merle CLI - probe configured solvers and inspect artifact files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chazu/merle/artifact"
	"github.com/chazu/merle/query"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	configPath := flag.String("config", "", "Solver configuration TOML file")
	probe := flag.Bool("probe", false, "Probe the configured solver (handshake check)")
	store := flag.String("store", "", "Artifact store database (list mode)")
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: merle [options] [artifact files...]\n\n")
		fmt.Fprintf(os.Stderr, "Inspects Merle artifact files and probes configured solvers.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  merle proof.mrl                     # Dump an artifact file\n")
		fmt.Fprintf(os.Stderr, "  merle -config z3.toml -probe        # Check the solver responds\n")
		fmt.Fprintf(os.Stderr, "  merle -store artifacts.db           # List stored artifacts\n")
	}
	flag.Parse()

	if *probe {
		if *configPath == "" {
			fmt.Fprintln(os.Stderr, "merle: -probe requires -config")
			os.Exit(2)
		}
		if err := probeSolver(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "merle: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *store != "" {
		if err := listStore(*store); err != nil {
			fmt.Fprintf(os.Stderr, "merle: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	for _, path := range flag.Args() {
		if err := dumpArtifact(path, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "merle: %v\n", err)
			os.Exit(1)
		}
	}
}

func probeSolver(configPath string) error {
	cfg, err := query.LoadConfig(configPath)
	if err != nil {
		return err
	}
	ch, err := query.StartProcess(cfg)
	if err != nil {
		return err
	}
	defer ch.Close()
	got, err := ch.Ask("(set-option :print-success true)")
	if err != nil {
		return err
	}
	if got != "success" {
		return fmt.Errorf("solver %s answered %q to the handshake", cfg.Solver.Name, got)
	}
	fmt.Printf("%s ok\n", cfg.Solver.Name)
	return nil
}

func listStore(dbPath string) error {
	st, err := artifact.OpenStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	hashes, err := st.List()
	if err != nil {
		return err
	}
	for _, h := range hashes {
		fmt.Println(h)
	}
	return nil
}

func dumpArtifact(path string, verbose bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	a, err := artifact.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	sum, err := artifact.Hash(a)
	if err != nil {
		return err
	}

	fmt.Printf("%s (version %d, hash %x)\n", path, a.Version, sum[:8])
	fmt.Printf("  kinds:       %v\n", a.Kinds)
	fmt.Printf("  inputs:      %d\n", len(a.Inputs))
	fmt.Printf("  constants:   %d\n", len(a.Constants))
	fmt.Printf("  tables:      %d\n", len(a.Tables))
	fmt.Printf("  arrays:      %d\n", len(a.Arrays))
	fmt.Printf("  decls:       %d\n", len(a.Declarations))
	fmt.Printf("  program:     %d assignments\n", len(a.Program))
	fmt.Printf("  constraints: %d\n", len(a.Constraints))
	fmt.Printf("  objectives:  %d\n", len(a.Objectives))
	fmt.Printf("  assertions:  %d\n", len(a.Assertions))
	fmt.Printf("  outputs:     %d\n", len(a.Outputs))
	if !verbose {
		return nil
	}
	for _, in := range a.Inputs {
		fmt.Printf("    input %-16s n%d:%s quant=%d\n", in.Name, in.Ref.Id, in.Ref.Kind, in.Quant)
	}
	for _, asg := range a.Program {
		fmt.Printf("    n%d:%s = op%d", asg.Dst.Id, asg.Dst.Kind, asg.Op)
		if asg.Sym != "" {
			fmt.Printf(" %s", asg.Sym)
		}
		for _, arg := range asg.Args {
			fmt.Printf(" n%d", arg.Id)
		}
		fmt.Println()
	}
	return nil
}
