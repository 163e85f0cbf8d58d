package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lut99/todo-collector/internal/config"
	"github.com/lut99/todo-collector/internal/discover"
	"github.com/lut99/todo-collector/internal/report"
)

// doctorCommand checks the scan root, exclusion paths, output destination,
// and the embedded report schema. PATH is optional; without it only the
// path-independent checks run.
func doctorCommand(cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	if len(args) == 1 {
		cfg.Root = args[0]
	}

	fmt.Println("todo-collector doctor")
	fmt.Println("=====================")
	fmt.Println()

	allOK := true

	if cfg.Who == "" {
		fmt.Println("Assignee: ❌ not set (use -w/--who)")
		allOK = false
	} else {
		fmt.Printf("Assignee: %s\n", cfg.Who)
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	if cfg.Root != "" {
		fmt.Printf("Scan root: %s\n", cfg.Root)
		info, err := os.Stat(cfg.Root)
		switch {
		case err != nil:
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		case !info.IsDir() && !info.Mode().IsRegular():
			fmt.Println("  ❌ Error: neither a file nor a directory")
			allOK = false
		default:
			fmt.Println("  ✅ OK")
		}
		fmt.Println()
	}

	if len(cfg.Exclude) > 0 {
		fmt.Println("Exclusions:")
		for _, e := range cfg.Exclude {
			canon, err := discover.Canonicalize(e)
			if err != nil {
				fmt.Printf("  ❌ %s: %v\n", e, err)
				allOK = false
				continue
			}
			if _, err := os.Stat(canon); err != nil {
				fmt.Printf("  ⚠️  %s: does not exist (never matches)\n", e)
				continue
			}
			fmt.Printf("  ✅ %s -> %s\n", e, canon)
		}
		fmt.Println()
	}

	fmt.Printf("Output: %s\n", cfg.Output)
	if cfg.Output == report.StdoutPath {
		fmt.Println("  ✅ stdout")
	} else {
		parent := filepath.Dir(cfg.Output)
		if info, err := os.Stat(parent); err != nil {
			fmt.Printf("  ❌ Parent directory: %v\n", err)
			allOK = false
		} else if !info.IsDir() {
			fmt.Printf("  ❌ Parent %q is not a directory\n", parent)
			allOK = false
		} else {
			fmt.Println("  ✅ OK")
		}
	}
	fmt.Println()

	fmt.Println("Report schema:")
	if _, err := report.CompileSchema(); err != nil {
		fmt.Printf("  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Println("  ✅ Compiles")
	}
	fmt.Println()

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}
