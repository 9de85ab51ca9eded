// Package cli implements the archlens command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/archlens/archlens/internal/logger"
	"github.com/archlens/archlens/internal/scan"
	"github.com/archlens/archlens/internal/store"
)

// Run dispatches the CLI arguments to a subcommand.
func Run(args []string) error {
	if len(args) == 0 {
		return usage()
	}
	switch args[0] {
	case "version", "--version", "-v":
		return cmdVersion()
	case "analyze":
		return cmdAnalyze(args[1:])
	case "runs":
		return cmdRuns(args[1:])
	case "help", "-h", "--help":
		return usage()
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func usage() error {
	fmt.Println(`archlens commands: analyze | runs | version

Examples:
  archlens analyze path/to/file.py
  archlens analyze src/ --language python --json
  archlens analyze src/ --config ./patterns --save results.db
  archlens runs --db results.db`)
	return nil
}

func cmdAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	configDir := fs.String("config", "", "pattern configuration directory (default: embedded)")
	language := fs.String("language", "", "force language tag instead of detecting by extension")
	stacks := fs.String("stacks", "", "tech_stacks.json providing exclude globs")
	asJSON := fs.Bool("json", false, "emit the full result as JSON")
	savePath := fs.String("save", "", "persist the run to this sqlite database")
	verbose := fs.Bool("verbose", false, "verbose progress output")
	debug := fs.Bool("debug", false, "debug output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("analyze: expected exactly one path argument")
	}
	setLogLevel(*verbose, *debug)

	res, err := scan.Run(context.Background(), fs.Arg(0), scan.Options{
		ConfigDir:      *configDir,
		TechStacksPath: *stacks,
		Language:       *language,
	})
	if err != nil {
		return err
	}

	if *savePath != "" {
		if err := saveRun(*savePath, res); err != nil {
			return err
		}
		logger.Info("saved run %s to %s", res.RunID, *savePath)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printResult(res)
	return nil
}

func printResult(res *scan.Result) {
	fmt.Printf("Pattern Analysis Results: %s\n", res.Root)
	fmt.Println("==================================================")
	fmt.Printf("Files scanned: %d\n", res.FilesScanned)
	fmt.Printf("Total patterns detected: %d\n", res.Summary.TotalPatterns)
	fmt.Printf("High confidence patterns: %d\n", len(res.Summary.HighConfidence))

	if res.Summary.TotalPatterns > 0 {
		fmt.Println("\nDetected Patterns:")
		for _, file := range res.Files {
			for _, m := range file.Matches {
				fmt.Printf("  %s (%s:%d, confidence: %.2f)\n", m.PatternName, file.Path, m.LineNumber, m.Confidence)
				fmt.Printf("    %s\n", m.Description)
				fmt.Printf("    Context: %s\n", m.Context)
			}
		}
	}

	if len(res.Summary.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range res.Summary.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
}

func saveRun(path string, res *scan.Result) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	run := store.Run{
		ID:            res.RunID,
		Root:          res.Root,
		StartedAt:     res.StartedAt,
		DurationMS:    res.Duration.Milliseconds(),
		FilesScanned:  res.FilesScanned,
		TotalPatterns: res.Summary.TotalPatterns,
	}
	if err := db.AddRun(run); err != nil {
		return err
	}
	for _, file := range res.Files {
		for _, m := range file.Matches {
			if _, err := db.AddMatch(res.RunID, file.Path, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func cmdRuns(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	dbPath := fs.String("db", "results.db", "results database path")
	limit := fs.Int("limit", 10, "number of runs to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.RecentRuns(*limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  files=%d patterns=%d (%dms)\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.FilesScanned, r.TotalPatterns, r.DurationMS)
	}
	return nil
}

func setLogLevel(verbose, debug bool) {
	switch {
	case debug:
		logger.SetLevel(logger.LevelDebug)
	case verbose:
		logger.SetLevel(logger.LevelInfo)
	}
}
