package cli_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/archlens/archlens/internal/cli"
	"github.com/archlens/archlens/internal/store"
)

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	runErr := fn()
	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out), runErr
}

func TestRunUnknownCommand(t *testing.T) {
	err := cli.Run([]string{"bogus"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("err = %v, want unknown command", err)
	}
}

func TestRunNoArgsShowsUsage(t *testing.T) {
	out, err := captureStdout(t, func() error { return cli.Run(nil) })
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "analyze") {
		t.Errorf("usage output = %q, want subcommand listing", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := captureStdout(t, func() error { return cli.Run([]string{"version"}) })
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, cli.Version) {
		t.Errorf("version output = %q, want %q", out, cli.Version)
	}
}

func TestAnalyzeRequiresOnePath(t *testing.T) {
	if err := cli.Run([]string{"analyze"}); err == nil {
		t.Error("expected error without a path argument")
	}
	if err := cli.Run([]string{"analyze", "a.py", "b.py"}); err == nil {
		t.Error("expected error with two path arguments")
	}
}

func TestAnalyzeTextOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "config.py")
	content := "class Config:\n    _instance = None\n\n    def __new__(cls):\n        return cls._instance\n"
	if err := os.WriteFile(src, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := captureStdout(t, func() error {
		return cli.Run([]string{"analyze", src})
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Pattern Analysis Results") {
		t.Errorf("output = %q, want report header", out)
	}
	if !strings.Contains(out, "singleton") {
		t.Errorf("output = %q, want singleton finding", out)
	}
}

func TestAnalyzeJSONAndSave(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "config.py")
	content := "class Config:\n    _instance = None\n\n    def __new__(cls):\n        return cls._instance\n"
	if err := os.WriteFile(src, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	dbPath := filepath.Join(dir, "results.db")

	out, err := captureStdout(t, func() error {
		return cli.Run([]string{"analyze", "--json", "--save", dbPath, src})
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"run_id"`) || !strings.Contains(out, `"summary"`) {
		t.Errorf("JSON output = %q, want run_id and summary fields", out)
	}

	db, err := store.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	runs, err := db.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("persisted runs = %d, want 1", len(runs))
	}
	matches, err := db.MatchesForRun(runs[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) == 0 {
		t.Error("expected persisted matches for the run")
	}

	out, err = captureStdout(t, func() error {
		return cli.Run([]string{"runs", "--db", dbPath})
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, runs[0].ID) {
		t.Errorf("runs output = %q, want run ID %s", out, runs[0].ID)
	}
}
