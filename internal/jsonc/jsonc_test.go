package jsonc_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/archlens/archlens/internal/jsonc"
)

func TestDecodeFileToleratesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
	  // line comment
	  "name": "singleton", /* inline */
	  "indicators": ["_instance"],
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Name       string   `json:"name"`
		Indicators []string `json:"indicators"`
	}
	if err := jsonc.DecodeFile(path, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Name != "singleton" {
		t.Errorf("name = %q, want singleton", doc.Name)
	}
	if len(doc.Indicators) != 1 || doc.Indicators[0] != "_instance" {
		t.Errorf("indicators = %v", doc.Indicators)
	}
}

func TestDecodeFileMissing(t *testing.T) {
	var doc map[string]any
	if err := jsonc.DecodeFile(filepath.Join(t.TempDir(), "absent.json"), &doc); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDecodeFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"unterminated": `), 0o644); err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := jsonc.DecodeFile(path, &doc); err == nil {
		t.Error("expected parse error")
	}
}

func TestCleanPreservesStringContents(t *testing.T) {
	// Comment markers inside string values must survive cleaning.
	in := []byte(`{"url": "http://example.com", "note": "a // b"}`)
	var doc map[string]string
	if err := json.Unmarshal(jsonc.Clean(in), &doc); err != nil {
		t.Fatal(err)
	}
	if doc["url"] != "http://example.com" || doc["note"] != "a // b" {
		t.Errorf("doc = %v", doc)
	}
}
