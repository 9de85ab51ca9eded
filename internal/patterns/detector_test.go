package patterns_test

import (
	"testing"

	"github.com/archlens/archlens/internal/patterns"
)

const singletonSnippet = `class Config:
    _instance = None

    def __new__(cls):
        if cls._instance is None:
            cls._instance = super().__new__(cls)
        return cls._instance
`

func TestDetectPatternsSingletonAboveThreshold(t *testing.T) {
	d := patterns.NewDefault()

	matches := d.DetectPatterns(singletonSnippet, "config.py", "python")
	if len(matches) == 0 {
		t.Fatal("expected singleton matches")
	}
	for _, m := range matches {
		if m.PatternName != "singleton" {
			continue
		}
		if m.Confidence < patterns.AcceptThreshold {
			t.Errorf("singleton match at line %d has confidence %.2f, want >= %.2f",
				m.LineNumber, m.Confidence, patterns.AcceptThreshold)
		}
		if m.PatternType != patterns.PatternArchitectural {
			t.Errorf("singleton pattern type = %s, want architectural", m.PatternType)
		}
	}
}

func TestDetectPatternsExcludedLinesSuppressed(t *testing.T) {
	// Same indicators as the default singleton, but every guard line is
	// excluded, so nothing may surface.
	arch := `{
	  "schema_version": 1,
	  "patterns": {
	    "singleton": {
	      "indicators": ["_instance\\s*(=|is)\\s*None"],
	      "exclude_patterns": ["_instance"],
	      "severity": "medium",
	      "description": "d"
	    }
	  }
	}`
	dir := writeConfigDir(t, arch, validAnti, validFeatures)
	d, err := patterns.New(dir)
	if err != nil {
		t.Fatal(err)
	}

	if matches := d.DetectPatterns(singletonSnippet, "config.py", "python"); len(matches) != 0 {
		t.Errorf("got %d matches on excluded lines, want 0", len(matches))
	}
}

func TestDetectPatternsOneMatchPerLinePerPattern(t *testing.T) {
	// Two indicators hit the same line; only the first may produce a match.
	arch := `{
	  "schema_version": 1,
	  "patterns": {
	    "registry": {
	      "indicators": ["register", "reg\\w+"],
	      "severity": "info",
	      "description": "d"
	    }
	  }
	}`
	dir := writeConfigDir(t, arch, validAnti, validFeatures)
	d, err := patterns.New(dir)
	if err != nil {
		t.Fatal(err)
	}

	matches := d.DetectPatterns("def register(handler):\n", "reg.py", "python")
	if len(matches) != 1 {
		t.Fatalf("got %d matches for one line, want 1", len(matches))
	}
	if matches[0].LineNumber != 1 {
		t.Errorf("line number = %d, want 1", matches[0].LineNumber)
	}
	if matches[0].Context != "def register(handler):" {
		t.Errorf("context = %q, want trimmed matched line", matches[0].Context)
	}
}

func TestDetectPatternsAntiClassification(t *testing.T) {
	d := patterns.NewDefault()

	content := "class PaymentManager:\n    pass\n"
	matches := d.DetectPatterns(content, "m.py", "python")

	found := false
	for _, m := range matches {
		if m.PatternName == "god_class" {
			found = true
			if m.PatternType != patterns.PatternAnti {
				t.Errorf("god_class type = %s, want anti", m.PatternType)
			}
			if m.Severity != patterns.SeverityHigh {
				t.Errorf("god_class severity = %s, want high", m.Severity)
			}
		}
	}
	if !found {
		t.Fatal("expected lexical god_class match")
	}
}

func TestDetectPatternsUngatedSurfacesBelowThreshold(t *testing.T) {
	// magic_numbers has no registered scorer, so its confidence stays
	// around the base; it must still surface because it is not gated.
	d := patterns.NewDefault()

	matches := d.DetectPatterns("if retries == 10000:\n    pass\n", "r.py", "python")
	found := false
	for _, m := range matches {
		if m.PatternName == "magic_numbers" {
			found = true
			if m.Confidence >= patterns.AcceptThreshold {
				t.Errorf("magic_numbers confidence = %.2f, expected below threshold", m.Confidence)
			}
		}
	}
	if !found {
		t.Fatal("expected ungated magic_numbers match to surface")
	}
}

func TestNewEmptyDetectorSummarizesExternalMatches(t *testing.T) {
	d := patterns.NewEmpty()

	if matches := d.DetectPatterns(singletonSnippet, "x.py", "python"); len(matches) != 0 {
		t.Errorf("empty detector produced %d matches, want 0", len(matches))
	}

	external := []patterns.PatternMatch{
		{PatternType: patterns.PatternAnti, PatternName: "god_class", Severity: patterns.SeverityHigh, LineNumber: 1, Confidence: 0.9},
	}
	summary := d.GetPatternSummary(external)
	if summary.TotalPatterns != 1 {
		t.Errorf("total = %d, want 1", summary.TotalPatterns)
	}
}
