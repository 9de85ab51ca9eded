// Package patterns detects architectural design patterns and antipatterns
// in source text. Detection combines configuration-driven regex indicators,
// language-aware feature filtering, per-match confidence scoring, and
// tree-sitter structural analysis, and reduces the results to a ranked
// summary with recommendations.
package patterns

// PatternType classifies a match as a design pattern or a code smell.
type PatternType string

const (
	// PatternArchitectural marks an intentional design pattern occurrence.
	PatternArchitectural PatternType = "architectural"
	// PatternAnti marks an antipattern / code smell occurrence.
	PatternAnti PatternType = "anti"
)

// Severity labels how urgent a finding is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// PatternMatch is one detected occurrence of a pattern or antipattern.
// Matches are never mutated after creation; corrections happen by
// discarding and re-scoring.
type PatternMatch struct {
	PatternType PatternType `json:"pattern_type"`
	PatternName string      `json:"pattern_name"`
	Severity    Severity    `json:"severity"`
	Description string      `json:"description"`
	LineNumber  int         `json:"line_number"`
	Context     string      `json:"context"`
	Confidence  float64     `json:"confidence"`

	// IsLanguageFeature is internal suppression bookkeeping and is never
	// surfaced as a user-facing finding.
	IsLanguageFeature bool `json:"is_language_feature"`
}

// Summary aggregates a list of matches into counts and recommendations.
type Summary struct {
	TotalPatterns   int                 `json:"total_patterns"`
	ByType          map[PatternType]int `json:"patterns_by_type"`
	ByName          map[string]int      `json:"patterns_by_name"`
	BySeverity      map[Severity]int    `json:"patterns_by_severity"`
	ByConfidence    map[string]int      `json:"patterns_by_confidence"`
	HighConfidence  []PatternMatch      `json:"high_confidence_patterns"`
	Recommendations []string            `json:"recommendations"`
}

// Dedupe drops repeated (pattern_name, line_number) pairs, keeping the
// first occurrence. Lexical and structural results are merged through this
// before summarization.
func Dedupe(matches []PatternMatch) []PatternMatch {
	type key struct {
		name string
		line int
	}
	seen := make(map[key]struct{}, len(matches))
	out := make([]PatternMatch, 0, len(matches))
	for _, m := range matches {
		k := key{m.PatternName, m.LineNumber}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, m)
	}
	return out
}
