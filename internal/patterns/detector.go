package patterns

import (
	"regexp"
	"sort"
	"strings"
)

// Detector matches configured patterns and antipatterns against source
// text. Definitions are compiled once at construction and treated as
// read-only afterwards, so a single Detector is safe to share across
// concurrent file analyses.
type Detector struct {
	patterns   []*compiledPattern
	features   []*compiledFeature
	structural *StructuralAnalyzer
}

type compiledPattern struct {
	name        string
	typ         PatternType
	severity    Severity
	description string
	indicators  []*regexp.Regexp
	excludes    []*regexp.Regexp
}

type compiledFeature struct {
	name      string
	patterns  []*regexp.Regexp
	languages map[string]struct{}
}

// New builds a detector from the configuration directory. Construction
// fails with a *ConfigError on any missing file, schema violation, or
// uncompilable regex.
func New(configDir string) (*Detector, error) {
	sets, err := LoadPatternSets(configDir)
	if err != nil {
		return nil, err
	}
	return fromSets(sets)
}

// NewDefault builds a detector from the embedded default definitions.
func NewDefault() *Detector {
	d, err := fromSets(DefaultPatternSets())
	if err != nil {
		panic(err)
	}
	return d
}

// NewEmpty builds a detector with no pattern definitions. It detects
// nothing, but summary and recommendation operations over externally
// produced matches work as usual.
func NewEmpty() *Detector {
	return &Detector{structural: NewStructuralAnalyzer()}
}

func fromSets(sets *PatternSets) (*Detector, error) {
	d := &Detector{structural: NewStructuralAnalyzer()}

	arch, err := compilePatterns(sets.Architectural, PatternArchitectural)
	if err != nil {
		return nil, err
	}
	anti, err := compilePatterns(sets.Anti, PatternAnti)
	if err != nil {
		return nil, err
	}
	d.patterns = append(arch, anti...)

	for _, name := range sortedKeys(sets.Features) {
		def := sets.Features[name]
		cf := &compiledFeature{name: name, languages: make(map[string]struct{}, len(def.Languages))}
		for _, lang := range def.Languages {
			cf.languages[lang] = struct{}{}
		}
		for _, pat := range def.Patterns {
			re, err := regexp.Compile(pat)
			if err != nil {
				return nil, configErrorf("", "language feature %q pattern %q: %v", name, pat, err)
			}
			cf.patterns = append(cf.patterns, re)
		}
		d.features = append(d.features, cf)
	}

	return d, nil
}

func compilePatterns(defs map[string]PatternDef, typ PatternType) ([]*compiledPattern, error) {
	var out []*compiledPattern
	for _, name := range sortedKeys(defs) {
		def := defs[name]
		cp := &compiledPattern{
			name:        name,
			typ:         typ,
			severity:    def.Severity,
			description: def.Description,
		}
		for _, ind := range def.Indicators {
			re, err := regexp.Compile(ind)
			if err != nil {
				return nil, configErrorf("", "pattern %q indicator %q: %v", name, ind, err)
			}
			cp.indicators = append(cp.indicators, re)
		}
		for _, excl := range def.ExcludePatterns {
			// Exclusions are matched case-insensitively.
			re, err := regexp.Compile("(?i)" + excl)
			if err != nil {
				return nil, configErrorf("", "pattern %q exclude %q: %v", name, excl, err)
			}
			cp.excludes = append(cp.excludes, re)
		}
		out = append(out, cp)
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DetectPatterns runs lexical detection over the file content. The
// declared language drives feature suppression: lines carrying markers of
// a language feature applicable to that language never produce pattern
// matches.
func (d *Detector) DetectPatterns(content, filePath, language string) []PatternMatch {
	lines := strings.Split(content, "\n")
	scan := d.LanguageFeatures(content, language)

	var matches []PatternMatch
	for _, p := range d.patterns {
		matches = append(matches, matchPattern(p, lines, scan.Lines)...)
	}
	return matches
}

// matchPattern scans every line for the pattern's indicators. A line is
// skipped when it carries a language feature marker or matches one of the
// pattern's exclude regexes. The first indicator to hit a line wins; a
// line is never matched twice for the same pattern.
func matchPattern(p *compiledPattern, lines []string, featureLines map[int]struct{}) []PatternMatch {
	var out []PatternMatch
	for i, line := range lines {
		lineNo := i + 1
		if _, feature := featureLines[lineNo]; feature {
			continue
		}
		if excludedLine(p, line) {
			continue
		}
		for _, ind := range p.indicators {
			if !ind.MatchString(line) {
				continue
			}
			confidence := scoreMatch(line, lines, i, p.name)
			if gated(p.name) && confidence < AcceptThreshold {
				break
			}
			out = append(out, PatternMatch{
				PatternType: p.typ,
				PatternName: p.name,
				Severity:    p.severity,
				Description: p.description,
				LineNumber:  lineNo,
				Context:     strings.TrimSpace(line),
				Confidence:  confidence,
			})
			break
		}
	}
	return out
}

func excludedLine(p *compiledPattern, line string) bool {
	for _, re := range p.excludes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// AnalyzeStructure runs tree-based structural detection. Only languages
// reported by Structural().Supports have tree support; malformed source
// yields an empty list.
func (d *Detector) AnalyzeStructure(content, filePath string) []PatternMatch {
	return d.structural.Analyze([]byte(content), filePath)
}

// Structural exposes the structural analyzer so hosts can check language
// support before calling AnalyzeStructure.
func (d *Detector) Structural() *StructuralAnalyzer {
	return d.structural
}

// GetPatternSummary aggregates matches into counts, severity breakdown,
// and capped recommendations.
func (d *Detector) GetPatternSummary(matches []PatternMatch) Summary {
	return Summarize(matches)
}
