package patterns

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/archlens/archlens/internal/jsonc"
	"github.com/archlens/archlens/schemas"
)

// Configuration file names expected inside a pattern config directory.
const (
	ArchitecturalPatternsFile = "architectural_patterns.json"
	AntipatternsFile          = "antipatterns.json"
	LanguageFeaturesFile      = "language_features.json"
)

//go:embed defaults/*.json
var defaultsFS embed.FS

// ConfigError reports an invalid or missing configuration document. It is
// fatal: detector construction aborts, there is no degraded state.
type ConfigError struct {
	Path string
	Msg  string
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("pattern config %s: %s", e.Path, e.Msg)
	}
	return "pattern config: " + e.Msg
}

func configErrorf(path, format string, args ...any) *ConfigError {
	return &ConfigError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// PatternDef describes one pattern or antipattern entry as authored in
// configuration. Immutable once loaded.
type PatternDef struct {
	Indicators      []string `json:"indicators"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty"`
	Severity        Severity `json:"severity"`
	Description     string   `json:"description"`
}

// FeatureDef describes a language feature marker: a lexical construct that
// belongs to specific language syntaxes and must never be reported as a
// pattern finding.
type FeatureDef struct {
	Patterns    []string `json:"patterns"`
	Languages   []string `json:"languages"`
	Description string   `json:"description"`
}

// PatternSets holds the three validated configuration documents.
type PatternSets struct {
	Architectural map[string]PatternDef
	Anti          map[string]PatternDef
	Features      map[string]FeatureDef
}

type patternDocument struct {
	SchemaVersion int                   `json:"schema_version"`
	Patterns      map[string]PatternDef `json:"patterns"`
}

type featureDocument struct {
	SchemaVersion int                   `json:"schema_version"`
	Features      map[string]FeatureDef `json:"features"`
}

// LoadPatternSets reads and validates the three configuration documents
// from dir. Any missing file, malformed JSON, or schema violation is a
// *ConfigError.
func LoadPatternSets(dir string) (*PatternSets, error) {
	arch, err := loadPatternDocument(filepath.Join(dir, ArchitecturalPatternsFile))
	if err != nil {
		return nil, err
	}
	anti, err := loadPatternDocument(filepath.Join(dir, AntipatternsFile))
	if err != nil {
		return nil, err
	}
	features, err := loadFeatureDocument(filepath.Join(dir, LanguageFeaturesFile))
	if err != nil {
		return nil, err
	}
	return &PatternSets{Architectural: arch, Anti: anti, Features: features}, nil
}

// DefaultPatternSets returns the embedded default configuration. The
// embedded documents pass the same schema validation as external ones;
// a failure here means the binary itself is broken.
func DefaultPatternSets() *PatternSets {
	sets, err := loadEmbeddedSets()
	if err != nil {
		panic(fmt.Sprintf("embedded pattern config: %v", err))
	}
	return sets
}

func loadEmbeddedSets() (*PatternSets, error) {
	arch, err := decodePatternDocument("defaults/"+ArchitecturalPatternsFile, mustEmbedded(ArchitecturalPatternsFile))
	if err != nil {
		return nil, err
	}
	anti, err := decodePatternDocument("defaults/"+AntipatternsFile, mustEmbedded(AntipatternsFile))
	if err != nil {
		return nil, err
	}
	features, err := decodeFeatureDocument("defaults/"+LanguageFeaturesFile, mustEmbedded(LanguageFeaturesFile))
	if err != nil {
		return nil, err
	}
	return &PatternSets{Architectural: arch, Anti: anti, Features: features}, nil
}

func mustEmbedded(name string) []byte {
	b, err := defaultsFS.ReadFile("defaults/" + name)
	if err != nil {
		panic(fmt.Sprintf("embedded pattern config %s: %v", name, err))
	}
	return b
}

func loadPatternDocument(path string) (map[string]PatternDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, configErrorf(path, "read: %v", err)
	}
	return decodePatternDocument(path, raw)
}

func decodePatternDocument(path string, raw []byte) (map[string]PatternDef, error) {
	clean := jsonc.Clean(raw)
	if err := schemas.Validate(schemas.PatternSet, clean); err != nil {
		return nil, configErrorf(path, "%v", err)
	}
	var doc patternDocument
	if err := json.Unmarshal(clean, &doc); err != nil {
		return nil, configErrorf(path, "decode: %v", err)
	}
	return doc.Patterns, nil
}

func loadFeatureDocument(path string) (map[string]FeatureDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, configErrorf(path, "read: %v", err)
	}
	return decodeFeatureDocument(path, raw)
}

func decodeFeatureDocument(path string, raw []byte) (map[string]FeatureDef, error) {
	clean := jsonc.Clean(raw)
	if err := schemas.Validate(schemas.LanguageFeatures, clean); err != nil {
		return nil, configErrorf(path, "%v", err)
	}
	var doc featureDocument
	if err := json.Unmarshal(clean, &doc); err != nil {
		return nil, configErrorf(path, "decode: %v", err)
	}
	return doc.Features, nil
}

// TechStack describes one technology stack's file layout hints. The scan
// engine uses exclude_patterns and dependency_dirs to skip generated and
// third-party trees.
type TechStack struct {
	Name                string   `json:"name"`
	PrimaryLanguages    []string `json:"primary_languages"`
	ExcludePatterns     []string `json:"exclude_patterns"`
	DependencyDirs      []string `json:"dependency_dirs"`
	ConfigFiles         []string `json:"config_files"`
	SourcePatterns      []string `json:"source_patterns"`
	BuildArtifacts      []string `json:"build_artifacts"`
	BoilerplatePatterns []string `json:"boilerplate_patterns,omitempty"`
}

type techStackDocument struct {
	SchemaVersion int                  `json:"schema_version"`
	Stacks        map[string]TechStack `json:"stacks"`
}

// LoadTechStacks loads tech stack definitions from a single JSON file,
// validating shape before any scanning occurs.
func LoadTechStacks(path string) (map[string]TechStack, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, configErrorf(path, "read: %v", err)
	}
	clean := jsonc.Clean(raw)
	if err := schemas.Validate(schemas.TechStacks, clean); err != nil {
		return nil, configErrorf(path, "%v", err)
	}
	var doc techStackDocument
	if err := json.Unmarshal(clean, &doc); err != nil {
		return nil, configErrorf(path, "decode: %v", err)
	}
	return doc.Stacks, nil
}
