// Package scan drives pattern detection across files and directories.
// The detector itself never touches the filesystem; this package reads
// sources, picks the language, and merges lexical and structural results.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/archlens/archlens/internal/logger"
	"github.com/archlens/archlens/internal/patterns"
)

// Options configures a scan run.
type Options struct {
	// ConfigDir is the pattern configuration directory. Empty means the
	// embedded default definitions.
	ConfigDir string

	// TechStacksPath optionally points at a tech_stacks.json whose
	// exclude_patterns and dependency_dirs become ignore globs.
	TechStacksPath string

	// IgnoreGlobs are doublestar patterns matched against paths relative
	// to the scan root.
	IgnoreGlobs []string

	// Language forces a language tag for every file instead of detecting
	// by extension.
	Language string
}

// FileResult holds the matches found in one file.
type FileResult struct {
	Path     string                  `json:"path"`
	Language string                  `json:"language"`
	Matches  []patterns.PatternMatch `json:"matches"`
}

// Result is the outcome of one scan run.
type Result struct {
	RunID        string           `json:"run_id"`
	Root         string           `json:"root"`
	StartedAt    time.Time        `json:"started_at"`
	Duration     time.Duration    `json:"duration"`
	FilesScanned int              `json:"files_scanned"`
	Files        []FileResult     `json:"files"`
	Summary      patterns.Summary `json:"summary"`
}

var skipDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"vendor":       {},
	"__pycache__":  {},
	"dist":         {},
	"build":        {},
	".next":        {},
}

// Run analyzes root, which may be a single file or a directory tree.
func Run(ctx context.Context, root string, opts Options) (*Result, error) {
	detector, err := newDetector(opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	ignore, err := ignoreGlobs(opts)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:     "run_" + uuid.New().String()[:8],
		Root:      root,
		StartedAt: time.Now().UTC(),
	}

	files, err := collectFiles(root, ignore)
	if err != nil {
		return nil, err
	}

	var all []patterns.PatternMatch
	for _, path := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		language := opts.Language
		if language == "" {
			language = DetectLanguage(path)
		}
		if language == "" {
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			logger.Error("read %s: %v", path, err)
			continue
		}

		matches := analyzeFile(detector, string(content), path, language)
		res.FilesScanned++
		logger.Debug("%s: %d matches", path, len(matches))
		if len(matches) == 0 {
			continue
		}

		res.Files = append(res.Files, FileResult{Path: path, Language: language, Matches: matches})
		all = append(all, matches...)
	}

	res.Summary = patterns.Summarize(all)
	res.Duration = time.Since(res.StartedAt)
	logger.Info("scanned %d files, %d matches", res.FilesScanned, len(all))
	return res, nil
}

func newDetector(configDir string) (*patterns.Detector, error) {
	if configDir == "" {
		return patterns.NewDefault(), nil
	}
	return patterns.New(configDir)
}

// analyzeFile merges lexical and, where supported, structural matches for
// a single file, deduplicated by (pattern, line).
func analyzeFile(d *patterns.Detector, content, path, language string) []patterns.PatternMatch {
	matches := d.DetectPatterns(content, path, language)
	if d.Structural().Supports(language) {
		matches = append(matches, d.AnalyzeStructure(content, path)...)
	}
	return patterns.Dedupe(matches)
}

// ignoreGlobs merges explicit globs with exclude patterns drawn from the
// tech stack configuration, when one is supplied.
func ignoreGlobs(opts Options) ([]string, error) {
	globs := append([]string(nil), opts.IgnoreGlobs...)
	if opts.TechStacksPath == "" {
		return globs, nil
	}

	stacks, err := patterns.LoadTechStacks(opts.TechStacksPath)
	if err != nil {
		return nil, err
	}
	for _, stack := range stacks {
		globs = append(globs, stack.ExcludePatterns...)
		for _, dir := range stack.DependencyDirs {
			globs = append(globs, dir+"/**")
		}
	}
	return globs, nil
}

// collectFiles gathers candidate files under root, honoring ignore globs.
// A root that is a regular file is returned as-is.
func collectFiles(root string, ignore []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // inaccessible entries are skipped
		}
		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		for _, glob := range ignore {
			if matched, _ := doublestar.Match(glob, rel); matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	return files, err
}
