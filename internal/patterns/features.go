package patterns

import (
	"sort"
	"strings"
)

// FeatureScan is the result of language feature identification for one
// file: which features were seen and which line numbers carry their
// markers. Marker lines are suppression lines for the lexical matcher.
type FeatureScan struct {
	Names []string
	Lines map[int]struct{}
}

// LanguageFeatures scans content line by line for language feature
// markers. A feature contributes only when its declared language set
// includes the given language; a marker that belongs to an unrelated
// language is ignored entirely. This is what prevents, say, a visibility
// modifier from one language family being misreported against files of
// another.
func (d *Detector) LanguageFeatures(content, language string) FeatureScan {
	scan := FeatureScan{Lines: make(map[int]struct{})}
	names := make(map[string]struct{})

	for i, line := range strings.Split(content, "\n") {
		for _, f := range d.features {
			if _, ok := f.languages[language]; !ok {
				continue
			}
			for _, re := range f.patterns {
				if re.MatchString(line) {
					scan.Lines[i+1] = struct{}{}
					names[f.name] = struct{}{}
					break
				}
			}
		}
	}

	for name := range names {
		scan.Names = append(scan.Names, name)
	}
	sort.Strings(scan.Names)
	return scan
}
