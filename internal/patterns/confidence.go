package patterns

import (
	"math"
	"regexp"
	"strings"
)

// Tunable scoring constants. Magnitudes are empirically chosen; tests pin
// relative ordering rather than exact values.
const (
	// BaseConfidence is the starting score for any lexical match,
	// including patterns with no registered scorer.
	BaseConfidence = 0.5

	// AcceptThreshold gates confidence-gated patterns: their matches are
	// dropped below this score. Other patterns surface with whatever
	// clamped score the scorer produced.
	AcceptThreshold = 0.7

	// scorerWindow is how many lines either side of a match the
	// pattern-specific scorers and the richness bonus get to see.
	scorerWindow = 5

	richnessBonus    = 0.1
	decoratorPenalty = 0.2
	docBlockPenalty  = 0.3
	commentPenalty   = 0.1
)

var (
	decoratorRe   = regexp.MustCompile(`@\w+`)
	docBlockRe    = regexp.MustCompile(`/\*\*.*\*/`)
	declKeywordRe = regexp.MustCompile(`\b(class|def|func)\b`)
	methodDefRe   = regexp.MustCompile(`def\s+\w+`)
)

// scorerFunc inspects the window of text around a match and returns an
// additive adjustment to the base score.
type scorerFunc func(window string) float64

// patternScorers is the strategy table for pattern-specific heuristics.
// Unknown pattern names fall back to BaseConfidence alone.
var patternScorers = map[string]scorerFunc{
	"singleton":  scoreSingleton,
	"factory":    scoreFactory,
	"observer":   scoreObserver,
	"repository": scoreRepository,
	"god_class":  scoreGodClass,
}

// gatedPatterns lists patterns whose lexical signature is noisy enough to
// require AcceptThreshold before a match surfaces.
var gatedPatterns = map[string]struct{}{
	"singleton": {},
}

func gated(name string) bool {
	_, ok := gatedPatterns[name]
	return ok
}

// scoreMatch computes the confidence for a match on lines[idx]. The
// pattern scorer and richness bonus see a window around the line;
// comment-adjacency penalties look at the matched line itself. The result
// is always clamped to [0,1].
func scoreMatch(line string, lines []string, idx int, patternName string) float64 {
	score := BaseConfidence
	window := contextWindow(lines, idx)

	if scorer, ok := patternScorers[patternName]; ok {
		score += scorer(window)
	}

	// A declaration keyword near the match suggests real structure rather
	// than incidental text.
	if declKeywordRe.MatchString(window) && !declKeywordRe.MatchString(line) {
		score += richnessBonus
	}

	// Downweight likely comment or documentation discussion of a pattern.
	if decoratorRe.MatchString(line) {
		score -= decoratorPenalty
	}
	if docBlockRe.MatchString(line) {
		score -= docBlockPenalty
	}
	if strings.Contains(line, "#") {
		score -= commentPenalty
	}

	return clamp(score, 0.0, 1.0)
}

// contextWindow joins the lines around idx, scorerWindow either side.
func contextWindow(lines []string, idx int) string {
	lo := max(idx-scorerWindow, 0)
	hi := min(idx+scorerWindow+1, len(lines))
	return strings.Join(lines[lo:hi], "\n")
}

func scoreSingleton(window string) float64 {
	score := 0.0
	if strings.Contains(window, "_instance") && strings.Contains(window, "None") {
		score += 0.3
	}
	if strings.Contains(window, "__new__") {
		score += 0.2
	}
	return score
}

func scoreFactory(window string) float64 {
	score := 0.0
	low := strings.ToLower(window)
	if strings.Contains(low, "create") && strings.Contains(window, "return") {
		score += 0.3
	}
	if strings.Contains(window, "Factory") {
		score += 0.2
	}
	return score
}

func scoreObserver(window string) float64 {
	low := strings.ToLower(window)
	if strings.Contains(low, "observer") && (strings.Contains(low, "notify") || strings.Contains(low, "update")) {
		return 0.4
	}
	return 0.0
}

func scoreRepository(window string) float64 {
	low := strings.ToLower(window)
	if !strings.Contains(low, "repository") {
		return 0.0
	}
	for _, op := range []string{"find", "save", "delete"} {
		if strings.Contains(low, op) {
			return 0.4
		}
	}
	return 0.0
}

func scoreGodClass(window string) float64 {
	methodCount := len(methodDefRe.FindAllString(window, -1))
	if methodCount > 10 {
		return math.Min(0.4, float64(methodCount)*0.02)
	}
	return 0.0
}

func clamp(value, minVal, maxVal float64) float64 {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}
