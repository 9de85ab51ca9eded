package patterns

// Confidence bucket boundaries for summary statistics.
const (
	highConfidenceFloor   = 0.8
	mediumConfidenceFloor = 0.6
)

// maxRecommendations caps the recommendation list. Lower-priority
// template recommendations are dropped whole, never truncated.
const maxRecommendations = 5

// distinctAntiLimit is the point past which remaining antipatterns get one
// generic catch-all recommendation instead of individual entries.
const distinctAntiLimit = 3

// Summarize reduces matches to totals, a type/severity breakdown,
// confidence buckets, and prioritized recommendations.
func Summarize(matches []PatternMatch) Summary {
	s := Summary{
		TotalPatterns: len(matches),
		ByType:        make(map[PatternType]int),
		ByName:        make(map[string]int),
		BySeverity:    make(map[Severity]int),
		ByConfidence:  map[string]int{"high": 0, "medium": 0, "low": 0},
	}

	for _, m := range matches {
		s.ByType[m.PatternType]++
		s.ByName[m.PatternName]++
		s.BySeverity[m.Severity]++

		switch {
		case m.Confidence >= highConfidenceFloor:
			s.ByConfidence["high"]++
			s.HighConfidence = append(s.HighConfidence, m)
		case m.Confidence >= mediumConfidenceFloor:
			s.ByConfidence["medium"]++
		default:
			s.ByConfidence["low"]++
		}
	}

	s.Recommendations = recommendations(matches)
	return s
}

// recommendations applies the fixed priority policy: specific antipattern
// templates first, then a generic catch-all once the distinct antipattern
// count passes distinctAntiLimit, capped at maxRecommendations.
func recommendations(matches []PatternMatch) []string {
	counts := make(map[string]int)
	distinctAnti := make(map[string]struct{})
	antiTotal := 0
	for _, m := range matches {
		counts[m.PatternName]++
		if m.PatternType == PatternAnti {
			distinctAnti[m.PatternName] = struct{}{}
			antiTotal++
		}
	}

	var recs []string

	if counts["god_class"] > 0 {
		recs = append(recs, "Break down large classes into smaller, focused components")
	}
	if counts["long_parameter_list"] > 0 {
		recs = append(recs, "Use parameter objects or builder pattern for methods with many parameters")
	}
	if counts["feature_envy"] > 0 {
		recs = append(recs, "Move methods closer to the data they operate on")
	}
	if counts["singleton"] > 3 {
		recs = append(recs, "Consider dependency injection instead of multiple singletons")
	}

	if len(distinctAnti) > distinctAntiLimit || antiTotal > 5 {
		recs = append(recs, "Consider architectural refactoring to address code smells")
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
