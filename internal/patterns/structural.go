package patterns

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Structural thresholds. Shape metrics are the evidence here, so matches
// carry a fixed high confidence instead of a lexically scored one.
const (
	godClassMethodLimit  = 15
	longParameterLimit   = 5
	structuralConfidence = 0.9
)

// StructuralAnalyzer detects size/shape antipatterns that regex cannot
// express reliably, by walking a tree-sitter syntax tree. Only Python has
// tree support; hosts check Supports before calling Analyze.
type StructuralAnalyzer struct{}

// NewStructuralAnalyzer creates a structural analyzer.
func NewStructuralAnalyzer() *StructuralAnalyzer {
	return &StructuralAnalyzer{}
}

// Supports reports whether the analyzer can build a syntax tree for the
// given language tag.
func (a *StructuralAnalyzer) Supports(language string) bool {
	return language == "python"
}

// Analyze parses the content and emits structural antipattern matches.
// Malformed source is a soft condition: the result is simply empty. A
// fresh parser per call keeps the analyzer safe for concurrent use.
func (a *StructuralAnalyzer) Analyze(content []byte, filePath string) []PatternMatch {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil
	}

	lines := strings.Split(string(content), "\n")
	var matches []PatternMatch
	walk(root, content, lines, &matches)
	return matches
}

func walk(node *sitter.Node, content []byte, lines []string, out *[]PatternMatch) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "class_definition":
			if m := checkGodClass(child, content, lines); m != nil {
				*out = append(*out, *m)
			}
		case "function_definition":
			if m := checkParameterList(child, content, lines); m != nil {
				*out = append(*out, *m)
			}
		}
		walk(child, content, lines, out)
	}
}

// checkGodClass counts the methods declared directly in a class body,
// including decorated ones.
func checkGodClass(node *sitter.Node, content []byte, lines []string) *PatternMatch {
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	methodCount := 0
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "function_definition":
			methodCount++
		case "decorated_definition":
			for j := 0; j < int(child.ChildCount()); j++ {
				if inner := child.Child(j); inner != nil && inner.Type() == "function_definition" {
					methodCount++
				}
			}
		}
	}

	if methodCount <= godClassMethodLimit {
		return nil
	}

	lineNo := int(node.StartPoint().Row) + 1
	return &PatternMatch{
		PatternType: PatternAnti,
		PatternName: "god_class",
		Severity:    SeverityHigh,
		Description: fmt.Sprintf("God class with %d methods", methodCount),
		LineNumber:  lineNo,
		Context:     lineAt(lines, lineNo),
		Confidence:  structuralConfidence,
	}
}

// checkParameterList counts positional parameters, excluding a leading
// self/cls receiver.
func checkParameterList(node *sitter.Node, content []byte, lines []string) *PatternMatch {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}

	paramCount := 0
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		if child == nil {
			continue
		}
		name, positional := parameterName(child, content)
		if !positional {
			continue
		}
		if paramCount == 0 && (name == "self" || name == "cls") {
			continue
		}
		paramCount++
	}

	if paramCount <= longParameterLimit {
		return nil
	}

	lineNo := int(node.StartPoint().Row) + 1
	return &PatternMatch{
		PatternType: PatternAnti,
		PatternName: "long_parameter_list",
		Severity:    SeverityMedium,
		Description: fmt.Sprintf("Function with %d parameters", paramCount),
		LineNumber:  lineNo,
		Context:     lineAt(lines, lineNo),
		Confidence:  structuralConfidence,
	}
}

// parameterName extracts the identifier of a positional parameter node.
// Splat, keyword-only separators, and punctuation report positional=false.
func parameterName(node *sitter.Node, content []byte) (string, bool) {
	switch node.Type() {
	case "identifier":
		return node.Content(content), true
	case "typed_parameter":
		for i := 0; i < int(node.ChildCount()); i++ {
			if c := node.Child(i); c != nil && c.Type() == "identifier" {
				return c.Content(content), true
			}
		}
		return "", true
	case "default_parameter", "typed_default_parameter":
		if name := node.ChildByFieldName("name"); name != nil {
			return name.Content(content), true
		}
		return "", true
	default:
		return "", false
	}
}

func lineAt(lines []string, lineNo int) string {
	if lineNo < 1 || lineNo > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[lineNo-1])
}
