package parser

import (
	"regexp"
	"strings"
)

// functionDefPatterns recognize the definition shapes the engine understands:
// declarations, arrow and function-expression assignments, and object
// method shorthand.
var functionDefPatterns = []*regexp.Regexp{
	// function foo(...) / async function foo(...)
	regexp.MustCompile(`(?:^|\s)(?:async\s+)?function\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s*\(`),
	// const foo = (...) => / const foo = async (...) =>
	regexp.MustCompile(`(?:const|let|var)\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s*=\s*(?:async\s*)?(?:\([^)]*\)|[a-zA-Z_$][a-zA-Z0-9_$]*)\s*=>`),
	// const foo = function(...)
	regexp.MustCompile(`(?:const|let|var)\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s*=\s*(?:async\s+)?function\b`),
	// foo: function(...) / foo: async function(...)
	regexp.MustCompile(`([a-zA-Z_$][a-zA-Z0-9_$]*)\s*:\s*(?:async\s+)?function\b`),
	// foo: (...) =>
	regexp.MustCompile(`([a-zA-Z_$][a-zA-Z0-9_$]*)\s*:\s*(?:async\s*)?\([^)]*\)\s*=>`),
	// object method shorthand: foo(...) {, constrained to a line start so
	// plain call sites are not misread as definitions
	regexp.MustCompile(`(?m)^\s*(?:async\s+)?([a-zA-Z_$][a-zA-Z0-9_$]*)\s*\([^)]*\)\s*\{`),
}

// reservedNames are keywords the method-shorthand pattern would otherwise
// capture.
var reservedNames = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "function": true, "constructor": true, "super": true,
	"new": true, "typeof": true, "await": true, "else": true, "do": true,
}

func extractFunctions(content string) []Function {
	var functions []Function
	seen := make(map[string]bool)

	for _, pattern := range functionDefPatterns {
		for _, match := range pattern.FindAllStringSubmatchIndex(content, -1) {
			name := content[match[2]:match[3]]
			if reservedNames[name] || !isValidIdentifier(name) {
				continue
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			functions = append(functions, Function{
				Name: name,
				Line: lineOfOffset(content, match[2]),
			})
		}
	}

	return functions
}

// MatchesFunctionDef reports whether a single line of source looks like a
// function definition, and if so returns the function name. Used by the
// change detector to classify diff lines.
func MatchesFunctionDef(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}

	for _, pattern := range functionDefPatterns {
		match := pattern.FindStringSubmatch(trimmed)
		if match == nil {
			// Patterns anchored to line starts need the untrimmed text.
			match = pattern.FindStringSubmatch(line)
		}
		if match != nil {
			name := match[1]
			if !reservedNames[name] && isValidIdentifier(name) {
				return name, true
			}
		}
	}

	return "", false
}
