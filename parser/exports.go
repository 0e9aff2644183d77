package parser

import (
	"regexp"
	"strings"
)

var (
	// export function foo / export async function foo
	exportFunctionPattern = regexp.MustCompile(`export\s+(?:async\s+)?function\s+([a-zA-Z_$][a-zA-Z0-9_$]*)`)
	// export const foo = / export let foo =
	exportBindingPattern = regexp.MustCompile(`export\s+(?:const|let|var)\s+([a-zA-Z_$][a-zA-Z0-9_$]*)`)
	// export class Foo
	exportClassPattern = regexp.MustCompile(`export\s+class\s+([a-zA-Z_$][a-zA-Z0-9_$]*)`)
	// export { a, b as c }
	exportListPattern = regexp.MustCompile(`export\s*\{([^}]+)\}`)
	// export default foo / export default function foo
	exportDefaultPattern = regexp.MustCompile(`export\s+default\s+(?:(?:async\s+)?function\s+)?([a-zA-Z_$][a-zA-Z0-9_$]*)?`)
	// module.exports = { ... } / module.exports.foo =
	commonJSExportPattern = regexp.MustCompile(`module\.exports(?:\.([a-zA-Z_$][a-zA-Z0-9_$]*))?\s*=`)
	// exports.foo =
	commonJSNamedPattern = regexp.MustCompile(`(?m)^\s*exports\.([a-zA-Z_$][a-zA-Z0-9_$]*)\s*=`)
)

func extractExports(content string) []Export {
	var exports []Export
	seen := make(map[string]bool)

	add := func(name string, isDefault bool) {
		if name != "" && !isValidIdentifier(name) {
			return
		}
		key := name
		if isDefault {
			key = "default:" + name
		}
		if seen[key] {
			return
		}
		seen[key] = true
		exports = append(exports, Export{Name: name, IsDefault: isDefault})
	}

	for _, p := range []*regexp.Regexp{exportFunctionPattern, exportBindingPattern, exportClassPattern} {
		for _, match := range p.FindAllStringSubmatch(content, -1) {
			add(match[1], false)
		}
	}

	for _, match := range exportListPattern.FindAllStringSubmatch(content, -1) {
		if strings.Contains(match[0], "export default") {
			continue
		}
		for _, name := range parseNamedSymbols(match[1]) {
			add(name, false)
		}
	}

	for _, match := range exportDefaultPattern.FindAllStringSubmatch(content, -1) {
		name := ""
		if len(match) > 1 {
			name = match[1]
		}
		switch name {
		// `export default {` and similar capture a keyword, not a name.
		case "function", "async", "class", "new":
			name = ""
		}
		add(name, true)
	}

	for _, match := range commonJSExportPattern.FindAllStringSubmatch(content, -1) {
		if match[1] != "" {
			add(match[1], false)
		} else {
			add("", true)
		}
	}

	for _, match := range commonJSNamedPattern.FindAllStringSubmatch(content, -1) {
		add(match[1], false)
	}

	return exports
}
