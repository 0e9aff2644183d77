package parser

import (
	"regexp"
	"strings"
)

var (
	// import foo from "module"
	defaultImportPattern = regexp.MustCompile(`import\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s+from\s+["']([^"']+)["']`)
	// import * as foo from "module"
	namespaceImportPattern = regexp.MustCompile(`import\s+\*\s+as\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s+from\s+["']([^"']+)["']`)
	// import { a, b as c } from "module"
	namedImportPattern = regexp.MustCompile(`import\s*\{([^}]+)\}\s*from\s+["']([^"']+)["']`)
	// import foo, { a, b } from "module"
	mixedImportPattern = regexp.MustCompile(`import\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s*,\s*\{([^}]+)\}\s*from\s+["']([^"']+)["']`)
	// import "module"
	bareImportPattern = regexp.MustCompile(`import\s+["']([^"']+)["']`)
	// const foo = require("module")
	requirePattern = regexp.MustCompile(`(?:const|let|var)\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s*=\s*require\s*\(\s*["']([^"']+)["']\s*\)`)
	// const { a, b } = require("module")
	destructuredRequirePattern = regexp.MustCompile(`(?:const|let|var)\s*\{\s*([^}]+)\s*\}\s*=\s*require\s*\(\s*["']([^"']+)["']\s*\)`)
)

func extractImports(content string) []Import {
	var imports []Import

	for _, match := range mixedImportPattern.FindAllStringSubmatch(content, -1) {
		imports = append(imports, Import{
			Module:  match[3],
			Raw:     strings.TrimSpace(match[0]),
			Type:    ImportNamed,
			Default: match[1],
			Symbols: parseNamedSymbols(match[2]),
		})
	}

	for _, match := range namespaceImportPattern.FindAllStringSubmatch(content, -1) {
		imports = append(imports, Import{
			Module:  match[2],
			Raw:     strings.TrimSpace(match[0]),
			Type:    ImportNamespace,
			Default: match[1],
		})
	}

	for _, match := range namedImportPattern.FindAllStringSubmatch(content, -1) {
		imports = append(imports, Import{
			Module:  match[2],
			Raw:     strings.TrimSpace(match[0]),
			Type:    ImportNamed,
			Symbols: parseNamedSymbols(match[1]),
		})
	}

	for _, match := range defaultImportPattern.FindAllStringSubmatch(content, -1) {
		imports = append(imports, Import{
			Module:  match[2],
			Raw:     strings.TrimSpace(match[0]),
			Type:    ImportDefault,
			Default: match[1],
		})
	}

	for _, match := range requirePattern.FindAllStringSubmatch(content, -1) {
		imports = append(imports, Import{
			Module:  match[2],
			Raw:     strings.TrimSpace(match[0]),
			Type:    ImportRequire,
			Default: match[1],
		})
	}

	for _, match := range destructuredRequirePattern.FindAllStringSubmatch(content, -1) {
		imports = append(imports, Import{
			Module:  match[2],
			Raw:     strings.TrimSpace(match[0]),
			Type:    ImportDestructure,
			Symbols: parseNamedSymbols(match[1]),
		})
	}

	for _, match := range bareImportPattern.FindAllStringSubmatch(content, -1) {
		imports = append(imports, Import{
			Module: match[1],
			Raw:    strings.TrimSpace(match[0]),
			Type:   ImportBare,
		})
	}

	return DeduplicateImports(imports)
}

// parseNamedSymbols splits the contents of a `{ a, b as c }` clause into
// local names. An `as` alias takes precedence over the original name.
func parseNamedSymbols(clause string) []string {
	var symbols []string

	for _, part := range strings.Split(clause, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		fields := strings.Fields(part)
		name := fields[0]
		if len(fields) == 3 && fields[1] == "as" {
			name = fields[2]
		}

		if isValidIdentifier(name) {
			symbols = append(symbols, name)
		}
	}

	return symbols
}
