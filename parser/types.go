package parser

import "fmt"

// ImportType classifies how a module was imported.
type ImportType string

const (
	ImportDefault     ImportType = "default"
	ImportNamed       ImportType = "named"
	ImportNamespace   ImportType = "namespace"
	ImportBare        ImportType = "bare"
	ImportRequire     ImportType = "require"
	ImportDestructure ImportType = "destructured"
)

// Import is one import statement extracted from a source file.
type Import struct {
	Module  string     // specifier as written: "./Button", "@/common/util", "lodash"
	Raw     string     // the full statement text, kept for human review
	Type    ImportType
	Default string   // local name of a default or namespace import
	Symbols []string // named/destructured symbols
}

// Export is one exported symbol.
type Export struct {
	Name      string
	IsDefault bool
}

// Function is one function definition found in a file.
type Function struct {
	Name string
	Line int // 1-based line of the definition
}

// Component is a framework component declared in a file, either via a
// `name:` field on the component object or an entry in a `components:` map.
type Component struct {
	Name string
}

// FileRecord is the per-file parse result. A failed parse yields an
// all-empty record, never an error that escapes the pipeline.
type FileRecord struct {
	Path       string      `json:"path"`
	Imports    []Import    `json:"imports,omitempty"`
	Exports    []Export    `json:"exports,omitempty"`
	Functions  []Function  `json:"functions,omitempty"`
	Components []Component `json:"components,omitempty"`
	Modules    []string    `json:"modules,omitempty"`
	Props      []string    `json:"props,omitempty"`
	Events     []string    `json:"events,omitempty"`
	Slots      []string    `json:"slots,omitempty"`
}

// EmptyRecord returns the degraded record used when a file cannot be read
// or parsed.
func EmptyRecord(path string) *FileRecord {
	return &FileRecord{Path: path}
}

// FunctionNames returns the names of all functions defined in the file.
func (fr *FileRecord) FunctionNames() []string {
	names := make([]string, 0, len(fr.Functions))
	for _, fn := range fr.Functions {
		names = append(names, fn.Name)
	}
	return names
}

// ExportNames returns the names of all exported symbols.
func (fr *FileRecord) ExportNames() []string {
	names := make([]string, 0, len(fr.Exports))
	for _, exp := range fr.Exports {
		names = append(names, exp.Name)
	}
	return names
}

// DeduplicateImports removes duplicate imports based on module, local name,
// and import type.
func DeduplicateImports(imports []Import) []Import {
	seen := make(map[string]bool)
	var result []Import

	for _, imp := range imports {
		key := fmt.Sprintf("%s|%s|%s", imp.Module, imp.Default, imp.Type)
		if !seen[key] {
			seen[key] = true
			result = append(result, imp)
		}
	}

	return result
}

// DeduplicateStrings removes duplicate strings while preserving order.
func DeduplicateStrings(strs []string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, s := range strs {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	return result
}
