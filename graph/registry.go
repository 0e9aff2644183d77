package graph

import (
	"path/filepath"
	"strings"

	"github.com/hannajonsd/impact-analysis/parser"
)

// directoryTypes maps directory-name hints to module types, checked in
// order so that a utility inside a component tree still counts as utility.
var directoryTypes = []struct {
	hint string
	typ  ModuleType
}{
	{"/utils/", ModuleUtility},
	{"/util/", ModuleUtility},
	{"/common/", ModuleUtility},
	{"/helpers/", ModuleUtility},
	{"/services/", ModuleService},
	{"/service/", ModuleService},
	{"/api/", ModuleService},
	{"/components/", ModuleComponent},
	{"/views/", ModuleView},
	{"/pages/", ModuleView},
}

// InferModuleType classifies a file by the directories on its path.
func InferModuleType(path string) ModuleType {
	p := "/" + strings.Trim(filepath.ToSlash(path), "/") + "/"

	for _, dt := range directoryTypes {
		if strings.Contains(p, dt.hint) {
			return dt.typ
		}
	}

	if strings.HasSuffix(p, ".vue/") {
		return ModuleComponent
	}

	return ModuleUnknown
}

// IsUtilityPath reports whether a file lives in a utility/common directory.
// Utility files get the deep function-level analysis pass and carry extra
// risk weight.
func IsUtilityPath(path string) bool {
	return InferModuleType(path) == ModuleUtility
}

// registerModules derives module registry entries from a file record. The
// module name is the filename without extension; component declarations add
// entries under their declared names as well.
func registerModules(modules map[string]*ModuleInfo, record *parser.FileRecord) {
	info := &ModuleInfo{
		File:      record.Path,
		Type:      InferModuleType(record.Path),
		Exports:   record.ExportNames(),
		Functions: record.FunctionNames(),
	}

	base := filepath.Base(record.Path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	named := *info
	named.Name = name
	if _, exists := modules[name]; !exists {
		modules[name] = &named
	}

	for _, component := range record.Components {
		if _, exists := modules[component.Name]; exists {
			continue
		}
		entry := *info
		entry.Name = component.Name
		if entry.Type == ModuleUnknown {
			entry.Type = ModuleComponent
		}
		modules[component.Name] = &entry
	}
}
