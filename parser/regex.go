package parser

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
)

// RegexAnalyzer extracts FileRecords through pattern recognition over raw
// text instead of a full grammar. The trade-off is deliberate: it is fast
// and tolerates mixed JS/TS/template-in-one-file formats, at the cost of
// occasional false negatives. It never fails; unusable input yields an
// empty record.
type RegexAnalyzer struct{}

// NewRegexAnalyzer creates the default text-heuristic analyzer.
func NewRegexAnalyzer() *RegexAnalyzer {
	return &RegexAnalyzer{}
}

func (a *RegexAnalyzer) Name() string {
	return "regex"
}

// Analyze parses source into a FileRecord. The returned error is always
// nil; degraded input is reported through an empty record and a warning.
func (a *RegexAnalyzer) Analyze(path string, source []byte) (record *FileRecord, err error) {
	record = EmptyRecord(path)

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("source analysis failed, treating file as empty",
				"path", path, "analyzer", a.Name(), "reason", r)
			record, err = EmptyRecord(path), nil
		}
	}()

	content := string(source)
	template := ""

	if strings.EqualFold(filepath.Ext(path), ".vue") {
		content, template = splitSFC(content)
	}

	code := blankComments(content)

	record.Imports = extractImports(code)
	record.Exports = extractExports(code)
	record.Functions = extractFunctions(code)
	record.Components = extractComponents(code)
	record.Props = extractProps(code)
	record.Events = DeduplicateStrings(append(extractEvents(code), extractEvents(template)...))
	record.Slots = extractSlots(template)
	record.Modules = moduleNames(path, record)

	return record, nil
}

var (
	scriptBlockPattern   = regexp.MustCompile(`(?s)<script[^>]*>(.*?)</script>`)
	templateBlockPattern = regexp.MustCompile(`(?s)<template[^>]*>(.*)</template>`)
)

// splitSFC separates a Vue single-file component into its script and
// template blocks. Files without a script block contribute no code.
func splitSFC(content string) (script, template string) {
	if match := scriptBlockPattern.FindStringSubmatch(content); match != nil {
		script = match[1]
	}
	if match := templateBlockPattern.FindStringSubmatch(content); match != nil {
		template = match[1]
	}
	return script, template
}

// moduleNames derives the module names a file provides: declared component
// names when present, otherwise the filename without extension.
func moduleNames(path string, record *FileRecord) []string {
	var names []string
	for _, c := range record.Components {
		names = append(names, c.Name)
	}
	if len(names) == 0 {
		base := filepath.Base(path)
		names = append(names, strings.TrimSuffix(base, filepath.Ext(base)))
	}
	return DeduplicateStrings(names)
}
