package changes

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/hannajonsd/impact-analysis/parser"
	"github.com/hannajonsd/impact-analysis/workspace"
)

// DefaultContextWindow bounds how far upward context inference walks from a
// changed line before giving up.
const DefaultContextWindow = 20

// namedExportListPattern matches changed lines of the form
// `export { a, b as c }`, whose listed names all count as modified.
var namedExportListPattern = regexp.MustCompile(`export\s*\{([^}]+)\}`)

// Detector maps VCS diff hunks to the names of functions that were
// modified. The function-name list, not raw diff text, is the unit the rest
// of the pipeline reasons about.
type Detector struct {
	ws            *workspace.Workspace
	git           *Git
	mode          DiffMode
	revision      string
	contextWindow int
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithMode selects which diff the detector reads (working tree, staged, or
// a named revision range).
func WithMode(mode DiffMode, revision string) DetectorOption {
	return func(d *Detector) {
		d.mode = mode
		d.revision = revision
	}
}

// WithContextWindow overrides the upward-inference line bound.
func WithContextWindow(lines int) DetectorOption {
	return func(d *Detector) {
		if lines > 0 {
			d.contextWindow = lines
		}
	}
}

// NewDetector creates a Detector reading working-tree diffs by default.
func NewDetector(ws *workspace.Workspace, opts ...DetectorOption) *Detector {
	d := &Detector{
		ws:            ws,
		git:           NewGit(ws.Root),
		mode:          DiffWorkingTree,
		contextWindow: DefaultContextWindow,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ChangedFiles returns the project-relative paths of files the configured
// diff reports as changed.
func (d *Detector) ChangedFiles(ctx context.Context) ([]string, error) {
	return d.git.ChangedFiles(ctx, d.mode, d.revision)
}

// ModifiedFunctions returns the names of functions modified in the given
// file. When the diff is empty or inaccessible it degrades to every
// exported symbol in the file, and to an empty list if the file itself is
// unreadable.
func (d *Detector) ModifiedFunctions(ctx context.Context, file string) []string {
	content := d.currentContent(file)

	diffText, err := d.git.Diff(ctx, d.mode, d.revision, file)
	if err != nil || strings.TrimSpace(diffText) == "" {
		if err != nil {
			slog.Warn("diff unavailable, falling back to exported symbols",
				"file", file, "error", err)
		}
		return d.allExports(file, content)
	}

	names := d.classifyDiff(diffText, content)
	if len(names) == 0 {
		return d.allExports(file, content)
	}

	return names
}

// classifyDiff walks every added and removed line of the diff, matches it
// against the function-definition patterns, and falls back to bounded
// upward context inference for lines inside a function body.
func (d *Detector) classifyDiff(diffText, content string) []string {
	fileDiffs, err := diff.NewMultiFileDiffReader(strings.NewReader(diffText)).ReadAllFiles()
	if err != nil {
		slog.Warn("unparseable diff output", "error", err)
		return nil
	}

	contentLines := strings.Split(content, "\n")
	var names []string

	for _, fd := range fileDiffs {
		for _, hunk := range fd.Hunks {
			newLine := int(hunk.NewStartLine)

			for _, raw := range strings.Split(string(hunk.Body), "\n") {
				if raw == "" {
					continue
				}

				marker, text := raw[0], raw[1:]

				switch marker {
				case '+', '-':
					if name, ok := classifyLine(text); ok {
						names = append(names, name...)
					} else if len(contentLines) > 0 {
						// Removed lines are attributed via the deletion
						// point in the post-change file: the enclosing
						// function there is the one the lines left.
						if name, ok := d.inferEnclosing(contentLines, newLine); ok {
							names = append(names, name)
						}
					}
				}

				// Track position in the post-change file: context and
				// added lines advance it, removed lines do not.
				if marker == '+' || marker == ' ' {
					newLine++
				}
			}
		}
	}

	return parser.DeduplicateStrings(names)
}

// classifyLine matches one changed line against the definition patterns:
// declarations, arrow assignments, method shorthand, and named-export lists.
func classifyLine(line string) ([]string, bool) {
	if match := namedExportListPattern.FindStringSubmatch(line); match != nil {
		var names []string
		for _, part := range strings.Split(match[1], ",") {
			fields := strings.Fields(strings.TrimSpace(part))
			if len(fields) > 0 {
				names = append(names, fields[0])
			}
		}
		if len(names) > 0 {
			return names, true
		}
	}

	if name, ok := parser.MatchesFunctionDef(line); ok {
		return []string{name}, true
	}

	return nil, false
}

// inferEnclosing walks upward from a changed line in the current file
// content until a function definition is found, within the configured
// window. Best effort: a miss means the change is attributed to no function.
func (d *Detector) inferEnclosing(contentLines []string, line int) (string, bool) {
	// line is 1-based; start from the changed line itself.
	idx := line - 1
	if idx >= len(contentLines) {
		idx = len(contentLines) - 1
	}

	for steps := 0; idx >= 0 && steps <= d.contextWindow; idx, steps = idx-1, steps+1 {
		if name, ok := parser.MatchesFunctionDef(contentLines[idx]); ok {
			return name, true
		}
	}

	return "", false
}

// allExports is the conservative degrade: treat every exported symbol of
// the file as potentially modified.
func (d *Detector) allExports(file, content string) []string {
	if content == "" {
		return nil
	}

	record, err := parser.NewRegexAnalyzer().Analyze(file, []byte(content))
	if err != nil || record == nil {
		return nil
	}

	var names []string
	for _, exp := range record.Exports {
		if exp.Name != "" {
			names = append(names, exp.Name)
		}
	}

	// A default export with no name still means the module surface moved;
	// fall back to the file's function definitions.
	if len(names) == 0 {
		names = record.FunctionNames()
	}

	return parser.DeduplicateStrings(names)
}

func (d *Detector) currentContent(file string) string {
	data, err := os.ReadFile(d.ws.Abs(file))
	if err != nil {
		slog.Warn("cannot read changed file", "file", file, "error", err)
		return ""
	}
	return string(data)
}
