package changes

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannajonsd/impact-analysis/workspace"
)

func newTestDetector(t *testing.T, files map[string]string) *Detector {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}

	ws, err := workspace.Open(root)
	require.NoError(t, err)
	return NewDetector(ws)
}

const utilContent = `export function formatDateNanos(value) {
  const nanos = value % 1e9
  return pad(nanos)
}

export function pad(v) { return v }
`

func TestClassifyDiffBodyChange(t *testing.T) {
	d := newTestDetector(t, nil)

	diffText := `--- a/src/common/util.js
+++ b/src/common/util.js
@@ -1,3 +1,3 @@
 export function formatDateNanos(value) {
-  const micros = value % 1e6
+  const nanos = value % 1e9
   return pad(nanos)
`

	names := d.classifyDiff(diffText, utilContent)
	assert.Equal(t, []string{"formatDateNanos"}, names)
}

func TestClassifyDiffDefinitionLine(t *testing.T) {
	d := newTestDetector(t, nil)

	diffText := `--- a/src/common/util.js
+++ b/src/common/util.js
@@ -6,1 +6,1 @@
-export function pad(v) { return String(v) }
+export function pad(v) { return v }
`

	names := d.classifyDiff(diffText, utilContent)
	assert.Contains(t, names, "pad")
}

func TestClassifyDiffDeletionAndAdditionInDifferentFunctions(t *testing.T) {
	d := newTestDetector(t, nil)

	content := `function alpha() {
  return 1
}

function beta() {
  const extra = 2
  return extra
}
`
	// One hunk deletes a body line from alpha, another adds one to beta.
	diffText := `--- a/src/x.js
+++ b/src/x.js
@@ -1,4 +1,3 @@
 function alpha() {
-  const gone = 0
   return 1
@@ -6,3 +5,4 @@
 function beta() {
+  const extra = 2
   return extra
 }
`

	names := d.classifyDiff(diffText, content)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, names)
}

func TestClassifyDiffOutsideWindow(t *testing.T) {
	d := NewDetector(mustWorkspace(t), WithContextWindow(2))

	content := `export function far(value) {
  const a = 1
  const b = 2
  const c = 3
  const d = 4
  return value
}
`
	diffText := `--- a/src/x.js
+++ b/src/x.js
@@ -5,2 +5,2 @@
-  const d = 9
+  const d = 4
   return value
`

	// The definition is more than two lines above the change.
	names := d.classifyDiff(diffText, content)
	assert.Empty(t, names)
}

func mustWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	ws, err := workspace.Open(root)
	require.NoError(t, err)
	return ws
}

func TestClassifyLine(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"export function formatDateNanos(value) {", []string{"formatDateNanos"}},
		{"const debounce = (fn, ms) => {", []string{"debounce"}},
		{"  save: async () => {", []string{"save"}},
		{"export { helperA, helperB as aliasB }", []string{"helperA", "helperB"}},
		{"  return pad(nanos)", nil},
		{"", nil},
	}

	for _, tc := range cases {
		got, ok := classifyLine(tc.line)
		if tc.want == nil {
			assert.False(t, ok, "line %q", tc.line)
			continue
		}
		require.True(t, ok, "line %q", tc.line)
		assert.Equal(t, tc.want, got, "line %q", tc.line)
	}
}

func TestModifiedFunctionsFallsBackToExports(t *testing.T) {
	// The .git directory is not a real repository, so every diff attempt
	// fails and detection degrades to the file's exported symbols.
	d := newTestDetector(t, map[string]string{
		"src/common/util.js": utilContent,
	})

	names := d.ModifiedFunctions(context.Background(), "src/common/util.js")
	assert.ElementsMatch(t, []string{"formatDateNanos", "pad"}, names)
}

func TestModifiedFunctionsUnreadableFile(t *testing.T) {
	d := newTestDetector(t, nil)

	names := d.ModifiedFunctions(context.Background(), "src/missing.js")
	assert.Empty(t, names)
}

func TestAllExportsFunctionFallback(t *testing.T) {
	d := newTestDetector(t, nil)

	// Only an anonymous default export: degrade to function definitions.
	content := `function helper() { return 1 }
export default { helper }
`
	names := d.allExports("src/x.js", content)
	assert.Equal(t, []string{"helper"}, names)
}
