package usage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannajonsd/impact-analysis/graph"
	"github.com/hannajonsd/impact-analysis/workspace"
)

func buildTestGraph(t *testing.T, files map[string]string) (*workspace.Workspace, *graph.Graph, *workspace.Resolver) {
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

	excluder := workspace.NewExcluder(workspace.DefaultExcludes)
	resolver := workspace.NewResolver(ws, nil)
	g, err := graph.NewBuilder(ws, excluder, resolver).Build(context.Background(), false)
	require.NoError(t, err)

	return ws, g, resolver
}

func TestFindCallersCountsRealUsageOnly(t *testing.T) {
	ws, g, resolver := buildTestGraph(t, map[string]string{
		"src/common/util.js": `export function formatDateNanos(v) { return v }`,
		"src/components/A.js": `import { formatDateNanos } from '../common/util'
// formatDateNanos(ignored)
const label = "formatDateNanos(also ignored)"
export function render(row) {
  return formatDateNanos(row.time) + formatDateNanos(row.end)
}`,
	})

	l := NewLocator(ws, g, resolver, nil)
	callers := l.FindCallers("formatDateNanos")

	require.Len(t, callers, 1)
	assert.Equal(t, "src/components/A.js", callers[0].File)
	assert.Equal(t, 2, callers[0].CallCount)
	for _, site := range callers[0].CallSites {
		assert.Equal(t, 5, site.Line)
	}
}

func TestFindCallersSkipsDefinitionFile(t *testing.T) {
	ws, g, resolver := buildTestGraph(t, map[string]string{
		"src/common/util.js": `export function fmt(v) { return v }
export function wrap(v) { return fmt(v) }`,
	})

	l := NewLocator(ws, g, resolver, nil)
	assert.Empty(t, l.FindCallers("fmt"))
}

func TestFindCallersTemplateInterpolation(t *testing.T) {
	ws, g, resolver := buildTestGraph(t, map[string]string{
		"src/common/util.js": `export function fmt(v) { return v }`,
		"src/components/Row.vue": `<template><span>{{ fmt(row.time) }}</span></template>
<script>
import { fmt } from '@/common/util'
export default { name: 'Row' }
</script>`,
	})

	l := NewLocator(ws, g, resolver, nil)
	callers := l.FindCallers("fmt")

	// One interpolation is one usage even though it matches both the
	// direct-call and the template shape.
	require.Len(t, callers, 1)
	assert.Equal(t, "src/components/Row.vue", callers[0].File)
	assert.Equal(t, 1, callers[0].CallCount)
}

func TestFindCallersOneOccurrencePerShapeOverlap(t *testing.T) {
	ws, g, resolver := buildTestGraph(t, map[string]string{
		"src/common/util.js": `export function fmt(v) { return v }`,
		"src/handlers.js": `import { fmt } from './common/util'
export const onChange = fmt;
export function apply(rows) { return rows.map(fmt) }`,
	})

	l := NewLocator(ws, g, resolver, nil)
	callers := l.FindCallers("fmt")

	// Line 2 matches the assignment shape, line 3 the argument shape;
	// each occurrence counts exactly once.
	require.Len(t, callers, 1)
	assert.Equal(t, "src/handlers.js", callers[0].File)
	assert.Equal(t, 2, callers[0].CallCount)

	lines := make(map[int]bool)
	for _, site := range callers[0].CallSites {
		lines[site.Line] = true
	}
	assert.Equal(t, map[int]bool{2: true, 3: true}, lines)
}

func TestFindImportersRequiresSymbolInClause(t *testing.T) {
	ws, g, resolver := buildTestGraph(t, map[string]string{
		"src/common/util.js": `export function fmt(v) { return v }
export function other(v) { return v }`,
		"src/a.js": `import { fmt } from './common/util'`,
		"src/b.js": `import { other } from './common/util'`,
		"src/c.js": `import * as util from './common/util'
export const x = util.fmt`,
	})

	l := NewLocator(ws, g, resolver, nil)
	importers := l.FindImporters("fmt", "src/common/util.js")

	var files []string
	for _, imp := range importers {
		files = append(files, imp.File)
	}
	assert.Contains(t, files, "src/a.js")
	assert.NotContains(t, files, "src/b.js")

	for _, imp := range importers {
		if imp.File == "src/a.js" {
			assert.Equal(t, "named", imp.ImportType)
			assert.Equal(t, "./common/util", imp.ImportSource)
		}
	}
}

func TestFindCallersUnknownFunction(t *testing.T) {
	ws, g, resolver := buildTestGraph(t, map[string]string{
		"src/a.js": `export function known() {}`,
	})

	l := NewLocator(ws, g, resolver, nil)
	assert.Empty(t, l.FindCallers("neverDefined"))
}
