package graph

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannajonsd/impact-analysis/workspace"
)

func newTestProject(t *testing.T, files map[string]string) *workspace.Workspace {
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
	return ws
}

func newTestBuilder(ws *workspace.Workspace, opts ...BuilderOption) *Builder {
	excluder := workspace.NewExcluder(workspace.DefaultExcludes)
	resolver := workspace.NewResolver(ws, nil)
	return NewBuilder(ws, excluder, resolver, opts...)
}

func TestBuildImportAndCallGraph(t *testing.T) {
	ws := newTestProject(t, map[string]string{
		"src/common/util.js": `export function formatDateNanos(v) { return v }
export function pad(v) { return v }`,
		"src/components/A.vue": `<template><span>{{ formatDateNanos(row.time) }}</span></template>
<script>
import { formatDateNanos } from '@/common/util'
export default { name: 'CompA' }
</script>`,
		"src/components/B.js": `import { formatDateNanos } from '../common/util'
export function renderRow(row) { return formatDateNanos(row.time) }`,
		"node_modules/lib/index.js": `export function formatDateNanos() {}`,
	})

	b := newTestBuilder(ws)
	g, err := b.Build(context.Background(), false)
	require.NoError(t, err)

	// Excluded trees never enter the graph.
	assert.NotContains(t, g.Files, "node_modules/lib/index.js")
	require.Contains(t, g.Files, "src/common/util.js")
	require.Contains(t, g.Files, "src/components/A.vue")
	require.Contains(t, g.Files, "src/components/B.js")

	importers := g.ImportersOf("src/common/util.js")
	assert.ElementsMatch(t, []string{"src/components/A.vue", "src/components/B.js"}, importers)

	entry := g.Functions["formatDateNanos"]
	require.NotNil(t, entry)
	assert.Equal(t, "src/common/util.js", entry.DefinitionFile)
	assert.ElementsMatch(t, []string{"src/components/A.vue", "src/components/B.js"}, entry.CallerFiles())

	// The definition file's own body is never a call site.
	for _, site := range entry.Calls {
		assert.NotEqual(t, "src/common/util.js", site.File)
		assert.Greater(t, site.Line, 0)
		assert.NotEmpty(t, site.Context)
	}

	pad := g.Functions["pad"]
	require.NotNil(t, pad)
	assert.Empty(t, pad.CallerFiles())
}

func TestBuildModuleRegistry(t *testing.T) {
	ws := newTestProject(t, map[string]string{
		"src/common/util.js":   `export function fmt(v) { return v }`,
		"src/components/A.vue": `<script>export default { name: 'CompA' }</script>`,
		"src/services/api.js":  `export function load() {}`,
	})

	g, err := newTestBuilder(ws).Build(context.Background(), false)
	require.NoError(t, err)

	util := g.Modules["util"]
	require.NotNil(t, util)
	assert.Equal(t, ModuleUtility, util.Type)
	assert.Contains(t, util.Functions, "fmt")

	compA := g.Modules["CompA"]
	require.NotNil(t, compA)
	assert.Equal(t, ModuleComponent, compA.Type)
	assert.Equal(t, "src/components/A.vue", compA.File)

	api := g.Modules["api"]
	require.NotNil(t, api)
	assert.Equal(t, ModuleService, api.Type)
}

func TestBuildCacheReuse(t *testing.T) {
	ws := newTestProject(t, map[string]string{
		"src/a.js": `export function one() {}`,
	})

	cache := NewCache(time.Minute)
	b := newTestBuilder(ws, WithCache(cache))

	first, err := b.Build(context.Background(), false)
	require.NoError(t, err)

	// A file added after the build must not appear until the cache is bypassed.
	abs := filepath.Join(ws.Root, "src", "b.js")
	require.NoError(t, os.WriteFile(abs, []byte("export function two() {}"), 0o644))

	cached, err := b.Build(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, first.Generation, cached.Generation)
	assert.NotContains(t, cached.Files, "src/b.js")

	fresh, err := b.Build(context.Background(), true)
	require.NoError(t, err)
	assert.Greater(t, fresh.Generation, first.Generation)
	assert.Contains(t, fresh.Files, "src/b.js")
}

func TestBuildCacheExpiry(t *testing.T) {
	ws := newTestProject(t, map[string]string{
		"src/a.js": `export function one() {}`,
	})

	cache := NewCache(10 * time.Millisecond)
	b := newTestBuilder(ws, WithCache(cache))

	first, err := b.Build(context.Background(), false)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	second, err := b.Build(context.Background(), false)
	require.NoError(t, err)
	assert.Greater(t, second.Generation, first.Generation)
}

func TestBuildCancelled(t *testing.T) {
	ws := newTestProject(t, map[string]string{
		"src/a.js": `export function one() {}`,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestBuilder(ws).Build(ctx, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildSmallBatches(t *testing.T) {
	files := map[string]string{
		"src/a.js": `export function fnA() {}`,
		"src/b.js": `import { fnA } from './a'
export function fnB() { return fnA() }`,
		"src/c.js": `import { fnB } from './b'
export function fnC() { return fnB() }`,
	}
	ws := newTestProject(t, files)

	g, err := newTestBuilder(ws, WithBatchSize(1)).Build(context.Background(), false)
	require.NoError(t, err)

	assert.Len(t, g.Files, 3)
	assert.ElementsMatch(t, []string{"src/b.js"}, g.Functions["fnA"].CallerFiles())
	assert.ElementsMatch(t, []string{"src/c.js"}, g.Functions["fnB"].CallerFiles())
}

func TestBuildUnparsableFileDegrades(t *testing.T) {
	ws := newTestProject(t, map[string]string{
		"src/bad.js":  "\x00\x01\x02((((",
		"src/good.js": `export function ok() {}`,
	})

	g, err := newTestBuilder(ws).Build(context.Background(), false)
	require.NoError(t, err)

	require.Contains(t, g.Files, "src/bad.js")
	assert.NotNil(t, g.Functions["ok"])
}
