package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRelativeSibling(t *testing.T) {
	ws := newTestWorkspace(t)
	writeFile(t, ws, "src/components/Button.vue", "<template/>")
	writeFile(t, ws, "src/components/Dialog.vue", "<template/>")

	r := NewResolver(ws, nil)

	res := r.Resolve("./Button", "src/components/Dialog.vue")
	assert.Equal(t, ResolvedInternal, res.Kind)
	assert.Equal(t, "src/components/Button.vue", res.Path)
}

func TestResolveRelativeParent(t *testing.T) {
	ws := newTestWorkspace(t)
	writeFile(t, ws, "src/common/util.js", "export function f() {}")
	writeFile(t, ws, "src/components/Dialog.vue", "<template/>")

	r := NewResolver(ws, nil)

	res := r.Resolve("../common/util", "src/components/Dialog.vue")
	assert.Equal(t, ResolvedInternal, res.Kind)
	assert.Equal(t, "src/common/util.js", res.Path)
}

func TestResolveExtensionPriority(t *testing.T) {
	ws := newTestWorkspace(t)
	// Both exist; .js is tried before .ts.
	writeFile(t, ws, "src/lib/dates.js", "")
	writeFile(t, ws, "src/lib/dates.ts", "")
	writeFile(t, ws, "src/app.js", "")

	r := NewResolver(ws, nil)

	res := r.Resolve("./lib/dates", "src/app.js")
	require.Equal(t, ResolvedInternal, res.Kind)
	assert.Equal(t, "src/lib/dates.js", res.Path)
}

func TestResolveDirectoryIndex(t *testing.T) {
	ws := newTestWorkspace(t)
	writeFile(t, ws, "src/store/index.js", "")
	writeFile(t, ws, "src/app.js", "")

	r := NewResolver(ws, nil)

	res := r.Resolve("./store", "src/app.js")
	require.Equal(t, ResolvedInternal, res.Kind)
	assert.Equal(t, "src/store/index.js", res.Path)
}

func TestResolveAlias(t *testing.T) {
	ws := newTestWorkspace(t)
	writeFile(t, ws, "src/common/util.js", "")
	writeFile(t, ws, "src/components/A.vue", "")

	r := NewResolver(ws, nil)

	res := r.Resolve("@/common/util", "src/components/A.vue")
	require.Equal(t, ResolvedInternal, res.Kind)
	assert.Equal(t, "src/common/util.js", res.Path)
}

func TestResolveAliasCustomRoot(t *testing.T) {
	ws := newTestWorkspace(t)
	writeFile(t, ws, "web/src/common/util.js", "")

	r := NewResolver(ws, []string{"web/src"})

	res := r.Resolve("@/common/util", "web/src/main.js")
	require.Equal(t, ResolvedInternal, res.Kind)
	assert.Equal(t, "web/src/common/util.js", res.Path)
}

func TestResolveExternalPackage(t *testing.T) {
	ws := newTestWorkspace(t)
	writeFile(t, ws, "src/app.js", "")

	r := NewResolver(ws, nil)

	res := r.Resolve("lodash/debounce", "src/app.js")
	assert.Equal(t, ResolvedExternal, res.Kind)
	assert.Equal(t, "lodash/debounce", res.Path)

	res = r.Resolve("vue", "src/app.js")
	assert.Equal(t, ResolvedExternal, res.Kind)
}

func TestResolveBareLocalModule(t *testing.T) {
	ws := newTestWorkspace(t)
	writeFile(t, ws, "src/router.js", "")
	writeFile(t, ws, "src/app.js", "")

	r := NewResolver(ws, nil)

	res := r.Resolve("router", "src/app.js")
	require.Equal(t, ResolvedInternal, res.Kind)
	assert.Equal(t, "src/router.js", res.Path)
}

func TestResolveMissingRelative(t *testing.T) {
	ws := newTestWorkspace(t)
	writeFile(t, ws, "src/app.js", "")

	r := NewResolver(ws, nil)

	res := r.Resolve("./nope", "src/app.js")
	assert.Equal(t, ResolutionNotFound, res.Kind)
}
