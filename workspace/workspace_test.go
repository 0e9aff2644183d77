package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	ws, err := Open(root)
	require.NoError(t, err)
	return ws
}

func writeFile(t *testing.T, ws *Workspace, relPath, content string) {
	t.Helper()

	abs := ws.Abs(relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func TestDiscoverFindsVCSMarker(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	nested := filepath.Join(root, "src", "components")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	ws, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, root, ws.Root)
}

func TestDiscoverFailsWithoutMarker(t *testing.T) {
	_, err := Discover(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoProjectRoot)
}

func TestOpenRejectsMissingRoot(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestNormalizePath(t *testing.T) {
	ws := newTestWorkspace(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already relative", "src/components/Button.vue", "src/components/Button.vue"},
		{"absolute inside root", filepath.Join(ws.Root, "src", "app.js"), "src/app.js"},
		{"leading dot-slash", "./src/app.js", "src/app.js"},
		{"interior dots", "src/components/../utils/format.js", "src/utils/format.js"},
		{"root itself", ws.Root, "."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ws.NormalizePath(tt.in))
		})
	}
}

func TestNormalizePathIsIdempotent(t *testing.T) {
	ws := newTestWorkspace(t)

	paths := []string{
		"src/components/Button.vue",
		filepath.Join(ws.Root, "src", "app.js"),
		"./src/./utils/../common/util.js",
		"deeply/nested/path/file.ts",
	}

	for _, p := range paths {
		once := ws.NormalizePath(p)
		twice := ws.NormalizePath(once)
		assert.Equal(t, once, twice, "normalize must be idempotent for %q", p)
	}
}
