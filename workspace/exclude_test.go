package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldExcludeDefaults(t *testing.T) {
	e := NewExcluder(nil)

	tests := []struct {
		path string
		want bool
	}{
		{"node_modules", true},
		{"node_modules/lodash/index.js", true},
		{"web/node_modules/vue/dist/vue.js", true},
		{"dist/bundle.js", true},
		{".git/HEAD", true},
		{"scripts/impact-analysis/run.js", true},
		{"scripts/impact-analysis/lib/helper.js", true},
		{"debug.log", true},
		{"logs/app.log", true},
		{"src/.DS_Store", true},
		{"src/components/Button.vue", false},
		{"src/common/util.js", false},
		{"src/distance.js", false}, // "dist" must not match as a substring
		{"scripts/other/run.js", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ShouldExclude(tt.path))
		})
	}
}

func TestShouldExcludeGlobs(t *testing.T) {
	e := NewExcluder([]string{"src/*/generated", "test/**/*.snap", "*.tmp"})

	tests := []struct {
		path string
		want bool
	}{
		{"src/api/generated", true},
		{"src/api/generated/client.js", true},
		{"src/api/v2/generated", false}, // single * spans one segment
		{"test/unit/components/Button.snap", true},
		{"test/a.snap", true},
		{"scratch.tmp", true},
		{"src/scratch.tmp", true},
		{"src/components/Button.vue", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ShouldExclude(tt.path))
		})
	}
}

// The predicate must behave identically for scanner paths and VCS diff
// paths; both arrive as project-relative strings, possibly with a leading
// "./" from git output.
func TestShouldExcludeNormalizesLeadingDotSlash(t *testing.T) {
	e := NewExcluder(nil)

	assert.True(t, e.ShouldExclude("./node_modules/react/index.js"))
	assert.False(t, e.ShouldExclude("./src/components/Button.vue"))
}

func TestShouldExcludeIsPure(t *testing.T) {
	e := NewExcluder(nil)

	// Same input, same answer, regardless of call order or repetition.
	for i := 0; i < 3; i++ {
		assert.True(t, e.ShouldExclude("node_modules/left-pad/index.js"))
		assert.False(t, e.ShouldExclude("src/components/Button.vue"))
	}
}

func TestExcluderWithGitignore(t *testing.T) {
	ws := newTestWorkspace(t)
	writeFile(t, ws, ".gitignore", "*.min.js\ngenerated/\n!generated/keep.js\n")

	e := NewExcluder(nil).WithGitignore(NewGitignoreParser(ws))

	assert.True(t, e.ShouldExclude("src/vendor.min.js"))
	assert.True(t, e.ShouldExclude("generated/api.js"))
	assert.False(t, e.ShouldExclude("generated/keep.js"))
	assert.False(t, e.ShouldExclude("src/app.js"))
}
