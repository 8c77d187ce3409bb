package hcl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/pbxgraph/internal/config"
	"github.com/specialistvlad/pbxgraph/internal/pbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestLoader(env ...string) *Loader {
	return &Loader{environ: func() []string { return env }}
}

func TestLoad_FullFile(t *testing.T) {
	t.Parallel()

	// Arrange
	path := writeFile(t, "pbxgraph.hcl", `
log {
  level  = "debug"
  format = "json"
}
output        = "yaml"
configuration = "Release"
cache {
  size = 3
}
roots = {
  SOURCE_ROOT = "${env.HOME}/src/App"
  SDKROOT     = "/sdk"
}
env = {
  PROJECT_NAME = "App"
}
`)

	// Act
	m, err := newTestLoader("HOME=/home/dev").Load(t.Context(), path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, config.Log{Level: "debug", Format: "json"}, m.Log)
	assert.Equal(t, "yaml", m.Output)
	assert.Equal(t, "Release", m.Configuration)
	assert.Equal(t, 3, m.CacheSize)
	assert.Equal(t, map[pbx.SourceTreeFolder]string{
		pbx.SourceRoot: "/home/dev/src/App",
		pbx.SDKRoot:    "/sdk",
	}, m.Roots)
	assert.Equal(t, map[string]string{"PROJECT_NAME": "App"}, m.Env)
}

func TestLoad_LaterFilesOverrideAndMissingAreSkipped(t *testing.T) {
	t.Parallel()

	// Arrange
	base := writeFile(t, "base.hcl", `
log {
  level = "warn"
}
roots = {
  SDKROOT = "/old"
}
`)
	override := writeFile(t, "local.hcl", `
roots = {
  SDKROOT       = "/new"
  DEVELOPER_DIR = "/xcode"
}
`)
	missing := filepath.Join(t.TempDir(), "absent.hcl")

	// Act
	m, err := newTestLoader().Load(t.Context(), base, missing, override)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "warn", m.Log.Level)
	assert.Equal(t, "text", m.Log.Format, "unset values keep their defaults")
	assert.Equal(t, "/new", m.Roots[pbx.SDKRoot])
	assert.Equal(t, "/xcode", m.Roots[pbx.DeveloperDir])
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "syntax error", content: `log {`, want: "failed to parse"},
		{name: "unknown root", content: `roots = { HOME_DIR = "/x" }`, want: "Unknown source tree root"},
		{name: "non-string env value", content: `env = { A = ["x"] }`, want: "must be a string"},
		{name: "roots not an object", content: `roots = "x"`, want: "Expected an object"},
		{name: "invalid output", content: `output = "xml"`, want: "output"},
		{name: "undefined variable", content: `output = var.x`, want: "failed to decode"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, "bad.hcl", tc.content)

			_, err := newTestLoader().Load(t.Context(), path)

			require.Error(t, err)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestLoad_NoFiles(t *testing.T) {
	t.Parallel()

	m, err := NewLoader().Load(t.Context())

	require.NoError(t, err)
	assert.Equal(t, config.Default(), m)
}
