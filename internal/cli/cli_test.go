package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/specialistvlad/pbxgraph/internal/pbx"
	"github.com/specialistvlad/pbxgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func fixture(t *testing.T) string {
	t.Helper()
	d := testutil.NewDoc()
	main := d.File(d.Group(d.MainGroup(), "", "Sources"), "main.swift", "<group>")
	core := d.Target("Core", string(pbx.ProductFramework))
	app := d.Target("App", string(pbx.ProductApplication), d.Phase("PBXSourcesBuildPhase", main))
	d.Depend(app, core)
	return testutil.ProjectDir(t, "App", d.OpenStep())
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), &stdout, &stderr, args)
	return stdout.String(), stderr.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	return exitErr.Code
}

func TestExecute_SummaryJSON(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := fixture(t)

	// Act
	out, _, err := execute(t, "summary", "-o", "json", dir)

	// Assert
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "App", got["name"])
	assert.Equal(t, "openstep", got["format"])
	assert.Equal(t, []any{"Core", "App"}, got["targets"])
}

func TestExecute_AcceptsDocumentAndParentPaths(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := fixture(t)

	for _, path := range []string{dir, filepath.Join(dir, "project.pbxproj"), filepath.Dir(dir)} {
		// Act
		out, _, err := execute(t, "order", path)

		// Assert
		require.NoError(t, err, path)
		assert.Regexp(t, `(?s)^NAME.*\nCore .*\nApp `, out)
		assert.Contains(t, out, "NEEDED BY")
	}
}

func TestExecute_Paths(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := fixture(t)

	// Act
	out, _, err := execute(t, "paths", "--resolve", "-o", "yaml", dir)

	// Assert
	require.NoError(t, err)
	var got []map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "$(SOURCE_ROOT)/Sources/main.swift", got[0]["path"])
	assert.Equal(t, filepath.Join(filepath.Dir(dir), "Sources", "main.swift"), got[0]["resolved"])
}

func TestExecute_SettingsAndGet(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := fixture(t)

	// Act
	settings, _, settingsErr := execute(t, "settings", "App", dir, "-s", "PRODUCT_NAME")
	isa, _, getErr := execute(t, "get", "targets[0].isa", dir)

	// Assert
	require.NoError(t, settingsErr)
	assert.Regexp(t, `PRODUCT_NAME\s+App`, settings)
	require.NoError(t, getErr)
	assert.Equal(t, "PBXNativeTarget\n", isa)
}

func TestExecute_ExitCodes(t *testing.T) {
	t.Parallel()

	dir := fixture(t)

	testCases := []struct {
		name string
		args []string
		code int
	}{
		{name: "unknown flag", args: []string{"summary", "--nope"}, code: ExitUsage},
		{name: "too many args", args: []string{"summary", dir, dir}, code: ExitUsage},
		{name: "missing target arg", args: []string{"settings"}, code: ExitUsage},
		{name: "bad output", args: []string{"summary", "-o", "xml", dir}, code: ExitUsage},
		{name: "bad log level", args: []string{"summary", "--log-level", "loud", dir}, code: ExitUsage},
		{name: "bad root", args: []string{"paths", "--root", "HOME=/x", dir}, code: ExitUsage},
		{name: "no project", args: []string{"summary", t.TempDir()}, code: ExitNotFound},
		{name: "missing document", args: []string{"summary", filepath.Join(t.TempDir(), "Gone.xcodeproj")}, code: ExitNotFound},
		{name: "unknown target", args: []string{"settings", "Nope", dir}, code: ExitFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Act
			_, _, err := execute(t, tc.args...)

			// Assert
			require.Error(t, err)
			assert.Equal(t, tc.code, exitCode(t, err))
		})
	}
}

func TestExecute_ConfigFileAndFlagPrecedence(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := fixture(t)
	cfgPath := filepath.Join(t.TempDir(), "pbxgraph.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
output = "yaml"
log {
  level = "debug"
}
`), 0o600))

	// Act
	fromFile, logs, err := execute(t, "summary", "--config", cfgPath, dir)
	require.NoError(t, err)
	fromFlag, _, flagErr := execute(t, "summary", "--config", cfgPath, "-o", "json", dir)

	// Assert
	assert.Contains(t, fromFile, "name: App")
	assert.Contains(t, logs, "level=DEBUG")
	require.NoError(t, flagErr)
	assert.Contains(t, fromFlag, `"name": "App"`)
}

func TestExecute_EnvironmentOverridesDefaults(t *testing.T) {
	// Arrange
	dir := fixture(t)
	t.Setenv("PBXGRAPH_OUTPUT", "json")

	// Act
	out, _, err := execute(t, "targets", dir)

	// Assert
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Core", got[0]["name"])
}

func TestExecute_Help(t *testing.T) {
	t.Parallel()

	// Act
	out, _, err := execute(t, "--help")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "settings")
}
