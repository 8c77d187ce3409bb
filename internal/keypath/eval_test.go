package keypath

import (
	"testing"

	"github.com/specialistvlad/pbxgraph/internal/pbx"
	"github.com/specialistvlad/pbxgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDoc(t *testing.T, d *testutil.Doc) *pbx.Graph {
	t.Helper()
	g, err := pbx.Load(t.Context(), d.Build())
	require.NoError(t, err)
	return g
}

func eval(t *testing.T, g *pbx.Graph, raw string) (Result, error) {
	t.Helper()
	p, err := Parse(raw)
	require.NoError(t, err)
	return Evaluate(g, p)
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	// Arrange
	d := testutil.NewDoc()
	src := d.File(d.MainGroup(), "main.swift", "<group>")
	sources := d.Phase("PBXSourcesBuildPhase", src)
	resources := d.Phase("PBXResourcesBuildPhase")
	target := d.Target("App", string(pbx.ProductApplication), sources, resources)
	g := loadDoc(t, d)

	t.Run("scalar through references", func(t *testing.T) {
		t.Parallel()

		got, err := eval(t, g, "targets[0].buildPhases[1].isa")

		require.NoError(t, err)
		assert.Equal(t, "PBXResourcesBuildPhase", got.Value)
		assert.False(t, got.IsObject())
	})

	t.Run("lands on a record", func(t *testing.T) {
		t.Parallel()

		got, err := eval(t, g, "targets[0]")

		require.NoError(t, err)
		assert.True(t, got.IsObject())
		assert.Equal(t, target, got.ID)
		assert.Equal(t, "PBXNativeTarget", got.Isa)
		assert.Equal(t, "App", got.Value.(map[string]any)["name"])
	})

	t.Run("nested build setting", func(t *testing.T) {
		t.Parallel()

		got, err := eval(t, g, "targets[0].buildConfigurationList.buildConfigurations[0].buildSettings.PRODUCT_NAME")

		require.NoError(t, err)
		assert.Equal(t, "$(TARGET_NAME)", got.Value)
	})

	t.Run("starts at an object ID", func(t *testing.T) {
		t.Parallel()

		got, err := eval(t, g, src+".path")

		require.NoError(t, err)
		assert.Equal(t, "main.swift", got.Value)
	})

	t.Run("array value", func(t *testing.T) {
		t.Parallel()

		got, err := eval(t, g, "targets[0].buildPhases")

		require.NoError(t, err)
		assert.Equal(t, []any{sources, resources}, got.Value)
	})
}

func TestEvaluate_Errors(t *testing.T) {
	t.Parallel()

	// Arrange
	d := testutil.NewDoc()
	d.Target("App", string(pbx.ProductApplication))
	g := loadDoc(t, d)

	testCases := []struct {
		raw  string
		want error
	}{
		{raw: "nothingHere", want: ErrNotFound},
		{raw: "targets[4]", want: ErrIndex},
		{raw: "mainGroup[0]", want: ErrNotTraversable},
		{raw: "compatibilityVersion.length", want: ErrNotTraversable},
		{raw: "targets[0].name.first", want: ErrNotTraversable},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			t.Parallel()

			_, err := eval(t, g, tc.raw)

			assert.ErrorIs(t, err, tc.want)
		})
	}
}
