package pbx

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/pbxgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAs_ReturnsCanonicalNodeForMatchingVariant(t *testing.T) {
	t.Parallel()

	// Arrange
	d := testutil.NewDoc()
	g := load(t, d)
	stored, ok := g.Objects().Get(d.MainGroup())
	require.True(t, ok)

	// Act
	group, err := As[Group](g.Objects(), d.MainGroup())

	// Assert
	require.NoError(t, err)
	assert.Same(t, stored, Node(group))
}

func TestAs_IsIdempotent(t *testing.T) {
	t.Parallel()

	// Arrange
	d := testutil.NewDoc()
	vg := d.Add("PBXVariantGroup", map[string]any{
		"name":       "Main.storyboard",
		"children":   []any{},
		"sourceTree": "<group>",
	})
	d.Append(d.MainGroup(), "children", vg)
	g := load(t, d)

	// Act
	first, err := As[Group](g.Objects(), vg)
	require.NoError(t, err)
	second, err := As[Group](g.Objects(), vg)
	require.NoError(t, err)

	// Assert
	assert.Same(t, first, second)
	if diff := cmp.Diff(first.Attributes(), second.Attributes()); diff != "" {
		t.Errorf("attributes differ (-first +second):\n%s", diff)
	}
}

func TestAs_ViewKeepsStoredNodeAndIsa(t *testing.T) {
	t.Parallel()

	// Arrange
	d := testutil.NewDoc()
	vg := d.Add("PBXVariantGroup", map[string]any{"children": []any{}, "sourceTree": "<group>"})
	d.Append(d.MainGroup(), "children", vg)
	g := load(t, d)

	// Act
	view, err := As[Group](g.Objects(), vg)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, KindGroup, view.Kind())
	assert.Equal(t, "PBXVariantGroup", view.Isa())
	assert.Equal(t, vg, view.ID())

	stored, ok := g.Objects().Get(vg)
	require.True(t, ok)
	assert.IsType(t, &VariantGroup{}, stored)
	assert.Equal(t, KindVariantGroup, stored.Kind())
}

func TestAs_ConcurrentCallersShareOneView(t *testing.T) {
	t.Parallel()

	// Arrange
	d := testutil.NewDoc()
	file := d.File(d.MainGroup(), "a.swift", "<group>")
	g := load(t, d)
	const workers = 16
	views := make([]*BaseReference, workers)

	// Act
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := As[BaseReference](g.Objects(), file)
			if err == nil {
				views[i] = v
			}
		}()
	}
	wg.Wait()

	// Assert
	require.NotNil(t, views[0])
	for _, v := range views[1:] {
		assert.Same(t, views[0], v)
	}
}

func TestAs_MissingID(t *testing.T) {
	t.Parallel()

	// Arrange
	g := load(t, testutil.NewDoc())

	// Act
	_, err := As[FileReference](g.Objects(), "nope")
	_, ok := Optional[FileReference](g.Objects(), "nope")

	// Assert
	assert.ErrorIs(t, err, ErrMissingReference)
	assert.ErrorIs(t, err, ErrStructural)
	assert.False(t, ok)
}

func TestMany_PreservesOrderAndFailsOnFirstMissing(t *testing.T) {
	t.Parallel()

	// Arrange
	d := testutil.NewDoc()
	a := d.File(d.MainGroup(), "a.swift", "<group>")
	b := d.File(d.MainGroup(), "b.swift", "<group>")
	g := load(t, d)

	// Act
	got, err := Many[FileReference](g.Objects(), []string{b, a})
	require.NoError(t, err)
	_, missingErr := Many[FileReference](g.Objects(), []string{a, "gone"})

	// Assert
	require.Len(t, got, 2)
	assert.Equal(t, b, got[0].ID())
	assert.Equal(t, a, got[1].ID())
	var mre *MissingReferenceError
	require.ErrorAs(t, missingErr, &mre)
	assert.Equal(t, "gone", mre.ID)
}

func TestObjects_ByKind(t *testing.T) {
	t.Parallel()

	// Arrange
	d := testutil.NewDoc()
	a := d.File(d.MainGroup(), "a.swift", "<group>")
	b := d.File(d.MainGroup(), "b.swift", "<group>")
	g := load(t, d)

	// Act
	files := g.Objects().ByKind(KindFileReference)
	projects := g.Objects().ByKind(KindProject)

	// Assert
	require.Len(t, files, 2)
	assert.Equal(t, a, files[0].ID())
	assert.Equal(t, b, files[1].ID())
	require.Len(t, projects, 1)
	assert.Equal(t, d.RootID(), projects[0].ID())
}

func TestGroup_ChildListWithNonStringIDIsMissingReference(t *testing.T) {
	t.Parallel()

	// Arrange
	d := testutil.NewDoc()
	sub := d.Group(d.MainGroup(), "Sources", "Sources")
	d.Append(sub, "children", 42)

	// Act
	_, err := Load(t.Context(), d.Build())

	// Assert
	assert.ErrorIs(t, err, ErrMissingReference)
}

func TestObject_Attributes(t *testing.T) {
	t.Parallel()

	// Arrange
	d := testutil.NewDoc()
	script := d.Add("PBXShellScriptBuildPhase", map[string]any{
		"shellScript": "swiftlint",
		"inputPaths":  []any{"$(SRCROOT)/.swiftlint.yml"},
		"outputPaths": "not-a-list",
		"files":       []any{},
	})
	g := load(t, d)
	phase, err := As[ShellScriptBuildPhase](g.Objects(), script)
	require.NoError(t, err)

	// Act
	attrs := phase.Attributes()
	attrs["shellScript"] = "rm -rf /"
	body, bodyErr := phase.ShellScript()
	inputs, inErr := phase.InputPaths()
	_, outErr := phase.OutputPaths()

	// Assert
	require.NoError(t, bodyErr)
	assert.Equal(t, "swiftlint", body, "Attributes must return a copy")
	require.NoError(t, inErr)
	assert.Equal(t, []string{"$(SRCROOT)/.swiftlint.yml"}, inputs)
	assert.ErrorIs(t, outErr, ErrStructural)
}
