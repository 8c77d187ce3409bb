package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/specialistvlad/pbxgraph/internal/config"
	"github.com/specialistvlad/pbxgraph/internal/pbx"
	"github.com/specialistvlad/pbxgraph/internal/plist"
	"github.com/specialistvlad/pbxgraph/internal/render"
	"github.com/specialistvlad/pbxgraph/internal/testutil"
	"github.com/specialistvlad/pbxgraph/internal/xcodeproj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dir  string
	doc  *testutil.Doc
	main string
	core string
	app  string
}

// newFixture writes a two-target project: App depends on Core.
func newFixture(t *testing.T) fixture {
	t.Helper()
	d := testutil.NewDoc()
	sources := d.Group(d.MainGroup(), "", "Sources")
	main := d.File(sources, "main.swift", "<group>")
	d.File(d.MainGroup(), "usr/lib/libz.dylib", "SDKROOT")
	core := d.Target("Core", string(pbx.ProductFramework))
	app := d.Target("App", string(pbx.ProductApplication), d.Phase("PBXSourcesBuildPhase", main))
	d.Depend(app, core)
	return fixture{
		dir:  testutil.ProjectDir(t, "App", d.OpenStep()),
		doc:  d,
		main: main,
		core: core,
		app:  app,
	}
}

func TestApp_Summary(t *testing.T) {
	t.Parallel()

	// Arrange
	f := newFixture(t)
	a, _ := SetupAppTest(t, nil)

	// Act
	s, err := a.Summary(context.Background(), f.dir)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "App", s.Name)
	assert.Equal(t, plist.FormatOpenStep, s.Format)
	assert.Equal(t, []string{"Core", "App"}, s.Targets)
	assert.Equal(t, 2, s.Files)
	assert.Zero(t, s.IndeterminatePaths)
	assert.Empty(t, s.Diagnostics)
	assert.Contains(t, s.Table().Rows, []string{"targets", "Core, App"})
}

func TestApp_OpenUsesCache(t *testing.T) {
	t.Parallel()

	// Arrange
	f := newFixture(t)
	a, logs := SetupAppTest(t, nil)

	// Act
	first, err := a.Open(context.Background(), f.dir)
	require.NoError(t, err)
	second, err := a.Open(context.Background(), filepath.Join(f.dir, xcodeproj.DocumentName))
	require.NoError(t, err)

	// Assert
	assert.Same(t, first, second)
	stats := a.CacheStats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
	assert.Contains(t, logs.String(), "Logger configured successfully.")
}

func TestApp_Paths(t *testing.T) {
	t.Parallel()

	// Arrange
	f := newFixture(t)
	cfg := config.Default()
	cfg.Roots[pbx.SDKRoot] = "/sdk"
	a, _ := SetupAppTest(t, cfg)

	// Act
	plain, err := a.Paths(context.Background(), f.dir, false)
	require.NoError(t, err)
	resolved, err := a.Paths(context.Background(), f.dir, true)
	require.NoError(t, err)

	// Assert
	require.Len(t, plain, 2)
	assert.Equal(t, "$(SDKROOT)/usr/lib/libz.dylib", plain[0].Path)
	assert.Equal(t, "$(SOURCE_ROOT)/Sources/main.swift", plain[1].Path)
	assert.Equal(t, "main.swift", plain[1].Name)
	assert.Empty(t, plain[1].Resolved)

	require.Len(t, resolved, 2)
	assert.Equal(t, filepath.FromSlash("/sdk/usr/lib/libz.dylib"), resolved[0].Resolved)
	assert.Equal(t, filepath.Join(filepath.Dir(f.dir), "Sources", "main.swift"), resolved[1].Resolved)
	assert.Equal(t, []string{"ID", "NAME", "PATH", "RESOLVED"}, resolved.Table().Header)
}

func TestApp_PathsReportsIndeterminate(t *testing.T) {
	t.Parallel()

	// Arrange
	d := testutil.NewDoc()
	bad := d.File(d.MainGroup(), "x.swift", "NOWHERE")
	dir := testutil.ProjectDir(t, "Odd", d.OpenStep())
	a, _ := SetupAppTest(t, nil)

	// Act
	paths, err := a.Paths(context.Background(), dir, false)

	// Assert
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, bad, paths[0].ID)
	assert.Empty(t, paths[0].Path)
	assert.NotEmpty(t, paths[0].Error)
}

func TestApp_TargetsAndBuildOrder(t *testing.T) {
	t.Parallel()

	// Arrange
	f := newFixture(t)
	a, _ := SetupAppTest(t, nil)

	// Act
	targets, err := a.Targets(context.Background(), f.dir)
	require.NoError(t, err)
	order, err := a.BuildOrder(context.Background(), f.dir)
	require.NoError(t, err)

	// Assert
	require.Len(t, targets, 2)
	assert.Equal(t, "App", targets[1].Name)
	assert.Equal(t, string(pbx.ProductApplication), targets[1].ProductType)
	assert.Equal(t, []string{"Sources"}, targets[1].Phases)
	assert.Equal(t, []string{"Core"}, targets[1].Dependencies)
	assert.Empty(t, targets[0].Dependencies)

	require.Len(t, order, 2)
	assert.Equal(t, f.core, order[0].ID)
	assert.Equal(t, f.app, order[1].ID)
	assert.Empty(t, order[0].Dependencies)
	assert.Equal(t, []string{"App"}, order[0].Dependents)
	assert.Equal(t, []string{"Core"}, order[1].Dependencies)
	assert.Equal(t, []string{}, order[1].Dependents)
	assert.Equal(t, "NEEDED BY", order.Table().Header[5])
	assert.Len(t, targets.Table().Header, 5)
}

func TestApp_Settings(t *testing.T) {
	t.Parallel()

	// Arrange
	f := newFixture(t)
	a, _ := SetupAppTest(t, nil)

	// Act
	res, err := a.Settings(context.Background(), f.dir, "App", "")
	require.NoError(t, err)
	picked, err := a.Settings(context.Background(), f.dir, "App", "Debug", "PRODUCT_NAME", "NOT_SET")
	require.NoError(t, err)
	_, unknownErr := a.Settings(context.Background(), f.dir, "Nope", "")

	// Assert
	assert.Equal(t, "Debug", res.Configuration)
	assert.Equal(t, "App", res.Settings["PRODUCT_NAME"])
	assert.Equal(t, map[string]any{"PRODUCT_NAME": "App"}, picked.Settings)
	assert.Equal(t, [][]string{{"PRODUCT_NAME", "App"}}, picked.Table().Rows)
	assert.ErrorIs(t, unknownErr, ErrUnknownTarget)
}

func TestApp_Get(t *testing.T) {
	t.Parallel()

	// Arrange
	f := newFixture(t)
	a, _ := SetupAppTest(t, nil)

	// Act
	isa, err := a.Get(context.Background(), f.dir, "mainGroup.isa")
	require.NoError(t, err)
	target, err := a.Get(context.Background(), f.dir, "targets[1]")
	require.NoError(t, err)
	_, badErr := a.Get(context.Background(), f.dir, "targets[")

	// Assert
	assert.Equal(t, "PBXGroup", isa.String())
	assert.Equal(t, f.app, target.ID)
	assert.Equal(t, "PBXNativeTarget", target.Isa)
	assert.Contains(t, target.String(), `"name": "App"`)
	assert.Error(t, badErr)
}

func TestApp_ResultsRender(t *testing.T) {
	t.Parallel()

	// Arrange
	f := newFixture(t)
	a, _ := SetupAppTest(t, nil)
	targets, err := a.Targets(context.Background(), f.dir)
	require.NoError(t, err)
	var text, js strings.Builder

	// Act
	require.NoError(t, render.Write(&text, render.Text, targets))
	require.NoError(t, render.Write(&js, render.JSON, targets))

	// Assert
	assert.True(t, strings.HasPrefix(text.String(), "NAME"))
	var decoded []TargetInfo
	require.NoError(t, json.Unmarshal([]byte(js.String()), &decoded))
	assert.Equal(t, []TargetInfo(targets), decoded)
}

func TestApp_WatchReloadsOnWrite(t *testing.T) {
	t.Parallel()

	// Arrange
	f := newFixture(t)
	a, logs := SetupAppTest(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type load struct {
		targets int
		err     error
	}
	loads := make(chan load, 8)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := a.Watch(ctx, f.dir, WatchOptions{Debounce: 20 * time.Millisecond}, func(p *xcodeproj.Project, err error) {
			if err != nil {
				loads <- load{err: err}
				return
			}
			targets, _ := p.Project().Targets()
			loads <- load{targets: len(targets)}
		})
		assert.NoError(t, err)
	}()

	next := func() load {
		select {
		case l := <-loads:
			return l
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a reload")
			return load{}
		}
	}

	// Act & Assert
	first := next()
	require.NoError(t, first.err)
	assert.Equal(t, 2, first.targets)

	f.doc.Target("Tests", string(pbx.ProductUnitTest))
	doc := filepath.Join(f.dir, xcodeproj.DocumentName)
	require.NoError(t, os.WriteFile(doc, []byte(f.doc.OpenStep()), 0o600))
	second := next()
	require.NoError(t, second.err)
	assert.Equal(t, 3, second.targets)

	require.NoError(t, os.WriteFile(doc, []byte("{ objects = ("), 0o600))
	broken := next()
	assert.ErrorIs(t, broken.err, xcodeproj.ErrInvalidData)

	cancel()
	wg.Wait()
	assert.Contains(t, logs.String(), "Project reload failed.")
}

func TestWatchStatus_HealthHandler(t *testing.T) {
	t.Parallel()

	// Arrange
	f := newFixture(t)
	a, _ := SetupAppTest(t, nil)
	p, err := a.Open(context.Background(), f.dir)
	require.NoError(t, err)
	status := &watchStatus{}
	handler := status.healthHandler(a.Context(context.Background()))

	serve := func() (*httptest.ResponseRecorder, StatusReport) {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		var report StatusReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		return rec, report
	}

	// Act & Assert
	rec, report := serve()
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Zero(t, report.Reloads)

	status.record(f.dir, p, nil)
	rec, report = serve()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, p.Objects().Len(), report.Objects)
	assert.Equal(t, f.dir, report.Project)

	status.record(f.dir, nil, xcodeproj.ErrInvalidData)
	rec, report = serve()
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, 2, report.Reloads)
	assert.Equal(t, p.Objects().Len(), report.Objects)
	assert.NotEmpty(t, report.LastError)
}
