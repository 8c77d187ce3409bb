package app

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/specialistvlad/pbxgraph/internal/depgraph"
	"github.com/specialistvlad/pbxgraph/internal/keypath"
	"github.com/specialistvlad/pbxgraph/internal/pbx"
	"github.com/specialistvlad/pbxgraph/internal/plist"
	"github.com/specialistvlad/pbxgraph/internal/render"
	"github.com/specialistvlad/pbxgraph/internal/settings"
	"github.com/specialistvlad/pbxgraph/internal/xcodeproj"
)

// ErrUnknownTarget is returned when no target has the requested name.
var ErrUnknownTarget = errors.New("unknown target")

// Summary describes a loaded project.
type Summary struct {
	Name               string       `json:"name" yaml:"name"`
	Dir                string       `json:"dir" yaml:"dir"`
	Format             plist.Format `json:"format" yaml:"format"`
	ArchiveVersion     string       `json:"archive_version" yaml:"archive_version"`
	ObjectVersion      string       `json:"object_version" yaml:"object_version"`
	Objects            int          `json:"objects" yaml:"objects"`
	Targets            []string     `json:"targets" yaml:"targets"`
	Files              int          `json:"files" yaml:"files"`
	IndeterminatePaths int          `json:"indeterminate_paths" yaml:"indeterminate_paths"`
	Diagnostics        []string     `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

func (s *Summary) Table() render.Table {
	t := render.Table{Rows: [][]string{
		{"name", s.Name},
		{"dir", s.Dir},
		{"format", s.Format.String()},
		{"object version", s.ObjectVersion},
		{"objects", strconv.Itoa(s.Objects)},
		{"targets", strings.Join(s.Targets, ", ")},
		{"files", strconv.Itoa(s.Files)},
		{"indeterminate paths", strconv.Itoa(s.IndeterminatePaths)},
	}}
	for _, d := range s.Diagnostics {
		t.Rows = append(t.Rows, []string{"diagnostic", d})
	}
	return t
}

// Summary loads path and describes it.
func (a *App) Summary(ctx context.Context, path string) (*Summary, error) {
	p, err := a.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	targets, err := p.Project().Targets()
	if err != nil {
		return nil, err
	}

	s := &Summary{
		Name:               p.Name,
		Dir:                p.Dir,
		Format:             p.Format,
		ArchiveVersion:     p.ArchiveVersion(),
		ObjectVersion:      p.ObjectVersion(),
		Objects:            p.Objects().Len(),
		Targets:            make([]string, 0, len(targets)),
		Files:              len(p.Paths()),
		IndeterminatePaths: len(p.IndeterminatePaths()),
	}
	for _, t := range targets {
		s.Targets = append(s.Targets, targetName(t))
	}
	for _, d := range p.Diagnostics() {
		s.Diagnostics = append(s.Diagnostics, d.String())
	}
	return s, nil
}

// PathEntry is one file reference and its resolved location.
type PathEntry struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Resolved string `json:"resolved,omitempty" yaml:"resolved,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// PathList is the result of Paths.
type PathList []PathEntry

func (l PathList) Table() render.Table {
	t := render.Table{Header: []string{"ID", "NAME", "PATH"}}
	resolved := slices.ContainsFunc(l, func(e PathEntry) bool { return e.Resolved != "" })
	if resolved {
		t.Header = append(t.Header, "RESOLVED")
	}
	for _, e := range l {
		path := e.Path
		if e.Error != "" {
			path = "! " + e.Error
		}
		row := []string{e.ID, e.Name, path}
		if resolved {
			row = append(row, e.Resolved)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Paths lists every file reference reachable from the main group, sorted by
// path, followed by the ones whose path is indeterminate. With resolve set,
// paths are also joined with the configured root directories.
func (a *App) Paths(ctx context.Context, path string, resolve bool) (PathList, error) {
	p, err := a.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	roots := a.roots(p)

	var out PathList
	for id, fp := range p.Paths() {
		e := PathEntry{ID: id, Name: displayName(p, id), Path: fp.String()}
		if resolve {
			if abs, err := fp.Resolve(roots); err == nil {
				e.Resolved = abs
			} else {
				e.Error = err.Error()
			}
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(x, y PathEntry) int {
		return cmp.Or(cmp.Compare(x.Path, y.Path), cmp.Compare(x.ID, y.ID))
	})

	for _, id := range p.IndeterminatePaths() {
		e := PathEntry{ID: id, Name: displayName(p, id)}
		if _, err := p.Path(id); err != nil {
			e.Error = err.Error()
		}
		out = append(out, e)
	}
	return out, nil
}

func displayName(p *xcodeproj.Project, id string) string {
	if ref, ok := pbx.Optional[pbx.BaseReference](p.Objects(), id); ok {
		return ref.DisplayName()
	}
	return ""
}

// TargetInfo describes one target.
type TargetInfo struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Isa          string   `json:"isa" yaml:"isa"`
	ProductType  string   `json:"product_type,omitempty" yaml:"product_type,omitempty"`
	Phases       []string `json:"phases" yaml:"phases"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
	// Dependents is set by BuildOrder: every target that needs this one,
	// directly or not.
	Dependents []string `json:"dependents,omitempty" yaml:"dependents,omitempty"`
}

// TargetList is the result of Targets and BuildOrder.
type TargetList []TargetInfo

func (l TargetList) Table() render.Table {
	t := render.Table{Header: []string{"NAME", "ISA", "PRODUCT", "PHASES", "DEPENDS ON"}}
	ordered := slices.ContainsFunc(l, func(ti TargetInfo) bool { return ti.Dependents != nil })
	if ordered {
		t.Header = append(t.Header, "NEEDED BY")
	}
	for _, ti := range l {
		row := []string{
			ti.Name, ti.Isa, ti.ProductType,
			strings.Join(ti.Phases, ","),
			strings.Join(ti.Dependencies, ","),
		}
		if ordered {
			row = append(row, strings.Join(ti.Dependents, ","))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func describeTarget(t pbx.Target) (TargetInfo, error) {
	info := TargetInfo{ID: t.ID(), Name: targetName(t), Isa: t.Isa(), Phases: []string{}, Dependencies: []string{}}
	if pt, ok := t.ProductType(); ok {
		info.ProductType = string(pt)
	}
	phases, err := t.BuildPhases()
	if err != nil {
		return info, err
	}
	for _, ph := range phases {
		info.Phases = append(info.Phases, strings.TrimSuffix(strings.TrimPrefix(ph.Isa(), "PBX"), "BuildPhase"))
	}
	deps, err := t.Dependencies()
	if err != nil {
		return info, err
	}
	for _, d := range deps {
		if dt, ok := d.Target(); ok {
			info.Dependencies = append(info.Dependencies, targetName(dt))
		} else if proxy, ok := d.TargetProxy(); ok {
			remote, _ := proxy.RemoteInfo()
			info.Dependencies = append(info.Dependencies, remote)
		}
	}
	return info, nil
}

// Targets lists the project's targets in document order.
func (a *App) Targets(ctx context.Context, path string) (TargetList, error) {
	p, err := a.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	targets, err := p.Project().Targets()
	if err != nil {
		return nil, err
	}
	return describeAll(targets)
}

// BuildOrder lists the targets so that dependencies come first. Dependencies
// and Dependents only name targets of the same project.
func (a *App) BuildOrder(ctx context.Context, path string) (TargetList, error) {
	p, err := a.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	dg, err := depgraph.Build(a.Context(ctx), p.Project())
	if err != nil {
		return nil, err
	}
	ordered, err := dg.Order()
	if err != nil {
		return nil, err
	}
	out, err := describeAll(ordered)
	if err != nil {
		return nil, err
	}
	for i := range out {
		deps, err := dg.DependenciesOf(out[i].ID)
		if err != nil {
			return nil, err
		}
		dependents, err := dg.Dependents(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Dependencies = targetNames(deps)
		out[i].Dependents = targetNames(dependents)
	}
	return out, nil
}

func targetNames(targets []pbx.Target) []string {
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, targetName(t))
	}
	return names
}

func describeAll(targets []pbx.Target) (TargetList, error) {
	out := make(TargetList, 0, len(targets))
	for _, t := range targets {
		info, err := describeTarget(t)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", info.Name, err)
		}
		out = append(out, info)
	}
	return out, nil
}

// SettingsResult holds the resolved build settings of one target.
type SettingsResult struct {
	Target        string         `json:"target" yaml:"target"`
	Configuration string         `json:"configuration" yaml:"configuration"`
	Settings      map[string]any `json:"settings" yaml:"settings"`
}

func (r *SettingsResult) Table() render.Table {
	t := render.Table{Header: []string{"SETTING", "VALUE"}}
	for _, name := range slices.Sorted(maps.Keys(r.Settings)) {
		var value string
		switch v := r.Settings[name].(type) {
		case []string:
			value = strings.Join(v, " ")
		default:
			value = fmt.Sprint(v)
		}
		t.Rows = append(t.Rows, []string{name, value})
	}
	return t
}

// Settings resolves the build settings of target. An empty configuration
// uses the configured default, then the target's own default. With names
// set, only those settings are returned.
func (a *App) Settings(ctx context.Context, path, target, configuration string, names ...string) (*SettingsResult, error) {
	p, err := a.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	t, found, err := p.Project().TargetByName(target)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}

	if configuration == "" {
		configuration = a.config.Configuration
	}
	if configuration == "" {
		list, err := t.BuildConfigurationList()
		if err != nil {
			return nil, err
		}
		if configuration, err = settings.DefaultConfiguration(list); err != nil {
			return nil, err
		}
	}

	env := settings.Env{
		"PROJECT_NAME": p.Name,
		"PROJECT_DIR":  p.SourceRoot(),
		"SRCROOT":      p.SourceRoot(),
		"SOURCE_ROOT":  p.SourceRoot(),
	}
	maps.Copy(env, a.config.Env)

	resolved, err := settings.ForTarget(p.Project(), t, configuration, env)
	if err != nil {
		return nil, err
	}
	all := settings.ToMap(resolved)
	if len(names) > 0 {
		picked := make(map[string]any, len(names))
		for _, n := range names {
			if v, ok := all[n]; ok {
				picked[n] = v
			}
		}
		all = picked
	}
	return &SettingsResult{Target: target, Configuration: configuration, Settings: all}, nil
}

// Value is the result of Get.
type Value struct {
	keypath.Result `yaml:",inline"`
}

// String prints scalars bare and everything else as indented JSON.
func (v *Value) String() string {
	if s, ok := v.Value.(string); ok && !v.IsObject() {
		return s
	}
	data, err := json.MarshalIndent(v.Result, "", "  ")
	if err != nil {
		return fmt.Sprint(v.Value)
	}
	return string(data)
}

// Get evaluates a key path such as "targets[0].buildPhases[1].isa".
func (a *App) Get(ctx context.Context, path, expr string) (*Value, error) {
	kp, err := keypath.Parse(expr)
	if err != nil {
		return nil, err
	}
	p, err := a.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	res, err := keypath.Evaluate(p.Graph, kp)
	if err != nil {
		return nil, err
	}
	return &Value{Result: res}, nil
}
