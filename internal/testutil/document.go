// Package testutil builds project documents and on-disk .xcodeproj
// fixtures for tests.
package testutil

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Doc is a fluent builder for decoded project documents. A new Doc already
// holds a PBXProject root with an empty main group and a project-level
// configuration list.
type Doc struct {
	next    int
	root    string
	main    string
	objects map[string]map[string]any
}

// NewDoc creates a minimal valid document.
func NewDoc() *Doc {
	d := &Doc{objects: make(map[string]map[string]any)}
	d.main = d.Add("PBXGroup", map[string]any{"children": []any{}, "sourceTree": "<group>"})
	debug := d.Add("XCBuildConfiguration", map[string]any{"name": "Debug", "buildSettings": map[string]any{}})
	configs := d.Add("XCConfigurationList", map[string]any{
		"buildConfigurations":      []any{debug},
		"defaultConfigurationName": "Debug",
	})
	d.root = d.Add("PBXProject", map[string]any{
		"mainGroup":              d.main,
		"buildConfigurationList": configs,
		"targets":                []any{},
		"compatibilityVersion":   "Xcode 14.0",
	})
	return d
}

// NewID returns the next deterministic 24-digit object ID.
func (d *Doc) NewID() string {
	d.next++
	return fmt.Sprintf("%024X", d.next)
}

// RootID returns the ID of the PBXProject record.
func (d *Doc) RootID() string { return d.root }

// MainGroup returns the ID of the project's main group.
func (d *Doc) MainGroup() string { return d.main }

// Add stores a record with the given isa and returns its ID.
func (d *Doc) Add(isa string, attrs map[string]any) string {
	id := d.NewID()
	d.Put(id, isa, attrs)
	return id
}

// Put stores a record under an explicit ID, replacing any existing one.
func (d *Doc) Put(id, isa string, attrs map[string]any) {
	rec := maps.Clone(attrs)
	if rec == nil {
		rec = map[string]any{}
	}
	if isa != "" {
		rec["isa"] = isa
	}
	d.objects[id] = rec
}

// Set overwrites one attribute of an existing record.
func (d *Doc) Set(id, key string, val any) *Doc {
	d.objects[id][key] = val
	return d
}

// Delete removes an attribute, or the whole record when key is empty.
func (d *Doc) Delete(id, key string) *Doc {
	if key == "" {
		delete(d.objects, id)
		return d
	}
	delete(d.objects[id], key)
	return d
}

// Append adds values to a list attribute.
func (d *Doc) Append(id, key string, vals ...any) *Doc {
	list, _ := d.objects[id][key].([]any)
	d.objects[id][key] = append(slices.Clone(list), vals...)
	return d
}

// Group adds a PBXGroup under parent. An empty path leaves the attribute
// out.
func (d *Doc) Group(parent, name, path string) string {
	attrs := map[string]any{"children": []any{}, "sourceTree": "<group>"}
	if name != "" {
		attrs["name"] = name
	}
	if path != "" {
		attrs["path"] = path
	}
	id := d.Add("PBXGroup", attrs)
	d.Append(parent, "children", id)
	return id
}

// File adds a PBXFileReference under parent.
func (d *Doc) File(parent, path, sourceTree string) string {
	id := d.Add("PBXFileReference", map[string]any{"path": path, "sourceTree": sourceTree})
	d.Append(parent, "children", id)
	return id
}

// Phase adds a build phase of the given isa holding one PBXBuildFile per
// file reference.
func (d *Doc) Phase(isa string, fileRefs ...string) string {
	files := make([]any, 0, len(fileRefs))
	for _, ref := range fileRefs {
		files = append(files, d.Add("PBXBuildFile", map[string]any{"fileRef": ref}))
	}
	return d.Add(isa, map[string]any{"files": files, "runOnlyForDeploymentPostprocessing": "0"})
}

// Target adds a PBXNativeTarget to the project.
func (d *Doc) Target(name, productType string, phases ...string) string {
	cfg := d.Add("XCBuildConfiguration", map[string]any{
		"name":          "Debug",
		"buildSettings": map[string]any{"PRODUCT_NAME": "$(TARGET_NAME)"},
	})
	list := d.Add("XCConfigurationList", map[string]any{"buildConfigurations": []any{cfg}})
	ph := make([]any, 0, len(phases))
	for _, p := range phases {
		ph = append(ph, p)
	}
	id := d.Add("PBXNativeTarget", map[string]any{
		"name":                   name,
		"productName":            name,
		"productType":            productType,
		"buildPhases":            ph,
		"buildConfigurationList": list,
		"dependencies":           []any{},
		"buildRules":             []any{},
	})
	d.Append(d.root, "targets", id)
	return id
}

// Depend makes target depend on dep through a PBXTargetDependency and its
// PBXContainerItemProxy.
func (d *Doc) Depend(target, dep string) string {
	proxy := d.Add("PBXContainerItemProxy", map[string]any{
		"containerPortal":      d.root,
		"proxyType":            "1",
		"remoteGlobalIDString": dep,
	})
	id := d.Add("PBXTargetDependency", map[string]any{"target": dep, "targetProxy": proxy})
	d.Append(target, "dependencies", id)
	return id
}

// Build returns the document as a decoder would: a fresh map tree.
func (d *Doc) Build() map[string]any {
	objects := make(map[string]any, len(d.objects))
	for id, rec := range d.objects {
		objects[id] = deepCopy(rec)
	}
	return map[string]any{
		"archiveVersion": "1",
		"objectVersion":  "56",
		"classes":        map[string]any{},
		"rootObject":     d.root,
		"objects":        objects,
	}
}

func deepCopy(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = deepCopy(e)
		}
		return out
	default:
		return v
	}
}

// OpenStep renders the document in the text format Xcode writes.
func (d *Doc) OpenStep() string {
	var b strings.Builder
	b.WriteString("// !$*UTF8*$!\n")
	writeOpenStep(&b, d.Build(), 0)
	b.WriteString("\n")
	return b.String()
}

func writeOpenStep(b *strings.Builder, v any, depth int) {
	indent := strings.Repeat("\t", depth+1)
	switch v := v.(type) {
	case map[string]any:
		b.WriteString("{\n")
		for _, k := range slices.Sorted(maps.Keys(v)) {
			b.WriteString(indent)
			b.WriteString(quote(k))
			b.WriteString(" = ")
			writeOpenStep(b, v[k], depth+1)
			b.WriteString(";\n")
		}
		b.WriteString(strings.Repeat("\t", depth))
		b.WriteString("}")
	case []any:
		b.WriteString("(\n")
		for _, e := range v {
			b.WriteString(indent)
			writeOpenStep(b, e, depth+1)
			b.WriteString(",\n")
		}
		b.WriteString(strings.Repeat("\t", depth))
		b.WriteString(")")
	default:
		b.WriteString(quote(fmt.Sprint(v)))
	}
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

// ProjectDir writes content as <tmp>/<name>.xcodeproj/project.pbxproj and
// returns the package directory.
func ProjectDir(t *testing.T, name, content string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name+".xcodeproj")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project.pbxproj"), []byte(content), 0o600))
	return dir
}
