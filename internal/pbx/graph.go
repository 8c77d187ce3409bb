package pbx

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/pbxgraph/internal/ctxlog"
)

// Graph is a loaded project document: the object registry, the root
// project and the resolved file paths. It is immutable once Load returns and
// safe for concurrent readers.
type Graph struct {
	objects        *Objects
	project        *Project
	rootID         string
	archiveVersion string
	objectVersion  string
}

// Load builds the graph from a decoded property-list document shaped like
//
//	{ rootObject = <ID>; objects = { <ID> = { isa = <tag>; ... }; ... }; }
//
// A document that is not shaped like this fails with a *DocumentError. A
// root project whose main group cannot be resolved, or whose group tree
// references unknown objects, fails with a StructuralError. Records with an
// unregistered isa do not fail the load; they are reported through
// Diagnostics.
func Load(ctx context.Context, doc map[string]any) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)

	if doc == nil {
		return nil, &DocumentError{Reason: "document is empty"}
	}
	rootID, ok := doc["rootObject"].(string)
	if !ok {
		return nil, &DocumentError{Reason: "rootObject is missing or not a string"}
	}
	rawObjects, ok := doc["objects"].(map[string]any)
	if !ok {
		return nil, &DocumentError{Reason: "objects is missing or not a dictionary"}
	}

	records := make(map[string]map[string]any, len(rawObjects))
	for id, raw := range rawObjects {
		rec, ok := raw.(map[string]any)
		if !ok {
			return nil, &DocumentError{Reason: fmt.Sprintf("object %s is %T, not a dictionary", id, raw)}
		}
		records[id] = rec
	}
	logger.Debug("Building object registry.", "objects", len(records), "root", rootID)

	objs := newObjects(records)
	for _, d := range objs.diags {
		logger.Warn("Unknown record type, loading as generic node.", "id", d.ID, "isa", d.Isa)
	}

	if _, ok := records[rootID]; !ok {
		return nil, &MissingReferenceError{Owner: "document", Attribute: "rootObject", ID: rootID}
	}
	project, err := As[Project](objs, rootID)
	if err != nil {
		return nil, err
	}

	mainGroup, err := project.MainGroup()
	if err != nil {
		return nil, fmt.Errorf("resolving main group: %w", err)
	}
	index, err := ResolvePaths(mainGroup)
	if err != nil {
		return nil, fmt.Errorf("resolving file paths: %w", err)
	}
	objs.paths = index
	for _, d := range index.diagnostics {
		logger.Warn("Group cycle detected, subtree skipped.", "id", d.ID)
		objs.diags = append(objs.diags, d)
	}

	g := &Graph{
		objects: objs,
		project: project,
		rootID:  rootID,
	}
	g.archiveVersion, _ = doc["archiveVersion"].(string)
	g.objectVersion, _ = doc["objectVersion"].(string)

	logger.Debug("Project graph loaded.",
		"objects", objs.Len(),
		"paths", len(index.paths),
		"indeterminate_paths", len(index.errs),
		"diagnostics", len(objs.diags),
	)
	return g, nil
}

// Project returns the root project node.
func (g *Graph) Project() *Project { return g.project }

// Objects returns the object registry.
func (g *Graph) Objects() *Objects { return g.objects }

// RootID returns the ID of the root project record.
func (g *Graph) RootID() string { return g.rootID }

// ArchiveVersion returns the document's archiveVersion, usually "1".
func (g *Graph) ArchiveVersion() string { return g.archiveVersion }

// ObjectVersion returns the document's objectVersion, e.g. "56".
func (g *Graph) ObjectVersion() string { return g.objectVersion }

// Paths returns a copy of the file reference ID to Path mapping.
func (g *Graph) Paths() map[string]Path { return g.objects.paths.Paths() }

// Path returns the resolved path of one file reference.
func (g *Graph) Path(id string) (Path, error) { return g.objects.paths.Lookup(id) }

// IndeterminatePaths lists reachable file references whose path could not
// be determined.
func (g *Graph) IndeterminatePaths() []string { return g.objects.paths.Indeterminate() }

// Diagnostics returns the soft findings of the load.
func (g *Graph) Diagnostics() []Diagnostic { return slices.Clone(g.objects.diags) }
