package pbx

import (
	"maps"
	"slices"
)

// PathIndex maps file reference IDs to their resolved paths. Files whose
// path is indeterminate are kept in a separate error map so the failure
// surfaces only when that file is looked up.
type PathIndex struct {
	paths       map[string]Path
	errs        map[string]error
	diagnostics []Diagnostic
}

// Lookup returns the path of file reference id.
func (x *PathIndex) Lookup(id string) (Path, error) {
	if x == nil {
		return Path{}, &PathError{ID: id, Reason: "paths have not been resolved"}
	}
	if p, ok := x.paths[id]; ok {
		return p, nil
	}
	if err, ok := x.errs[id]; ok {
		return Path{}, err
	}
	return Path{}, &PathError{ID: id, Reason: "not reachable from the main group"}
}

// Paths returns a copy of the resolved entries.
func (x *PathIndex) Paths() map[string]Path {
	if x == nil {
		return map[string]Path{}
	}
	return maps.Clone(x.paths)
}

// Indeterminate returns the IDs of reachable files without a resolvable
// path, sorted.
func (x *PathIndex) Indeterminate() []string {
	if x == nil {
		return nil
	}
	ids := slices.Collect(maps.Keys(x.errs))
	slices.Sort(ids)
	return ids
}

// Len counts resolved and indeterminate entries.
func (x *PathIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.paths) + len(x.errs)
}

// ResolvePaths walks the group tree below root and computes the path of
// every file reference it reaches:
//
//   - <group> files resolve to SOURCE_ROOT + prefix + "/" + path, where the
//     prefix accumulates the paths of the enclosing sub-groups;
//   - <absolute> files keep their path verbatim;
//   - files anchored at a named root keep their path verbatim, relative to
//     that root, and ignore the prefix.
//
// root's own path is not part of the prefix. A group with no path adds no
// segment. Errors from resolving group children abort the walk; problems
// with a single file are recorded against that file only.
func ResolvePaths(root *Group) (*PathIndex, error) {
	w := &pathWalker{
		index: &PathIndex{
			paths: make(map[string]Path),
			errs:  make(map[string]error),
		},
		onPath: make(map[string]bool),
	}
	if err := w.walk(root, ""); err != nil {
		return nil, err
	}
	return w.index, nil
}

type pathWalker struct {
	index *PathIndex
	// onPath holds the groups on the current descent; a group already on it
	// is a cycle in the raw data.
	onPath map[string]bool
}

func (w *pathWalker) walk(g *Group, prefix string) error {
	if w.onPath[g.ID()] {
		w.index.diagnostics = append(w.index.diagnostics, Diagnostic{
			Code:    GroupCycle,
			ID:      g.ID(),
			Isa:     g.Isa(),
			Message: "group contains itself, subtree skipped",
		})
		return nil
	}
	w.onPath[g.ID()] = true
	defer delete(w.onPath, g.ID())

	files, err := g.FileRefs()
	if err != nil {
		return err
	}
	for _, f := range files {
		p, err := filePath(f, prefix)
		if err != nil {
			w.index.errs[f.ID()] = err
			continue
		}
		w.index.paths[f.ID()] = p
	}

	groups, err := g.SubGroups()
	if err != nil {
		return err
	}
	for _, sub := range groups {
		next := prefix
		if p, ok := sub.Path(); ok && p != "" {
			next = prefix + "/" + p
		}
		if err := w.walk(sub, next); err != nil {
			return err
		}
	}
	return nil
}

func filePath(f *FileReference, prefix string) (Path, error) {
	st, err := f.SourceTree()
	if err != nil {
		return Path{}, &PathError{ID: f.ID(), Reason: err.Error()}
	}
	p, ok := f.Path()
	if !ok {
		return Path{}, &PathError{ID: f.ID(), Reason: "path attribute is absent"}
	}
	switch st.Kind {
	case SourceTreeGroup:
		return RelativePath(SourceRoot, prefix+"/"+p), nil
	case SourceTreeAbsolute:
		return AbsolutePath(p), nil
	default:
		return RelativePath(st.Folder, p), nil
	}
}
