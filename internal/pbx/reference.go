package pbx

// Reference is implemented by every entry of the group tree.
type Reference interface {
	Node
	Name() (string, bool)
	Path() (string, bool)
	SourceTree() (SourceTree, error)
	reference() *BaseReference
}

// BaseReference holds the attributes shared by group-tree entries. It is
// also the generic view for a plain PBXReference record.
type BaseReference struct {
	Object
}

func (*BaseReference) Kind() Kind { return KindReference }

func (r *BaseReference) reference() *BaseReference { return r }

func (r *BaseReference) Name() (string, bool) {
	return r.StringAttr("name")
}

// Path returns the raw "path" attribute, relative to the source tree anchor.
func (r *BaseReference) Path() (string, bool) {
	return r.StringAttr("path")
}

// SourceTree parses the "sourceTree" attribute.
func (r *BaseReference) SourceTree() (SourceTree, error) {
	s, ok := r.StringAttr("sourceTree")
	if !ok {
		return SourceTree{}, r.structural("sourceTree", "required string attribute is absent")
	}
	st, err := ParseSourceTree(s)
	if err != nil {
		return SourceTree{}, r.structural("sourceTree", err.Error())
	}
	return st, nil
}

// DisplayName is the name shown by Xcode: "name" if set, else "path".
func (r *BaseReference) DisplayName() string {
	if n, ok := r.Name(); ok && n != "" {
		return n
	}
	p, _ := r.Path()
	return p
}

// FileReference is a PBXFileReference.
type FileReference struct {
	BaseReference
}

func (*FileReference) Kind() Kind { return KindFileReference }

// FullPath returns the path computed for this file by the group-tree walk.
// Files whose path could not be determined, or that are not reachable from
// the main group, return a *PathError.
func (f *FileReference) FullPath() (Path, error) {
	return f.objects.paths.Lookup(f.id)
}

func (f *FileReference) LastKnownFileType() (string, bool) {
	return f.StringAttr("lastKnownFileType")
}

func (f *FileReference) ExplicitFileType() (string, bool) {
	return f.StringAttr("explicitFileType")
}

// FileType returns explicitFileType if present, else lastKnownFileType.
func (f *FileReference) FileType() string {
	if t, ok := f.ExplicitFileType(); ok {
		return t
	}
	t, _ := f.LastKnownFileType()
	return t
}

// ReferenceProxy is a PBXReferenceProxy: a product of another project.
type ReferenceProxy struct {
	BaseReference

	remote memo[*ContainerItemProxy]
}

func (*ReferenceProxy) Kind() Kind { return KindReferenceProxy }

func (p *ReferenceProxy) RemoteRef() (*ContainerItemProxy, error) {
	return p.remote.get(func() (*ContainerItemProxy, error) {
		return requiredRef[ContainerItemProxy](&p.Object, "remoteRef")
	})
}

func (p *ReferenceProxy) FileType() (string, bool) {
	return p.StringAttr("fileType")
}

// Group is a PBXGroup: an ordered container of references.
type Group struct {
	BaseReference

	children memo[[]Reference]
}

func (*Group) Kind() Kind { return KindGroup }

// Children returns the group's entries in document order.
func (g *Group) Children() ([]Reference, error) {
	return g.children.get(func() ([]Reference, error) {
		return ifaceList[Reference, BaseReference](&g.Object, "children")
	})
}

// SubGroups returns the children that are groups, variant groups included.
func (g *Group) SubGroups() ([]*Group, error) {
	children, err := g.Children()
	if err != nil {
		return nil, err
	}
	var out []*Group
	for _, c := range children {
		switch c := c.(type) {
		case *Group:
			out = append(out, c)
		case *VariantGroup:
			out = append(out, &c.Group)
		}
	}
	return out, nil
}

// FileRefs returns the children that are file references.
func (g *Group) FileRefs() ([]*FileReference, error) {
	children, err := g.Children()
	if err != nil {
		return nil, err
	}
	var out []*FileReference
	for _, c := range children {
		if f, ok := c.(*FileReference); ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// VariantGroup is a PBXVariantGroup, e.g. the localizations of one file.
type VariantGroup struct {
	Group
}

func (*VariantGroup) Kind() Kind { return KindVariantGroup }

// VersionGroup is an XCVersionGroup, e.g. a versioned Core Data model. It is
// not a Group and its children are not part of the path walk.
type VersionGroup struct {
	BaseReference

	children memo[[]*FileReference]
}

func (*VersionGroup) Kind() Kind { return KindVersionGroup }

func (g *VersionGroup) Children() ([]*FileReference, error) {
	return g.children.get(func() ([]*FileReference, error) {
		return refList[FileReference](&g.Object, "children")
	})
}

func (g *VersionGroup) CurrentVersion() (*FileReference, bool) {
	return optionalRef[FileReference](&g.Object, "currentVersion")
}

func (g *VersionGroup) VersionGroupType() (string, bool) {
	return g.StringAttr("versionGroupType")
}
