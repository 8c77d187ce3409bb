package pbx

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SourceTreeFolder names one of the build-system roots a path can be
// anchored at.
type SourceTreeFolder string

const (
	SourceRoot       SourceTreeFolder = "SOURCE_ROOT"
	BuildProductsDir SourceTreeFolder = "BUILT_PRODUCTS_DIR"
	DeveloperDir     SourceTreeFolder = "DEVELOPER_DIR"
	SDKRoot          SourceTreeFolder = "SDKROOT"
)

// Folders lists every named root.
var Folders = []SourceTreeFolder{SourceRoot, BuildProductsDir, DeveloperDir, SDKRoot}

// ParseFolder maps a raw folder name to a SourceTreeFolder.
func ParseFolder(s string) (SourceTreeFolder, bool) {
	for _, f := range Folders {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// SourceTreeKind tells how a reference's path is anchored.
type SourceTreeKind int

const (
	SourceTreeAbsolute SourceTreeKind = iota
	SourceTreeGroup
	SourceTreeFolderRelative
)

// SourceTree is the parsed "sourceTree" attribute. Folder is set only for
// SourceTreeFolderRelative.
type SourceTree struct {
	Kind   SourceTreeKind
	Folder SourceTreeFolder
}

// ParseSourceTree parses "<absolute>", "<group>" or a folder name.
func ParseSourceTree(s string) (SourceTree, error) {
	switch s {
	case "<absolute>":
		return SourceTree{Kind: SourceTreeAbsolute}, nil
	case "<group>":
		return SourceTree{Kind: SourceTreeGroup}, nil
	}
	if f, ok := ParseFolder(s); ok {
		return SourceTree{Kind: SourceTreeFolderRelative, Folder: f}, nil
	}
	return SourceTree{}, fmt.Errorf("unknown source tree %q", s)
}

func (st SourceTree) String() string {
	switch st.Kind {
	case SourceTreeAbsolute:
		return "<absolute>"
	case SourceTreeGroup:
		return "<group>"
	default:
		return string(st.Folder)
	}
}

// Path is the resolved location of a file: an absolute path when Folder is
// empty, otherwise Value relative to the named root.
type Path struct {
	Folder SourceTreeFolder `json:"folder,omitempty" yaml:"folder,omitempty"`
	Value  string           `json:"path" yaml:"path"`
}

// AbsolutePath builds an absolute Path.
func AbsolutePath(p string) Path { return Path{Value: p} }

// RelativePath builds a Path anchored at folder.
func RelativePath(folder SourceTreeFolder, p string) Path {
	return Path{Folder: folder, Value: p}
}

func (p Path) IsAbsolute() bool { return p.Folder == "" }

// String renders the path the way Xcode writes it in build settings, e.g.
// "$(SDKROOT)/usr/lib/libz.dylib".
func (p Path) String() string {
	if p.IsAbsolute() {
		return p.Value
	}
	if strings.HasPrefix(p.Value, "/") {
		return fmt.Sprintf("$(%s)%s", p.Folder, p.Value)
	}
	return fmt.Sprintf("$(%s)/%s", p.Folder, p.Value)
}

// Resolve turns p into a filesystem path using the given root directories.
func (p Path) Resolve(roots map[SourceTreeFolder]string) (string, error) {
	if p.IsAbsolute() {
		return filepath.Clean(p.Value), nil
	}
	root, ok := roots[p.Folder]
	if !ok || root == "" {
		return "", fmt.Errorf("no directory configured for %s", p.Folder)
	}
	return filepath.Join(root, filepath.FromSlash(p.Value)), nil
}
