// Package xcodeproj opens .xcodeproj packages from disk and loads their
// project.pbxproj document into a pbx.Graph.
package xcodeproj

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/specialistvlad/pbxgraph/internal/ctxlog"
	"github.com/specialistvlad/pbxgraph/internal/fsutil"
	"github.com/specialistvlad/pbxgraph/internal/pbx"
	"github.com/specialistvlad/pbxgraph/internal/plist"
)

const (
	// Extension is the suffix of an Xcode project package.
	Extension = ".xcodeproj"
	// DocumentName is the project document inside the package.
	DocumentName = "project.pbxproj"
)

var (
	ErrInvalidData    = errors.New("data in .pbxproj file not in expected format")
	ErrNotXcodeproj   = errors.New("path is not a .xcodeproj package")
	ErrMissingPbxproj = errors.New("project.pbxproj file missing")
)

// Project is a loaded project package.
type Project struct {
	*pbx.Graph

	// Dir is the .xcodeproj package directory.
	Dir string
	// Name is the package name without the extension.
	Name string
	// Format is the property-list encoding the document was stored in.
	Format plist.Format
	// ModTime is the modification time of project.pbxproj when it was read.
	ModTime time.Time
}

// DocumentPath returns the path of the package's project.pbxproj.
func (p *Project) DocumentPath() string {
	return filepath.Join(p.Dir, DocumentName)
}

// SourceRoot returns the directory SOURCE_ROOT paths are relative to: the
// package's parent directory joined with the project's projectDirPath.
func (p *Project) SourceRoot() string {
	parent := filepath.Dir(p.Dir)
	if rel := p.Project().ProjectDirPath(); rel != "" {
		if filepath.IsAbs(rel) {
			return rel
		}
		return filepath.Join(parent, rel)
	}
	return parent
}

// ProjectName returns the name of an .xcodeproj package path, e.g. "App"
// for "/src/App.xcodeproj".
func ProjectName(path string) (string, error) {
	last := filepath.Base(filepath.Clean(path))
	name, ok := strings.CutSuffix(last, Extension)
	if !ok || name == "" {
		return "", fmt.Errorf("%w: %s", ErrNotXcodeproj, path)
	}
	return name, nil
}

// Locate turns a user-supplied path into an .xcodeproj package directory.
// It accepts the package itself, its project.pbxproj, or a directory that
// contains exactly one package.
func Locate(path string) (string, error) {
	clean := filepath.Clean(path)
	if filepath.Base(clean) == DocumentName {
		clean = filepath.Dir(clean)
	}
	if _, err := ProjectName(clean); err == nil {
		return clean, nil
	}

	info, err := os.Stat(clean)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotXcodeproj, path)
	}
	found, err := fsutil.FindPackages(clean, Extension, 1)
	if err != nil {
		return "", fmt.Errorf("searching %s: %w", clean, err)
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: no %s in %s", ErrNotXcodeproj, Extension, path)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: %s contains %d packages, pick one", ErrNotXcodeproj, path, len(found))
	}
}

// Open locates, reads and loads a project package.
func Open(ctx context.Context, path string) (*Project, error) {
	logger := ctxlog.FromContext(ctx)

	dir, err := Locate(path)
	if err != nil {
		return nil, err
	}
	name, err := ProjectName(dir)
	if err != nil {
		return nil, err
	}

	docPath := filepath.Join(dir, DocumentName)
	info, err := os.Stat(docPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingPbxproj, docPath)
		}
		return nil, fmt.Errorf("reading %s: %w", docPath, err)
	}
	data, err := os.ReadFile(docPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", docPath, err)
	}
	logger.Debug("Read project document.", "path", docPath, "bytes", len(data))

	graph, format, err := Parse(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", docPath, err)
	}
	logger.Info("Project loaded.", "name", name, "format", format, "objects", graph.Objects().Len())

	return &Project{
		Graph:   graph,
		Dir:     dir,
		Name:    name,
		Format:  format,
		ModTime: info.ModTime(),
	}, nil
}

// Parse decodes raw project.pbxproj bytes and loads the graph.
func Parse(ctx context.Context, data []byte) (*pbx.Graph, plist.Format, error) {
	doc, format, err := plist.Decode(data)
	if err != nil {
		return nil, format, errors.Join(ErrInvalidData, err)
	}
	graph, err := pbx.Load(ctx, doc)
	if err != nil {
		if errors.Is(err, pbx.ErrDocument) {
			return nil, format, errors.Join(ErrInvalidData, err)
		}
		return nil, format, err
	}
	return graph, format, nil
}
