// Package projectcache keeps recently loaded projects in memory and reloads
// them when their project.pbxproj changes on disk.
package projectcache

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/specialistvlad/pbxgraph/internal/ctxlog"
	"github.com/specialistvlad/pbxgraph/internal/xcodeproj"
	"golang.org/x/sync/singleflight"
)

// DefaultSize is the number of projects kept when no size is configured.
const DefaultSize = 8

// OpenFunc loads a project package.
type OpenFunc func(ctx context.Context, dir string) (*xcodeproj.Project, error)

// Cache is an LRU of loaded projects keyed by package directory. Concurrent
// requests for the same package share one load.
type Cache struct {
	entries *lru.Cache[string, *xcodeproj.Project]
	flight  singleflight.Group
	open    OpenFunc

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits    int64 `json:"hits" yaml:"hits"`
	Misses  int64 `json:"misses" yaml:"misses"`
	Entries int   `json:"entries" yaml:"entries"`
}

// New creates a cache holding up to size projects. A nil open uses
// xcodeproj.Open.
func New(size int, open OpenFunc) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if open == nil {
		open = xcodeproj.Open
	}
	entries, err := lru.New[string, *xcodeproj.Project](size)
	if err != nil {
		return nil, fmt.Errorf("creating project cache: %w", err)
	}
	return &Cache{entries: entries, open: open}, nil
}

// Get returns the project at path, loading it on a miss or when the
// document's modification time differs from the cached copy.
func (c *Cache) Get(ctx context.Context, path string) (*xcodeproj.Project, error) {
	logger := ctxlog.FromContext(ctx)

	dir, err := xcodeproj.Locate(path)
	if err != nil {
		return nil, err
	}

	if p, ok := c.entries.Get(dir); ok {
		if fresh(p) {
			c.hits.Add(1)
			return p, nil
		}
		logger.Debug("Cached project is stale, reloading.", "dir", dir)
		c.entries.Remove(dir)
	}
	c.misses.Add(1)

	v, err, shared := c.flight.Do(dir, func() (any, error) {
		p, err := c.open(ctx, dir)
		if err != nil {
			return nil, err
		}
		c.entries.Add(dir, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug("Shared an in-flight project load.", "dir", dir)
	}
	return v.(*xcodeproj.Project), nil
}

func fresh(p *xcodeproj.Project) bool {
	info, err := os.Stat(p.DocumentPath())
	return err == nil && info.ModTime().Equal(p.ModTime)
}

// Invalidate drops the cached copy of the package at path, if any.
func (c *Cache) Invalidate(path string) {
	if dir, err := xcodeproj.Locate(path); err == nil {
		c.entries.Remove(dir)
	}
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.entries.Len(),
	}
}
