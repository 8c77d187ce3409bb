// Package depgraph orders a project's targets by their PBXTargetDependency
// edges.
package depgraph

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dominikbraun/graph"
	"github.com/specialistvlad/pbxgraph/internal/ctxlog"
	"github.com/specialistvlad/pbxgraph/internal/pbx"
)

// ErrCycle is returned when target dependencies form a cycle.
var ErrCycle = errors.New("target dependency cycle")

// Graph holds one vertex per target and an edge from every dependency to
// the target that depends on it.
type Graph struct {
	g     graph.Graph[string, pbx.Target]
	index map[string]int
}

func targetHash(t pbx.Target) string { return t.ID() }

// Build reads every target of project and its in-project dependencies.
// Dependencies on targets in other projects carry no target reference and
// are skipped.
func Build(ctx context.Context, project *pbx.Project) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)

	targets, err := project.Targets()
	if err != nil {
		return nil, fmt.Errorf("reading targets: %w", err)
	}

	dg := &Graph{
		g:     graph.New(targetHash, graph.Directed(), graph.PreventCycles()),
		index: make(map[string]int, len(targets)),
	}
	for i, t := range targets {
		if err := dg.g.AddVertex(t); err != nil {
			if errors.Is(err, graph.ErrVertexAlreadyExists) {
				continue
			}
			return nil, err
		}
		dg.index[t.ID()] = i
	}

	for _, t := range targets {
		deps, err := t.Dependencies()
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", t.ID(), err)
		}
		for _, d := range deps {
			dep, ok := d.Target()
			if !ok {
				logger.Debug("Skipping dependency without a local target.", "target", t.ID(), "dependency", d.ID())
				continue
			}
			if _, known := dg.index[dep.ID()]; !known {
				logger.Debug("Skipping dependency on a target outside the project's target list.", "target", t.ID(), "dependency", dep.ID())
				continue
			}
			err := dg.g.AddEdge(dep.ID(), t.ID())
			switch {
			case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
			case errors.Is(err, graph.ErrEdgeCreatesCycle):
				return nil, fmt.Errorf("%w: %s depends on %s", ErrCycle, name(t), name(dep))
			default:
				return nil, err
			}
		}
	}

	logger.Debug("Target dependency graph built.", "targets", len(dg.index))
	return dg, nil
}

func name(t pbx.Target) string {
	if n, err := t.Name(); err == nil {
		return n
	}
	return t.ID()
}

func (dg *Graph) less(a, b string) bool { return dg.index[a] < dg.index[b] }

// Order returns the targets so that every target comes after all of its
// dependencies. Ties are broken by project order.
func (dg *Graph) Order() ([]pbx.Target, error) {
	ids, err := graph.StableTopologicalSort(dg.g, dg.less)
	if err != nil {
		return nil, fmt.Errorf("sorting targets: %w", err)
	}
	return dg.targets(ids)
}

// DependenciesOf returns the direct dependencies of target id in project
// order.
func (dg *Graph) DependenciesOf(id string) ([]pbx.Target, error) {
	preds, err := dg.g.PredecessorMap()
	if err != nil {
		return nil, err
	}
	in, ok := preds[id]
	if !ok {
		return nil, fmt.Errorf("unknown target %s: %w", id, graph.ErrVertexNotFound)
	}
	ids := make([]string, 0, len(in))
	for dep := range in {
		ids = append(ids, dep)
	}
	slices.SortFunc(ids, func(a, b string) int { return dg.index[a] - dg.index[b] })
	return dg.targets(ids)
}

// Dependents returns every target that depends on id, directly or not, in
// project order.
func (dg *Graph) Dependents(id string) ([]pbx.Target, error) {
	var ids []string
	err := graph.DFS(dg.g, id, func(k string) bool {
		if k != id {
			ids = append(ids, k)
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(ids, func(a, b string) int { return dg.index[a] - dg.index[b] })
	return dg.targets(ids)
}

func (dg *Graph) targets(ids []string) ([]pbx.Target, error) {
	out := make([]pbx.Target, 0, len(ids))
	for _, id := range ids {
		t, err := dg.g.Vertex(id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Len returns the number of targets in the graph.
func (dg *Graph) Len() int { return len(dg.index) }
