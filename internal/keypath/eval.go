package keypath

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/pbxgraph/internal/pbx"
)

var (
	ErrNotFound       = errors.New("key not found")
	ErrIndex          = errors.New("index out of range")
	ErrNotTraversable = errors.New("value cannot be traversed")
)

// Result is the value a key path lands on. ID and Isa are set when the value
// is a record, in which case Value holds the record's attributes.
type Result struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Isa   string `json:"isa,omitempty" yaml:"isa,omitempty"`
	Value any    `json:"value" yaml:"value"`
}

// IsObject reports whether the result is a record rather than a plain value.
func (r Result) IsObject() bool { return r.ID != "" }

// Evaluate walks p through the graph's raw records.
func Evaluate(g *pbx.Graph, p *Path) (Result, error) {
	if p == nil || len(p.Segments) == 0 {
		return Result{}, fmt.Errorf("%w: empty key path", ErrNotFound)
	}
	objs := g.Objects()

	cur := follow(objs, g.RootID())
	start := 0
	if first := p.Segments[0]; !first.HasIndex() {
		if _, ok := objs.Get(first.Name); ok {
			cur = follow(objs, first.Name)
			start = 1
		}
	}

	for i := start; i < len(p.Segments); i++ {
		seg := p.Segments[i]
		at := p.prefix(i + 1)

		m, ok := cur.Value.(map[string]any)
		if !ok {
			return Result{}, fmt.Errorf("%w: %s is %s", ErrNotTraversable, p.prefix(i), describe(cur.Value))
		}
		v, ok := m[seg.Name]
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrNotFound, at)
		}
		if seg.HasIndex() {
			arr, ok := v.([]any)
			if !ok {
				return Result{}, fmt.Errorf("%w: %s is %s, not an array", ErrNotTraversable, seg.Name, describe(v))
			}
			if seg.Index >= len(arr) {
				return Result{}, fmt.Errorf("%w: %s has %d elements", ErrIndex, at, len(arr))
			}
			v = arr[seg.Index]
		}
		cur = follow(objs, v)
	}
	return cur, nil
}

// follow turns a string that names a record into that record.
func follow(objs *pbx.Objects, v any) Result {
	if id, ok := v.(string); ok {
		if n, ok := objs.Get(id); ok {
			return Result{ID: id, Isa: n.Isa(), Value: n.Attributes()}
		}
	}
	return Result{Value: v}
}

func describe(v any) string {
	switch v.(type) {
	case string:
		return "a string"
	case []any:
		return "an array"
	case map[string]any:
		return "a dictionary"
	default:
		return fmt.Sprintf("a %T", v)
	}
}
