package pbx

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Objects is the owning arena of every node in a project document, keyed by
// object ID. Nodes refer to each other only by ID and resolve through it.
//
// Objects is populated once by Load and is read-only afterwards. Typed views
// requested through As are memoized in a sync.Map, so concurrent readers
// need no extra locking.
type Objects struct {
	nodes map[string]Node
	views sync.Map // viewKey -> Node
	diags []Diagnostic
	paths *PathIndex
}

type viewKey struct {
	id   string
	kind Kind
}

// newObjects builds one node per raw record. Cross-references are not
// touched here; they are resolved on first access.
func newObjects(records map[string]map[string]any) *Objects {
	objs := &Objects{nodes: make(map[string]Node, len(records))}
	for _, id := range sortedKeys(records) {
		n, known := construct(newObject(id, records[id], objs))
		if !known {
			objs.diags = append(objs.diags, Diagnostic{
				Code:    UnknownRecordType,
				ID:      id,
				Isa:     n.Isa(),
				Message: "no registered variant, loaded as generic node",
			})
		}
		objs.nodes[id] = n
	}
	return objs
}

// Get returns the canonical node stored under id.
func (o *Objects) Get(id string) (Node, bool) {
	n, ok := o.nodes[id]
	return n, ok
}

// Len returns the number of records.
func (o *Objects) Len() int { return len(o.nodes) }

// IDs returns every object ID in sorted order.
func (o *Objects) IDs() []string {
	return sortedKeys(o.nodes)
}

// ByKind returns the canonical nodes of kind k, ordered by ID.
func (o *Objects) ByKind(k Kind) []Node {
	var out []Node
	for _, id := range o.IDs() {
		if n := o.nodes[id]; n.Kind() == k {
			out = append(out, n)
		}
	}
	return out
}

// Diagnostics returns the soft findings recorded while loading.
func (o *Objects) Diagnostics() []Diagnostic {
	return slices.Clone(o.diags)
}

// As returns the object stored under id viewed as variant T.
//
// If the stored node already is a *T it is returned as is. Otherwise a *T is
// built from the same raw record; the isa tag stays the single source of
// truth, so the view is lossless. Views are memoized per (id, variant), and
// repeated calls return the same *T.
func As[T any, PT variant[T]](objs *Objects, id string) (PT, error) {
	return resolveAs[T, PT](objs, "", "", id)
}

// Optional is As for lookups where a missing object is not an error.
func Optional[T any, PT variant[T]](objs *Objects, id string) (PT, bool) {
	v, err := resolveAs[T, PT](objs, "", "", id)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Many resolves ids in order. The first unknown ID fails the whole call
// with a *MissingReferenceError.
func Many[T any, PT variant[T]](objs *Objects, ids []string) ([]PT, error) {
	out := make([]PT, 0, len(ids))
	for _, id := range ids {
		v, err := resolveAs[T, PT](objs, "", "", id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func resolveAs[T any, PT variant[T]](objs *Objects, owner, attr, id string) (PT, error) {
	n, ok := objs.nodes[id]
	if !ok {
		return nil, &MissingReferenceError{Owner: owner, Attribute: attr, ID: id}
	}
	if v, ok := n.(PT); ok {
		return v, nil
	}
	return coerce[T, PT](objs, n), nil
}

// coerce returns the memoized PT view of n, building it on first request.
func coerce[T any, PT variant[T]](objs *Objects, n Node) PT {
	v := PT(new(T))
	key := viewKey{id: n.ID(), kind: v.Kind()}
	if cached, ok := objs.views.Load(key); ok {
		return cached.(PT)
	}
	v.setBase(*n.base())
	actual, _ := objs.views.LoadOrStore(key, Node(v))
	return actual.(PT)
}

// resolveIface resolves id as interface I. When the stored node does not
// implement I it is viewed as the fallback variant F, which must.
func resolveIface[I any, F any, PF variant[F]](objs *Objects, owner, attr, id string) (I, error) {
	var zero I
	n, ok := objs.nodes[id]
	if !ok {
		return zero, &MissingReferenceError{Owner: owner, Attribute: attr, ID: id}
	}
	if v, ok := n.(I); ok {
		return v, nil
	}
	v, ok := any(coerce[F, PF](objs, n)).(I)
	if !ok {
		return zero, &StructuralError{Owner: owner, Attribute: attr, Reason: fmt.Sprintf("object %s cannot be viewed as %s", id, reflect.TypeFor[I]())}
	}
	return v, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
