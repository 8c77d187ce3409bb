package pbx

import (
	"fmt"
	"maps"
	"sync"
)

// Node is one typed record of the project document.
type Node interface {
	ID() string
	Isa() string
	Kind() Kind
	Attributes() map[string]any
	base() *Object
}

// Object carries what every node variant shares: its ID, its raw attribute
// mapping and a non-owning back-reference to the registry that owns it.
// Variants embed Object by value; the attribute map itself is shared and
// never written.
type Object struct {
	id      string
	isa     string
	attrs   map[string]any
	objects *Objects
}

func newObject(id string, attrs map[string]any, objects *Objects) Object {
	isa, _ := attrs["isa"].(string)
	return Object{id: id, isa: isa, attrs: attrs, objects: objects}
}

// ID returns the opaque object identifier.
func (o *Object) ID() string { return o.id }

// Isa returns the raw isa tag, which may be empty or unregistered.
func (o *Object) Isa() string { return o.isa }

// Attributes returns a shallow copy of the raw attributes.
func (o *Object) Attributes() map[string]any { return maps.Clone(o.attrs) }

// Objects returns the registry the node belongs to.
func (o *Object) Objects() *Objects { return o.objects }

func (o *Object) base() *Object { return o }

func (o *Object) setBase(src Object) { *o = src }

// Attr returns a raw attribute value.
func (o *Object) Attr(key string) (any, bool) {
	v, ok := o.attrs[key]
	return v, ok
}

// StringAttr returns a string attribute. Non-string values count as absent.
func (o *Object) StringAttr(key string) (string, bool) {
	s, ok := o.attrs[key].(string)
	return s, ok
}

// StringsAttr returns a string-array attribute. A missing attribute is an
// empty list; anything that is not an array of strings is a StructuralError.
func (o *Object) StringsAttr(key string) ([]string, error) {
	raw, ok := o.attrs[key]
	if !ok {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, o.structural(key, fmt.Sprintf("expected array, got %T", raw))
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, o.structural(key, fmt.Sprintf("element %d: expected string, got %T", i, item))
		}
		out = append(out, s)
	}
	return out, nil
}

// DictAttr returns a dictionary attribute.
func (o *Object) DictAttr(key string) (map[string]any, bool) {
	d, ok := o.attrs[key].(map[string]any)
	return d, ok
}

func (o *Object) requiredString(key string) (string, error) {
	s, ok := o.StringAttr(key)
	if !ok {
		return "", o.structural(key, "required string attribute is absent")
	}
	return s, nil
}

func (o *Object) structural(key, reason string) error {
	return &StructuralError{Owner: o.id, Attribute: key, Reason: reason}
}

// refID returns the object ID stored under key. A missing attribute reports
// ok=false; a value that is not a string is a StructuralError.
func (o *Object) refID(key string) (string, bool, error) {
	raw, ok := o.attrs[key]
	if !ok {
		return "", false, nil
	}
	id, ok := raw.(string)
	if !ok {
		return "", false, o.structural(key, fmt.Sprintf("expected object ID, got %T", raw))
	}
	return id, true, nil
}

// Unknown is the generic node for records whose isa is not registered.
type Unknown struct {
	Object
}

func (*Unknown) Kind() Kind { return KindUnknown }

// memo is a write-once cell for a derived attribute. It is safe for
// concurrent first access.
type memo[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (m *memo[T]) get(f func() (T, error)) (T, error) {
	m.once.Do(func() {
		m.val, m.err = f()
	})
	return m.val, m.err
}

// variant is satisfied by pointers to the concrete node structs.
type variant[T any] interface {
	*T
	Node
	setBase(Object)
}

// requiredRef resolves the object named by key as PT.
func requiredRef[T any, PT variant[T]](o *Object, key string) (PT, error) {
	id, ok, err := o.refID(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, o.structural(key, "required reference is absent")
	}
	return resolveAs[T, PT](o.objects, o.id, key, id)
}

// optionalRef resolves the object named by key as PT. An absent attribute,
// malformed value or unknown ID all yield ok=false.
func optionalRef[T any, PT variant[T]](o *Object, key string) (PT, bool) {
	id, ok, err := o.refID(key)
	if err != nil || !ok {
		return nil, false
	}
	v, err := resolveAs[T, PT](o.objects, o.id, key, id)
	if err != nil {
		return nil, false
	}
	return v, true
}

// refList resolves every ID of a string-array attribute, preserving order.
func refList[T any, PT variant[T]](o *Object, key string) ([]PT, error) {
	ids, err := o.refIDs(key)
	if err != nil {
		return nil, err
	}
	out := make([]PT, 0, len(ids))
	for _, id := range ids {
		v, err := resolveAs[T, PT](o.objects, o.id, key, id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ifaceList resolves a string-array attribute as interface I. Nodes that do
// not implement I are viewed as the fallback variant F.
func ifaceList[I any, F any, PF variant[F]](o *Object, key string) ([]I, error) {
	ids, err := o.refIDs(key)
	if err != nil {
		return nil, err
	}
	out := make([]I, 0, len(ids))
	for _, id := range ids {
		v, err := resolveIface[I, F, PF](o.objects, o.id, key, id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (o *Object) refIDs(key string) ([]string, error) {
	raw, ok := o.attrs[key]
	if !ok {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, o.structural(key, fmt.Sprintf("expected array of object IDs, got %T", raw))
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id, ok := item.(string)
		if !ok {
			return nil, &MissingReferenceError{Owner: o.id, Attribute: key, ID: fmt.Sprintf("%v", item)}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
