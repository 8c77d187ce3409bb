// Package settings evaluates Xcode build settings.
//
// Raw buildSettings dictionaries are converted to cty object values whose
// attributes are strings or lists of strings. Resolve layers them (project
// level first, target level last) and expands $(NAME), ${NAME} and $NAME
// references, including $(inherited), against the merged result and a
// caller-supplied environment. References that resolve nowhere are kept
// verbatim.
package settings

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/specialistvlad/pbxgraph/internal/pbx"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrCycle is returned when a setting refers back to itself.
	ErrCycle = errors.New("build setting refers to itself")
	// ErrUnknownConfiguration is returned when a target has no
	// configuration with the requested name.
	ErrUnknownConfiguration = errors.New("unknown build configuration")
)

// Env supplies values for references that no settings layer defines.
type Env map[string]string

var refPattern = regexp.MustCompile(`\$\(([A-Za-z_][A-Za-z0-9_]*)\)|\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

const inherited = "inherited"

// FromMap converts a raw buildSettings dictionary.
func FromMap(raw map[string]any) (cty.Value, error) {
	if len(raw) == 0 {
		return cty.EmptyObjectVal, nil
	}
	attrs := make(map[string]cty.Value, len(raw))
	for k, v := range raw {
		cv, err := toCty(v)
		if err != nil {
			return cty.NilVal, fmt.Errorf("setting %s: %w", k, err)
		}
		attrs[k] = cv
	}
	return cty.ObjectVal(attrs), nil
}

// FromConfiguration converts the build settings of c.
func FromConfiguration(c *pbx.BuildConfiguration) (cty.Value, error) {
	v, err := FromMap(c.BuildSettings())
	if err != nil {
		return cty.NilVal, fmt.Errorf("configuration %s: %w", c.ID(), err)
	}
	return v, nil
}

func toCty(v any) (cty.Value, error) {
	switch v := v.(type) {
	case string:
		return cty.StringVal(v), nil
	case bool:
		if v {
			return cty.StringVal("YES"), nil
		}
		return cty.StringVal("NO"), nil
	case int64:
		return cty.StringVal(strconv.FormatInt(v, 10)), nil
	case uint64:
		return cty.StringVal(strconv.FormatUint(v, 10)), nil
	case float64:
		return cty.StringVal(strconv.FormatFloat(v, 'f', -1, 64)), nil
	case []any:
		if len(v) == 0 {
			return cty.ListValEmpty(cty.String), nil
		}
		elems := make([]cty.Value, 0, len(v))
		for i, e := range v {
			ev, err := toCty(e)
			if err != nil || ev.Type() != cty.String {
				return cty.NilVal, fmt.Errorf("element %d: expected a scalar, got %T", i, e)
			}
			elems = append(elems, ev)
		}
		return cty.ListVal(elems), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported value of type %T", v)
	}
}

// Resolve merges layers, later ones overriding earlier ones, and expands
// every reference. Each layer must be an object value as returned by
// FromMap.
func Resolve(layers []cty.Value, env Env) (cty.Value, error) {
	r := &resolver{
		env:    env,
		cache:  make(map[ref]cty.Value),
		active: make(map[ref]bool),
	}
	names := make(map[string]struct{})
	for i, l := range layers {
		if l.IsNull() || !l.Type().IsObjectType() {
			return cty.NilVal, fmt.Errorf("settings layer %d is not an object", i)
		}
		m := l.AsValueMap()
		if m == nil {
			m = map[string]cty.Value{}
		}
		for k := range m {
			names[k] = struct{}{}
		}
		r.layers = append(r.layers, m)
	}
	if len(names) == 0 {
		return cty.EmptyObjectVal, nil
	}

	top := len(r.layers) - 1
	out := make(map[string]cty.Value, len(names))
	for _, name := range slices.Sorted(maps.Keys(names)) {
		v, _, err := r.value(name, top)
		if err != nil {
			return cty.NilVal, err
		}
		out[name] = v
	}
	return cty.ObjectVal(out), nil
}

type ref struct {
	name  string
	level int
}

type resolver struct {
	layers []map[string]cty.Value
	env    Env
	cache  map[ref]cty.Value
	// active holds the settings being expanded; meeting one again is a
	// cycle.
	active map[ref]bool
}

// value returns name as defined at level or the nearest layer below it.
func (r *resolver) value(name string, level int) (cty.Value, bool, error) {
	for l := level; l >= 0; l-- {
		if raw, ok := r.layers[l][name]; ok {
			v, err := r.expand(ref{name: name, level: l}, raw)
			return v, true, err
		}
	}
	return cty.NilVal, false, nil
}

func (r *resolver) inherited(at ref) (cty.Value, bool, error) {
	if at.level == 0 {
		return cty.NilVal, false, nil
	}
	return r.value(at.name, at.level-1)
}

func (r *resolver) expand(at ref, raw cty.Value) (cty.Value, error) {
	if v, ok := r.cache[at]; ok {
		return v, nil
	}
	if r.active[at] {
		return cty.NilVal, fmt.Errorf("%w: %s", ErrCycle, at.name)
	}
	r.active[at] = true
	defer delete(r.active, at)

	var out cty.Value
	switch {
	case raw.Type() == cty.String:
		s, err := r.expandString(at, raw.AsString())
		if err != nil {
			return cty.NilVal, err
		}
		out = cty.StringVal(s)
	case raw.Type().IsListType():
		var elems []cty.Value
		for it := raw.ElementIterator(); it.Next(); {
			_, e := it.Element()
			if e.AsString() == "$("+inherited+")" {
				v, ok, err := r.inherited(at)
				if err != nil {
					return cty.NilVal, err
				}
				if ok {
					elems = append(elems, listElems(v)...)
				}
				continue
			}
			s, err := r.expandString(at, e.AsString())
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, cty.StringVal(s))
		}
		if len(elems) == 0 {
			out = cty.ListValEmpty(cty.String)
		} else {
			out = cty.ListVal(elems)
		}
	default:
		out = raw
	}

	r.cache[at] = out
	return out, nil
}

func (r *resolver) expandString(at ref, s string) (string, error) {
	var firstErr error
	top := len(r.layers) - 1
	out := refPattern.ReplaceAllStringFunc(s, func(m string) string {
		if firstErr != nil {
			return m
		}
		sub := refPattern.FindStringSubmatch(m)
		name := sub[1] + sub[2] + sub[3]

		var (
			v   cty.Value
			ok  bool
			err error
		)
		if name == inherited {
			v, ok, err = r.inherited(at)
			if err == nil && !ok {
				return ""
			}
		} else {
			v, ok, err = r.value(name, top)
		}
		if err != nil {
			firstErr = err
			return m
		}
		if ok {
			return render(v)
		}
		if e, ok := r.env[name]; ok {
			return e
		}
		return m
	})
	return out, firstErr
}

func listElems(v cty.Value) []cty.Value {
	if v.Type() == cty.String {
		var out []cty.Value
		for _, f := range strings.Fields(v.AsString()) {
			out = append(out, cty.StringVal(f))
		}
		return out
	}
	if v.Type().IsListType() {
		return v.AsValueSlice()
	}
	return nil
}

// render turns a resolved value into the string substituted for a
// reference. Lists are joined with spaces.
func render(v cty.Value) string {
	if v.Type() == cty.String {
		return v.AsString()
	}
	if v.Type().IsListType() {
		var parts []string
		for _, e := range v.AsValueSlice() {
			parts = append(parts, e.AsString())
		}
		return strings.Join(parts, " ")
	}
	return ""
}

// ToMap converts resolved settings into plain Go values: strings and
// string slices.
func ToMap(settings cty.Value) map[string]any {
	out := make(map[string]any)
	if settings.IsNull() || !settings.Type().IsObjectType() {
		return out
	}
	for name, v := range settings.AsValueMap() {
		if v.Type().IsListType() {
			list := make([]string, 0, v.LengthInt())
			for _, e := range v.AsValueSlice() {
				list = append(list, e.AsString())
			}
			out[name] = list
			continue
		}
		out[name] = render(v)
	}
	return out
}
