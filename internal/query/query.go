// Package query reshapes handler results according to caller directives
// before they cross the bridge.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gaspardpetit/edabridge/internal/wire"
)

// Reserved parameter and result keys.
const (
	KeyFields = "fields"
	KeyFilter = "filter"
	KeyLimit  = "limit"

	// AvailableFieldsKey lists the keys of the first surviving element when
	// a sequence result was projected with fields.
	AvailableFieldsKey = "_availableFields"
	// ItemsKey holds the projected elements next to AvailableFieldsKey.
	ItemsKey = "items"
)

// Wildcard marks a prefix filter condition such as "R*".
const Wildcard = "*"

// ErrInvalidDirective reports a malformed fields, filter or limit value.
var ErrInvalidDirective = errors.New("invalid query directive")

// Condition is one filter clause. A null Value matches only absent or null
// element values.
type Condition struct {
	Key   string
	Value wire.Value
}

// Directives are the caller instructions applied to a result.
type Directives struct {
	Fields []string
	Filter []Condition
	Limit  int
}

// IsZero reports whether no directive is set.
func (d Directives) IsZero() bool {
	return d.Fields == nil && len(d.Filter) == 0 && d.Limit == 0
}

func invalid(key, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidDirective, key, fmt.Sprintf(format, args...))
}

// Extract splits params into directives and the remaining handler
// parameters. params is left untouched. Null directive values count as
// absent.
func Extract(params *wire.Object) (Directives, *wire.Object, error) {
	var d Directives
	rest := wire.NewObject()
	if params == nil {
		return d, rest, nil
	}
	for pair := params.Oldest(); pair != nil; pair = pair.Next() {
		key, val := pair.Key, pair.Value
		switch key {
		case KeyFields, KeyFilter, KeyLimit:
		default:
			rest.Set(key, val)
			continue
		}
		if val.IsNull() {
			continue
		}
		var err error
		switch key {
		case KeyFields:
			d.Fields, err = parseFields(val)
		case KeyFilter:
			d.Filter, err = parseFilter(val)
		case KeyLimit:
			d.Limit, err = parseLimit(val)
		}
		if err != nil {
			return Directives{}, nil, err
		}
	}
	return d, rest, nil
}

func parseFields(v wire.Value) ([]string, error) {
	items, ok := v.Items()
	if !ok {
		return nil, invalid(KeyFields, "expected a list of strings, got %s", v.Kind())
	}
	fields := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := it.AsString()
		if !ok {
			return nil, invalid(KeyFields, "expected a list of strings, found %s", it.Kind())
		}
		fields = append(fields, s)
	}
	return fields, nil
}

func parseFilter(v wire.Value) ([]Condition, error) {
	obj, ok := v.Object()
	if !ok {
		return nil, invalid(KeyFilter, "expected an object, got %s", v.Kind())
	}
	conds := make([]Condition, 0, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Value.Kind() {
		case wire.KindObject:
			return nil, invalid(KeyFilter, "condition for %q must be a scalar or a list of strings", pair.Key)
		case wire.KindArray:
			items, _ := pair.Value.Items()
			for _, it := range items {
				if it.Kind() != wire.KindString {
					return nil, invalid(KeyFilter, "alternatives for %q must be strings", pair.Key)
				}
			}
		}
		conds = append(conds, Condition{Key: pair.Key, Value: pair.Value})
	}
	return conds, nil
}

func parseLimit(v wire.Value) (int, error) {
	n, ok := v.AsInt()
	if !ok {
		return 0, invalid(KeyLimit, "expected an integer, got %s", v.Text())
	}
	if n <= 0 {
		return 0, invalid(KeyLimit, "must be positive, got %d", n)
	}
	return int(n), nil
}

// Apply reshapes result according to d. It never mutates result.
func Apply(result wire.Value, d Directives) (wire.Value, error) {
	if d.Limit < 0 {
		return wire.Value{}, invalid(KeyLimit, "must be positive, got %d", d.Limit)
	}
	if d.IsZero() {
		return result, nil
	}
	items, available, hasAvailable, isSeq := sequence(result)
	if !isSeq {
		if d.Fields == nil {
			return result, nil
		}
		return project(result, d.Fields), nil
	}
	if len(items) == 0 {
		return wire.Array(), nil
	}

	kept := make([]wire.Value, 0, len(items))
	for _, it := range items {
		if matchesAll(it, d.Filter) {
			kept = append(kept, it)
		}
	}
	if d.Limit > 0 && len(kept) > d.Limit {
		kept = kept[:d.Limit]
	}
	if len(kept) == 0 {
		return wire.Array(), nil
	}
	if d.Fields == nil {
		return wire.Array(kept...), nil
	}

	if !hasAvailable {
		if obj, ok := kept[0].Object(); ok {
			available = wire.Strings(wire.Keys(obj)...)
		} else {
			available = wire.Array()
		}
	}
	projected := make([]wire.Value, len(kept))
	for i, it := range kept {
		projected[i] = project(it, d.Fields)
	}
	out := wire.NewObject()
	out.Set(ItemsKey, wire.Array(projected...))
	out.Set(AvailableFieldsKey, available)
	return wire.ObjectValue(out), nil
}

// sequence unwraps result into its elements. A previously projected
// envelope counts as a sequence and carries its discovered field list.
func sequence(result wire.Value) ([]wire.Value, wire.Value, bool, bool) {
	if items, ok := result.Items(); ok {
		return items, wire.Value{}, false, true
	}
	obj, isObj := result.Object()
	if !isObj || obj.Len() != 2 {
		return nil, wire.Value{}, false, false
	}
	inner, hasItems := obj.Get(ItemsKey)
	fields, hasFields := obj.Get(AvailableFieldsKey)
	if !hasItems || !hasFields || !inner.IsArray() || !fields.IsArray() {
		return nil, wire.Value{}, false, false
	}
	items, _ := inner.Items()
	return items, fields, true, true
}

// project keeps the named keys of an object, in fields order. Non-object
// values are returned unchanged.
func project(v wire.Value, fields []string) wire.Value {
	obj, ok := v.Object()
	if !ok {
		return v
	}
	out := wire.NewObject()
	for _, f := range fields {
		if fv, ok := obj.Get(f); ok {
			out.Set(f, fv)
		}
	}
	return wire.ObjectValue(out)
}

func matchesAll(item wire.Value, conds []Condition) bool {
	for _, c := range conds {
		got, present := item.Get(c.Key)
		if !matches(got, present, c.Value) {
			return false
		}
	}
	return true
}

func matches(got wire.Value, present bool, cond wire.Value) bool {
	if cond.IsNull() {
		return !present || got.IsNull()
	}
	if !present {
		return false
	}
	if alts, ok := cond.Items(); ok {
		text := got.Text()
		for _, alt := range alts {
			if s, _ := alt.AsString(); s == text {
				return true
			}
		}
		return false
	}
	if pattern, ok := cond.AsString(); ok && strings.HasSuffix(pattern, Wildcard) {
		s, ok := got.AsString()
		return ok && strings.HasPrefix(s, strings.TrimSuffix(pattern, Wildcard))
	}
	return wire.Equal(got, cond)
}
