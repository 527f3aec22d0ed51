// Package handlers maps bridge method names onto editor operations.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/gaspardpetit/edabridge/internal/cad"
	"github.com/gaspardpetit/edabridge/internal/wire"
)

// Func handles one method. params never contains query directives.
type Func func(ctx context.Context, params *wire.Object) (wire.Value, error)

// Partial is the set of handlers for one functional area.
type Partial struct {
	Name     string
	Handlers map[string]Func
}

// ErrDuplicateMethod is returned when two partial tables claim a method.
var ErrDuplicateMethod = errors.New("duplicate method")

// DuplicateMethodError names the colliding method and both owners.
type DuplicateMethodError struct {
	Method string
	First  string
	Second string
}

func (e *DuplicateMethodError) Error() string {
	return fmt.Sprintf("method %q registered by both %s and %s", e.Method, e.First, e.Second)
}

func (e *DuplicateMethodError) Is(target error) bool { return target == ErrDuplicateMethod }

// Table is an immutable method lookup built by Compose.
type Table struct {
	handlers map[string]Func
	owners   map[string]string
}

// Compose merges partial tables. Any method claimed twice is an error.
func Compose(parts ...Partial) (*Table, error) {
	t := &Table{handlers: map[string]Func{}, owners: map[string]string{}}
	for _, p := range parts {
		for method, fn := range p.Handlers {
			if owner, ok := t.owners[method]; ok {
				return nil, &DuplicateMethodError{Method: method, First: owner, Second: p.Name}
			}
			if fn == nil {
				return nil, fmt.Errorf("method %q in %s has no handler", method, p.Name)
			}
			t.handlers[method] = fn
			t.owners[method] = p.Name
		}
	}
	return t, nil
}

// MustCompose is Compose that panics on error.
func MustCompose(parts ...Partial) *Table {
	t, err := Compose(parts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the handler for method.
func (t *Table) Lookup(method string) (Func, bool) {
	fn, ok := t.handlers[method]
	return fn, ok
}

// Owner returns the partial table that registered method.
func (t *Table) Owner(method string) string { return t.owners[method] }

// Methods lists registered method names in sorted order.
func (t *Table) Methods() []string {
	out := make([]string, 0, len(t.handlers))
	for m := range t.handlers {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of methods.
func (t *Table) Len() int { return len(t.handlers) }

// Areas returns the partial table of every functional area.
func Areas(api cad.API) []Partial {
	return []Partial{
		Components(api),
		Documents(api),
		DRC(api),
		Rules(api),
		Editor(api),
		Library(api),
		Nets(api),
		Primitives(api),
		Pours(api),
		Tracks(api),
		Vias(api),
		SchematicComponents(api),
		SchematicDocuments(api),
		SchematicPrimitives(api),
		SchematicSelection(api),
		SchematicWires(api),
	}
}

// Default composes every area against api.
func Default(api cad.API) (*Table, error) {
	return Compose(Areas(api)...)
}
