package handlers

import (
	"context"
	"errors"

	"github.com/gaspardpetit/edabridge/internal/cad"
	"github.com/gaspardpetit/edabridge/internal/wire"
)

// forward passes the named params, in order, as positional arguments to
// operation. Missing params are sent as null.
func forward(api cad.API, operation string, argNames ...string) Func {
	return func(ctx context.Context, params *wire.Object) (wire.Value, error) {
		return api.Invoke(ctx, operation, positional(params, argNames...))
	}
}

func positional(params *wire.Object, names ...string) []wire.Value {
	args := make([]wire.Value, len(names))
	for i, name := range names {
		args[i] = param(params, name)
	}
	return args
}

func param(params *wire.Object, name string) wire.Value {
	if params == nil {
		return wire.Null()
	}
	v, _ := params.Get(name)
	return v
}

var errInvalidPolygon = errors.New("invalid polygon data")

// withPolygon converts params["polygon"] through pcb_MathPolygon.createPolygon
// before forwarding. names must include "polygon".
func withPolygon(api cad.API, operation string, argNames ...string) Func {
	return func(ctx context.Context, params *wire.Object) (wire.Value, error) {
		poly, err := api.Invoke(ctx, "pcb_MathPolygon.createPolygon", []wire.Value{param(params, "polygon")})
		if err != nil {
			return wire.Value{}, err
		}
		if poly.IsNull() {
			return wire.Value{}, errInvalidPolygon
		}
		args := positional(params, argNames...)
		for i, name := range argNames {
			if name == "polygon" {
				args[i] = poly
			}
		}
		return api.Invoke(ctx, operation, args)
	}
}
