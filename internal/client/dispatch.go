package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/rs/zerolog"

	"github.com/gaspardpetit/edabridge/internal/handlers"
	"github.com/gaspardpetit/edabridge/internal/logx"
	"github.com/gaspardpetit/edabridge/internal/metrics"
	"github.com/gaspardpetit/edabridge/internal/query"
	"github.com/gaspardpetit/edabridge/internal/wire"
)

var (
	// ErrMalformedMessage marks a frame that could not be decoded.
	ErrMalformedMessage = errors.New("malformed message")
	// ErrUnknownMethod marks a request for a method the table lacks.
	ErrUnknownMethod = errors.New("unknown method")
)

// UnknownMethodMessage is the error text returned for a method the client
// does not implement.
func UnknownMethodMessage(method string) string {
	return fmt.Sprintf("Unknown method: %s (the bridge client and server may be running different versions)", method)
}

// Dispatcher routes decoded requests through a handler table and shapes
// the results with the query post-processor.
type Dispatcher struct {
	table *handlers.Table
	log   zerolog.Logger
}

// NewDispatcher returns a dispatcher over table.
func NewDispatcher(table *handlers.Table) *Dispatcher {
	return &Dispatcher{table: table, log: logx.Component("dispatch")}
}

// Handle processes one raw request frame. ok is false when the frame has
// no usable id, in which case nothing can be sent back.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte) (resp wire.Response, ok bool) {
	id, err := jsonparser.GetString(raw, "id")
	if err != nil || id == "" {
		d.log.Warn().Err(ErrMalformedMessage).Int("bytes", len(raw)).Msg("dropping request without id")
		return wire.Response{}, false
	}

	var req struct {
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		metrics.RecordDispatch("", metrics.OutcomeError)
		return wire.Failure(id, fmt.Sprintf("%v: %v", ErrMalformedMessage, err)), true
	}
	params, err := decodeParams(req.Params)
	if err != nil {
		metrics.RecordDispatch(req.Method, metrics.OutcomeError)
		return wire.Failure(id, fmt.Sprintf("%v: %v", ErrMalformedMessage, err)), true
	}

	fn, found := d.table.Lookup(req.Method)
	if !found {
		d.log.Warn().Err(ErrUnknownMethod).Str("method", req.Method).Str("id", id).Msg("no handler")
		metrics.RecordDispatch(req.Method, metrics.OutcomeUnknown)
		return wire.Failure(id, UnknownMethodMessage(req.Method)), true
	}

	directives, rest, err := query.Extract(params)
	if err != nil {
		metrics.RecordDispatch(req.Method, metrics.OutcomeError)
		return wire.Failure(id, err.Error()), true
	}

	result, err := d.invoke(ctx, req.Method, fn, rest)
	if err != nil {
		d.log.Debug().Err(err).Str("method", req.Method).Str("id", id).Msg("handler failed")
		metrics.RecordDispatch(req.Method, metrics.OutcomeError)
		return wire.Failure(id, err.Error()), true
	}
	shaped, err := query.Apply(result, directives)
	if err != nil {
		metrics.RecordDispatch(req.Method, metrics.OutcomeError)
		return wire.Failure(id, err.Error()), true
	}
	metrics.RecordDispatch(req.Method, metrics.OutcomeSuccess)
	return wire.Success(id, shaped), true
}

func (d *Dispatcher) invoke(ctx context.Context, method string, fn handlers.Func, params *wire.Object) (v wire.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("method", method).Msg("handler panicked")
			err = fmt.Errorf("handler for %s panicked: %v", method, r)
		}
	}()
	return fn(ctx, params)
}

func decodeParams(raw json.RawMessage) (*wire.Object, error) {
	if len(raw) == 0 {
		return wire.NewObject(), nil
	}
	v, err := wire.Parse(raw)
	if err != nil {
		return nil, err
	}
	switch v.Kind() {
	case wire.KindNull:
		return wire.NewObject(), nil
	case wire.KindObject:
		o, _ := v.Object()
		return o, nil
	default:
		return nil, fmt.Errorf("params must be an object, got %s", v.Kind())
	}
}
