// Package tools exposes bridge methods to agents as MCP tools.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gaspardpetit/edabridge/internal/bridge"
	"github.com/gaspardpetit/edabridge/internal/logx"
	"github.com/gaspardpetit/edabridge/internal/query"
	"github.com/gaspardpetit/edabridge/internal/wire"
)

// Caller is the part of the bridge server the tools need.
type Caller interface {
	Send(ctx context.Context, method string, params *wire.Object) (wire.Value, error)
	IsConnected() bool
	Port() int
}

// ParamType is the JSON shape a tool argument accepts.
type ParamType int

const (
	TypeString ParamType = iota
	TypeNumber
	TypeInteger
	TypeBoolean
	TypeStrings
	// TypeStringOrList accepts a single string or a list of strings.
	TypeStringOrList
	TypeArray
	TypeObject
)

// Param describes one tool argument.
type Param struct {
	Name     string
	Type     ParamType
	Required bool
	Enum     []string
	Default  any
	// Numeric converts a string argument, such as an enum member, to a number.
	Numeric     bool
	Description string
}

// CompositeFunc implements a selector value with more than one bridge call.
type CompositeFunc func(ctx context.Context, c Caller, params *wire.Object) (wire.Value, error)

// Spec declares a tool and how its arguments become a bridge call.
type Spec struct {
	Name        string
	Description string
	Method      string
	// Selector names the param whose value picks the method from Methods
	// or Composite. The selector itself is not forwarded.
	Selector  string
	Methods   map[string]string
	Composite map[string]CompositeFunc
	ReadOnly  bool
	// Query adds the fields, filter and limit directives.
	Query bool
	// Nest moves every param not listed in Keep into an object under Nest.
	Nest   string
	Keep   []string
	Params []Param
}

// ErrInvalidArguments marks arguments rejected before reaching the bridge.
var ErrInvalidArguments = errors.New("invalid arguments")

var directiveParams = []Param{
	{
		Name: query.KeyFields,
		Type: TypeStrings,
		Description: "Project results to only these top-level keys. Response includes _availableFields showing all keys. " +
			"Always specify fields when you know what you need: without it, responses include every property and can be very large.",
	},
	{
		Name:        query.KeyFilter,
		Type:        TypeObject,
		Description: `Keep items matching all conditions (AND). Exact: {key: value}, prefix glob: {key: "R*"}, OR: {key: ["a","b"]}`,
	},
	{
		Name:        query.KeyLimit,
		Type:        TypeInteger,
		Description: "Truncate result array to at most N items",
	},
}

func (s Spec) params() []Param {
	if !s.Query {
		return s.Params
	}
	return append(slices.Clip(s.Params), directiveParams...)
}

// Tool returns the MCP definition of s.
func (s Spec) Tool() mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(s.Description)}
	if s.ReadOnly {
		opts = append(opts, mcp.WithReadOnlyHintAnnotation(true))
	}
	for _, p := range s.params() {
		opts = append(opts, p.option())
	}
	return mcp.NewTool(s.Name, opts...)
}

func (p Param) option() mcp.ToolOption {
	var props []mcp.PropertyOption
	if p.Description != "" {
		props = append(props, mcp.Description(p.Description))
	}
	if p.Required {
		props = append(props, mcp.Required())
	}
	if len(p.Enum) > 0 {
		props = append(props, mcp.Enum(p.Enum...))
	}
	switch p.Type {
	case TypeNumber, TypeInteger:
		return mcp.WithNumber(p.Name, props...)
	case TypeBoolean:
		if d, ok := p.Default.(bool); ok {
			props = append(props, mcp.DefaultBool(d))
		}
		return mcp.WithBoolean(p.Name, props...)
	case TypeStrings, TypeStringOrList:
		props = append(props, mcp.Items(map[string]any{"type": "string"}))
		return mcp.WithArray(p.Name, props...)
	case TypeArray:
		return mcp.WithArray(p.Name, props...)
	case TypeObject:
		return mcp.WithObject(p.Name, props...)
	default:
		return mcp.WithString(p.Name, props...)
	}
}

// Targets lists the bridge methods s can call.
func (s Spec) Targets() []string {
	var out []string
	if s.Method != "" {
		out = append(out, s.Method)
	}
	for _, m := range s.Methods {
		out = append(out, m)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Build resolves the bridge method and params for a call with args.
func (s Spec) Build(args map[string]any) (string, *wire.Object, error) {
	selected, params, err := s.resolve(args)
	if err != nil {
		return "", nil, err
	}
	method, err := s.method(selected)
	return method, params, err
}

// Call runs s against c.
func (s Spec) Call(ctx context.Context, c Caller, args map[string]any) (wire.Value, error) {
	selected, params, err := s.resolve(args)
	if err != nil {
		return wire.Value{}, err
	}
	if fn, ok := s.Composite[selected]; ok {
		return fn(ctx, c, params)
	}
	method, err := s.method(selected)
	if err != nil {
		return wire.Value{}, err
	}
	return c.Send(ctx, method, params)
}

func (s Spec) method(selected string) (string, error) {
	if s.Selector == "" {
		return s.Method, nil
	}
	m, ok := s.Methods[selected]
	if !ok {
		return "", fmt.Errorf("%w: unknown %s %q", ErrInvalidArguments, s.Selector, selected)
	}
	return m, nil
}

func (s Spec) resolve(args map[string]any) (string, *wire.Object, error) {
	params := wire.NewObject()
	for _, p := range s.params() {
		raw, ok := args[p.Name]
		if !ok {
			switch {
			case p.Default != nil:
				raw = p.Default
			case p.Required:
				return "", nil, fmt.Errorf("%w: missing required parameter %q", ErrInvalidArguments, p.Name)
			default:
				continue
			}
		}
		v, err := wire.FromAny(raw)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s: %v", ErrInvalidArguments, p.Name, err)
		}
		if p.Numeric {
			if v, err = numeric(v); err != nil {
				return "", nil, fmt.Errorf("%w: %s: %v", ErrInvalidArguments, p.Name, err)
			}
		}
		params.Set(p.Name, v)
	}

	var selected string
	if s.Selector != "" {
		v, _ := params.Delete(s.Selector)
		selected, _ = v.AsString()
	}
	if s.Nest != "" {
		params = nest(params, s.Nest, s.Keep)
	}
	return selected, params, nil
}

func numeric(v wire.Value) (wire.Value, error) {
	str, ok := v.AsString()
	if !ok {
		return v, nil
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return wire.Value{}, fmt.Errorf("not a number: %q", str)
	}
	return wire.Number(f), nil
}

func nest(params *wire.Object, key string, keep []string) *wire.Object {
	out := wire.NewObject()
	inner := wire.NewObject()
	for pair := params.Oldest(); pair != nil; pair = pair.Next() {
		if slices.Contains(keep, pair.Key) {
			out.Set(pair.Key, pair.Value)
		} else {
			inner.Set(pair.Key, pair.Value)
		}
	}
	out.Set(key, wire.ObjectValue(inner))
	return out
}

// modifyDiffPairNets updates whichever of the two nets are given.
func modifyDiffPairNets(ctx context.Context, c Caller, params *wire.Object) (wire.Value, error) {
	out := wire.NewObject()
	for _, side := range []struct{ key, label, method string }{
		{"positiveNet", "positive", "pcb.drc.modifyDiffPairPositiveNet"},
		{"negativeNet", "negative", "pcb.drc.modifyDiffPairNegativeNet"},
	} {
		net, ok := params.Get(side.key)
		if !ok {
			continue
		}
		p := wire.NewObject()
		if name, ok := params.Get("name"); ok {
			p.Set("name", name)
		}
		p.Set(side.key, net)
		v, err := c.Send(ctx, side.method, p)
		if err != nil {
			return wire.Value{}, err
		}
		out.Set(side.label, v)
	}
	return wire.ObjectValue(out), nil
}

// Register adds a tool to s for every spec.
func Register(s *server.MCPServer, c Caller, specs ...Spec) {
	for _, spec := range specs {
		s.AddTool(spec.Tool(), handler(c, spec))
	}
}

// NewServer returns an MCP server carrying the full catalog and the
// bridge_status tool.
func NewServer(c Caller, version string) *server.MCPServer {
	s := server.NewMCPServer("edabridge", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	Register(s, c, Catalog()...)
	s.AddTool(mcp.NewTool("bridge_status",
		mcp.WithDescription("Report whether the editor extension is connected and which port the bridge listens on"),
		mcp.WithReadOnlyHintAnnotation(true),
	), statusHandler(c))
	return s
}

func handler(c Caller, spec Spec) server.ToolHandlerFunc {
	log := logx.Component("tools")
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		res, err := spec.Call(ctx, c, req.GetArguments())
		if err != nil {
			log.Debug().Err(err).Str("tool", spec.Name).Dur("elapsed", time.Since(start)).Msg("tool failed")
			return mcp.NewToolResultError(describe(err)), nil
		}
		log.Debug().Str("tool", spec.Name).Dur("elapsed", time.Since(start)).Msg("tool done")
		return textResult(res)
	}
}

func statusHandler(c Caller) server.ToolHandlerFunc {
	return func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		st := wire.NewObject()
		st.Set("connected", wire.Bool(c.IsConnected()))
		st.Set("port", wire.Int(int64(c.Port())))
		return textResult(wire.ObjectValue(st))
	}
}

func textResult(v wire.Value) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

// describe turns a call failure into the text shown to the agent.
func describe(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "request canceled"
	case errors.Is(err, bridge.ErrTimeout):
		return err.Error() + " (the editor may be busy; retry or narrow the request with fields, filter or limit)"
	default:
		return err.Error()
	}
}
