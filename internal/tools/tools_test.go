package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/buger/jsonparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaspardpetit/edabridge/internal/bridge"
	"github.com/gaspardpetit/edabridge/internal/handlers"
	"github.com/gaspardpetit/edabridge/internal/wire"
)

type sent struct {
	method string
	params string
}

type fakeCaller struct {
	mu        sync.Mutex
	calls     []sent
	results   map[string]wire.Value
	err       error
	connected bool
}

func (f *fakeCaller) Send(_ context.Context, method string, params *wire.Object) (wire.Value, error) {
	b, _ := json.Marshal(params)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sent{method: method, params: string(b)})
	if f.err != nil {
		return wire.Value{}, f.err
	}
	return f.results[method], nil
}

func (f *fakeCaller) IsConnected() bool { return f.connected }
func (f *fakeCaller) Port() int         { return 15168 }

func spec(t *testing.T, name string) Spec {
	t.Helper()
	for _, s := range Catalog() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no tool %s", name)
	return Spec{}
}

func build(t *testing.T, name string, args map[string]any) (string, string) {
	t.Helper()
	method, params, err := spec(t, name).Build(args)
	require.NoError(t, err)
	b, err := json.Marshal(params)
	require.NoError(t, err)
	return method, string(b)
}

func TestCatalogResolvesAgainstHandlerTable(t *testing.T) {
	tbl, err := handlers.Default(nil)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, s := range Catalog() {
		assert.False(t, seen[s.Name], "duplicate tool %s", s.Name)
		seen[s.Name] = true
		require.NotEmpty(t, s.Targets(), s.Name)
		for _, m := range s.Targets() {
			_, ok := tbl.Lookup(m)
			assert.True(t, ok, "%s targets unknown method %s", s.Name, m)
		}
	}
	for _, m := range []string{"pcb.drc.modifyDiffPairPositiveNet", "pcb.drc.modifyDiffPairNegativeNet"} {
		_, ok := tbl.Lookup(m)
		assert.True(t, ok, m)
	}
}

func TestBuildNestsProperties(t *testing.T) {
	method, params := build(t, "pcb_move_component", map[string]any{"primitiveId": "c1", "rotation": 90.0, "x": 10.0})
	assert.Equal(t, "pcb.modify.component", method)
	assert.Equal(t, `{"primitiveId":"c1","property":{"x":10,"rotation":90}}`, params)
}

func TestBuildSelectsMethod(t *testing.T) {
	method, params := build(t, "pcb_delete_primitives", map[string]any{"type": "track", "ids": []any{"a", "b"}})
	assert.Equal(t, "pcb.delete.line", method)
	assert.Equal(t, `{"ids":["a","b"]}`, params)

	method, params = build(t, "pcb_manage_net_classes", map[string]any{"action": "add_net", "netClassName": "Power", "net": "VCC"})
	assert.Equal(t, "pcb.drc.addNetToNetClass", method)
	assert.Equal(t, `{"netClassName":"Power","net":"VCC"}`, params)

	_, _, err := spec(t, "pcb_delete_primitives").Build(map[string]any{"type": "board", "ids": "a"})
	require.ErrorIs(t, err, ErrInvalidArguments)
}

func TestBuildAppliesDefaults(t *testing.T) {
	_, params := build(t, "pcb_run_drc", map[string]any{})
	assert.Equal(t, `{"strict":true,"ui":false,"verbose":true}`, params)

	_, params = build(t, "sch_cross_probe_select", map[string]any{"nets": []any{"GND"}, "select": false})
	assert.Equal(t, `{"nets":["GND"],"highlight":true,"select":false}`, params)
}

func TestBuildRejectsMissingRequired(t *testing.T) {
	_, _, err := spec(t, "pcb_get_net_length").Build(map[string]any{})
	require.ErrorIs(t, err, ErrInvalidArguments)
	assert.Contains(t, err.Error(), `"net"`)
}

func TestBuildConvertsNumericEnum(t *testing.T) {
	_, params := build(t, "sch_create_wire", map[string]any{"line": []any{0.0, 0.0, 10.0, 0.0}, "lineType": "1"})
	assert.Equal(t, `{"line":[0,0,10,0],"lineType":1}`, params)

	method, params := build(t, "sch_modify_wire", map[string]any{"primitiveId": "w1", "lineType": "2", "net": "GND"})
	assert.Equal(t, "sch.wire.modify", method)
	assert.Equal(t, `{"primitiveId":"w1","property":{"net":"GND","lineType":2}}`, params)
}

func TestBuildForwardsDirectives(t *testing.T) {
	_, params := build(t, "pcb_get_all_vias", map[string]any{
		"limit":  2.0,
		"net":    "GND",
		"fields": []any{"x", "y"},
		"filter": map[string]any{"layer": "TopLayer"},
		"bogus":  true,
	})
	assert.Equal(t, `{"net":"GND","fields":["x","y"],"filter":{"layer":"TopLayer"},"limit":2}`, params)

	_, params = build(t, "pcb_save", map[string]any{"limit": 2.0})
	assert.Equal(t, `{}`, params)
}

func TestModifyDiffPairNets(t *testing.T) {
	f := &fakeCaller{results: map[string]wire.Value{
		"pcb.drc.modifyDiffPairPositiveNet": wire.Bool(true),
		"pcb.drc.modifyDiffPairNegativeNet": wire.Bool(false),
	}}
	res, err := spec(t, "pcb_manage_diff_pairs").Call(context.Background(), f, map[string]any{
		"action": "modify_nets", "name": "USB", "positiveNet": "D+", "negativeNet": "D-",
	})
	require.NoError(t, err)
	b, _ := json.Marshal(res)
	assert.Equal(t, `{"positive":true,"negative":false}`, string(b))
	require.Len(t, f.calls, 2)
	assert.Equal(t, sent{"pcb.drc.modifyDiffPairPositiveNet", `{"name":"USB","positiveNet":"D+"}`}, f.calls[0])
	assert.Equal(t, sent{"pcb.drc.modifyDiffPairNegativeNet", `{"name":"USB","negativeNet":"D-"}`}, f.calls[1])
}

func call(t *testing.T, f *fakeCaller, msg string) []byte {
	t.Helper()
	s := NewServer(f, "test")
	ctx := context.Background()
	s.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":0,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`))
	out, err := json.Marshal(s.HandleMessage(ctx, []byte(msg)))
	require.NoError(t, err)
	return out
}

func toolCall(name, args string) string {
	return fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":%q,"arguments":%s}}`, name, args)
}

func resultText(t *testing.T, out []byte) (string, bool) {
	t.Helper()
	text, err := jsonparser.GetString(out, "result", "content", "[0]", "text")
	require.NoError(t, err, string(out))
	isError, _ := jsonparser.GetBoolean(out, "result", "isError")
	return text, isError
}

func TestServerReturnsIndentedResult(t *testing.T) {
	f := &fakeCaller{results: map[string]wire.Value{"pcb.net.getAllNames": wire.Strings("GND", "VCC")}}
	text, isError := resultText(t, call(t, f, toolCall("pcb_get_all_nets", `{}`)))
	assert.False(t, isError)
	assert.Equal(t, "[\n  \"GND\",\n  \"VCC\"\n]", text)
	require.Len(t, f.calls, 1)
	assert.Equal(t, "pcb.net.getAllNames", f.calls[0].method)
}

func TestServerReportsBridgeErrors(t *testing.T) {
	f := &fakeCaller{err: bridge.ErrNotConnected}
	text, isError := resultText(t, call(t, f, toolCall("pcb_get_all_nets", `{}`)))
	assert.True(t, isError)
	assert.Equal(t, bridge.ErrNotConnected.Error(), text)

	f = &fakeCaller{err: &bridge.RemoteError{Method: "pcb.net.getLength", Message: "Net not found: XYZ"}}
	text, isError = resultText(t, call(t, f, toolCall("pcb_get_net_length", `{"net":"XYZ"}`)))
	assert.True(t, isError)
	assert.Equal(t, "Net not found: XYZ", text)

	f = &fakeCaller{}
	text, isError = resultText(t, call(t, f, toolCall("pcb_get_net_length", `{}`)))
	assert.True(t, isError)
	assert.Contains(t, text, "missing required parameter")
	assert.Empty(t, f.calls)
}

func TestServerBridgeStatus(t *testing.T) {
	text, isError := resultText(t, call(t, &fakeCaller{connected: true}, toolCall("bridge_status", `{}`)))
	assert.False(t, isError)
	assert.JSONEq(t, `{"connected":true,"port":15168}`, text)
}

func TestServerListsCatalog(t *testing.T) {
	out := call(t, &fakeCaller{}, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	n := 0
	_, err := jsonparser.ArrayEach(out, func([]byte, jsonparser.ValueType, int, error) { n++ }, "result", "tools")
	require.NoError(t, err, string(out))
	assert.Equal(t, len(Catalog())+1, n)
}
