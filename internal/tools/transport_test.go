package tools

import (
	"bufio"
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/buger/jsonparser"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPHandlerServesCatalog(t *testing.T) {
	srv := httptest.NewServer(NewHTTPHandler(NewServer(&fakeCaller{connected: true}, "test")))
	defer srv.Close()

	cl, err := client.NewStreamableHttpClient(srv.URL + "/mcp")
	require.NoError(t, err)
	defer func() { _ = cl.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, cl.Start(ctx))
	_, err = cl.Initialize(ctx, mcp.InitializeRequest{Params: mcp.InitializeParams{ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION}})
	require.NoError(t, err)

	list, err := cl.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Tools, len(Catalog())+1)

	res, err := cl.CallTool(ctx, mcp.CallToolRequest{Params: mcp.CallToolParams{Name: "bridge_status", Arguments: map[string]any{}}})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.JSONEq(t, `{"connected":true,"port":15168}`, text.Text)
}

func TestServeStdio(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ServeStdio(ctx, NewServer(&fakeCaller{}, "test"), inR, outW) }()

	go func() {
		_, _ = io.WriteString(inW, `{"jsonrpc":"2.0","id":7,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`+"\n")
	}()
	line, err := bufio.NewReader(outR).ReadBytes('\n')
	require.NoError(t, err)
	id, err := jsonparser.GetInt(line, "id")
	require.NoError(t, err, string(line))
	assert.Equal(t, int64(7), id)
	name, _ := jsonparser.GetString(line, "result", "serverInfo", "name")
	assert.Equal(t, "edabridge", name)

	cancel()
	_ = inW.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stdio transport did not stop")
	}
	_ = outR.Close()
}
