package tools

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gaspardpetit/edabridge/internal/logx"
)

// ServeStdio runs s over in and out until ctx is done or in closes.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(log.New(logx.Component("mcp"), "", 0))
	return stdio.Listen(ctx, in, out)
}

// NewHTTPHandler serves s over the streamable HTTP transport.
func NewHTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s, server.WithStateLess(true))
}
