// Package cad is the boundary to the editor's scripting API. Handlers only
// see the API interface; the process hosting the editor supplies it.
package cad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gaspardpetit/edabridge/internal/wire"
)

// API invokes a named operation such as "pcb_PrimitiveVia.create" with
// positional arguments and returns its result or rejection.
type API interface {
	Invoke(ctx context.Context, operation string, args []wire.Value) (wire.Value, error)
}

// Func adapts a function to API.
type Func func(ctx context.Context, operation string, args []wire.Value) (wire.Value, error)

// Invoke calls f.
func (f Func) Invoke(ctx context.Context, operation string, args []wire.Value) (wire.Value, error) {
	return f(ctx, operation, args)
}

// OperationError is a rejection raised by the editor. Its message is
// reported verbatim.
type OperationError struct {
	Operation string
	Message   string
}

func (e *OperationError) Error() string { return e.Message }

// HTTPHost forwards operations to an editor host over HTTP. Each call is a
// POST of {"operation", "args"} answered by {"result"} or {"error"}.
type HTTPHost struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

type hostRequest struct {
	Operation string       `json:"operation"`
	Args      []wire.Value `json:"args"`
}

type hostResponse struct {
	Result wire.Value `json:"result"`
	Error  *string    `json:"error,omitempty"`
}

// Invoke implements API.
func (h *HTTPHost) Invoke(ctx context.Context, operation string, args []wire.Value) (wire.Value, error) {
	if args == nil {
		args = []wire.Value{}
	}
	payload, err := json.Marshal(hostRequest{Operation: operation, Args: args})
	if err != nil {
		return wire.Value{}, err
	}
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(payload))
	if err != nil {
		return wire.Value{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return wire.Value{}, fmt.Errorf("%s: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return wire.Value{}, err
	}
	if resp.StatusCode != http.StatusOK {
		if len(body) > 0 {
			return wire.Value{}, fmt.Errorf("%s: host returned %d: %s", operation, resp.StatusCode, bytes.TrimSpace(body))
		}
		return wire.Value{}, fmt.Errorf("%s: host returned %d", operation, resp.StatusCode)
	}
	var out hostResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return wire.Value{}, fmt.Errorf("%s: decode host response: %w", operation, err)
	}
	if out.Error != nil {
		return wire.Value{}, &OperationError{Operation: operation, Message: *out.Error}
	}
	return out.Result, nil
}
