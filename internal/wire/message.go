package wire

import (
	"encoding/json"
	"strings"
)

// ClientIDHeader carries the bridge client's instance id at handshake.
const ClientIDHeader = "X-Bridge-Client"

// Request is sent by the bridge server to the client in the editor.
type Request struct {
	ID     string  `json:"id"`
	Method string  `json:"method"`
	Params *Object `json:"params"`
}

// MarshalJSON always emits params as an object.
func (r Request) MarshalJSON() ([]byte, error) {
	params := r.Params
	if params == nil {
		params = NewObject()
	}
	return json.Marshal(struct {
		ID     string  `json:"id"`
		Method string  `json:"method"`
		Params *Object `json:"params"`
	}{r.ID, r.Method, params})
}

// Response answers a Request. A non-empty Error marks a failure and
// suppresses Result on the wire.
type Response struct {
	ID     string `json:"id"`
	Result Value  `json:"result"`
	Error  string `json:"error,omitempty"`
}

// Failed reports whether the response carries an error.
func (r Response) Failed() bool { return r.Error != "" }

// MarshalJSON emits exactly one of result or error.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			ID    string `json:"id"`
			Error string `json:"error"`
		}{r.ID, r.Error})
	}
	return json.Marshal(struct {
		ID     string `json:"id"`
		Result Value  `json:"result"`
	}{r.ID, r.Result})
}

// Success builds a result response.
func Success(id string, result Value) Response { return Response{ID: id, Result: result} }

// EmptyErrorMessage replaces a blank failure message so the response still
// reads as a failure on the wire.
const EmptyErrorMessage = "handler failed"

// Failure builds an error response.
func Failure(id, message string) Response {
	if strings.TrimSpace(message) == "" {
		message = EmptyErrorMessage
	}
	return Response{ID: id, Error: message}
}
