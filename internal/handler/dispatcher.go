package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
)

// Failure messages surfaced to callers. Internal error text is never
// echoed; it is logged server-side only.
const (
	msgNoMethod      = "Error, no method defined!"
	msgUnknownMethod = "Unrecognized method requested!"
	msgMissingParams = "Some or all required parameters missing"
	msgInvalidParam  = "Invalid parameter value"
	msgInternalError = "Internal service error"
)

// HandlerFunc processes one decoded request. A returned error is logged
// and converted to a generic failure envelope at the dispatch boundary;
// expected failures are shaped into the envelope by the handler itself.
type HandlerFunc func(ctx context.Context, req RequestEnvelope) (ResponseEnvelope, error)

// Dispatcher routes a request envelope to the handler registered for
// its METHOD parameter. It holds no per-request state and is safe for
// concurrent use once registration is complete.
type Dispatcher struct {
	methods map[string]HandlerFunc
}

// NewDispatcher creates a dispatcher with an empty routing table.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{methods: make(map[string]HandlerFunc)}
}

// Register adds a method to the routing table. Registration happens
// once at startup, before the dispatcher is mounted.
func (d *Dispatcher) Register(method string, h HandlerFunc) {
	d.methods[method] = h
}

// Handle processes one raw request body and returns the encoded
// response. It never returns an error to the transport; every failure
// becomes a failure envelope in the body.
func (d *Dispatcher) Handle(ctx context.Context, path string, body []byte) []byte {
	req, err := DecodeRequest(body)
	if err != nil {
		slog.Info("unparseable request body", "path", path, "error", err)
		return encode(failureDoc(msgNoMethod))
	}

	method, ok := req["METHOD"]
	if !ok {
		slog.Info("request without METHOD", "path", path)
		return encode(failureDoc(msgNoMethod))
	}

	h, ok := d.methods[method]
	if !ok {
		slog.Debug("unknown method requested", "method", method)
		return encode(failureDoc(msgUnknownMethod))
	}

	resp, err := d.invoke(ctx, method, h, req)
	if err != nil {
		slog.Error("method handler failed", "method", method, "error", err)
		return encode(failureDoc(msgInternalError))
	}
	return encode(resp)
}

// invoke runs a handler, converting a panic anywhere in the handler
// chain into an error so Handle keeps its never-throws contract.
func (d *Dispatcher) invoke(ctx context.Context, method string, h HandlerFunc, req RequestEnvelope) (resp ResponseEnvelope, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("method handler panicked", "method", method, "panic", r)
			resp, err = failureDoc(msgInternalError), nil
		}
	}()
	return h(ctx, req)
}

func encode(env ResponseEnvelope) []byte {
	data, err := EncodeResponse(env)
	if err != nil {
		slog.Error("response encoding failed", "error", err)
		return []byte(`{"Result":"Failure","Message":"` + msgInternalError + `"}`)
	}
	return data
}

// ServeHTTP adapts the dispatcher to the HTTP transport. Dispatch
// failures stay in the body; the status is always 200 once the body
// has been read.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Warn("failed to read request body", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(d.Handle(r.Context(), r.URL.Path, body))
}
