package capability

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/richard-senior/mcp/pkg/protocol"
)

// BuiltinHandler answers a top-level method the dispatcher itself owns
// (initialize, ping, logging/setLevel, completion/complete) or a
// notification (notifications/*), rather than one routed to a
// capability's RPCExports tree.
type BuiltinHandler func(ctx any, sess any, args map[string]any) (any, error)

// Dispatcher is the method-path router shared by every transport: it
// merges each registered Capability's RPCExports under its name (so
// "tools/call" reaches the tools capability's "call" export) with a
// fixed set of builtins, mirroring client.py's
// `{**{cap.name: cap.rpc_exports for cap in capabilities}, **NOTIFICATIONS, ping:..., ...}`
// merge in invoke/handle_json_rpc.
type Dispatcher struct {
	capabilities map[string]Capability
	builtins     map[string]BuiltinHandler
	notifiers    map[string]BuiltinHandler
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		capabilities: make(map[string]Capability),
		builtins:     make(map[string]BuiltinHandler),
		notifiers:    make(map[string]BuiltinHandler),
	}
}

// Register adds a capability, mounted under its own Name().
func (d *Dispatcher) Register(cap Capability) {
	d.capabilities[cap.Name()] = cap
}

// Capabilities returns the registered capabilities keyed by name, for
// building the initialize response.
func (d *Dispatcher) Capabilities() map[string]Capability {
	return d.capabilities
}

// RegisterBuiltin wires a top-level request method (one with no
// capability prefix, or whose prefix should not be treated as a
// capability lookup, e.g. "completion/complete").
func (d *Dispatcher) RegisterBuiltin(method string, fn BuiltinHandler) {
	d.builtins[method] = fn
}

// RegisterNotification wires a notification method — invoked for its
// side effect only; any returned error is discarded, not turned into a
// response (notifications never get one).
func (d *Dispatcher) RegisterNotification(method string, fn BuiltinHandler) {
	d.notifiers[method] = fn
}

func decodeParams(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// resolve finds the handler (builtin or capability export) for method,
// returning ok=false if nothing answers it.
func (d *Dispatcher) resolve(method string) (func(ctx, sess any, args map[string]any) (any, error), bool) {
	if fn, ok := d.builtins[method]; ok {
		return fn, true
	}

	parts := strings.SplitN(method, "/", 2)
	if len(parts) != 2 {
		return nil, false
	}

	cap, ok := d.capabilities[parts[0]]
	if !ok {
		return nil, false
	}

	handler, ok := cap.RPCExports()[parts[1]]
	if !ok {
		return nil, false
	}

	return func(ctx, sess any, args map[string]any) (any, error) { return handler(sess, args) }, true
}

// Invoke answers a request method, translating a missing method or a
// handler error into the appropriate JSON-RPC error code — client.py's
// invoke/handle_json_rpc.
func (d *Dispatcher) Invoke(ctx any, sess any, method string, rawParams json.RawMessage) (any, *protocol.JsonRpcError) {
	fn, ok := d.resolve(method)
	if !ok {
		return nil, &protocol.JsonRpcError{Code: protocol.ErrMethodNotFound, Message: fmt.Sprintf("method not found: %s", method)}
	}

	result, err := fn(ctx, sess, decodeParams(rawParams))
	if err != nil {
		if ipe, ok := err.(*protocol.InvalidParamsError); ok {
			return nil, &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: ipe.Msg}
		}
		return nil, &protocol.JsonRpcError{Code: protocol.ErrInternal, Message: err.Error()}
	}

	return result, nil
}

// Notify answers a notification method. Unknown notification methods and
// handler errors are both silently dropped: notifications never produce
// a response frame (mirroring a JSON-RPC notification's fire-and-forget semantics).
func (d *Dispatcher) Notify(ctx any, sess any, method string, rawParams json.RawMessage) {
	fn, ok := d.notifiers[method]
	if !ok {
		return
	}
	_, _ = fn(ctx, sess, decodeParams(rawParams))
}
