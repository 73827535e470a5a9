// Package tools implements the "tools" capability: a name-keyed registry
// of callable tools, each described by a prototype.Prototype and backed
// by a plain Go function, grounded on pkg/server's
// RegisterTool/RegisterDefaultTools and the original's tools.py Tools
// plugin (list/call rpc_exports, CONVERTER-based schema derivation).
package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/capability"
	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/prototype"
)

var log = logger.Default().Child("tools")

// Func is the signature every registered tool handler satisfies; every
// existing tool body already matches it.
type Func func(params any) (any, error)

// entry pairs a tool's advertised prototype with its handler.
type entry struct {
	tool    protocol.Tool
	proto   prototype.Prototype
	handler Func
}

// Registry is the tools capability.
type Registry struct {
	reg *capability.Registry[entry]
}

// NewRegistry returns an empty tools registry.
func NewRegistry() *Registry {
	return &Registry{reg: capability.NewRegistry[entry]()}
}

// Register adds one tool. proto drives argument validation; tool is what
// tools/list advertises (its InputSchema should normally be
// proto.ToInputSchema(), but callers may hand-author a richer schema, as
// the hand-written Tool literals in this package do).
func (r *Registry) Register(tool protocol.Tool, proto prototype.Prototype, handler Func) {
	r.reg.Put(tool.Name, entry{tool: tool, proto: proto, handler: handler})
}

// RegisterSimple adapts a func(any)(any,error) handler whose schema is
// entirely described by the protocol.Tool literal itself (no separate
// Prototype needed for validation beyond "required keys present"),
// which is how every inherited tool in this package declares itself.
func (r *Registry) RegisterSimple(tool protocol.Tool, handler Func) {
	proto := prototype.FromInputSchema(tool.Name, tool.Description, tool.InputSchema)
	r.Register(tool, proto, handler)
}

func (r *Registry) Name() string { return "tools" }

func (r *Registry) Infos() any {
	return map[string]any{"listChanged": false}
}

func (r *Registry) RPCExports() map[string]capability.Handler {
	return map[string]capability.Handler{
		"list": r.list,
		"call": r.call,
	}
}

func (r *Registry) list(_ any, _ map[string]any) (any, error) {
	items := r.reg.List()
	out := make([]protocol.Tool, 0, len(items))
	for _, e := range items {
		out = append(out, e.tool)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return map[string]any{"tools": out}, nil
}

func (r *Registry) call(_ any, args map[string]any) (any, error) {
	name, _ := args["name"].(string)
	e, ok := r.reg.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}

	rawArgs, _ := args["arguments"].(map[string]any)
	validated, err := e.proto.Validate(rawArgs)
	if err != nil {
		return nil, protocol.NewInvalidParamsError("%s", err)
	}

	log.Info("calling tool", name)

	result, err := e.handler(validated)
	if err != nil {
		return &protocol.ToolResult{
			Content: []protocol.Content{protocol.TextContent{Text: err.Error()}},
			IsError: true,
		}, nil
	}

	return normalizeResult(e, result), nil
}

// normalizeResult wraps a handler's raw return value into the
// content/structuredContent envelope tools/call requires, per the
// original tools.py normalization rules: nil becomes empty content;
// list/tuple (Go slice/array) flattens recursively into one content
// item per element; map/struct becomes a JSON text rendering plus
// structuredContent holding the value itself; any other primitive
// becomes a single Text item (JSON-serialized, falling back to
// stringification) plus structuredContent wrapped as {"result": value}
// to match the primitive outputSchema's {properties:{result:...}} shape.
func normalizeResult(e entry, result any) *protocol.ToolResult {
	if tr, ok := result.(*protocol.ToolResult); ok {
		return tr
	}

	if result == nil {
		return &protocol.ToolResult{Content: []protocol.Content{}}
	}

	v := reflect.ValueOf(result)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return &protocol.ToolResult{Content: []protocol.Content{}}
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		content := make([]protocol.Content, 0, v.Len())
		var flatten func(s reflect.Value)
		flatten = func(s reflect.Value) {
			for i := 0; i < s.Len(); i++ {
				el := s.Index(i)
				for el.Kind() == reflect.Interface && !el.IsNil() {
					el = el.Elem()
				}
				if el.Kind() == reflect.Slice || el.Kind() == reflect.Array {
					flatten(el)
					continue
				}
				content = append(content, contentFor(el.Interface()))
			}
		}
		flatten(v)
		return &protocol.ToolResult{
			Content:           content,
			StructuredContent: map[string]any{"result": result},
		}
	case reflect.Map, reflect.Struct:
		return &protocol.ToolResult{
			Content:           []protocol.Content{contentFor(result)},
			StructuredContent: result,
		}
	default:
		return &protocol.ToolResult{
			Content:           []protocol.Content{contentFor(result)},
			StructuredContent: map[string]any{"result": result},
		}
	}
}

// contentFor renders one leaf value (a flattened list element, or a
// scalar return value) as Text content: strings pass through verbatim,
// everything else is JSON-serialized, falling back to fmt's default
// formatting if that fails.
func contentFor(v any) protocol.Content {
	if s, ok := v.(string); ok {
		return protocol.TextContent{Text: s}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return protocol.TextContent{Text: fmt.Sprintf("%v", v)}
	}
	return protocol.TextContent{Text: string(b)}
}
