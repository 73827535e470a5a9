// Package prototype bridges a handler's parameter signature and a
// JSON-Schema describing it, in both directions, grounded on the
// original Python's nagare.server.mcp.prototypes module (proto_to_jsonschema
// / jsonschema_to_proto) and utils.inspect_function /
// utils.create_prototype.
//
// The original builds an ad-hoc callable by synthesizing a function AST
// and exec-ing it, purely to get an introspectable validator. This
// package replaces that with a plain declarative record: a Prototype is
// just a slice of Param plus a Validate method.
package prototype

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/richard-senior/mcp/pkg/protocol"
)

// Kind is the JSON-Schema-ish semantic type of one parameter or result.
type Kind string

const (
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindString  Kind = "string"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// Param describes one parameter of a handler.
type Param struct {
	Name        string
	Kind        Kind
	Required    bool
	Default     any
	Description string
}

// Prototype is a handler's ordered, keyword-only parameter signature plus
// enough information to validate arguments and render JSON-Schema.
type Prototype struct {
	Name        string
	Description string
	Params      []Param
	Result      Kind // "" if the handler declares no structured return
}

// converterFromGoKind maps a reflect.Kind to the CONVERTER table
// tools.Tools.register uses (int->integer, bool->boolean, float->number,
// str->string), extended with array/object support.
func converterFromGoKind(k reflect.Kind) (Kind, bool) {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInteger, true
	case reflect.Float32, reflect.Float64:
		return KindNumber, true
	case reflect.Bool:
		return KindBoolean, true
	case reflect.String:
		return KindString, true
	case reflect.Slice, reflect.Array:
		return KindArray, true
	case reflect.Struct, reflect.Map, reflect.Ptr, reflect.Interface:
		return KindObject, true
	default:
		return "", false
	}
}

// FromFunc derives a Prototype from a Go function's reflected signature —
// the signature→JSON-Schema direction (proto_to_jsonschema). Parameters
// named "self" or suffixed "_service" are skipped: those denote injected
// dependencies in the original and have no business in the advertised
// schema.
func FromFunc(name string, description string, paramNames []string, fn any) (Prototype, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return Prototype{}, fmt.Errorf("prototype.FromFunc: %T is not a function", fn)
	}
	t := v.Type()

	if len(paramNames) != t.NumIn() {
		return Prototype{}, fmt.Errorf("prototype.FromFunc: %d names for %d parameters", len(paramNames), t.NumIn())
	}

	proto := Prototype{Name: name, Description: description}

	for i, pname := range paramNames {
		if pname == "self" || hasServiceSuffix(pname) {
			continue
		}

		kind, ok := converterFromGoKind(t.In(i).Kind())
		if !ok {
			return Prototype{}, fmt.Errorf("prototype.FromFunc: unsupported parameter kind %s for %q", t.In(i).Kind(), pname)
		}

		proto.Params = append(proto.Params, Param{Name: pname, Kind: kind, Required: true})
	}

	if t.NumOut() > 0 {
		if kind, ok := converterFromGoKind(t.Out(0).Kind()); ok {
			proto.Result = kind
		}
	}

	return proto, nil
}

func hasServiceSuffix(name string) bool {
	const suffix = "_service"
	return len(name) >= len(suffix) && name[len(name)-len(suffix):] == suffix
}

// ToInputSchema renders the signature→JSON-Schema direction's output: the
// inputSchema advertised inside tools/list and prompts/list.
func (p Prototype) ToInputSchema() protocol.InputSchema {
	schema := protocol.InputSchema{
		Type:                 "object",
		Properties:           make(map[string]protocol.SchemaProp, len(p.Params)),
		AdditionalProperties: false,
	}

	for _, param := range p.Params {
		prop := protocol.SchemaProp{Type: string(param.Kind), Description: param.Description}
		if !param.Required && param.Default != nil {
			prop.Default = param.Default
		}
		schema.Properties[param.Name] = prop

		if param.Required {
			schema.Required = append(schema.Required, param.Name)
		}
	}

	sort.Strings(schema.Required)

	return schema
}

// ToOutputSchema renders the output schema for the declared Result kind:
// every kind, "object" included, wraps as {type:object,
// properties:{result:{type:<kind>}}, required:[result]}. Struct fields and
// map value types are not described. "" (undeclared) returns nil, false.
func (p Prototype) ToOutputSchema() (*protocol.OutputSchema, bool) {
	if p.Result == "" {
		return nil, false
	}

	return &protocol.OutputSchema{
		Type:  "object",
		Title: p.Name,
		Properties: map[string]protocol.SchemaProp{
			"result": {Type: string(p.Result)},
		},
		Required: []string{"result"},
	}, true
}

// FromInputSchema builds a validating Prototype from a JSON-Schema
// inputSchema — the schema→validating-prototype direction
// (jsonschema_to_proto / create_prototype), minus the AST synthesis: here
// it is simply a declarative Prototype whose Validate method performs the
// coercion/requirement checks the original's synthesized function body
// would have.
func FromInputSchema(name, description string, schema protocol.InputSchema) Prototype {
	required := make(map[string]bool, len(schema.Required))
	for _, r := range schema.Required {
		required[r] = true
	}

	proto := Prototype{Name: name, Description: description}

	names := make([]string, 0, len(schema.Properties))
	for n := range schema.Properties {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		prop := schema.Properties[n]
		proto.Params = append(proto.Params, Param{
			Name:        n,
			Kind:        Kind(prop.Type),
			Required:    required[n],
			Default:     prop.Default,
			Description: prop.Description,
		})
	}

	return proto
}

// Validate checks a decoded arguments map against the prototype: every
// required parameter must be present, and every present value must
// convert to its declared Kind using the same coercion table the
// original's CLI and schema_to_proto use
// ({integer→int, number→float, boolean→("true"==v), string→identity}).
// On success it returns a copy of args with string inputs coerced to
// their declared Go type; on failure the error message is used verbatim
// as the JSON-RPC INVALID_PARAMS message.
func (p Prototype) Validate(args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}

	for _, param := range p.Params {
		v, present := out[param.Name]
		if !present {
			if param.Required {
				return nil, fmt.Errorf("missing required argument %q", param.Name)
			}
			if param.Default != nil {
				out[param.Name] = param.Default
			}
			continue
		}

		coerced, err := coerce(param.Kind, v)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", param.Name, err)
		}
		out[param.Name] = coerced
	}

	return out, nil
}

// coerce converts a loosely-typed value (as decoded from JSON, or as a
// CLI string) into the Go type matching kind.
func coerce(kind Kind, v any) (any, error) {
	if s, ok := v.(string); ok {
		switch kind {
		case KindInteger:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("not an integer: %q", s)
			}
			return n, nil
		case KindNumber:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("not a number: %q", s)
			}
			return f, nil
		case KindBoolean:
			return s == "true", nil
		case KindString:
			return s, nil
		default:
			return s, nil
		}
	}

	switch kind {
	case KindInteger:
		switch n := v.(type) {
		case float64:
			return int64(n), nil
		case int, int64:
			return n, nil
		default:
			return nil, fmt.Errorf("not an integer: %v", v)
		}
	case KindNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		default:
			return nil, fmt.Errorf("not a number: %v", v)
		}
	case KindBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("not a boolean: %v", v)
	default:
		return v, nil
	}
}
