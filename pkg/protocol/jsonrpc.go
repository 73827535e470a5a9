// Package protocol implements the wire codec for the Model Context
// Protocol: JSON-RPC 2.0 frame types, the standard error codes, and the
// content sum-types exchanged by tools, resources and prompts.
//
// https://modelcontextprotocol.info/specification/draft/basic/lifecycle/
package protocol

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ProtocolVersion is the MCP protocol version this runtime speaks.
const ProtocolVersion = "2024-11-05"

// JsonRpcVersion is the JSON-RPC protocol version. MUST be exactly "2.0".
const JsonRpcVersion = "2.0"

// JsonRpcRequest represents a JSON-RPC 2.0 request or notification object.
// A frame with a nil ID is a notification and never produces a response.
type JsonRpcRequest struct {
	JsonRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// IsNotification reports whether this frame carries no id and therefore
// expects no response.
func (r *JsonRpcRequest) IsNotification() bool {
	return r.ID == nil
}

// JsonRpcResponse represents a JSON-RPC 2.0 response object: either Result
// or Error is set, never both.
type JsonRpcResponse struct {
	JsonRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JsonRpcError   `json:"error,omitempty"`
	ID      any             `json:"id"`
}

// JsonRpcError represents a JSON-RPC 2.0 error object.
type JsonRpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *JsonRpcError) Error() string {
	return fmt.Sprintf("jsonrpc error: code=%d message=%s", e.Code, e.Message)
}

// Standard JSON-RPC 2.0 error codes.
const (
	ErrParse          = -32700
	ErrInvalidRequest = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603
	ErrServer         = -32000
)

// NewRequest builds a JSON-RPC request frame. A nil id produces a
// notification.
func NewRequest(method string, id any, params any) (*JsonRpcRequest, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}

	return &JsonRpcRequest{JsonRPC: JsonRpcVersion, Method: method, Params: raw, ID: id}, nil
}

// NewNotification builds a JSON-RPC request frame with no id.
func NewNotification(method string, params any) (*JsonRpcRequest, error) {
	return NewRequest(method, nil, params)
}

func marshalParams(params any) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	return raw, nil
}

// NewResponse builds a successful JSON-RPC response frame.
func NewResponse(id any, result any) ([]byte, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	return json.Marshal(&JsonRpcResponse{JsonRPC: JsonRpcVersion, ID: id, Result: raw})
}

// NewErrorResponse builds a JSON-RPC error response frame.
func NewErrorResponse(id any, code int, message string, data any) []byte {
	resp := &JsonRpcResponse{
		JsonRPC: JsonRpcVersion,
		ID:      id,
		Error:   &JsonRpcError{Code: code, Message: message, Data: data},
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		// The error struct itself always marshals; this can only fail if Data
		// carries something exotic, in which case fall back to a data-less frame.
		resp.Error.Data = nil
		raw, _ = json.Marshal(resp)
	}

	return raw
}

// InvalidParamsError marks a handler error as INVALID_PARAMS rather than
// the dispatcher's default INTERNAL_ERROR, so validation failures surface
// with the right JSON-RPC code without every capability importing the
// error-code constants directly.
type InvalidParamsError struct {
	Msg string
}

func (e *InvalidParamsError) Error() string { return e.Msg }

// NewInvalidParamsError wraps a message as an INVALID_PARAMS error.
func NewInvalidParamsError(format string, args ...any) error {
	return &InvalidParamsError{Msg: fmt.Sprintf(format, args...)}
}

// ParseRequest decodes a JSON-RPC request/notification frame.
func ParseRequest(data []byte) (*JsonRpcRequest, error) {
	var req JsonRpcRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}

	return &req, nil
}

// GenericFrame is the shape every incoming frame is first decoded into, so
// the session layer can discriminate request / notification / response /
// error without committing to a concrete type.
type GenericFrame struct {
	JsonRPC string          `json:"jsonrpc"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JsonRpcError   `json:"error,omitempty"`
}

// HasID reports whether the id member was present in the decoded frame.
func (f *GenericFrame) HasID() bool {
	return f.ID != nil
}

// InputSchema is the JSON-Schema object advertised for a tool/prompt's
// arguments.
type InputSchema struct {
	Type                 string                `json:"type"`
	Properties           map[string]SchemaProp `json:"properties,omitempty"`
	Required             []string              `json:"required,omitempty"`
	AdditionalProperties bool                  `json:"additionalProperties"`
}

// SchemaProp describes one property of an InputSchema or OutputSchema.
type SchemaProp struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
}

// OutputSchema is the JSON-Schema object advertised for a tool's
// structured result, when the handler declares one.
type OutputSchema struct {
	Type                 string                `json:"type"`
	Title                string                `json:"title,omitempty"`
	Properties           map[string]SchemaProp `json:"properties,omitempty"`
	Required             []string              `json:"required,omitempty"`
	AdditionalProperties *SchemaProp           `json:"additionalProperties,omitempty"`
}

// Tool is the advertisement returned by tools/list.
type Tool struct {
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	InputSchema  InputSchema   `json:"inputSchema"`
	OutputSchema *OutputSchema `json:"outputSchema,omitempty"`
}

// Resource is a concrete, URI-addressed resource advertised by resources/list.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceTemplate is an RFC-6570-ish templated resource advertised by
// resources/templates/list.
type ResourceTemplate struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// PromptArgumentNamed is the wire shape of one prompts/list argument entry.
type PromptArgumentNamed struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// PromptArgument is the internal, registration-time description of one
// named argument a prompt accepts (no name: the map key carries it).
type PromptArgument struct {
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Prompt is both the registration record and (via MarshalJSON) the
// prompts/list advertisement for a single prompt.
type Prompt struct {
	ID          string
	Name        string
	Description string
	Content     string
	Tags        []string
	Variables   map[string]PromptArgument
	Metadata    map[string]any
}

// Arguments renders the registration-time Variables map into the ordered
// wire shape expected by prompts/list.
func (p *Prompt) Arguments() []PromptArgumentNamed {
	names := make([]string, 0, len(p.Variables))
	for name := range p.Variables {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]PromptArgumentNamed, 0, len(names))
	for _, name := range names {
		v := p.Variables[name]
		args = append(args, PromptArgumentNamed{Name: name, Description: v.Description, Required: v.Required})
	}

	return args
}

// PromptMessage is one entry of a prompts/get result.
type PromptMessage struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}
