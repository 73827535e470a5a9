package tools

import (
	"fmt"
	"testing"

	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool() protocol.Tool {
	return protocol.Tool{
		Name:        "echo",
		Description: "echoes the query argument",
		InputSchema: protocol.InputSchema{
			Type:       "object",
			Properties: map[string]protocol.SchemaProp{"query": {Type: "string"}},
			Required:   []string{"query"},
		},
	}
}

func TestRegistryListReturnsRegisteredTools(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterSimple(echoTool(), func(params any) (any, error) { return "ok", nil })

	result, err := reg.list(nil, nil)
	require.NoError(t, err)

	out, ok := result.(map[string]any)
	require.True(t, ok)
	toolList, ok := out["tools"].([]protocol.Tool)
	require.True(t, ok)
	require.Len(t, toolList, 1)
	assert.Equal(t, "echo", toolList[0].Name)
}

func TestRegistryCallUnknownToolErrors(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.call(nil, map[string]any{"name": "nonexistent"})
	assert.Error(t, err)
}

func TestRegistryCallValidatesArguments(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterSimple(echoTool(), func(params any) (any, error) { return "ok", nil })

	_, err := reg.call(nil, map[string]any{"name": "echo", "arguments": map[string]any{}})
	require.Error(t, err)

	var target *protocol.InvalidParamsError
	assert.ErrorAs(t, err, &target)
}

func TestRegistryCallSuccessReturnsTextContent(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterSimple(echoTool(), func(params any) (any, error) {
		m := params.(map[string]any)
		return fmt.Sprintf("you said %v", m["query"]), nil
	})

	result, err := reg.call(nil, map[string]any{
		"name":      "echo",
		"arguments": map[string]any{"query": "hi"},
	})
	require.NoError(t, err)

	tr, ok := result.(*protocol.ToolResult)
	require.True(t, ok)
	require.Len(t, tr.Content, 1)
	assert.False(t, tr.IsError)

	text, ok := tr.Content[0].(protocol.TextContent)
	require.True(t, ok)
	assert.Equal(t, "you said hi", text.Text)
}

func TestRegistryCallHandlerErrorSetsIsError(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterSimple(echoTool(), func(params any) (any, error) {
		return nil, fmt.Errorf("boom")
	})

	result, err := reg.call(nil, map[string]any{
		"name":      "echo",
		"arguments": map[string]any{"query": "hi"},
	})
	require.NoError(t, err)

	tr, ok := result.(*protocol.ToolResult)
	require.True(t, ok)
	assert.True(t, tr.IsError)
	assert.Equal(t, "boom", tr.Content[0].(protocol.TextContent).Text)
}

func TestNormalizeResultStructWrapsAsStructuredContent(t *testing.T) {
	type payload struct{ Count int }
	tr := normalizeResult(entry{}, payload{Count: 3})

	require.Len(t, tr.Content, 1)
	assert.NotNil(t, tr.StructuredContent)
}

func TestNormalizeResultPassesThroughExistingToolResult(t *testing.T) {
	want := &protocol.ToolResult{IsError: true}
	got := normalizeResult(entry{}, want)
	assert.Same(t, want, got)
}

func TestNormalizeResultNilBecomesEmptyContent(t *testing.T) {
	tr := normalizeResult(entry{}, nil)
	assert.Empty(t, tr.Content)
}

func TestNormalizeResultPrimitiveWrapsResultKey(t *testing.T) {
	tr := normalizeResult(entry{}, 22.5)

	require.Len(t, tr.Content, 1)
	assert.Equal(t, "22.5", tr.Content[0].(protocol.TextContent).Text)
	assert.Equal(t, map[string]any{"result": 22.5}, tr.StructuredContent)
}

func TestNormalizeResultSliceFlattensIntoContentItems(t *testing.T) {
	tr := normalizeResult(entry{}, []string{"London", "Paris", "Tokyo"})

	require.Len(t, tr.Content, 3)
	assert.Equal(t, "London", tr.Content[0].(protocol.TextContent).Text)
	assert.Equal(t, "Paris", tr.Content[1].(protocol.TextContent).Text)
	assert.Equal(t, "Tokyo", tr.Content[2].(protocol.TextContent).Text)
	assert.Equal(t, map[string]any{"result": []string{"London", "Paris", "Tokyo"}}, tr.StructuredContent)
}

func TestRegistryNameAndInfos(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, "tools", reg.Name())
	assert.Equal(t, map[string]any{"listChanged": false}, reg.Infos())
}
