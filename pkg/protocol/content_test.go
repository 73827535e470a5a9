package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextContentMarshal(t *testing.T) {
	raw, err := json.Marshal(TextContent{Text: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"text","text":"hi"}`, string(raw))
}

func TestImageContentMarshal(t *testing.T) {
	raw, err := json.Marshal(ImageContent{MimeType: "image/png", Data: "YWJj"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"image","mimeType":"image/png","data":"YWJj"}`, string(raw))
}

func TestTextResourceContentMarshal(t *testing.T) {
	raw, err := json.Marshal(TextResourceContent{URI: "mcp://docs/example", MimeType: "text/markdown", Text: "# hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"resource","resource":{"uri":"mcp://docs/example","mimeType":"text/markdown","text":"# hi"}}`, string(raw))
}

func TestBlobResourceContentMarshal(t *testing.T) {
	raw, err := json.Marshal(BlobResourceContent{URI: "mcp://blob", MimeType: "image/png", Blob: "YWJj"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"resource","resource":{"uri":"mcp://blob","mimeType":"image/png","blob":"YWJj"}}`, string(raw))
}

func TestToolResultOmitsStructuredContentWhenNil(t *testing.T) {
	raw, err := json.Marshal(ToolResult{Content: []Content{TextContent{Text: "ok"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[{"type":"text","text":"ok"}],"isError":false}`, string(raw))
}
