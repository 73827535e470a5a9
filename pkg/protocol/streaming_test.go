package protocol

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateChunkSize(t *testing.T) {
	assert.NoError(t, ValidateChunkSize(3))
	assert.NoError(t, ValidateChunkSize(DefaultChunkSize))
	assert.Error(t, ValidateChunkSize(0))
	assert.Error(t, ValidateChunkSize(-3))
	assert.Error(t, ValidateChunkSize(4))
}

func TestStreamingResultTextEntry(t *testing.T) {
	entries := []StreamEntry{
		{URI: "mcp://docs/example", MimeType: "text/plain", Stream: strings.NewReader("hello world")},
	}

	enc, err := NewStreamingResult(int64(1), entries, 3)
	require.NoError(t, err)

	body, err := io.ReadAll(enc)
	require.NoError(t, err)

	var decoded struct {
		JsonRPC string `json:"jsonrpc"`
		ID      int64  `json:"id"`
		Result  struct {
			Contents []struct {
				URI      string `json:"uri"`
				MimeType string `json:"mimeType"`
				Text     string `json:"text"`
			} `json:"contents"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))

	assert.Equal(t, "2.0", decoded.JsonRPC)
	require.Len(t, decoded.Result.Contents, 1)
	assert.Equal(t, "hello world", decoded.Result.Contents[0].Text)
}

func TestStreamingResultBinaryEntryNoMidStreamPadding(t *testing.T) {
	// 11 raw bytes, forcing a non-multiple-of-3 final read with a chunk
	// size smaller than the stream: every intermediate chunk must produce
	// unpadded base64 so chunks concatenate into one valid stream.
	raw := []byte("hello world")
	entries := []StreamEntry{
		{URI: "mcp://blob", MimeType: "application/octet-stream", Stream: strings.NewReader(string(raw))},
	}

	enc, err := NewStreamingResult(int64(2), entries, 3)
	require.NoError(t, err)

	body, err := io.ReadAll(enc)
	require.NoError(t, err)

	var decoded struct {
		Result struct {
			Contents []struct {
				Blob string `json:"blob"`
			} `json:"contents"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))

	require.Len(t, decoded.Result.Contents, 1)

	decodedBytes, err := base64.StdEncoding.DecodeString(decoded.Result.Contents[0].Blob)
	require.NoError(t, err)
	assert.Equal(t, raw, decodedBytes)
}

func TestStreamingResultMultipleEntries(t *testing.T) {
	entries := []StreamEntry{
		{URI: "mcp://a", MimeType: "text/plain", Stream: strings.NewReader("a")},
		{URI: "mcp://b", MimeType: "text/plain", Stream: strings.NewReader("b")},
	}

	enc, err := NewStreamingResult(int64(3), entries, 3)
	require.NoError(t, err)

	body, err := io.ReadAll(enc)
	require.NoError(t, err)

	var decoded struct {
		Result struct {
			Contents []struct {
				URI string `json:"uri"`
			} `json:"contents"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.Len(t, decoded.Result.Contents, 2)
	assert.Equal(t, "mcp://a", decoded.Result.Contents[0].URI)
	assert.Equal(t, "mcp://b", decoded.Result.Contents[1].URI)
}

func TestStreamEntryIsBinary(t *testing.T) {
	assert.False(t, StreamEntry{MimeType: "text/plain"}.IsBinary())
	assert.False(t, StreamEntry{MimeType: "text/markdown"}.IsBinary())
	assert.True(t, StreamEntry{MimeType: "application/json"}.IsBinary())
	assert.True(t, StreamEntry{MimeType: "image/png"}.IsBinary())
}
