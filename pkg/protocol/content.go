package protocol

import "encoding/json"

// Content is the closed sum type returned inside tool/prompt results:
// Text, Image, TextResource or BlobResource. It mirrors the original
// Python's Text|Image|TextResource|BlobResource union (application.py
// DATA MODEL).
type Content interface {
	isContent()
}

// TextContent is a plain text content block.
type TextContent struct {
	Text string `json:"text"`
}

func (TextContent) isContent() {}

// MarshalJSON renders the {type:"text", text:...} wire shape.
func (t TextContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{Type: "text", Text: t.Text})
}

// ImageContent is an inline base64-encoded image.
type ImageContent struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

func (ImageContent) isContent() {}

func (i ImageContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		MimeType string `json:"mimeType"`
		Data     string `json:"data"`
	}{Type: "image", MimeType: i.MimeType, Data: i.Data})
}

// TextResourceContent embeds a textual resource inline.
type TextResourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

func (TextResourceContent) isContent() {}

func (r TextResourceContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		Resource struct {
			URI      string `json:"uri"`
			MimeType string `json:"mimeType,omitempty"`
			Text     string `json:"text"`
		} `json:"resource"`
	}{
		Type: "resource",
		Resource: struct {
			URI      string `json:"uri"`
			MimeType string `json:"mimeType,omitempty"`
			Text     string `json:"text"`
		}{URI: r.URI, MimeType: r.MimeType, Text: r.Text},
	})
}

// BlobResourceContent embeds a binary resource inline as base64.
type BlobResourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Blob     string `json:"blob"` // base64
}

func (BlobResourceContent) isContent() {}

func (r BlobResourceContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		Resource struct {
			URI      string `json:"uri"`
			MimeType string `json:"mimeType,omitempty"`
			Blob     string `json:"blob"`
		} `json:"resource"`
	}{
		Type: "resource",
		Resource: struct {
			URI      string `json:"uri"`
			MimeType string `json:"mimeType,omitempty"`
			Blob     string `json:"blob"`
		}{URI: r.URI, MimeType: r.MimeType, Blob: r.Blob},
	})
}

// ToolResult is the full tools/call content envelope.
type ToolResult struct {
	Content           []Content `json:"content"`
	IsError           bool      `json:"isError"`
	StructuredContent any       `json:"structuredContent,omitempty"`
}
