package tools

import "github.com/richard-senior/mcp/pkg/protocol"

// NewDefaultRegistry builds the tools registry with every built-in tool
// wired in, mirroring Server.RegisterDefaultTools but routed through the
// shared capability.Capability contract instead of a private handlers
// map.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()

	reg.RegisterSimple(NewClockTool(), HandleClockTool)
	reg.RegisterSimple(GoogleSearchTool(), HandleGoogleSearchTool)
	reg.RegisterSimple(HTMLToMarkdownTool(), HandleURLToMarkdown)
	reg.RegisterSimple(WikipediaImageTool(), HandleWikipediaImageTool)
	reg.RegisterSimple(NewMemeTool(), HandleMemeTool)
	reg.RegisterSimple(toolWithOutput(NewThoughtsTool()), HandleThoughts)

	return reg
}

// toolWithOutput attaches an object outputSchema, titled after the tool,
// to t. normalizeResult does not consult it: tools/call fills
// structuredContent for every non-nil result, whether or not the tool
// advertises an output schema.
func toolWithOutput(t protocol.Tool) protocol.Tool {
	t.OutputSchema = &protocol.OutputSchema{
		Type:  "object",
		Title: t.Name,
	}
	return t
}
