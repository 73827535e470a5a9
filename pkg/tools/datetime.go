package tools

import (
	"time"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/protocol"
)

// NewClockTool describes the clock tool: it reports the server's current
// time in a caller-chosen Go layout string, defaulting to RFC3339.
func NewClockTool() protocol.Tool {
	return protocol.Tool{
		Name:        "get_datetime",
		Description: "Returns the current date and time",
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.SchemaProp{
				"format": {
					Type:        "string",
					Description: "The format of the datetime to be returned such as 2006-01-02T15:04:05Z07:00",
				},
			},
			Required: []string{},
		},
	}
}

// HandleClockTool reports the current time, formatted per the "format"
// argument (a Go reference-time layout) or RFC3339 if omitted/blank.
func HandleClockTool(params any) (any, error) {
	logger.Info("handling clock tool invocation")

	layout := time.RFC3339
	if args, ok := params.(map[string]any); ok {
		if f, ok := args["format"].(string); ok && f != "" {
			layout = f
		}
	}

	return map[string]any{
		"datetime": time.Now().Format(layout),
	}, nil
}
