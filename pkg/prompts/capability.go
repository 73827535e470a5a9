package prompts

import (
	"fmt"
	"strings"

	"github.com/richard-senior/mcp/pkg/capability"
	"github.com/richard-senior/mcp/pkg/protocol"
)

// Capability adapts PromptRegistry's file-backed storage to the
// capability.Capability contract (list/get/complete), grounded on the
// original's prompts.py Prompts plugin.
type Capability struct {
	registry *PromptRegistry
}

// NewCapability wraps reg as a capability.Capability.
func NewCapability(reg *PromptRegistry) *Capability {
	return &Capability{registry: reg}
}

func (c *Capability) Name() string { return "prompts" }

func (c *Capability) Infos() any {
	return map[string]any{"listChanged": false}
}

func (c *Capability) RPCExports() map[string]capability.Handler {
	return map[string]capability.Handler{
		"list":     c.list,
		"get":      c.get,
		"complete": c.complete,
	}
}

func (c *Capability) list(_ any, _ map[string]any) (any, error) {
	all, err := c.registry.ListPrompts()
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(all))
	for i := range all {
		p := all[i]
		out = append(out, map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"arguments":   p.Arguments(),
		})
	}

	return map[string]any{"prompts": out}, nil
}

func (c *Capability) get(_ any, args map[string]any) (any, error) {
	name, _ := args["name"].(string)
	prompt, err := c.registry.GetPrompt(name)
	if err != nil {
		return nil, err
	}

	values, _ := args["arguments"].(map[string]any)
	for argName, def := range prompt.Variables {
		if def.Required {
			if _, ok := values[argName]; !ok {
				return nil, protocol.NewInvalidParamsError("missing required argument %q", argName)
			}
		}
	}

	text := render(prompt.Content, values)

	return map[string]any{
		"description": prompt.Description,
		"messages": []protocol.PromptMessage{
			{Role: "user", Content: protocol.TextContent{Text: text}},
		},
	}, nil
}

// complete answers completion/complete for a ref.type=="ref/prompt"
// argument: the named variable's description is the single candidate
// when the partial value is a prefix of it; otherwise, or for an
// undeclared variable, no candidates are returned.
func (c *Capability) complete(_ any, args map[string]any) (any, error) {
	name, _ := args["name"].(string)
	argName, _ := args["argumentName"].(string)
	partial, _ := args["value"].(string)

	prompt, err := c.registry.GetPrompt(name)
	if err != nil {
		return nil, err
	}

	def, ok := prompt.Variables[argName]
	if !ok {
		return map[string]any{"completion": map[string]any{"values": []string{}, "total": 0}}, nil
	}

	var values []string
	if strings.HasPrefix(def.Description, partial) {
		values = append(values, def.Description)
	}

	return map[string]any{"completion": map[string]any{"values": values, "total": len(values)}}, nil
}

// render performs the original's `{{variable}}` substitution.
func render(content string, values map[string]any) string {
	for k, v := range values {
		content = strings.ReplaceAll(content, "{{"+k+"}}", fmt.Sprintf("%v", v))
	}
	return content
}
