// Command mcpctl is a small admin CLI for an MCP server, grounded on
// the original's admin/mcp/{commands.py,tools.py,resources.py,prompts.py}
// subcommand set (info; tools list/call; resources list/templates
// list/describe/read; prompts list/get).
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

func main() {
	root := flagValue(os.Args, "-r", "--root", "http://localhost:8089")

	args := stripRootFlag(os.Args[1:])
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	c, err := newClient(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if _, err := c.Call("initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "mcpctl", "version": "0.1.0"},
	}); err != nil {
		fmt.Fprintln(os.Stderr, "initialize:", err)
		os.Exit(1)
	}

	switch args[0] {
	case "info":
		printJSON(c.Call("ping", nil))
	case "tools":
		runTools(c, args[1:])
	case "resources":
		runResources(c, args[1:])
	case "prompts":
		runPrompts(c, args[1:])
	default:
		usage()
		os.Exit(1)
	}
}

func runTools(c *client, args []string) {
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	switch args[0] {
	case "list":
		printJSON(c.Call("tools/list", nil))
	case "call":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: mcpctl tools call <name> [key=value ...]")
			os.Exit(1)
		}
		printJSON(c.Call("tools/call", map[string]any{
			"name":      args[1],
			"arguments": parseKeyValues(args[2:]),
		}))
	default:
		usage()
		os.Exit(1)
	}
}

func runResources(c *client, args []string) {
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	switch args[0] {
	case "list":
		printJSON(c.Call("resources/list", nil))
	case "templates":
		if len(args) > 1 && args[1] == "list" {
			printJSON(c.Call("resources/templates/list", nil))
			return
		}
		usage()
		os.Exit(1)
	case "describe", "read":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: mcpctl resources read <uri>")
			os.Exit(1)
		}
		printJSON(c.Call("resources/read", map[string]any{"uri": args[1]}))
	default:
		usage()
		os.Exit(1)
	}
}

func runPrompts(c *client, args []string) {
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	switch args[0] {
	case "list":
		printJSON(c.Call("prompts/list", nil))
	case "get":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: mcpctl prompts get <name> [key=value ...]")
			os.Exit(1)
		}
		printJSON(c.Call("prompts/get", map[string]any{
			"name":      args[1],
			"arguments": parseKeyValues(args[2:]),
		}))
	default:
		usage()
		os.Exit(1)
	}
}

func parseKeyValues(pairs []string) map[string]any {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}

func printJSON(raw json.RawMessage, err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	pretty, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(pretty))
}

func flagValue(args []string, short, long, def string) string {
	for i, a := range args {
		if (a == short || a == long) && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(a, long+"=") {
			return strings.TrimPrefix(a, long+"=")
		}
	}
	return def
}

func stripRootFlag(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "-r" || a == "--root" {
			i++
			continue
		}
		if strings.HasPrefix(a, "--root=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: mcpctl [-r|--root url] <command> ...

commands:
  info
  tools list
  tools call <name> [key=value ...]
  resources list
  resources templates list
  resources read <uri>
  prompts list
  prompts get <name> [key=value ...]`)
}
