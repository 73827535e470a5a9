// Package server assembles the capability registries, the Dispatcher's
// builtin methods and the two transports (SSE and stdio) into a running
// MCP server, grounded on
// original_source/src/nagare/server/mcp/{application.py,client.py} for
// the wiring, and on pkg/server/server.go's handler-registration style.
package server

import (
	"fmt"
	"strings"

	"github.com/richard-senior/mcp/pkg/capability"
	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/session"
)

// Config is the CONFIG_SPEC equivalent: the handful of values the
// original reads from its plugin config section.
type Config struct {
	ServerName         string
	Version            string
	PingTimeoutSeconds int
	ChunkSize          int
}

// DefaultConfig mirrors application.py's CONFIG_SPEC defaults.
func DefaultConfig() Config {
	return Config{
		ServerName:         "mcp",
		Version:            "0.1.0",
		PingTimeoutSeconds: 5,
		ChunkSize:          protocol.DefaultChunkSize,
	}
}

// registerBuiltins wires initialize/ping/logging/setLevel/completion-complete
// plus the notification handlers onto d, closing over cfg and the
// registered capabilities.
func registerBuiltins(d *capability.Dispatcher, cfg Config) {
	d.RegisterBuiltin("initialize", func(_ any, sessAny any, args map[string]any) (any, error) {
		sess := sessAny.(*session.Session)

		if clientCaps, ok := args["capabilities"].(map[string]any); ok {
			sess.SetClientCapabilities(clientCaps)
		}

		caps := map[string]any{
			"roots":       map[string]any{},
			"completions": map[string]any{},
			"logging":     map[string]any{},
			"sampling":    map[string]any{},
		}
		for name, cap := range d.Capabilities() {
			caps[name] = cap.Infos()
		}

		return map[string]any{
			"protocolVersion": protocol.ProtocolVersion,
			"capabilities":    caps,
			"serverInfo": map[string]any{
				"name":    cfg.ServerName,
				"version": cfg.Version,
			},
		}, nil
	})

	d.RegisterBuiltin("ping", func(_ any, _ any, _ map[string]any) (any, error) {
		return map[string]any{}, nil
	})

	d.RegisterBuiltin("logging/setLevel", func(_ any, sessAny any, args map[string]any) (any, error) {
		sess := sessAny.(*session.Session)
		levelStr, _ := args["level"].(string)

		level, err := session.ParseLogLevel(levelStr)
		if err != nil {
			return nil, protocol.NewInvalidParamsError("%s", err)
		}

		sess.SetLogLevel(level)
		return map[string]any{}, nil
	})

	d.RegisterBuiltin("completion/complete", func(ctx any, sessAny any, args map[string]any) (any, error) {
		return completeRef(d, ctx, sessAny, args)
	})

	d.RegisterNotification("notifications/initialized", func(_ any, sessAny any, _ map[string]any) (any, error) {
		sess := sessAny.(*session.Session)
		if sess.ClientSupports("roots") {
			_ = sess.ListRoots()
		}
		return nil, nil
	})

	d.RegisterNotification("notifications/cancelled", func(_ any, sessAny any, args map[string]any) (any, error) {
		sess := sessAny.(*session.Session)
		reason, _ := args["reason"].(string)
		sess.Logger().Info("request cancelled", reason)
		return nil, nil
	})

	d.RegisterNotification("notifications/roots/list_changed", func(_ any, sessAny any, _ map[string]any) (any, error) {
		sess := sessAny.(*session.Session)
		return nil, sess.ListRoots()
	})
}

// completeRef implements completion/complete: ref.type is "ref/prompt"
// or "ref/resource" (client.py strips the "ref/" prefix and pluralizes
// it to pick a capability — "ref/tool" is deliberately NOT wired, since
// neither the original nor this runtime exposes a tools/complete
// export).
func completeRef(d *capability.Dispatcher, ctx any, sessAny any, args map[string]any) (any, error) {
	ref, _ := args["ref"].(map[string]any)
	refType, _ := ref["type"].(string)

	if !strings.HasPrefix(refType, "ref/") {
		return nil, protocol.NewInvalidParamsError("unsupported completion ref type %q", refType)
	}

	kind := strings.TrimPrefix(refType, "ref/")
	if kind != "prompt" && kind != "resource" {
		return nil, protocol.NewInvalidParamsError("unsupported completion ref type %q", refType)
	}

	capName := kind + "s"
	cap, ok := d.Capabilities()[capName]
	if !ok {
		return nil, fmt.Errorf("no %s capability registered", capName)
	}

	handler, ok := cap.RPCExports()["complete"]
	if !ok {
		return map[string]any{"completion": map[string]any{"values": []string{}, "total": 0}}, nil
	}

	argument, _ := args["argument"].(map[string]any)
	name, _ := ref["name"].(string)

	callArgs := map[string]any{"name": name}
	if argument != nil {
		callArgs["argumentName"] = argument["name"]
		callArgs["value"] = argument["value"]
	}

	return handler(sessAny, callArgs)
}
