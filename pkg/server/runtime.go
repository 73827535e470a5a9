package server

import (
	"github.com/richard-senior/mcp/pkg/capability"
	"github.com/richard-senior/mcp/pkg/prompts"
	"github.com/richard-senior/mcp/pkg/resources"
	"github.com/richard-senior/mcp/pkg/tools"
)

// Runtime bundles the Dispatcher, its registered capabilities and the
// running configuration — the single object both transports (HTTP/SSE
// and stdio) are built around.
type Runtime struct {
	Dispatcher *capability.Dispatcher
	Config     Config

	toolsReg     *tools.Registry
	resourcesReg *resources.Registry
	promptsReg   *prompts.PromptRegistry

	sessionLog *resources.SessionLog
}

// NewRuntime wires every capability plus the builtins onto a fresh
// Dispatcher.
func NewRuntime(cfg Config, sessionLogPath string) (*Runtime, error) {
	rt := &Runtime{Dispatcher: capability.NewDispatcher(), Config: cfg}

	rt.toolsReg = tools.NewDefaultRegistry()
	rt.Dispatcher.Register(rt.toolsReg)

	rt.resourcesReg = resources.NewRegistry()
	resources.RegisterDocs(rt.resourcesReg)

	if sessionLogPath != "" {
		sessionLog, err := resources.NewSessionLog(sessionLogPath)
		if err != nil {
			return nil, err
		}
		sessionLog.Register(rt.resourcesReg)
		rt.sessionLog = sessionLog
	}
	rt.Dispatcher.Register(rt.resourcesReg)

	rt.promptsReg = prompts.NewPromptRegistry()
	rt.Dispatcher.Register(prompts.NewCapability(rt.promptsReg))

	registerBuiltins(rt.Dispatcher, cfg)

	return rt, nil
}

// Log records a session lifecycle event to the session log resource, if
// one is configured.
func (rt *Runtime) Log(sessionID, event, detail string) {
	if rt.sessionLog != nil {
		rt.sessionLog.Record(sessionID, event, detail)
	}
}
