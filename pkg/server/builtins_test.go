package server

import (
	"encoding/json"
	"testing"

	"github.com/richard-senior/mcp/pkg/capability"
	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCapability struct {
	name    string
	exports map[string]capability.Handler
}

func (s *stubCapability) Name() string { return s.name }
func (s *stubCapability) Infos() any   { return map[string]any{} }
func (s *stubCapability) RPCExports() map[string]capability.Handler {
	return s.exports
}

func newBuiltinsTestDispatcher() (*capability.Dispatcher, *session.Session) {
	d := capability.NewDispatcher()
	d.Register(&stubCapability{
		name: "prompts",
		exports: map[string]capability.Handler{
			"complete": func(_ any, args map[string]any) (any, error) {
				return map[string]any{"completion": map[string]any{"values": []string{"hi"}, "total": 1}}, nil
			},
		},
	})
	registerBuiltins(d, DefaultConfig())
	sess := session.New("test", d, 0)
	return d, sess
}

func TestRegisterBuiltinsInitializeReturnsServerInfo(t *testing.T) {
	d, sess := newBuiltinsTestDispatcher()

	result, rpcErr := d.Invoke(nil, sess, "initialize", mustJSON(map[string]any{
		"capabilities": map[string]any{"roots": map[string]any{}},
	}))
	require.Nil(t, rpcErr)

	out := result.(map[string]any)
	assert.Equal(t, protocol.ProtocolVersion, out["protocolVersion"])
	info := out["serverInfo"].(map[string]any)
	assert.Equal(t, "mcp", info["name"])

	assert.True(t, sess.ClientSupports("roots"))
}

func TestRegisterBuiltinsPingReturnsEmptyObject(t *testing.T) {
	d, sess := newBuiltinsTestDispatcher()

	result, rpcErr := d.Invoke(nil, sess, "ping", nil)
	require.Nil(t, rpcErr)
	assert.Equal(t, map[string]any{}, result)
}

func TestRegisterBuiltinsSetLogLevelValidatesLevel(t *testing.T) {
	d, sess := newBuiltinsTestDispatcher()

	_, rpcErr := d.Invoke(nil, sess, "logging/setLevel", mustJSON(map[string]any{"level": "bogus"}))
	require.NotNil(t, rpcErr)
	assert.Equal(t, protocol.ErrInvalidParams, rpcErr.Code)

	_, rpcErr = d.Invoke(nil, sess, "logging/setLevel", mustJSON(map[string]any{"level": "error"}))
	require.Nil(t, rpcErr)
	assert.True(t, sess.ShouldLog(session.LevelError))
	assert.False(t, sess.ShouldLog(session.LevelWarning))
}

func TestCompleteRefRejectsToolRef(t *testing.T) {
	d, sess := newBuiltinsTestDispatcher()

	_, rpcErr := d.Invoke(nil, sess, "completion/complete", mustJSON(map[string]any{
		"ref": map[string]any{"type": "ref/tool", "name": "x"},
	}))
	require.NotNil(t, rpcErr)
	assert.Equal(t, protocol.ErrInvalidParams, rpcErr.Code)
}

func TestCompleteRefRoutesToPromptCapability(t *testing.T) {
	d, sess := newBuiltinsTestDispatcher()

	result, rpcErr := d.Invoke(nil, sess, "completion/complete", mustJSON(map[string]any{
		"ref":      map[string]any{"type": "ref/prompt", "name": "greet"},
		"argument": map[string]any{"name": "lang", "value": "py"},
	}))
	require.Nil(t, rpcErr)

	completion := result.(map[string]any)["completion"].(map[string]any)
	assert.Equal(t, 1, completion["total"])
}

func TestCompleteRefRejectsUnknownRefKind(t *testing.T) {
	d, sess := newBuiltinsTestDispatcher()

	_, rpcErr := d.Invoke(nil, sess, "completion/complete", mustJSON(map[string]any{
		"ref": map[string]any{"type": "ref/bogus", "name": "x"},
	}))
	require.NotNil(t, rpcErr)
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
