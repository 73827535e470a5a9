package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestNotification(t *testing.T) {
	req, err := NewRequest("ping", nil, nil)
	require.NoError(t, err)
	assert.True(t, req.IsNotification())

	req, err = NewRequest("ping", int64(7), nil)
	require.NoError(t, err)
	assert.False(t, req.IsNotification())
}

func TestNewResponseRoundTrip(t *testing.T) {
	raw, err := NewResponse(int64(3), map[string]any{"ok": true})
	require.NoError(t, err)

	var frame GenericFrame
	require.NoError(t, json.Unmarshal(raw, &frame))

	assert.Equal(t, JsonRpcVersion, frame.JsonRPC)
	assert.Nil(t, frame.Error)
	assert.JSONEq(t, `{"ok":true}`, string(frame.Result))
}

func TestNewErrorResponse(t *testing.T) {
	raw := NewErrorResponse(int64(1), ErrInvalidParams, "bad params", nil)

	var frame GenericFrame
	require.NoError(t, json.Unmarshal(raw, &frame))

	require.NotNil(t, frame.Error)
	assert.Equal(t, ErrInvalidParams, frame.Error.Code)
	assert.Equal(t, "bad params", frame.Error.Message)
}

func TestGenericFrameHasID(t *testing.T) {
	var withID GenericFrame
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}`), &withID))
	assert.True(t, withID.HasID())

	var notification GenericFrame
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`), &notification))
	assert.False(t, notification.HasID())
}

func TestInvalidParamsError(t *testing.T) {
	err := NewInvalidParamsError("missing %q", "uri")
	assert.EqualError(t, err, `missing "uri"`)

	var target *InvalidParamsError
	assert.ErrorAs(t, err, &target)
}

func TestPromptArgumentsSortedByName(t *testing.T) {
	p := &Prompt{
		Variables: map[string]PromptArgument{
			"zeta":  {Description: "last", Required: false},
			"alpha": {Description: "first", Required: true},
		},
	}

	args := p.Arguments()
	require.Len(t, args, 2)
	assert.Equal(t, "alpha", args[0].Name)
	assert.Equal(t, "zeta", args[1].Name)
	assert.True(t, args[0].Required)
}
