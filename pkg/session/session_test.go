package session

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/richard-senior/mcp/pkg/capability"
	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher() *capability.Dispatcher {
	d := capability.NewDispatcher()
	d.RegisterBuiltin("ping", func(ctx, sess any, args map[string]any) (any, error) {
		return map[string]any{}, nil
	})
	d.RegisterBuiltin("echo", func(ctx, sess any, args map[string]any) (any, error) {
		return args, nil
	})
	d.RegisterNotification("notifications/initialized", func(ctx, sess any, args map[string]any) (any, error) {
		return nil, nil
	})
	return d
}

func TestParseLogLevelKnownAndUnknown(t *testing.T) {
	l, err := ParseLogLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, LevelWarning, l)

	_, err = ParseLogLevel("bogus")
	assert.Error(t, err)
}

func TestNextRequestIDIsMonotonic(t *testing.T) {
	s := New("", newTestDispatcher(), 0)

	var last int64
	for i := 0; i < 5; i++ {
		id := s.nextRequestID()
		assert.Greater(t, id, last)
		last = id
	}
}

func TestCreateRPCRequestRegistersPendingCallback(t *testing.T) {
	s := New("", newTestDispatcher(), 0)

	called := false
	_, err := s.CreateRPCRequest("ping", nil, func(result []byte, rpcErr *protocol.JsonRpcError) {
		called = true
	})
	require.NoError(t, err)

	assert.Len(t, s.pending, 1)

	var id int64
	for k := range s.pending {
		id = k
	}

	frame := &protocol.GenericFrame{ID: float64(id)}
	s.HandleResponse(frame)

	assert.True(t, called)
	assert.Len(t, s.pending, 0)
}

func TestHandleResponseUnknownIDIsNoop(t *testing.T) {
	s := New("", newTestDispatcher(), 0)
	s.HandleResponse(&protocol.GenericFrame{ID: float64(999)})
}

func TestCleanupDropsStalePendingCallbacks(t *testing.T) {
	s := New("", newTestDispatcher(), 0)
	s.pending[1] = pendingEntry{issuedAt: time.Now().Add(-time.Hour)}
	s.lastCleanupAt = time.Now().Add(-2 * CleanupPeriodicity)
	s.lastSentAt = time.Now()

	s.Cleanup(time.Millisecond)

	assert.Len(t, s.pending, 0)
}

func TestSetAndGetRoots(t *testing.T) {
	s := New("", newTestDispatcher(), 0)
	s.SetRoots([]Root{{Name: "home", URI: "file:///home"}})

	got := s.Roots()
	require.Len(t, got, 1)
	assert.Equal(t, "home", got[0].Name)
}

func TestClientSupportsReflectsSetClientCapabilities(t *testing.T) {
	s := New("", newTestDispatcher(), 0)
	assert.False(t, s.ClientSupports("roots"))

	s.SetClientCapabilities(map[string]any{"roots": map[string]any{}})
	assert.True(t, s.ClientSupports("roots"))
}

func TestHandleJSONRPCRequestReturnsEncodedResponse(t *testing.T) {
	s := New("", newTestDispatcher(), 0)

	raw := []byte(`{"jsonrpc":"2.0","id":1,"method":"echo","params":{"x":1}}`)
	out := s.HandleJSONRPC(context.Background(), raw)
	require.NotNil(t, out)

	var frame protocol.GenericFrame
	require.NoError(t, json.Unmarshal(out, &frame))
	assert.Nil(t, frame.Error)
}

func TestHandleJSONRPCNotificationReturnsNil(t *testing.T) {
	s := New("", newTestDispatcher(), 0)

	raw := []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	out := s.HandleJSONRPC(context.Background(), raw)
	assert.Nil(t, out)
}

func TestHandleJSONRPCResponseFrameRoutesToCallbackAndReturnsNil(t *testing.T) {
	s := New("", newTestDispatcher(), 0)

	called := false
	_, err := s.CreateRPCRequest("ping", nil, func(result []byte, rpcErr *protocol.JsonRpcError) {
		called = true
	})
	require.NoError(t, err)

	var id int64
	for k := range s.pending {
		id = k
	}

	raw := []byte(`{"jsonrpc":"2.0","id":` + itoa(id) + `,"result":{}}`)
	out := s.HandleJSONRPC(context.Background(), raw)

	assert.Nil(t, out)
	assert.True(t, called)
}

func TestHandleJSONRPCUnknownMethodReturnsMethodNotFound(t *testing.T) {
	s := New("", newTestDispatcher(), 0)

	raw := []byte(`{"jsonrpc":"2.0","id":1,"method":"nonexistent"}`)
	out := s.HandleJSONRPC(context.Background(), raw)

	var frame protocol.GenericFrame
	require.NoError(t, json.Unmarshal(out, &frame))
	require.NotNil(t, frame.Error)
	assert.Equal(t, protocol.ErrMethodNotFound, frame.Error.Code)
}

func TestEncodeStreamingProducesValidFrame(t *testing.T) {
	s := New("", newTestDispatcher(), 3)

	body := s.encodeStreaming(float64(1), []protocol.StreamEntry{
		{URI: "mcp://x", MimeType: "text/plain", Stream: strings.NewReader("hello")},
	})

	var frame struct {
		Result struct {
			Contents []map[string]any `json:"contents"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(body, &frame))
	require.Len(t, frame.Result.Contents, 1)
}

func TestSendAndOutboundRoundTrip(t *testing.T) {
	s := New("", newTestDispatcher(), 0)
	s.Send("message", []byte("payload"))

	select {
	case evt := <-s.Outbound():
		assert.Equal(t, "message", evt.Type)
		assert.Equal(t, []byte("payload"), evt.Payload)
	case <-time.After(time.Second):
		t.Fatal("expected an event on the outbound channel")
	}
}

func TestCloseIsIdempotentAndUnblocksSend(t *testing.T) {
	s := New("", newTestDispatcher(), 0)
	s.Close()
	s.Close()

	select {
	case <-s.Done():
	default:
		t.Fatal("expected Done() to be closed")
	}
}

func itoa(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
