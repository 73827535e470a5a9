package resources

import (
	"encoding/json"
	"testing"

	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLogRecordAndRead(t *testing.T) {
	sl, err := NewSessionLog(":memory:")
	require.NoError(t, err)

	sl.Record("session-1", "connect", "127.0.0.1")
	sl.Record("session-1", "disconnect", "")

	reg := NewRegistry()
	sl.Register(reg)

	result, err := reg.read(nil, map[string]any{"uri": "mcp://sessions/log"})
	require.NoError(t, err)

	contents := result.(map[string]any)["contents"].([]protocol.Content)
	require.Len(t, contents, 1)

	var events []sessionEvent
	require.NoError(t, json.Unmarshal([]byte(contents[0].(protocol.TextResourceContent).Text), &events))

	require.Len(t, events, 2)
	assert.Equal(t, "connect", events[0].Event)
	assert.Equal(t, "127.0.0.1", events[0].Detail)
	assert.Equal(t, "disconnect", events[1].Event)
}

func TestNewSessionLogCreatesParentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/nested/sessions.db"

	sl, err := NewSessionLog(path)
	require.NoError(t, err)
	assert.NotNil(t, sl)
}
