package server

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/richard-senior/mcp/pkg/capability"
	"github.com/richard-senior/mcp/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRuntime() *Runtime {
	rt := &Runtime{Dispatcher: capability.NewDispatcher(), Config: DefaultConfig()}
	registerBuiltins(rt.Dispatcher, rt.Config)
	return rt
}

func TestMuxRejectsUnmatchedPath(t *testing.T) {
	h := NewHTTPServer(newTestRuntime())

	req := httptest.NewRequest(http.MethodGet, "/other/path", nil)
	rec := httptest.NewRecorder()
	h.Mux().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleMessageUnknownSessionReturns404(t *testing.T) {
	h := NewHTTPServer(newTestRuntime())

	req := httptest.NewRequest(http.MethodPost, "/deadbeef-0000", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.Mux().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleMessageRejectsSessionIDOutsideAllowedCharset(t *testing.T) {
	h := NewHTTPServer(newTestRuntime())

	req := httptest.NewRequest(http.MethodPost, "/not_hex!", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.Mux().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleMessageRejectsInvalidJSON(t *testing.T) {
	h := NewHTTPServer(newTestRuntime())

	sess, _, cleanup := startSSESession(t, h)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/"+sess, strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	h.Mux().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSSEThenHandleMessageRoundTrip(t *testing.T) {
	h := NewHTTPServer(newTestRuntime())

	sess, rec, cleanup := startSSESession(t, h)
	defer cleanup()

	body := `{"jsonrpc":"2.0","id":1,"method":"ping"}`
	msgReq := httptest.NewRequest(http.MethodPost, "/"+sess, strings.NewReader(body))
	msgRec := httptest.NewRecorder()
	h.Mux().ServeHTTP(msgRec, msgReq)
	assert.Equal(t, http.StatusAccepted, msgRec.Code)

	deadline := time.After(time.Second)
	for {
		if strings.Contains(rec.Body.String(), `"result"`) {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for SSE response event")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestSSEEventsCarryStrictlyIncreasingIDs(t *testing.T) {
	h := NewHTTPServer(newTestRuntime())

	sess, rec, cleanup := startSSESession(t, h)
	defer cleanup()

	for i := 0; i < 3; i++ {
		body := `{"jsonrpc":"2.0","id":` + strconv.Itoa(i+1) + `,"method":"ping"}`
		req := httptest.NewRequest(http.MethodPost, "/"+sess, strings.NewReader(body))
		msgRec := httptest.NewRecorder()
		h.Mux().ServeHTTP(msgRec, req)
		require.Equal(t, http.StatusAccepted, msgRec.Code)
	}

	deadline := time.After(time.Second)
	for strings.Count(rec.Body.String(), "id: ") < 4 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for streamed events")
		case <-time.After(10 * time.Millisecond):
		}
	}

	var ids []int
	for _, line := range strings.Split(rec.Body.String(), "\n") {
		if n, ok := strings.CutPrefix(line, "id: "); ok {
			id, err := strconv.Atoi(n)
			require.NoError(t, err)
			ids = append(ids, id)
		}
	}

	require.GreaterOrEqual(t, len(ids), 2)
	assert.Equal(t, 0, ids[0])
	for i := 1; i < len(ids); i++ {
		assert.Greater(t, ids[i], ids[i-1])
	}
}

// startSSESession runs the SSE handler (via the real Mux, so routing is
// exercised too) in a goroutine against a streaming ResponseRecorder-backed
// request, and returns the allocated session id extracted from the initial
// "endpoint" event's absolute URL, plus the recorder to inspect
// subsequently streamed events.
func startSSESession(t *testing.T, h *HTTPServer) (sessionID string, rec *httptest.ResponseRecorder, cleanup func()) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.Mux().ServeHTTP(rec, req)
		close(done)
	}()

	var endpoint string
	deadline := time.After(time.Second)
	for {
		body := rec.Body.String()
		if idx := strings.Index(body, "event: endpoint"); idx >= 0 {
			lines := strings.Split(body[idx:], "\n")
			for _, line := range lines {
				if after, ok := strings.CutPrefix(line, "data: "); ok {
					endpoint = after
					break
				}
			}
			if endpoint != "" {
				break
			}
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for endpoint event")
		case <-time.After(5 * time.Millisecond):
		}
	}

	idx := strings.LastIndex(endpoint, "/")
	require.GreaterOrEqual(t, idx, 0)
	sessionID = endpoint[idx+1:]
	require.NotEmpty(t, sessionID)

	return sessionID, rec, func() {
		if value, ok := h.sessions.Load(sessionID); ok {
			value.(*session.Session).Close()
		}
		<-done
	}
}
