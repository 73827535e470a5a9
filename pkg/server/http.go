package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/session"
)

// sessionIDPattern is the `[a-f0-9-]+` session_id path segment the
// original's URL routing matches on POST.
var sessionIDPattern = regexp.MustCompile(`^[a-f0-9-]+$`)

// HTTPServer is the SSE transport: a GET / handler that allocates a
// Session and streams its outbound queue as Server-Sent Events, and a
// POST /{session_id} handler that feeds inbound JSON-RPC frames to the
// matching session — grounded on other_examples' go-sse sample
// (sync.Map of sessions, http.Flusher, scheme-from-request absolute URL)
// fused with application.py's create_channel/handle_json_rpc route split
// (GET allocates + sends an absolute-URL "endpoint" event, POST 404s on
// an unknown session id, 400s on bad JSON, 202s on success).
type HTTPServer struct {
	dispatch *Runtime
	sessions sync.Map // id -> *session.Session
}

// NewHTTPServer builds an SSE-transport HTTP handler set around rt.
func NewHTTPServer(rt *Runtime) *HTTPServer {
	return &HTTPServer{dispatch: rt}
}

func (h *HTTPServer) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleSSE)
	mux.HandleFunc("POST /{session_id}", h.handleMessage)
	return mux
}

func (h *HTTPServer) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sess := session.New("", h.dispatch.Dispatcher, h.dispatch.Config.ChunkSize)
	h.sessions.Store(sess.ID, sess)
	h.dispatch.Log(sess.ID, "connect", r.RemoteAddr)

	defer func() {
		h.sessions.Delete(sess.ID)
		sess.Close()
		h.dispatch.Log(sess.ID, "disconnect", "")
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	nextID := 0
	endpoint := fmt.Sprintf("%s://%s/%s", schemeFromRequest(r), r.Host, sess.ID)
	sendEvent(w, flusher, "endpoint", endpoint, nextID)
	nextID++

	pingTimeout := time.Duration(h.dispatch.Config.PingTimeoutSeconds) * time.Second
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-sess.Done():
			return
		case <-ticker.C:
			sess.Cleanup(pingTimeout)
		case ev, ok := <-sess.Outbound():
			if !ok {
				return
			}
			sendEvent(w, flusher, ev.Type, string(ev.Payload), nextID)
			nextID++
		}
	}
}

// schemeFromRequest recovers the scheme the client actually used, so the
// endpoint event's absolute URL resolves correctly behind a TLS-terminating
// proxy as well as for a direct plain-HTTP connection.
func schemeFromRequest(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}

// sendEvent writes one SSE frame, prefixed with a strictly increasing
// `id:` field — over a session's lifetime, ids start at 0 and increase by
// one per frame, including the initial "endpoint" event.
func sendEvent(w http.ResponseWriter, flusher http.Flusher, name, data string, id int) {
	fmt.Fprintf(w, "id: %d\n", id)
	fmt.Fprintf(w, "event: %s\n", name)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
	flusher.Flush()
}

func (h *HTTPServer) handleMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")
	if !sessionIDPattern.MatchString(sessionID) {
		http.Error(w, "invalid session id", http.StatusNotFound)
		return
	}

	value, ok := h.sessions.Load(sessionID)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	sess := value.(*session.Session)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	var probe protocol.GenericFrame
	if err := json.Unmarshal(body, &probe); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	resp := sess.HandleJSONRPC(r.Context(), body)
	if resp != nil {
		sess.Send("message", resp)
	}

	w.WriteHeader(http.StatusAccepted)
}
