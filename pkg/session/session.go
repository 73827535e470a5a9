// Package session implements the per-client Session: the original's
// nagare.server.mcp.client.Client, rebuilt around goroutines and channels
// instead of an asyncio queue, grounded on
// original_source/src/nagare/server/mcp/client.py. The stdio-only,
// single-process runtime this is built on had no session concept at
// all; this package introduces one so the SSE transport can hold many
// concurrent clients.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/capability"
	"github.com/richard-senior/mcp/pkg/protocol"
)

// LogLevel is one of the 8 RFC-5424-ish severities the client may
// request via logging/setLevel, ordered low→high exactly as
// client.py's LOGGING_LEVELS dict.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelNotice
	LevelWarning
	LevelError
	LevelCritical
	LevelAlert
	LevelEmergency
)

var levelNames = map[string]LogLevel{
	"debug": LevelDebug, "info": LevelInfo, "notice": LevelNotice,
	"warning": LevelWarning, "error": LevelError, "critical": LevelCritical,
	"alert": LevelAlert, "emergency": LevelEmergency,
}

// ParseLogLevel maps a wire-level string to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	l, ok := levelNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown logging level %q", s)
	}
	return l, nil
}

// CleanupPeriodicity mirrors client.py's CLEANUP_PERIODICITY: at most once
// per period, pending callbacks older than one period are dropped in
// addition to the idle ping check.
const CleanupPeriodicity = 10 * time.Second

// Event is one (eventType, payload) pair placed on the outbound queue,
// rendered as an SSE frame by the sending loop.
type Event struct {
	Type    string
	Payload []byte
}

// ResponseCallback receives a decoded JSON-RPC response/error frame for
// the request it was registered against.
type ResponseCallback func(result []byte, rpcErr *protocol.JsonRpcError)

type pendingEntry struct {
	issuedAt time.Time
	callback ResponseCallback
}

// Session is one connected client's server-side state: outbound event
// queue, pending-response callback table, logging threshold, declared
// roots, and the request-id counter used for server-initiated requests
// (sampling, roots/list, ping).
type Session struct {
	ID       string
	ChunkSize int

	log *logger.Logger

	dispatch *capability.Dispatcher

	mu            sync.Mutex
	requestID     int64
	pending       map[int64]pendingEntry
	lastSentAt    time.Time
	lastCleanupAt time.Time
	logLevel      LogLevel
	roots         []Root
	clientCaps    map[string]any

	outbound chan Event
	closed   chan struct{}
	closeOne sync.Once
}

// Root is a (name, uri) pair the client advertises to scope its
// filesystem (roots/list response).
type Root struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// New creates a Session. id should be a UUIDv4 string for an SSE
// transport, or the literal "stdio" for the stdio transport — the
// "stdio" session is process-lived rather than disconnect-destroyed.
func New(id string, dispatch *capability.Dispatcher, chunkSize int) *Session {
	if id == "" {
		id = uuid.NewString()
	}

	now := time.Now()
	return &Session{
		ID:            id,
		ChunkSize:     chunkSize,
		log:           logger.Default().Child("session." + id),
		dispatch:      dispatch,
		pending:       make(map[int64]pendingEntry),
		lastSentAt:    now,
		lastCleanupAt: now,
		logLevel:      LevelInfo,
		outbound:      make(chan Event, 64),
		closed:        make(chan struct{}),
	}
}

// Logger returns this session's child logger, named after its id per
// client.py's parent-logger-name convention.
func (s *Session) Logger() *logger.Logger { return s.log }

// Send enqueues an outbound SSE event. When the queue's buffer is full it
// blocks until the sending loop makes room or the session is closed; an
// event sent after Close is dropped.
func (s *Session) Send(eventType string, payload []byte) {
	select {
	case s.outbound <- Event{Type: eventType, Payload: payload}:
	case <-s.closed:
	}
}

// Close shuts down the outbound queue; the sending loop exits and the
// caller (the HTTP handler or stdio loop) is responsible for removing
// the session from the transport's session map, if it keeps one.
func (s *Session) Close() {
	s.closeOne.Do(func() { close(s.closed) })
}

// Done reports whether this session has been closed.
func (s *Session) Done() <-chan struct{} { return s.closed }

// Outbound exposes the event queue for the transport's sending loop to
// drain (SSE writer goroutine, or the stdio writer).
func (s *Session) Outbound() <-chan Event { return s.outbound }

// nextRequestID returns the next monotonically increasing server-issued
// request id.
func (s *Session) nextRequestID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestID++
	return s.requestID
}

// CreateRPCRequest builds a server→client JSON-RPC request, registers cb
// against its id, and returns the encoded frame ready to Send.
func (s *Session) CreateRPCRequest(method string, params any, cb ResponseCallback) ([]byte, error) {
	id := s.nextRequestID()

	req, err := protocol.NewRequest(method, id, params)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.pending[id] = pendingEntry{issuedAt: time.Now(), callback: cb}
	s.mu.Unlock()

	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	return raw, nil
}

// HandleResponse routes a decoded response/error frame to its
// registered callback, if any, and removes it from the pending table —
// client.py's handle_response.
func (s *Session) HandleResponse(frame *protocol.GenericFrame) {
	id, ok := frame.ID.(float64)
	if !ok {
		return
	}

	key := int64(id)

	s.mu.Lock()
	entry, ok := s.pending[key]
	if ok {
		delete(s.pending, key)
	}
	s.mu.Unlock()

	if !ok || entry.callback == nil {
		return
	}

	entry.callback(frame.Result, frame.Error)
}

// Cleanup runs the periodic idle-ping and stale-callback sweep described
// in client.py: called roughly once per second by the sending loop.
// It pings the client when nothing was sent for longer than pingTimeout,
// and, when at least CleanupPeriodicity has passed since the last sweep,
// drops pending callbacks older than CleanupPeriodicity.
func (s *Session) Cleanup(pingTimeout time.Duration) {
	s.mu.Lock()
	idle := time.Since(s.lastSentAt) > pingTimeout
	if time.Since(s.lastCleanupAt) >= CleanupPeriodicity {
		s.lastCleanupAt = time.Now()
		for id, entry := range s.pending {
			if time.Since(entry.issuedAt) > CleanupPeriodicity {
				delete(s.pending, id)
			}
		}
	}
	s.mu.Unlock()

	if idle {
		s.Ping()
	}
}

// Ping issues a server→client ping request with no callback — a liveness
// probe, not a round-trip the session waits on.
func (s *Session) Ping() {
	raw, err := s.CreateRPCRequest("ping", nil, nil)
	if err != nil {
		s.log.Warn("failed to build ping", err)
		return
	}
	s.markSent()
	s.Send("message", raw)
}

func (s *Session) markSent() {
	s.mu.Lock()
	s.lastSentAt = time.Now()
	s.mu.Unlock()
}

// SetLogLevel implements logging/setLevel.
func (s *Session) SetLogLevel(l LogLevel) {
	s.mu.Lock()
	s.logLevel = l
	s.mu.Unlock()
}

// ShouldLog reports whether a message at level l meets this session's
// current threshold.
func (s *Session) ShouldLog(l LogLevel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return l >= s.logLevel
}

// LogNotification sends a notifications/message frame to the client, if
// its declared threshold admits level.
func (s *Session) LogNotification(level, logger_ string, data any) {
	l, err := ParseLogLevel(level)
	if err != nil || !s.ShouldLog(l) {
		return
	}

	notif, err := protocol.NewNotification("notifications/message", map[string]any{
		"level": level, "logger": logger_, "data": data,
	})
	if err != nil {
		return
	}

	raw, err := json.Marshal(notif)
	if err != nil {
		return
	}

	s.markSent()
	s.Send("message", raw)
}

// SetRoots stores the client's declared roots (roots/list response).
func (s *Session) SetRoots(roots []Root) {
	s.mu.Lock()
	s.roots = roots
	s.mu.Unlock()
}

// Roots returns the client's declared roots.
func (s *Session) Roots() []Root {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Root, len(s.roots))
	copy(out, s.roots)
	return out
}

// SetClientCapabilities stores the capability set the client advertised
// during initialize, used to decide whether roots/list should be issued
// on notifications/initialized.
func (s *Session) SetClientCapabilities(caps map[string]any) {
	s.mu.Lock()
	s.clientCaps = caps
	s.mu.Unlock()
}

// ClientSupports reports whether the client advertised the named
// capability (e.g. "roots") during initialize.
func (s *Session) ClientSupports(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.clientCaps[name]
	return ok
}

// ListRoots issues a server→client roots/list request and stores the
// result via SetRoots when the response arrives.
func (s *Session) ListRoots() error {
	raw, err := s.CreateRPCRequest("roots/list", nil, func(result []byte, rpcErr *protocol.JsonRpcError) {
		if rpcErr != nil {
			s.log.Warn("roots/list failed", rpcErr.Message)
			return
		}
		var body struct {
			Roots []Root `json:"roots"`
		}
		if err := json.Unmarshal(result, &body); err != nil {
			s.log.Warn("roots/list: bad response", err)
			return
		}
		s.SetRoots(body.Roots)
	})
	if err != nil {
		return err
	}

	s.markSent()
	s.Send("message", raw)
	return nil
}

// HandleJSONRPC decodes and dispatches one incoming frame: a request is
// answered via the dispatcher and the encoded response returned; a
// notification is dispatched with no response; a response/error frame is
// routed to HandleResponse and nil is returned.
func (s *Session) HandleJSONRPC(ctx context.Context, raw []byte) []byte {
	var frame protocol.GenericFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return protocol.NewErrorResponse(nil, protocol.ErrParse, "parse error", err.Error())
	}

	if frame.Method == "" {
		s.HandleResponse(&frame)
		return nil
	}

	if !frame.HasID() {
		s.dispatch.Notify(ctx, s, frame.Method, frame.Params)
		return nil
	}

	result, rpcErr := s.dispatch.Invoke(ctx, s, frame.Method, frame.Params)
	if rpcErr != nil {
		return protocol.NewErrorResponse(frame.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
	}

	if entry, ok := result.(*protocol.StreamEntry); ok {
		return s.encodeStreaming(frame.ID, []protocol.StreamEntry{*entry})
	}

	resp, err := protocol.NewResponse(frame.ID, result)
	if err != nil {
		return protocol.NewErrorResponse(frame.ID, protocol.ErrInternal, err.Error(), nil)
	}

	return resp
}

// encodeStreaming drains the lazy streaming encoder into a single
// response frame. The encoder itself never buffers more than one chunk
// of any individual stream at a time; this
// call site buffers the resulting JSON because Session.Send moves whole
// frames, one per SSE "data:" event or stdio line — reassembling the
// frame here, rather than writing it incrementally to the socket, trades
// away network-level backpressure in exchange for keeping the
// event/queue abstraction uniform across every response type.
func (s *Session) encodeStreaming(id any, entries []protocol.StreamEntry) []byte {
	chunkSize := s.ChunkSize
	if chunkSize <= 0 {
		chunkSize = protocol.DefaultChunkSize
	}

	enc, err := protocol.NewStreamingResult(id, entries, chunkSize)
	if err != nil {
		return protocol.NewErrorResponse(id, protocol.ErrInternal, err.Error(), nil)
	}

	body, err := io.ReadAll(enc)
	if err != nil {
		return protocol.NewErrorResponse(id, protocol.ErrInternal, err.Error(), nil)
	}

	return body
}
