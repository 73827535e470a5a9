package resources

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/util"
)

// SessionLog persists session lifecycle events (connect, disconnect,
// cancellation) to a local SQLite database and exposes the history as a
// read-only resource at mcp://sessions/log. It re-homes the
// modernc.org/sqlite dependency (previously backing an unrelated
// football-statistics engine) onto a resource that actually belongs to
// this runtime's own domain: the dispatcher's session table.
type SessionLog struct {
	client *util.SQLiteClient
}

// NewSessionLog opens (or creates) the log database at path.
func NewSessionLog(path string) (*SessionLog, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create session log directory: %w", err)
		}
	}

	client, err := util.NewSQLite(path)
	if err != nil {
		return nil, err
	}

	sl := &SessionLog{client: client}
	if err := sl.client.Execute(`CREATE TABLE IF NOT EXISTS session_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		event TEXT NOT NULL,
		detail TEXT,
		at TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create session_events table: %w", err)
	}

	return sl, nil
}

// Record appends one lifecycle event. Failures are logged, not
// propagated: the log is diagnostic, never load-bearing for dispatch.
func (sl *SessionLog) Record(sessionID, event, detail string) {
	if err := sl.client.Execute(
		`INSERT INTO session_events (session_id, event, detail, at) VALUES (?, ?, ?, ?)`,
		sessionID, event, detail, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		logger.Default().Child("resources.sessionlog").Error("record session event failed", err)
	}
}

type sessionEvent struct {
	SessionID string `json:"sessionId"`
	Event     string `json:"event"`
	Detail    string `json:"detail,omitempty"`
	At        string `json:"at"`
}

// Register wires the mcp://sessions/log resource, returning the full
// event history as a JSON document.
func (sl *SessionLog) Register(reg *Registry) {
	reg.RegisterConcrete(protocol.Resource{
		URI:         "mcp://sessions/log",
		Name:        "session_log",
		Description: "History of session connect/disconnect/cancellation events",
		MimeType:    "application/json",
	}, func(uri string, _ map[string]string) (protocol.Content, error) {
		rows, err := sl.client.Query(`SELECT session_id, event, detail, at FROM session_events ORDER BY id ASC`)
		if err != nil {
			return nil, fmt.Errorf("query session log: %w", err)
		}
		defer rows.Close()

		events := []sessionEvent{}
		for rows.Next() {
			var e sessionEvent
			var detail *string
			if err := rows.Scan(&e.SessionID, &e.Event, &detail, &e.At); err != nil {
				return nil, fmt.Errorf("scan session log row: %w", err)
			}
			if detail != nil {
				e.Detail = *detail
			}
			events = append(events, e)
		}

		body, err := json.Marshal(events)
		if err != nil {
			return nil, err
		}

		return protocol.TextResourceContent{URI: uri, MimeType: "application/json", Text: string(body)}, nil
	})
}
