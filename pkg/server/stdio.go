package server

import (
	"context"
	"io"
	"sync"

	"github.com/richard-senior/mcp/pkg/session"
	"github.com/richard-senior/mcp/pkg/transport"
)

// RunStdio drives the process-lived "stdio" session: it reads one
// JSON-RPC frame per line from t, dispatches it synchronously, and
// writes back any response — the stdio analogue of application.py's
// handle_request "stdio" branch, where there is exactly one session for
// the process lifetime (one session per connected process).
func RunStdio(ctx context.Context, rt *Runtime, t transport.Transport) error {
	sess := session.New("stdio", rt.Dispatcher, rt.Config.ChunkSize)
	rt.Log(sess.ID, "connect", "stdio")
	defer rt.Log(sess.ID, "disconnect", "stdio")

	var writeMu sync.Mutex
	go func() {
		for ev := range sess.Outbound() {
			writeMu.Lock()
			_ = t.WriteFrame(ev.Payload)
			writeMu.Unlock()
		}
	}()

	for {
		frame, err := t.ReadFrame()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if len(frame) == 0 {
			continue
		}

		resp := sess.HandleJSONRPC(ctx, frame)
		if resp == nil {
			continue
		}
		writeMu.Lock()
		err = t.WriteFrame(resp)
		writeMu.Unlock()
		if err != nil {
			return err
		}
	}
}
