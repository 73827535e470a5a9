package transport

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// SSEEvent is one decoded "event: name\ndata: ...\n\n" frame.
type SSEEvent struct {
	Name string
	Data string
}

// SSEReader decodes a Server-Sent Events stream, hand-rolled since the
// Go ecosystem's sse client libraries weren't part of the retrieved
// dependency set (the original's admin CLI uses Python's httpx +
// sseclient; here an *http.Response.Body is read directly instead).
type SSEReader struct {
	r *bufio.Reader
}

// NewSSEReader wraps body (an open HTTP response body) as an SSEReader.
func NewSSEReader(body io.Reader) *SSEReader {
	return &SSEReader{r: bufio.NewReader(body)}
}

// Next blocks until the next event frame is available.
func (s *SSEReader) Next() (SSEEvent, error) {
	var ev SSEEvent
	var data []string

	for {
		line, err := s.r.ReadString('\n')
		if err != nil {
			if len(data) > 0 {
				ev.Data = strings.Join(data, "\n")
				return ev, nil
			}
			return ev, err
		}

		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			if ev.Name != "" || len(data) > 0 {
				ev.Data = strings.Join(data, "\n")
				return ev, nil
			}
			continue
		case strings.HasPrefix(line, "event:"):
			ev.Name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		default:
			// id:, retry:, comments -- ignored.
		}
	}
}

// WaitFor reads events until one named want arrives, returning its data.
func (s *SSEReader) WaitFor(want string) (string, error) {
	for {
		ev, err := s.Next()
		if err != nil {
			return "", err
		}
		if ev.Name == want {
			return ev.Data, nil
		}
	}
}

// ErrClosed is returned by callers that detect the stream ended without
// the expected event.
var ErrClosed = fmt.Errorf("sse stream closed")
