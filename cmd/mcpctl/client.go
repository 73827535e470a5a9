package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/transport"
)

// client is a minimal SSE-transport MCP client, the Go analogue of the
// original admin CLI's httpx+sseclient session (admin/mcp/commands.py):
// open the event stream, learn the per-connection message endpoint, then
// POST requests and match responses back by id as they arrive on the
// stream.
type client struct {
	baseURL  string
	http     *http.Client
	endpoint string

	mu      sync.Mutex
	nextID  int64
	waiters map[int64]chan *protocol.GenericFrame
}

func newClient(baseURL string) (*client, error) {
	c := &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		waiters: make(map[int64]chan *protocol.GenericFrame),
	}

	resp, err := c.http.Get(c.baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("connect to %s/: %w", c.baseURL, err)
	}

	reader := transport.NewSSEReader(resp.Body)

	endpointData, err := reader.WaitFor("endpoint")
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("no endpoint event received: %w", err)
	}
	c.endpoint = endpointData

	go c.pump(resp.Body, reader)

	return c, nil
}

func (c *client) pump(body interface{ Close() error }, reader *transport.SSEReader) {
	defer body.Close()

	for {
		ev, err := reader.Next()
		if err != nil {
			return
		}
		if ev.Name != "message" {
			continue
		}

		var frame protocol.GenericFrame
		if err := json.Unmarshal([]byte(ev.Data), &frame); err != nil {
			continue
		}

		id, ok := frame.ID.(float64)
		if !ok {
			continue
		}

		c.mu.Lock()
		ch, ok := c.waiters[int64(id)]
		if ok {
			delete(c.waiters, int64(id))
		}
		c.mu.Unlock()

		if ok {
			ch <- &frame
		}
	}
}

// Call sends a JSON-RPC request and blocks for its matching response.
func (c *client) Call(method string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	ch := make(chan *protocol.GenericFrame, 1)
	c.waiters[id] = ch
	c.mu.Unlock()

	req, err := protocol.NewRequest(method, id, params)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	target := c.endpoint
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		if !strings.HasPrefix(target, "/") {
			target = "/" + target
		}
		target = c.baseURL + target
	}

	resp, err := c.http.Post(target, "application/json", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	resp.Body.Close()

	select {
	case frame := <-ch:
		if frame.Error != nil {
			return nil, fmt.Errorf("%s", frame.Error.Message)
		}
		return frame.Result, nil
	case <-time.After(30 * time.Second):
		return nil, fmt.Errorf("timed out waiting for response to %s", method)
	}
}
