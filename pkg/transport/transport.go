// Package transport defines the stdio line-transport used by the
// process-lived "stdio" session, and (in httpclient.go) the outbound
// HTTP client tools use to reach external services, generalized from a
// typed request/response interface to a byte-oriented one since the
// session layer now owns JSON-RPC encoding/decoding itself.
package transport

// Transport is a newline-delimited JSON-RPC byte transport.
type Transport interface {
	ReadFrame() ([]byte, error)
	WriteFrame([]byte) error
}
