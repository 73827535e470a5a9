package transport

import (
	"bufio"
	"io"
)

// Stdio is a Transport over the process's own stdin/stdout, one
// JSON-RPC frame per line — the shape the original ProcessRequests loop
// assumed implicitly.
type Stdio struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewStdio builds a Stdio transport.
func NewStdio(in io.Reader, out io.Writer) *Stdio {
	return &Stdio{reader: bufio.NewReader(in), writer: out}
}

func (s *Stdio) ReadFrame() ([]byte, error) {
	line, err := s.reader.ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return nil, err
	}
	return line, nil
}

func (s *Stdio) WriteFrame(frame []byte) error {
	if _, err := s.writer.Write(frame); err != nil {
		return err
	}
	_, err := s.writer.Write([]byte("\n"))
	return err
}
