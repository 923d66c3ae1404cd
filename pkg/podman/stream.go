package podman

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Stream is a lazy sequence of JSON objects decoded from a newline- or
// chunk-delimited response body. It is consumed once and cannot be rewound;
// restarting means issuing a new request.
type Stream[T any] struct {
	body    io.ReadCloser
	decoder *json.Decoder
	closed  bool
}

// NewStream wraps an NDJSON body. The stream owns the body and closes it.
func NewStream[T any](body io.ReadCloser) *Stream[T] {
	return &Stream[T]{
		body:    body,
		decoder: json.NewDecoder(body),
	}
}

// Next decodes the next object. It returns io.EOF when the stream ends and
// ErrStreamClosed after Close.
func (s *Stream[T]) Next() (*T, error) {
	if s.closed {
		return nil, ErrStreamClosed
	}

	var item T
	if err := s.decoder.Decode(&item); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("decoding stream frame: %w", err)
	}

	return &item, nil
}

// Close releases the underlying body. Safe to call more than once.
func (s *Stream[T]) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true

	return s.body.Close()
}

// Log streams use the libpod multiplexed frame format: an 8-byte header
// whose first byte selects stdout (1) or stderr (2) and whose last four
// bytes carry the frame length, big endian, including the header.
const (
	logFrameHeaderLen = 8

	logFrameStdout = 1
	logFrameStderr = 2
)

// DemuxLogs reads multiplexed log frames from body and forwards each payload
// to the stdout or stderr channel as a string. Both channels are closed on
// return. Returns nil when the server ends the stream.
func DemuxLogs(body io.Reader, stdout, stderr chan<- string) error {
	defer close(stdout)
	defer close(stderr)

	header := make([]byte, logFrameHeaderLen)

	for {
		if _, err := io.ReadFull(body, header); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}

			return fmt.Errorf("reading log frame header: %w", err)
		}

		stream := header[0]
		size := int(binary.BigEndian.Uint32(header[4:])) - logFrameHeaderLen

		if size < 0 {
			return fmt.Errorf("malformed log frame header: length %d", size+logFrameHeaderLen)
		}

		payload := make([]byte, size)
		if _, err := io.ReadFull(body, payload); err != nil {
			return fmt.Errorf("reading log frame payload: %w", err)
		}

		switch stream {
		case logFrameStdout:
			stdout <- string(payload)
		case logFrameStderr:
			stderr <- string(payload)
		default:
			// Frames on unknown streams are dropped rather than guessed at.
		}
	}
}

// WriteLogFrame encodes one multiplexed log frame. Exported for test servers
// standing in for the service.
func WriteLogFrame(w io.Writer, stderr bool, payload string) error {
	header := make([]byte, logFrameHeaderLen)

	header[0] = logFrameStdout
	if stderr {
		header[0] = logFrameStderr
	}

	binary.BigEndian.PutUint32(header[4:], uint32(len(payload)+logFrameHeaderLen))

	if _, err := w.Write(header); err != nil {
		return err
	}

	_, err := io.WriteString(w, payload)

	return err
}
