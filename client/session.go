package client

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"logcabin/pkg/types"
)

// ErrClosed is returned by Session.Send when the peer closes the
// connection before a reply arrives. The session becomes unusable
// after this and should be discarded, not retried.
var ErrClosed = errors.New("client: session closed by peer")

// maxFrameSize bounds a single frame's declared length, so a
// corrupt or hostile length prefix cannot force an unbounded
// allocation before the read is even attempted.
const maxFrameSize = 64 << 20

// Session is one connection to one server address (C2). It serializes
// requests internally: at most one Send is outstanding on the
// underlying connection at a time. LeaderRPC hands its one cached
// Session to every concurrent Call, so those Sends run one at a time.
type Session struct {
	mu   sync.Mutex
	conn net.Conn
}

// OpenSession resolves and connects to addr, blocking until the
// connection succeeds, fails, or dialTimeout elapses.
func OpenSession(addr types.Address, dialTimeout time.Duration) (*Session, error) {
	conn, err := net.DialTimeout("tcp", addr.String(), dialTimeout)
	if err != nil {
		return nil, err
	}
	return &Session{conn: conn}, nil
}

// Send writes request as one frame and blocks for the matching
// response frame. If the peer hangs up before replying -- the "server
// accepted the connection but never served it" case -- Send returns
// ErrClosed.
func (s *Session) Send(request []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFrame(s.conn, request); err != nil {
		if isPeerClosed(err) {
			return nil, ErrClosed
		}
		return nil, err
	}

	resp, err := readFrame(s.conn)
	if err != nil {
		if isPeerClosed(err) {
			return nil, ErrClosed
		}
		return nil, err
	}
	return resp, nil
}

// Close releases the underlying connection. The Session must not be
// used afterward.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

func writeFrame(w io.Writer, b []byte) error {
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(b)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}

	n := binary.BigEndian.Uint32(hdr[:])
	if n > maxFrameSize {
		return nil, fmt.Errorf("client: frame size %d exceeds maximum %d", n, maxFrameSize)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// isPeerClosed reports whether err reflects the peer hanging up
// (clean EOF, mid-frame EOF, or a write to an already-closed socket)
// rather than some other transport failure.
func isPeerClosed(err error) bool {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return !opErr.Temporary()
	}
	return false
}
