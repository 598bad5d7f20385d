// Package clientpb defines the request and response message types
// carried inside the client wire protocol's payload, along with
// hand-written big-endian marshaling for each -- there is no
// protobuf or gob dependency anywhere in the retrieved corpus for
// this kind of framing, so messages marshal themselves the same way
// the teacher's raftpb package does (encoding/binary, big-endian).
package clientpb

import (
	"encoding/binary"
	"errors"
)

// ErrShortBuffer is returned by Unmarshal when the input ends before
// a length-prefixed field or fixed-width field is fully present.
var ErrShortBuffer = errors.New("clientpb: buffer too short")

// Message is any request or response payload defined in this package.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

// writer accumulates the bytes of a Marshal implementation.
type writer struct {
	buf []byte
}

func (w *writer) putUint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) putUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) putUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) putUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// putBytes writes a uint32 length prefix followed by b.
func (w *writer) putBytes(b []byte) {
	w.putUint32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *writer) putString(s string) {
	w.putBytes([]byte(s))
}

// reader consumes the bytes of an Unmarshal implementation.
type reader struct {
	buf []byte
}

func (r *reader) uint8() (uint8, error) {
	if len(r.buf) < 1 {
		return 0, ErrShortBuffer
	}
	v := r.buf[0]
	r.buf = r.buf[1:]
	return v, nil
}

func (r *reader) uint16() (uint16, error) {
	if len(r.buf) < 2 {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint16(r.buf)
	r.buf = r.buf[2:]
	return v, nil
}

func (r *reader) uint32() (uint32, error) {
	if len(r.buf) < 4 {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint32(r.buf)
	r.buf = r.buf[4:]
	return v, nil
}

func (r *reader) uint64() (uint64, error) {
	if len(r.buf) < 8 {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint64(r.buf)
	r.buf = r.buf[8:]
	return v, nil
}

func (r *reader) bytes() ([]byte, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if uint32(len(r.buf)) < n {
		return nil, ErrShortBuffer
	}
	out := make([]byte, n)
	copy(out, r.buf[:n])
	r.buf = r.buf[n:]
	return out, nil
}

func (r *reader) string() (string, error) {
	b, err := r.bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
