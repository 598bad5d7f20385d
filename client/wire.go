package client

import (
	"errors"

	"logcabin/client/clientpb"
)

// WireVersion is the only client wire version this engine speaks.
const WireVersion uint8 = 1

// ErrMalformedFrame is returned by DecodeResponse when buf is shorter
// than a response header.
var ErrMalformedFrame = errors.New("client: malformed response frame")

// EncodeRequest lays out a request frame: [version:u8][op_code:u8]
// followed by the opaque payload. It never fails; version and op_code
// are always representable in one byte each.
func EncodeRequest(version uint8, opCode clientpb.OpCode, payload []byte) []byte {
	buf := make([]byte, 2+len(payload))
	buf[0] = version
	buf[1] = uint8(opCode)
	copy(buf[2:], payload)
	return buf
}

// DecodeResponse reads the status byte off the front of buf and
// returns it along with the remaining payload bytes. Unknown status
// byte values are passed through unchanged; classifying them as fatal
// is the caller's job (C8's policy lives in LeaderRPC, not here).
func DecodeResponse(buf []byte) (Status, []byte, error) {
	if len(buf) < 1 {
		return 0, nil, ErrMalformedFrame
	}
	return Status(buf[0]), buf[1:], nil
}
