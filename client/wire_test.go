package client

import (
	"testing"

	"logcabin/client/clientpb"
)

func TestEncodeRequest(t *testing.T) {
	buf := EncodeRequest(WireVersion, clientpb.OpOpenSession, []byte("payload"))
	if buf[0] != WireVersion {
		t.Fatalf("version byte = %d, want %d", buf[0], WireVersion)
	}
	if buf[1] != byte(clientpb.OpOpenSession) {
		t.Fatalf("op_code byte = %d, want %d", buf[1], byte(clientpb.OpOpenSession))
	}
	if string(buf[2:]) != "payload" {
		t.Fatalf("payload = %q, want %q", buf[2:], "payload")
	}
}

func TestDecodeResponse(t *testing.T) {
	status, remainder, err := DecodeResponse([]byte{byte(StatusNotLeader), 'h', 'i'})
	if err != nil {
		t.Fatal(err)
	}
	if status != StatusNotLeader {
		t.Fatalf("status = %v, want %v", status, StatusNotLeader)
	}
	if string(remainder) != "hi" {
		t.Fatalf("remainder = %q, want %q", remainder, "hi")
	}
}

func TestDecodeResponseMalformed(t *testing.T) {
	if _, _, err := DecodeResponse(nil); err != ErrMalformedFrame {
		t.Fatalf("err = %v, want %v", err, ErrMalformedFrame)
	}
}
