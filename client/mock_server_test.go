package client

import (
	"net"
	"testing"

	"logcabin/pkg/scheduleutil"
	"logcabin/pkg/types"
)

// scriptedReply is one canned response the mock server sends for the
// next request frame it accepts, mirroring the original C++ suite's
// MockService.expect() one-reply-per-expectation pattern.
type scriptedReply struct {
	status  Status
	payload []byte
	close   bool // close the connection instead of replying
}

// mockServer is a minimal stand-in for one cluster member: it accepts
// connections, decodes exactly one request frame per connection, and
// replies with whatever was scripted via expect/expectClose, in order.
type mockServer struct {
	addr     types.Address
	listener net.Listener
	replies  chan scriptedReply

	// recorder logs one "request" Action per accepted request frame,
	// so tests can assert how many round trips a scenario took
	// without instrumenting LeaderRPC itself.
	recorder scheduleutil.Recorder
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	addr, err := types.NewAddress(l.Addr().String())
	if err != nil {
		t.Fatalf("address: %v", err)
	}

	m := &mockServer{
		addr:     addr,
		listener: l,
		replies:  make(chan scriptedReply, 16),
		recorder: scheduleutil.NewRecorderBuffered(),
	}
	go m.serve()
	return m
}

func (m *mockServer) expect(status Status, payload []byte) {
	m.replies <- scriptedReply{status: status, payload: payload}
}

func (m *mockServer) expectClose() {
	m.replies <- scriptedReply{close: true}
}

func (m *mockServer) serve() {
	for {
		conn, err := m.listener.Accept()
		if err != nil {
			return
		}
		go m.serveConn(conn)
	}
}

func (m *mockServer) serveConn(conn net.Conn) {
	defer conn.Close()

	req, err := readFrame(conn)
	if err != nil {
		return
	}
	m.recorder.Record(scheduleutil.Action{Name: "request", Parameters: []interface{}{req}})

	reply, ok := <-m.replies
	if !ok || reply.close {
		return
	}

	body := append([]byte{byte(reply.status)}, reply.payload...)
	writeFrame(conn, body)
}

func (m *mockServer) close() {
	m.listener.Close()
	close(m.replies)
}
