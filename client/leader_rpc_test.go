package client

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"logcabin/client/clientpb"
	"logcabin/pkg/netutil"
	"logcabin/pkg/scheduleutil"
	"logcabin/pkg/types"
)

func testConfig(seeds ...types.Address) Config {
	return Config{
		SeedList:    seeds,
		DialTimeout: 200 * time.Millisecond,
		BackoffMin:  time.Millisecond,
		BackoffMax:  10 * time.Millisecond,
	}
}

// expectPanicContains runs fn and requires it to panic with a message
// containing substr, recovering the panic directly so the test process
// itself never dies -- mirroring how logger.Panicf's CRITICAL-then-panic
// idiom is exercised elsewhere in this codebase's tests.
func expectPanicContains(t *testing.T, substr string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q, got no panic", substr)
		}
		msg := fmt.Sprint(r)
		if !strings.Contains(msg, substr) {
			t.Fatalf("panic message %q does not contain %q", msg, substr)
		}
	}()
	fn()
}

// waitForRequests polls srv's recorder until it has logged at least n
// accepted request frames or timeout elapses.
func waitForRequests(t *testing.T, r scheduleutil.Recorder, n int, timeout time.Duration) []scheduleutil.Action {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		acts, err := r.Wait(n)
		if err == nil {
			return acts
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d requests: %v", n, err)
		}
	}
}

func TestCallHappyPath(t *testing.T) {
	srv := newMockServer(t)
	defer srv.close()

	resp := &clientpb.GetSupportedRPCVersionsResponse{MinVersion: 1, MaxVersion: 1}
	body, err := resp.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	srv.expect(StatusOK, body)

	rpc := NewLeaderRPC(testConfig(srv.addr))
	req := &clientpb.GetSupportedRPCVersionsRequest{}
	got := &clientpb.GetSupportedRPCVersionsResponse{}
	if err := rpc.Call(clientpb.OpGetSupportedRPCVersions, req, got); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got.MinVersion != 1 || got.MaxVersion != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestCallServerClosesThenServes(t *testing.T) {
	srv := newMockServer(t)
	defer srv.close()

	// First connection: server accepts, decodes the frame, then hangs
	// up without replying. Second connection: it actually answers.
	srv.expectClose()
	resp := &clientpb.GetSupportedRPCVersionsResponse{MinVersion: 1, MaxVersion: 1}
	body, _ := resp.Marshal()
	srv.expect(StatusOK, body)

	rpc := NewLeaderRPC(testConfig(srv.addr))
	req := &clientpb.GetSupportedRPCVersionsRequest{}
	got := &clientpb.GetSupportedRPCVersionsResponse{}
	if err := rpc.Call(clientpb.OpGetSupportedRPCVersions, req, got); err != nil {
		t.Fatalf("Call: %v", err)
	}
}

func TestCallOKUnparseableBody(t *testing.T) {
	srv := newMockServer(t)
	defer srv.close()

	// A GetConfigurationResponse needs at least 12 bytes (an 8-byte
	// configuration ID and a 4-byte server count); one byte can never parse.
	srv.expect(StatusOK, []byte{0xff})

	rpc := NewLeaderRPC(testConfig(srv.addr))
	req := &clientpb.GetConfigurationRequest{}
	got := &clientpb.GetConfigurationResponse{}
	expectPanicContains(t, "Could not parse server response", func() {
		rpc.Call(clientpb.OpGetConfiguration, req, got)
	})
}

func TestCallInvalidVersion(t *testing.T) {
	srv := newMockServer(t)
	defer srv.close()
	srv.expect(StatusInvalidVersion, nil)

	rpc := NewLeaderRPC(testConfig(srv.addr))
	req := &clientpb.GetSupportedRPCVersionsRequest{}
	got := &clientpb.GetSupportedRPCVersionsResponse{}
	expectPanicContains(t, "client is too old", func() {
		rpc.Call(clientpb.OpGetSupportedRPCVersions, req, got)
	})
}

func TestCallInvalidRequest(t *testing.T) {
	srv := newMockServer(t)
	defer srv.close()
	srv.expect(StatusInvalidRequest, nil)

	rpc := NewLeaderRPC(testConfig(srv.addr))
	req := &clientpb.GetSupportedRPCVersionsRequest{}
	got := &clientpb.GetSupportedRPCVersionsResponse{}
	expectPanicContains(t, "request", func() {
		rpc.Call(clientpb.OpGetSupportedRPCVersions, req, got)
	})
}

func TestCallUnknownStatus(t *testing.T) {
	srv := newMockServer(t)
	defer srv.close()
	srv.expect(Status(200), nil)

	rpc := NewLeaderRPC(testConfig(srv.addr))
	req := &clientpb.GetSupportedRPCVersionsRequest{}
	got := &clientpb.GetSupportedRPCVersionsResponse{}
	expectPanicContains(t, "Unknown status 200", func() {
		rpc.Call(clientpb.OpGetSupportedRPCVersions, req, got)
	})
}

func TestCallSessionExpired(t *testing.T) {
	srv := newMockServer(t)
	defer srv.close()
	srv.expect(StatusSessionExpired, nil)

	rpc := NewLeaderRPC(testConfig(srv.addr))
	req := &clientpb.GetSupportedRPCVersionsRequest{}
	got := &clientpb.GetSupportedRPCVersionsResponse{}
	err := rpc.Call(clientpb.OpGetSupportedRPCVersions, req, got)
	if _, ok := err.(ErrSessionExpired); !ok {
		t.Fatalf("err = %v (%T), want ErrSessionExpired", err, err)
	}
}

// TestCallHintConnectFailureEviction exercises a hint that resolves but
// refuses connections: it gets exactly one dial attempt, that attempt
// fails, the hint is evicted, and the engine falls back to the seed
// list and succeeds. This is distinct from a "sucky" hint (S6, below):
// deadAddr here is a live, resolvable, nonzero-port address that is
// simply not listening -- it is IsUsable() per pkg/types.Address, so
// LeaderRPC does attempt to dial it before giving up on it.
func TestCallHintConnectFailureEviction(t *testing.T) {
	srv := newMockServer(t)
	defer srv.close()

	deadPorts, err := netutil.GetFreeTCPPorts(1)
	if err != nil {
		t.Fatal(err)
	}
	deadAddr := types.MustNewAddress(fmt.Sprintf("127.0.0.1:%d", deadPorts[0]))

	srv.expect(StatusNotLeader, clientpb.EncodeNotLeaderHint(""))
	srv.expect(StatusNotLeader, clientpb.EncodeNotLeaderHint(deadAddr.String()))
	resp := &clientpb.GetSupportedRPCVersionsResponse{MinVersion: 1, MaxVersion: 1}
	body, _ := resp.Marshal()
	srv.expect(StatusOK, body)

	rpc := NewLeaderRPC(testConfig(srv.addr))
	req := &clientpb.GetSupportedRPCVersionsRequest{}
	got := &clientpb.GetSupportedRPCVersionsResponse{}
	if err := rpc.Call(clientpb.OpGetSupportedRPCVersions, req, got); err != nil {
		t.Fatalf("Call: %v", err)
	}
}

// TestCallLeaderHintDance is spec.md's literal S6: an empty-hint
// NOT_LEADER falls through to the seed list, then a genuinely sucky
// hint -- "127.0.0.1:0", port zero, which pkg/types.Address.IsUsable
// rejects outright -- is ignored without ever being dialed, so the
// engine falls through to the seed list again and succeeds. All three
// requests land on srv; the sucky hint address is never contacted.
func TestCallLeaderHintDance(t *testing.T) {
	srv := newMockServer(t)
	defer srv.close()

	suckyHint := "127.0.0.1:0"
	if addr, err := types.NewAddress(suckyHint); err != nil || addr.IsUsable() {
		t.Fatalf("test fixture %q is not actually sucky (err=%v, usable=%v)", suckyHint, err, addr.IsUsable())
	}

	srv.expect(StatusNotLeader, clientpb.EncodeNotLeaderHint(""))
	srv.expect(StatusNotLeader, clientpb.EncodeNotLeaderHint(suckyHint))
	resp := &clientpb.GetSupportedRPCVersionsResponse{MinVersion: 1, MaxVersion: 1}
	body, _ := resp.Marshal()
	srv.expect(StatusOK, body)

	rpc := NewLeaderRPC(testConfig(srv.addr))
	req := &clientpb.GetSupportedRPCVersionsRequest{}
	got := &clientpb.GetSupportedRPCVersionsResponse{}
	if err := rpc.Call(clientpb.OpGetSupportedRPCVersions, req, got); err != nil {
		t.Fatalf("Call: %v", err)
	}

	acts := waitForRequests(t, srv.recorder, 3, time.Second)
	if len(acts) != 3 {
		t.Fatalf("srv recorded %d requests, want exactly 3 (the sucky hint must never be dialed)", len(acts))
	}
}

// TestCallConnectFailureRoundRobin verifies a dead seed is skipped in
// favor of the next seed without the caller ever seeing an error.
func TestCallConnectFailureRoundRobin(t *testing.T) {
	deadPorts, err := netutil.GetFreeTCPPorts(1)
	if err != nil {
		t.Fatal(err)
	}
	deadAddr := types.MustNewAddress(fmt.Sprintf("127.0.0.1:%d", deadPorts[0]))

	srv := newMockServer(t)
	defer srv.close()
	resp := &clientpb.GetSupportedRPCVersionsResponse{MinVersion: 1, MaxVersion: 1}
	body, _ := resp.Marshal()
	srv.expect(StatusOK, body)

	rpc := NewLeaderRPC(testConfig(deadAddr, srv.addr))
	req := &clientpb.GetSupportedRPCVersionsRequest{}
	got := &clientpb.GetSupportedRPCVersionsResponse{}
	if err := rpc.Call(clientpb.OpGetSupportedRPCVersions, req, got); err != nil {
		t.Fatalf("Call: %v", err)
	}
}
