package client

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"logcabin/client/clientpb"
	"logcabin/pkg/idutil"
	"logcabin/pkg/probing"
	"logcabin/pkg/scheduleutil"
	"logcabin/pkg/types"
	"logcabin/pkg/xlog"
)

var logger = xlog.NewLogger("client", xlog.INFO)

// Config configures a LeaderRPC engine.
type Config struct {
	// SeedList is the statically configured set of candidate server
	// addresses used to bootstrap leader discovery. Must be nonempty.
	SeedList []types.Address

	// DialTimeout bounds a single connection attempt.
	DialTimeout time.Duration

	// BackoffMin and BackoffMax bound the delay applied between
	// retries of a lost connection or a NOT_LEADER redirect.
	BackoffMin time.Duration
	BackoffMax time.Duration

	// RetryWarnThreshold is how long may pass between two successful
	// Calls to the same endpoint before the later Call logs a WARN.
	// Diagnostic only; it never affects Call's blocking contract.
	RetryWarnThreshold time.Duration
}

func (c Config) withDefaults() Config {
	if c.DialTimeout == 0 {
		c.DialTimeout = 3 * time.Second
	}
	if c.BackoffMin == 0 {
		c.BackoffMin = 10 * time.Millisecond
	}
	if c.BackoffMax == 0 {
		c.BackoffMax = time.Second
	}
	if c.RetryWarnThreshold == 0 {
		c.RetryWarnThreshold = 2 * time.Second
	}
	return c
}

// LeaderRPC routes RPCs to whichever cluster member currently claims
// to be leader (C3), masking leadership changes, transient connection
// loss, and NOT_LEADER redirects behind a single blocking Call.
//
// The zero value is not usable; construct with NewLeaderRPC.
type LeaderRPC struct {
	config Config

	mu           sync.Mutex
	seedIdx      int
	haveLeader   bool
	leader       types.Address
	leaderIsHint bool
	session      *Session

	ids     *idutil.Generator
	prober  probing.Prober
	timeout *scheduleutil.TimeoutDetector
}

// NewLeaderRPC returns a LeaderRPC that starts probing from config's
// seed list. The probable leader begins as unknown; the first Call
// resolves it by trying the seed list in order.
func NewLeaderRPC(config Config) *LeaderRPC {
	config = config.withDefaults()
	if len(config.SeedList) == 0 {
		panic("client: NewLeaderRPC requires a nonempty seed list")
	}

	return &LeaderRPC{
		config:  config,
		ids:     idutil.NewGenerator(0, time.Now()),
		prober:  probing.NewProber(),
		timeout: scheduleutil.NewTimeoutDetector(config.RetryWarnThreshold),
	}
}

// Call sends request to whichever server is currently leader, decodes
// a successful reply into response, and returns nil. It blocks the
// calling goroutine until the cluster answers: connection loss and
// NOT_LEADER redirects are retried indefinitely with backoff, and are
// never surfaced to the caller. SESSION_EXPIRED is returned as
// ErrSessionExpired since session lifecycle is a layer above this
// engine. Any other protocol violation -- an unparseable OK body,
// INVALID_VERSION, INVALID_REQUEST, or an unrecognized status byte --
// is fatal: it logs at CRITICAL and panics with a diagnostic, matching
// the "terminate the process" contract while staying observable to a
// test that recovers the panic.
func (c *LeaderRPC) Call(opCode clientpb.OpCode, request clientpb.Message, response clientpb.Message) error {
	traceID := c.ids.Next()

	payload, err := request.Marshal()
	if err != nil {
		logger.Panicf("trace %x: could not marshal request for op %s: %v", traceID, opCode, err)
	}
	encoded := EncodeRequest(WireVersion, opCode, payload)

	back := newBackoff(c.config.BackoffMin, c.config.BackoffMax)

	for attempt := 1; ; attempt++ {
		sess, endpoint := c.getSession(back)

		raw, sendErr := sess.Send(encoded)
		if sendErr != nil {
			logger.Debugf("trace %x: attempt %d to %s: %v, retrying", traceID, attempt, endpoint, sendErr)
			c.discardSession(true)
			back.wait()
			continue
		}

		status, body, decodeErr := DecodeResponse(raw)
		if decodeErr != nil {
			logger.Panicf("trace %x: Could not parse server response: %v", traceID, decodeErr)
		}

		switch status {
		case StatusOK:
			if err := response.Unmarshal(body); err != nil {
				logger.Panicf("trace %x: Could not parse server response: %v", traceID, err)
			}
			c.onSuccess(endpoint)
			if exceeded := c.observeRetryDelay(endpoint); exceeded > 0 {
				logger.Warningf("trace %x: call to %s (op %s) returned after an unusually long %v since the last success", traceID, endpoint, opCode, exceeded)
			}
			return nil

		case StatusInvalidVersion:
			logger.Panicf("trace %x: client is too old for %s (op %s, wire version %d)", traceID, endpoint, opCode, WireVersion)

		case StatusInvalidRequest:
			logger.Panicf("trace %x: request (op %s) invalid according to %s", traceID, opCode, endpoint)

		case StatusNotLeader:
			hint := clientpb.DecodeNotLeaderHint(body)
			logger.Debugf("trace %x: %s is not leader, hint=%q", traceID, endpoint, hint)
			c.handleNotLeader(hint)
			back.wait()

		case StatusSessionExpired:
			return ErrSessionExpired{}

		default:
			logger.Panicf("trace %x: Unknown status %d from %s", traceID, uint8(status), endpoint)
		}
	}
}

// Status reports round-trip health toward the current probable
// leader, as sampled by EnableProbing. It never blocks and is purely
// diagnostic; ErrNotFound is returned if EnableProbing was never
// called for the current leader.
func (c *LeaderRPC) Status() (probing.Status, error) {
	c.mu.Lock()
	leader := c.leader
	c.mu.Unlock()
	return c.prober.Status(leader.String())
}

// EnableProbing starts periodically pinging the current probable
// leader with a lightweight GET_SUPPORTED_RPC_VERSIONS request, so
// Status can report SRTT and reachability without a caller needing to
// poll Call itself. A Call must have already succeeded at least once
// so the engine knows which endpoint to probe.
func (c *LeaderRPC) EnableProbing(interval time.Duration) error {
	c.mu.Lock()
	if !c.haveLeader {
		c.mu.Unlock()
		return fmt.Errorf("client: EnableProbing requires a known leader; call Call at least once first")
	}
	leader := c.leader
	c.mu.Unlock()

	return c.prober.Add(leader.String(), interval, func() (time.Duration, error) {
		sess, err := OpenSession(leader, c.config.DialTimeout)
		if err != nil {
			return 0, err
		}
		defer sess.Close()

		req := &clientpb.GetSupportedRPCVersionsRequest{}
		payload, _ := req.Marshal()

		start := time.Now()
		if _, err := sess.Send(EncodeRequest(WireVersion, clientpb.OpGetSupportedRPCVersions, payload)); err != nil {
			return 0, err
		}
		return time.Since(start), nil
	})
}

// getSession returns an open session to the current candidate
// endpoint, blocking and applying back across attempts until one
// connects. Network I/O happens with the lock released; only the
// cached state is read and written under it.
func (c *LeaderRPC) getSession(back *backoff) (*Session, types.Address) {
	for {
		c.mu.Lock()
		if c.session != nil {
			sess, leader := c.session, c.leader
			c.mu.Unlock()
			return sess, leader
		}
		candidate, fromHint := c.nextCandidateLocked()
		c.mu.Unlock()

		sess, err := OpenSession(candidate, c.config.DialTimeout)
		if err != nil {
			logger.Debugf("connect to %s failed: %v", candidate, err)
			if fromHint {
				c.evictHint()
			}
			back.wait()
			continue
		}

		back.reset()
		c.mu.Lock()
		c.leader, c.leaderIsHint, c.haveLeader, c.session = candidate, fromHint, true, sess
		c.mu.Unlock()
		return sess, candidate
	}
}

// nextCandidateLocked picks the next address to try connecting to:
// the cached probable leader if one is known and usable, otherwise
// the next seed in round-robin order. Callers hold c.mu.
func (c *LeaderRPC) nextCandidateLocked() (types.Address, bool) {
	if c.haveLeader && c.leader.IsUsable() {
		return c.leader, c.leaderIsHint
	}
	addr := c.config.SeedList[c.seedIdx]
	c.seedIdx = (c.seedIdx + 1) % len(c.config.SeedList)
	return addr, false
}

// discardSession closes and forgets the current session, since it is
// either broken or about to be replaced by a connection to a
// different endpoint. If evictIfHint is set and the current leader
// came from an unconfirmed NOT_LEADER hint, it is evicted too: a hint
// gets at most one attempt before the engine falls back to the seed
// list.
func (c *LeaderRPC) discardSession(evictIfHint bool) {
	c.mu.Lock()
	if c.session != nil {
		c.session.Close()
		c.session = nil
	}
	if evictIfHint {
		c.evictHintLocked()
	}
	c.mu.Unlock()
}

func (c *LeaderRPC) evictHint() {
	c.mu.Lock()
	c.evictHintLocked()
	c.mu.Unlock()
}

func (c *LeaderRPC) evictHintLocked() {
	if c.leaderIsHint {
		c.haveLeader = false
		c.leaderIsHint = false
	}
}

// onSuccess records endpoint as the confirmed leader after a
// successful OK reply.
func (c *LeaderRPC) onSuccess(endpoint types.Address) {
	c.mu.Lock()
	c.leader, c.leaderIsHint, c.haveLeader = endpoint, false, true
	c.mu.Unlock()
}

// handleNotLeader applies a NOT_LEADER reply's advisory hint. A
// usable hint becomes the new candidate leader for exactly one
// attempt; an empty or sucky hint evicts the cache outright so the
// next attempt falls through to the seed list. Either way the current
// session is discarded: it is a connection to a server that just told
// us it isn't leader.
func (c *LeaderRPC) handleNotLeader(hint string) {
	c.discardSession(false)

	if hint != "" {
		if addr, err := types.NewAddress(hint); err == nil && addr.IsUsable() {
			c.mu.Lock()
			c.leader, c.leaderIsHint, c.haveLeader = addr, true, true
			c.mu.Unlock()
			return
		}
		logger.Debugf("ignoring sucky NOT_LEADER hint %q", hint)
	}

	c.mu.Lock()
	c.haveLeader = false
	c.leaderIsHint = false
	c.mu.Unlock()
}

// observeRetryDelay reports how much longer than RetryWarnThreshold
// has elapsed since the last successful call to endpoint, or zero if
// within bounds or this is the first success. It is bounded by the
// number of distinct endpoints ever contacted, not by call volume.
func (c *LeaderRPC) observeRetryDelay(endpoint types.Address) time.Duration {
	_, exceeded := c.timeout.Observe(endpointKey(endpoint))
	if exceeded <= 0 {
		return 0
	}
	return exceeded
}

func endpointKey(a types.Address) uint64 {
	h := fnv.New64a()
	h.Write([]byte(a.String()))
	return h.Sum64()
}
