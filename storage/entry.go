// Package storage implements the in-memory replicated-log storage
// substrate: per-log append sequences grouped under a directory of
// logs keyed by log ID.
package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// NoEntryID is the sentinel GetLastID returns for a log with no entries.
const NoEntryID = ^uint64(0)

// Entry is an immutable record within a Log. LogID and EntryID are
// assigned by the log on Append; the rest is caller-supplied and
// opaque to the log.
type Entry struct {
	LogID   uint64
	EntryID uint64

	// CreateTime, Term and ClusterTime are a caller-supplied triple
	// preserved verbatim; the log never interprets them.
	CreateTime  uint32
	Term        uint32
	ClusterTime uint32

	Payload []byte

	// Invalidations lists entry IDs, within the same log, that this
	// entry supersedes. May be empty.
	Invalidations []uint64
}

// String renders the entry as "(log_id, entry_id) 'payload'", with a
// " [inv id, id, ...]" suffix when Invalidations is nonempty.
func (e Entry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "(%d, %d) '%s'", e.LogID, e.EntryID, e.Payload)
	if len(e.Invalidations) > 0 {
		b.WriteString(" [inv ")
		for i, id := range e.Invalidations {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.FormatUint(id, 10))
		}
		b.WriteString("]")
	}
	return b.String()
}

// copy returns a value copy of e with its own backing arrays, so the
// log's stored entry is never aliased with anything the caller keeps.
func (e Entry) copy() Entry {
	out := e
	if e.Payload != nil {
		out.Payload = append([]byte(nil), e.Payload...)
	}
	if e.Invalidations != nil {
		out.Invalidations = append([]uint64(nil), e.Invalidations...)
	}
	return out
}
