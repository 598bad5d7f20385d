package storage

import "sync"

// Log is one append-only sequence of entries identified by a log ID.
// It is created by a Module's CreateLog and destroyed only by the
// Module's DeleteLog; callers otherwise hold shared references to it.
//
// Append, GetLastID and ReadFrom on the same Log all take one
// exclusive mutex, so they run one at a time; concurrent reads of one
// Log do not overlap with each other either. Entries themselves are immutable once
// appended, so a returned Entry needs no further synchronization.
type Log struct {
	mu      sync.Mutex
	id      uint64
	entries []Entry
}

// NewLog returns an empty log with the given ID. Storage modules use
// this to satisfy CreateLog; callers should not construct a Log
// directly outside of a Module.
func NewLog(id uint64) *Log {
	return &Log{id: id}
}

// GetLogID returns the log's ID.
func (l *Log) GetLogID() uint64 {
	return l.id
}

// GetLastID returns the highest entry ID appended so far, or
// NoEntryID if the log is empty.
func (l *Log) GetLastID() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastID()
}

func (l *Log) lastID() uint64 {
	if len(l.entries) == 0 {
		return NoEntryID
	}
	return l.entries[len(l.entries)-1].EntryID
}

// Append assigns entry a LogID and the next dense EntryID, stores a
// copy, and invokes callback.Appended with that copy before
// returning. For this in-memory log the append is effectively
// synchronous, but callers must still treat the callback as the
// signal of durability, not the return of Append itself.
func (l *Log) Append(entry Entry, callback AppendCallback) Entry {
	l.mu.Lock()

	entry.LogID = l.id
	if last := l.lastID(); last == NoEntryID {
		entry.EntryID = 0
	} else {
		entry.EntryID = last + 1
	}

	stored := entry.copy()
	l.entries = append(l.entries, stored)

	l.mu.Unlock()

	result := stored.copy()
	if callback != nil {
		callback.Appended(result)
	}
	return result
}

// ReadFrom returns a snapshot of all entries with EntryID >= firstID,
// in ascending order. Returns an empty slice if firstID exceeds the
// last entry ID. Never fails.
func (l *Log) ReadFrom(firstID uint64) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	// entries are stored in dense, ascending EntryID order starting at 0,
	// so firstID is also a direct slice offset when in range.
	if firstID >= uint64(len(l.entries)) {
		return []Entry{}
	}

	out := make([]Entry, len(l.entries)-int(firstID))
	for i, e := range l.entries[firstID:] {
		out[i] = e.copy()
	}
	return out
}
