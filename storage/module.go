package storage

import (
	"context"
	"sync"

	"github.com/google/btree"

	"logcabin/pkg/scheduleutil"
	"logcabin/pkg/xlog"
)

var logger = xlog.NewLogger("storage", xlog.INFO)

// logItem adapts a *Log into a btree.Item ordered by log ID, giving
// Module a directory that enumerates in ascending ID order without a
// separate sort pass in GetLogs.
type logItem struct {
	id  uint64
	log *Log
}

func (a *logItem) Less(than btree.Item) bool {
	return a.id < than.(*logItem).id
}

// Module is a directory of Logs keyed by log ID. The module holds the
// one strong handle to each Log; callers that obtained a *Log keep a
// shared reference that remains valid (and readable) even after the
// log is removed from the directory.
type Module struct {
	mu   sync.Mutex
	logs *btree.BTree

	deletes scheduleutil.Scheduler
}

// NewModule returns an empty storage module.
func NewModule() *Module {
	return &Module{
		logs:    btree.New(32),
		deletes: scheduleutil.NewSchedulerFIFO(),
	}
}

// CreateLog creates a log with the given ID, or returns the existing
// log if one with that ID is already present.
func (m *Module) CreateLog(logID uint64) *Log {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing := m.logs.Get(&logItem{id: logID}); existing != nil {
		return existing.(*logItem).log
	}

	l := NewLog(logID)
	m.logs.ReplaceOrInsert(&logItem{id: logID, log: l})
	return l
}

// GetLogs returns a snapshot of all logs currently in the directory,
// in ascending log ID order.
func (m *Module) GetLogs() []*Log {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Log, 0, m.logs.Len())
	m.logs.Ascend(func(i btree.Item) bool {
		out = append(out, i.(*logItem).log)
		return true
	})
	return out
}

// DeleteLog removes the log with the given ID from the directory, if
// present, and invokes callback.Deleted(logID) once complete -- even
// if no such log existed. The removal is scheduled on the module's
// own FIFO worker so the caller of DeleteLog is never blocked on it,
// matching the "asynchronous with respect to the caller" contract;
// by the time the callback fires, a concurrent GetLogs is guaranteed
// not to return the deleted log.
func (m *Module) DeleteLog(logID uint64, callback DeleteCallback) {
	m.deletes.Schedule(func(_ context.Context) {
		m.mu.Lock()
		m.logs.Delete(&logItem{id: logID})
		m.mu.Unlock()

		logger.Debugf("deleted log %d", logID)

		if callback != nil {
			callback.Deleted(logID)
		}
	})
}

// Close stops the module's background delete worker, waiting for any
// deletions already scheduled to finish first.
func (m *Module) Close() {
	m.deletes.Stop()
}
