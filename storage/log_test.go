package storage

import "testing"

func TestLogConstructor(t *testing.T) {
	log := NewLog(92)
	if got := log.GetLogID(); got != 92 {
		t.Fatalf("GetLogID() = %d, want %d", got, 92)
	}
}

func TestLogGetLastID(t *testing.T) {
	log := NewLog(92)
	if got := log.GetLastID(); got != NoEntryID {
		t.Fatalf("GetLastID() = %d, want NoEntryID", got)
	}

	e1 := Entry{CreateTime: 1, Term: 2, ClusterTime: 3, Payload: []byte("hello")}
	log.Append(e1, nil)
	if got := log.GetLastID(); got != 0 {
		t.Fatalf("GetLastID() = %d, want %d", got, 0)
	}
	log.Append(e1, nil)
	if got := log.GetLastID(); got != 1 {
		t.Fatalf("GetLastID() = %d, want %d", got, 1)
	}
}

func TestLogReadFrom(t *testing.T) {
	log := NewLog(92)
	if got := log.ReadFrom(0); len(got) != 0 {
		t.Fatalf("ReadFrom(0) = %v, want empty", got)
	}
	if got := log.ReadFrom(12); len(got) != 0 {
		t.Fatalf("ReadFrom(12) = %v, want empty", got)
	}

	log.Append(Entry{CreateTime: 1, Term: 2, ClusterTime: 3, Payload: []byte("hello")}, nil)
	log.Append(Entry{CreateTime: 4, Term: 5, ClusterTime: 6, Payload: []byte("world!")}, nil)

	got := eStr(log.ReadFrom(0))
	want := []string{"(92, 0) 'hello'", "(92, 1) 'world!'"}
	if !equalStrings(got, want) {
		t.Fatalf("ReadFrom(0) = %v, want %v", got, want)
	}

	got = eStr(log.ReadFrom(1))
	want = []string{"(92, 1) 'world!'"}
	if !equalStrings(got, want) {
		t.Fatalf("ReadFrom(1) = %v, want %v", got, want)
	}

	if got := log.ReadFrom(2); len(got) != 0 {
		t.Fatalf("ReadFrom(2) = %v, want empty", got)
	}
}

func TestLogAppend(t *testing.T) {
	log := NewLog(92)

	var lastAppended Entry
	cb := AppendCallbackFunc(func(e Entry) { lastAppended = e })

	e1 := Entry{CreateTime: 1, Term: 2, ClusterTime: 3, Payload: []byte("hello"), Invalidations: []uint64{4, 5}}
	result := log.Append(e1, cb)
	if result.LogID != 92 {
		t.Fatalf("LogID = %d, want %d", result.LogID, 92)
	}
	if result.EntryID != 0 {
		t.Fatalf("EntryID = %d, want %d", result.EntryID, 0)
	}
	if got, want := lastAppended.String(), "(92, 0) 'hello' [inv 4, 5]"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	e2 := Entry{CreateTime: 1, Term: 2, ClusterTime: 3, Payload: []byte("goodbye"), Invalidations: []uint64{4, 5}}
	result2 := log.Append(e2, cb)
	if result2.EntryID != 1 {
		t.Fatalf("EntryID = %d, want %d", result2.EntryID, 1)
	}
}

func eStr(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
