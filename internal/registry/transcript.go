package registry

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Entry is one line of the transcript: a file and either its outcome or the
// error text that replaced it.
type Entry struct {
	Path    string
	Message string
	Failed  bool
}

// String renders the entry the way it is shown to the user.
func (e Entry) String() string {
	return fmt.Sprintf("%s: %s", filepath.Base(e.Path), e.Message)
}

// Transcript is an append-only log of per-file outcomes for the current
// session. Entries are only dropped by Clear. Safe for concurrent use.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds an entry.
func (t *Transcript) Append(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, e)
}

// Clear drops every entry.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}

// Entries returns a copy of the entries in append order.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.entries...)
}

// Lines renders every entry.
func (t *Transcript) Lines() []string {
	entries := t.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return lines
}

// Failures counts entries marked as failed.
func (t *Transcript) Failures() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.entries {
		if e.Failed {
			n++
		}
	}
	return n
}
