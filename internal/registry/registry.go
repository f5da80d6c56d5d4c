// Package registry holds the per-session results of a detection pass: which
// files fell into which classification, and the transcript of outcomes.
package registry

import (
	"errors"
	"sync"

	"chanfix/internal/audio"
)

// ErrNotFound is returned by CategoryOf for a file that was never recorded.
var ErrNotFound = errors.New("file not classified")

// Registry maps each classification to the files assigned to it, in
// insertion order. It does not prevent duplicates; callers Clear before
// repopulating. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	files map[audio.Classification][]string
	index map[string]audio.Classification
}

// New returns an empty registry.
func New() *Registry {
	r := &Registry{}
	r.reset()
	return r
}

func (r *Registry) reset() {
	r.files = make(map[audio.Classification][]string, len(audio.All()))
	r.index = make(map[string]audio.Classification)
}

// Clear drops every recorded file.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
}

// Record appends path under c.
func (r *Registry) Record(path string, c audio.Classification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[c] = append(r.files[c], path)
	r.index[path] = c
}

// CategoryOf returns the classification recorded for path.
func (r *Registry) CategoryOf(path string) (audio.Classification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.index[path]
	if !ok {
		return 0, ErrNotFound
	}
	return c, nil
}

// FilesIn returns a copy of the files recorded under the given
// classifications, category by category in argument order.
func (r *Registry) FilesIn(cs ...audio.Classification) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, c := range cs {
		out = append(out, r.files[c]...)
	}
	return out
}

// Counts returns the number of files per classification. All four
// classifications are present, zero when empty.
func (r *Registry) Counts() map[audio.Classification]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[audio.Classification]int, len(audio.All()))
	for _, c := range audio.All() {
		counts[c] = len(r.files[c])
	}
	return counts
}

// Len is the total number of recorded entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, files := range r.files {
		n += len(files)
	}
	return n
}
