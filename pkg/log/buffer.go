package log

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// DefaultRingSize is the number of records kept by a [Ring] created with a
// non-positive size.
const DefaultRingSize = 200

// Ring keeps the most recent log records written to it. Each call to Write
// is one record, which matches how [slog.Handler]s write.
//
// Ring is safe for concurrent use, and serves its records as plain text
// over HTTP.
type Ring struct {
	records [][]byte
	next    int
	count   int
	mu      sync.RWMutex
}

// NewRing creates a [Ring] holding up to size records.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = DefaultRingSize
	}

	return &Ring{records: make([][]byte, size)}
}

// Write stores a copy of p, evicting the oldest record when the ring is full.
func (r *Ring) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[r.next] = bytes.Clone(p)
	r.next = (r.next + 1) % len(r.records)
	r.count = min(r.count+1, len(r.records))

	return len(p), nil
}

// Records returns copies of the stored records, oldest first.
func (r *Ring) Records() [][]byte {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([][]byte, 0, r.count)
	start := (r.next - r.count + len(r.records)) % len(r.records)
	for i := range r.count {
		out = append(out, bytes.Clone(r.records[(start+i)%len(r.records)]))
	}

	return out
}

// Len returns the number of stored records.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.count
}

// Reset removes all records.
func (r *Ring) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.records)
	r.next = 0
	r.count = 0
}

// WriteTo writes the stored records to w, oldest first.
func (r *Ring) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, rec := range r.Records() {
		n, err := w.Write(rec)
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("write record: %w", err)
		}
	}

	return total, nil
}

// ServeHTTP writes the stored records as plain text.
func (r *Ring) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = r.WriteTo(w)
}
