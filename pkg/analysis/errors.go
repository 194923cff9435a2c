package analysis

import "sync"

// ErrorKind classifies a recoverable pipeline problem.
type ErrorKind string

const (
	ErrScan       ErrorKind = "scan"       // traversal failure, file skipped
	ErrExtraction ErrorKind = "extraction" // file unreadable or unparseable
	ErrSafety     ErrorKind = "safety"     // rejected by the safety validator
)

// ErrorEntry is one recoverable problem from a run.
type ErrorEntry struct {
	Kind    ErrorKind `json:"kind"`
	Path    string    `json:"path"`
	Message string    `json:"message"`
}

// ErrorLog accumulates recoverable problems. Nothing in it is fatal;
// the log is exposed on the result so callers see everything that was
// skipped.
type ErrorLog struct {
	mu      sync.Mutex
	entries []ErrorEntry
}

// Add records one problem.
func (l *ErrorLog) Add(kind ErrorKind, path, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, ErrorEntry{Kind: kind, Path: path, Message: message})
}

// Entries returns a copy of the accumulated problems in order.
func (l *ErrorLog) Entries() []ErrorEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ErrorEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of accumulated problems.
func (l *ErrorLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
