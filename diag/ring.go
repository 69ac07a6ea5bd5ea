// Package diag implements the bounded diagnostic log ring shared by the bus,
// CPU and PPU. It is the one piece of "global" state those components touch,
// so it is constructed once and injected by pointer rather than reached for
// as a package-level singleton.
package diag

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Entry is a single retained diagnostic record.
type Entry struct {
	Level  logrus.Level
	Fields logrus.Fields
	Msg    string
}

// Ring is an append-only, bounded-capacity log sink. The most recent
// Capacity entries are retained; older entries are dropped silently.
//
// Safe for concurrent use, though the core itself is single-threaded; a
// threaded display sink may still want to read Snapshot concurrently with
// the CPU appending entries.
type Ring struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	logger   *logrus.Logger
}

// NewRing builds a Ring retaining at most capacity entries. Appended entries
// are also forwarded to a logrus.Logger writing to os.Stderr; SetOutput
// redirects it.
func NewRing(capacity int) *Ring {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return &Ring{
		capacity: capacity,
		logger:   logger,
	}
}

// SetOutput redirects the underlying logrus writer (defaults to os.Stderr).
func (r *Ring) SetOutput(w interface {
	Write([]byte) (int, error)
}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger.SetOutput(w)
}

func (r *Ring) append(level logrus.Level, fields logrus.Fields, msg string) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Fields: fields, Msg: msg})
	if len(r.entries) > r.capacity {
		r.entries = r.entries[len(r.entries)-r.capacity:]
	}
	r.mu.Unlock()

	r.logger.WithFields(fields).Log(level, msg)
}

// Infof appends an informational entry, e.g. PPU/APU register writes that
// are logged-only per the memory map.
func (r *Ring) Infof(fields logrus.Fields, format string, args ...any) {
	r.append(logrus.InfoLevel, fields, fmt.Sprintf(format, args...))
}

// Warnf appends a recoverable-but-notable entry (e.g. a write to an
// unmapped address, which is logged but does not halt execution).
func (r *Ring) Warnf(fields logrus.Fields, format string, args ...any) {
	r.append(logrus.WarnLevel, fields, fmt.Sprintf(format, args...))
}

// Fatalf appends a fatal entry and returns the formatted message; it never
// calls os.Exit itself — the caller (CPU, Bus) decides how to surface the
// halt, since the core must stay embeddable in tests.
func (r *Ring) Fatalf(fields logrus.Fields, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	r.append(logrus.FatalLevel, fields, msg)
	return msg
}

// Snapshot returns a copy of the retained entries, oldest first.
func (r *Ring) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
