// Package auditlog persists one record per inbound HTTP request, plus
// explicit info/warning/error/debug events, into an append-only logs table.
// Recording is fire-and-forget: entries travel through a bounded queue to a
// background writer, so log persistence can never block or fail a
// user-facing request. When the store is down, failures go to the process
// logger only, and when the queue is full, entries are dropped and counted.
package auditlog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Log levels. HTTP entries are produced by the middleware; the rest by the
// explicit helpers.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
	LevelDebug   = "debug"
	LevelHTTP    = "http"
)

// Entry is a single audit record. Append-only; never updated.
type Entry struct {
	Level        string
	Message      string
	Method       string
	Path         string
	StatusCode   int
	ResponseTime int // milliseconds
	IP           string
	UserAgent    string
	UserID       *int
	Error        string
	Stack        string
	Metadata     map[string]interface{}
	CreatedAt    time.Time
}

// LogStore persists audit entries.
type LogStore interface {
	Insert(ctx context.Context, entry *Entry) error
}

// queueSize bounds memory growth when the logging store is unavailable.
const queueSize = 256

// writeTimeout bounds a single insert so a hung store cannot stall the
// writer behind it indefinitely.
const writeTimeout = 5 * time.Second

// Logger is the asynchronous audit logger.
type Logger struct {
	store       LogStore
	diag        *logrus.Logger
	queue       chan *Entry
	wg          sync.WaitGroup
	closeOnce   sync.Once
	dropped     atomic.Uint64
	development bool
}

// New creates a Logger and starts its writer goroutine. diag is the local
// diagnostic channel persistence failures are surfaced to.
func New(store LogStore, diag *logrus.Logger, development bool) *Logger {
	l := &Logger{
		store:       store,
		diag:        diag,
		queue:       make(chan *Entry, queueSize),
		development: development,
	}
	l.wg.Add(1)
	go l.writer()
	return l
}

func (l *Logger) writer() {
	defer l.wg.Done()
	for entry := range l.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := l.store.Insert(ctx, entry)
		cancel()
		if err != nil {
			// Swallowed: a logging failure must never escalate.
			l.diag.WithError(err).Warn("audit log entry not persisted")
		}
	}
}

// Record enqueues an entry. It never blocks and never returns an error; if
// the queue is full the entry is dropped and the drop counted.
func (l *Logger) Record(entry *Entry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	select {
	case l.queue <- entry:
	default:
		dropped := l.dropped.Add(1)
		l.diag.WithField("dropped_total", dropped).Warn("audit log queue full, entry dropped")
	}
}

// Dropped returns the number of entries discarded because the queue was full.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// Close stops accepting entries and drains the queue. Safe to call more
// than once.
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		close(l.queue)
	})
	l.wg.Wait()
}

// Info records an informational event.
func (l *Logger) Info(message string, metadata map[string]interface{}) {
	l.Record(&Entry{Level: LevelInfo, Message: message, Metadata: metadata})
}

// Warning records a warning event.
func (l *Logger) Warning(message string, metadata map[string]interface{}) {
	l.Record(&Entry{Level: LevelWarning, Message: message, Metadata: metadata})
}

// Error records an error event with the error text attached.
func (l *Logger) Error(message string, err error, metadata map[string]interface{}) {
	entry := &Entry{Level: LevelError, Message: message, Metadata: metadata}
	if err != nil {
		entry.Error = err.Error()
	}
	l.Record(entry)
}

// Debug records a debug event. Debug entries are only persisted in
// development mode.
func (l *Logger) Debug(message string, metadata map[string]interface{}) {
	if !l.development {
		return
	}
	l.Record(&Entry{Level: LevelDebug, Message: message, Metadata: metadata})
}
