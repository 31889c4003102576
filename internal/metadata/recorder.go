package metadata

import (
	"io"
	"sync"
	"time"

	"github.com/go-logfmt/logfmt"
)

/*
Recorder captures structured pipeline events as logfmt lines.

It must not:
- perform I/O decisions beyond appending to its writer
- affect control flow

Metadata is write-only. No component may read recorded events to influence
fetch, extraction, or caching decisions.
*/

// MetadataSink is the observational port injected into the fetcher, the
// extractor, and the menu service.
type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		errorString string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchURL string,
		httpStatus int,
		duration time.Duration,
		contentHash string,
	)

	RecordCache(key string, outcome CacheOutcome)
}

// Recorder encodes events as one logfmt record per line. Safe for
// concurrent use; records from concurrent callers are not globally ordered.
type Recorder struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

func NewRecorder(out io.Writer) *Recorder {
	return &Recorder{
		out: out,
		now: time.Now,
	}
}

// NewRecorderWithClock creates a Recorder with an injected clock so tests
// can assert on timestamps.
func NewRecorderWithClock(out io.Writer, now func() time.Time) *Recorder {
	return &Recorder{
		out: out,
		now: now,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	pairs := []interface{}{
		"event", "error",
		"ts", observedAt.Format(time.RFC3339),
		"package", packageName,
		"action", action,
		"cause", cause.String(),
		"error", errorString,
	}
	for _, attr := range attrs {
		pairs = append(pairs, string(attr.Key), attr.Value)
	}
	r.emit(pairs)
}

func (r *Recorder) RecordFetch(
	fetchURL string,
	httpStatus int,
	duration time.Duration,
	contentHash string,
) {
	r.emit([]interface{}{
		"event", "fetch",
		"ts", r.now().Format(time.RFC3339),
		"url", fetchURL,
		"http_status", httpStatus,
		"duration_ms", duration.Milliseconds(),
		"content_hash", contentHash,
	})
}

func (r *Recorder) RecordCache(key string, outcome CacheOutcome) {
	r.emit([]interface{}{
		"event", "cache",
		"ts", r.now().Format(time.RFC3339),
		"cache_key", key,
		"outcome", string(outcome),
	})
}

func (r *Recorder) emit(pairs []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	enc := logfmt.NewEncoder(r.out)
	// Encoding failures are swallowed: metadata must never fail a request.
	_ = enc.EncodeKeyvals(pairs...)
	_ = enc.EndRecord()
}

// NoopSink implements MetadataSink but records nothing. Callers (or tests)
// decide whether to inject Recorder or NoopSink; the purpose is to keep
// metadata orthogonal.
type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchURL string,
	httpStatus int,
	duration time.Duration,
	contentHash string,
) {
}

func (n *NoopSink) RecordCache(key string, outcome CacheOutcome) {}
