package metadata_test

import (
	"strings"
	"testing"
	"time"

	"github.com/rohmanhakim/mensa/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t *testing.T) func() time.Time {
	t.Helper()
	at := time.Date(2024, time.March, 7, 11, 30, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestRecorder_RecordFetch_EmitsLogfmtLine(t *testing.T) {
	var buf strings.Builder
	r := metadata.NewRecorderWithClock(&buf, fixedClock(t))

	r.RecordFetch("https://example.com/speiseplaene/academica-w.html", 200, 120*time.Millisecond, "abc123")

	line := buf.String()
	require.True(t, strings.HasSuffix(line, "\n"), "one record per line")
	assert.Contains(t, line, "event=fetch")
	assert.Contains(t, line, "ts=2024-03-07T11:30:00Z")
	assert.Contains(t, line, "url=https://example.com/speiseplaene/academica-w.html")
	assert.Contains(t, line, "http_status=200")
	assert.Contains(t, line, "duration_ms=120")
	assert.Contains(t, line, "content_hash=abc123")
}

func TestRecorder_RecordCache(t *testing.T) {
	var buf strings.Builder
	r := metadata.NewRecorderWithClock(&buf, fixedClock(t))

	r.RecordCache("Academica/2024-03-07", metadata.CacheHit)

	line := buf.String()
	assert.Contains(t, line, "event=cache")
	assert.Contains(t, line, "cache_key=Academica/2024-03-07")
	assert.Contains(t, line, "outcome=hit")
}

func TestRecorder_RecordError_IncludesAttrs(t *testing.T) {
	var buf strings.Builder
	r := metadata.NewRecorder(&buf)

	at := time.Date(2024, time.March, 7, 11, 30, 0, 0, time.UTC)
	r.RecordError(
		at,
		"extractor",
		"MenuExtractor.Extract",
		metadata.CauseMarkupDrift,
		"no <table> element with marker \"menues\"",
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrCanteen, "Academica"),
			metadata.NewAttr(metadata.AttrDate, "2024-03-07"),
		},
	)

	line := buf.String()
	assert.Contains(t, line, "event=error")
	assert.Contains(t, line, "package=extractor")
	assert.Contains(t, line, "action=MenuExtractor.Extract")
	assert.Contains(t, line, "cause=markup_drift")
	assert.Contains(t, line, "canteen=Academica")
	assert.Contains(t, line, "date=2024-03-07")
}

func TestErrorCause_UnknownFallback(t *testing.T) {
	assert.Equal(t, "unknown", metadata.ErrorCause(99).String())
	assert.Equal(t, "cache_degraded", metadata.CauseCacheDegraded.String())
}

func TestNoopSink_ImplementsMetadataSink(t *testing.T) {
	var sink metadata.MetadataSink = &metadata.NoopSink{}

	// Just exercise the interface; nothing observable should happen.
	sink.RecordFetch("u", 0, 0, "")
	sink.RecordCache("k", metadata.CacheMiss)
	sink.RecordError(time.Now(), "p", "a", metadata.CauseUnknown, "e", nil)
}
