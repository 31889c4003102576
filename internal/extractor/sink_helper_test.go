package extractor_test

import (
	"time"

	"github.com/rohmanhakim/mensa/internal/metadata"
)

// mockMetadataSink is a test spy for metadata.MetadataSink
type mockMetadataSink struct {
	errorEvents []errorEvent
}

type errorEvent struct {
	packageName string
	action      string
	cause       metadata.ErrorCause
	errorString string
	attrs       []metadata.Attribute
}

func (m *mockMetadataSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	errorString string,
	attrs []metadata.Attribute,
) {
	m.errorEvents = append(m.errorEvents, errorEvent{
		packageName: packageName,
		action:      action,
		cause:       cause,
		errorString: errorString,
		attrs:       attrs,
	})
}

func (m *mockMetadataSink) RecordFetch(
	fetchURL string,
	httpStatus int,
	duration time.Duration,
	contentHash string,
) {
}

func (m *mockMetadataSink) RecordCache(key string, outcome metadata.CacheOutcome) {}
