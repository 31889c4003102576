package extractor

import (
	"fmt"

	"github.com/rohmanhakim/mensa/internal/menu"
	"github.com/rohmanhakim/mensa/internal/metadata"
	"github.com/rohmanhakim/mensa/pkg/failure"
)

// CanteenClosedError reports that the fetched page carries no day-section
// for the requested date. This is an expected business condition, not a
// structural fault: callers render a friendly "closed that day" message
// instead of a generic failure.
type CanteenClosedError struct {
	Canteen menu.Canteen
	Date    menu.Date
}

func (e *CanteenClosedError) Error() string {
	return fmt.Sprintf("canteen %s is closed on %s", e.Canteen, e.Date)
}

func (e *CanteenClosedError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// ElementNotFoundError reports that the page no longer has the expected
// shape: a required element or class marker is missing. This signals
// upstream markup drift; the expectation is retained for diagnostics while
// end users see a generic failure.
type ElementNotFoundError struct {
	Tag    string
	Marker string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("no <%s> element with marker %q", e.Tag, e.Marker)
}

func (e *ElementNotFoundError) Severity() failure.Severity {
	return failure.SeverityFatal
}

// mapExtractionErrorToMetadataCause maps extractor-local error semantics to
// the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used to derive
// control-flow decisions.
func mapExtractionErrorToMetadataCause(err failure.ClassifiedError) metadata.ErrorCause {
	switch err.(type) {
	case *CanteenClosedError:
		return metadata.CauseCanteenClosed
	case *ElementNotFoundError:
		return metadata.CauseMarkupDrift
	default:
		return metadata.CauseUnknown
	}
}
