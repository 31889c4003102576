package fetcher

import (
	"fmt"

	"github.com/rohmanhakim/mensa/internal/metadata"
	"github.com/rohmanhakim/mensa/pkg/failure"
)

type TransportErrorCause string

const (
	ErrCauseRequestBuild       = "failed to build request"
	ErrCauseNetworkFailure     = "network issues"
	ErrCauseHTTPStatus         = "unexpected http status"
	ErrCauseReadResponseBody   = "failed to read response body"
	ErrCauseContentTypeInvalid = "non-HTML content"
	ErrCauseUnparsableDocument = "unparsable document"
)

// TransportError covers every failure between "resolve URL" and "hand over
// a parsed document": network faults, non-success statuses, unreadable or
// unparsable bodies. It is deliberately distinct from the extractor's
// errors so callers never conflate a broken connection with broken markup.
type TransportError struct {
	Message    string
	Cause      TransportErrorCause
	StatusCode int
	Temporary  bool
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s", e.Cause)
}

func (e *TransportError) Severity() failure.Severity {
	if e.Temporary {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsTemporary reports whether the failure is plausibly transient. Nothing
// in this module retries; the flag only informs callers.
func (e *TransportError) IsTemporary() bool {
	return e.Temporary
}

// mapTransportErrorToMetadataCause maps fetcher-local error semantics to
// the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used to derive
// control-flow decisions.
func mapTransportErrorToMetadataCause(err *TransportError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNetworkFailure, ErrCauseHTTPStatus, ErrCauseReadResponseBody:
		return metadata.CauseNetworkFailure
	case ErrCauseContentTypeInvalid, ErrCauseUnparsableDocument:
		return metadata.CauseMarkupDrift
	default:
		return metadata.CauseUnknown
	}
}
