package cache

import (
	"fmt"
	"time"

	"github.com/rohmanhakim/mensa/pkg/failure"
)

// StoreBusyError reports that the store lock could not be acquired within
// the configured wait. Callers are expected to fall back to an uncached
// fetch rather than fail the request.
type StoreBusyError struct {
	Wait time.Duration
}

func (e *StoreBusyError) Error() string {
	return fmt.Sprintf("menu store busy: gave up acquiring the store lock after %s", e.Wait)
}

func (e *StoreBusyError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
