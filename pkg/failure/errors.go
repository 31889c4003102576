package failure

type Severity int

const (
	// SeverityFatal marks conditions the caller should surface as a
	// failure: unexpected markup shape, non-transient transport errors.
	SeverityFatal Severity = iota
	// SeverityRecoverable marks expected or transient conditions: a closed
	// canteen, a network timeout, a busy cache store.
	SeverityRecoverable
)

// ClassifiedError is the error contract shared by every pipeline stage.
// Callers branch on concrete types via errors.As; Severity exists for
// coarse handling at the outermost boundary.
type ClassifiedError interface {
	error
	Severity() Severity
}
