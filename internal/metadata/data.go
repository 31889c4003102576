package metadata

/*
ErrorCause is a closed, canonical classification used exclusively for
observability (logging, metrics, reporting).

Rules:
  - ErrorCause is for observability only.
  - It MUST NOT influence control flow: pipeline packages map their local
    errors to a cause, but callers decide behavior from the typed errors
    themselves, never from metadata.
  - If a failure does not clearly match a defined cause, CauseUnknown MUST
    be used.

Canonical table:

# CauseUnknown

Unclassified failures; safe fallback.

# CauseNetworkFailure

Transport-level failure while fetching a menu page: timeouts, DNS errors,
connection resets, non-success HTTP statuses.

# CauseMarkupDrift

The page was fetched but its structure no longer matches the expected
shape (missing tables, missing row cells). Signals an upstream page-format
change that needs operator attention.

# CauseCanteenClosed

The page carried no day-section for the requested date. An expected
business condition, recorded for visibility, never an operational fault.

# CauseCacheDegraded

The menu store could not be accessed within its bounded wait and the call
fell back to an uncached fetch. A deliberate degradation path, not data
loss.
*/
type ErrorCause int

const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CauseMarkupDrift
	CauseCanteenClosed
	CauseCacheDegraded
)

var errorCauseNames = map[ErrorCause]string{
	CauseUnknown:        "unknown",
	CauseNetworkFailure: "network_failure",
	CauseMarkupDrift:    "markup_drift",
	CauseCanteenClosed:  "canteen_closed",
	CauseCacheDegraded:  "cache_degraded",
}

func (c ErrorCause) String() string {
	if name, ok := errorCauseNames[c]; ok {
		return name
	}
	return errorCauseNames[CauseUnknown]
}

// CacheOutcome classifies one menu store interaction. Purely observational.
type CacheOutcome string

const (
	CacheHit    CacheOutcome = "hit"
	CacheStale  CacheOutcome = "stale"
	CacheMiss   CacheOutcome = "miss"
	CacheInsert CacheOutcome = "insert"
	CacheEvict  CacheOutcome = "evict"
	CacheBypass CacheOutcome = "bypass"
)

type AttributeKey string

const (
	AttrURL         AttributeKey = "url"
	AttrCanteen     AttributeKey = "canteen"
	AttrDate        AttributeKey = "date"
	AttrHTTPStatus  AttributeKey = "http_status"
	AttrContentHash AttributeKey = "content_hash"
	AttrCacheKey    AttributeKey = "cache_key"
	AttrMessage     AttributeKey = "message"
)

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}
