package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/mensa/internal/menu"
	"github.com/rohmanhakim/mensa/internal/metadata"
	"github.com/rohmanhakim/mensa/pkg/failure"
	"github.com/rohmanhakim/mensa/pkg/hashutil"
)

/*
Responsibilities

- Resolve a canteen to its one fixed menu page URL
- Perform a single HTTP request with browser-like headers
- Classify responses into typed transport errors
- Parse the body into a queryable document tree

Fetch Semantics

- Only successful HTML responses are parsed
- No retries and no caching at this layer
- Every attempt is recorded with status, duration, and body hash

The fetcher never interprets menu content; it only returns the parsed tree.
*/

type HtmlFetcher struct {
	metadataSink metadata.MetadataSink
	httpClient   *http.Client
	baseURL      string
	userAgent    string
}

func NewHtmlFetcher(metadataSink metadata.MetadataSink) HtmlFetcher {
	return HtmlFetcher{
		metadataSink: metadataSink,
		httpClient:   &http.Client{},
		baseURL:      DefaultBaseURL,
		userAgent:    "mensa/1.0",
	}
}

// Init overrides the HTTP client, the user agent, and the base URL. An
// empty baseURL keeps the production host.
func (h *HtmlFetcher) Init(client *http.Client, userAgent string, baseURL string) {
	if client != nil {
		h.httpClient = client
	}
	if userAgent != "" {
		h.userAgent = userAgent
	}
	if baseURL != "" {
		h.baseURL = baseURL
	}
}

func (h *HtmlFetcher) FetchDocument(
	ctx context.Context,
	canteen menu.Canteen,
) (FetchResult, failure.ClassifiedError) {
	callerMethod := "HtmlFetcher.FetchDocument"
	fetchURL := MenuURL(h.baseURL, canteen)
	startTime := time.Now()

	result, err := h.performFetch(ctx, fetchURL, canteen)

	duration := time.Since(startTime)

	var statusCode int
	var contentHash string
	if err != nil {
		var transportErr *TransportError
		if errors.As(err, &transportErr) {
			statusCode = transportErr.StatusCode
		}
	} else {
		statusCode = result.Code()
		contentHash = result.ContentHash()
	}

	h.metadataSink.RecordFetch(fetchURL, statusCode, duration, contentHash)

	if err != nil {
		h.recordTransportError(callerMethod, fetchURL, canteen, err)
		return FetchResult{}, err
	}

	return result, nil
}

func (h *HtmlFetcher) recordTransportError(
	callerMethod string,
	fetchURL string,
	canteen menu.Canteen,
	err failure.ClassifiedError,
) {
	var transportError *TransportError
	if errors.As(err, &transportError) {
		h.metadataSink.RecordError(
			time.Now(),
			"fetcher",
			callerMethod,
			mapTransportErrorToMetadataCause(transportError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, fetchURL),
				metadata.NewAttr(metadata.AttrCanteen, canteen.String()),
			},
		)
	}
}

func (h *HtmlFetcher) performFetch(
	ctx context.Context,
	fetchURL string,
	canteen menu.Canteen,
) (FetchResult, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return FetchResult{}, &TransportError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Cause:     ErrCauseRequestBuild,
			Temporary: false,
		}
	}

	for key, value := range requestHeaders(h.userAgent) {
		req.Header.Set(key, value)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		// Network/transport errors are plausibly transient
		return FetchResult{}, &TransportError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Cause:     ErrCauseNetworkFailure,
			Temporary: true,
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return FetchResult{}, &TransportError{
			Message:    fmt.Sprintf("server error: %d", resp.StatusCode),
			Cause:      ErrCauseHTTPStatus,
			StatusCode: resp.StatusCode,
			Temporary:  true,
		}

	case resp.StatusCode == http.StatusTooManyRequests:
		return FetchResult{}, &TransportError{
			Message:    "rate limited (429)",
			Cause:      ErrCauseHTTPStatus,
			StatusCode: resp.StatusCode,
			Temporary:  true,
		}

	case resp.StatusCode >= 300:
		// The menu pages are plain 200 documents; anything else means the
		// site moved under us.
		return FetchResult{}, &TransportError{
			Message:    fmt.Sprintf("unexpected status: %d", resp.StatusCode),
			Cause:      ErrCauseHTTPStatus,
			StatusCode: resp.StatusCode,
			Temporary:  false,
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTMLContent(contentType) {
		return FetchResult{}, &TransportError{
			Message:    fmt.Sprintf("non-HTML content type: %s", contentType),
			Cause:      ErrCauseContentTypeInvalid,
			StatusCode: resp.StatusCode,
			Temporary:  false,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, &TransportError{
			Message:    fmt.Sprintf("failed to read response body: %v", err),
			Cause:      ErrCauseReadResponseBody,
			StatusCode: resp.StatusCode,
			Temporary:  true,
		}
	}

	document, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return FetchResult{}, &TransportError{
			Message:    fmt.Sprintf("failed to parse document: %v", err),
			Cause:      ErrCauseUnparsableDocument,
			StatusCode: resp.StatusCode,
			Temporary:  false,
		}
	}

	contentHash, hashErr := hashutil.HashBytes(body, hashutil.HashAlgoBLAKE3)
	if hashErr != nil {
		// Hashing is observational; never fail a fetch over it.
		contentHash = ""
	}

	return FetchResult{
		canteen:     canteen,
		fetchURL:    fetchURL,
		document:    document,
		statusCode:  resp.StatusCode,
		contentHash: contentHash,
	}, nil
}

func isHTMLContent(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "text/html") ||
		strings.Contains(contentType, "application/xhtml")
}

func requestHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "de-DE,de;q=0.8,en;q=0.5",
		"Connection":      "keep-alive",
	}
}
