package utils

import (
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// NewHTTPClient builds an HTTP client with the given timeout and retry budget.
// With maxRetries 0 each request is attempted exactly once. Non-2xx responses
// are handed back to the caller instead of being turned into errors.
func NewHTTPClient(timeout time.Duration, maxRetries int, logger *Logger) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 4 * time.Second
	rc.RetryMax = maxRetries
	rc.HTTPClient.Timeout = timeout
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if logger != nil {
		rc.Logger = logger.Slog()
	} else {
		rc.Logger = nil
	}
	return rc
}
