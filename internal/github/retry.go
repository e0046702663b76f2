package github

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	gh "github.com/google/go-github/v57/github"
)

const (
	maxRetries           = 2
	retryInitialInterval = 500 * time.Millisecond
)

// withRetry runs op, retrying HTTP status errors up to maxRetries times with
// exponential backoff. Auth and validation failures are not retried.
func withRetry(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryInitialInterval

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx))
}

// isRetryable reports whether a platform error is worth another attempt.
// Server-side errors and rate limits are; client errors are not.
func isRetryable(err error) bool {
	if _, ok := err.(*gh.RateLimitError); ok {
		return true
	}
	if _, ok := err.(*gh.AbuseRateLimitError); ok {
		return true
	}
	if errResp, ok := err.(*gh.ErrorResponse); ok {
		return errResp.Response != nil && errResp.Response.StatusCode >= 500
	}
	// Transport-level failures (connection reset, timeout)
	return true
}
