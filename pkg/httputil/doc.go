// Package httputil provides the HTTP plumbing used to download item manifests.
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff, but only for errors
// wrapped in [RetryableError]. [Get] wraps network failures, 5xx responses
// and 429 rate limits that way, so transient failures are retried while a 404
// fails immediately:
//
//	body, err := httputil.Get(ctx, http.DefaultClient, "https://example.com/items.json")
//
// Every request reports to the observability HTTP hooks.
package httputil
