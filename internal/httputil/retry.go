// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the backend client.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// RetryBaseDelay is the first backoff step. Tests override this to avoid
// real sleeps.
var RetryBaseDelay = 1 * time.Second

// RetryMaxDelay caps a single backoff step.
var RetryMaxDelay = 30 * time.Second

const defaultMaxRetries = 5

// retryable reports whether a status code signals a transient condition.
func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// DoWithRetry executes an HTTP request and retries transport errors and
// transient statuses (429, 502, 503, 504) with exponential backoff:
// RetryBaseDelay doubled per attempt and capped at RetryMaxDelay. A
// Retry-After header in seconds overrides the computed delay.
//
// When maxRetries is 0 the default (5) is used. Before each retry the
// response body is drained and closed. If the context is cancelled
// during a backoff wait the function returns ctx.Err(). After exhausting
// retries the last response (or transport error) is returned as-is.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, log *zap.Logger) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if log == nil {
		log = zap.NewNop()
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			if ctx.Err() != nil || attempt >= maxRetries {
				return nil, err
			}
		} else if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		backoff := backoffFor(attempt)
		fields := []zap.Field{
			zap.String("url", req.URL.Redacted()),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		} else {
			if d, ok := retryAfter(resp); ok {
				backoff = d
			}
			fields = append(fields, zap.Int("status", resp.StatusCode))
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		log.Warn("request failed, retrying", append(fields, zap.Duration("backoff", backoff))...)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func backoffFor(attempt int) time.Duration {
	d := RetryBaseDelay << attempt
	if d <= 0 || d > RetryMaxDelay {
		return RetryMaxDelay
	}
	return d
}

func retryAfter(resp *http.Response) (time.Duration, bool) {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	d := time.Duration(secs) * time.Second
	if d > RetryMaxDelay {
		d = RetryMaxDelay
	}
	return d, true
}
