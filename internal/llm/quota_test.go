package llm

import (
	"errors"
	"testing"
)

func TestClassifyRateLimitSignatures(t *testing.T) {
	cases := []struct {
		name    string
		msg     string
		matched bool
		retry   *int
	}{
		{
			name:    "retry-in phrase with fractional seconds",
			msg:     "gemini error: status 429: You exceeded your current quota. Please retry in 50.417968038s",
			matched: true,
			retry:   intPtr(51),
		},
		{
			name:    "retryDelay field",
			msg:     `gemini error: status 429: {"error":{"details":[{"retryDelay":"7s"}]}}`,
			matched: true,
			retry:   intPtr(7),
		},
		{
			name:    "rate limit without hint",
			msg:     "upstream rate limit reached for project",
			matched: true,
			retry:   nil,
		},
		{
			name:    "quota exceeded mixed case",
			msg:     "Quota Exceeded for quota metric generate_content_requests",
			matched: true,
			retry:   nil,
		},
		{
			name:    "too many requests",
			msg:     "HTTP 503: Too Many Requests, slow down",
			matched: true,
			retry:   nil,
		},
		{
			name:    "plain upstream failure",
			msg:     "gemini error: status 500: internal error",
			matched: false,
		},
		{
			name:    "timeout is not rate limiting",
			msg:     "context deadline exceeded",
			matched: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rateErr := ClassifyRateLimit(errors.New(tc.msg))
			if !tc.matched {
				if rateErr != nil {
					t.Fatalf("expected no classification, got %v", rateErr)
				}
				return
			}
			if rateErr == nil {
				t.Fatalf("expected rate-limit classification")
			}
			if tc.retry == nil {
				if rateErr.RetryAfterSeconds != nil {
					t.Fatalf("expected nil retry-after, got %d", *rateErr.RetryAfterSeconds)
				}
			} else {
				if rateErr.RetryAfterSeconds == nil {
					t.Fatalf("expected retry-after %d, got nil", *tc.retry)
				}
				if *rateErr.RetryAfterSeconds != *tc.retry {
					t.Fatalf("expected retry-after %d, got %d", *tc.retry, *rateErr.RetryAfterSeconds)
				}
			}
		})
	}
}

func TestClassifyRateLimitNil(t *testing.T) {
	if got := ClassifyRateLimit(nil); got != nil {
		t.Fatalf("expected nil for nil error, got %v", got)
	}
}

func TestRateLimitErrorUnwrap(t *testing.T) {
	base := errors.New("429 quota exceeded")
	rateErr := ClassifyRateLimit(base)
	if rateErr == nil {
		t.Fatalf("expected classification")
	}
	if !errors.Is(rateErr, base) {
		t.Fatalf("expected Unwrap to reach the original error")
	}
}

func intPtr(n int) *int {
	return &n
}
