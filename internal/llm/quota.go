package llm

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// RateLimitError marks a provider quota/rate-limit failure as a distinct,
// retryable outcome. RetryAfterSeconds is nil when the provider message
// carried no usable hint.
type RateLimitError struct {
	RetryAfterSeconds *int
	cause             error
}

func (e *RateLimitError) Error() string {
	if e.cause != nil {
		return "model rate limited: " + e.cause.Error()
	}
	return "model rate limited"
}

func (e *RateLimitError) Unwrap() error {
	return e.cause
}

var rateLimitSignatures = []string{
	"429",
	"quota exceeded",
	"too many requests",
	"rate limit",
}

// Provider error messages are free text; these patterns cover the two
// retry-after shapes observed in practice. Known fragility point: upstream
// message formats may change without notice.
var (
	retryInPhrase   = regexp.MustCompile(`(?i)retry in\s+([0-9]+(?:\.[0-9]+)?)\s*s`)
	retryDelayField = regexp.MustCompile(`(?i)"retryDelay"\s*:\s*"([0-9]+(?:\.[0-9]+)?)s"`)
)

// ClassifyRateLimit inspects a model-call failure and, when it matches a
// quota/rate-limit signature, returns the reclassified error. Returns nil
// for every other failure.
func ClassifyRateLimit(err error) *RateLimitError {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	matched := false
	for _, sig := range rateLimitSignatures {
		if strings.Contains(msg, sig) {
			matched = true
			break
		}
	}
	if !matched {
		return nil
	}
	return &RateLimitError{
		RetryAfterSeconds: retryAfterSeconds(err.Error()),
		cause:             err,
	}
}

// retryAfterSeconds extracts a retry-after hint from a provider message,
// rounding up to whole seconds. Pure function.
func retryAfterSeconds(msg string) *int {
	for _, re := range []*regexp.Regexp{retryInPhrase, retryDelayField} {
		m := re.FindStringSubmatch(msg)
		if len(m) != 2 {
			continue
		}
		parsed, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		seconds := int(math.Ceil(parsed))
		return &seconds
	}
	return nil
}
