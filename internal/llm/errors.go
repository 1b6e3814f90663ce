package llm

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a gateway failure. Every error crossing the gateway
// boundary carries exactly one kind; nothing unclassified escapes.
type Kind string

const (
	KindConfiguration   Kind = "configuration"    // credential absent; fatal for the session
	KindAuthentication  Kind = "authentication"   // credential placeholder or rejected; fatal
	KindRateLimit       Kind = "rate_limit"       // provider throttling
	KindTimeout         Kind = "timeout"          // no response within budget
	KindOpenAIAPI       Kind = "openai_api"       // provider-side failure
	KindNetwork         Kind = "network"          // transport failure, no API response
	KindClient          Kind = "client"           // malformed request construction
	KindServer          Kind = "server"           // generic 5xx
	KindInvalidResponse Kind = "invalid_response" // well-formed envelope missing expected fields
	KindUnknown         Kind = "unknown"
)

// Error is a classified gateway failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt could plausibly succeed.
// Configuration and authentication failures never recover without operator
// action; invalid responses and client bugs don't recover on retry either.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindRateLimit, KindTimeout, KindServer:
		return true
	case KindNetwork, KindOpenAIAPI:
		return hasTransientIndicator(e.Message)
	default:
		return false
	}
}

var transientIndicators = []string{
	"timeout",
	"timed out",
	"connection reset",
	"connection refused",
	"temporarily unavailable",
	"overloaded",
	"try again",
	"eof",
}

func hasTransientIndicator(msg string) bool {
	return containsAnyFold(msg, transientIndicators)
}

func containsAnyFold(s string, fragments []string) bool {
	lower := strings.ToLower(s)
	for _, f := range fragments {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

// KindOf extracts the kind from err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether err is a classified, retryable gateway error.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable()
	}
	return false
}
