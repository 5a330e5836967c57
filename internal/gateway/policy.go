package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
	DefaultTimeout    = 15 * time.Second
)

// Action is what the gateway does after an attempt.
type Action int

const (
	ActionSucceed Action = iota
	ActionRetry
	ActionFail
)

func (a Action) String() string {
	switch a {
	case ActionSucceed:
		return "succeed"
	case ActionRetry:
		return "retry"
	case ActionFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Policy.Decide. Delay is only set for ActionRetry.
type Decision struct {
	Action Action
	Delay  time.Duration
}

// Policy holds the retry budget and delay schedule for a request.
type Policy struct {
	MaxRetries int
	Backoff    BackoffStrategy
}

// DefaultPolicy retries up to three times, waiting 1s, 2s, 3s.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: DefaultMaxRetries,
		Backoff:    LinearBackoff{Interval: DefaultRetryDelay},
	}
}

// Decide classifies the result of an attempt. retries is how many retries
// have already been made for the request, status is the HTTP status (0 when
// no response arrived) and err is the attempt's error.
func (p Policy) Decide(retries, status int, err error) Decision {
	if err == nil && status >= 200 && status < 300 {
		return Decision{Action: ActionSucceed}
	}
	if IsClientCorrectable(status) {
		return Decision{Action: ActionFail}
	}
	if isCallerAbort(err) {
		return Decision{Action: ActionFail}
	}
	if retries >= p.MaxRetries {
		return Decision{Action: ActionFail}
	}

	backoff := p.Backoff
	if backoff == nil {
		backoff = LinearBackoff{Interval: DefaultRetryDelay}
	}
	return Decision{Action: ActionRetry, Delay: backoff.NextInterval(retries + 1)}
}

// IsClientCorrectable reports whether status is a deterministic rejection
// that a retry cannot change.
func IsClientCorrectable(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
		return true
	default:
		return false
	}
}

// isCallerAbort is true when the caller's context ended. A per-attempt
// timeout is wrapped in ErrTimeout and stays retryable.
func isCallerAbort(err error) bool {
	if err == nil || errors.Is(err, ErrTimeout) {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
