package remote

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net"
	"net/url"
	"time"

	"tasknest/model"
)

// HTTPError is a non-2xx response from the remote backend.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("remote: %s returned %s", e.URL, e.Status)
}

// RetryOptions control the bounded retry loop. Zero values fall back to the
// defaults: 3 attempts, 1s initial delay, 10s cap, factor 2.
type RetryOptions struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64

	// RetryIf decides between attempts whether the error is worth another
	// try. Nil means DefaultRetryIf.
	RetryIf func(err error, attempt int) bool

	// OnRetry observes each failed attempt that will be followed by another
	// one. It is never called for the terminal attempt. Attempts are
	// 1-based.
	OnRetry func(err error, attempt int, delay time.Duration)
}

func (o RetryOptions) withDefaults() RetryOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = time.Second
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 10 * time.Second
	}
	if o.BackoffFactor <= 0 {
		o.BackoffFactor = 2
	}
	if o.RetryIf == nil {
		o.RetryIf = DefaultRetryIf
	}
	return o
}

// Retry invokes op until it succeeds, the retry budget is spent, or RetryIf
// rejects the failure. Between attempts it sleeps for an exponentially
// growing delay with up to 30% jitter, capped at MaxDelay.
func Retry[T any](ctx context.Context, opts RetryOptions, op func(context.Context) (T, error)) (T, error) {
	opts = opts.withDefaults()
	var zero T

	for attempt := 1; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if attempt >= opts.MaxAttempts {
			return zero, err
		}
		if !opts.RetryIf(err, attempt) {
			return zero, err
		}

		delay := backoffDelay(opts, attempt)
		if opts.OnRetry != nil {
			opts.OnRetry(err, attempt, delay)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// backoffDelay computes min(initial * factor^(attempt-1) * (1 + U[0,0.3)), max).
func backoffDelay(opts RetryOptions, attempt int) time.Duration {
	d := float64(opts.InitialDelay) * math.Pow(opts.BackoffFactor, float64(attempt-1))
	d *= 1 + rand.Float64()*0.3
	if capped := float64(opts.MaxDelay); d > capped {
		d = capped
	}
	return time.Duration(d)
}

// DefaultRetryIf retries transient connectivity failures always, HTTP
// failures only for 408, 429 and the 5xx gateway statuses, and nothing else.
func DefaultRetryIf(err error, _ int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case 408, 429, 500, 502, 503, 504:
			return true
		}
		return false
	}

	if errors.Is(err, model.ErrNetwork) || errors.Is(err, model.ErrOffline) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
