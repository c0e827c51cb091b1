// Package httpcall wraps outbound upstream requests with a circuit breaker
// and explicit status-code classification. Failures are never retried; a
// transient upstream error surfaces immediately to the caller.
package httpcall

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

var (
	ErrRateLimited  = errors.New("rate limited")
	ErrServerError  = errors.New("server error")
	ErrUnexpected   = errors.New("unexpected status code")
	ErrCircuitOpen  = errors.New("circuit breaker open")
	ErrNoHTTPClient = errors.New("http client not configured")
)

// Config bundles the shared HTTP client used for upstream calls.
type Config struct {
	Client *http.Client
}

// NewBreaker returns a circuit breaker with the settings used for every
// upstream dependency.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// Do executes a single HTTP request through the circuit breaker. Non-2xx
// responses are turned into classified errors; 4xx bodies are discarded.
func Do(
	ctx context.Context,
	cfg Config,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, ErrNoHTTPClient
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			return nil, ErrRateLimited
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, ErrServerError
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", ErrUnexpected, resp.StatusCode)
		}

		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
