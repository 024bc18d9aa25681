// Package resilience wraps outbound HTTP calls with a circuit breaker and
// status classification. Each call makes exactly one attempt.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// HTTPClientConfig bundles the HTTP client used for a remote service.
type HTTPClientConfig struct {
	Client *http.Client
}

var (
	ErrRateLimited  = errors.New("rate limited")
	ErrServerError  = errors.New("server error")
	ErrUnexpected   = errors.New("unexpected status code")
	ErrCircuitOpen  = errors.New("circuit breaker open")
	ErrNoHTTPClient = errors.New("http client not configured")
)

// maxErrorBody caps how much of a failed response body is kept in the error.
const maxErrorBody = 512

// NewBreaker returns a circuit breaker with the settings shared by every
// outbound dependency.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// Do executes the request built by buildRequest through the circuit breaker.
// Non-2xx responses are closed and reported as errors carrying a short
// excerpt of the response body.
func Do(
	ctx context.Context,
	cfg HTTPClientConfig,
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

	// Ensure the request obeys context cancellation.
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		excerpt := readExcerpt(resp)
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, fmt.Errorf("%w: %s", ErrRateLimited, excerpt)
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("%w: %d %s", ErrServerError, resp.StatusCode, excerpt)
		default:
			return nil, fmt.Errorf("%w: %d %s", ErrUnexpected, resp.StatusCode, excerpt)
		}
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

func readExcerpt(resp *http.Response) string {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return strings.TrimSpace(string(body))
}
