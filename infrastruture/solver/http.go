// Package solver talks to the external constraint solver.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/beka-birhanu/vinom-sweeper/game/board"
	"github.com/beka-birhanu/vinom-sweeper/service/i"
)

const (
	defaultAttempts = 3
	defaultDelay    = 200 * time.Millisecond
	maxResponseSize = 16 << 20
)

var (
	// ErrInconsistent is returned when the solver finds no mine layout
	// matching the rules.
	ErrInconsistent = errors.New("solver reported no consistent solution")
	ErrBadResponse  = errors.New("malformed solver response")
)

// statusError is a non 2xx answer. Server side failures are retried.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("solver answered %d: %s", e.code, e.body)
}

func retryable(err error) bool {
	if errors.Is(err, ErrInconsistent) || errors.Is(err, ErrBadResponse) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// HTTPClient posts constraint sets to a solver endpoint.
type HTTPClient struct {
	url      string
	client   *http.Client
	attempts uint
	delay    time.Duration
	logger   i.Logger
}

var _ i.Solver = &HTTPClient{}

// HTTPOption customizes an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) { h.client = c }
}

// WithRetry sets the number of attempts and the delay between them.
func WithRetry(attempts uint, delay time.Duration) HTTPOption {
	return func(h *HTTPClient) {
		h.attempts = attempts
		h.delay = delay
	}
}

// NewHTTPClient creates a solver client for the endpoint at url.
func NewHTTPClient(url string, logger i.Logger, opts ...HTTPOption) (*HTTPClient, error) {
	if url == "" {
		return nil, errors.New("solver url is empty")
	}
	h := &HTTPClient{
		url:      url,
		client:   &http.Client{Timeout: 30 * time.Second},
		attempts: defaultAttempts,
		delay:    defaultDelay,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.attempts == 0 {
		h.attempts = 1
	}
	return h, nil
}

// Solve sends cs and waits for the answer, retrying transport failures and
// server errors.
func (h *HTTPClient) Solve(ctx context.Context, cs board.ConstraintSet) (*board.Solution, error) {
	payload, err := json.Marshal(cs)
	if err != nil {
		return nil, err
	}

	var sol *board.Solution
	err = retry.Do(
		func() error {
			var err error
			sol, err = h.post(ctx, payload)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(h.attempts),
		retry.Delay(h.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			if h.logger != nil {
				h.logger.Warning(fmt.Sprintf("solver attempt %d failed: %s", n+1, err))
			}
		}),
	)
	return sol, err
}

func (h *HTTPClient) post(ctx context.Context, payload []byte) (*board.Solution, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		// Inconsistent rule sets may come back as a client error with an
		// error body.
		if sol, err := decode(body); err == nil && sol.Error != "" {
			return sol, fmt.Errorf("%w: %s", ErrInconsistent, sol.Error)
		}
		return nil, &statusError{code: resp.StatusCode, body: string(bytes.TrimSpace(body))}
	}
	return decodeAnswer(body)
}

func decode(body []byte) (*board.Solution, error) {
	var sol board.Solution
	if err := json.Unmarshal(body, &sol); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadResponse, err)
	}
	return &sol, nil
}

// decodeAnswer parses a solver body. An error body becomes ErrInconsistent.
func decodeAnswer(body []byte) (*board.Solution, error) {
	sol, err := decode(body)
	if err != nil {
		return nil, err
	}
	if sol.Error != "" {
		return sol, fmt.Errorf("%w: %s", ErrInconsistent, sol.Error)
	}
	if sol.Probabilities == nil {
		return nil, fmt.Errorf("%w: no solution field", ErrBadResponse)
	}
	return sol, nil
}
