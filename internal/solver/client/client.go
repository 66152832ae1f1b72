// Package client reaches a solver over HTTP. It separates failures of the
// transport (request never completed) from failures reported by the solver
// (non-success status with an error body), because only the latter carry a
// message meant for the user verbatim.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vk/pathlab/internal/ctxlog"
	"github.com/vk/pathlab/internal/solver"
)

// TransportError means the request could not complete at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("solver request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SolverError is a non-success response from the solver. Message is surfaced
// to the user verbatim.
type SolverError struct {
	Status  int
	Message string
}

func (e *SolverError) Error() string { return e.Message }

// Client posts solve requests to a solver base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client with a pooled transport. No per-request timeout is
// applied; callers bound the request through ctx if they need to.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Solve posts the request and decodes the step stream.
func (c *Client) Solve(ctx context.Context, req *solver.Request) ([]solver.Step, error) {
	logger := ctxlog.FromContext(ctx)

	payload, err := solver.Marshal(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/solve", bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	logger.Debug("Posting solve request.", "url", httpReq.URL.String(), "algorithm", req.Algorithm)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		if err := solver.Unmarshal(body, &errBody); err != nil || errBody.Error == "" {
			errBody.Error = fmt.Sprintf("solver returned status %d", resp.StatusCode)
		}
		return nil, &SolverError{Status: resp.StatusCode, Message: errBody.Error}
	}

	var steps []solver.Step
	if err := solver.Unmarshal(body, &steps); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to decode step stream: %w", err)}
	}
	logger.Debug("Received step stream.", "steps", len(steps))
	return steps, nil
}
