package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/teslashibe/go-simplearm/internal/httpc"
	"github.com/teslashibe/go-simplearm/pkg/robot"
)

// APIError is a non-2xx response from the endpoint.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("http %d (request %s): %s", e.StatusCode, e.RequestID, e.Message)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// Client calls a running simplearm server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL. A nil httpClient uses the shared
// httpc.Client.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = httpc.Client
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Move requests a clamped move and returns the feedback.
func (c *Client) Move(ctx context.Context, pose robot.JointPose) (robot.Feedback, error) {
	var fb robot.Feedback
	err := c.do(ctx, http.MethodPost, "/api/safe_move", MoveRequest{Joint1: &pose.J1, Joint2: &pose.J2}, &fb)
	return fb, err
}

// Limits returns the limits currently in force.
func (c *Client) Limits(ctx context.Context) (robot.JointLimits, error) {
	var resp LimitsResponse
	err := c.do(ctx, http.MethodGet, "/api/limits", nil, &resp)
	return resp.Limits, err
}

// SetLimits replaces the range of one axis.
func (c *Client) SetLimits(ctx context.Context, axis robot.Axis, r robot.Range) (robot.JointLimits, error) {
	var resp LimitsResponse
	err := c.do(ctx, http.MethodPut, "/api/limits/"+string(axis), r, &resp)
	return resp.Limits, err
}

// Status returns the coordinator status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var st Status
	err := c.do(ctx, http.MethodGet, "/api/status", nil, &st)
	return st, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var er ErrorResponse
		_ = json.Unmarshal(data, &er)
		if er.Error == "" {
			er.Error = strings.TrimSpace(string(data))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: er.Error, RequestID: er.RequestID}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
