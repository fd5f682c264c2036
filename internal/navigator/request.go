package navigator

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/utils"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	requestIDHeader = "X-Request-ID"
	maxLoggedBody   = 512
)

var ErrUnauthorized = errors.New("unauthorized")

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Status     string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("navigator api: %s: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("navigator api: %s", e.Status)
}

// Unwrap maps 401 responses to ErrUnauthorized.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	return c.BaseURL + "/" + path
}

func (c *Client) getJSON(ctx context.Context, path, token string, q url.Values, target any) error {
	return c.doJSON(ctx, http.MethodGet, path, token, q, nil, target)
}

func (c *Client) sendJSON(ctx context.Context, method, path, token string, payload, target any) error {
	return c.doJSON(ctx, method, path, token, nil, payload, target)
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, q url.Values, payload, target any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return err
	}

	req = c.setHeaders(req, token)
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("bad response from navigator api",
			zap.Int("status", resp.StatusCode),
			zap.String("body", utils.TruncateForLog(string(data), maxLoggedBody)),
		)
		return newAPIError(resp, data)
	}

	if target == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}

	return nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get(requestIDHeader)),
	)
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request, token string) *http.Request {
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set(requestIDHeader, uuid.NewString())

	return req
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}
	return io.ReadAll(reader)
}

// newAPIError extracts the detail of an error body. Detail is either a string or,
// for validation errors, a list of objects with a msg field.
func newAPIError(resp *http.Response, data []byte) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status}

	var body struct {
		Detail  any    `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return apiErr
	}

	switch d := body.Detail.(type) {
	case string:
		apiErr.Detail = d
	case []any:
		for _, item := range d {
			if m, ok := item.(map[string]any); ok {
				if msg, ok := m["msg"].(string); ok {
					if apiErr.Detail != "" {
						apiErr.Detail += "; "
					}
					apiErr.Detail += msg
				}
			}
		}
	}
	if apiErr.Detail == "" {
		apiErr.Detail = body.Message
	}

	return apiErr
}
