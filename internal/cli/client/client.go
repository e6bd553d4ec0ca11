package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// RequestIDHeader correlates one CLI call with the service logs.
	RequestIDHeader = "X-Request-ID"
	accountHeader   = "X-Account-ID"
)

type Client struct {
	BaseURL string
	Token   string
	// Account is sent as X-Account-ID for services running with auth disabled.
	Account string

	HTTP *http.Client
}

// Envelope is the response wrapper every auctiond endpoint returns.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Meta    map[string]any  `json:"meta,omitempty"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (c *Client) NewRequest(method, path string, body any) (*http.Request, error) {
	if strings.TrimSpace(c.BaseURL) == "" {
		return nil, errors.New("base url is empty")
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	url := strings.TrimRight(c.BaseURL, "/") + path

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if strings.TrimSpace(c.Token) != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.Token))
	}
	if strings.TrimSpace(c.Account) != "" {
		req.Header.Set(accountHeader, strings.TrimSpace(c.Account))
	}
	return req, nil
}

// Do sends req, decodes the envelope's data into out and returns its meta.
func (c *Client) Do(req *http.Request, out any) (map[string]any, error) {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, err
	}

	var env Envelope
	decodeErr := json.Unmarshal(b, &env)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && strings.TrimSpace(env.Message) != "" {
			return nil, &StatusError{Status: resp.StatusCode, Message: env.Message}
		}
		return nil, &StatusError{Status: resp.StatusCode, Message: strings.TrimSpace(string(b))}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}

	if out == nil || len(env.Data) == 0 {
		return env.Meta, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return nil, err
	}
	return env.Meta, nil
}

// Call builds and sends one request.
func (c *Client) Call(method, path string, body, out any) (map[string]any, error) {
	req, err := c.NewRequest(method, path, body)
	if err != nil {
		return nil, err
	}
	return c.Do(req, out)
}
