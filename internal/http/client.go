// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/wneessen/rentalhub/internal/logger"
)

const (
	// DefaultTimeout is the default timeout value for the HTTPClient
	DefaultTimeout = time.Second * 10

	// maxErrorBody limits how much of a failed response body is read for the error message
	maxErrorBody = 64 << 10
)

var (
	// version is the version of the application (will be set at build time)
	version = "dev"
	// UserAgent is the User-Agent that the HTTP client sends with API requests
	UserAgent = fmt.Sprintf("Mozilla/5.0 (%s; %s) rentalhub/%s (+https://github.com/wneessen/rentalhub/)",
		runtime.GOOS,
		runtime.GOARCH,
		version,
	)

	ErrNonPointerTarget = errors.New("target must be a non-nil pointer")
	// ErrRequestFailed wraps errors of the transport, i.e. the request never got a response
	ErrRequestFailed = errors.New("failed to perform HTTP request")
)

// StatusError is returned for responses with a status code of 400 or above. Message holds the
// "message" field of a JSON error body, if the server sent one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Client is a type wrapper for the Go stdlib http.Client and the Config
type Client struct {
	*http.Client
	logger *logger.Logger
}

// New returns a new HTTP client
func New(logger *logger.Logger) *Client {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	httpTransport := &http.Transport{TLSClientConfig: tlsConfig}
	httpClient := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: httpTransport,
	}
	return &Client{httpClient, logger}
}

// Get performs a HTTP GET request for the given URL and json-unmarshals the response
// into target
func (h *Client) Get(ctx context.Context, endpoint string, target any, query url.Values, headers map[string]string) (int, error) {
	return h.GetWithTimeout(ctx, endpoint, target, query, headers, DefaultTimeout)
}

// GetWithTimeout performs a HTTP GET request for the given URL and timeout and JSON-unmarshals
// the response into target
func (h *Client) GetWithTimeout(ctx context.Context, endpoint string, target any, query url.Values, headers map[string]string, timeout time.Duration) (int, error) {
	return h.Do(ctx, http.MethodGet, endpoint, target, query, nil, headers, timeout)
}

// Post performs a HTTP POST request for the given URL and json-unmarshals the response
// into target
func (h *Client) Post(ctx context.Context, endpoint string, target any, body io.Reader, headers map[string]string) (int, error) {
	return h.PostWithTimeout(ctx, endpoint, target, body, headers, DefaultTimeout)
}

// PostWithTimeout performs a HTTP POST request for the given URL and timeout and JSON-unmarshals
// the response into target
func (h *Client) PostWithTimeout(ctx context.Context, endpoint string, target any, body io.Reader, headers map[string]string, timeout time.Duration) (int, error) {
	return h.Do(ctx, http.MethodPost, endpoint, target, nil, body, headers, timeout)
}

// Do performs a HTTP request with the given method and JSON-unmarshals a successful response
// into target. Responses with a status code of 400 or above are returned as *StatusError.
func (h *Client) Do(ctx context.Context, method, endpoint string, target any, query url.Values, body io.Reader,
	headers map[string]string, timeout time.Duration,
) (int, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return 0, ErrNonPointerTarget
	}

	response, cancel, err := h.send(ctx, method, endpoint, query, body, headers, timeout)
	if err != nil {
		return 0, err
	}
	defer cancel()
	defer h.closeBody(response.Body)

	if response.StatusCode >= http.StatusBadRequest {
		return response.StatusCode, h.statusError(response)
	}
	if response.StatusCode == http.StatusNoContent {
		return response.StatusCode, nil
	}

	// Unmarshal the JSON API response into target
	if err = json.NewDecoder(response.Body).Decode(target); err != nil {
		return response.StatusCode, fmt.Errorf("failed to decode JSON: %w", err)
	}

	return response.StatusCode, nil
}

// GetBytes performs a HTTP GET request and returns the raw response body.
func (h *Client) GetBytes(ctx context.Context, endpoint string, headers map[string]string, timeout time.Duration) ([]byte, int, error) {
	response, cancel, err := h.send(ctx, http.MethodGet, endpoint, nil, nil, headers, timeout)
	if err != nil {
		return nil, 0, err
	}
	defer cancel()
	defer h.closeBody(response.Body)

	if response.StatusCode >= http.StatusBadRequest {
		return nil, response.StatusCode, h.statusError(response)
	}
	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, response.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, response.StatusCode, nil
}

func (h *Client) send(ctx context.Context, method, endpoint string, query url.Values, body io.Reader,
	headers map[string]string, timeout time.Duration,
) (*http.Response, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)

	// Prepare URL and query parameters
	reqURL, err := url.Parse(endpoint)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	// Prepare HTTP request
	request, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed create new HTTP request with context: %w", err)
	}
	request.Header.Set("User-Agent", UserAgent)
	request.Header.Set("X-Request-ID", uuid.NewString())
	for k, v := range headers {
		request.Header.Set(k, v)
	}

	// Execute HTTP request
	response, err := h.Client.Do(request)
	if err != nil {
		cancel()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	if response == nil {
		cancel()
		return nil, nil, errors.New("nil response received")
	}
	return response, cancel, nil
}

func (h *Client) statusError(response *http.Response) error {
	statusErr := &StatusError{StatusCode: response.StatusCode}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(response.Body, maxErrorBody)).Decode(&payload); err == nil {
		statusErr.Message = payload.Message
		if statusErr.Message == "" {
			statusErr.Message = payload.Error
		}
	}
	return statusErr
}

func (h *Client) closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		h.logger.Error("failed to close HTTP response body", logger.Err(err))
	}
}
