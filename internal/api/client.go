// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package api is the client for the rental platform REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	stdhttp "net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/rentalhub/internal/http"
	"github.com/wneessen/rentalhub/internal/logger"
	"github.com/wneessen/rentalhub/internal/validate"
)

const DefaultBaseURL = "http://localhost:5001/api"

var (
	// ErrNetwork is returned when the API could not be reached at all.
	ErrNetwork = errors.New("network error, please check your connection")
	// ErrUnauthorized is returned for 401 responses. The token source has been invalidated by then.
	ErrUnauthorized = errors.New("not authorized, please log in again")
)

// TokenSource provides the bearer token for API requests.
type TokenSource interface {
	// Token returns the current token or an empty string.
	Token() string
	// Invalidate drops the token after the API rejected it.
	Invalidate()
}

// File is an upload for a multipart form field.
type File struct {
	Name   string
	Reader io.Reader
}

// Client talks to the REST API. The services share the HTTP client, the base URL and the token source.
type Client struct {
	http      *http.Client
	logger    *logger.Logger
	validator *validate.Validator
	tokens    TokenSource
	baseURL   string
	timeout   time.Duration

	Auth         *AuthService
	Properties   *PropertyService
	Applications *ApplicationService
	Payments     *PaymentService
	Agreements   *AgreementService
	Uploads      *UploadService
}

type service struct {
	client *Client
}

// New returns a Client for the API at baseURL. tokens may be nil for anonymous access.
func New(client *http.Client, log *logger.Logger, baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = http.DefaultTimeout
	}
	c := &Client{
		http:      client,
		logger:    log,
		validator: validate.New(),
		tokens:    tokens,
		baseURL:   strings.TrimRight(baseURL, "/"),
		timeout:   timeout,
	}
	svc := service{client: c}
	c.Auth = (*AuthService)(&svc)
	c.Properties = (*PropertyService)(&svc)
	c.Applications = (*ApplicationService)(&svc)
	c.Payments = (*PaymentService)(&svc)
	c.Agreements = (*AgreementService)(&svc)
	c.Uploads = (*UploadService)(&svc)
	return c
}

// SetTokenSource replaces the token source used for subsequent requests.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// do sends payload as JSON, if it is not nil, and decodes the response into target. Payloads are
// validated before anything is sent.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, target any) error {
	var body io.Reader
	headers := c.headers()
	if payload != nil {
		if err := c.validator.Struct(payload); err != nil {
			return err
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request payload: %w", err)
		}
		body = bytes.NewReader(data)
		headers["Content-Type"] = "application/json"
	}
	if target == nil {
		target = new(json.RawMessage)
	}

	_, err := c.http.Do(ctx, method, c.baseURL+path, target, query, body, headers, c.timeout)
	return c.checkError(method, path, err)
}

// upload sends files as multipart form under field and decodes the response into target.
func (c *Client) upload(ctx context.Context, path, field string, files []File, target any) error {
	buf := bytes.NewBuffer(nil)
	form := multipart.NewWriter(buf)
	for _, file := range files {
		part, err := form.CreateFormFile(field, filepath.Base(file.Name))
		if err != nil {
			return fmt.Errorf("failed to create multipart form file: %w", err)
		}
		if _, err = io.Copy(part, file.Reader); err != nil {
			return fmt.Errorf("failed to read upload %s: %w", file.Name, err)
		}
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart form: %w", err)
	}

	headers := c.headers()
	headers["Content-Type"] = form.FormDataContentType()
	_, err := c.http.Do(ctx, stdhttp.MethodPost, c.baseURL+path, target, nil, buf, headers, c.timeout)
	return c.checkError(stdhttp.MethodPost, path, err)
}

// raw returns the unparsed response body.
func (c *Client) raw(ctx context.Context, path string) ([]byte, error) {
	data, _, err := c.http.GetBytes(ctx, c.baseURL+path, c.headers(), c.timeout)
	if err = c.checkError(stdhttp.MethodGet, path, err); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) headers() map[string]string {
	headers := map[string]string{"Accept": "application/json"}
	if c.tokens == nil {
		return headers
	}
	if token := c.tokens.Token(); token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return headers
}

// checkError maps transport and status errors to the errors of this package.
func (c *Client) checkError(method, path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var statusErr *http.StatusError
	switch {
	case errors.As(err, &statusErr) && statusErr.StatusCode == stdhttp.StatusUnauthorized:
		if c.tokens != nil {
			c.tokens.Invalidate()
		}
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case errors.As(err, &statusErr):
		return err
	case errors.Is(err, http.ErrRequestFailed):
		c.logger.Error("API request failed", logger.Err(err), slog.String("method", method),
			slog.String("path", path))
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	return fmt.Errorf("%s %s failed: %w", method, path, err)
}

func escape(id string) string {
	return url.PathEscape(id)
}

func (f PropertyFilter) values() url.Values {
	query := url.Values{}
	if f.City != "" {
		query.Set("city", f.City)
	}
	if f.State != "" {
		query.Set("state", f.State)
	}
	if f.MinPrice > 0 {
		query.Set("minPrice", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		query.Set("maxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.Bedrooms > 0 {
		query.Set("bedrooms", strconv.Itoa(f.Bedrooms))
	}
	if f.Bathrooms > 0 {
		query.Set("bathrooms", strconv.Itoa(f.Bathrooms))
	}
	if len(f.Amenities) > 0 {
		query.Set("amenities", strings.Join(f.Amenities, ","))
	}
	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		query.Set("limit", strconv.Itoa(f.Limit))
	}
	return query
}
