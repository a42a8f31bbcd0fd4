// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/wneessen/rentalhub/internal/logger"
	"github.com/wneessen/rentalhub/internal/testhelper"
)

type testType struct {
	String string  `json:"string"`
	Int    int     `json:"int"`
	Float  float64 `json:"float"`
	Bool   bool    `json:"bool"`
}

const testFile = "../../testdata/testtype.json"

func TestNew(t *testing.T) {
	client := New(logger.New(slog.LevelInfo))
	if client == nil {
		t.Fatal("expected client to be non-nil")
	}
}

func TestClient_Get(t *testing.T) {
	t.Run("getting and serializing JSON should work", func(t *testing.T) {
		var gotReq *stdhttp.Request
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			gotReq = req
			return testhelper.FileResponse(t, 200, testFile)(req)
		}

		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}
		query := url.Values{}
		query.Add("key", "value")
		headers := map[string]string{"X-Custom-Header": "custom-value"}

		target := new(testType)
		status, err := client.Get(t.Context(), "https://example.com", target, query, headers)
		if err != nil {
			t.Fatalf("failed to get JSON response: %s", err)
		}
		if status != 200 {
			t.Errorf("expected status code 200, got %d", status)
		}
		if target.String != "test" {
			t.Errorf("expected target string to be 'test', got %s", target.String)
		}
		if target.Int != 123 {
			t.Errorf("expected target int to be 123, got %d", target.Int)
		}
		if target.Float != 123.456 {
			t.Errorf("expected target float to be 123.456, got %f", target.Float)
		}
		if !target.Bool {
			t.Error("expected target bool to be true")
		}
		if gotReq.URL.Query().Get("key") != "value" {
			t.Errorf("expected query parameter to be sent, got %q", gotReq.URL.RawQuery)
		}
		if gotReq.Header.Get("X-Custom-Header") != "custom-value" {
			t.Error("expected custom header to be sent")
		}
		if gotReq.Header.Get("User-Agent") != UserAgent {
			t.Errorf("expected user agent %q, got %q", UserAgent, gotReq.Header.Get("User-Agent"))
		}
		if gotReq.Header.Get("X-Request-ID") == "" {
			t.Error("expected a request ID to be sent")
		}
	})
	t.Run("unmarshalling into non-pointer should fail", func(t *testing.T) {
		client := New(logger.New(slog.LevelInfo))
		var target testType
		_, err := client.Get(t.Context(), "https://example.com", target, nil, nil)
		if !errors.Is(err, ErrNonPointerTarget) {
			t.Errorf("expected error to be %s, got %s", ErrNonPointerTarget, err)
		}
	})
	t.Run("parsing an invalid url should fail", func(t *testing.T) {
		client := New(logger.New(slog.LevelInfo))
		target := new(testType)
		_, err := client.Get(t.Context(), "http://example.com/xyz%", target, nil, nil)
		if err == nil {
			t.Fatal("expected get to fail")
		}
		if !strings.Contains(err.Error(), "failed to parse URL") {
			t.Errorf("expected error to contain 'failed to parse URL', got %s", err)
		}
		if errors.Is(err, ErrRequestFailed) {
			t.Errorf("expected URL error not to be a request failure, got %s", err)
		}
	})
	t.Run("get request fails", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return nil, errors.New("intentionally failing")
		}

		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}

		target := new(testType)
		_, err := client.Get(t.Context(), "https://example.com", target, nil, nil)
		if err == nil {
			t.Fatal("expected get request to fail")
		}
		if !errors.Is(err, ErrRequestFailed) {
			t.Errorf("expected error to be %s, got %s", ErrRequestFailed, err)
		}
	})
	t.Run("broken response body fails to decode", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return &stdhttp.Response{
				StatusCode: 200,
				Body:       &failReadCloser{},
				Header:     make(stdhttp.Header),
			}, nil
		}

		client := New(logger.NewLogger(slog.LevelInfo, io.Discard))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}

		target := new(testType)
		_, err := client.Get(t.Context(), "https://example.com", target, nil, nil)
		if err == nil {
			t.Fatal("expected get request to fail")
		}
	})
	t.Run("error status returns a status error with the server message", func(t *testing.T) {
		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{
			Fn: testhelper.StringResponse(404, `{"message":"Property not found"}`),
		}

		target := new(testType)
		status, err := client.Get(t.Context(), "https://example.com", target, nil, nil)
		if status != 404 {
			t.Errorf("expected status code 404, got %d", status)
		}
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected a status error, got %v", err)
		}
		if statusErr.Message != "Property not found" {
			t.Errorf("expected server message, got %q", statusErr.Message)
		}
	})
	t.Run("error status without JSON body uses the status text", func(t *testing.T) {
		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: testhelper.StringResponse(502, "bad gateway")}

		_, err := client.Get(t.Context(), "https://example.com", new(testType), nil, nil)
		if err == nil || !strings.Contains(err.Error(), stdhttp.StatusText(502)) {
			t.Errorf("expected error to contain status text, got %v", err)
		}
	})
	t.Run("cancelled context is returned unwrapped", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		}
		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := client.Get(ctx, "https://example.com", new(testType), nil, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected error to be %s, got %v", context.Canceled, err)
		}
		if strings.Contains(err.Error(), "failed to perform HTTP request") {
			t.Errorf("expected cancellation not to be wrapped, got %s", err)
		}
	})
}

func TestClient_GetWithTimeout(t *testing.T) {
	t.Run("get request fails on context cancel", func(t *testing.T) {
		testhelper.PerformIntegrationTests(t)
		client := New(logger.New(slog.LevelInfo))
		ctx, cancel := context.WithTimeout(t.Context(), time.Millisecond)
		defer cancel()

		target := new(testType)
		_, err := client.GetWithTimeout(ctx, testhelper.TestOnlineAPIURL, target, nil, nil, time.Second*5)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected error to be %s, got %s", context.DeadlineExceeded, err)
		}
	})
}

func TestClient_Post(t *testing.T) {
	t.Run("post request succeeds", func(t *testing.T) {
		var method, body string
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			method = req.Method
			data, _ := io.ReadAll(req.Body)
			body = string(data)
			return testhelper.FileResponse(t, 201, testFile)(req)
		}

		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}

		target := new(testType)
		status, err := client.Post(t.Context(), "https://example.com", target, strings.NewReader(`{"a":1}`), nil)
		if err != nil {
			t.Fatalf("post request failed: %s", err)
		}
		if status != 201 {
			t.Errorf("expected status code 201, got %d", status)
		}
		if method != stdhttp.MethodPost {
			t.Errorf("expected POST request, got %s", method)
		}
		if body != `{"a":1}` {
			t.Errorf("expected request body to be sent, got %q", body)
		}
	})
}

func TestClient_PostWithTimeout(t *testing.T) {
	t.Run("post request times out", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		}
		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}

		target := new(testType)
		_, err := client.PostWithTimeout(t.Context(), "https://example.com", target, nil, nil, time.Nanosecond)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected error to be %s, got %s", context.DeadlineExceeded, err)
		}
	})
}

func TestClient_Do(t *testing.T) {
	t.Run("no content responses leave the target untouched", func(t *testing.T) {
		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: testhelper.StringResponse(204, "")}

		target := &testType{String: "keep"}
		status, err := client.Do(t.Context(), stdhttp.MethodDelete, "https://example.com", target, nil, nil, nil,
			DefaultTimeout)
		if err != nil {
			t.Fatalf("delete request failed: %s", err)
		}
		if status != 204 {
			t.Errorf("expected status code 204, got %d", status)
		}
		if target.String != "keep" {
			t.Errorf("expected target to be untouched, got %q", target.String)
		}
	})
}

func TestClient_GetBytes(t *testing.T) {
	t.Run("raw bytes are returned", func(t *testing.T) {
		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: testhelper.StringResponse(200, "%PDF-1.4")}

		data, status, err := client.GetBytes(t.Context(), "https://example.com/file", nil, DefaultTimeout)
		if err != nil {
			t.Fatalf("failed to get bytes: %s", err)
		}
		if status != 200 {
			t.Errorf("expected status code 200, got %d", status)
		}
		if string(data) != "%PDF-1.4" {
			t.Errorf("expected raw body, got %q", data)
		}
	})
	t.Run("error status fails", func(t *testing.T) {
		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: testhelper.StringResponse(403, `{"error":"forbidden"}`)}

		_, _, err := client.GetBytes(t.Context(), "https://example.com/file", nil, DefaultTimeout)
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected a status error, got %v", err)
		}
		if statusErr.Message != "forbidden" {
			t.Errorf("expected error field to be used as message, got %q", statusErr.Message)
		}
	})
}

type failReadCloser struct{}

func (failReadCloser) Read(p []byte) (int, error) { return len(p), nil }
func (failReadCloser) Close() error               { return errors.New("failed to close") }
