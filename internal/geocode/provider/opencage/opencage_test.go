// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package opencage

import (
	"errors"
	"log/slog"
	stdhttp "net/http"
	"testing"

	"golang.org/x/text/language"

	"github.com/wneessen/rentalhub/internal/geocode"
	"github.com/wneessen/rentalhub/internal/http"
	"github.com/wneessen/rentalhub/internal/logger"
	"github.com/wneessen/rentalhub/internal/testhelper"
)

const (
	amphitheatreFile = "../../../../testdata/opencage_amphitheatre.json"
	testAPIKey       = "test-key"
)

func TestNew(t *testing.T) {
	coder := testCoderWithRoundtripFunc(t, nil)
	if coder == nil {
		t.Fatal("expected a non-nil searcher")
	}
	if coder.Name() != name {
		t.Errorf("expected provider name to be %q, got %q", name, coder.Name())
	}
}

func TestOpenCage_Search(t *testing.T) {
	t.Run("search succeeds", func(t *testing.T) {
		var req *stdhttp.Request
		rtFn := func(r *stdhttp.Request) (*stdhttp.Response, error) {
			req = r
			return testhelper.FileResponse(t, 200, amphitheatreFile)(r)
		}
		coder := testCoderWithRoundtripFunc(t, rtFn)
		suggestions, err := coder.Search(t.Context(), "1600 Amphitheatre")
		if err != nil {
			t.Fatal(err)
		}
		if len(suggestions) != 1 {
			t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
		}
		addr := suggestions[0].Resolve()
		if addr.Lat != 37.4224 || addr.Lng != -122.0842 {
			t.Errorf("expected coordinates 37.4224,-122.0842, got %f,%f", addr.Lat, addr.Lng)
		}
		if addr.StreetNumber != "1600" || addr.Route != "Amphitheatre Parkway" || addr.City != "Mountain View" {
			t.Errorf("unexpected address parts: %+v", addr)
		}
		query := req.URL.Query()
		if query.Get("key") != testAPIKey || query.Get("countrycode") != "us" || query.Get("limit") != "5" {
			t.Errorf("unexpected query: %s", req.URL.RawQuery)
		}
		if query.Get("q") != "1600 Amphitheatre" {
			t.Errorf("expected query text to be sent, got %q", query.Get("q"))
		}
	})
	t.Run("no results is not an error", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.StringResponse(200, `{"results":[],"total_results":0}`))
		suggestions, err := coder.Search(t.Context(), "nowhere")
		if err != nil {
			t.Fatal(err)
		}
		if len(suggestions) != 0 {
			t.Errorf("expected no suggestions, got %d", len(suggestions))
		}
	})
	t.Run("invalid API key fails", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.StringResponse(401,
			`{"status":{"code":401,"message":"invalid API key"}}`))
		_, err := coder.Search(t.Context(), "1600 Amphitheatre")
		var statusErr *http.StatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != 401 {
			t.Errorf("expected a 401 status error, got %v", err)
		}
	})
	t.Run("transport error fails", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return nil, errors.New("intentionally failing")
		}
		coder := testCoderWithRoundtripFunc(t, rtFn)
		if _, err := coder.Search(t.Context(), "1600 Amphitheatre"); err == nil {
			t.Fatal("expected API request to fail")
		}
	})
}

func testCoderWithRoundtripFunc(_ *testing.T, fn func(req *stdhttp.Request) (*stdhttp.Response, error)) geocode.Searcher {
	testHttpClient := http.New(logger.New(slog.LevelDebug))
	if fn != nil {
		testHttpClient.Transport = testhelper.MockRoundTripper{Fn: fn}
	}
	return New(testHttpClient, language.English, testAPIKey, "us", 5)
}
