// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocodeearth

import (
	"errors"
	"log/slog"
	stdhttp "net/http"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/wneessen/rentalhub/internal/geocode"
	"github.com/wneessen/rentalhub/internal/http"
	"github.com/wneessen/rentalhub/internal/logger"
	"github.com/wneessen/rentalhub/internal/testhelper"
)

const (
	amphitheatreFile = "../../../../testdata/geocode-earth_amphitheatre.json"
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

func TestGeocodeEarth_Search(t *testing.T) {
	t.Run("autocomplete succeeds", func(t *testing.T) {
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
		if addr.StreetNumber != "1600" || addr.Route != "Amphitheatre Parkway" || addr.PostalCode != "94043" {
			t.Errorf("unexpected address parts: %+v", addr)
		}
		if !strings.HasPrefix(suggestions[0].ID, "openaddresses:") {
			t.Errorf("expected gid to be used as ID, got %q", suggestions[0].ID)
		}
		query := req.URL.Query()
		if query.Get("text") != "1600 Amphitheatre" || query.Get("boundary.country") != "US" || query.Get("size") != "5" {
			t.Errorf("unexpected query: %s", req.URL.RawQuery)
		}
	})
	t.Run("feature without coordinates fails", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.StringResponse(200,
			`{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"coordinates":[]},"properties":{"gid":"x"}}]}`))
		if _, err := coder.Search(t.Context(), "1600 Amphitheatre"); err == nil {
			t.Fatal("expected search to fail")
		}
	})
	t.Run("non-OK response fails", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.StringResponse(500, "{}"))
		if _, err := coder.Search(t.Context(), "1600 Amphitheatre"); err == nil {
			t.Fatal("expected search to fail")
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
