// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const (
	testToken    = "tok-1"
	testPassword = "Secret123"
	testUser     = `{"id":"u1","email":"olivia@example.com","firstName":"Olivia","lastName":"Owner","userType":"owner"}`
)

// fakeAPI is a minimal rental marketplace backend.
type fakeAPI struct {
	mu      sync.Mutex
	queries []url.Values
	deleted []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path != "/api/auth/login" && r.Header.Get("Authorization") != "Bearer "+testToken {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Token is not valid"}`))
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/auth/login":
		var credentials struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil || credentials.Password != testPassword {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"` + testToken + `","user":` + testUser + `}`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/auth/me":
		_, _ = w.Write([]byte(testUser))
	case r.Method == http.MethodGet && r.URL.Path == "/api/properties":
		f.mu.Lock()
		f.queries = append(f.queries, r.URL.Query())
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"properties":[{"_id":"p1","title":"Sunny loft downtown","price":1850,` +
			`"bedrooms":2,"bathrooms":1,"address":{"city":"Austin","state":"TX"}}],` +
			`"pagination":{"total":1,"page":1,"limit":10,"pages":1}}`))
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/properties/"):
		f.mu.Lock()
		f.deleted = append(f.deleted, strings.TrimPrefix(r.URL.Path, "/api/properties/"))
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"message":"Property deleted successfully"}`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/applications/owner":
		_, _ = w.Write([]byte(`[{"_id":"a1","propertyId":{"_id":"p1","title":"Sunny loft downtown"},` +
			`"status":"pending","backgroundCheckStatus":"not_started","createdAt":"2026-10-01T10:00:00Z"}]`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/agreements/owner":
		_, _ = w.Write([]byte(`[{"_id":"ag1","propertyId":"p1","status":"both_signed",` +
			`"startDate":"2026-11-01T00:00:00Z","endDate":"2027-10-31T00:00:00Z"}]`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Route not found"}`))
	}
}

func testEnv(t *testing.T) (*fakeAPI, string) {
	t.Helper()
	api := new(fakeAPI)
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("RENTALHUB_API_BASE_URL", srv.URL+"/api")
	t.Setenv("RENTALHUB_SESSION_FILE", filepath.Join(home, "session.json"))
	t.Setenv("RENTALHUB_GEOCODER_LANGUAGE", "en-US")
	return api, home
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out := bytes.NewBuffer(nil)
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(out)
	root.SetErr(out)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	t.Run("whoami requires a login", func(t *testing.T) {
		testEnv(t)
		if _, err := run(t, "", "whoami"); !errors.Is(err, ErrNotLoggedIn) {
			t.Errorf("expected error to be %s, got %v", ErrNotLoggedIn, err)
		}
	})
	t.Run("login persists the session across invocations", func(t *testing.T) {
		testEnv(t)
		out, err := run(t, "", "login", "--email", "olivia@example.com", "--password", testPassword)
		if err != nil {
			t.Fatalf("login failed: %s", err)
		}
		if !strings.Contains(out, "Logged in as Olivia Owner (owner)") {
			t.Errorf("unexpected login output: %q", out)
		}

		out, err = run(t, "", "whoami")
		if err != nil {
			t.Fatalf("whoami failed: %s", err)
		}
		if !strings.Contains(out, "Email: olivia@example.com") || !strings.Contains(out, "Type:  owner") {
			t.Errorf("unexpected whoami output: %q", out)
		}
	})
	t.Run("password is read from stdin", func(t *testing.T) {
		testEnv(t)
		out, err := run(t, testPassword+"\n", "login", "--email", "olivia@example.com")
		if err != nil {
			t.Fatalf("login failed: %s", err)
		}
		if !strings.Contains(out, "Password: ") || !strings.Contains(out, "Logged in as") {
			t.Errorf("unexpected login output: %q", out)
		}
	})
	t.Run("failed login reports the API message", func(t *testing.T) {
		testEnv(t)
		_, err := run(t, "", "login", "--email", "olivia@example.com", "--password", "wrong")
		if err == nil {
			t.Fatal("expected login to fail")
		}
		if !strings.Contains(err.Error(), "Invalid credentials") {
			t.Errorf("unexpected error: %s", err)
		}
	})
	t.Run("invalid email is rejected before sending", func(t *testing.T) {
		testEnv(t)
		_, err := run(t, "", "login", "--email", "not-an-email", "--password", testPassword)
		if err == nil || !strings.Contains(err.Error(), "email") {
			t.Errorf("expected validation error, got %v", err)
		}
	})
	t.Run("logout forgets the session", func(t *testing.T) {
		_, home := testEnv(t)
		if _, err := run(t, "", "login", "--email", "olivia@example.com", "--password", testPassword); err != nil {
			t.Fatalf("login failed: %s", err)
		}
		out, err := run(t, "", "logout")
		if err != nil {
			t.Fatalf("logout failed: %s", err)
		}
		if !strings.Contains(out, "Logged out") {
			t.Errorf("unexpected logout output: %q", out)
		}
		if _, err = os.Stat(filepath.Join(home, "session.json")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected session file to be removed, got %v", err)
		}
		if _, err = run(t, "", "whoami"); !errors.Is(err, ErrNotLoggedIn) {
			t.Errorf("expected error to be %s, got %v", ErrNotLoggedIn, err)
		}
	})
	t.Run("properties are listed with the filter", func(t *testing.T) {
		api, _ := testEnv(t)
		if _, err := run(t, "", "login", "--email", "olivia@example.com", "--password", testPassword); err != nil {
			t.Fatalf("login failed: %s", err)
		}
		out, err := run(t, "", "properties", "list", "--city", "Austin", "--min-price", "1000")
		if err != nil {
			t.Fatalf("listing properties failed: %s", err)
		}
		for _, want := range []string{"Sunny loft downtown", "$1,850.00/mo", "Austin, TX", "Page 1 of 1, 1 properties"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output, got %q", want, out)
			}
		}
		api.mu.Lock()
		defer api.mu.Unlock()
		if len(api.queries) != 1 || api.queries[0].Get("city") != "Austin" || api.queries[0].Get("minPrice") != "1000" {
			t.Errorf("unexpected queries: %v", api.queries)
		}
	})
	t.Run("properties are deleted", func(t *testing.T) {
		api, _ := testEnv(t)
		if _, err := run(t, "", "login", "--email", "olivia@example.com", "--password", testPassword); err != nil {
			t.Fatalf("login failed: %s", err)
		}
		out, err := run(t, "", "properties", "delete", "p1")
		if err != nil {
			t.Fatalf("deleting property failed: %s", err)
		}
		if !strings.Contains(out, "Property deleted successfully") {
			t.Errorf("unexpected output: %q", out)
		}
		api.mu.Lock()
		defer api.mu.Unlock()
		if len(api.deleted) != 1 || api.deleted[0] != "p1" {
			t.Errorf("unexpected deletions: %v", api.deleted)
		}
	})
	t.Run("owner records are listed", func(t *testing.T) {
		testEnv(t)
		if _, err := run(t, "", "login", "--email", "olivia@example.com", "--password", testPassword); err != nil {
			t.Fatalf("login failed: %s", err)
		}
		out, err := run(t, "", "applications", "list")
		if err != nil {
			t.Fatalf("listing applications failed: %s", err)
		}
		if !strings.Contains(out, "STATUS") || !strings.Contains(out, "Sunny loft downtown") ||
			!strings.Contains(out, "pending") {
			t.Errorf("unexpected applications output: %q", out)
		}
		out, err = run(t, "", "agreements", "list")
		if err != nil {
			t.Fatalf("listing agreements failed: %s", err)
		}
		if !strings.Contains(out, "both_signed") || !strings.Contains(out, "2026-11-01") {
			t.Errorf("unexpected agreements output: %q", out)
		}
	})
	t.Run("terminating requires a reason", func(t *testing.T) {
		testEnv(t)
		if _, err := run(t, "", "login", "--email", "olivia@example.com", "--password", testPassword); err != nil {
			t.Fatalf("login failed: %s", err)
		}
		if _, err := run(t, "", "agreements", "terminate", "ag1"); err == nil {
			t.Error("expected termination without reason to fail")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Run("no config file", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		if path, file := findConfigFile(); path != "" || file != "" {
			t.Errorf("expected no config file, got %s/%s", path, file)
		}
	})
	t.Run("config file in the default location", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		dir := filepath.Join(home, ".config", "rentalhub")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("loglevel: 0\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		path, file := findConfigFile()
		if path != dir || file != "config.yaml" {
			t.Errorf("expected %s/config.yaml, got %s/%s", dir, path, file)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("explicit config file", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		conf, err := loadConfig("../../etc/config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.API.BaseURL != "https://rentals.example.com/api" {
			t.Errorf("unexpected base URL: %s", conf.API.BaseURL)
		}
	})
	t.Run("missing config file", func(t *testing.T) {
		if _, err := loadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected loading to fail")
		}
	})
}

func TestReadSecret(t *testing.T) {
	t.Run("piped input is read line by line", func(t *testing.T) {
		r, w, err := os.Pipe()
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = r.Close() })
		if _, err = w.WriteString(testPassword + "\r\n"); err != nil {
			t.Fatal(err)
		}
		if err = w.Close(); err != nil {
			t.Fatal(err)
		}

		out := bytes.NewBuffer(nil)
		secret, err := readSecret(t.Context(), r, out, "Password: ")
		if err != nil {
			t.Fatalf("failed to read secret: %s", err)
		}
		if secret != testPassword {
			t.Errorf("expected secret %q, got %q", testPassword, secret)
		}
		if out.String() != "Password: " {
			t.Errorf("expected plain prompt, got %q", out.String())
		}
	})
	t.Run("empty input fails", func(t *testing.T) {
		if _, err := readSecret(t.Context(), strings.NewReader(""), io.Discard, "Password: "); err == nil {
			t.Error("expected reading from empty input to fail")
		}
	})
}
