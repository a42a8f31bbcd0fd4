// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nominatim

import (
	"cmp"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/wneessen/rentalhub/internal/geocode"
	"github.com/wneessen/rentalhub/internal/http"
)

const (
	APISearchEndpoint = "https://nominatim.openstreetmap.org/search"
	APITimeout        = time.Second * 10
	name              = "osm-nominatim"

	// DefaultRateLimit follows the public Nominatim usage policy of one request per second
	DefaultRateLimit = rate.Limit(1)
)

type Nominatim struct {
	http    *http.Client
	lang    language.Tag
	limiter *rate.Limiter

	endpoint     string
	countryCodes string
	limit        uint
}

type SearchResult struct {
	PlaceID     int64   `json:"place_id"`
	APILat      string  `json:"lat"`
	APILon      string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

type Address struct {
	HouseNumber string `json:"house_number"`
	Road        string `json:"road"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
	Country     string `json:"country"`
}

// Option configures optional Nominatim settings.
type Option func(*Nominatim)

// WithEndpoint replaces the public search endpoint, e.g. with a self-hosted instance.
func WithEndpoint(endpoint string) Option {
	return func(n *Nominatim) {
		n.endpoint = endpoint
	}
}

// WithRateLimit sets the maximum number of requests per second.
func WithRateLimit(limit rate.Limit) Option {
	return func(n *Nominatim) {
		n.limiter = rate.NewLimiter(limit, 1)
	}
}

func New(client *http.Client, lang language.Tag, countryCodes string, limit uint, opts ...Option) *Nominatim {
	n := &Nominatim{
		http:         client,
		lang:         lang,
		limiter:      rate.NewLimiter(DefaultRateLimit, 1),
		endpoint:     APISearchEndpoint,
		countryCodes: countryCodes,
		limit:        limit,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Nominatim) Name() string {
	return name
}

func (n *Nominatim) Search(ctx context.Context, address string) ([]geocode.Suggestion, error) {
	var results []SearchResult

	if err := n.limiter.Wait(ctx); err != nil {
		// A cancelled wait must stay recognizable as cancellation for the caller
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to wait for Nominatim rate limiter: %w", err)
	}

	query := url.Values{}
	query.Set("format", "json")
	query.Set("q", address)
	query.Set("addressdetails", "1")
	query.Set("limit", strconv.FormatUint(uint64(n.limit), 10))
	if n.countryCodes != "" {
		query.Set("countrycodes", n.countryCodes)
	}
	headers := map[string]string{"Accept-Language": acceptLanguage(n.lang)}

	if _, err := n.http.GetWithTimeout(ctx, n.endpoint, &results, query, headers, APITimeout); err != nil {
		return nil, fmt.Errorf("failed to fetch address suggestions from Nominatim API: %w", err)
	}

	suggestions := make([]geocode.Suggestion, 0, len(results))
	for _, result := range results {
		suggestion, err := result.suggestion()
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}

func (r SearchResult) suggestion() (geocode.Suggestion, error) {
	var err error
	suggestion := geocode.Suggestion{
		ID:    strconv.FormatInt(r.PlaceID, 10),
		Label: r.DisplayName,
		Address: geocode.PostalAddress{
			HouseNumber: r.Address.HouseNumber,
			Road:        r.Address.Road,
			City:        r.Address.City,
			State:       r.Address.State,
			Postcode:    r.Address.Postcode,
			Country:     r.Address.Country,
		},
	}
	// Nominatim files smaller places under town or village instead of city. Without any of the
	// three the city stays empty.
	if suggestion.Address.City == "" {
		suggestion.Address.City = cmp.Or(r.Address.Town, r.Address.Village)
	}
	suggestion.Latitude, err = strconv.ParseFloat(r.APILat, 64)
	if err != nil {
		return suggestion, fmt.Errorf("failed to parse latitude from Nominatim API response: %w", err)
	}
	suggestion.Longitude, err = strconv.ParseFloat(r.APILon, 64)
	if err != nil {
		return suggestion, fmt.Errorf("failed to parse longitude from Nominatim API response: %w", err)
	}
	return suggestion, nil
}

// acceptLanguage builds the header value for the tag with an English fallback, e.g. "en-US,en".
func acceptLanguage(tag language.Tag) string {
	base, _ := tag.Base()
	value := tag.String()
	if base.String() != value {
		value += "," + base.String()
	}
	if base.String() != "en" {
		value += ",en"
	}
	return value
}
