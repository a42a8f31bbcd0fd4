// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocodeearth

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/rentalhub/internal/geocode"
	"github.com/wneessen/rentalhub/internal/http"
)

const (
	APIEndpoint = "https://api.geocode.earth/v1/autocomplete"
	APITimeout  = time.Second * 10
	name        = "geocode-earth"
)

type GeocodeEarth struct {
	apikey       string
	http         *http.Client
	lang         language.Tag
	countryCodes string
	limit        uint
}

type Response struct {
	Features []Feature `json:"features"`
	Type     string    `json:"type"`
}

type Feature struct {
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
	Type       string     `json:"type"`
}

// Geometry holds a GeoJSON point, coordinates are in lon, lat order.
type Geometry struct {
	Coordinates []float64 `json:"coordinates"`
	Type        string    `json:"type"`
}

type Properties struct {
	GID         string `json:"gid"`
	DisplayName string `json:"label"`
	City        string `json:"locality"`
	Country     string `json:"country"`
	HouseNumber string `json:"housenumber"`
	Postcode    string `json:"postalcode"`
	Road        string `json:"street"`
	State       string `json:"region"`
}

func New(client *http.Client, lang language.Tag, apikey, countryCodes string, limit uint) *GeocodeEarth {
	return &GeocodeEarth{
		apikey:       apikey,
		lang:         lang,
		http:         client,
		countryCodes: countryCodes,
		limit:        limit,
	}
}

func (g *GeocodeEarth) Name() string {
	return name
}

func (g *GeocodeEarth) Search(ctx context.Context, address string) ([]geocode.Suggestion, error) {
	var response Response

	query := url.Values{}
	query.Set("api_key", g.apikey)
	query.Set("text", address)
	query.Set("size", strconv.FormatUint(uint64(g.limit), 10))
	query.Set("lang", g.lang.String())
	if g.countryCodes != "" {
		query.Set("boundary.country", strings.ToUpper(g.countryCodes))
	}

	code, err := g.http.GetWithTimeout(ctx, APIEndpoint, &response, query, nil, APITimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve address suggestions from geocode.earth API: %w", err)
	}
	if code != 200 {
		return nil, fmt.Errorf("received non-positive response code from geocode.earth API: %d", code)
	}

	suggestions := make([]geocode.Suggestion, 0, len(response.Features))
	for _, feature := range response.Features {
		if len(feature.Geometry.Coordinates) < 2 {
			return nil, fmt.Errorf("feature %q has no point coordinates", feature.Properties.GID)
		}
		props := feature.Properties
		suggestions = append(suggestions, geocode.Suggestion{
			ID:        props.GID,
			Label:     props.DisplayName,
			Latitude:  feature.Geometry.Coordinates[1],
			Longitude: feature.Geometry.Coordinates[0],
			Address: geocode.PostalAddress{
				HouseNumber: props.HouseNumber,
				Road:        props.Road,
				City:        props.City,
				State:       props.State,
				Postcode:    props.Postcode,
				Country:     props.Country,
			},
		})
	}

	return suggestions, nil
}
