// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package opencage

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/rentalhub/internal/geocode"
	"github.com/wneessen/rentalhub/internal/http"
)

const (
	APIEndpoint = "https://api.opencagedata.com/geocode/v1/json"
	APITimeout  = time.Second * 10
	name        = "opencage"
)

type OpenCage struct {
	apikey       string
	http         *http.Client
	lang         language.Tag
	countryCodes string
	limit        uint
}

type Response struct {
	Results      []Result `json:"results"`
	TotalResults int      `json:"total_results"`
}

type Result struct {
	Components  Components `json:"components"`
	DisplayName string     `json:"formatted"`
	Geometry    Geometry   `json:"geometry"`
}

type Components struct {
	NomalizedCity string `json:"_normalized_city"`
	City          string `json:"city"`
	Country       string `json:"country"`
	HouseNumber   string `json:"house_number"`
	Postcode      string `json:"postcode"`
	Road          string `json:"road"`
	State         string `json:"state"`
	Town          string `json:"town"`
	Village       string `json:"village"`
}

type Geometry struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

func New(client *http.Client, lang language.Tag, apikey, countryCodes string, limit uint) *OpenCage {
	return &OpenCage{
		apikey:       apikey,
		lang:         lang,
		http:         client,
		countryCodes: countryCodes,
		limit:        limit,
	}
}

func (o *OpenCage) Name() string {
	return name
}

func (o *OpenCage) Search(ctx context.Context, address string) ([]geocode.Suggestion, error) {
	var response Response

	query := url.Values{}
	query.Set("key", o.apikey)
	query.Set("q", address)
	query.Set("limit", strconv.FormatUint(uint64(o.limit), 10))
	query.Set("no_annotations", "1")
	query.Set("no_record", "1")
	query.Set("language", o.lang.String())
	if o.countryCodes != "" {
		query.Set("countrycode", o.countryCodes)
	}

	if _, err := o.http.GetWithTimeout(ctx, APIEndpoint, &response, query, nil, APITimeout); err != nil {
		return nil, fmt.Errorf("failed to retrieve address suggestions from OpenCage API: %w", err)
	}

	suggestions := make([]geocode.Suggestion, 0, len(response.Results))
	for i, result := range response.Results {
		comp := result.Components
		suggestion := geocode.Suggestion{
			ID:        fmt.Sprintf("%s-%d", name, i),
			Label:     result.DisplayName,
			Latitude:  result.Geometry.Lat,
			Longitude: result.Geometry.Lon,
			Address: geocode.PostalAddress{
				HouseNumber: comp.HouseNumber,
				Road:        comp.Road,
				City:        comp.NomalizedCity,
				State:       comp.State,
				Postcode:    comp.Postcode,
				Country:     comp.Country,
			},
		}
		// Small places come without a normalized city, town and village stand in for it
		if suggestion.Address.City == "" {
			suggestion.Address.City = firstNonEmpty(comp.City, comp.Town, comp.Village)
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
