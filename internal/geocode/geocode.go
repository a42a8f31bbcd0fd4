// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import "context"

// PostalAddress is the partially structured address of a Suggestion. Every field may be empty.
type PostalAddress struct {
	HouseNumber string
	Road        string
	City        string
	State       string
	Postcode    string
	Country     string
}

// Suggestion is one candidate match returned by a geocoding provider for a free-text query.
type Suggestion struct {
	ID        string
	Label     string
	Latitude  float64
	Longitude float64
	Address   PostalAddress
	CacheHit  bool
}

// Address is the normalized address handed to the caller once a Suggestion has been selected.
type Address struct {
	FormattedAddress string  `json:"formattedAddress"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	StreetNumber     string  `json:"streetNumber"`
	Route            string  `json:"route"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	PostalCode       string  `json:"postalCode"`
	Country          string  `json:"country"`
}

// Searcher resolves a free-text query into an ordered list of suggestions.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string) ([]Suggestion, error)
}

// Resolve normalizes the suggestion into an Address.
func (s Suggestion) Resolve() Address {
	return Address{
		FormattedAddress: s.Label,
		Lat:              s.Latitude,
		Lng:              s.Longitude,
		StreetNumber:     s.Address.HouseNumber,
		Route:            s.Address.Road,
		City:             s.Address.City,
		State:            s.Address.State,
		PostalCode:       s.Address.Postcode,
		Country:          s.Address.Country,
	}
}
