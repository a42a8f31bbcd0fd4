// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/wneessen/rentalhub/internal/config"
	"github.com/wneessen/rentalhub/internal/geocode"
	geocodeearth "github.com/wneessen/rentalhub/internal/geocode/provider/geocode-earth"
	"github.com/wneessen/rentalhub/internal/geocode/provider/opencage"
	nominatim "github.com/wneessen/rentalhub/internal/geocode/provider/osm-nominatim"
	"github.com/wneessen/rentalhub/internal/http"
	"github.com/wneessen/rentalhub/internal/logger"
)

// NewSearcher returns the configured geocoding provider, wrapped in a result cache unless
// caching has been disabled.
func NewSearcher(conf *config.Config, log *logger.Logger) (geocode.Searcher, error) {
	var searcher geocode.Searcher

	lang := conf.LanguageTag()
	geo := conf.Geocoder
	switch strings.ToLower(geo.Provider) {
	case "nominatim":
		opts := []nominatim.Option{nominatim.WithRateLimit(rate.Limit(geo.RateLimit))}
		if geo.Endpoint != "" {
			opts = append(opts, nominatim.WithEndpoint(geo.Endpoint))
		}
		searcher = nominatim.New(http.New(log), lang, geo.CountryCodes, geo.Limit, opts...)
	case "opencage":
		if geo.APIKey == "" {
			return nil, fmt.Errorf("opencage geocoder requires an API key")
		}
		searcher = opencage.New(http.New(log), lang, geo.APIKey, geo.CountryCodes, geo.Limit)
	case "geocode-earth":
		if geo.APIKey == "" {
			return nil, fmt.Errorf("geocode-earth geocoder requires an API key")
		}
		searcher = geocodeearth.New(http.New(log), lang, geo.APIKey, geo.CountryCodes, geo.Limit)
	default:
		return nil, fmt.Errorf("unsupported geocoder type: %s", geo.Provider)
	}

	if geo.DisableCache {
		return searcher, nil
	}
	return geocode.NewCachedSearcher(searcher, geo.CacheHitTTL, geo.CacheMissTTL), nil
}
