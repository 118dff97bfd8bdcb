// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angiedev/schoolfinder/spatial"
)

const googleBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeocoder resolves addresses through the Google Maps
// Geocoding API.
type GoogleGeocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleGeocoder creates a new Google Maps geocoder.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		apiKey:  apiKey,
		baseURL: googleBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type googleResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status       string `json:"status"` // OK, ZERO_RESULTS, OVER_QUERY_LIMIT, ...
	ErrorMessage string `json:"error_message"`
}

func (g *GoogleGeocoder) Resolve(addr Address) (spatial.Point, bool, error) {
	// The Maps query grammar chokes on leading number signs and on
	// apostrophes in street names, so strip them before building the
	// request.
	addr.Street = strings.TrimPrefix(addr.Street, "#")
	addr.Street = strings.ReplaceAll(addr.Street, "'", " ")

	params := url.Values{}
	params.Set("address", addr.String())
	params.Set("key", g.apiKey)

	resp, err := g.httpClient.Get(g.baseURL + "?" + params.Encode())
	if err != nil {
		return spatial.Point{}, false, &GeoError{
			Provider: "google",
			Type:     ErrorTypeNetwork,
			Message:  "geocoding request failed",
			Err:      err,
		}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return spatial.Point{}, false, &GeoError{
			Provider: "google",
			Type:     ErrorTypeNetwork,
			Message:  fmt.Sprintf("geocoding endpoint returned status %d", resp.StatusCode),
		}
	}

	var gr googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return spatial.Point{}, false, &GeoError{
			Provider: "google",
			Type:     ErrorTypeUnknown,
			Message:  "decoding response",
			Err:      err,
		}
	}

	switch gr.Status {
	case "OK":
	case "ZERO_RESULTS":
		return spatial.Point{}, false, nil
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return spatial.Point{}, false, &GeoError{
			Provider: "google",
			Type:     ErrorTypeQuotaExceeded,
			Message:  fmt.Sprintf("status %s: %s", gr.Status, gr.ErrorMessage),
		}
	default:
		return spatial.Point{}, false, &GeoError{
			Provider: "google",
			Type:     ErrorTypeInvalidRequest,
			Message:  fmt.Sprintf("status %s: %s", gr.Status, gr.ErrorMessage),
		}
	}

	if len(gr.Results) == 0 {
		return spatial.Point{}, false, nil
	}

	loc := gr.Results[0].Geometry.Location

	return spatial.Point{Lat: loc.Lat, Lng: loc.Lng}, true, nil
}
