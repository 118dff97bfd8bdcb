// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/angiedev/schoolfinder/spatial"
)

const latLonBaseURL = "https://latlon.io/api/v1/geocode"

// LatLonGeocoder resolves addresses through the LatLon.io geocoding
// API, authenticated with a bearer token.
type LatLonGeocoder struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewLatLonGeocoder creates a new LatLon.io geocoder.
func NewLatLonGeocoder(token string) *LatLonGeocoder {
	return &LatLonGeocoder{
		token:   token,
		baseURL: latLonBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type latLonResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Error     string  `json:"error"`
}

func (g *LatLonGeocoder) Resolve(addr Address) (spatial.Point, bool, error) {
	params := url.Values{}
	params.Set("address", addr.String())

	req, err := http.NewRequest(http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return spatial.Point{}, false, &GeoError{
			Provider: "latlon",
			Type:     ErrorTypeInvalidRequest,
			Message:  "building request",
			Err:      err,
		}
	}

	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return spatial.Point{}, false, &GeoError{
			Provider: "latlon",
			Type:     ErrorTypeNetwork,
			Message:  "geocoding request failed",
			Err:      err,
		}
	}

	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// The vendor answers 404 when the address has no match.
		return spatial.Point{}, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return spatial.Point{}, false, &GeoError{
			Provider: "latlon",
			Type:     ErrorTypeRateLimit,
			Message:  "rate limit exceeded",
		}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return spatial.Point{}, false, &GeoError{
			Provider: "latlon",
			Type:     ErrorTypeUnknown,
			Message:  fmt.Sprintf("geocoding endpoint returned status %d: %s", resp.StatusCode, body),
		}
	}

	var lr latLonResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return spatial.Point{}, false, &GeoError{
			Provider: "latlon",
			Type:     ErrorTypeUnknown,
			Message:  "decoding response",
			Err:      err,
		}
	}

	if lr.Error != "" {
		return spatial.Point{}, false, &GeoError{
			Provider: "latlon",
			Type:     ErrorTypeInvalidRequest,
			Message:  lr.Error,
		}
	}

	return spatial.Point{Lat: lr.Latitude, Lng: lr.Longitude}, true, nil
}
