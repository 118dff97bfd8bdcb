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

const (
	censusBaseURL = "https://geocoding.geo.census.gov/geocoder/locations/onelineaddress"

	// censusBenchmark selects the current public address ranges
	// snapshot; the API requires it on every request.
	censusBenchmark = "Public_AR_Current"
)

// CensusGeocoder resolves addresses through the US Census Bureau's
// geocoding API. It needs no credential.
type CensusGeocoder struct {
	baseURL    string
	httpClient *http.Client
}

// NewCensusGeocoder creates a new Census Bureau geocoder.
func NewCensusGeocoder() *CensusGeocoder {
	return &CensusGeocoder{
		baseURL: censusBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type censusResponse struct {
	Result struct {
		AddressMatches []struct {
			Coordinates struct {
				X float64 `json:"x"` // longitude
				Y float64 `json:"y"` // latitude
			} `json:"coordinates"`
		} `json:"addressMatches"`
	} `json:"result"`
}

func (g *CensusGeocoder) Resolve(addr Address) (spatial.Point, bool, error) {
	params := url.Values{}
	params.Set("address", addr.String())
	params.Set("benchmark", censusBenchmark)
	params.Set("format", "json")

	resp, err := g.httpClient.Get(g.baseURL + "?" + params.Encode())
	if err != nil {
		return spatial.Point{}, false, &GeoError{
			Provider: "census",
			Type:     ErrorTypeNetwork,
			Message:  "geocoding request failed",
			Err:      err,
		}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The Census API reports bad requests as HTTP errors with the
		// diagnostic in the body; keep it.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return spatial.Point{}, false, &GeoError{
			Provider: "census",
			Type:     ErrorTypeInvalidRequest,
			Message:  fmt.Sprintf("geocoding endpoint returned status %d: %s", resp.StatusCode, body),
		}
	}

	var cr censusResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return spatial.Point{}, false, &GeoError{
			Provider: "census",
			Type:     ErrorTypeUnknown,
			Message:  "decoding response",
			Err:      err,
		}
	}

	// An empty match list is the vendor's "address not found" answer.
	if len(cr.Result.AddressMatches) == 0 {
		return spatial.Point{}, false, nil
	}

	coords := cr.Result.AddressMatches[0].Coordinates

	return spatial.Point{Lat: coords.Y, Lng: coords.X}, true, nil
}
