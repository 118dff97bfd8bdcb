// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressString(t *testing.T) {
	a := Address{Street: "1150 Rajkovich Way", City: "San Jose", State: "CA", Zip: "95120"}
	assert.Equal(t, "1150 Rajkovich Way,San Jose,CA,95120", a.String())
}

func TestGoogleGeocoder_Resolve(t *testing.T) {
	var gotAddress string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAddress = r.URL.Query().Get("address")
		require.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{"geometry": {"location": {"lat": 37.2205341, "lng": -121.8690651}}}]
		}`))
	}))
	defer srv.Close()

	g := NewGoogleGeocoder("test-key")
	g.baseURL = srv.URL

	p, found, err := g.Resolve(Address{
		Street: "#1150 O'Grady Way", City: "San Jose", State: "CA", Zip: "95120",
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.InDelta(t, 37.2205341, p.Lat, 1e-7)
	assert.InDelta(t, -121.8690651, p.Lng, 1e-7)

	// Vendor-specific preprocessing: leading # stripped, apostrophes
	// replaced before the request is built.
	assert.Equal(t, "1150 O Grady Way,San Jose,CA,95120", gotAddress)
}

func TestGoogleGeocoder_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer srv.Close()

	g := NewGoogleGeocoder("test-key")
	g.baseURL = srv.URL

	_, found, err := g.Resolve(Address{Street: "nowhere"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGoogleGeocoder_QuotaExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "OVER_QUERY_LIMIT", "error_message": "You have exceeded your daily request quota"}`))
	}))
	defer srv.Close()

	g := NewGoogleGeocoder("test-key")
	g.baseURL = srv.URL

	_, _, err := g.Resolve(Address{Street: "somewhere"})
	require.Error(t, err)
	assert.True(t, IsQuotaExceededError(err))

	var geoErr *GeoError
	require.ErrorAs(t, err, &geoErr)
	assert.Equal(t, "google", geoErr.Provider)
	// The vendor's raw diagnostic is preserved.
	assert.Contains(t, geoErr.Message, "daily request quota")
}

func TestGoogleGeocoder_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewGoogleGeocoder("test-key")
	g.baseURL = srv.URL

	_, _, err := g.Resolve(Address{Street: "somewhere"})
	require.Error(t, err)

	var geoErr *GeoError
	require.ErrorAs(t, err, &geoErr)
	assert.Equal(t, ErrorTypeNetwork, geoErr.Type)
}

func TestCensusGeocoder_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Public_AR_Current", r.URL.Query().Get("benchmark"))
		require.Equal(t, "json", r.URL.Query().Get("format"))

		_, _ = w.Write([]byte(`{
			"result": {"addressMatches": [{"coordinates": {"x": -121.8515333, "y": 37.2077983}}]}
		}`))
	}))
	defer srv.Close()

	g := NewCensusGeocoder()
	g.baseURL = srv.URL

	p, found, err := g.Resolve(Address{Street: "6338 Winterpark Dr", City: "San Jose", State: "CA", Zip: "95120"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.InDelta(t, 37.2077983, p.Lat, 1e-7)
	assert.InDelta(t, -121.8515333, p.Lng, 1e-7)
}

func TestCensusGeocoder_NoMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result": {"addressMatches": []}}`))
	}))
	defer srv.Close()

	g := NewCensusGeocoder()
	g.baseURL = srv.URL

	_, found, err := g.Resolve(Address{Street: "nowhere"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCensusGeocoder_BadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("benchmark is required"))
	}))
	defer srv.Close()

	g := NewCensusGeocoder()
	g.baseURL = srv.URL

	_, _, err := g.Resolve(Address{Street: "somewhere"})
	require.Error(t, err)

	var geoErr *GeoError
	require.ErrorAs(t, err, &geoErr)
	assert.Equal(t, "census", geoErr.Provider)
	assert.Contains(t, geoErr.Message, "benchmark is required")
}

func TestLatLonGeocoder_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{"latitude": 37.2881426, "longitude": -121.9058075}`))
	}))
	defer srv.Close()

	g := NewLatLonGeocoder("test-token")
	g.baseURL = srv.URL

	p, found, err := g.Resolve(Address{Street: "1776 Educational Park Dr", City: "San Jose", State: "CA", Zip: "95133"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.InDelta(t, 37.2881426, p.Lat, 1e-7)
	assert.InDelta(t, -121.9058075, p.Lng, 1e-7)
}

func TestLatLonGeocoder_NotFoundAndRateLimit(t *testing.T) {
	status := http.StatusNotFound
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()

	g := NewLatLonGeocoder("test-token")
	g.baseURL = srv.URL

	_, found, err := g.Resolve(Address{Street: "nowhere"})
	require.NoError(t, err)
	assert.False(t, found)

	status = http.StatusTooManyRequests

	_, _, err = g.Resolve(Address{Street: "somewhere"})
	require.Error(t, err)
	assert.True(t, IsRateLimitError(err))
}
