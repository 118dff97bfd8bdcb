// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package finder

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angiedev/schoolfinder/store"
)

func doRequest(t *testing.T, repo store.Repository, path string) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)

	NewServer(repo).Router().ServeHTTP(w, req)

	return w
}

func TestSearchSchoolsEndpoint(t *testing.T) {
	repo := setupFinderRepo(t)
	seedSanJose(t, repo)

	w := doRequest(t, repo, "/schools/search?lat=37.21873&long=-121.886661&searchRadius=3&maxNumResults=100")
	require.Equal(t, http.StatusOK, w.Code)

	var schools []store.School
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &schools))
	require.Len(t, schools, 2)

	// Names are rendered in title case for clients.
	assert.Equal(t, "Williams Elementary", schools[0].Name)
	assert.Equal(t, "Bret Harte Middle", schools[1].Name)
}

func TestSearchSchoolsEndpoint_EmptyResult(t *testing.T) {
	repo := setupFinderRepo(t)

	w := doRequest(t, repo, "/schools/search?lat=37.21873&long=-121.886661&searchRadius=3&maxNumResults=100")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestSearchSchoolsEndpoint_BadArguments(t *testing.T) {
	repo := setupFinderRepo(t)

	tests := []struct {
		name string
		path string
	}{
		{name: "missing lat", path: "/schools/search?long=-121.8&searchRadius=3&maxNumResults=10"},
		{name: "bad long", path: "/schools/search?lat=37.2&long=west&searchRadius=3&maxNumResults=10"},
		{name: "missing radius", path: "/schools/search?lat=37.2&long=-121.8&maxNumResults=10"},
		{name: "negative radius", path: "/schools/search?lat=37.2&long=-121.8&searchRadius=-1&maxNumResults=10"},
		{name: "zero max results", path: "/schools/search?lat=37.2&long=-121.8&searchRadius=3&maxNumResults=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, repo, tt.path)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestGetSchoolByNcesIDEndpoint(t *testing.T) {
	repo := setupFinderRepo(t)
	seedSanJose(t, repo)

	w := doRequest(t, repo, "/schools/063432005689")
	require.Equal(t, http.StatusOK, w.Code)

	var school store.School
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &school))
	assert.Equal(t, "Williams Elementary", school.Name)
	assert.Equal(t, "063432005689", school.NcesID)

	w = doRequest(t, repo, "/schools/999999999999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
