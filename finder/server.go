// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package finder

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/angiedev/schoolfinder/spatial"
	"github.com/angiedev/schoolfinder/store"
)

// Server exposes the school search over HTTP.
type Server struct {
	finder *Finder
	repo   store.Repository
	caser  cases.Caser
}

// NewServer creates the REST surface over the given repository.
func NewServer(repo store.Repository) *Server {
	return &Server{
		finder: NewFinder(repo),
		repo:   repo,
		caser:  cases.Title(language.AmericanEnglish),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/schools/search", s.searchSchools)
	r.GET("/schools/:ncesId", s.getSchoolByNcesID)

	return r
}

// Run serves the API on the given address.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) searchSchools(ctx *gin.Context) {
	lat, err := strconv.ParseFloat(ctx.Query("lat"), 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "lat query parameter is required and must be a number"})

		return
	}

	lng, err := strconv.ParseFloat(ctx.Query("long"), 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "long query parameter is required and must be a number"})

		return
	}

	radius, err := strconv.Atoi(ctx.Query("searchRadius"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "searchRadius query parameter is required and must be an integer"})

		return
	}

	maxResults, err := strconv.Atoi(ctx.Query("maxNumResults"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "maxNumResults query parameter is required and must be an integer"})

		return
	}

	schools, err := s.finder.FindNear(
		spatial.Point{Lat: lat, Lng: lng},
		radius,
		ctx.Query("searchString"),
		maxResults,
	)

	var invalid *InvalidArgumentError

	switch {
	case errors.As(err, &invalid):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": invalid.Reason})

		return
	case err != nil:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	for _, school := range schools {
		school.Name = s.displayName(school.Name)
	}

	if schools == nil {
		schools = []*store.School{}
	}

	ctx.JSON(http.StatusOK, schools)
}

func (s *Server) getSchoolByNcesID(ctx *gin.Context) {
	school, err := s.repo.GetSchoolByNcesID(ctx.Param("ncesId"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if school == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "school not found"})

		return
	}

	school.Name = s.displayName(school.Name)

	ctx.JSON(http.StatusOK, school)
}

// displayName renders the all-caps registry name as title case for
// clients. The stored record keeps the registry spelling.
func (s *Server) displayName(name string) string {
	return s.caser.String(strings.ToLower(name))
}
