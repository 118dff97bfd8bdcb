// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package finder answers "which schools lie within radius R of point P"
// queries over the geocoded dataset.
package finder

import (
	"fmt"
	"sort"

	"github.com/angiedev/schoolfinder/spatial"
	"github.com/angiedev/schoolfinder/store"
)

// InvalidArgumentError reports malformed search parameters. It is
// returned before any store access happens.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid search argument: " + e.Reason
}

// Finder searches the store for schools near a point.
//
// Searches are read-only and keep no state between calls, so a single
// Finder is safe for concurrent use.
type Finder struct {
	repo store.Repository
}

// NewFinder creates a search engine over the given repository.
func NewFinder(repo store.Repository) *Finder {
	return &Finder{repo: repo}
}

// FindNear returns the schools with known coordinates within
// radiusMiles of center, strictly closer than the radius, capped at
// maxResults. When namePrefix is non-empty, only schools whose name
// starts with it (case-sensitive) match.
//
// The candidate set comes from a cheap bounding-box pre-filter; the
// exact great-circle distance then discards the corners the box
// over-covers. Without a prefix, results are ordered nearest first;
// with a prefix they are ordered by name instead, preserving the
// behavior search clients were built against.
func (f *Finder) FindNear(center spatial.Point, radiusMiles int, namePrefix string, maxResults int) ([]*store.School, error) {
	if !center.Valid() {
		return nil, &InvalidArgumentError{Reason: "coordinates must be finite"}
	}

	if radiusMiles <= 0 {
		return nil, &InvalidArgumentError{Reason: fmt.Sprintf("search radius must be positive, got %d", radiusMiles)}
	}

	if maxResults <= 0 {
		return nil, &InvalidArgumentError{Reason: fmt.Sprintf("max results must be positive, got %d", maxResults)}
	}

	box := spatial.BoundingBoxMiles(center, float64(radiusMiles))

	candidates, err := f.repo.SchoolsInBox(box, namePrefix)
	if err != nil {
		return nil, err
	}

	type scored struct {
		school   *store.School
		distance float64
	}

	matches := make([]scored, 0, len(candidates))

	for _, school := range candidates {
		d := center.DistanceMiles(*school.Location)
		if d < float64(radiusMiles) {
			matches = append(matches, scored{school: school, distance: d})
		}
	}

	if namePrefix == "" {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].distance < matches[j].distance
		})
	} else {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].school.Name < matches[j].school.Name
		})
	}

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	schools := make([]*store.School, len(matches))
	for i, m := range matches {
		schools[i] = m.school
	}

	return schools, nil
}
