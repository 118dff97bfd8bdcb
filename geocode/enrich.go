// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"fmt"
	"log"

	"github.com/angiedev/schoolfinder/store"
)

// Stats tallies the outcome of an enrichment run. NoResult counts the
// schools whose address the vendor affirmatively could not match; it is
// neither a success nor a failure.
type Stats struct {
	Geocoded int
	NoResult int
	Failed   int
}

// Merge combines the stats from another run into this one.
func (s *Stats) Merge(other *Stats) *Stats {
	if other == nil {
		return s
	}

	s.Geocoded += other.Geocoded
	s.NoResult += other.NoResult
	s.Failed += other.Failed

	return s
}

func (s *Stats) String() string {
	return fmt.Sprintf("%d geocoded, %d without match, %d failed", s.Geocoded, s.NoResult, s.Failed)
}

// Enricher backfills coordinates for schools that have none, one state
// at a time. Runs are sized per state because the vendors are
// quota-limited.
type Enricher struct {
	repo     store.Repository
	geocoder Geocoder
}

// NewEnricher creates an enrichment pipeline using the given provider.
func NewEnricher(repo store.Repository, geocoder Geocoder) *Enricher {
	return &Enricher{repo: repo, geocoder: geocoder}
}

// Enrich geocodes every school without coordinates in the given states,
// in order. A vendor failure on one school is logged and counted but
// never aborts the run: a quota-limited external dependency must not be
// able to crash a long batch. Store errors do abort, carrying the stats
// accumulated so far.
func (e *Enricher) Enrich(states []string) (Stats, error) {
	var stats Stats

	for _, state := range states {
		schools, err := e.repo.SchoolsWithoutLocation(state)
		if err != nil {
			return stats, fmt.Errorf("fetching schools for %s: %w", state, err)
		}

		log.Printf("Geocoding %d schools in %s", len(schools), state)

		for _, school := range schools {
			point, found, err := e.geocoder.Resolve(Address{
				Street: school.StreetAddress,
				City:   school.City,
				State:  school.State,
				Zip:    school.Zip,
			})
			if err != nil {
				stats.Failed++

				log.Printf("Geocoding school %s (%s) failed - %v", school.NcesID, school.Name, err)

				continue
			}

			if !found {
				stats.NoResult++

				log.Printf("No match for school %s (%s) at %q", school.NcesID, school.Name, school.StreetAddress)

				continue
			}

			if err := e.repo.UpdateSchoolLocation(school.SchoolID, point); err != nil {
				return stats, fmt.Errorf("storing location for school %s: %w", school.NcesID, err)
			}

			stats.Geocoded++
		}
	}

	return stats, nil
}
