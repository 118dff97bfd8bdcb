// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package loader populates the store from the NCES flat extract of
// public and private elementary and secondary schools.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/angiedev/schoolfinder/store"
)

// Data field positions in the tab-separated input file.
const (
	fieldNcesID = iota
	fieldLeaID
	fieldDistrict
	fieldSchool
	fieldAddress
	fieldCity
	fieldState
	fieldZip
	fieldStatus
	fieldLowGrade
	fieldHighGrade

	fieldCount
)

// ParseError reports a malformed input row. It aborts the run; the
// counters accumulated up to that row are still reported.
type ParseError struct {
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Reason, e.Err)
	}

	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Stats tallies a load run. Districts and Schools count the rows
// processed; NewDistricts and NewSchools count the records actually
// created, which is zero when re-running over already loaded input.
type Stats struct {
	Districts    int
	NewDistricts int
	Schools      int
	NewSchools   int
}

// Merge combines the stats from another run into this one.
func (s *Stats) Merge(other *Stats) *Stats {
	if other == nil {
		return s
	}

	s.Districts += other.Districts
	s.NewDistricts += other.NewDistricts
	s.Schools += other.Schools
	s.NewSchools += other.NewSchools

	return s
}

func (s *Stats) String() string {
	return fmt.Sprintf(
		"%d districts processed (%d added), %d schools processed (%d added)",
		s.Districts, s.NewDistricts, s.Schools, s.NewSchools,
	)
}

// Options configures a Loader.
type Options struct {
	// Progress, when set, is called once per data row.
	Progress func()
}

// Loader reconciles the flat extract against existing records by
// natural key, inserting only what is missing. Re-running it over the
// same or overlapping input creates nothing new.
type Loader struct {
	repo    store.Repository
	options Options
}

// NewLoader creates a loader over the given repository.
func NewLoader(repo store.Repository, options *Options) *Loader {
	if options == nil {
		options = &Options{}
	}

	return &Loader{repo: repo, options: *options}
}

// Load parses the extract and inserts the districts and schools that do
// not exist yet. The first row is the header and is always skipped.
//
// The extract groups rows by district, so the last seen LEA id is
// memoized to skip a district lookup per school row. The memo is a
// performance hint only: rows for a district arriving out of order
// still resolve correctly through the natural-key lookup, they just pay
// for redundant queries.
func (l *Loader) Load(r io.Reader) (Stats, error) {
	var stats Stats

	scanner := bufio.NewScanner(r)

	if scanner.Scan() {
		// header row
		_ = scanner.Text()
	}

	var lastLeaID string

	var district *store.District

	line := 1

	for scanner.Scan() {
		line++

		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != fieldCount {
			return stats, &ParseError{
				Line:   line,
				Reason: fmt.Sprintf("expected %d tab-separated fields, got %d", fieldCount, len(fields)),
			}
		}

		if district == nil || fields[fieldLeaID] != lastLeaID {
			stats.Districts++

			var err error

			district, err = l.repo.GetDistrictByLeaID(fields[fieldLeaID])
			if err != nil {
				return stats, err
			}

			if district == nil {
				district = &store.District{
					LeaID: fields[fieldLeaID],
					Name:  fields[fieldDistrict],
				}

				if err := l.repo.InsertDistrict(district); err != nil {
					return stats, err
				}

				stats.NewDistricts++
			}

			lastLeaID = district.LeaID
		}

		status, err := strconv.Atoi(fields[fieldStatus])
		if err != nil {
			return stats, &ParseError{
				Line:   line,
				Reason: fmt.Sprintf("non-numeric status code %q", fields[fieldStatus]),
				Err:    err,
			}
		}

		stats.Schools++

		school, err := l.repo.GetSchoolByNcesID(fields[fieldNcesID])
		if err != nil {
			return stats, err
		}

		if school == nil {
			school = &store.School{
				NcesID:        fields[fieldNcesID],
				DistrictID:    district.DistrictID,
				Name:          fields[fieldSchool],
				StreetAddress: fields[fieldAddress],
				City:          fields[fieldCity],
				State:         fields[fieldState],
				Zip:           fields[fieldZip],
				Status:        status,
				LowGrade:      fields[fieldLowGrade],
				HighGrade:     fields[fieldHighGrade],
			}

			if err := l.repo.InsertSchool(school); err != nil {
				return stats, err
			}

			stats.NewSchools++
		}

		if l.options.Progress != nil {
			l.options.Progress()
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("reading input: %w", err)
	}

	return stats, nil
}
