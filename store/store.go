// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package store persists districts and schools and answers the
// natural-key and geographic lookups the pipelines are built on.
package store

import (
	"database/sql"

	"github.com/angiedev/schoolfinder/spatial"
)

// District is a school district as published by the NCES registry.
// LeaID is the natural key: at most one district row per LEA id exists.
type District struct {
	DistrictID int64  `json:"district_id"`
	LeaID      string `json:"lea_id"`
	Name       string `json:"name"`
}

// School is a single school from the NCES extract. NcesID is the
// natural key. Location is nil until the school has been geocoded;
// both coordinates are always written together.
type School struct {
	SchoolID      int64          `json:"school_id"`
	NcesID        string         `json:"nces_id"`
	DistrictID    int64          `json:"district_id"`
	Name          string         `json:"name"`
	StreetAddress string         `json:"street_address"`
	City          string         `json:"city"`
	State         string         `json:"state"`
	Zip           string         `json:"zip"`
	Status        int            `json:"status"`
	LowGrade      string         `json:"low_grade"`
	HighGrade     string         `json:"high_grade"`
	Location      *spatial.Point `json:"location,omitempty"`
	H3Res4        int64          `json:"-"`
	H3Res5        int64          `json:"-"`
	H3Res6        int64          `json:"-"`
	H3Res7        int64          `json:"-"`
	H3Res8        int64          `json:"-"`
}

// Repository defines the database operations the loader, the
// enrichment pipeline and the finder depend on.
type Repository interface {
	// CreateSchema creates the districts and schools tables.
	CreateSchema() error

	// GetDistrictByLeaID returns the district with the given LEA id,
	// or nil when no such district exists.
	GetDistrictByLeaID(leaID string) (*District, error)
	// InsertDistrict persists a new district and assigns DistrictID.
	InsertDistrict(d *District) error
	// CountDistricts returns the total number of districts.
	CountDistricts() (int, error)

	// GetSchoolByNcesID returns the school with the given NCES id,
	// or nil when no such school exists.
	GetSchoolByNcesID(ncesID string) (*School, error)
	// InsertSchool persists a new school and assigns SchoolID.
	InsertSchool(s *School) error
	// CountSchools returns the total number of schools.
	CountSchools() (int, error)

	// SchoolsWithoutLocation returns the schools in a state that have
	// not been geocoded yet.
	SchoolsWithoutLocation(state string) ([]*School, error)
	// UpdateSchoolLocation writes both coordinates of a school in a
	// single update, together with the derived H3 cells.
	UpdateSchoolLocation(schoolID int64, p spatial.Point) error

	// SchoolsInBox returns the geocoded schools whose coordinates fall
	// within the box, optionally filtered to names starting with
	// namePrefix, in stable storage order.
	SchoolsInBox(box spatial.BoundingBox, namePrefix string) ([]*School, error)

	// DB returns the underlying database connection.
	DB() *sql.DB
}
