// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocode resolves school street addresses to coordinates
// through interchangeable vendor APIs and backfills the results into
// the store.
package geocode

import (
	"strings"

	"github.com/angiedev/schoolfinder/spatial"
)

// Address is the component form every vendor request is built from.
type Address struct {
	Street string
	City   string
	State  string // 2-letter code
	Zip    string
}

// String renders the address as the single query line the vendors take.
func (a Address) String() string {
	return strings.Join([]string{a.Street, a.City, a.State, a.Zip}, ",")
}

// Geocoder resolves a street address to coordinates.
//
// The boolean result distinguishes the vendor affirmatively reporting
// zero matches (false, nil error) from an actual failure. Callers must
// treat the no-match case as skippable, never as an error.
type Geocoder interface {
	Resolve(addr Address) (spatial.Point, bool, error)
}
