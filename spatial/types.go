// Copyright 2025 The SchoolFinder Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"database/sql/driver"
	"fmt"
	"math"
)

// earthRadiusMiles is the Earth radius the whole system computes
// distances against.
const earthRadiusMiles = 3956

// milesPerDegree approximates one degree of latitude (and one degree of
// longitude at the equator) in miles.
const milesPerDegree = 69

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.Lng, p.Lat)
}

// Valid reports whether both coordinates are finite numbers.
func (p Point) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lng) && !math.IsInf(p.Lng, 0)
}

// Value implements the driver.Valuer interface for database serialization.
func (p Point) Value() (driver.Value, error) {
	return p.String(), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (p *Point) Scan(value interface{}) error {
	if value == nil {
		p.Lat, p.Lng = 0, 0

		return nil
	}

	switch v := value.(type) {
	case []byte:
		// The format from DuckDB is "POINT (lng lat)"
		_, err := fmt.Sscanf(string(v), "POINT (%f %f)", &p.Lng, &p.Lat)

		return err
	case map[string]interface{}:
		x, okX := v["x"].(float64)
		y, okY := v["y"].(float64)

		if !okX || !okY {
			return fmt.Errorf("spatial: invalid map for point: expected 'x' and 'y' float64 fields, got %+v", v)
		}

		p.Lng = x
		p.Lat = y

		return nil
	default:
		return fmt.Errorf("spatial: unsupported type for Point scan: %T", value)
	}
}

// DistanceMiles calculates the great-circle distance between two points
// on Earth in miles using the haversine formula.
func (p Point) DistanceMiles(other Point) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - p.Lat) * math.Pi / 180
	dLng := (other.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

// BoundingBox is an axis-aligned latitude/longitude rectangle.
type BoundingBox struct {
	LatMin float64
	LatMax float64
	LngMin float64
	LngMax float64
}

// Contains reports whether the point lies inside the box, bounds included.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.LatMin && p.Lat <= b.LatMax &&
		p.Lng >= b.LngMin && p.Lng <= b.LngMax
}

// BoundingBoxMiles returns a rectangle guaranteed to contain every point
// within radiusMiles of center. The rectangle is a superset: its corners
// reach farther than the radius, so callers still need an exact distance
// check on each candidate.
//
// The longitude band widens as 1/cos(lat) toward the poles. Once the
// band would cover the whole globe the cosine term stops being
// meaningful, so it is clamped to the full longitude range instead of
// letting the division blow up near ±90°.
func BoundingBoxMiles(center Point, radiusMiles float64) BoundingBox {
	latDelta := radiusMiles / milesPerDegree

	box := BoundingBox{
		LatMin: math.Max(center.Lat-latDelta, -90),
		LatMax: math.Min(center.Lat+latDelta, 90),
	}

	cosLat := math.Cos(center.Lat * math.Pi / 180)

	lngDelta := 180.0
	if cosLat > 0 {
		lngDelta = math.Min(radiusMiles/cosLat/milesPerDegree, 180)
	}

	box.LngMin = math.Max(center.Lng-lngDelta, -180)
	box.LngMax = math.Min(center.Lng+lngDelta, 180)

	return box
}
