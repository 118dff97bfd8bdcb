// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/angiedev/schoolfinder/spatial"
	"github.com/uber/h3-go/v4"
)

type sqlRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a Repository backed by DuckDB.
func NewSQLRepository(db *sql.DB) (Repository, error) {
	// DuckDB needs to load the spatial extension
	_, err := db.Exec(`INSTALL spatial; LOAD spatial;`)
	if err != nil {
		return nil, err
	}

	return &sqlRepository{db: db}, nil
}

// DB returns the underlying database connection for advanced queries.
func (r *sqlRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlRepository) CreateSchema() error {
	// The UNIQUE constraints on the natural keys are the backstop
	// against concurrent loader runs racing a lookup-then-insert.
	_, err := r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS districts_seq START 1;

		CREATE TABLE IF NOT EXISTS districts (
			district_id INTEGER PRIMARY KEY DEFAULT nextval('districts_seq'),
			lea_id VARCHAR NOT NULL UNIQUE,
			name VARCHAR NOT NULL
		);

		CREATE SEQUENCE IF NOT EXISTS schools_seq START 1;

		CREATE TABLE IF NOT EXISTS schools (
			school_id INTEGER PRIMARY KEY DEFAULT nextval('schools_seq'),
			nces_id VARCHAR NOT NULL UNIQUE,
			district_id INTEGER NOT NULL,
			name VARCHAR NOT NULL,
			street_address VARCHAR NOT NULL,
			city VARCHAR NOT NULL,
			state VARCHAR NOT NULL,
			zip VARCHAR NOT NULL,
			status INTEGER NOT NULL,
			low_grade VARCHAR NOT NULL,
			high_grade VARCHAR NOT NULL,
			location POINT_2D,
			h3_res4 UBIGINT,
			h3_res5 UBIGINT,
			h3_res6 UBIGINT,
			h3_res7 UBIGINT,
			h3_res8 UBIGINT
		);
	`)

	return err
}

func (r *sqlRepository) GetDistrictByLeaID(leaID string) (*District, error) {
	d := &District{}

	err := r.db.QueryRow(`
		SELECT district_id, lea_id, name
		FROM districts
		WHERE lea_id = ?
	`, leaID).Scan(&d.DistrictID, &d.LeaID, &d.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("querying district %s: %w", leaID, err)
	}

	return d, nil
}

func (r *sqlRepository) InsertDistrict(d *District) error {
	err := r.db.QueryRow(`
		INSERT INTO districts (lea_id, name)
		VALUES (?, ?)
		RETURNING district_id
	`, d.LeaID, d.Name).Scan(&d.DistrictID)
	if err != nil {
		return fmt.Errorf("inserting district %s: %w", d.LeaID, err)
	}

	return nil
}

func (r *sqlRepository) CountDistricts() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM districts").Scan(&count)

	return count, err
}

// nullPoint scans a nullable POINT_2D column.
type nullPoint struct {
	Point spatial.Point
	Valid bool
}

func (n *nullPoint) Scan(value interface{}) error {
	if value == nil {
		n.Valid = false

		return nil
	}

	n.Valid = true

	return n.Point.Scan(value)
}

var schoolSelect = `
	SELECT school_id, nces_id, district_id, name, street_address,
	       city, state, zip, status, low_grade, high_grade, location,
	       h3_res4, h3_res5, h3_res6, h3_res7, h3_res8
	FROM schools
`

func scanSchool(scan func(dest ...any) error) (*School, error) {
	s := &School{}

	var loc nullPoint

	var h3Res4, h3Res5, h3Res6, h3Res7, h3Res8 sql.NullInt64

	err := scan(
		&s.SchoolID, &s.NcesID, &s.DistrictID, &s.Name, &s.StreetAddress,
		&s.City, &s.State, &s.Zip, &s.Status, &s.LowGrade, &s.HighGrade,
		&loc, &h3Res4, &h3Res5, &h3Res6, &h3Res7, &h3Res8,
	)
	if err != nil {
		return nil, err
	}

	if loc.Valid {
		p := loc.Point
		s.Location = &p
	}

	if h3Res4.Valid {
		s.H3Res4 = h3Res4.Int64
	}

	if h3Res5.Valid {
		s.H3Res5 = h3Res5.Int64
	}

	if h3Res6.Valid {
		s.H3Res6 = h3Res6.Int64
	}

	if h3Res7.Valid {
		s.H3Res7 = h3Res7.Int64
	}

	if h3Res8.Valid {
		s.H3Res8 = h3Res8.Int64
	}

	return s, nil
}

func (r *sqlRepository) GetSchoolByNcesID(ncesID string) (*School, error) {
	s, err := scanSchool(r.db.QueryRow(schoolSelect+" WHERE nces_id = ?", ncesID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("querying school %s: %w", ncesID, err)
	}

	return s, nil
}

func (r *sqlRepository) InsertSchool(s *School) error {
	err := r.db.QueryRow(`
		INSERT INTO schools (
			nces_id, district_id, name, street_address,
			city, state, zip, status, low_grade, high_grade
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING school_id
	`,
		s.NcesID,
		s.DistrictID,
		s.Name,
		s.StreetAddress,
		s.City,
		s.State,
		s.Zip,
		s.Status,
		s.LowGrade,
		s.HighGrade,
	).Scan(&s.SchoolID)
	if err != nil {
		return fmt.Errorf("inserting school %s: %w", s.NcesID, err)
	}

	return nil
}

func (r *sqlRepository) CountSchools() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM schools").Scan(&count)

	return count, err
}

func (r *sqlRepository) list(query string, args []any) ([]*School, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schools []*School

	for rows.Next() {
		s, err := scanSchool(rows.Scan)
		if err != nil {
			return nil, err
		}

		schools = append(schools, s)
	}

	return schools, rows.Err()
}

func (r *sqlRepository) SchoolsWithoutLocation(state string) ([]*School, error) {
	schools, err := r.list(
		schoolSelect+" WHERE state = ? AND location IS NULL ORDER BY school_id",
		[]any{state},
	)
	if err != nil {
		return nil, fmt.Errorf("querying schools without location in %s: %w", state, err)
	}

	return schools, nil
}

// computeH3 derives the H3 cells stored next to every geocoded point.
// Resolutions 4 through 8 cover regional roll-ups down to roughly a
// city-block neighborhood.
func computeH3(p spatial.Point) ([5]int64, error) {
	var cells [5]int64

	latLng := h3.NewLatLng(p.Lat, p.Lng)

	for i := range cells {
		cell, err := h3.LatLngToCell(latLng, i+4)
		if err != nil {
			return cells, fmt.Errorf("error converting to h3 cell at res %d: %w", i+4, err)
		}

		cells[i] = int64(cell)
	}

	return cells, nil
}

func (r *sqlRepository) UpdateSchoolLocation(schoolID int64, p spatial.Point) error {
	cells, err := computeH3(p)
	if err != nil {
		return err
	}

	res, err := r.db.Exec(`
		UPDATE schools
		SET location = ST_Point(?, ?),
		    h3_res4 = ?, h3_res5 = ?, h3_res6 = ?, h3_res7 = ?, h3_res8 = ?
		WHERE school_id = ?
	`, p.Lng, p.Lat, cells[0], cells[1], cells[2], cells[3], cells[4], schoolID)
	if err != nil {
		return fmt.Errorf("updating school %d location: %w", schoolID, err)
	}

	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("updating school %d location: no such school", schoolID)
	}

	return err
}

// escapeLike quotes LIKE metacharacters so a prefix is always matched
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)

	return s
}

func (r *sqlRepository) SchoolsInBox(box spatial.BoundingBox, namePrefix string) ([]*School, error) {
	query := schoolSelect + `
		WHERE location IS NOT NULL
		  AND ST_Y(location) BETWEEN ? AND ?
		  AND ST_X(location) BETWEEN ? AND ?
	`
	args := []any{box.LatMin, box.LatMax, box.LngMin, box.LngMax}

	if namePrefix != "" {
		query += ` AND name LIKE ? ESCAPE '\'`

		args = append(args, escapeLike(namePrefix)+"%")
	}

	query += " ORDER BY school_id"

	schools, err := r.list(query, args)
	if err != nil {
		return nil, fmt.Errorf("querying schools in box: %w", err)
	}

	return schools, nil
}
