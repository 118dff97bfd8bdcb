// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/angiedev/schoolfinder/loader"
	"github.com/angiedev/schoolfinder/spatial"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seeds the database with data from cmd/testdata/schools.tsv",
		RunE: func(_ *cobra.Command, _ []string) error {
			return seedDatabase()
		},
	}
}

func init() {
	rootCmd.AddCommand(newSeedCmd())
}

// Coordinates applied after the seed load so searches work without
// calling a geocoding vendor.
var seedLocations = map[string]spatial.Point{
	"063432005689": {Lat: 37.2205341, Lng: -121.8690651},
	"063432005690": {Lat: 37.2077983, Lng: -121.8515333},
	"063432005691": {Lat: 37.2881426, Lng: -121.9058075},
}

func seedDatabase() error {
	// remove old db if it exists
	_ = os.Remove(databaseFile())
	_ = os.Remove(databaseFile() + ".wal")

	db, repo, err := openRepo()
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Open("cmd/testdata/schools.tsv")
	if err != nil {
		return fmt.Errorf("opening schools.tsv: %w", err)
	}
	defer f.Close()

	stats, err := loader.NewLoader(repo, nil).Load(f)
	if err != nil {
		return fmt.Errorf("loading seed data: %w", err)
	}

	for ncesID, point := range seedLocations {
		school, err := repo.GetSchoolByNcesID(ncesID)
		if err != nil {
			return fmt.Errorf("looking up seed school %s: %w", ncesID, err)
		}

		if school == nil {
			return fmt.Errorf("seed school %s not found after load", ncesID)
		}

		if err := repo.UpdateSchoolLocation(school.SchoolID, point); err != nil {
			return fmt.Errorf("setting seed location for %s: %w", ncesID, err)
		}
	}

	fmt.Printf("Database seeded successfully: %s\n", &stats)

	return nil
}
