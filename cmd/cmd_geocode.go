// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/angiedev/schoolfinder/geocode"
)

var geocodeProvider string

var geocodeCmd = &cobra.Command{
	Use:   "geocode <stateCodeList>",
	Short: "Backfill coordinates for schools without geo data",
	Long: `
Looks up coordinates for the schools in the given states that have none
yet and stores them. States are given as a comma separated list of
2-letter codes (e.g. "CA,OR"); the vendors are quota-limited, so runs
are sized a few states at a time.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		geocoder, err := newGeocoder(cmd.Context(), geocodeProvider)
		if err != nil {
			return err
		}

		db, repo, err := openRepo()
		if err != nil {
			return err
		}
		defer db.Close()

		states := strings.Split(strings.ToUpper(args[0]), ",")

		stats, err := geocode.NewEnricher(repo, geocoder).Enrich(states)

		log.Printf("Geocoding results - %s", &stats)

		return err
	},
}

// newGeocoder builds the configured provider with its credential.
func newGeocoder(ctx context.Context, provider string) (geocode.Geocoder, error) {
	switch provider {
	case "google":
		apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
		if apiKey == "" {
			log.Println("GOOGLE_MAPS_API_KEY is not set, attempting to retrieve via ADC")

			var err error

			apiKey, err = geocode.APIKeyFromADC(ctx)
			if err != nil {
				return nil, fmt.Errorf("retrieving Google Maps API key: %w", err)
			}
		}

		return geocode.NewGoogleGeocoder(apiKey), nil
	case "census":
		return geocode.NewCensusGeocoder(), nil
	case "latlon":
		token := os.Getenv("LATLON_API_TOKEN")
		if token == "" {
			return nil, fmt.Errorf("LATLON_API_TOKEN is not set")
		}

		return geocode.NewLatLonGeocoder(token), nil
	default:
		return nil, fmt.Errorf("unknown geocoding provider %q (expected google, census or latlon)", provider)
	}
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
	geocodeCmd.PersistentFlags().StringVar(
		&geocodeProvider,
		"provider",
		"google",
		"geocoding provider to use: google, census or latlon",
	)
}
