// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/angiedev/schoolfinder/finder"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the school search REST API",
	RunE: func(_ *cobra.Command, _ []string) error {
		db, repo, err := openRepo()
		if err != nil {
			return err
		}
		defer db.Close()

		log.Printf("schoolfinder %s serving on %s", Version, serveListen)

		return finder.NewServer(repo).Run(serveListen)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.PersistentFlags().StringVar(
		&serveListen,
		"listen",
		"localhost:8080",
		"address to listen on",
	)
}
