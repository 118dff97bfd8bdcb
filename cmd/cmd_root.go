// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"

	"github.com/angiedev/schoolfinder/store"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "schoolfinder",
	Short: "search US schools near a location",
	Long: `
schoolfinder loads the NCES school and district extract, backfills
coordinates through a geocoding provider, and serves radius searches
over the resulting dataset.
`,
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&dbPath,
		"db-path",
		"db",
		"base directory where the database is stored",
	)
}

func databaseFile() string {
	return filepath.Join(dbPath, "schoolfinder.duckdb")
}

// openRepo opens the database and prepares the schema.
func openRepo() (*sql.DB, store.Repository, error) {
	if err := os.MkdirAll(dbPath, 0o750); err != nil {
		return nil, nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("duckdb", databaseFile())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	repo, err := store.NewSQLRepository(db)
	if err != nil {
		db.Close()

		return nil, nil, fmt.Errorf("initializing repository: %w", err)
	}

	if err := repo.CreateSchema(); err != nil {
		db.Close()

		return nil, nil, fmt.Errorf("creating schema: %w", err)
	}

	return db, repo, nil
}
