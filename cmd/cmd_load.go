// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/angiedev/schoolfinder/loader"
)

var loadCmd = &cobra.Command{
	Use:   "load <dataFile>",
	Short: "Load the NCES school and district extract into the database",
	Long: `
Parses the tab-separated NCES extract and inserts the districts and
schools that are not in the database yet. The load is idempotent:
re-running it over the same file adds nothing.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		db, repo, err := openRepo()
		if err != nil {
			return err
		}
		defer db.Close()

		rows, err := countDataRows(args[0])
		if err != nil {
			return err
		}

		f, err := os.Open(filepath.Clean(args[0]))
		if err != nil {
			return fmt.Errorf("opening data file: %w", err)
		}
		defer f.Close()

		var options loader.Options

		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar := progressbar.NewOptions(rows,
				progressbar.OptionSetDescription("Loading "+filepath.Base(args[0])),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			options.Progress = func() { _ = bar.Add(1) }
		}

		stats, err := loader.NewLoader(repo, &options).Load(f)

		// The counters are reported even when the run aborts midway.
		log.Printf("Load results - %s", &stats)

		return err
	},
}

// countDataRows counts the data rows in the extract, excluding the
// header, to size the progress bar.
func countDataRows(path string) (int, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return 0, fmt.Errorf("opening data file: %w", err)
	}
	defer f.Close()

	var n int

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n++
	}

	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}

	if n > 0 {
		n--
	}

	return n, nil
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
