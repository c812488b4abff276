// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/heliolab/crosscal/internal/archive"
	"github.com/heliolab/crosscal/internal/matching"
	"github.com/heliolab/crosscal/internal/overlap"
	"github.com/heliolab/crosscal/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan <instrument1> <instrument2>",
	Short: "Scan the instruments' overlapping validity range for matched pairs",
	Long: `Scan walks the intersection of the two instruments' operational date
ranges one day at a time and accumulates every matched pair plus the
dates on which matches were found. A multi-year window takes minutes of
filesystem globbing, so for the default tolerance of 1 day a precomputed
cache entry (see "crosscal cache build") is used when present; --rescan
forces a fresh walk.

Scanning an instrument against itself substitutes a fixed complementary
reference pair for the window bounds.`,
	Args: cobra.ExactArgs(2),
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	i1, err := types.ParseInstrument(args[0])
	if err != nil {
		return err
	}
	i2, err := types.ParseInstrument(args[1])
	if err != nil {
		return err
	}
	tol := tolerance(cmd)
	rescan, _ := cmd.Flags().GetBool("rescan")

	idx, fromCache, err := loadOrScan(cmd, i1, i2, tol, rescan)
	if err != nil {
		return err
	}
	if fromCache {
		fmt.Fprintln(os.Stderr, "Using cached overlap index.")
	}

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := exportIndex(idx, exportPath); err != nil {
			return err
		}
		fmt.Printf("Exported overlap index to %s\n", exportPath)
	}

	showDates, _ := cmd.Flags().GetBool("dates")
	if showDates {
		for _, d := range idx.Dates {
			fmt.Println(d.Format("2006-01-02"))
		}
	}
	fmt.Printf("%d pair(s) across %d matched date(s)\n", len(idx.Pairs), len(idx.Dates))
	return nil
}

// loadOrScan consults the overlap cache for the default tolerance and
// falls back to a full scan, caching the result for next time.
func loadOrScan(cmd *cobra.Command, i1, i2 types.Instrument, tol int, rescan bool) (matching.OverlapIndex, bool, error) {
	store, err := overlap.Open(cacheDir(cmd))
	if err != nil {
		return matching.OverlapIndex{}, false, err
	}
	defer store.Close()

	ctx := context.Background()

	if tol == 1 && !rescan {
		idx, ok, err := store.Load(ctx, i1, i2, tol)
		if err != nil {
			return matching.OverlapIndex{}, false, err
		}
		if ok {
			return idx, true, nil
		}
	}

	loc := archive.NewLocator(archiveConfig(cmd))
	idx, err := matching.ScanOverlap(loc, i1, i2, tol, os.Stderr)
	if err != nil {
		return matching.OverlapIndex{}, false, err
	}

	if err := store.Save(ctx, i1, i2, tol, idx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: caching overlap index failed: %v\n", err)
	}
	return idx, false, nil
}

func exportIndex(idx matching.OverlapIndex, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()
	if err := enc.Encode(idx); err != nil {
		return fmt.Errorf("encoding overlap index: %w", err)
	}
	return nil
}

func init() {
	scanCmd.Flags().IntP("tolerance", "t", 1, "time tolerance in days")
	scanCmd.Flags().Bool("dates", false, "print the matched-date sequence")
	scanCmd.Flags().Bool("rescan", false, "ignore the cache and rescan the archive")
	scanCmd.Flags().String("cache-dir", "", "overlap cache directory (default: cache)")
	scanCmd.Flags().String("export", "", "write the overlap index to a YAML file")

	rootCmd.AddCommand(scanCmd)
}
