// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heliolab/crosscal/internal/archive"
	"github.com/heliolab/crosscal/internal/matching"
	"github.com/heliolab/crosscal/internal/overlap"
	"github.com/heliolab/crosscal/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the precomputed overlap cache",
	Long: `Cache manages the SQLite database of precomputed overlap scans that
"crosscal scan" consults instead of re-walking multi-year archive
windows.`,
}

var cacheBuildCmd = &cobra.Command{
	Use:   "build <instrument1> <instrument2>",
	Short: "Scan an instrument pair's overlap and store the index",
	Args:  cobra.ExactArgs(2),
	RunE:  runCacheBuild,
}

func runCacheBuild(cmd *cobra.Command, args []string) error {
	i1, err := types.ParseInstrument(args[0])
	if err != nil {
		return err
	}
	i2, err := types.ParseInstrument(args[1])
	if err != nil {
		return err
	}
	tol := tolerance(cmd)

	loc := archive.NewLocator(archiveConfig(cmd))
	idx, err := matching.ScanOverlap(loc, i1, i2, tol, os.Stderr)
	if err != nil {
		return err
	}

	store, err := overlap.Open(cacheDir(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(context.Background(), i1, i2, tol, idx); err != nil {
		return err
	}
	fmt.Printf("Cached %d pair(s) across %d date(s) for %s/%s at tolerance %d\n",
		len(idx.Pairs), len(idx.Dates), i1, i2, tol)
	return nil
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the cached overlap scans",
	Args:  cobra.NoArgs,
	RunE:  runCacheShow,
}

func runCacheShow(cmd *cobra.Command, args []string) error {
	store, err := overlap.Open(cacheDir(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Cache is empty.")
		return nil
	}

	fmt.Printf("%-6s  %-6s  %-9s  %-7s  %-7s  %s\n",
		"Instr1", "Instr2", "Tolerance", "Pairs", "Dates", "Scanned")
	fmt.Println(strings.Repeat("-", 60))
	for _, e := range entries {
		fmt.Printf("%-6s  %-6s  %-9d  %-7d  %-7d  %s\n",
			e.Instrument1, e.Instrument2, e.ToleranceDays, e.PairCount, e.DateCount,
			e.ScannedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func init() {
	cacheCmd.PersistentFlags().String("cache-dir", "", "overlap cache directory (default: cache)")
	cacheBuildCmd.Flags().IntP("tolerance", "t", 1, "time tolerance in days")

	cacheCmd.AddCommand(cacheBuildCmd)
	cacheCmd.AddCommand(cacheShowCmd)

	rootCmd.AddCommand(cacheCmd)
}
