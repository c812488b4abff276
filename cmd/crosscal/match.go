// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/heliolab/crosscal/internal/archive"
	"github.com/heliolab/crosscal/internal/matching"
	"github.com/heliolab/crosscal/pkg/types"
)

var matchCmd = &cobra.Command{
	Use:   "match <instrument1> <instrument2> <date>",
	Short: "Pair two instruments' observations around a target date",
	Long: `Match locates instrument 1's files within the tolerance window of the
target date and pairs them against instrument 2's files on the date
itself. "No matching pairs" is an expected outcome on dates with no
cross-instrument overlap and exits with status 1.`,
	Args: cobra.ExactArgs(3),
	RunE: runMatch,
}

func runMatch(cmd *cobra.Command, args []string) error {
	i1, err := types.ParseInstrument(args[0])
	if err != nil {
		return err
	}
	i2, err := types.ParseInstrument(args[1])
	if err != nil {
		return err
	}
	date, err := parseDate(args[2])
	if err != nil {
		return err
	}

	loc := archive.NewLocator(archiveConfig(cmd))
	pairs, err := matching.MatchDay(loc, date, i1, i2, tolerance(cmd))
	if err != nil {
		if errors.Is(err, matching.ErrNoMatches) {
			fmt.Fprintln(os.Stderr, "No matching pairs.")
		}
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pairs)
	}

	for i, p := range pairs {
		fmt.Printf("%d: (%s, %s)\n", i, p.First, p.Second)
	}
	fmt.Printf("\n%d pair(s)\n", len(pairs))
	return nil
}

// tolerance resolves the match tolerance in days, flag over config file,
// defaulting to 1.
func tolerance(cmd *cobra.Command) int {
	if cmd.Flags().Changed("tolerance") {
		tol, _ := cmd.Flags().GetInt("tolerance")
		return tol
	}
	if viper.IsSet("match.tolerance_days") {
		return viper.GetInt("match.tolerance_days")
	}
	return 1
}

func init() {
	matchCmd.Flags().IntP("tolerance", "t", 1, "time tolerance in days")
	matchCmd.Flags().Bool("json", false, "output pairs as JSON")

	rootCmd.AddCommand(matchCmd)
}
