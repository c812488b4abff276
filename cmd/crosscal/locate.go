// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heliolab/crosscal/internal/archive"
	"github.com/heliolab/crosscal/internal/fitshdr"
	"github.com/heliolab/crosscal/pkg/types"
)

var locateCmd = &cobra.Command{
	Use:   "locate <instrument> <date>",
	Short: "List the archive files for an instrument and calendar date",
	Long: `Locate resolves the archive layout for the instrument and expands the
date's filename pattern. With --best, the single file that best
represents the mission day is printed instead: for MDI the candidate
with the best INTERVAL/MISSVALS quality metrics, for every other
instrument the last candidate.`,
	Args: cobra.ExactArgs(2),
	RunE: runLocate,
}

func runLocate(cmd *cobra.Command, args []string) error {
	instr, err := types.ParseInstrument(args[0])
	if err != nil {
		return err
	}
	date, err := parseDate(args[1])
	if err != nil {
		return err
	}

	loc := archive.NewLocator(archiveConfig(cmd))

	best, _ := cmd.Flags().GetBool("best")
	if best {
		c, err := loc.LocateBest(date, instr, fitshdr.Reader{})
		if err != nil {
			return err
		}
		fmt.Println(c.Path)
		return nil
	}

	cands, err := loc.Locate(date, instr)
	if err != nil {
		return err
	}
	for _, c := range cands {
		fmt.Println(c.Path)
	}
	return nil
}

func init() {
	locateCmd.Flags().Bool("best", false, "print only the best file for the mission day")

	rootCmd.AddCommand(locateCmd)
}
