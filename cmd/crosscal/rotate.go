// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/heliolab/crosscal/internal/align"
)

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Evaluate the differential-rotation model",
	Long: `Rotate prints the synodic differential-rotation angle, in degrees, for
a heliographic latitude after an elapsed time. This is the per-pixel
correction the longitude aligner adds when re-projecting one
observation onto another's epoch.`,
	Args: cobra.NoArgs,
	RunE: runRotate,
}

func runRotate(cmd *cobra.Command, args []string) error {
	lat, _ := cmd.Flags().GetFloat64("lat")
	dt, _ := cmd.Flags().GetDuration("dt")
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %g out of range [-90, 90]", lat)
	}

	angle := align.RotationAngle(dt.Seconds(), lat)
	fmt.Printf("%.6f\n", angle)
	return nil
}

func init() {
	rotateCmd.Flags().Float64("lat", 0, "heliographic latitude in degrees")
	rotateCmd.Flags().Duration("dt", 24*time.Hour, "elapsed time between observations (e.g. 24h, -36h)")

	rootCmd.AddCommand(rotateCmd)
}
