// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the crosscal CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/heliolab/crosscal/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the crosscal CLI.
var rootCmd = &cobra.Command{
	Use:   "crosscal",
	Short: "Cross-calibration file pairing and longitude alignment for solar magnetograms",
	Long: `crosscal cross-calibrates full-disk magnetogram archives captured by
different instruments (512, spmg, mdi, hmi). It locates the observation
files for an instrument and date, matches two instruments' observations
within a time tolerance, scans full overlapping validity ranges into a
pairing index, and evaluates the differential-rotation model used to
align longitude grids across epochs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./crosscal.yaml or ~/.config/crosscal/config.yaml)")
	rootCmd.PersistentFlags().StringP("data-root", "d", "", "root directory of the magnetogram archive")
	rootCmd.PersistentFlags().Bool("debug", false, "print archive search specs on stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("crosscal")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "crosscal"))
		}
	}

	viper.SetEnvPrefix("CROSSCAL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// archiveConfig resolves the archive settings, flag over config file.
func archiveConfig(cmd *cobra.Command) types.ArchiveConfig {
	cfg := types.ArchiveConfig{
		DataRoot: viper.GetString("archive.data_root"),
		Debug:    viper.GetBool("archive.debug"),
	}
	if root, _ := cmd.Flags().GetString("data-root"); root != "" {
		cfg.DataRoot = root
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	if cfg.DataRoot == "" {
		cfg.DataRoot = "data"
	}
	return cfg
}

// cacheDir resolves the overlap cache directory, flag over config file.
func cacheDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("cache-dir")
	if dir == "" {
		dir = viper.GetString("cache.cache_dir")
	}
	if dir == "" {
		dir = "cache"
	}
	return dir
}

// parseDate parses a calendar date argument as YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
