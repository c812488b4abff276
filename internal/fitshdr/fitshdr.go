// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fitshdr reads and normalizes observation metadata in FITS
// primary headers. Key names follow the archive conventions and must not
// change: INTERVAL and MISSVALS carry the per-day quality metrics,
// INSTRUME tags the observing instrument, and the observation time lives
// under DATE_OBS, DATE-OBS, or T_OBS depending on the archive vintage.
package fitshdr

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/astrogo/fitsio"
)

// Archive header keys.
const (
	KeyInterval   = "INTERVAL"
	KeyMissVals   = "MISSVALS"
	KeyInstrument = "INSTRUME"
)

// obsTimeKeys lists the observation-time keys in lookup order. Older
// archives are inconsistent about which one they carry.
var obsTimeKeys = []string{"DATE_OBS", "DATE-OBS", "T_OBS"}

// obsTimeLayouts lists the timestamp layouts seen across the archives.
var obsTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006.01.02_15:04:05_TAI",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Quality holds the per-candidate selection metrics for a mission day.
type Quality struct {
	// Interval is the observation interval in minutes. An empty header
	// value reads as zero.
	Interval int

	// MissVals is the number of missing pixel values in the observation.
	MissVals int
}

// Reader provides header access backed by the on-disk FITS files.
// The zero value is ready to use.
type Reader struct{}

// Quality reads the INTERVAL and MISSVALS metrics from the primary
// header of the file at path. A header lacking either key is an error;
// callers treat it as "skip this candidate", not as fatal.
func (Reader) Quality(path string) (Quality, error) {
	var q Quality
	err := withHeader(path, func(hdr *fitsio.Header) error {
		card := hdr.Get(KeyInterval)
		if card == nil {
			return fmt.Errorf("%s: header lacks %s", path, KeyInterval)
		}
		interval, err := intValue(card.Value)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", path, KeyInterval, err)
		}

		card = hdr.Get(KeyMissVals)
		if card == nil {
			return fmt.Errorf("%s: header lacks %s", path, KeyMissVals)
		}
		miss, err := intValue(card.Value)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", path, KeyMissVals, err)
		}

		q = Quality{Interval: interval, MissVals: miss}
		return nil
	})
	return q, err
}

// ObservationTime returns the observation timestamp from the primary
// header, trying DATE_OBS, DATE-OBS, and T_OBS in that order.
func (Reader) ObservationTime(path string) (time.Time, error) {
	var ts time.Time
	err := withHeader(path, func(hdr *fitsio.Header) error {
		for _, key := range obsTimeKeys {
			card := hdr.Get(key)
			if card == nil {
				continue
			}
			s, ok := card.Value.(string)
			if !ok {
				continue
			}
			t, err := parseObsTime(s)
			if err != nil {
				return fmt.Errorf("%s: %s: %w", path, key, err)
			}
			ts = t
			return nil
		}
		return fmt.Errorf("%s: no observation-time key in header", path)
	})
	return ts, err
}

// EnsureInstrument appends an INSTRUME card to the primary header when
// the file lacks one, rewriting the file in place. Files that already
// carry the tag are left untouched.
func (Reader) EnsureInstrument(path, instrument string) error {
	r, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	f, err := fitsio.Open(r)
	if err != nil {
		return fmt.Errorf("reading FITS %s: %w", path, err)
	}
	defer f.Close()

	hdr := f.HDU(0).Header()
	if hdr.Get(KeyInstrument) != nil {
		return nil
	}

	if err := hdr.Append(fitsio.Card{
		Name:    KeyInstrument,
		Value:   instrument,
		Comment: "observing instrument",
	}); err != nil {
		return fmt.Errorf("appending %s card: %w", KeyInstrument, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".fitshdr-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	out, err := fitsio.Create(tmp)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("creating FITS writer: %w", err)
	}
	for i := 0; i < len(f.HDUs()); i++ {
		if err := out.Write(f.HDU(i)); err != nil {
			out.Close()
			tmp.Close()
			return fmt.Errorf("rewriting HDU %d of %s: %w", i, path, err)
		}
	}
	if err := out.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("finalizing rewrite of %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}

// withHeader opens the file at path and invokes fn with the primary
// header.
func withHeader(path string, fn func(*fitsio.Header) error) error {
	r, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	f, err := fitsio.Open(r)
	if err != nil {
		return fmt.Errorf("reading FITS %s: %w", path, err)
	}
	defer f.Close()

	return fn(f.HDU(0).Header())
}

// intValue coerces a header card value to int. Archive headers store
// these metrics inconsistently as integers, floats, or strings; an
// empty string reads as zero.
func intValue(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		return int(x), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("non-numeric value %q", x)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}

func parseObsTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range obsTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
