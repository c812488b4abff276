// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package matching finds temporally-matching observation pairs between
// two instruments, per day and across the instruments' full overlapping
// validity ranges.
package matching

import (
	"errors"
	"fmt"
	"time"

	"github.com/heliolab/crosscal/internal/archive"
	"github.com/heliolab/crosscal/pkg/types"
)

// ErrNoMatches reports that a match produced no pairs. Many calendar
// dates have no cross-instrument overlap; callers branch on it with
// errors.Is rather than treating it as fatal.
var ErrNoMatches = errors.New("no matching pairs")

// Pair is an ordered observation-file pair: First from instrument 1,
// Second from instrument 2.
type Pair struct {
	First  string `json:"first" yaml:"first"`
	Second string `json:"second" yaml:"second"`
}

// MatchDay returns the deduplicated pairs of instrument-1 files within
// tolDays of date against instrument-2 files on date itself.
//
// For each day offset, instrument 1 is located at date+offset and
// instrument 2 at date; an offset whose lookups find no files is
// skipped, never fatal. When both lookups resolve the identical file
// list and neither instrument is MDI, the offset is skipped: pairing an
// instrument against its own files is not a calibration pair. MDI is
// exempt; its multi-file mission days are paired against themselves.
func MatchDay(loc *archive.Locator, date time.Time, i1, i2 types.Instrument, tolDays int) ([]Pair, error) {
	var list1, list2 []string

	for k := -tolDays; k <= tolDays; k++ {
		f1, err := loc.Locate(date.AddDate(0, 0, k), i1)
		if err != nil {
			if errors.Is(err, archive.ErrNoFiles) {
				continue
			}
			return nil, err
		}
		f2, err := loc.Locate(date, i2)
		if err != nil {
			if errors.Is(err, archive.ErrNoFiles) {
				continue
			}
			return nil, err
		}
		if samePaths(f1, f2) && i1 != types.MDI && i2 != types.MDI {
			continue
		}
		list1 = appendPaths(list1, f1)
		list2 = appendPaths(list2, f2)
	}

	pairs := crossProduct(list1, list2, i1 == i2)
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%s/%s on %s: %w", i1, i2, date.Format("2006-01-02"), ErrNoMatches)
	}
	return pairs, nil
}

// crossProduct returns every (a, b) combination of the two lists,
// deduplicated. When both sides come from the same instrument the pair
// is unordered: only one of (a, b) and (b, a) is retained.
func crossProduct(list1, list2 []string, unordered bool) []Pair {
	seen := make(map[Pair]struct{})
	var pairs []Pair
	for _, a := range list1 {
		for _, b := range list2 {
			p := Pair{First: a, Second: b}
			key := p
			if unordered && b < a {
				key = Pair{First: b, Second: a}
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, p)
		}
	}
	return pairs
}

func samePaths(a, b []archive.Candidate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Path != b[i].Path {
			return false
		}
	}
	return true
}

func appendPaths(dst []string, cands []archive.Candidate) []string {
	for _, c := range cands {
		dst = append(dst, c.Path)
	}
	return dst
}
