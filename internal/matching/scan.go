// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package matching

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/heliolab/crosscal/internal/archive"
	"github.com/heliolab/crosscal/pkg/types"
)

// OverlapIndex holds the outcome of a full overlap scan: every matched
// pair across the scanned window, and the ordered dates on which at
// least one match was found. Every date produced at least one pair;
// a date may have produced several.
type OverlapIndex struct {
	Pairs []Pair      `json:"pairs" yaml:"pairs"`
	Dates []time.Time `json:"dates" yaml:"dates"`
}

// referenceRanges substitutes a complementary instrument pair when a
// scan is requested for an instrument against itself, so the scan
// window still bounds a cross-calibration era rather than an
// instrument's full lifetime.
var referenceRanges = map[types.Instrument][2]types.Instrument{
	types.KPVT512: {types.KPVT512, types.SPMG},
	types.SPMG:    {types.KPVT512, types.SPMG},
	types.MDI:     {types.SPMG, types.MDI},
	types.HMI:     {types.MDI, types.HMI},
}

// ScanOverlap walks the intersection of the two instruments' validity
// ranges one calendar day at a time, matching each day with the given
// tolerance. Days without matches are skipped; day advancement is
// unconditional. Progress lines go to w.
//
// The scan returns ErrNoMatches only when the entire window produced
// nothing. For the default tolerance of one day, prefer a precomputed
// overlap cache over rescanning: a multi-year window is dominated by
// filesystem globbing and takes minutes.
func ScanOverlap(loc *archive.Locator, i1, i2 types.Instrument, tolDays int, w io.Writer) (OverlapIndex, error) {
	if !i1.Valid() {
		return OverlapIndex{}, fmt.Errorf("%q: %w", i1, archive.ErrUnknownInstrument)
	}
	if !i2.Valid() {
		return OverlapIndex{}, fmt.Errorf("%q: %w", i2, archive.ErrUnknownInstrument)
	}

	r1, r2 := i1, i2
	if i1 == i2 {
		ref := referenceRanges[i1]
		r1, r2 = ref[0], ref[1]
	}
	start1, end1 := r1.Validity()
	start2, end2 := r2.Validity()
	start, end := laterOf(start1, start2), earlierOf(end1, end2)

	seen := make(map[Pair]struct{})
	var idx OverlapIndex

	for date := start; date.Before(end); date = date.AddDate(0, 0, 1) {
		pairs, err := MatchDay(loc, date, i1, i2, tolDays)
		if err != nil {
			if errors.Is(err, ErrNoMatches) {
				continue
			}
			return OverlapIndex{}, err
		}

		for _, p := range pairs {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			idx.Pairs = append(idx.Pairs, p)
		}
		idx.Dates = append(idx.Dates, date)
		fmt.Fprintf(w, "matched %s: %d pair(s)\n", date.Format("2006-01-02"), len(pairs))
	}

	if len(idx.Pairs) == 0 {
		return OverlapIndex{}, fmt.Errorf("%s/%s over [%s, %s): %w",
			i1, i2, start.Format("2006-01-02"), end.Format("2006-01-02"), ErrNoMatches)
	}
	return idx, nil
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
