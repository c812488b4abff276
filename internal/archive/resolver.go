// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"fmt"
	"io"

	"github.com/heliolab/crosscal/internal/fitshdr"
)

// Quality is the per-candidate selection metrics read from a file's
// header.
type Quality = fitshdr.Quality

// HeaderReader provides the observation-header access the resolver
// needs. fitshdr.Reader is the production implementation.
type HeaderReader interface {
	// Quality returns the INTERVAL/MISSVALS metrics for the file. An
	// error means the header lacks a quality key; the candidate is
	// skipped, it is not fatal.
	Quality(path string) (Quality, error)

	// EnsureInstrument writes the INSTRUME tag into the file's header
	// when absent.
	EnsureInstrument(path, instrument string) error
}

// Normalize writes the instrument tag into every candidate whose header
// lacks one, so downstream consumers see consistent metadata. Write
// failures are reported on w and do not abort; selection can proceed on
// an un-normalized file.
func Normalize(cands []Candidate, hdr HeaderReader, w io.Writer) {
	for _, c := range cands {
		if err := hdr.EnsureInstrument(c.Path, c.Instrument.StorageName()); err != nil {
			fmt.Fprintf(w, "warning: normalize %s: %v\n", c.Path, err)
		}
	}
}

// SelectBest picks the single candidate that best represents a mission
// day. The last candidate is the deterministic fallback; a candidate
// replaces the current best only when its interval is at least as large
// and its missing-value count is strictly smaller. Candidates whose
// header lacks a quality key are skipped.
//
// SelectBest is pure: repeated calls over unchanged headers return the
// same candidate.
func SelectBest(cands []Candidate, hdr HeaderReader) (Candidate, error) {
	if len(cands) == 0 {
		return Candidate{}, fmt.Errorf("select best: empty candidate list")
	}

	best := cands[len(cands)-1]
	bestInterval := 0
	bestMiss := 100000

	for _, c := range cands {
		q, err := hdr.Quality(c.Path)
		if err != nil {
			continue
		}
		if q.Interval >= bestInterval && q.MissVals < bestMiss {
			best = c
			bestInterval = q.Interval
			bestMiss = q.MissVals
		}
	}
	return best, nil
}
