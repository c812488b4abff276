// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive locates observation files in the magnetogram archive
// and selects the best file when a mission day has several.
//
// The archive is laid out per instrument: KPVT and SPMG file by
// two-digit-year/month subdirectories with date-stamped filenames, MDI
// files by year and mission-day number, and HMI keeps a flat directory
// of date-stamped files.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/heliolab/crosscal/pkg/types"
)

// Sentinel errors for the two lookup outcomes callers branch on.
// ErrNoFiles is an expected negative during sparse-overlap scans and
// must never abort a multi-day scan.
var (
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrNoFiles           = errors.New("no files found")
)

// Candidate is an observation file located for one instrument and
// calendar date.
type Candidate struct {
	Path       string
	Instrument types.Instrument
	Date       time.Time
}

// Locator resolves instrument/date queries against the archive. It
// holds no state beyond its configuration; all lookups are filesystem
// reads.
type Locator struct {
	cfg types.ArchiveConfig
	log io.Writer
}

// NewLocator returns a Locator for the archive described by cfg.
func NewLocator(cfg types.ArchiveConfig) *Locator {
	log := io.Discard
	if cfg.Debug {
		log = os.Stderr
	}
	return &Locator{cfg: cfg, log: log}
}

// Locate returns every observation file for the instrument on the given
// calendar date, sorted so the canonical choice is last. An empty glob
// expansion returns ErrNoFiles; an unrecognized instrument returns
// ErrUnknownInstrument.
func (l *Locator) Locate(date time.Time, instr types.Instrument) ([]Candidate, error) {
	if !instr.Valid() {
		return nil, fmt.Errorf("%q: %w", instr, ErrUnknownInstrument)
	}

	subdir, pattern := layout(date, instr)
	searchspec := filepath.Join(l.cfg.DataRoot, instr.StorageName(), subdir, pattern)
	fmt.Fprintf(l.log, "searchspec: %s\n", searchspec)

	paths, err := filepath.Glob(searchspec)
	if err != nil {
		return nil, fmt.Errorf("expanding %s: %w", searchspec, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s on %s: %w", instr, date.Format("2006-01-02"), ErrNoFiles)
	}
	sort.Strings(paths)

	cands := make([]Candidate, len(paths))
	for i, p := range paths {
		cands[i] = Candidate{Path: p, Instrument: instr, Date: date}
	}
	return cands, nil
}

// LocateBest locates the single file that best represents the mission
// day. MDI days routinely hold several observations, so the candidates
// are normalized and run through the quality heuristic; every other
// instrument takes the last candidate.
func (l *Locator) LocateBest(date time.Time, instr types.Instrument, hdr HeaderReader) (Candidate, error) {
	cands, err := l.Locate(date, instr)
	if err != nil {
		return Candidate{}, err
	}
	if instr != types.MDI {
		return cands[len(cands)-1], nil
	}
	Normalize(cands, hdr, l.log)
	return SelectBest(cands, hdr)
}

// layout returns the instrument's archive subdirectory and filename
// glob for the date.
func layout(date time.Time, instr types.Instrument) (subdir, pattern string) {
	switch instr {
	case types.KPVT512, types.SPMG:
		subdir = fmt.Sprintf("%d%02d", date.Year()-1900, int(date.Month()))
		pattern = "*" + date.Format("20060102") + "*.fits"
	case types.MDI:
		md := instr.MissionDay(date)
		subdir = filepath.Join(strconv.Itoa(date.Year()), fmt.Sprintf("fd_M_96m_01d.%06d", md))
		pattern = fmt.Sprintf("fd_M_96m_01d.%d.0*.fits", md)
	case types.HMI:
		pattern = "*" + date.Format("20060102") + "*.fits"
	}
	return subdir, pattern
}
