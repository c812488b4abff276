// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/heliolab/crosscal/pkg/types"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// writeFile creates an empty archive file under root at the given
// relative path.
func writeFile(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("fits"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// mdiFile returns the archive-relative path of an MDI file for the
// date, with the given observation sequence suffix.
func mdiFile(date time.Time, seq string) string {
	md := types.MDI.MissionDay(date)
	return filepath.Join("MDI", fmt.Sprintf("%d", date.Year()),
		fmt.Sprintf("fd_M_96m_01d.%06d", md),
		fmt.Sprintf("fd_M_96m_01d.%d.%s.fits", md, seq))
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name    string
		instr   types.Instrument
		date    time.Time
		subdir  string
		pattern string
	}{
		{"512", types.KPVT512, day(1980, 2, 3), "8002", "*19800203*.fits"},
		{"spmg", types.SPMG, day(1996, 4, 15), "9604", "*19960415*.fits"},
		{"spmg december", types.SPMG, day(1999, 12, 30), "9912", "*19991230*.fits"},
		{"hmi", types.HMI, day(2011, 4, 10), "", "*20110410*.fits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subdir, pattern := layout(tt.date, tt.instr)
			if subdir != tt.subdir {
				t.Errorf("subdir = %q, want %q", subdir, tt.subdir)
			}
			if pattern != tt.pattern {
				t.Errorf("pattern = %q, want %q", pattern, tt.pattern)
			}
		})
	}
}

func TestLayoutMDI(t *testing.T) {
	date := day(2011, 4, 10)
	md := types.MDI.MissionDay(date)

	subdir, pattern := layout(date, types.MDI)
	wantSubdir := filepath.Join("2011", fmt.Sprintf("fd_M_96m_01d.%06d", md))
	if subdir != wantSubdir {
		t.Errorf("subdir = %q, want %q", subdir, wantSubdir)
	}
	wantPattern := fmt.Sprintf("fd_M_96m_01d.%d.0*.fits", md)
	if pattern != wantPattern {
		t.Errorf("pattern = %q, want %q", pattern, wantPattern)
	}
}

func TestLocate(t *testing.T) {
	root := t.TempDir()
	date := day(2011, 4, 10)

	hmiPath := writeFile(t, root, filepath.Join("HMI", "hmi_m_720s_20110410_120000.fits"))
	mdiA := writeFile(t, root, mdiFile(date, "0001"))
	mdiB := writeFile(t, root, mdiFile(date, "0002"))

	loc := NewLocator(types.ArchiveConfig{DataRoot: root})

	cands, err := loc.Locate(date, types.HMI)
	if err != nil {
		t.Fatalf("Locate(hmi): %v", err)
	}
	if len(cands) != 1 || cands[0].Path != hmiPath {
		t.Errorf("Locate(hmi) = %+v, want [%s]", cands, hmiPath)
	}
	if cands[0].Instrument != types.HMI || !cands[0].Date.Equal(date) {
		t.Errorf("candidate metadata = %+v", cands[0])
	}

	cands, err = loc.Locate(date, types.MDI)
	if err != nil {
		t.Fatalf("Locate(mdi): %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("Locate(mdi) found %d files, want 2", len(cands))
	}
	if cands[0].Path != mdiA || cands[1].Path != mdiB {
		t.Errorf("Locate(mdi) order = [%s, %s]", cands[0].Path, cands[1].Path)
	}
}

// Locate never silently succeeds with an empty sequence: it returns
// candidates or ErrNoFiles.
func TestLocateNoFiles(t *testing.T) {
	loc := NewLocator(types.ArchiveConfig{DataRoot: t.TempDir()})

	cands, err := loc.Locate(day(2011, 4, 10), types.HMI)
	if !errors.Is(err, ErrNoFiles) {
		t.Fatalf("error = %v, want ErrNoFiles", err)
	}
	if len(cands) != 0 {
		t.Errorf("candidates = %v, want none", cands)
	}
}

func TestLocateUnknownInstrument(t *testing.T) {
	loc := NewLocator(types.ArchiveConfig{DataRoot: t.TempDir()})

	_, err := loc.Locate(day(2011, 4, 10), types.Instrument("gong"))
	if !errors.Is(err, ErrUnknownInstrument) {
		t.Fatalf("error = %v, want ErrUnknownInstrument", err)
	}
}

func TestLocateBestNonMDITakesLast(t *testing.T) {
	root := t.TempDir()
	date := day(2011, 4, 10)
	writeFile(t, root, filepath.Join("HMI", "hmi_a_20110410.fits"))
	last := writeFile(t, root, filepath.Join("HMI", "hmi_b_20110410.fits"))

	loc := NewLocator(types.ArchiveConfig{DataRoot: root})
	c, err := loc.LocateBest(date, types.HMI, &fakeHeader{})
	if err != nil {
		t.Fatalf("LocateBest: %v", err)
	}
	if c.Path != last {
		t.Errorf("LocateBest = %s, want %s", c.Path, last)
	}
}

func TestLocateBestMDIUsesQuality(t *testing.T) {
	root := t.TempDir()
	date := day(2011, 4, 10)
	first := writeFile(t, root, mdiFile(date, "0001"))
	second := writeFile(t, root, mdiFile(date, "0002"))

	hdr := &fakeHeader{
		quality: map[string]Quality{
			first:  {Interval: 96, MissVals: 3},
			second: {Interval: 96, MissVals: 40},
		},
		tagged: map[string]string{},
	}

	loc := NewLocator(types.ArchiveConfig{DataRoot: root})
	c, err := loc.LocateBest(date, types.MDI, hdr)
	if err != nil {
		t.Fatalf("LocateBest: %v", err)
	}
	if c.Path != first {
		t.Errorf("LocateBest = %s, want %s (fewer missing values)", c.Path, first)
	}

	// LocateBest normalizes every candidate, not just the winner.
	for _, p := range []string{first, second} {
		if hdr.tagged[p] != "MDI" {
			t.Errorf("%s not normalized with instrument tag", p)
		}
	}
}
