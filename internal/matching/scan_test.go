// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package matching

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/heliolab/crosscal/pkg/types"
)

func TestScanOverlap(t *testing.T) {
	root := t.TempDir()
	matched := day(1996, 4, 16)

	spmg := spmgFile(t, root, matched)
	mdi := mdiFile(t, root, matched, "0001")

	// Outside the SPMG/MDI intersection window; must not be scanned.
	mdiFile(t, root, day(2005, 6, 1), "0001")

	var buf bytes.Buffer
	idx, err := ScanOverlap(newLocator(root), types.SPMG, types.MDI, 1, &buf)
	if err != nil {
		t.Fatalf("ScanOverlap: %v", err)
	}

	if len(idx.Pairs) != 1 || idx.Pairs[0] != (Pair{First: spmg, Second: mdi}) {
		t.Errorf("pairs = %+v", idx.Pairs)
	}
	if len(idx.Dates) != 1 || !idx.Dates[0].Equal(matched) {
		t.Errorf("dates = %v, want [%v]", idx.Dates, matched)
	}
	if !strings.Contains(buf.String(), "matched 1996-04-16") {
		t.Errorf("progress output = %q", buf.String())
	}
}

// Every matched date lies inside the validity-range intersection, and
// the sequence never exceeds the window length.
func TestScanOverlapDatesWithinWindow(t *testing.T) {
	root := t.TempDir()
	for _, d := range []time.Time{day(1996, 4, 16), day(1997, 8, 2)} {
		spmgFile(t, root, d)
		mdiFile(t, root, d, "0001")
	}

	idx, err := ScanOverlap(newLocator(root), types.SPMG, types.MDI, 1, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ScanOverlap: %v", err)
	}

	spmgStart, _ := types.SPMG.Validity()
	mdiStart, mdiEnd := types.MDI.Validity()
	start, end := mdiStart, mdiEnd
	if spmgStart.After(start) {
		start = spmgStart
	}

	windowDays := int(end.Sub(start).Hours() / 24)
	if len(idx.Dates) > windowDays {
		t.Fatalf("matched %d dates in a %d-day window", len(idx.Dates), windowDays)
	}
	for _, d := range idx.Dates {
		if d.Before(start) || !d.Before(end) {
			t.Errorf("date %v outside [%v, %v)", d, start, end)
		}
	}
	if len(idx.Dates) != 2 {
		t.Errorf("len(dates) = %d, want 2", len(idx.Dates))
	}
	// Both dates produced a pair; a date may produce several.
	if len(idx.Pairs) < len(idx.Dates) {
		t.Errorf("%d pairs for %d dates", len(idx.Pairs), len(idx.Dates))
	}
}

// Same-instrument scans substitute the complementary reference pair for
// the window bounds: an MDI/MDI scan runs over the SPMG/MDI
// intersection, so MDI days after SPMG's end are never visited.
func TestScanOverlapSameInstrumentWindow(t *testing.T) {
	root := t.TempDir()
	inside := day(1996, 4, 16)
	mdiFile(t, root, inside, "0001")
	mdiFile(t, root, inside, "0002")

	// Valid MDI day, but outside the substituted SPMG-bounded window.
	mdiFile(t, root, day(2005, 6, 1), "0001")

	idx, err := ScanOverlap(newLocator(root), types.MDI, types.MDI, 0, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ScanOverlap: %v", err)
	}

	if len(idx.Dates) != 1 || !idx.Dates[0].Equal(inside) {
		t.Errorf("dates = %v, want [%v]", idx.Dates, inside)
	}
}

func TestScanOverlapEmptyArchive(t *testing.T) {
	_, err := ScanOverlap(newLocator(t.TempDir()), types.SPMG, types.MDI, 1, &bytes.Buffer{})
	if !errors.Is(err, ErrNoMatches) {
		t.Fatalf("error = %v, want ErrNoMatches", err)
	}
}

func TestScanOverlapUnknownInstrument(t *testing.T) {
	_, err := ScanOverlap(newLocator(t.TempDir()), "gong", types.MDI, 1, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for unknown instrument")
	}
}
