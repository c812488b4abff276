// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package align

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"
)

func obsTime(h int) time.Time {
	return time.Date(2011, 4, 10, h, 0, 0, 0, time.UTC)
}

func TestAlign(t *testing.T) {
	lat := mat.NewDense(2, 2, []float64{0, 30, -30, 60})
	lon := mat.NewDense(2, 2, []float64{-10, 0, 10, 20})

	ref := &Projection{
		Timestamp: obsTime(12),
		Lat:       mat.NewDense(2, 2, nil),
		Lon:       mat.NewDense(2, 2, nil),
	}
	target := &Projection{Timestamp: obsTime(0), Lat: lat, Lon: lon}

	original := mat.DenseCopyOf(lon)

	if err := Align(ref, target); err != nil {
		t.Fatalf("Align: %v", err)
	}

	// The pre-alignment grid is preserved, unchanged by the rewrite.
	if target.LonOld == nil {
		t.Fatal("LonOld not set")
	}
	if !mat.Equal(target.LonOld, original) {
		t.Error("LonOld differs from the pre-alignment grid")
	}

	// The new grid is rotation + original, pixel by pixel.
	dt := ref.Timestamp.Sub(target.Timestamp).Seconds()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := RotationAngle(dt, lat.At(i, j)) + original.At(i, j)
			if math.Abs(target.Lon.At(i, j)-want) > 1e-12 {
				t.Errorf("Lon[%d,%d] = %v, want %v", i, j, target.Lon.At(i, j), want)
			}
		}
	}
}

func TestAlignNegativeSeparation(t *testing.T) {
	// Reference taken before the target: the rotation runs backward.
	lat := mat.NewDense(1, 1, []float64{0})
	lon := mat.NewDense(1, 1, []float64{5})

	ref := &Projection{Timestamp: obsTime(0), Lat: mat.NewDense(1, 1, nil), Lon: mat.NewDense(1, 1, nil)}
	target := &Projection{Timestamp: obsTime(12), Lat: lat, Lon: lon}

	if err := Align(ref, target); err != nil {
		t.Fatalf("Align: %v", err)
	}
	if target.Lon.At(0, 0) >= 5 {
		t.Errorf("Lon = %v, want < 5 for negative time separation", target.Lon.At(0, 0))
	}
}

func TestAlignNaNPropagates(t *testing.T) {
	lat := mat.NewDense(1, 2, []float64{math.NaN(), 0})
	lon := mat.NewDense(1, 2, []float64{math.NaN(), 10})

	ref := &Projection{Timestamp: obsTime(12), Lat: mat.NewDense(1, 2, nil), Lon: mat.NewDense(1, 2, nil)}
	target := &Projection{Timestamp: obsTime(0), Lat: lat, Lon: lon}

	if err := Align(ref, target); err != nil {
		t.Fatalf("Align: %v", err)
	}
	if !math.IsNaN(target.Lon.At(0, 0)) {
		t.Error("off-disk pixel did not stay NaN")
	}
	if math.IsNaN(target.Lon.At(0, 1)) {
		t.Error("on-disk pixel became NaN")
	}
}

func TestAlignMissingGrids(t *testing.T) {
	ref := &Projection{Timestamp: obsTime(12)}
	target := &Projection{Timestamp: obsTime(0)}
	if err := Align(ref, target); err == nil {
		t.Fatal("expected error for unpopulated projections")
	}
}

func TestStats(t *testing.T) {
	// One equatorial-band pixel, one high-latitude pixel, one off-disk.
	lat := mat.NewDense(1, 3, []float64{10, 55, math.NaN()})
	lon := mat.NewDense(1, 3, []float64{-20, 80, math.NaN()})

	p := &Projection{Lat: lat, Lon: lon}
	g := Stats(p)

	if g.LatMin != 10 || g.LatMax != 55 {
		t.Errorf("lat extents = [%v, %v], want [10, 55]", g.LatMin, g.LatMax)
	}
	// Longitude extents come from the |lat| < 30 band only.
	if g.LonMin != -20 || g.LonMax != -20 {
		t.Errorf("lon extents = [%v, %v], want [-20, -20]", g.LonMin, g.LonMax)
	}
	if g.LatSpan() != 45 {
		t.Errorf("LatSpan = %v, want 45", g.LatSpan())
	}
}
