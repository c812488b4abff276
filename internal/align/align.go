// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package align

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Projection is a heliographic projection of one observation: the
// latitude and longitude grids in degrees, and the observation
// timestamp. Producing the projection from a raw image is the
// upstream coordinate transform's job.
type Projection struct {
	Timestamp time.Time

	// Lat and Lon are per-pixel coordinate grids in degrees.
	// Off-disk pixels are NaN.
	Lat *mat.Dense
	Lon *mat.Dense

	// LonOld is the pre-alignment longitude grid, set by Align so the
	// original coordinates stay recoverable.
	LonOld *mat.Dense
}

// Align rewrites target's longitude grid into ref's epoch: the
// differential-rotation angle implied by the observations' time
// separation is added to every longitude. The prior grid is preserved
// in target.LonOld. NaNs in either grid propagate into the result;
// downstream consumers filter them.
func Align(ref, target *Projection) error {
	if ref.Lat == nil || ref.Lon == nil || target.Lat == nil || target.Lon == nil {
		return fmt.Errorf("align: projection grids not populated")
	}
	r1, c1 := target.Lat.Dims()
	r2, c2 := target.Lon.Dims()
	if r1 != r2 || c1 != c2 {
		return fmt.Errorf("align: latitude grid %dx%d does not match longitude grid %dx%d", r1, c1, r2, c2)
	}

	dt := ref.Timestamp.Sub(target.Timestamp).Seconds()
	rot := DiffRot(dt, target.Lat)

	target.LonOld = target.Lon
	var lon mat.Dense
	lon.Add(rot, target.LonOld)
	target.Lon = &lon
	return nil
}

// GridStats summarizes a projection's coordinate extents. Longitude
// extents are taken over the |lat| < 30 band, where the projection is
// most reliable; latitude extents cover the full disk.
type GridStats struct {
	LonMin, LonMax float64
	LatMin, LatMax float64
}

// LonSpan returns the longitude extent of the equatorial band.
func (g GridStats) LonSpan() float64 { return g.LonMax - g.LonMin }

// LatSpan returns the full latitude extent.
func (g GridStats) LatSpan() float64 { return g.LatMax - g.LatMin }

// Stats computes coordinate extents for a projection, ignoring NaN
// (off-disk) pixels.
func Stats(p *Projection) GridStats {
	g := GridStats{
		LonMin: math.Inf(1), LonMax: math.Inf(-1),
		LatMin: math.Inf(1), LatMax: math.Inf(-1),
	}

	rows, cols := p.Lat.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			lat := p.Lat.At(i, j)
			if math.IsNaN(lat) {
				continue
			}
			g.LatMin = math.Min(g.LatMin, lat)
			g.LatMax = math.Max(g.LatMax, lat)

			if lat >= 30 || lat <= -30 {
				continue
			}
			lon := p.Lon.At(i, j)
			if math.IsNaN(lon) {
				continue
			}
			g.LonMin = math.Min(g.LonMin, lon)
			g.LonMax = math.Max(g.LonMax, lon)
		}
	}
	return g
}
