// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package align brings two heliographic projections into the same
// longitude frame by differentially rotating the second onto the
// first's epoch.
package align

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Snodgrass & Ulrich magnetic-feature rotation coefficients, in
// microradians per second: omega(lat) = A + B*sin^2(lat) + C*sin^4(lat).
// These must not change; archived calibration data was produced with
// exactly this profile in the synodic frame.
const (
	snodgrassA = 2.851
	snodgrassB = -0.343
	snodgrassC = -0.474
)

// synodicRate is the apparent rotation carried by Earth's orbital
// motion, in degrees per day, subtracted to convert sidereal angles to
// the synodic frame.
const synodicRate = 0.9856

const (
	secondsPerDay = 86400.0
	degPerRad     = 180.0 / math.Pi
)

// RotationAngle returns the synodic differential-rotation angle in
// degrees for a single latitude (degrees) after dtSeconds of elapsed
// time. dtSeconds is signed.
func RotationAngle(dtSeconds, latDeg float64) float64 {
	s := math.Sin(latDeg * math.Pi / 180.0)
	sin2 := s * s
	omega := snodgrassA + snodgrassB*sin2 + snodgrassC*sin2*sin2 // µrad/s
	return omega*1e-6*dtSeconds*degPerRad - synodicRate*dtSeconds/secondsPerDay
}

// DiffRot applies the rotation model to a latitude grid (degrees) and
// returns the per-pixel rotation-angle field in degrees. Large time
// separations push the model past the modulo-360 ambiguity; when the
// field's mean exceeds 90 degrees the whole field is shifted down by
// 360. NaN latitudes yield NaN angles.
func DiffRot(dtSeconds float64, lat *mat.Dense) *mat.Dense {
	var rot mat.Dense
	rot.Apply(func(_, _ int, v float64) float64 {
		return RotationAngle(dtSeconds, v)
	}, lat)
	correctWraparound(&rot)
	return &rot
}

// correctWraparound shifts the whole field by -360 degrees when its
// NaN-ignoring mean exceeds 90.
func correctWraparound(rot *mat.Dense) {
	if nanMean(rot) <= 90 {
		return
	}
	rot.Apply(func(_, _ int, v float64) float64 {
		return v - 360
	}, rot)
}

// nanMean returns the mean of the finite elements, or NaN when there
// are none.
func nanMean(m *mat.Dense) float64 {
	sum := 0.0
	n := 0
	raw := m.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
