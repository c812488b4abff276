// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data and configuration types for the
// cross-calibration pipeline: the instrument catalog and the per-stage
// configuration structs.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Instrument identifies a full-disk magnetograph. The set is closed:
// only instruments present in the archive layout are recognized.
type Instrument string

const (
	// KPVT512 is the Kitt Peak Vacuum Telescope 512-channel magnetograph.
	KPVT512 Instrument = "512"
	// SPMG is the Kitt Peak spectromagnetograph.
	SPMG Instrument = "spmg"
	// MDI is the SOHO Michelson Doppler Imager. MDI archives are indexed
	// by mission day rather than calendar date.
	MDI Instrument = "mdi"
	// HMI is the SDO Helioseismic and Magnetic Imager.
	HMI Instrument = "hmi"
)

// Instruments lists every recognized instrument in mission-epoch order.
var Instruments = []Instrument{KPVT512, SPMG, MDI, HMI}

// ParseInstrument normalizes and validates an instrument identifier.
func ParseInstrument(s string) (Instrument, error) {
	instr := Instrument(strings.ToLower(strings.TrimSpace(s)))
	if !instr.Valid() {
		return "", fmt.Errorf("unrecognized instrument %q (supported: 512, spmg, mdi, hmi)", s)
	}
	return instr, nil
}

// Valid reports whether the instrument is one of the recognized set.
func (i Instrument) Valid() bool {
	switch i {
	case KPVT512, SPMG, MDI, HMI:
		return true
	}
	return false
}

// StorageName returns the archive directory name for the instrument.
// The 512-channel instrument is filed under the telescope name.
func (i Instrument) StorageName() string {
	if i == KPVT512 {
		return "KPVT"
	}
	return strings.ToUpper(string(i))
}

// Epoch returns the mission reference date used to convert calendar
// dates to integer mission-day numbers.
func (i Instrument) Epoch() time.Time {
	year := 1970
	switch i {
	case SPMG:
		year = 1990
	case MDI:
		year = 1993
	case HMI:
		year = 2009
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// Validity returns the instrument's operational date range [start, end).
func (i Instrument) Validity() (start, end time.Time) {
	switch i {
	case KPVT512:
		return day(1976, 1, 5), day(1993, 4, 9)
	case SPMG:
		return day(1992, 4, 21), day(1999, 12, 30)
	case MDI:
		return day(1996, 4, 15), day(2011, 4, 11)
	case HMI:
		return day(2010, 4, 8), day(2016, 7, 5)
	}
	return time.Time{}, time.Time{}
}

// MissionDay converts a calendar date to the instrument's integer
// mission-day number (days elapsed since the mission epoch).
func (i Instrument) MissionDay(date time.Time) int {
	d := day(date.Year(), int(date.Month()), date.Day())
	return int(d.Sub(i.Epoch()).Hours() / 24)
}

// MissionDayDate converts a mission-day number back to a calendar date.
func (i Instrument) MissionDayDate(md int) time.Time {
	return i.Epoch().AddDate(0, 0, md)
}

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}
