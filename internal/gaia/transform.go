// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package gaia

import (
	"errors"
	"math"
	"strconv"

	"github.com/mlnoga/gaialas/internal/astro"
	"github.com/mlnoga/gaialas/internal/blackbody"
)

// Length of the catalog prefix of a designation, e.g. "Gaia EDR3 " plus separator
const DefaultDesignationPrefixLen = 11

// A star converted into a colored point
type Point struct {
	astro.Point3D
	Color       blackbody.RGB
	Temperature float64
	SolutionID  uint64
	Designation uint64
	SourceID    uint64

	// Optional extras, NaN if the catalog has no value
	Parallax float64
	PM       float64
	GMag     float64
	GFlux    float64
}

// Converts catalog records into points. A Transformer is read-only once built
// and may be shared by concurrent workers.
type Transformer struct {
	Strategy             blackbody.Strategy
	DesignationPrefixLen int
	Extras               bool
}

func NewTransformer(strategy blackbody.Strategy, designationPrefixLen int, extras bool) *Transformer {
	return &Transformer{
		Strategy:             strategy,
		DesignationPrefixLen: designationPrefixLen,
		Extras:               extras,
	}
}

// Transforms a record into a point. Any failure rejects the whole record with a
// *RecordError, a partial point is never returned.
func (t *Transformer) Transform(r Record) (p Point, err error) {
	pos, parallax, err := Position(r)
	if err != nil {
		return Point{}, err
	}
	temp, err := Temperature(r)
	if err != nil {
		return Point{}, err
	}
	color, err := t.Strategy.RGB(temp)
	if err != nil {
		if errors.Is(err, blackbody.ErrTemperatureOutOfRange) {
			return Point{}, recordError(TemperatureOutOfRange, "", "", err)
		}
		return Point{}, recordError(KindUnknown, "", "", err)
	}

	p = Point{Point3D: pos, Color: color, Temperature: temp}
	if p.SolutionID, err = parseID(r, ColSolutionID); err != nil {
		return Point{}, err
	}
	if p.SourceID, err = parseID(r, ColSourceID); err != nil {
		return Point{}, err
	}
	desig, _ := r.Get(ColDesignation)
	if p.Designation, err = ParseDesignation(desig, t.DesignationPrefixLen); err != nil {
		return Point{}, err
	}

	if t.Extras {
		p.Parallax = parallax
		if p.PM, err = parseOptional(r, ColPM); err != nil {
			return Point{}, err
		}
		if p.GMag, err = parseOptional(r, ColGMag); err != nil {
			return Point{}, err
		}
		if p.GFlux, err = parseOptional(r, ColGFlux); err != nil {
			return Point{}, err
		}
	} else {
		p.Parallax, p.PM, p.GMag, p.GFlux = math.NaN(), math.NaN(), math.NaN(), math.NaN()
	}
	return p, nil
}

// Returns the cartesian position of the star and its parallax
func Position(r Record) (p astro.Point3D, parallax float64, err error) {
	if _, ok := r.Get(ColParallax); !ok {
		return p, 0, recordError(MissingParallax, ColParallax, "", nil)
	}
	l, err := parseFloat(r, ColL)
	if err != nil {
		return p, 0, err
	}
	b, err := parseFloat(r, ColB)
	if err != nil {
		return p, 0, err
	}
	parallax, err = parseFloat(r, ColParallax)
	if err != nil {
		return p, 0, err
	}
	p, err = astro.Cartesian(l, b, parallax)
	if err != nil {
		text, _ := r.Get(ColParallax)
		return p, 0, recordError(InvalidNumeric, ColParallax, text, err)
	}
	return p, parallax, nil
}

// Estimates the temperature of the star in Kelvin from its effective wavenumber.
// nu_eff_used_in_astrometry is preferred whenever populated, pseudocolour is the fallback.
func Temperature(r Record) (kelvin float64, err error) {
	col := ColNuEff
	if _, ok := r.Get(col); !ok {
		col = ColPseudocolour
		if _, ok := r.Get(col); !ok {
			return 0, recordError(MissingPhotometricIndex, "", "", nil)
		}
	}
	nu, err := parseFloat(r, col)
	if err != nil {
		return 0, err
	}
	kelvin, err = astro.TemperatureFromWavenumber(nu)
	if err != nil {
		text, _ := r.Get(col)
		return 0, recordError(InvalidNumeric, col, text, err)
	}
	return kelvin, nil
}

// Returns the numeric identifier following the fixed length catalog prefix of a designation,
// e.g. 123456789 for "Gaia DR3 123456789" with prefix length 9.
func ParseDesignation(designation string, prefixLen int) (uint64, error) {
	if prefixLen < 0 || len(designation) <= prefixLen {
		return 0, recordError(InvalidDesignation, ColDesignation, designation, nil)
	}
	id, err := strconv.ParseUint(designation[prefixLen:], 10, 64)
	if err != nil {
		return 0, recordError(InvalidDesignation, ColDesignation, designation, err)
	}
	return id, nil
}

// Parses a required floating point field. Missing, unparsable and non-finite values are invalid
func parseFloat(r Record, col string) (float64, error) {
	text, ok := r.Get(col)
	if !ok {
		return 0, recordError(InvalidNumeric, col, text, nil)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, recordError(InvalidNumeric, col, text, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, recordError(InvalidNumeric, col, text, nil)
	}
	return v, nil
}

// Parses an optional floating point field, returning NaN if it is missing
func parseOptional(r Record, col string) (float64, error) {
	text, ok := r.Get(col)
	if !ok {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, recordError(InvalidMetadataField, col, text, err)
	}
	return v, nil
}

func parseID(r Record, col string) (uint64, error) {
	text, ok := r.Get(col)
	if !ok {
		return 0, recordError(InvalidMetadataField, col, text, nil)
	}
	id, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, recordError(InvalidMetadataField, col, text, err)
	}
	return id, nil
}
