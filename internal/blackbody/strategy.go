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

// Package blackbody maps blackbody temperatures to display colors.
// Three interchangeable strategies are provided: an exact integration of
// Planck's law against the CIE 1931 color matching functions, a piecewise
// polynomial fit, and a lookup table. All tables are immutable and safe
// for concurrent use.
package blackbody

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrTemperatureOutOfRange = errors.New("temperature out of range")

// An RGB color with channel intensities in [0,255]. Not rounded to integers,
// the caller quantizes for its output format.
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

func (c RGB) String() string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", c.R, c.G, c.B)
}

// Returns the color with all channels clamped into [0,255]. NaNs become 0
func (c RGB) Clamped() RGB {
	return RGB{clamp255(c.R), clamp255(c.G), clamp255(c.B)}
}

func clamp255(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Kind of temperature to color strategy
type Kind int

const (
	KindExact Kind = iota
	KindPolynomial
	KindLookup
)

var kindNames = []string{"exact", "polynomial", "lookup"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Parses a strategy kind from its name, case insensitive
func ParseKind(s string) (Kind, error) {
	ls := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if ls == n {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown color strategy '%s', want one of %s", s, strings.Join(kindNames, ", "))
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid color strategy %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Range of temperatures in Kelvin a strategy accepts
type Domain struct {
	Min       float64 `json:"min"       yaml:"min"`
	Max       float64 `json:"max"       yaml:"max"`
	Inclusive bool    `json:"inclusive" yaml:"inclusive"`
}

func (d Domain) Contains(kelvin float64) bool {
	if math.IsNaN(kelvin) {
		return false
	}
	if d.Inclusive {
		return d.Min <= kelvin && kelvin <= d.Max
	}
	return d.Min < kelvin && kelvin < d.Max
}

func (d Domain) String() string {
	if d.Inclusive {
		return fmt.Sprintf("[%g, %g]", d.Min, d.Max)
	}
	return fmt.Sprintf("(%g, %g)", d.Min, d.Max)
}

// Returns the default domain for the given strategy kind. The lookup domain
// covers all temperatures which round into the table.
func DefaultDomain(k Kind) Domain {
	switch k {
	case KindExact:
		return Domain{Min: 675, Max: 250000, Inclusive: false}
	case KindPolynomial:
		return Domain{Min: 0, Max: 15000, Inclusive: true}
	default:
		return Domain{Min: -lookupStep / 2, Max: lookupMax + lookupStep/2, Inclusive: true}
	}
}

// A temperature to color mapping
type Strategy interface {
	// Returns the color of a blackbody at the given temperature in Kelvin,
	// or ErrTemperatureOutOfRange
	RGB(kelvin float64) (RGB, error)
	Kind() Kind
	Domain() Domain
}

// Creates a strategy of the given kind. A nil domain selects the default domain for the kind
func New(k Kind, domain *Domain) (Strategy, error) {
	d := DefaultDomain(k)
	if domain != nil {
		d = *domain
	}
	if math.IsNaN(d.Min) || math.IsNaN(d.Max) || d.Min > d.Max {
		return nil, fmt.Errorf("invalid temperature domain %v", d)
	}
	switch k {
	case KindExact:
		return NewExact(d), nil
	case KindPolynomial:
		return &Polynomial{domain: d}, nil
	case KindLookup:
		return &Lookup{domain: d}, nil
	}
	return nil, fmt.Errorf("invalid color strategy %d", int(k))
}

func outOfRange(kelvin float64, d Domain) error {
	return fmt.Errorf("%w: %.1fK outside %v", ErrTemperatureOutOfRange, kelvin, d)
}
