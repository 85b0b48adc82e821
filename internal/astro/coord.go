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

// Package astro holds the astrometric and photometric math for turning
// catalog fields into positions and temperatures.
package astro

import (
	"errors"
	"fmt"
	"math"
)

// Returned when a numeric input is non-finite, or zero where it is used as a divisor
var ErrDegenerate = errors.New("degenerate numeric input")

// A 3-dimensional point with double precision coordinates, in inverse parallax units
type Point3D struct {
	X float64
	Y float64
	Z float64
}

func (p Point3D) String() string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", p.X, p.Y, p.Z)
}

// Returns the distance of the point from the origin
func (p Point3D) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Converts galactic longitude l and latitude b (both in radians) and the parallax
// into cartesian coordinates centered on the sun. The distance from the origin is
// 1/|parallax|, so parallax in mas yields kiloparsecs. Zero parallax is an error,
// not a point at infinity.
// See https://en.wikipedia.org/wiki/Galactic_coordinate_system
func Cartesian(l, b, parallax float64) (p Point3D, err error) {
	if parallax == 0 {
		return p, fmt.Errorf("%w: zero parallax", ErrDegenerate)
	}
	if !isFinite(l) || !isFinite(b) || !isFinite(parallax) {
		return p, fmt.Errorf("%w: l=%g b=%g parallax=%g", ErrDegenerate, l, b, parallax)
	}
	sinL, cosL := math.Sincos(l)
	sinB, cosB := math.Sincos(b)
	inv := 1 / parallax
	p = Point3D{cosB * cosL * inv, cosB * sinL * inv, sinB * inv}
	if !isFinite(p.X) || !isFinite(p.Y) || !isFinite(p.Z) {
		return Point3D{}, fmt.Errorf("%w: parallax %g gives no finite position", ErrDegenerate, parallax)
	}
	return p, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
