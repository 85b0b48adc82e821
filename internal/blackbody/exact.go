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

package blackbody

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
)

// Physical constants in SI units
const (
	planck    = 6.62607015e-34 // J s
	boltzmann = 1.380649e-23   // J/K
	lightC    = 299792458.0    // m/s
)

// Sampling of the Planck spectrum, in nm
const (
	spectrumFirstNM = 350.0
	spectrumLastNM  = 800.0
	spectrumSamples = 100
)

// XYZ to linear RGB for the Wide Gamut RGB space with D65 white point
var xyzToWideRGB = mat.NewDense(3, 3, []float64{
	1.656492, -0.354851, -0.255038,
	-0.707196, 1.655397, 0.036152,
	0.051713, -0.121364, 1.011530,
})

// The exact strategy. Integrates Planck's law against the CIE 1931 color matching
// functions to get XYZ tristimulus values, normalizes luminance, maps to wide gamut
// RGB and applies sRGB gamma. Expensive, so mostly useful as a reference.
type Exact struct {
	domain     Domain
	spectrumNM []float64 // wavelengths at which the Planck spectrum is sampled
	cieNM      []float64 // wavelengths of the CIE table rows
	xbar       []float64
	ybar       []float64
	zbar       []float64
}

var _ Strategy = (*Exact)(nil) // Compile time assertion: type implements the interface

// Creates an exact strategy for the given domain. The returned value is
// read-only after construction and safe for concurrent use.
func NewExact(d Domain) *Exact {
	e := &Exact{
		domain:     d,
		spectrumNM: floats.Span(make([]float64, spectrumSamples), spectrumFirstNM, spectrumLastNM),
		cieNM:      make([]float64, len(cieTable)),
		xbar:       make([]float64, len(cieTable)),
		ybar:       make([]float64, len(cieTable)),
		zbar:       make([]float64, len(cieTable)),
	}
	for i, row := range cieTable {
		e.cieNM[i] = cieFirstNM + float64(i)*cieStepNM
		e.xbar[i], e.ybar[i], e.zbar[i] = row[0], row[1], row[2]
	}
	return e
}

func (s *Exact) Kind() Kind     { return KindExact }
func (s *Exact) Domain() Domain { return s.domain }

// Spectral radiance of a blackbody at the given wavelength in nm and temperature in K
func planckRadiance(nm, kelvin float64) float64 {
	lambda := nm * 1e-9
	x := planck * lightC / (lambda * boltzmann * kelvin)
	return 2 * planck * lightC * lightC / math.Pow(lambda, 5) / math.Expm1(x)
}

// Returns the CIE XYZ tristimulus values of a blackbody at the given temperature
func (s *Exact) tristimulus(kelvin float64) (x, y, z float64) {
	spectrum := make([]float64, len(s.spectrumNM))
	for i, nm := range s.spectrumNM {
		spectrum[i] = planckRadiance(nm, kelvin)
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(s.spectrumNM, spectrum); err != nil {
		return math.NaN(), math.NaN(), math.NaN()
	}

	fx := make([]float64, len(s.cieNM))
	fy := make([]float64, len(s.cieNM))
	fz := make([]float64, len(s.cieNM))
	for i, nm := range s.cieNM {
		b := pl.Predict(nm)
		fx[i], fy[i], fz[i] = b*s.xbar[i], b*s.ybar[i], b*s.zbar[i]
	}
	return integrate.Simpsons(s.cieNM, fx), integrate.Simpsons(s.cieNM, fy), integrate.Simpsons(s.cieNM, fz)
}

func (s *Exact) RGB(kelvin float64) (RGB, error) {
	if !s.domain.Contains(kelvin) {
		return RGB{}, outOfRange(kelvin, s.domain)
	}

	// chromaticity, then rescale to unit luminance
	bx, by, bz := s.tristimulus(kelvin)
	sum := bx + by + bz
	cx, cy := bx/sum, by/sum
	cz := 1 - cx - cy
	xyz := mat.NewVecDense(3, []float64{cx / cy, 1, cz / cy})

	var lin mat.VecDense
	lin.MulVec(xyzToWideRGB, xyz)

	// sRGB companding: 12.92x up to 0.0031308, 1.055x^(1/2.4)-0.055 above
	g := colorful.LinearRgb(lin.AtVec(0), lin.AtVec(1), lin.AtVec(2))
	rgb := []float64{g.R, g.G, g.B}

	for i, v := range rgb {
		if v < 0 {
			rgb[i] = 0
		}
	}
	if m := floats.Max(rgb); m > 1 {
		floats.Scale(1/m, rgb)
	}
	floats.Scale(255, rgb)

	c := RGB{rgb[0], rgb[1], rgb[2]}
	if math.IsNaN(c.R) || math.IsNaN(c.G) || math.IsNaN(c.B) {
		return RGB{}, outOfRange(kelvin, s.domain)
	}
	return c.Clamped(), nil
}
