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

// A quartic polynomial fitted over the temperature window [Lo, Hi]. As with
// numpy.polynomial.Polynomial.fit, the coefficients apply to the temperature
// mapped linearly from [Lo, Hi] onto [-1, 1].
type quartic struct {
	Lo, Hi float64
	C      [5]float64
}

// Evaluates the polynomial at the given temperature with Horner's scheme
func (q *quartic) eval(kelvin float64) float64 {
	u := (2*kelvin - (q.Lo + q.Hi)) / (q.Hi - q.Lo)
	sum := 0.0
	for i := len(q.C) - 1; i >= 0; i-- {
		sum = sum*u + q.C[i]
	}
	return sum
}

// Polynomial fits of the blackbody color curves
var (
	redHigh   = quartic{5705, 15000, [5]float64{202.7407364067034, -26.810279254200008, 17.92772958298324, -9.45648666312952, 1.6236384714807253}}
	greenLow  = quartic{665, 5710, [5]float64{218.60561513620232, 52.17192901392309, -23.061733295188585, 54.04865637275284, -51.058826067299464}}
	greenHigh = quartic{6145, 15000, [5]float64{216.63554612112824, -19.0450479334475, 9.609252176140112, -6.312170402591599, 3.146919073190075}}
	blueMid   = quartic{1395, 6150, [5]float64{177.94711834639443, 110.39882919514417, -34.69680828555997, 13.575839801777828, -12.414595228016992}}
)

// Branch points of the piecewise approximation in Kelvin
const (
	redKnee       = 5705.0
	greenStart    = 665.0
	greenSaturate = 5705.0
	greenKnee     = 6145.0
	blueStart     = 1395.0
	blueSaturate  = 6145.0
)

// A piecewise polynomial approximation of the exact strategy. Much cheaper,
// and within a few percent of the lookup table above 800K.
type Polynomial struct {
	domain Domain
}

var _ Strategy = (*Polynomial)(nil) // Compile time assertion: type implements the interface

func (s *Polynomial) Kind() Kind     { return KindPolynomial }
func (s *Polynomial) Domain() Domain { return s.domain }

func (s *Polynomial) RGB(t float64) (RGB, error) {
	if !s.domain.Contains(t) {
		return RGB{}, outOfRange(t, s.domain)
	}

	var c RGB
	if t <= redKnee {
		c.R = 255
	} else {
		c.R = redHigh.eval(t)
	}

	switch {
	case t <= greenStart:
		c.G = 0
	case t <= greenSaturate:
		c.G = greenLow.eval(t)
	case t <= greenKnee:
		c.G = 255
	default:
		c.G = greenHigh.eval(t)
	}

	switch {
	case t <= blueStart:
		c.B = 0
	case t <= blueSaturate:
		c.B = blueMid.eval(t)
	default:
		c.B = 255
	}

	return c.Clamped(), nil
}
