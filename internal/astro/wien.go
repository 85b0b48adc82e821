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

package astro

import (
	"fmt"
)

// Wien's displacement constant in nm*K
const WienConstant = 2897771.9

// Returns the wavelength of peak emission in nm for an effective wavenumber in 1/µm,
// as used by the Gaia nu_eff_used_in_astrometry and pseudocolour fields.
func PeakWavelength(wavenumber float64) (nm float64, err error) {
	if wavenumber == 0 || !isFinite(wavenumber) {
		return 0, fmt.Errorf("%w: wavenumber %g", ErrDegenerate, wavenumber)
	}
	return 1000 / wavenumber, nil
}

// Estimates the temperature of a blackbody in Kelvin from an effective wavenumber
// in 1/µm, via Wien's displacement law. Higher wavenumbers give higher temperatures.
// See https://en.wikipedia.org/wiki/Wien%27s_displacement_law
func TemperatureFromWavenumber(wavenumber float64) (kelvin float64, err error) {
	peak, err := PeakWavelength(wavenumber)
	if err != nil {
		return 0, err
	}
	return WienConstant / peak, nil
}
