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
	"errors"
	"math"
	"testing"
)

func TestTemperatureFromWavenumber(t *testing.T) {
	// 1.5/µm peaks at 666.67nm
	got, err := TemperatureFromWavenumber(1.5)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	want := WienConstant / (1000 / 1.5)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("T(1.5)=%g; want %g", got, want)
	}
	if math.Abs(got-4346.65785) > 1e-3 {
		t.Errorf("T(1.5)=%g; want ~4346.658", got)
	}
}

func TestTemperatureMonotonic(t *testing.T) {
	prev := 0.0
	for nu := 0.5; nu <= 3.0; nu += 0.01 {
		temp, err := TemperatureFromWavenumber(nu)
		if err != nil {
			t.Fatalf("nu=%g err=%v", nu, err)
		}
		if temp <= prev {
			t.Errorf("T(%g)=%g not above previous %g", nu, temp, prev)
		}
		prev = temp
	}
}

func TestTemperatureDegenerate(t *testing.T) {
	for _, nu := range []float64{0, math.NaN(), math.Inf(1)} {
		if _, err := TemperatureFromWavenumber(nu); !errors.Is(err, ErrDegenerate) {
			t.Errorf("nu=%g err=%v; want ErrDegenerate", nu, err)
		}
	}
}
