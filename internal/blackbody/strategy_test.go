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
	"errors"
	"math"
	"testing"
)

func mustNew(t *testing.T, k Kind) Strategy {
	t.Helper()
	s, err := New(k, nil)
	if err != nil {
		t.Fatalf("New(%v): %v", k, err)
	}
	return s
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindExact, KindPolynomial, KindLookup} {
		parsed, err := ParseKind(k.String())
		if err != nil || parsed != k {
			t.Errorf("ParseKind(%q)=%v,%v; want %v", k.String(), parsed, err, k)
		}
	}
	if k, err := ParseKind(" Polynomial "); err != nil || k != KindPolynomial {
		t.Errorf("ParseKind with case and spaces=%v,%v; want polynomial", k, err)
	}
	if _, err := ParseKind("planck"); err == nil {
		t.Errorf("ParseKind(planck) err=nil; want error")
	}
}

func TestDomains(t *testing.T) {
	type domainTestCase struct {
		Kind   Kind
		Kelvin float64
		InDom  bool
	}
	tcs := []domainTestCase{
		{KindExact, 675, false},
		{KindExact, 676, true},
		{KindExact, 249999, true},
		{KindExact, 250000, false},
		{KindPolynomial, 0, true},
		{KindPolynomial, 15000, true},
		{KindPolynomial, -0.1, false},
		{KindPolynomial, 15000.1, false},
		{KindLookup, 0, true},
		{KindLookup, 15049, true},
		{KindLookup, 15050, true}, // rounds to even, 150
		{KindLookup, 15051, false},
		{KindLookup, 16000, false},
		{KindLookup, -51, false},
		{KindLookup, math.NaN(), false},
	}
	for _, tc := range tcs {
		s := mustNew(t, tc.Kind)
		_, err := s.RGB(tc.Kelvin)
		if tc.InDom && err != nil {
			t.Errorf("%v T=%g err=%v; want nil", tc.Kind, tc.Kelvin, err)
		}
		if !tc.InDom && !errors.Is(err, ErrTemperatureOutOfRange) {
			t.Errorf("%v T=%g err=%v; want ErrTemperatureOutOfRange", tc.Kind, tc.Kelvin, err)
		}
	}
}

func TestCustomDomain(t *testing.T) {
	s, err := New(KindPolynomial, &Domain{Min: 1000, Max: 2000, Inclusive: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.RGB(999); !errors.Is(err, ErrTemperatureOutOfRange) {
		t.Errorf("T=999 err=%v; want ErrTemperatureOutOfRange", err)
	}
	if _, err := New(KindExact, &Domain{Min: 10, Max: 5}); err == nil {
		t.Errorf("inverted domain accepted")
	}
}

func TestLookupRounding(t *testing.T) {
	s := mustNew(t, KindLookup)
	type roundingTestCase struct {
		Kelvin float64
		Row    int
	}
	tcs := []roundingTestCase{
		{0, 0}, {49, 0}, {50, 0}, {51, 1}, {150, 2}, {250, 2}, {5749, 57}, {5751, 58}, {14960, 150},
	}
	for _, tc := range tcs {
		c, err := s.RGB(tc.Kelvin)
		if err != nil {
			t.Fatalf("T=%g err=%v", tc.Kelvin, err)
		}
		want := lookupTable[tc.Row]
		if c.R != want[0] || c.G != want[1] || c.B != want[2] {
			t.Errorf("T=%g got %v; want row %d %v", tc.Kelvin, c, tc.Row, want)
		}
	}
}

func TestPolynomialBranches(t *testing.T) {
	s := mustNew(t, KindPolynomial)

	c, err := s.RGB(5705)
	if err != nil {
		t.Fatal(err)
	}
	if c.R != 255 {
		t.Errorf("R(5705)=%g; want 255", c.R)
	}
	above, err := s.RGB(5705.001)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(above.R-255) > 1 {
		t.Errorf("R(5705+e)=%g; want close to 255", above.R)
	}

	type branchTestCase struct {
		Kelvin  float64
		R, G, B float64 // negative means "not exactly checked"
	}
	tcs := []branchTestCase{
		{0, 255, 0, 0},
		{665, 255, 0, 0},
		{1395, 255, -1, 0},
		{5800, -1, 255, -1},
		{6145, -1, 255, -1},
		{6146, -1, -1, 255},
		{15000, -1, -1, 255},
	}
	for _, tc := range tcs {
		c, err := s.RGB(tc.Kelvin)
		if err != nil {
			t.Fatalf("T=%g err=%v", tc.Kelvin, err)
		}
		if tc.R >= 0 && c.R != tc.R {
			t.Errorf("R(%g)=%g; want %g", tc.Kelvin, c.R, tc.R)
		}
		if tc.G >= 0 && c.G != tc.G {
			t.Errorf("G(%g)=%g; want %g", tc.Kelvin, c.G, tc.G)
		}
		if tc.B >= 0 && c.B != tc.B {
			t.Errorf("B(%g)=%g; want %g", tc.Kelvin, c.B, tc.B)
		}
	}
}

func TestChannelsClamped(t *testing.T) {
	for _, k := range []Kind{KindExact, KindPolynomial, KindLookup} {
		s := mustNew(t, k)
		for temp := 700.0; temp <= 15000; temp += 37 {
			c, err := s.RGB(temp)
			if err != nil {
				t.Fatalf("%v T=%g err=%v", k, temp, err)
			}
			for _, v := range []float64{c.R, c.G, c.B} {
				if !(v >= 0 && v <= 255) {
					t.Errorf("%v T=%g got %v; channel outside [0,255]", k, temp, c)
				}
			}
		}
	}
}

// The lookup table was generated with the exact method, so both must agree closely,
// and the polynomial fit must stay near both.
func TestStrategiesAgree(t *testing.T) {
	exact, poly, lookup := mustNew(t, KindExact), mustNew(t, KindPolynomial), mustNew(t, KindLookup)
	for temp := 700.0; temp <= 15000; temp += 100 {
		e, err := exact.RGB(temp)
		if err != nil {
			t.Fatalf("exact T=%g err=%v", temp, err)
		}
		l, _ := lookup.RGB(temp)
		p, _ := poly.RGB(temp)
		if d := maxDiff(e, l); d > 1 {
			t.Errorf("T=%g exact %v lookup %v differ by %.2f; want <=1", temp, e, l, d)
		}
		if d := maxDiff(p, l); d > 15 {
			t.Errorf("T=%g polynomial %v lookup %v differ by %.2f; want <=15", temp, p, l, d)
		}
	}
}

func TestCoolerIsRedder(t *testing.T) {
	for _, k := range []Kind{KindExact, KindPolynomial, KindLookup} {
		s := mustNew(t, k)
		cool, err := s.RGB(1000)
		if err != nil {
			t.Fatal(err)
		}
		hot, err := s.RGB(10000)
		if err != nil {
			t.Fatal(err)
		}
		if !(cool.R > hot.R && cool.B < hot.B) {
			t.Errorf("%v: 1000K %v not redder than 10000K %v", k, cool, hot)
		}
	}
}

func TestExactHotStars(t *testing.T) {
	s := mustNew(t, KindExact)
	c, err := s.RGB(40000)
	if err != nil {
		t.Fatal(err)
	}
	if c.B != 255 || c.R >= c.G || c.G >= c.B {
		t.Errorf("40000K got %v; want blue dominated with R<G<B=255", c)
	}
}

func maxDiff(a, b RGB) float64 {
	return math.Max(math.Abs(a.R-b.R), math.Max(math.Abs(a.G-b.G), math.Abs(a.B-b.B)))
}
