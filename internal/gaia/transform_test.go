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
	"testing"

	"github.com/mlnoga/gaialas/internal/blackbody"
)

var testHeader = []string{"solution_id", "designation", "source_id", "l", "b", "parallax",
	"nu_eff_used_in_astrometry", "pseudocolour", "pm", "phot_g_mean_mag", "phot_g_mean_flux"}

// A valid row, with overrides for individual columns
func testRecord(t *testing.T, overrides map[string]string) Record {
	t.Helper()
	schema, err := NewSchema(testHeader)
	if err != nil {
		t.Fatal(err)
	}
	values := map[string]string{
		"solution_id":               "1636148068921376768",
		"designation":               "Gaia EDR3  4295806720",
		"source_id":                 "4295806720",
		"l":                         "0.0",
		"b":                         "0.0",
		"parallax":                  "2.0",
		"nu_eff_used_in_astrometry": "1.5",
		"pseudocolour":              "",
		"pm":                        "6.5",
		"phot_g_mean_mag":           "17.64",
		"phot_g_mean_flux":          "1675.6",
	}
	for k, v := range overrides {
		values[k] = v
	}
	fields := make([]string, len(testHeader))
	for i, name := range testHeader {
		fields[i] = values[name]
	}
	return Record{Schema: schema, Fields: fields}
}

func testTransformer(t *testing.T, k blackbody.Kind, extras bool) *Transformer {
	t.Helper()
	s, err := blackbody.New(k, nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewTransformer(s, DefaultDesignationPrefixLen, extras)
}

func TestTransformValid(t *testing.T) {
	tr := testTransformer(t, blackbody.KindLookup, true)
	p, err := tr.Transform(testRecord(t, nil))
	if err != nil {
		t.Fatalf("err=%v; want nil", err)
	}
	if math.Abs(p.X-0.5) > 1e-12 || math.Abs(p.Y) > 1e-12 || math.Abs(p.Z) > 1e-12 {
		t.Errorf("position %v; want (0.5, 0, 0)", p.Point3D)
	}
	if math.Abs(p.Temperature-4346.65785) > 1e-3 {
		t.Errorf("temperature %g; want ~4346.66", p.Temperature)
	}
	want := lookupRow(t, 4300)
	if p.Color != want {
		t.Errorf("color %v; want %v", p.Color, want)
	}
	if p.SolutionID != 1636148068921376768 || p.SourceID != 4295806720 || p.Designation != 4295806720 {
		t.Errorf("ids %d %d %d; want 1636148068921376768 4295806720 4295806720", p.SolutionID, p.SourceID, p.Designation)
	}
	if p.Parallax != 2 || p.PM != 6.5 || p.GMag != 17.64 || p.GFlux != 1675.6 {
		t.Errorf("extras %g %g %g %g; want 2 6.5 17.64 1675.6", p.Parallax, p.PM, p.GMag, p.GFlux)
	}
}

func lookupRow(t *testing.T, kelvin float64) blackbody.RGB {
	t.Helper()
	s, _ := blackbody.New(blackbody.KindLookup, nil)
	c, err := s.RGB(kelvin)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestTransformErrors(t *testing.T) {
	type errorTestCase struct {
		Name      string
		Overrides map[string]string
		Kind      Kind
	}
	tcs := []errorTestCase{
		{"empty parallax", map[string]string{"parallax": ""}, MissingParallax},
		{"null parallax", map[string]string{"parallax": "null"}, MissingParallax},
		{"zero parallax", map[string]string{"parallax": "0"}, InvalidNumeric},
		{"subnormal parallax", map[string]string{"parallax": "1e-320"}, InvalidNumeric},
		{"text parallax", map[string]string{"parallax": "far"}, InvalidNumeric},
		{"bad l", map[string]string{"l": "abc"}, InvalidNumeric},
		{"empty b", map[string]string{"b": ""}, InvalidNumeric},
		{"infinite l", map[string]string{"l": "Inf"}, InvalidNumeric},
		{"no photometry", map[string]string{"nu_eff_used_in_astrometry": "", "pseudocolour": ""}, MissingPhotometricIndex},
		{"zero nu_eff", map[string]string{"nu_eff_used_in_astrometry": "0"}, InvalidNumeric},
		{"bad pseudocolour", map[string]string{"nu_eff_used_in_astrometry": "", "pseudocolour": "x"}, InvalidNumeric},
		{"too hot", map[string]string{"nu_eff_used_in_astrometry": "6"}, TemperatureOutOfRange},
		{"negative temperature", map[string]string{"nu_eff_used_in_astrometry": "-1.5"}, TemperatureOutOfRange},
		{"bad designation", map[string]string{"designation": "Gaia EDR3  42958x6720"}, InvalidDesignation},
		{"short designation", map[string]string{"designation": "Gaia"}, InvalidDesignation},
		{"bad solution_id", map[string]string{"solution_id": "-1"}, InvalidMetadataField},
		{"empty source_id", map[string]string{"source_id": ""}, InvalidMetadataField},
		{"bad pm", map[string]string{"pm": "fast"}, InvalidMetadataField},
	}
	tr := testTransformer(t, blackbody.KindLookup, true)
	for _, tc := range tcs {
		p, err := tr.Transform(testRecord(t, tc.Overrides))
		if err == nil {
			t.Errorf("%s: err=nil; want %v", tc.Name, tc.Kind)
			continue
		}
		var re *RecordError
		if !errors.As(err, &re) {
			t.Errorf("%s: err=%v is not a *RecordError", tc.Name, err)
			continue
		}
		if re.Kind != tc.Kind || KindOf(err) != tc.Kind {
			t.Errorf("%s: kind=%v; want %v", tc.Name, re.Kind, tc.Kind)
		}
		if p != (Point{}) {
			t.Errorf("%s: partial point %+v returned with error", tc.Name, p)
		}
	}
}

func TestExtrasDisabled(t *testing.T) {
	tr := testTransformer(t, blackbody.KindPolynomial, false)
	p, err := tr.Transform(testRecord(t, map[string]string{"pm": "fast"}))
	if err != nil {
		t.Fatalf("err=%v; want extras ignored", err)
	}
	if !math.IsNaN(p.PM) || !math.IsNaN(p.Parallax) {
		t.Errorf("extras %g %g; want NaN", p.Parallax, p.PM)
	}
}

func TestMissingExtrasAreNaN(t *testing.T) {
	tr := testTransformer(t, blackbody.KindLookup, true)
	p, err := tr.Transform(testRecord(t, map[string]string{"pm": "", "phot_g_mean_flux": "null"}))
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(p.PM) || !math.IsNaN(p.GFlux) || p.GMag != 17.64 {
		t.Errorf("extras pm=%g flux=%g mag=%g; want NaN NaN 17.64", p.PM, p.GFlux, p.GMag)
	}
}

func TestPhotometryPrecedence(t *testing.T) {
	both := testRecord(t, map[string]string{"nu_eff_used_in_astrometry": "1.5", "pseudocolour": "1.6"})
	for i := 0; i < 100; i++ {
		temp, err := Temperature(both)
		if err != nil {
			t.Fatal(err)
		}
		if want := 1.5 * kelvinPerWavenumber; math.Abs(temp-want) > 1e-9 {
			t.Fatalf("iteration %d: T=%g; want %g from nu_eff", i, temp, want)
		}
	}
	pseudo := testRecord(t, map[string]string{"nu_eff_used_in_astrometry": "", "pseudocolour": "1.6"})
	temp, err := Temperature(pseudo)
	if err != nil {
		t.Fatal(err)
	}
	if want := 1.6 * kelvinPerWavenumber; math.Abs(temp-want) > 1e-9 {
		t.Errorf("T=%g; want %g from pseudocolour", temp, want)
	}
}

// Kelvin per unit of wavenumber in 1/µm
const kelvinPerWavenumber = 2897771.9 / 1000

func TestTemperatureMonotonicPerColumn(t *testing.T) {
	for _, col := range []string{ColNuEff, ColPseudocolour} {
		prev := 0.0
		for _, v := range []string{"1.1", "1.3", "1.5", "1.7", "1.9"} {
			overrides := map[string]string{ColNuEff: "", ColPseudocolour: ""}
			overrides[col] = v
			temp, err := Temperature(testRecord(t, overrides))
			if err != nil {
				t.Fatalf("%s=%s err=%v", col, v, err)
			}
			if temp <= prev {
				t.Errorf("%s=%s T=%g not above %g", col, v, temp, prev)
			}
			prev = temp
		}
	}
}

func TestParseDesignation(t *testing.T) {
	type designationTestCase struct {
		Text      string
		PrefixLen int
		Want      uint64
		Valid     bool
	}
	tcs := []designationTestCase{
		{"Gaia DR3 123456789", 9, 123456789, true},
		{"Gaia EDR3 4295806720", 10, 4295806720, true},
		{"Gaia EDR3  4295806720", DefaultDesignationPrefixLen, 4295806720, true},
		{"Gaia DR3 12345678x", 9, 0, false},
		{"Gaia DR3 ", 9, 0, false},
		{"Gaia DR3 -5", 9, 0, false},
		{"Gaia DR3 1", 11, 0, false},
	}
	for _, tc := range tcs {
		got, err := ParseDesignation(tc.Text, tc.PrefixLen)
		if tc.Valid && (err != nil || got != tc.Want) {
			t.Errorf("ParseDesignation(%q, %d)=%d,%v; want %d", tc.Text, tc.PrefixLen, got, err, tc.Want)
		}
		if !tc.Valid && KindOf(err) != InvalidDesignation {
			t.Errorf("ParseDesignation(%q, %d) err=%v; want InvalidDesignation", tc.Text, tc.PrefixLen, err)
		}
	}
}

func TestSchema(t *testing.T) {
	if _, err := NewSchema([]string{"\ufeffsolution_id", "designation", "source_id", "l", "b", "parallax", "pseudocolour"}); err != nil {
		t.Errorf("schema with BOM and pseudocolour only: err=%v; want nil", err)
	}
	_, err := NewSchema([]string{"solution_id", "designation", "l", "b"})
	if !errors.Is(err, ErrMissingColumns) {
		t.Errorf("err=%v; want ErrMissingColumns", err)
	}
}

func TestShortRowIsMissing(t *testing.T) {
	schema, err := NewSchema(testHeader)
	if err != nil {
		t.Fatal(err)
	}
	r := Record{Schema: schema, Fields: []string{"1", "Gaia EDR3  1", "1", "0", "0"}}
	_, err = testTransformer(t, blackbody.KindLookup, false).Transform(r)
	if KindOf(err) != MissingParallax {
		t.Errorf("err=%v; want MissingParallax", err)
	}
}
