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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mlnoga/gaialas/internal/blackbody"
	"github.com/mlnoga/gaialas/internal/gaia"
)

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	require.Equal(t, blackbody.KindLookup, s.Strategy)
	require.Equal(t, gaia.DefaultDesignationPrefixLen, s.DesignationPrefixLen)
}

func TestLoad(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "gaialas.yaml")
	yaml := `
strategy: exact
domain:
  min: 1000
  max: 40000
  inclusive: true
designationPrefixLen: 9
extras: true
colorDepth: 16
outDir: /tmp/out
`
	require.NoError(t, os.WriteFile(fileName, []byte(yaml), 0666))
	s, err := Load(fileName)
	require.NoError(t, err)
	require.Equal(t, blackbody.KindExact, s.Strategy)
	require.Equal(t, &blackbody.Domain{Min: 1000, Max: 40000, Inclusive: true}, s.Domain)
	require.Equal(t, 9, s.DesignationPrefixLen)
	require.True(t, s.Extras)
	require.Equal(t, 16, s.ColorDepth)
	require.Equal(t, "/tmp/out", s.OutDir)
	require.Equal(t, 1.0, s.Sample, "unset fields keep their defaults")

	tr, err := s.NewTransformer()
	require.NoError(t, err)
	require.Equal(t, blackbody.KindExact, tr.Strategy.Kind())
	require.Equal(t, *s.Domain, tr.Strategy.Domain())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"strategy.yaml": "strategy: planck\n",
		"syntax.yaml":   "extras: [\n",
		"depth.yaml":    "colorDepth: 12\n",
	}
	for name, text := range tests {
		fileName := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(fileName, []byte(text), 0666))
		if _, err := Load(fileName); err == nil {
			t.Errorf("Load(%s) succeeded; want error", name)
		}
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("Load(missing) succeeded; want error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Settings)
	}{
		{"empty domain", func(s *Settings) { s.Domain = &blackbody.Domain{Min: 10, Max: 5} }},
		{"negative prefix", func(s *Settings) { s.DesignationPrefixLen = -1 }},
		{"zero sample", func(s *Settings) { s.Sample = 0 }},
		{"sample above one", func(s *Settings) { s.Sample = 1.5 }},
		{"color depth", func(s *Settings) { s.ColorDepth = 32 }},
		{"preview width", func(s *Settings) { s.Preview, s.PreviewWidth = true, 1 }},
		{"threads", func(s *Settings) { s.Threads = -2 }},
		{"unknown strategy", func(s *Settings) { s.Strategy = blackbody.Kind(99) }},
	}
	for _, test := range tests {
		s := Default()
		test.modify(&s)
		if err := s.Validate(); err == nil {
			t.Errorf("%s: Validate succeeded; want error", test.name)
		}
	}
}
