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

// Package config holds the conversion settings, their defaults and
// loading them from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mlnoga/gaialas/internal/blackbody"
	"github.com/mlnoga/gaialas/internal/gaia"
)

// Settings for converting catalog files into point clouds
type Settings struct {
	Strategy             blackbody.Kind    `json:"strategy"             yaml:"strategy"`             // exact, polynomial or lookup
	Domain               *blackbody.Domain `json:"domain,omitempty"     yaml:"domain,omitempty"`     // nil selects the strategy default
	DesignationPrefixLen int               `json:"designationPrefixLen" yaml:"designationPrefixLen"` // characters before the numeric id in a designation
	Extras               bool              `json:"extras"               yaml:"extras"`               // also write parallax, pm, phot_g_mean_mag, phot_g_mean_flux
	Sample               float64           `json:"sample"               yaml:"sample"`               // fraction of valid stars to keep, in (0,1]
	Seed                 uint32            `json:"seed"                 yaml:"seed"`                 // seed for sampling, 0=random
	OutDir               string            `json:"outDir"               yaml:"outDir"`               // empty writes next to the input
	ColorDepth           int               `json:"colorDepth"           yaml:"colorDepth"`           // 8 or 16 bits per channel
	Preview              bool              `json:"preview"              yaml:"preview"`              // also write an all-sky TIFF per file
	PreviewWidth         int               `json:"previewWidth"         yaml:"previewWidth"`         // pixels, the height is half
	Force                bool              `json:"force"                yaml:"force"`                // overwrite existing outputs
	Threads              int               `json:"threads"              yaml:"threads"`              // 0=number of logical cores
	MemoryMB             int               `json:"memoryMB"             yaml:"memoryMB"`             // 0=70% of physical memory
	ReportRecords        bool              `json:"reportRecords"        yaml:"reportRecords"`        // log every rejected record, not just counts
}

// Returns the default settings
func Default() Settings {
	return Settings{
		Strategy:             blackbody.KindLookup,
		DesignationPrefixLen: gaia.DefaultDesignationPrefixLen,
		Sample:               1,
		ColorDepth:           8,
		PreviewWidth:         2048,
		ReportRecords:        true,
	}
}

// Loads settings from a YAML file on top of the defaults
func Load(fileName string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(fileName)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing %s: %w", fileName, err)
	}
	return s, s.Validate()
}

// Checks the settings for consistency
func (s *Settings) Validate() error {
	errs := []error{}
	if _, err := s.Strategy.MarshalText(); err != nil {
		errs = append(errs, err)
	}
	if s.Domain != nil && !(s.Domain.Min <= s.Domain.Max) {
		errs = append(errs, fmt.Errorf("temperature domain %v is empty", *s.Domain))
	}
	if s.DesignationPrefixLen < 0 {
		errs = append(errs, fmt.Errorf("designation prefix length %d is negative", s.DesignationPrefixLen))
	}
	if !(s.Sample > 0 && s.Sample <= 1) {
		errs = append(errs, fmt.Errorf("sample fraction %g not in (0,1]", s.Sample))
	}
	if s.ColorDepth != 8 && s.ColorDepth != 16 {
		errs = append(errs, fmt.Errorf("color depth %d, want 8 or 16", s.ColorDepth))
	}
	if s.Preview && (s.PreviewWidth < 2 || s.PreviewWidth > 65536) {
		errs = append(errs, fmt.Errorf("preview width %d not in [2,65536]", s.PreviewWidth))
	}
	if s.Threads < 0 || s.MemoryMB < 0 {
		errs = append(errs, fmt.Errorf("threads %d and memory %dMB must not be negative", s.Threads, s.MemoryMB))
	}
	return errors.Join(errs...)
}

// Creates the color strategy the settings select
func (s *Settings) NewStrategy() (blackbody.Strategy, error) {
	return blackbody.New(s.Strategy, s.Domain)
}

// Creates the record transformer the settings select
func (s *Settings) NewTransformer() (*gaia.Transformer, error) {
	strategy, err := s.NewStrategy()
	if err != nil {
		return nil, err
	}
	return gaia.NewTransformer(strategy, s.DesignationPrefixLen, s.Extras), nil
}
