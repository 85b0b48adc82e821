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

// Package gaia turns rows of the Gaia source catalog into colored points.
// See https://gea.esac.esa.int/archive/documentation/GDR3/Gaia_archive/chap_datamodel/sec_dm_main_source_catalogue/ssec_dm_gaia_source.html
package gaia

import (
	"fmt"
	"strings"
)

// Column names of the Gaia source catalog used here
const (
	ColSolutionID   = "solution_id"
	ColDesignation  = "designation"
	ColSourceID     = "source_id"
	ColL            = "l"
	ColB            = "b"
	ColParallax     = "parallax"
	ColNuEff        = "nu_eff_used_in_astrometry"
	ColPseudocolour = "pseudocolour"
	ColPM           = "pm"
	ColGMag         = "phot_g_mean_mag"
	ColGFlux        = "phot_g_mean_flux"
)

var requiredColumns = []string{ColSolutionID, ColDesignation, ColSourceID, ColL, ColB, ColParallax}

// Optional columns copied into the output when extras are enabled
var ExtraColumns = []string{ColParallax, ColPM, ColGMag, ColGFlux}

// Maps column names to their index in a row. Built once per file from the header,
// then shared read-only by all records of the file.
type Schema struct {
	index map[string]int
}

// Builds a schema from a header row. Fails with ErrMissingColumns if a required
// column is absent, or if neither photometric index column is present.
// Column names are matched after trimming spaces and a byte order mark.
func NewSchema(header []string) (*Schema, error) {
	s := &Schema{index: make(map[string]int, len(header))}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := s.index[name]; !dup {
			s.index[name] = i
		}
	}
	missing := []string{}
	for _, name := range requiredColumns {
		if !s.Has(name) {
			missing = append(missing, name)
		}
	}
	if !s.Has(ColNuEff) && !s.Has(ColPseudocolour) {
		missing = append(missing, ColNuEff+"|"+ColPseudocolour)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return s, nil
}

func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// One row of catalog data
type Record struct {
	Schema *Schema
	Fields []string
}

// Returns the raw text of the named field, and whether it holds a value.
// Absent columns, short rows, empty strings and the literal null are missing.
func (r Record) Get(name string) (value string, ok bool) {
	i, has := r.Schema.index[name]
	if !has || i >= len(r.Fields) {
		return "", false
	}
	value = strings.TrimSpace(r.Fields[i])
	if value == "" || value == "null" {
		return value, false
	}
	return value, true
}
