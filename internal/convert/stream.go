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

package convert

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mlnoga/gaialas/internal/gaia"
)

// Streams records from a CSV catalog with a header row. Lines starting
// with # are skipped, which covers the ECSV preamble of newer releases.
type CSVStream struct {
	Schema *gaia.Schema
	reader *csv.Reader
}

// Reads the header row from r and prepares to stream the data rows
func NewCSVStream(r io.Reader) (*CSVStream, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", gaia.ErrMissingColumns)
	}
	if err != nil {
		return nil, err
	}
	schema, err := gaia.NewSchema(header)
	if err != nil {
		return nil, err
	}
	return &CSVStream{Schema: schema, reader: cr}, nil
}

func (s *CSVStream) Next() (gaia.Record, error) {
	fields, err := s.reader.Read()
	if err != nil {
		return gaia.Record{}, err
	}
	return gaia.Record{Schema: s.Schema, Fields: fields}, nil
}

// Returns the line in the file of the record last read, for messages
func (s *CSVStream) Line() int {
	line, _ := s.reader.FieldPos(0)
	return line
}

var _ RecordStream = (*CSVStream)(nil) // Compile time assertion: type implements the interface

// Opens a CSV catalog file for streaming. Files ending in .gz or .gzip
// are decompressed on the fly. Call the returned close function when done.
func OpenCSV(fileName string) (s *CSVStream, closeFn func() error, err error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, nil, err
	}
	var r io.Reader = f
	var zr *gzip.Reader
	if isGzip(fileName) {
		if zr, err = gzip.NewReader(f); err != nil {
			f.Close()
			return nil, nil, err
		}
		r = zr
	}
	closeFn = func() error {
		if zr != nil {
			zr.Close()
		}
		return f.Close()
	}
	if s, err = NewCSVStream(r); err != nil {
		closeFn()
		return nil, nil, err
	}
	return s, closeFn, nil
}

func isGzip(fileName string) bool {
	lower := strings.ToLower(fileName)
	return strings.HasSuffix(lower, ".gz") || strings.HasSuffix(lower, ".gzip")
}
