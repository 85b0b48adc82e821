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

package las

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Reads a LAS file written in point format 2, with optional extra bytes.
// Decompresses gzip if .gz or .gzip suffix is present.
func ReadFile(fileName string) (c *Cloud, h *Header, err error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	lExt := strings.ToLower(filepath.Ext(fileName))
	if lExt == ".gz" || lExt == ".gzip" {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		defer gz.Close()
		r = gz
	}
	return Read(r)
}

// Reads the header of a LAS file only
func ReadHeader(r io.Reader) (*Header, error) {
	h := &Header{}
	if err := binary.Read(r, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	if string(h.FileSignature[:]) != "LASF" {
		return nil, fmt.Errorf("%w: bad signature %q", ErrFormat, h.FileSignature[:])
	}
	if h.VersionMajor != 1 || h.VersionMinor < 4 || h.HeaderSize < headerSize {
		return nil, fmt.Errorf("%w: version %d.%d header size %d", ErrFormat, h.VersionMajor, h.VersionMinor, h.HeaderSize)
	}
	return h, nil
}

// Reads a LAS 1.4 point format 2 stream into memory
func Read(r io.Reader) (c *Cloud, h *Header, err error) {
	h, err = ReadHeader(r)
	if err != nil {
		return nil, nil, err
	}
	if h.PointDataFormat != pointFormat {
		return nil, nil, fmt.Errorf("%w: point format %d", ErrFormat, h.PointDataFormat)
	}
	pos := int64(headerSize)
	if skip := int64(h.HeaderSize) - pos; skip > 0 {
		if _, err := io.CopyN(io.Discard, r, skip); err != nil {
			return nil, nil, err
		}
		pos += skip
	}

	c = &Cloud{}
	for i := uint32(0); i < h.NumberOfVLRs; i++ {
		var vh vlrHeader
		if err := binary.Read(r, binary.LittleEndian, &vh); err != nil {
			return nil, nil, err
		}
		pos += vlrHeaderSize
		if trimString(vh.UserID[:]) == userIDLASFSpec && vh.RecordID == extraBytesRecordID {
			n := int(vh.RecordLengthAfterHeader) / extraBytesDescSize
			for j := 0; j < n; j++ {
				var d extraBytesDescriptor
				if err := binary.Read(r, binary.LittleEndian, &d); err != nil {
					return nil, nil, err
				}
				if d.DataType.size() == 0 {
					return nil, nil, fmt.Errorf("%w: extra dimension type %v", ErrFormat, d.DataType)
				}
				c.Extra = append(c.Extra, ExtraDim{
					Name:        trimString(d.Name[:]),
					Description: trimString(d.Description[:]),
					Type:        d.DataType,
				})
			}
			pos += int64(n * extraBytesDescSize)
			if rest := int64(vh.RecordLengthAfterHeader) - int64(n*extraBytesDescSize); rest > 0 {
				if _, err := io.CopyN(io.Discard, r, rest); err != nil {
					return nil, nil, err
				}
				pos += rest
			}
		} else {
			if _, err := io.CopyN(io.Discard, r, int64(vh.RecordLengthAfterHeader)); err != nil {
				return nil, nil, err
			}
			pos += int64(vh.RecordLengthAfterHeader)
		}
	}
	if skip := int64(h.OffsetToPointData) - pos; skip > 0 {
		if _, err := io.CopyN(io.Discard, r, skip); err != nil {
			return nil, nil, err
		}
	}
	if int(h.PointDataRecordLen) != c.recordLen() {
		return nil, nil, fmt.Errorf("%w: record length %d, extra bytes describe %d", ErrFormat, h.PointDataRecordLen, c.recordLen())
	}

	if err := c.readPoints(r, h); err != nil {
		return nil, nil, err
	}
	return c, h, nil
}

func (c *Cloud) readPoints(r io.Reader, h *Header) error {
	n := int(h.NumberOfPoints)
	c.X, c.Y, c.Z = make([]float64, n), make([]float64, n), make([]float64, n)
	c.Red, c.Green, c.Blue = make([]uint16, n), make([]uint16, n), make([]uint16, n)
	for j := range c.Extra {
		if c.Extra[j].Type == TypeUint64 {
			c.Extra[j].Uint64 = make([]uint64, n)
		} else {
			c.Extra[j].Float64 = make([]float64, n)
		}
	}

	le := binary.LittleEndian
	rec := make([]byte, h.PointDataRecordLen)
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, rec); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
		c.X[i] = float64(int32(le.Uint32(rec[0:])))*h.XScale + h.XOffset
		c.Y[i] = float64(int32(le.Uint32(rec[4:])))*h.YScale + h.YOffset
		c.Z[i] = float64(int32(le.Uint32(rec[8:])))*h.ZScale + h.ZOffset
		c.Red[i] = le.Uint16(rec[20:])
		c.Green[i] = le.Uint16(rec[22:])
		c.Blue[i] = le.Uint16(rec[24:])
		off := pointFormatBaseSize
		for j := range c.Extra {
			e := &c.Extra[j]
			if e.Type == TypeUint64 {
				e.Uint64[i] = le.Uint64(rec[off:])
			} else {
				e.Float64[i] = math.Float64frombits(le.Uint64(rec[off:]))
			}
			off += e.Type.size()
		}
	}
	return nil
}

// Returns the extra dimension with the given name, or nil
func (c *Cloud) ExtraByName(name string) *ExtraDim {
	for i := range c.Extra {
		if c.Extra[i].Name == name {
			return &c.Extra[i]
		}
	}
	return nil
}

// Prints a human readable summary of a header
func (h *Header) Print(w io.Writer) {
	fmt.Fprintf(w, "LAS %d.%d point format %d, %d bytes per point, %d points\n",
		h.VersionMajor, h.VersionMinor, h.PointDataFormat, h.PointDataRecordLen, h.NumberOfPoints)
	fmt.Fprintf(w, "Created day %d of %d by '%s' on '%s'\n",
		h.CreationDayOfYear, h.CreationYear, trimString(h.GeneratingSoftware[:]), trimString(h.SystemIdentifier[:]))
	fmt.Fprintf(w, "X [%.6g, %.6g] scale %g offset %g\n", h.MinX, h.MaxX, h.XScale, h.XOffset)
	fmt.Fprintf(w, "Y [%.6g, %.6g] scale %g offset %g\n", h.MinY, h.MaxY, h.YScale, h.YOffset)
	fmt.Fprintf(w, "Z [%.6g, %.6g] scale %g offset %g\n", h.MinZ, h.MaxZ, h.ZScale, h.ZOffset)
}
