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
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"
)

// Settings for writing a LAS file
type WriteOptions struct {
	SystemIdentifier   string    // Up to 32 bytes
	GeneratingSoftware string    // Up to 32 bytes
	Scale              float64   // Finest coordinate resolution, coarsened if the extent needs it. 0 means 0.001
	Created            time.Time // Creation date stored in the header. Zero means now
}

const defaultScale = 0.001

// Writes the cloud to the file with the given name. The data is written to a
// temporary file in the same directory first and renamed on success, so readers
// never observe a partially written file.
func (c *Cloud) WriteFile(fileName string, opts WriteOptions) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(fileName), filepath.Base(fileName)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriterSize(tmp, 1<<20)
	if err = c.Write(w, opts); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fileName)
}

// Writes the cloud in LAS 1.4 point format 2 to the given writer
func (c *Cloud) Write(w io.Writer, opts WriteOptions) error {
	if err := c.Validate(); err != nil {
		return err
	}
	h := c.header(opts)
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	if len(c.Extra) > 0 {
		if err := c.writeExtraBytesVLR(w); err != nil {
			return err
		}
	}
	return c.writePoints(w, &h)
}

// Builds the public header block for the cloud
func (c *Cloud) header(opts WriteOptions) Header {
	h := Header{
		FileSignature:      [4]byte{'L', 'A', 'S', 'F'},
		VersionMajor:       1,
		VersionMinor:       4,
		HeaderSize:         headerSize,
		OffsetToPointData:  uint32(headerSize),
		PointDataFormat:    pointFormat,
		PointDataRecordLen: uint16(c.recordLen()),
		NumberOfPoints:     uint64(c.Len()),
	}
	fixedString(h.SystemIdentifier[:], opts.SystemIdentifier)
	fixedString(h.GeneratingSoftware[:], opts.GeneratingSoftware)
	created := opts.Created
	if created.IsZero() {
		created = time.Now()
	}
	h.CreationDayOfYear = uint16(created.YearDay())
	h.CreationYear = uint16(created.Year())
	if len(c.Extra) > 0 {
		h.NumberOfVLRs = 1
		h.OffsetToPointData += uint32(vlrHeaderSize + extraBytesDescSize*len(c.Extra))
	}
	if n := c.Len(); uint64(n) <= math.MaxUint32 {
		h.LegacyNumberOfPoints = uint32(n)
		h.LegacyPointsByReturn[0] = uint32(n)
	}
	h.PointsByReturn[0] = uint64(c.Len())

	scale := opts.Scale
	if scale <= 0 {
		scale = defaultScale
	}
	h.XScale, h.XOffset, h.MinX, h.MaxX = scaleAndOffset(c.X, scale)
	h.YScale, h.YOffset, h.MinY, h.MaxY = scaleAndOffset(c.Y, scale)
	h.ZScale, h.ZOffset, h.MinZ, h.MaxZ = scaleAndOffset(c.Z, scale)
	return h
}

// Returns the size of one point record including extra bytes
func (c *Cloud) recordLen() int {
	n := pointFormatBaseSize
	for i := range c.Extra {
		n += c.Extra[i].Type.size()
	}
	return n
}

// Chooses an offset below the minimum value, and the finest power of ten
// multiple of the given scale at which all values fit into an int32
func scaleAndOffset(values []float64, minScale float64) (scale, offset, min, max float64) {
	if len(values) == 0 {
		return minScale, 0, 0, 0
	}
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	offset = math.Floor(min)
	scale = minScale
	for (max-offset)/scale > math.MaxInt32 {
		scale *= 10
	}
	return scale, offset, min, max
}

func (c *Cloud) writeExtraBytesVLR(w io.Writer) error {
	vh := vlrHeader{
		RecordID:                extraBytesRecordID,
		RecordLengthAfterHeader: uint16(extraBytesDescSize * len(c.Extra)),
	}
	fixedString(vh.UserID[:], userIDLASFSpec)
	fixedString(vh.Description[:], "Extra Bytes Record")
	if err := binary.Write(w, binary.LittleEndian, &vh); err != nil {
		return err
	}
	for i := range c.Extra {
		e := &c.Extra[i]
		d := extraBytesDescriptor{DataType: e.Type, Scale: 1}
		fixedString(d.Name[:], e.Name)
		fixedString(d.Description[:], e.Description)
		if err := binary.Write(w, binary.LittleEndian, &d); err != nil {
			return fmt.Errorf("extra bytes descriptor %s: %w", e.Name, err)
		}
	}
	return nil
}

// Single return, first return
const returnFlags = 1 | 1<<3

func (c *Cloud) writePoints(w io.Writer, h *Header) error {
	le := binary.LittleEndian
	rec := make([]byte, h.PointDataRecordLen)
	for i := 0; i < c.Len(); i++ {
		le.PutUint32(rec[0:], uint32(int32(math.Round((c.X[i]-h.XOffset)/h.XScale))))
		le.PutUint32(rec[4:], uint32(int32(math.Round((c.Y[i]-h.YOffset)/h.YScale))))
		le.PutUint32(rec[8:], uint32(int32(math.Round((c.Z[i]-h.ZOffset)/h.ZScale))))
		le.PutUint16(rec[12:], 0) // intensity
		rec[14] = returnFlags
		rec[15] = 0               // classification: created, never classified
		rec[16] = 0               // scan angle rank
		rec[17] = 0               // user data
		le.PutUint16(rec[18:], 0) // point source ID
		le.PutUint16(rec[20:], c.Red[i])
		le.PutUint16(rec[22:], c.Green[i])
		le.PutUint16(rec[24:], c.Blue[i])

		off := pointFormatBaseSize
		for j := range c.Extra {
			e := &c.Extra[j]
			if e.Type == TypeUint64 {
				le.PutUint64(rec[off:], e.Uint64[i])
			} else {
				le.PutUint64(rec[off:], math.Float64bits(e.Float64[i]))
			}
			off += e.Type.size()
		}
		if _, err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
