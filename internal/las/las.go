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

// Package las writes and reads point clouds in the ASPRS LAS 1.4 format,
// point data record format 2 (XYZ, intensity, flags, classification and RGB)
// with additional per-point attributes declared in an Extra Bytes VLR.
// Spec here: https://www.asprs.org/wp-content/uploads/2019/07/LAS_1_4_r15.pdf
package las

import (
	"errors"
	"fmt"
)

const (
	headerSize          = 375
	vlrHeaderSize       = 54
	extraBytesDescSize  = 192
	pointFormat         = 2
	pointFormatBaseSize = 26
	extraBytesRecordID  = 4
	userIDLASFSpec      = "LASF_Spec"
)

// Data type codes of the extra bytes descriptor
type DataType uint8

const (
	TypeUint64  DataType = 7
	TypeFloat64 DataType = 10
)

func (t DataType) String() string {
	switch t {
	case TypeUint64:
		return "uint64"
	case TypeFloat64:
		return "double"
	}
	return fmt.Sprintf("type%d", uint8(t))
}

var ErrFormat = errors.New("unsupported LAS file")

// An additional per-point attribute. Exactly one of Uint64 and Float64 holds
// the values, matching Type.
type ExtraDim struct {
	Name        string
	Description string
	Type        DataType
	Uint64      []uint64
	Float64     []float64
}

func (e *ExtraDim) len() int {
	if e.Type == TypeUint64 {
		return len(e.Uint64)
	}
	return len(e.Float64)
}

// A point cloud as parallel columns of equal length
type Cloud struct {
	X, Y, Z          []float64
	Red, Green, Blue []uint16
	Extra            []ExtraDim
}

// Returns the number of points in the cloud
func (c *Cloud) Len() int { return len(c.X) }

// Checks that all columns have the same length
func (c *Cloud) Validate() error {
	n := len(c.X)
	if len(c.Y) != n || len(c.Z) != n || len(c.Red) != n || len(c.Green) != n || len(c.Blue) != n {
		return fmt.Errorf("column lengths differ: x=%d y=%d z=%d r=%d g=%d b=%d",
			len(c.X), len(c.Y), len(c.Z), len(c.Red), len(c.Green), len(c.Blue))
	}
	for i := range c.Extra {
		e := &c.Extra[i]
		if e.Type != TypeUint64 && e.Type != TypeFloat64 {
			return fmt.Errorf("extra dimension %s has unsupported type %v", e.Name, e.Type)
		}
		if e.len() != n {
			return fmt.Errorf("extra dimension %s has %d values, want %d", e.Name, e.len(), n)
		}
		if len(e.Name) > 32 {
			return fmt.Errorf("extra dimension name %s longer than 32 bytes", e.Name)
		}
	}
	return nil
}

// The public header block of a LAS 1.4 file, in file order
type Header struct {
	FileSignature        [4]byte
	FileSourceID         uint16
	GlobalEncoding       uint16
	ProjectID            [16]byte
	VersionMajor         uint8
	VersionMinor         uint8
	SystemIdentifier     [32]byte
	GeneratingSoftware   [32]byte
	CreationDayOfYear    uint16
	CreationYear         uint16
	HeaderSize           uint16
	OffsetToPointData    uint32
	NumberOfVLRs         uint32
	PointDataFormat      uint8
	PointDataRecordLen   uint16
	LegacyNumberOfPoints uint32
	LegacyPointsByReturn [5]uint32
	XScale               float64
	YScale               float64
	ZScale               float64
	XOffset              float64
	YOffset              float64
	ZOffset              float64
	MaxX                 float64
	MinX                 float64
	MaxY                 float64
	MinY                 float64
	MaxZ                 float64
	MinZ                 float64
	WaveformDataStart    uint64
	FirstEVLRStart       uint64
	NumberOfEVLRs        uint32
	NumberOfPoints       uint64
	PointsByReturn       [15]uint64
}

type vlrHeader struct {
	Reserved                uint16
	UserID                  [16]byte
	RecordID                uint16
	RecordLengthAfterHeader uint16
	Description             [32]byte
}

type extraBytesDescriptor struct {
	Reserved    [2]byte
	DataType    DataType
	Options     uint8
	Name        [32]byte
	Unused      [4]byte
	NoData      [8]byte
	Deprecated1 [16]byte
	Min         [8]byte
	Deprecated2 [16]byte
	Max         [8]byte
	Deprecated3 [16]byte
	Scale       float64
	Deprecated4 [16]byte
	Offset      float64
	Deprecated5 [16]byte
	Description [32]byte
}

// Returns the size in bytes of one value of the given type
func (t DataType) size() int {
	switch t {
	case TypeUint64, TypeFloat64:
		return 8
	}
	return 0
}

// Copies a string into a fixed size, zero padded byte array
func fixedString(dst []byte, s string) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// Returns the string in a zero padded byte array
func trimString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
