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
	"fmt"
	"math"

	"github.com/mlnoga/gaialas/internal/las"
	"github.com/mlnoga/gaialas/internal/preview"
)

// Destination for a converted batch
type Sink interface {
	// Suffix appended to the input file name to name the output
	Suffix() string
	WriteBatch(fileName string, b *Batch) error
}

// Writes batches as LAS 1.4 point clouds
type LASSink struct {
	ColorDepth int // 8 stores colors 0..255 as-is, 16 scales them to 0..65535
	Options    las.WriteOptions
}

var _ Sink = (*LASSink)(nil) // Compile time assertion: type implements the interface

func (s *LASSink) Suffix() string { return ".las" }

func (s *LASSink) WriteBatch(fileName string, b *Batch) error {
	cloud, err := s.Cloud(b)
	if err != nil {
		return err
	}
	return cloud.WriteFile(fileName, s.Options)
}

// Converts a batch into a point cloud with the identifiers and, if
// enabled, the extra catalog values as extra dimensions
func (s *LASSink) Cloud(b *Batch) (*las.Cloud, error) {
	var factor float64
	switch s.ColorDepth {
	case 0, 8:
		factor = 1
	case 16:
		factor = 257
	default:
		return nil, fmt.Errorf("color depth %d, want 8 or 16", s.ColorDepth)
	}
	c := &las.Cloud{
		X:     b.X,
		Y:     b.Y,
		Z:     b.Z,
		Red:   quantize(b.Red, factor),
		Green: quantize(b.Green, factor),
		Blue:  quantize(b.Blue, factor),
		Extra: []las.ExtraDim{
			{Name: "solution_id", Description: "Solution identifier", Type: las.TypeUint64, Uint64: b.SolutionID},
			{Name: "designation", Description: "Numeric part of the designation", Type: las.TypeUint64, Uint64: b.Designation},
			{Name: "source_id", Description: "Source identifier", Type: las.TypeUint64, Uint64: b.SourceID},
		},
	}
	if b.Extras {
		c.Extra = append(c.Extra,
			las.ExtraDim{Name: "parallax", Description: "Parallax in mas", Type: las.TypeFloat64, Float64: b.Parallax},
			las.ExtraDim{Name: "pm", Description: "Total proper motion in mas/yr", Type: las.TypeFloat64, Float64: b.PM},
			las.ExtraDim{Name: "phot_g_mean_mag", Description: "G-band mean magnitude", Type: las.TypeFloat64, Float64: b.GMag},
			las.ExtraDim{Name: "phot_g_mean_flux", Description: "G-band mean flux", Type: las.TypeFloat64, Float64: b.GFlux},
		)
	}
	return c, nil
}

// Rounds 0..255 channel values to integers and scales them by factor
func quantize(values []float64, factor float64) []uint16 {
	res := make([]uint16, len(values))
	for i, v := range values {
		v = math.Round(v)
		if math.IsNaN(v) || v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		res[i] = uint16(v * factor)
	}
	return res
}

// Writes batches as an all-sky preview image
type PreviewSink struct {
	Width int
}

var _ Sink = (*PreviewSink)(nil) // Compile time assertion: type implements the interface

func (s *PreviewSink) Suffix() string { return ".tif" }

func (s *PreviewSink) WriteBatch(fileName string, b *Batch) error {
	m, err := preview.NewSkyMap(s.Width)
	if err != nil {
		return err
	}
	for i := range b.X {
		m.Add(b.Point3D(i), b.Color(i))
	}
	return m.WriteTIFF16ToFile(fileName)
}
