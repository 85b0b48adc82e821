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

// Package preview renders colored points as an all-sky map in galactic
// coordinates, for a quick look at a converted catalog without a point
// cloud viewer.
package preview

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"

	"github.com/mlnoga/gaialas/internal/astro"
	"github.com/mlnoga/gaialas/internal/blackbody"
)

// Plate carree map of the sky with 2:1 aspect. Longitude zero is in the
// center and increases to the left, latitude +90 is at the top.
type SkyMap struct {
	Width, Height int
	sum           []blackbody.RGB
	count         []uint32
}

func NewSkyMap(width int) (*SkyMap, error) {
	if width < 2 {
		return nil, fmt.Errorf("sky map width %d too small", width)
	}
	height := width / 2
	return &SkyMap{
		Width:  width,
		Height: height,
		sum:    make([]blackbody.RGB, width*height),
		count:  make([]uint32, width*height),
	}, nil
}

// Returns the pixel a direction falls onto, or false for the origin
func (m *SkyMap) Pixel(p astro.Point3D) (x, y int, ok bool) {
	r := p.Norm()
	if r == 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, 0, false
	}
	lon := math.Atan2(p.Y, p.X) // -pi..pi
	lat := math.Asin(p.Z / r)   // -pi/2..pi/2
	x = int(math.Floor((0.5 - lon/(2*math.Pi)) * float64(m.Width)))
	y = int(math.Floor((0.5 - lat/math.Pi) * float64(m.Height)))
	return clampInt(x, 0, m.Width-1), clampInt(y, 0, m.Height-1), true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Adds a star in the given direction with the given 0..255 color
func (m *SkyMap) Add(p astro.Point3D, c blackbody.RGB) {
	x, y, ok := m.Pixel(p)
	if !ok {
		return
	}
	i := y*m.Width + x
	m.sum[i].R += c.R
	m.sum[i].G += c.G
	m.sum[i].B += c.B
	m.count[i]++
}

// Renders the map. Each pixel shows the mean color of its stars, with
// brightness growing logarithmically with the star count.
func (m *SkyMap) Image() *image.RGBA64 {
	img := image.NewRGBA64(image.Rect(0, 0, m.Width, m.Height))
	maxCount := uint32(0)
	for _, n := range m.count {
		if n > maxCount {
			maxCount = n
		}
	}
	if maxCount == 0 {
		return img
	}
	norm := 1 / math.Log1p(float64(maxCount))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := y*m.Width + x
			n := m.count[i]
			if n == 0 {
				img.SetRGBA64(x, y, color.RGBA64{0, 0, 0, 65535})
				continue
			}
			brightness := math.Log1p(float64(n)) * norm / 255 / float64(n)
			s := m.sum[i]
			img.SetRGBA64(x, y, color.RGBA64{
				to16(s.R * brightness), to16(s.G * brightness), to16(s.B * brightness), 65535,
			})
		}
	}
	return img
}

func to16(v float64) uint16 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 65535
	}
	return uint16(v*65535 + 0.5)
}

// Writes the map as a 16-bit TIFF file
func (m *SkyMap) WriteTIFF16ToFile(fileName string) error {
	return writeFileAtomic(fileName, m.WriteTIFF16)
}

// Writes to a temporary file in the same directory and renames it on
// success. On failure the temporary file is removed and any existing
// file with the given name is left untouched.
func writeFileAtomic(fileName string, write func(io.Writer) error) (err error) {
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

	w := bufio.NewWriter(tmp)
	if err = write(w); err != nil {
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

// Writes the map as a 16-bit TIFF
func (m *SkyMap) WriteTIFF16(writer io.Writer) error {
	return tiff.Encode(writer, m.Image(), &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}
