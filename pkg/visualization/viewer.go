// Package visualization renders a beam's-eye view of leaf pair openings.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"custommlc/internal/models"
)

var (
	openColor  = color.Gray{Y: 255}
	leafColors = [2]color.Gray{{Y: 80}, {Y: 160}}
)

// Viewer draws one row per leaf pair: leaves in alternating greys, the open
// field in white
type Viewer struct {
	// openings are the pairs from top to bottom
	openings []models.LeafPairOpening

	// limit is the half width of the drawn field in cm
	limit float64

	// PixelsPerCM sets the horizontal resolution
	PixelsPerCM int

	// RowHeight is the height of one leaf pair in pixels
	RowHeight int
}

// NewViewer creates a viewer of the field [-limit, limit]
func NewViewer(openings []models.LeafPairOpening, limit float64) *Viewer {
	return &Viewer{
		openings:    openings,
		limit:       limit,
		PixelsPerCM: 10,
		RowHeight:   6,
	}
}

// Render draws the field
func (v *Viewer) Render() (image.Image, error) {
	if v.limit <= 0 || v.PixelsPerCM <= 0 || v.RowHeight <= 0 {
		return nil, fmt.Errorf("invalid viewer geometry: limit %g, %d px/cm, row %d px", v.limit, v.PixelsPerCM, v.RowHeight)
	}
	width := int(math.Ceil(2 * v.limit * float64(v.PixelsPerCM)))
	height := len(v.openings) * v.RowHeight
	img := image.NewGray(image.Rect(0, 0, width, height))

	for row, o := range v.openings {
		lo, hi := o.Sorted()
		left, right := v.column(lo), v.column(hi)
		leaf := leafColors[row%2]
		for y := row * v.RowHeight; y < (row+1)*v.RowHeight; y++ {
			for x := 0; x < width; x++ {
				if x >= left && x < right {
					img.SetGray(x, y, openColor)
				} else {
					img.SetGray(x, y, leaf)
				}
			}
		}
	}
	return img, nil
}

// column maps a field position in cm to an image column
func (v *Viewer) column(pos float64) int {
	return int(math.Round((pos + v.limit) * float64(v.PixelsPerCM)))
}

// Save renders the field as a PNG image
func (v *Viewer) Save(filename string) error {
	img, err := v.Render()
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
