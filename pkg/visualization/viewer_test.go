package visualization

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"custommlc/internal/models"
)

// TestRender verifies leaves and open field land in the right columns
func TestRender(t *testing.T) {
	openings := []models.LeafPairOpening{
		{Left: -5, Right: 5},
		{Left: 0, Right: 0},
		{Left: 10, Right: 2},
	}
	viewer := NewViewer(openings, 20)

	img, err := viewer.Render()
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 400 || bounds.Dy() != 18 {
		t.Fatalf("Expected 400x18 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	gray := img.(*image.Gray)

	// Row 0 is open from column 150 to 249
	if gray.GrayAt(149, 0) != leafColors[0] {
		t.Errorf("Expected leaf at column 149, got %v", gray.GrayAt(149, 0))
	}
	if gray.GrayAt(150, 0) != openColor || gray.GrayAt(249, 5) != openColor {
		t.Error("Expected open field between the leaves of row 0")
	}
	if gray.GrayAt(250, 0) != leafColors[0] {
		t.Errorf("Expected leaf at column 250, got %v", gray.GrayAt(250, 0))
	}

	// Row 1 is closed
	for x := 0; x < bounds.Dx(); x++ {
		if gray.GrayAt(x, 6) != leafColors[1] {
			t.Fatalf("Expected closed row 1, column %d is %v", x, gray.GrayAt(x, 6))
		}
	}

	// Row 2 has reversed edges
	if gray.GrayAt(220, 12) != openColor {
		t.Error("Expected reversed edges to be sorted")
	}
}

// TestRenderRejectsInvalidGeometry checks zero sized fields are reported
func TestRenderRejectsInvalidGeometry(t *testing.T) {
	viewer := NewViewer(nil, 0)
	if _, err := viewer.Render(); err == nil {
		t.Error("Expected an error for a zero field")
	}
}

// TestSave verifies a readable PNG is written
func TestSave(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "field.png")
	viewer := NewViewer([]models.LeafPairOpening{{Left: -1, Right: 1}}, 20)
	viewer.RowHeight = 3

	if err := viewer.Save(filename); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	file, err := os.Open(filename)
	if err != nil {
		t.Fatalf("Failed to open preview: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Failed to decode preview: %v", err)
	}
	if img.Bounds().Dy() != 3 {
		t.Errorf("Expected height 3, got %d", img.Bounds().Dy())
	}
}
