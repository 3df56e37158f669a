// Package stl reads and writes binary STL meshes and builds the leaf asset
// referenced by every leaf of the simulation file.
package stl

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ErrTruncated is returned when a file holds fewer triangles than announced
var ErrTruncated = errors.New("stl: truncated triangle data")

const headerSize = 80

// Triangle is one facet with its outward normal
type Triangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
}

// binary layout of one facet
type facet struct {
	Triangle
	Attribute uint16
}

// Write encodes triangles as binary STL
func Write(w io.Writer, triangles []Triangle) error {
	var header [headerSize]byte
	copy(header[:], "custommlc leaf")
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(triangles))); err != nil {
		return err
	}
	for _, t := range triangles {
		if err := binary.Write(w, binary.LittleEndian, facet{Triangle: t}); err != nil {
			return err
		}
	}
	return nil
}

// SaveToSTL writes triangles to filename
func SaveToSTL(filename string, triangles []Triangle) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := Write(f, triangles); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return f.Close()
}

// Read decodes a binary STL
func Read(r io.Reader) ([]Triangle, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("stl header: %w", err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("stl triangle count: %w", err)
	}

	triangles := make([]Triangle, 0, min(count, 1<<20))
	for i := uint32(0); i < count; i++ {
		var f facet
		if err := binary.Read(r, binary.LittleEndian, &f); err != nil {
			return nil, fmt.Errorf("%w: triangle %d of %d", ErrTruncated, i, count)
		}
		triangles = append(triangles, f.Triangle)
	}
	return triangles, nil
}

// LoadSTL reads the binary STL at filename
func LoadSTL(filename string) ([]Triangle, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// Bounds returns the axis aligned bounding box of the mesh
func Bounds(triangles []Triangle) (lo, hi [3]float32) {
	for i := range lo {
		lo[i] = math.MaxFloat32
		hi[i] = -math.MaxFloat32
	}
	for _, t := range triangles {
		for _, v := range [3][3]float32{t.Vertex1, t.Vertex2, t.Vertex3} {
			for i := range v {
				lo[i] = min(lo[i], v[i])
				hi[i] = max(hi[i], v[i])
			}
		}
	}
	return lo, hi
}

// Extent returns the size of the bounding box along each axis
func Extent(triangles []Triangle) [3]float32 {
	if len(triangles) == 0 {
		return [3]float32{}
	}
	lo, hi := Bounds(triangles)
	return [3]float32{hi[0] - lo[0], hi[1] - lo[1], hi[2] - lo[2]}
}

// LeafMesh builds a box shaped leaf in mm. The inner edge lies on x = 0 and
// the top face on z = 0; the body extends along -x and -z and is centred on
// y = 0.
func LeafMesh(length, width, height float32) []Triangle {
	x0, x1 := -length, float32(0)
	y0, y1 := -width/2, width/2
	z0, z1 := -height, float32(0)

	quad := func(n, a, b, c, d [3]float32) []Triangle {
		return []Triangle{
			{Normal: n, Vertex1: a, Vertex2: b, Vertex3: c},
			{Normal: n, Vertex1: a, Vertex2: c, Vertex3: d},
		}
	}

	var mesh []Triangle
	mesh = append(mesh, quad([3]float32{1, 0, 0}, [3]float32{x1, y0, z0}, [3]float32{x1, y1, z0}, [3]float32{x1, y1, z1}, [3]float32{x1, y0, z1})...)
	mesh = append(mesh, quad([3]float32{-1, 0, 0}, [3]float32{x0, y0, z0}, [3]float32{x0, y0, z1}, [3]float32{x0, y1, z1}, [3]float32{x0, y1, z0})...)
	mesh = append(mesh, quad([3]float32{0, 1, 0}, [3]float32{x0, y1, z0}, [3]float32{x0, y1, z1}, [3]float32{x1, y1, z1}, [3]float32{x1, y1, z0})...)
	mesh = append(mesh, quad([3]float32{0, -1, 0}, [3]float32{x0, y0, z0}, [3]float32{x1, y0, z0}, [3]float32{x1, y0, z1}, [3]float32{x0, y0, z1})...)
	mesh = append(mesh, quad([3]float32{0, 0, 1}, [3]float32{x0, y0, z1}, [3]float32{x1, y0, z1}, [3]float32{x1, y1, z1}, [3]float32{x0, y1, z1})...)
	mesh = append(mesh, quad([3]float32{0, 0, -1}, [3]float32{x0, y0, z0}, [3]float32{x0, y1, z0}, [3]float32{x1, y1, z0}, [3]float32{x1, y0, z0})...)
	return mesh
}
