package models

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// LeafPairOpening is the requested opening of one leaf pair at the
// reference plane, in cm relative to the central axis
type LeafPairOpening struct {
	// Left is the edge shaped by the left bank
	Left float64

	// Right is the edge shaped by the right bank
	Right float64
}

// Sorted returns the two edges in ascending order. No ordering is enforced
// on input, so every consumer goes through Sorted.
func (o LeafPairOpening) Sorted() (lo, hi float64) {
	if o.Left <= o.Right {
		return o.Left, o.Right
	}
	return o.Right, o.Left
}

// FieldSize is the width of the opening at the reference plane
func (o LeafPairOpening) FieldSize() float64 {
	return math.Abs(o.Right - o.Left)
}

// Offset is the displacement of the opening centre from the central axis
func (o LeafPairOpening) Offset() float64 {
	return (o.Right + o.Left) / 2
}

// Shifted returns the opening moved by dx along the field axis
func (o LeafPairOpening) Shifted(dx float64) LeafPairOpening {
	return LeafPairOpening{Left: o.Left + dx, Right: o.Right + dx}
}

// Bank identifies one of the two opposing leaf banks
type Bank int

const (
	LeftBank Bank = iota
	RightBank
)

func (b Bank) String() string {
	if b == RightBank {
		return "Right"
	}
	return "Left"
}

// LeafPlacement describes where one physical leaf is put in the
// simulator's coordinate system
type LeafPlacement struct {
	// Bank is the leaf bank this leaf is mounted in
	Bank Bank

	// Index is the position of the leaf within its bank slice
	Index int

	// Trans is the leaf translation: X in mm, Y in mm, Z in cm
	Trans r3.Vec

	// RotX is the leaf tilt in degrees
	RotX float64

	// Material names the material block the leaf is made of
	Material string

	// InputFile is the leaf shape asset
	InputFile string

	// Color is the display colour name
	Color string
}

// Layout is the complete set of leaf placements for one export.
// Right is stored in mounting order: Right[k] faces Left[len-1-k].
type Layout struct {
	Left  []LeafPlacement
	Right []LeafPlacement
}

// Pairs returns the number of leaf pairs in the layout
func (l Layout) Pairs() int {
	return len(l.Left)
}
