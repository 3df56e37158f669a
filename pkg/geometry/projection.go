// Package geometry converts requested field openings at the reference plane
// into leaf placements of both MLC banks.
package geometry

import "math"

// Projection maps lengths at the reference plane onto the leaf bank plane
// using the intercept theorem
type Projection struct {
	// SSD is the source to reference plane distance in cm
	SSD float64

	// TransZ is the axial position of the leaf bank in cm
	TransZ float64
}

// Project returns the displacement at the leaf plane for a half opening at
// the reference plane. A zero half opening is exactly zero whatever the
// sign of TransZ.
func (p Projection) Project(halfOpening float64) float64 {
	return Project(halfOpening, p.SSD, p.TransZ)
}

// Project computes transZ / ssd * halfOpening. Callers validate ssd > 0
// before projecting; see config.Validate.
func Project(halfOpening, ssd, transZ float64) float64 {
	if halfOpening == 0 {
		return 0
	}
	return transZ / ssd * halfOpening
}

// EdgeRule turns one sorted leaf pair opening into displacements of the
// left and right leaf away from their closed position
type EdgeRule func(lo, hi float64, p Projection) (left, right float64)

// CentralAxisRule projects both edges independently from the central axis.
// It is the rule of the interactive editor.
func CentralAxisRule(lo, hi float64, p Projection) (left, right float64) {
	fieldSize := hi - lo
	offset := (hi + lo) / 2

	right = p.Project(offset + fieldSize/2)
	left = p.Project(fieldSize/2 - offset)
	return left, right
}

// SignedMagnitudeRule projects the magnitude of each edge and restores its
// sign afterwards, doubling the result. It is the rule of table imports.
//
// The doubling makes a table row displace leaves twice as far as the same
// opening entered interactively.
// TODO: confirm the table convention against planning system exports and
// merge the two rules.
func SignedMagnitudeRule(lo, hi float64, p Projection) (left, right float64) {
	if lo != 0 {
		left = -2 * sign(lo) * p.Project(math.Abs(lo))
	}
	if hi != 0 {
		right = 2 * sign(hi) * p.Project(math.Abs(hi))
	}
	return left, right
}

func sign(v float64) float64 {
	return v / math.Abs(v)
}
