package geometry

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"

	"custommlc/internal/models"
	"custommlc/pkg/config"
)

// ErrTooManyPairs is returned when more openings are given than the device holds
var ErrTooManyPairs = errors.New("more leaf pair openings than leaf pairs in the device")

// LeafMaterial is the material block every leaf refers to
const LeafMaterial = "LeafMaterial"

// Palette alternates between neighbouring leaves
var Palette = [2]string{"Grey080", "Grey160"}

// Builder computes the leaf placements of both banks
type Builder struct {
	cfg  *config.Config
	rule EdgeRule
}

// NewBuilder creates a builder for a validated configuration. A nil rule
// selects CentralAxisRule.
func NewBuilder(cfg *config.Config, rule EdgeRule) *Builder {
	if rule == nil {
		rule = CentralAxisRule
	}
	return &Builder{cfg: cfg, rule: rule}
}

// Build returns the placements for every leaf of the device. Openings fill
// the centre of the banks; surplus slots on both ends stay closed, with the
// odd slot going to the trailing end.
func (b *Builder) Build(openings []models.LeafPairOpening) (models.Layout, error) {
	dev := b.cfg.Device
	n := dev.NumberOfLeafPairs
	if len(openings) > n {
		return models.Layout{}, fmt.Errorf("%w: %d openings, %d pairs", ErrTooManyPairs, len(openings), n)
	}

	leftX, rightX := b.EdgePositions(openings)

	// the right bank is mounted rotated by 180 degrees
	slices.Reverse(rightX)

	rotX := b.tilts(n)
	layout := models.Layout{
		Left:  make([]models.LeafPlacement, n),
		Right: make([]models.LeafPlacement, n),
	}
	for k := 0; k < n; k++ {
		layout.Left[k] = b.placement(models.LeftBank, k, n, leftX[k], rotX[k], Palette[k%2])
		layout.Right[k] = b.placement(models.RightBank, k, n, rightX[k], rotX[k], Palette[(n-1-k)%2])
	}

	return layout, nil
}

// EdgePositions returns the x coordinate of every left and right leaf in
// computation order, padded with closed leaves up to the device capacity
func (b *Builder) EdgePositions(openings []models.LeafPairOpening) (leftX, rightX []float64) {
	dev := b.cfg.Device
	n := max(dev.NumberOfLeafPairs, len(openings))
	closed := -dev.InnerEdgeOffset
	proj := Projection{SSD: dev.SSD, TransZ: dev.MLCTransZ}

	lead := (n - len(openings)) / 2
	leftX = make([]float64, n)
	rightX = make([]float64, n)
	for k := range leftX {
		leftX[k] = closed
		rightX[k] = closed
	}

	for i, o := range openings {
		lo, hi := o.Sorted()
		left, right := b.rule(lo, hi, proj)
		leftX[lead+i] = round3(-(dev.InnerEdgeOffset + left))
		rightX[lead+i] = round3(-(dev.InnerEdgeOffset + right))
	}
	return leftX, rightX
}

func (b *Builder) placement(bank models.Bank, k, n int, x, rotX float64, color string) models.LeafPlacement {
	return models.LeafPlacement{
		Bank:      bank,
		Index:     k,
		Trans:     r3.Vec{X: x, Y: b.spacing(k, n), Z: b.curvature(k, n)},
		RotX:      rotX,
		Material:  LeafMaterial,
		InputFile: b.cfg.Device.LeafSTLPath,
		Color:     color,
	}
}

// spacing places the leaf centres one pitch apart, symmetric about the axis
func (b *Builder) spacing(k, n int) float64 {
	w := b.cfg.Device.LeafWidth
	return w*float64(k-n/2) + w/2
}

func (b *Builder) curvature(k, n int) float64 {
	l := b.cfg.Leaves
	if l.CurvatureAmplitude == 0 {
		return 0
	}
	return l.CurvatureAmplitude * math.Cos(l.CurvatureFrequency*float64(k-n/2))
}

func (b *Builder) tilts(n int) []float64 {
	l := b.cfg.Leaves
	rot := make([]float64, n)
	if l.RotXStart == l.RotXEnd || n < 2 {
		for k := range rot {
			rot[k] = l.RotXStart
		}
		return rot
	}
	return floats.Span(rot, l.RotXStart, l.RotXEnd)
}

func round3(v float64) float64 {
	return scalar.RoundEven(v, 3)
}
