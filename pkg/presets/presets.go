// Package presets generates standard leaf pair fields for the editor.
package presets

import (
	"math"
	"sort"

	"custommlc/internal/models"
)

// Generator returns the openings of a preset for n leaf pairs
type Generator func(n int) []models.LeafPairOpening

var registry = map[string]Generator{
	"sine":   Sine,
	"wave":   Wave,
	"zigzag": ZigZag,
	"diag":   Diag,
}

// Lookup returns the generator registered under name
func Lookup(name string) (Generator, bool) {
	g, ok := registry[name]
	return g, ok
}

// Names lists the registered presets in alphabetical order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// generate calls f for the centred pair indices -n/2 .. n-1-n/2
func generate(n int, f func(i float64) models.LeafPairOpening) []models.LeafPairOpening {
	out := make([]models.LeafPairOpening, n)
	for k := range out {
		out[k] = f(float64(k - n/2))
	}
	return out
}

// Sine is a 10 cm wide opening following a sine wave
func Sine(n int) []models.LeafPairOpening {
	return generate(n, func(i float64) models.LeafPairOpening {
		s := 10 * math.Sin(i*math.Pi/15)
		return models.LeafPairOpening{Left: 5 + s, Right: -5 + s}
	})
}

// Wave opens and closes symmetrically about the axis
func Wave(n int) []models.LeafPairOpening {
	return generate(n, func(i float64) models.LeafPairOpening {
		c := 10 * math.Cos(i*math.Pi/15)
		return models.LeafPairOpening{Left: c, Right: -c}
	})
}

// ZigZag alternates 10 cm open and closed pairs
func ZigZag(n int) []models.LeafPairOpening {
	out := make([]models.LeafPairOpening, n)
	for k := range out {
		if (k-n/2)%2 == 0 {
			out[k] = models.LeafPairOpening{Left: -5, Right: 5}
		}
	}
	return out
}

// Diag is a 5 cm opening moving 0.5 cm per pair
func Diag(n int) []models.LeafPairOpening {
	return generate(n, func(i float64) models.LeafPairOpening {
		return models.LeafPairOpening{Left: i*0.5 - 2.5, Right: i*0.5 + 2.5}
	})
}

// Uniform opens every pair to a centred field of the given full size
func Uniform(n int, fieldSize float64) []models.LeafPairOpening {
	half := fieldSize / 2
	out := make([]models.LeafPairOpening, n)
	for k := range out {
		out[k] = models.LeafPairOpening{Left: -half, Right: half}
	}
	return out
}
