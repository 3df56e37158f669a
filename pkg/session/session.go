// Package session owns the leaf pair openings being edited interactively and
// the operations the editor offers on them.
package session

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"custommlc/internal/models"
	"custommlc/pkg/config"
	"custommlc/pkg/export"
	"custommlc/pkg/presets"
)

// PairControl is what an editor widget offers for one leaf pair
type PairControl interface {
	Values() models.LeafPairOpening
	SetValues(models.LeafPairOpening)
}

// ValueControl is a PairControl without a widget behind it
type ValueControl struct {
	opening models.LeafPairOpening
}

func (c *ValueControl) Values() models.LeafPairOpening {
	return c.opening
}

func (c *ValueControl) SetValues(o models.LeafPairOpening) {
	c.opening = o
}

// ParseResult is the outcome of parsing typed text. Valid is false when the
// text did not hold what was expected; the caller keeps its previous value.
type ParseResult struct {
	Pair  models.LeafPairOpening
	Valid bool
}

var numberPattern = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)`)

// ParsePair extracts exactly two numbers from text
func ParsePair(text string) ParseResult {
	tokens := numberPattern.FindAllString(text, -1)
	if len(tokens) != 2 {
		return ParseResult{}
	}
	left, ok := parseNumber(tokens[0])
	if !ok {
		return ParseResult{}
	}
	right, ok := parseNumber(tokens[1])
	if !ok {
		return ParseResult{}
	}
	return ParseResult{Pair: models.LeafPairOpening{Left: left, Right: right}, Valid: true}
}

// parseNumber accepts finite numbers only
func parseNumber(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Session holds one control per editable leaf pair
type Session struct {
	cfg      *config.Config
	controls []PairControl
}

// New creates a session over existing controls
func New(cfg *config.Config, controls []PairControl) *Session {
	return &Session{cfg: cfg, controls: controls}
}

// NewDefault creates a session with plain controls for every rendered pair,
// starting from the zigzag field
func NewDefault(cfg *config.Config) *Session {
	n := cfg.RenderedPairs()
	controls := make([]PairControl, n)
	for i, o := range presets.ZigZag(n) {
		controls[i] = &ValueControl{opening: o}
	}
	return New(cfg, controls)
}

// Config returns the device configuration of the session
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Len is the number of editable pairs
func (s *Session) Len() int {
	return len(s.controls)
}

// Control returns the control of pair i
func (s *Session) Control(i int) PairControl {
	return s.controls[i]
}

// Openings reads the current value of every control
func (s *Session) Openings() []models.LeafPairOpening {
	out := make([]models.LeafPairOpening, len(s.controls))
	for i, c := range s.controls {
		out[i] = c.Values()
	}
	return out
}

// ApplyPreset sets every pair from the named preset
func (s *Session) ApplyPreset(name string) bool {
	g, ok := presets.Lookup(name)
	if !ok {
		return false
	}
	s.apply(g(len(s.controls)))
	return true
}

// ApplyFieldSize opens every pair to a centred field of the typed full size.
// Sizes wider than the allowed field change nothing.
func (s *Session) ApplyFieldSize(text string) bool {
	size, ok := parseNumber(text)
	if !ok || math.Abs(size)/2 > s.cfg.Device.MaxHalfField {
		return false
	}
	s.apply(presets.Uniform(len(s.controls), size))
	return true
}

// Shift moves every pair by the typed offset in cm. Nothing changes if an
// edge would leave the allowed field.
func (s *Session) Shift(text string) bool {
	dx, ok := parseNumber(text)
	if !ok {
		return false
	}
	limit := s.cfg.Device.MaxHalfField
	if dx >= limit {
		return false
	}

	shifted := make([]models.LeafPairOpening, len(s.controls))
	edges := make([]float64, 0, 2*len(s.controls))
	for i, c := range s.controls {
		shifted[i] = c.Values().Shifted(dx)
		edges = append(edges, shifted[i].Left, shifted[i].Right)
	}
	if len(edges) > 0 && (floats.Max(edges) > limit || floats.Min(edges) < -limit) {
		return false
	}

	s.apply(shifted)
	return true
}

// SetPairText sets pair i from typed text holding two numbers inside the
// allowed field. Anything else leaves the pair at its last value.
func (s *Session) SetPairText(i int, text string) ParseResult {
	if i < 0 || i >= len(s.controls) {
		return ParseResult{}
	}
	res := ParsePair(text)
	if !res.Valid || !s.inField(res.Pair) {
		return ParseResult{}
	}
	s.controls[i].SetValues(res.Pair)
	return res
}

func (s *Session) inField(o models.LeafPairOpening) bool {
	limit := s.cfg.Device.MaxHalfField
	return math.Abs(o.Left) <= limit && math.Abs(o.Right) <= limit
}

// Export writes the simulation file for the current openings
func (s *Session) Export(path string) (*export.Result, error) {
	return export.Run(export.Request{
		Config:   s.cfg,
		Openings: s.Openings(),
		Path:     path,
	})
}

func (s *Session) apply(openings []models.LeafPairOpening) {
	for i, c := range s.controls {
		if i < len(openings) {
			c.SetValues(openings[i])
		}
	}
}
