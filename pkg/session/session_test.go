package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custommlc/internal/models"
	"custommlc/pkg/config"
)

func smallSession(pairs int) *Session {
	cfg := config.DefaultConfig()
	cfg.Device.NumberOfLeafPairs = pairs
	cfg.Device.MLCTransZ = 10
	return NewDefault(cfg)
}

func TestParsePair(t *testing.T) {
	cases := []struct {
		text string
		want ParseResult
	}{
		{"-5 5", ParseResult{models.LeafPairOpening{Left: -5, Right: 5}, true}},
		{"-2.5, 3.75", ParseResult{models.LeafPairOpening{Left: -2.5, Right: 3.75}, true}},
		{"left=-1 right=+.5", ParseResult{models.LeafPairOpening{Left: -1, Right: 0.5}, true}},
		{"-3 -4", ParseResult{models.LeafPairOpening{Left: -3, Right: -4}, true}},
		{"7", ParseResult{}},
		{"1 2 3", ParseResult{}},
		{"", ParseResult{}},
		{"abc def", ParseResult{}},
		{"NaN 1", ParseResult{}},
		{"1 Inf", ParseResult{}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParsePair(tc.text), "text %q", tc.text)
	}
}

func TestNewDefaultStartsWithZigZag(t *testing.T) {
	s := smallSession(4)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []models.LeafPairOpening{{Left: -5, Right: 5}, {Left: 0, Right: 0}, {Left: -5, Right: 5}, {Left: 0, Right: 0}}, s.Openings())
}

func TestNewDefaultLimitsRenderedPairs(t *testing.T) {
	cfg := config.DefaultBatch()
	assert.Equal(t, 64, NewDefault(cfg).Len())
}

func TestSetPairTextKeepsValueOnInvalidInput(t *testing.T) {
	s := smallSession(2)

	res := s.SetPairText(1, "-1.5 2")
	assert.True(t, res.Valid)
	assert.Equal(t, models.LeafPairOpening{Left: -1.5, Right: 2}, s.Control(1).Values())

	res = s.SetPairText(1, "oops")
	assert.False(t, res.Valid)
	assert.Equal(t, models.LeafPairOpening{Left: -1.5, Right: 2}, s.Control(1).Values())
}

func TestApplyFieldSize(t *testing.T) {
	s := smallSession(3)

	assert.True(t, s.ApplyFieldSize(" 8 "))
	assert.Equal(t, []models.LeafPairOpening{{Left: -4, Right: 4}, {Left: -4, Right: 4}, {Left: -4, Right: 4}}, s.Openings())

	assert.False(t, s.ApplyFieldSize("wide"))
	assert.Equal(t, []models.LeafPairOpening{{Left: -4, Right: 4}, {Left: -4, Right: 4}, {Left: -4, Right: 4}}, s.Openings())
}

func TestFieldSizeOutsideHalfFieldIsRejected(t *testing.T) {
	s := smallSession(2)
	require.True(t, s.ApplyFieldSize("40"))
	assert.Equal(t, []models.LeafPairOpening{{Left: -20, Right: 20}, {Left: -20, Right: 20}}, s.Openings())

	assert.False(t, s.ApplyFieldSize("100"))
	assert.False(t, s.ApplyFieldSize("40.5"))
	assert.Equal(t, []models.LeafPairOpening{{Left: -20, Right: 20}, {Left: -20, Right: 20}}, s.Openings())
}

func TestPairOutsideHalfFieldIsRejected(t *testing.T) {
	s := smallSession(2)
	before := s.Control(1).Values()

	assert.False(t, s.SetPairText(1, "-35 35").Valid)
	assert.False(t, s.SetPairText(1, "0 20.5").Valid)
	assert.Equal(t, before, s.Control(1).Values())

	assert.True(t, s.SetPairText(1, "-20 20").Valid)
	assert.False(t, s.SetPairText(2, "1 2").Valid)
}

func TestNonFiniteInputIsRejected(t *testing.T) {
	s := smallSession(2)
	before := s.Openings()

	for _, text := range []string{"NaN", "nan", "Inf", "-inf", "+Inf"} {
		assert.False(t, s.Shift(text), "shift %q", text)
		assert.False(t, s.ApplyFieldSize(text), "field size %q", text)
	}
	assert.Equal(t, before, s.Openings())
}

func TestShift(t *testing.T) {
	s := smallSession(2)
	require.True(t, s.ApplyFieldSize("10"))

	assert.True(t, s.Shift("3"))
	assert.Equal(t, []models.LeafPairOpening{{Left: -2, Right: 8}, {Left: -2, Right: 8}}, s.Openings())

	// 8 + 15 leaves the 20 cm half field
	assert.False(t, s.Shift("15"))
	assert.False(t, s.Shift("20"))
	assert.False(t, s.Shift("-19"))
	assert.False(t, s.Shift("x"))
	assert.Equal(t, []models.LeafPairOpening{{Left: -2, Right: 8}, {Left: -2, Right: 8}}, s.Openings())

	assert.True(t, s.Shift("-18"))
	assert.Equal(t, []models.LeafPairOpening{{Left: -20, Right: -10}, {Left: -20, Right: -10}}, s.Openings())
}

func TestApplyPreset(t *testing.T) {
	s := smallSession(64)
	assert.True(t, s.ApplyPreset("diag"))
	assert.Equal(t, models.LeafPairOpening{Left: -2.5, Right: 2.5}, s.Openings()[32])
	assert.False(t, s.ApplyPreset("spiral"))
}

func TestExport(t *testing.T) {
	s := smallSession(2)
	s.SetPairText(0, "-5 5")
	s.SetPairText(1, "2 -2")
	path := filepath.Join(t.TempDir(), "Custom_MLC.txt")

	res, err := s.Export(path)
	require.NoError(t, err)
	assert.Equal(t, -0.5, res.Layout.Left[0].Trans.X)
	assert.Equal(t, -0.2, res.Layout.Left[1].Trans.X)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "d:Ge/RightLeaf1/TransX          = -0.2 mm\n")
}
