package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	interactive := DefaultInteractive()
	batch := DefaultBatch()

	assert.Equal(t, 64, interactive.Device.NumberOfLeafPairs)
	assert.Equal(t, 80, batch.Device.NumberOfLeafPairs)
	assert.Equal(t, 100.0, batch.Device.SSD)
	assert.Equal(t, "Custom_MLC.txt", interactive.Output.InteractiveFile)
	assert.Equal(t, "DICOM_MLC_POS.txt", batch.Output.BatchFile)
	assert.NoError(t, interactive.Validate())
	assert.NoError(t, batch.Validate())
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Config)
		err    error
	}{
		"zero SSD":         {func(c *Config) { c.Device.SSD = 0 }, ErrInvalidSSD},
		"negative SSD":     {func(c *Config) { c.Device.SSD = -100 }, ErrInvalidSSD},
		"no leaves":        {func(c *Config) { c.Device.NumberOfLeafPairs = 0 }, ErrInvalidLeafCount},
		"flat leaves":      {func(c *Config) { c.Device.LeafWidth = 0 }, ErrInvalidLeafWidth},
		"no field allowed": {func(c *Config) { c.Device.MaxHalfField = 0 }, ErrInvalidHalfField},
		"NaN SSD":          {func(c *Config) { c.Device.SSD = math.NaN() }, ErrInvalidSSD},
		"infinite SSD":     {func(c *Config) { c.Device.SSD = math.Inf(1) }, ErrInvalidSSD},
		"NaN leaf width":   {func(c *Config) { c.Device.LeafWidth = math.NaN() }, ErrInvalidLeafWidth},
		"NaN half field":   {func(c *Config) { c.Device.MaxHalfField = math.NaN() }, ErrInvalidHalfField},
		"negative render":  {func(c *Config) { c.Device.MaxRenderedPairs = -1 }, ErrInvalidRendered},
		"NaN transZ":       {func(c *Config) { c.Device.MLCTransZ = math.NaN() }, ErrInvalidPosition},
		"infinite offset":  {func(c *Config) { c.Device.InnerEdgeOffset = math.Inf(-1) }, ErrInvalidPosition},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.err)
		})
	}
}

func TestRenderedPairs(t *testing.T) {
	cfg := DefaultBatch()
	assert.Equal(t, 64, cfg.RenderedPairs())

	cfg.Device.NumberOfLeafPairs = 10
	assert.Equal(t, 10, cfg.RenderedPairs())
}

func TestLoadConfigMissingFileKeepsBase(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), DefaultBatch())
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Device.NumberOfLeafPairs)
}

func TestLoadConfigOverridesBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mlc.yaml")
	doc := "device:\n  ssd: 90\n  mlcTransZ: 10\n  leafSTLPath: leaf.stl\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadConfig(path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 90.0, cfg.Device.SSD)
	assert.Equal(t, 10.0, cfg.Device.MLCTransZ)
	assert.Equal(t, "leaf.stl", cfg.Device.LeafSTLPath)
	assert.Equal(t, 64, cfg.Device.NumberOfLeafPairs)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("device: [unclosed"), 0644))

	_, err := LoadConfig(path, nil)
	assert.Error(t, err)
}

func TestValidateRejectsNaNFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("device:\n  ssd: .nan\n"), 0644))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(cfg.Device.SSD))
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidSSD)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mlc.yaml")
	require.NoError(t, CreateDefaultConfigFile(path))

	cfg, err := LoadConfig(path, &Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
