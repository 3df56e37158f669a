package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custommlc/pkg/config"
	"custommlc/pkg/logging"
	"custommlc/pkg/stl"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	logging.SetOutput(io.Discard)
	t.Cleanup(func() { logging.SetOutput(os.Stderr) })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBatchMissingTableIsSilent(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.txt")

	out, err := execute(t, filepath.Join(dir, "MLC_POS.txt"), "-o", output)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoFileExists(t, output)
}

func TestBatchWritesFileAndPreview(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "MLC_POS.txt")
	output := filepath.Join(dir, "out.txt")
	preview := filepath.Join(dir, "field.png")
	require.NoError(t, os.WriteFile(table, []byte("-1 1\n-2 2\n"), 0644))

	out, err := execute(t, "batch", table, "-o", output, "--preview", preview)
	require.NoError(t, err)
	assert.Contains(t, out, "MLC file saved to: "+output)
	assert.FileExists(t, preview)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "s:Ge/LeftLeaf79/Type")
	assert.NotContains(t, string(data), "LeftLeaf80")
}

func TestHeadlessExport(t *testing.T) {
	output := filepath.Join(t.TempDir(), "Custom_MLC.txt")

	out, err := execute(t, "--no-tui", "--preset", "sine", "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "s:Ge/RightLeaf63/Type")
}

func TestHeadlessUnknownPreset(t *testing.T) {
	output := filepath.Join(t.TempDir(), "Custom_MLC.txt")

	_, err := execute(t, "--no-tui", "--preset", "spiral", "-o", output)
	assert.ErrorContains(t, err, "spiral")
	assert.NoFileExists(t, output)
}

func TestLeafCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaf.stl")

	_, err := execute(t, "leaf", "--file", path, "--length", "120")
	require.NoError(t, err)

	mesh, err := stl.LoadSTL(path)
	require.NoError(t, err)
	assert.Equal(t, [3]float32{120, 2, 60}, stl.Extent(mesh))
}

func TestConfigInitAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custommlc.yaml")

	_, err := execute(t, "config", "init", path)
	require.NoError(t, err)

	cfg, err := config.LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	// the written file drives a batch export
	table := filepath.Join(dir, "MLC_POS.txt")
	output := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(table, []byte("0 0\n"), 0644))
	_, err = execute(t, table, "--config", path, "-o", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "s:Ge/LeftLeaf63/Type")
	assert.NotContains(t, string(data), "LeftLeaf64")
}

func TestConfigInitBatchKeepsTableDevice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")

	out, err := execute(t, "config", "init", "--batch", path)
	require.NoError(t, err)
	assert.Contains(t, out, "80 leaf pairs")

	table := filepath.Join(dir, "MLC_POS.txt")
	output := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(table, []byte("-1 1\n"), 0644))
	_, err = execute(t, table, "--config", path, "-o", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "s:Ge/LeftLeaf79/Type")
}

func TestInvalidConfigIsRejectedAtLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	output := filepath.Join(dir, "Custom_MLC.txt")
	require.NoError(t, os.WriteFile(path, []byte("device:\n  numberOfLeafPairs: 0\n"), 0644))

	_, err := execute(t, "--no-tui", "--config", path, "-o", output)
	assert.ErrorIs(t, err, config.ErrInvalidLeafCount)
	assert.NoFileExists(t, output)

	_, err = execute(t, "leaf", "--config", path, "--file", filepath.Join(dir, "leaf.stl"))
	assert.ErrorIs(t, err, config.ErrInvalidLeafCount)
}

func TestDicomMissingPlan(t *testing.T) {
	_, err := execute(t, "dicom", filepath.Join(t.TempDir(), "plan.dcm"))
	assert.Error(t, err)
}
