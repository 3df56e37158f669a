package batch

import (
	"errors"
	"fmt"
	"io/fs"

	"custommlc/pkg/config"
	"custommlc/pkg/export"
	"custommlc/pkg/geometry"
	"custommlc/pkg/logging"
)

var log = logging.NamedLogger("batch")

// Run exports the table at input to output. A missing input file is not an
// error: nothing is written and Run reports false.
func Run(input, output string, cfg *config.Config) (bool, error) {
	if cfg == nil {
		cfg = config.DefaultBatch()
	}

	openings, err := LoadTable(input)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf("no table at %s, skipping export", input)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", input, err)
	}

	_, err = export.Run(export.Request{
		Config:   cfg,
		Openings: openings,
		Rule:     geometry.SignedMagnitudeRule,
		Path:     output,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
