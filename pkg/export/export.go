// Package export runs the pipeline shared by every entry point: validate the
// device, build the leaf layout, serialize it and replace the output file.
package export

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"custommlc/internal/models"
	"custommlc/pkg/config"
	"custommlc/pkg/geometry"
	"custommlc/pkg/logging"
	"custommlc/pkg/stl"
	"custommlc/pkg/topas"
)

var log = logging.NamedLogger("export")

// Request describes one export run
type Request struct {
	Config   *config.Config
	Openings []models.LeafPairOpening
	// Rule defaults to geometry.CentralAxisRule
	Rule geometry.EdgeRule
	Path string
}

// Result reports what was written
type Result struct {
	Layout   models.Layout
	Document string
}

// Run builds and writes the simulation file for req
func Run(req Request) (*Result, error) {
	if err := req.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	inspectAsset(req.Config.Device)

	layout, err := geometry.NewBuilder(req.Config, req.Rule).Build(req.Openings)
	if err != nil {
		return nil, err
	}

	doc := topas.Serialize(layout, req.Config.Device)
	if err := topas.WriteFile(req.Path, doc); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"pairs":    layout.Pairs(),
		"openings": len(req.Openings),
		"ssd":      req.Config.Device.SSD,
		"transZ":   req.Config.Device.MLCTransZ,
	}).Infof("wrote %s", req.Path)

	return &Result{Layout: layout, Document: doc}, nil
}

// inspectAsset warns when the leaf asset does not match the configured
// leaf pitch. The asset is only referenced by the file, so problems here
// never stop an export.
func inspectAsset(dev config.Device) {
	if dev.LeafSTLPath == "" {
		log.Debug("no leaf asset configured")
		return
	}
	mesh, err := stl.LoadSTL(dev.LeafSTLPath)
	if err != nil {
		log.WithError(err).Warnf("cannot inspect leaf asset %s", dev.LeafSTLPath)
		return
	}
	width := float64(stl.Extent(mesh)[1])
	if math.Abs(width-dev.LeafWidth) > 1e-3 {
		log.Warnf("leaf asset %s is %g mm wide, leaves are placed %g mm apart", dev.LeafSTLPath, width, dev.LeafWidth)
	}
}
