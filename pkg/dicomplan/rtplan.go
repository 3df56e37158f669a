// Package dicomplan reads MLC leaf positions from DICOM RT Plan files and
// turns them into leaf pair openings.
package dicomplan

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"custommlc/internal/models"
	"custommlc/pkg/logging"
)

var log = logging.NamedLogger("dicom")

var (
	ErrNoBeam           = errors.New("beam not found in plan")
	ErrNoControlPoint   = errors.New("control point not found in beam")
	ErrNoLeafPositions  = errors.New("no MLC leaf positions up to control point")
	ErrUnexpectedValues = errors.New("unexpected element value")
)

var (
	tagBeamSequence                       = tag.Tag{Group: 0x300A, Element: 0x00B0}
	tagBeamNumber                         = tag.Tag{Group: 0x300A, Element: 0x00C0}
	tagBeamName                           = tag.Tag{Group: 0x300A, Element: 0x00C2}
	tagControlPointSequence               = tag.Tag{Group: 0x300A, Element: 0x0111}
	tagBeamLimitingDevicePositionSequence = tag.Tag{Group: 0x300A, Element: 0x011A}
	tagRTBeamLimitingDeviceType           = tag.Tag{Group: 0x300A, Element: 0x00B8}
	tagLeafJawPositions                   = tag.Tag{Group: 0x300A, Element: 0x011C}
)

// mlcDevices are the beam limiting device types made of leaves
var mlcDevices = map[string]bool{"MLCX": true, "MLCY": true}

// Selection picks the control point to import
type Selection struct {
	// Beam is the zero based index in the beam sequence
	Beam int
	// ControlPoint is the zero based index in the beam's control points
	ControlPoint int
}

// Leaves are the MLC positions of one control point
type Leaves struct {
	BeamNumber   int
	BeamName     string
	Device       string
	ControlPoint int
	// Openings are in cm, one per leaf pair
	Openings []models.LeafPairOpening
}

// Load parses the RT Plan at path and extracts the selected leaf positions
func Load(path string, sel Selection) (*Leaves, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return Extract(ds, sel)
}

// Extract reads the selected leaf positions from a parsed plan. Control
// points only repeat MLC positions when they change, so the last positions
// at or before the selected control point are used.
func Extract(ds dicom.Dataset, sel Selection) (*Leaves, error) {
	beamSeq, err := ds.FindElementByTag(tagBeamSequence)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoBeam, err)
	}
	beams, err := sequenceItems(beamSeq)
	if err != nil {
		return nil, err
	}
	if sel.Beam < 0 || sel.Beam >= len(beams) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNoBeam, sel.Beam, len(beams))
	}
	beam := beams[sel.Beam]

	leaves := &Leaves{ControlPoint: sel.ControlPoint}
	if s, ok := firstString(beam, tagBeamNumber); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			// the number is informational only
			log.WithError(err).Debugf("beam %d has no usable beam number", sel.Beam)
		}
		leaves.BeamNumber = n
	}
	leaves.BeamName, _ = firstString(beam, tagBeamName)

	cpSeq := findElement(beam, tagControlPointSequence)
	if cpSeq == nil {
		return nil, fmt.Errorf("%w: beam %d has no control points", ErrNoControlPoint, sel.Beam)
	}
	points, err := sequenceItems(cpSeq)
	if err != nil {
		return nil, err
	}
	if sel.ControlPoint < 0 || sel.ControlPoint >= len(points) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNoControlPoint, sel.ControlPoint, len(points))
	}

	for cp := sel.ControlPoint; cp >= 0; cp-- {
		device, positions, err := mlcPositions(points[cp])
		if err != nil {
			return nil, err
		}
		if positions == nil {
			continue
		}
		leaves.Device = device
		leaves.Openings, err = pairs(positions)
		if err != nil {
			return nil, err
		}
		return leaves, nil
	}

	return nil, fmt.Errorf("%w %d", ErrNoLeafPositions, sel.ControlPoint)
}

// mlcPositions returns the leaf jaw positions of the MLC in a control point,
// nil if the control point does not carry them
func mlcPositions(point []*dicom.Element) (string, []float64, error) {
	seq := findElement(point, tagBeamLimitingDevicePositionSequence)
	if seq == nil {
		return "", nil, nil
	}
	devices, err := sequenceItems(seq)
	if err != nil {
		return "", nil, err
	}
	for _, device := range devices {
		kind, _ := firstString(device, tagRTBeamLimitingDeviceType)
		kind = strings.TrimSpace(kind)
		if !mlcDevices[kind] {
			continue
		}
		el := findElement(device, tagLeafJawPositions)
		if el == nil {
			continue
		}
		values, err := decimals(el)
		if err != nil {
			return "", nil, err
		}
		return kind, values, nil
	}
	return "", nil, nil
}

// pairs splits 2N positions in mm, first bank then second bank, into N
// openings in cm
func pairs(positions []float64) ([]models.LeafPairOpening, error) {
	if len(positions)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of leaf positions (%d)", ErrUnexpectedValues, len(positions))
	}
	n := len(positions) / 2
	out := make([]models.LeafPairOpening, n)
	for i := range out {
		out[i] = models.LeafPairOpening{Left: positions[i] / 10, Right: positions[n+i] / 10}
	}
	return out, nil
}

func sequenceItems(el *dicom.Element) ([][]*dicom.Element, error) {
	items, ok := el.Value.GetValue().([]*dicom.SequenceItemValue)
	if !ok {
		return nil, fmt.Errorf("%w: %v is not a sequence", ErrUnexpectedValues, el.Tag)
	}
	out := make([][]*dicom.Element, len(items))
	for i, item := range items {
		elements, ok := item.GetValue().([]*dicom.Element)
		if !ok {
			return nil, fmt.Errorf("%w: item %d of %v", ErrUnexpectedValues, i, el.Tag)
		}
		out[i] = elements
	}
	return out, nil
}

func findElement(elements []*dicom.Element, t tag.Tag) *dicom.Element {
	for _, el := range elements {
		if el.Tag == t {
			return el
		}
	}
	return nil
}

func firstString(elements []*dicom.Element, t tag.Tag) (string, bool) {
	el := findElement(elements, t)
	if el == nil {
		return "", false
	}
	values, ok := el.Value.GetValue().([]string)
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func decimals(el *dicom.Element) ([]float64, error) {
	switch values := el.Value.GetValue().(type) {
	case []string:
		out := make([]float64, len(values))
		for i, s := range values {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %v value %q", ErrUnexpectedValues, el.Tag, s)
			}
			out[i] = v
		}
		return out, nil
	case []float64:
		return values, nil
	default:
		return nil, fmt.Errorf("%w: %v holds %T", ErrUnexpectedValues, el.Tag, values)
	}
}
