// Package matrix builds time-distance matrix requests and decodes their
// responses, in both the verbose and the concise form.
package matrix

import (
	"encoding/json"

	"github.com/breatheroute/valhalla/pkg/valhalla"
	"github.com/breatheroute/valhalla/pkg/valhalla/costing"
)

// Manifest is a sources_to_targets request. Build one with NewBuilder so that it is validated.
type Manifest struct {
	Sources []valhalla.Location
	Targets []valhalla.Location

	// Costing is optional; multimodal costing is not supported by the matrix.
	Costing costing.Costing

	ID    string
	Units valhalla.Units

	// MatrixLocations asks for a partial result once this many locations are reached.
	MatrixLocations *int

	DateTime *valhalla.DateTime

	// Verbose selects the verbose response form. The engine defaults to verbose.
	Verbose     *bool
	ShapeFormat valhalla.ShapeFormat
}

// Dimensions is the shape of the matrix a manifest asks for.
type Dimensions struct {
	Sources int
	Targets int
}

// Dimensions returns the expected row and column counts of the response.
func (m Manifest) Dimensions() Dimensions {
	return Dimensions{Sources: len(m.Sources), Targets: len(m.Targets)}
}

type manifestWire struct {
	Sources         []valhalla.Location  `json:"sources"`
	Targets         []valhalla.Location  `json:"targets"`
	Costing         string               `json:"costing,omitempty"`
	CostingOptions  json.RawMessage      `json:"costing_options,omitempty"`
	ID              string               `json:"id,omitempty"`
	Units           valhalla.Units       `json:"units,omitempty"`
	MatrixLocations *int                 `json:"matrix_locations,omitempty"`
	DateTime        *valhalla.DateTime   `json:"date_time,omitempty"`
	Verbose         *bool                `json:"verbose,omitempty"`
	ShapeFormat     valhalla.ShapeFormat `json:"shape_format,omitempty"`
}

// MarshalJSON encodes the manifest in the engine's request shape.
func (m Manifest) MarshalJSON() ([]byte, error) {
	tag, opts, err := costing.Encode(m.Costing)
	if err != nil {
		return nil, err
	}
	return json.Marshal(manifestWire{
		Sources:         m.Sources,
		Targets:         m.Targets,
		Costing:         tag,
		CostingOptions:  opts,
		ID:              m.ID,
		Units:           m.Units,
		MatrixLocations: m.MatrixLocations,
		DateTime:        m.DateTime,
		Verbose:         m.Verbose,
		ShapeFormat:     m.ShapeFormat,
	})
}

// UnmarshalJSON decodes a request in the engine's shape without validating it.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var w manifestWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c, err := costing.Decode(w.Costing, w.CostingOptions)
	if err != nil {
		return err
	}
	*m = Manifest{
		Sources:         w.Sources,
		Targets:         w.Targets,
		Costing:         c,
		ID:              w.ID,
		Units:           w.Units,
		MatrixLocations: w.MatrixLocations,
		DateTime:        w.DateTime,
		Verbose:         w.Verbose,
		ShapeFormat:     w.ShapeFormat,
	}
	return nil
}

// Encode serializes the manifest into the request body for the matrix endpoint.
func Encode(m Manifest) ([]byte, error) {
	return json.Marshal(m)
}
