// Package route builds turn-by-turn route requests and decodes trip responses.
package route

import (
	"encoding/json"

	"github.com/breatheroute/valhalla/pkg/valhalla"
	"github.com/breatheroute/valhalla/pkg/valhalla/costing"
)

// DirectionsType controls how much narrative the engine produces.
type DirectionsType string

// Directions types.
const (
	DirectionsNone         DirectionsType = "none"
	DirectionsManeuvers    DirectionsType = "maneuvers"
	DirectionsInstructions DirectionsType = "instructions"
)

// Manifest is a route request. Build one with NewBuilder so that it is validated.
type Manifest struct {
	Locations []valhalla.Location

	// Costing is optional; when nil the costing fields are omitted from the request.
	Costing costing.Costing

	Units          valhalla.Units
	Language       string
	ID             string
	DirectionsType DirectionsType
	Alternates     *int

	ExcludeLocations []valhalla.Location
	ExcludePolygons  []valhalla.Polygon

	LinearReferences        *bool
	PrioritizeBidirectional *bool
	RoundaboutExits         *bool

	// ElevationInterval asks for leg elevation sampled every n meters.
	ElevationInterval *float64

	DateTime *valhalla.DateTime
}

type manifestWire struct {
	Locations               []valhalla.Location `json:"locations"`
	Costing                 string              `json:"costing,omitempty"`
	CostingOptions          json.RawMessage     `json:"costing_options,omitempty"`
	Units                   valhalla.Units      `json:"units,omitempty"`
	Language                string              `json:"language,omitempty"`
	ID                      string              `json:"id,omitempty"`
	DirectionsType          DirectionsType      `json:"directions_type,omitempty"`
	Alternates              *int                `json:"alternates,omitempty"`
	ExcludeLocations        []valhalla.Location `json:"exclude_locations,omitempty"`
	ExcludePolygons         []valhalla.Polygon  `json:"exclude_polygons,omitempty"`
	LinearReferences        *bool               `json:"linear_references,omitempty"`
	PrioritizeBidirectional *bool               `json:"prioritize_bidirectional,omitempty"`
	RoundaboutExits         *bool               `json:"roundabout_exits,omitempty"`
	ElevationInterval       *float64            `json:"elevation_interval,omitempty"`
	DateTime                *valhalla.DateTime  `json:"date_time,omitempty"`
}

// MarshalJSON encodes the manifest in the engine's request shape, with the
// costing flattened into the costing and costing_options fields.
func (m Manifest) MarshalJSON() ([]byte, error) {
	w := manifestWire{
		Locations:               m.Locations,
		Units:                   m.Units,
		Language:                m.Language,
		ID:                      m.ID,
		DirectionsType:          m.DirectionsType,
		Alternates:              m.Alternates,
		ExcludeLocations:        m.ExcludeLocations,
		ExcludePolygons:         m.ExcludePolygons,
		LinearReferences:        m.LinearReferences,
		PrioritizeBidirectional: m.PrioritizeBidirectional,
		RoundaboutExits:         m.RoundaboutExits,
		ElevationInterval:       m.ElevationInterval,
		DateTime:                m.DateTime,
	}
	tag, opts, err := costing.Encode(m.Costing)
	if err != nil {
		return nil, err
	}
	w.Costing = tag
	w.CostingOptions = opts
	return json.Marshal(w)
}

// UnmarshalJSON decodes a request in the engine's shape. It does not validate;
// call Validate on the result.
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
		Locations:               w.Locations,
		Costing:                 c,
		Units:                   w.Units,
		Language:                w.Language,
		ID:                      w.ID,
		DirectionsType:          w.DirectionsType,
		Alternates:              w.Alternates,
		ExcludeLocations:        w.ExcludeLocations,
		ExcludePolygons:         w.ExcludePolygons,
		LinearReferences:        w.LinearReferences,
		PrioritizeBidirectional: w.PrioritizeBidirectional,
		RoundaboutExits:         w.RoundaboutExits,
		ElevationInterval:       w.ElevationInterval,
		DateTime:                w.DateTime,
	}
	return nil
}

// Encode serializes the manifest into the request body for the route endpoint.
func Encode(m Manifest) ([]byte, error) {
	return json.Marshal(m)
}
