package route

import (
	"encoding/json"
	"fmt"

	"github.com/breatheroute/valhalla/pkg/polyline"
	"github.com/breatheroute/valhalla/pkg/valhalla"
)

// Response is a decoded route response.
type Response struct {
	ID         string `json:"id,omitempty"`
	Trip       Trip   `json:"trip"`
	Alternates []Trip `json:"alternates,omitempty"`
}

// UnknownManeuvers counts maneuvers, across the trip and its alternates, whose
// type code was not recognized.
func (r *Response) UnknownManeuvers() int {
	n := r.Trip.unknownManeuvers()
	for _, alt := range r.Alternates {
		n += alt.unknownManeuvers()
	}
	return n
}

// Trip is one computed route through all requested locations.
type Trip struct {
	Status        int               `json:"status"`
	StatusMessage string            `json:"status_message,omitempty"`
	Units         valhalla.Units    `json:"units,omitempty"`
	Language      string            `json:"language,omitempty"`
	Locations     []TripLocation    `json:"locations,omitempty"`
	Warnings      []json.RawMessage `json:"warnings,omitempty"`
	Legs          []Leg             `json:"legs"`
	Summary       Summary           `json:"summary"`
}

func (t Trip) unknownManeuvers() int {
	n := 0
	for _, leg := range t.Legs {
		for _, m := range leg.Maneuvers {
			if m.Type == ManeuverUnknown {
				n++
			}
		}
	}
	return n
}

// TripLocation is a requested location as echoed by the engine.
type TripLocation struct {
	valhalla.Location
	OriginalIndex *int   `json:"original_index,omitempty"`
	SideOfStreet  string `json:"side_of_street,omitempty"`
}

// Leg is the part of a trip between two break locations. Legs appear in
// request location order.
type Leg struct {
	Summary   Summary    `json:"summary"`
	Maneuvers []Maneuver `json:"maneuvers,omitempty"`

	// Shape is the decoded geometry of the leg. EncodedShape keeps the wire form.
	Shape        []polyline.Point `json:"shape"`
	EncodedShape string           `json:"encoded_shape,omitempty"`

	// Elevation holds heights in meters sampled along the shape when the request
	// asked for an elevation interval.
	Elevation []float64 `json:"elevation,omitempty"`
}

// Summary totals a trip or a leg.
type Summary struct {
	// Time is in seconds; Length is in the units of the trip.
	Time   float64 `json:"time"`
	Length float64 `json:"length"`

	HasTimeRestrictions bool `json:"has_time_restrictions,omitempty"`
	HasToll             bool `json:"has_toll,omitempty"`
	HasHighway          bool `json:"has_highway,omitempty"`
	HasFerry            bool `json:"has_ferry,omitempty"`

	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// MalformedShapeError reports a leg whose encoded shape could not be decoded.
type MalformedShapeError struct {
	Leg int
	Err error
}

func (e *MalformedShapeError) Error() string {
	return fmt.Sprintf("leg %d: malformed shape: %v", e.Leg, e.Err)
}

func (e *MalformedShapeError) Unwrap() error {
	return e.Err
}

// ShapeIndexError reports a maneuver whose shape indices fall outside its leg's shape.
type ShapeIndexError struct {
	Begin, End int
	ShapeLen   int
}

func (e *ShapeIndexError) Error() string {
	return fmt.Sprintf("shape indices [%d, %d] outside shape of %d points", e.Begin, e.End, e.ShapeLen)
}

// The wire structs shadow the decoded fields so that absent fields can be told
// apart from empty ones.
type (
	responseWire struct {
		ID         string          `json:"id"`
		Trip       *tripWire       `json:"trip"`
		Alternates []alternateWire `json:"alternates"`
	}

	alternateWire struct {
		Trip *tripWire `json:"trip"`
	}

	tripWire struct {
		Trip
		Legs *[]legWire `json:"legs"`
	}

	legWire struct {
		Leg
		Shape *string `json:"shape"`
	}
)

// DecodeResponse decodes a route response body. Unknown fields are ignored.
// Every error is a *valhalla.DecodeError carrying the path of the offending field.
func DecodeResponse(body []byte) (*Response, error) {
	var w responseWire
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, valhalla.SyntaxError(err)
	}
	if w.Trip == nil {
		return nil, valhalla.MissingField("trip")
	}

	trip, err := decodeTrip("trip", w.Trip)
	if err != nil {
		return nil, err
	}
	resp := &Response{ID: w.ID, Trip: trip}

	for i, alt := range w.Alternates {
		path := fmt.Sprintf("alternates[%d].trip", i)
		if alt.Trip == nil {
			return nil, valhalla.MissingField(path)
		}
		t, err := decodeTrip(path, alt.Trip)
		if err != nil {
			return nil, err
		}
		resp.Alternates = append(resp.Alternates, t)
	}
	return resp, nil
}

func decodeTrip(path string, w *tripWire) (Trip, error) {
	if w.Legs == nil {
		return Trip{}, valhalla.MissingField(path + ".legs")
	}
	trip := w.Trip
	trip.Legs = make([]Leg, len(*w.Legs))
	for i, lw := range *w.Legs {
		leg, err := decodeLeg(fmt.Sprintf("%s.legs[%d]", path, i), i, lw)
		if err != nil {
			return Trip{}, err
		}
		trip.Legs[i] = leg
	}
	return trip, nil
}

func decodeLeg(path string, index int, w legWire) (Leg, error) {
	if w.Shape == nil {
		return Leg{}, valhalla.MissingField(path + ".shape")
	}
	shape, err := polyline.Decode(*w.Shape, polyline.Precision6)
	if err != nil {
		return Leg{}, &valhalla.DecodeError{
			Path: path + ".shape",
			Err:  &MalformedShapeError{Leg: index, Err: err},
		}
	}

	leg := w.Leg
	leg.Shape = shape
	leg.EncodedShape = *w.Shape

	for j, m := range leg.Maneuvers {
		if m.BeginShapeIndex < 0 || m.EndShapeIndex < m.BeginShapeIndex || m.EndShapeIndex >= len(shape) {
			return Leg{}, &valhalla.DecodeError{
				Path: fmt.Sprintf("%s.maneuvers[%d]", path, j),
				Err:  &ShapeIndexError{Begin: m.BeginShapeIndex, End: m.EndShapeIndex, ShapeLen: len(shape)},
			}
		}
	}
	return leg, nil
}
