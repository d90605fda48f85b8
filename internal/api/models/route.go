package models

import (
	"github.com/breatheroute/valhalla/pkg/valhalla/route"
)

// ProfileRequest asks for the elevation profile along a computed route.
type ProfileRequest struct {
	// Route is the route request whose primary trip is profiled.
	Route route.Manifest `json:"route" validate:"-"`

	// SampleDistance is the spacing between profile points in meters (default 50).
	SampleDistance float64 `json:"sampleDistance,omitempty" validate:"omitempty,gte=5,lte=1000"`

	// HeightPrecision is the number of decimals in returned heights (0-2).
	HeightPrecision int `json:"heightPrecision,omitempty" validate:"gte=0,lte=2"`
}

// ProfilePoint is one sample of an elevation profile.
type ProfilePoint struct {
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Distance  float64  `json:"distance"`
	Elevation *float64 `json:"elevation"`
}

// ProfileResponse is the elevation profile of a route.
type ProfileResponse struct {
	ID               string         `json:"id,omitempty"`
	Length           float64        `json:"length"`
	Units            string         `json:"units"`
	Ascent           float64        `json:"ascent"`
	Descent          float64        `json:"descent"`
	MinimumElevation *float64       `json:"minElevation,omitempty"`
	MaximumElevation *float64       `json:"maxElevation,omitempty"`
	Points           []ProfilePoint `json:"points"`
}
