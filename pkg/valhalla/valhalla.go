// Package valhalla holds the types shared by every Valhalla API surface: locations,
// date-time settings, units, the transport contract and the error taxonomy.
//
// Each surface lives in its own subpackage (route, matrix, elevation, status) and
// exposes a manifest builder, a wire encoder and a pure response decoder. The client
// subpackage ties them to a Transport.
package valhalla

import (
	"context"
)

// DefaultBaseURL is the public Valhalla instance operated by FOSSGIS.
const DefaultBaseURL = "https://valhalla1.openstreetmap.de/"

// Surface identifies one API endpoint of the routing engine.
type Surface string

// Supported surfaces.
const (
	SurfaceRoute     Surface = "route"
	SurfaceMatrix    Surface = "matrix"
	SurfaceElevation Surface = "elevation"
	SurfaceStatus    Surface = "status"
)

// Path returns the endpoint path for the surface, relative to the engine base URL.
func (s Surface) Path() string {
	switch s {
	case SurfaceMatrix:
		return "sources_to_targets"
	case SurfaceElevation:
		return "height"
	default:
		return string(s)
	}
}

// Transport performs one request against the routing engine.
// Implementations POST body to path and return the raw response body, or an
// error for network failures and non-success statuses. A Transport makes a
// single attempt unless it is explicitly configured otherwise.
type Transport interface {
	Send(ctx context.Context, path string, body []byte) ([]byte, error)
}

// Units selects the distance unit used in responses.
type Units string

// Supported units.
const (
	Kilometers Units = "kilometers"
	Miles      Units = "miles"
)

// ShapeFormat selects how shapes are encoded in matrix and elevation payloads.
type ShapeFormat string

// Supported shape formats.
const (
	ShapeFormatPolyline6 ShapeFormat = "polyline6"
	ShapeFormatPolyline5 ShapeFormat = "polyline5"
)

// Ptr returns a pointer to v. It is a convenience for populating optional fields.
func Ptr[T any](v T) *T {
	return &v
}
