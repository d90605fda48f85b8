// Package status builds status requests and decodes the engine's health and
// capability report.
package status

import (
	"encoding/json"
	"time"

	"github.com/breatheroute/valhalla/pkg/valhalla"
)

// Manifest is a status request.
type Manifest struct {
	// Verbose adds tile, admin, timezone and traffic availability to the response.
	Verbose *bool `json:"verbose,omitempty"`
}

// Encode serializes the manifest into the request body for the status endpoint.
func Encode(m Manifest) ([]byte, error) {
	return json.Marshal(m)
}

// Builder accumulates status options. A status request has no invariants.
type Builder struct {
	m Manifest
}

// NewBuilder returns an empty status builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Verbose asks for the verbose report.
func (b *Builder) Verbose(verbose bool) *Builder {
	b.m.Verbose = &verbose
	return b
}

// Build returns the manifest. It never fails.
func (b *Builder) Build() (Manifest, error) {
	return b.m, nil
}

// Response is the decoded status report. The Has fields and BBox are only
// filled by verbose requests.
type Response struct {
	Version             string    `json:"version"`
	TilesetLastModified time.Time `json:"tileset_last_modified"`
	AvailableActions    []string  `json:"available_actions,omitempty"`

	HasTiles       bool `json:"has_tiles,omitempty"`
	HasAdmins      bool `json:"has_admins,omitempty"`
	HasTimezones   bool `json:"has_timezones,omitempty"`
	HasLiveTraffic bool `json:"has_live_traffic,omitempty"`

	// BBox is the GeoJSON coverage of the loaded tiles.
	BBox     json.RawMessage   `json:"bbox,omitempty"`
	Warnings []json.RawMessage `json:"warnings,omitempty"`
}

// Supports reports whether the engine lists action among its available actions.
func (r *Response) Supports(action string) bool {
	for _, a := range r.AvailableActions {
		if a == action {
			return true
		}
	}
	return false
}

type responseWire struct {
	Response
	Version             *string `json:"version"`
	TilesetLastModified *int64  `json:"tileset_last_modified"`
}

// DecodeResponse decodes a status response. The version is required.
func DecodeResponse(body []byte) (*Response, error) {
	var w responseWire
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, valhalla.SyntaxError(err)
	}
	if w.Version == nil {
		return nil, valhalla.MissingField("version")
	}

	resp := w.Response
	resp.Version = *w.Version
	if w.TilesetLastModified != nil {
		resp.TilesetLastModified = time.Unix(*w.TilesetLastModified, 0).UTC()
	}
	return &resp, nil
}
