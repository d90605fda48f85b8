// Package elevation builds height requests and decodes their responses.
package elevation

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/breatheroute/valhalla/pkg/polyline"
	"github.com/breatheroute/valhalla/pkg/valhalla"
)

// Height precisions, in decimal places of a meter.
const (
	PrecisionMeter      = 0
	PrecisionDecimeter  = 1
	PrecisionCentimeter = 2
)

// Manifest is a height request for a list of points or an encoded polyline.
type Manifest struct {
	ID string `json:"id,omitempty"`

	// HeightPrecision is the number of decimal places in returned heights.
	HeightPrecision *int `json:"height_precision,omitempty"`

	// Range asks for the cumulative distance along the shape with each height.
	Range *bool `json:"range,omitempty"`

	// ResampleDistance resamples the shape every n meters before sampling heights.
	ResampleDistance *float64 `json:"resample_distance,omitempty"`

	// Exactly one of Shape and EncodedPolyline is set. ShapeFormat applies to
	// EncodedPolyline only.
	Shape           []polyline.Point     `json:"shape,omitempty"`
	EncodedPolyline string               `json:"encoded_polyline,omitempty"`
	ShapeFormat     valhalla.ShapeFormat `json:"shape_format,omitempty"`
}

// Encode serializes the manifest into the request body for the height endpoint.
func Encode(m Manifest) ([]byte, error) {
	return json.Marshal(m)
}

// Builder accumulates elevation options and validates them in Build.
type Builder struct {
	m Manifest
}

// NewBuilder returns an empty elevation builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// ID sets a request identifier echoed back in the response.
func (b *Builder) ID(id string) *Builder {
	b.m.ID = id
	return b
}

// HeightPrecision sets the decimal places of returned heights, 0 to 2.
func (b *Builder) HeightPrecision(p int) *Builder {
	b.m.HeightPrecision = &p
	return b
}

// Range asks for range-height pairs instead of bare heights.
func (b *Builder) Range(enabled bool) *Builder {
	b.m.Range = &enabled
	return b
}

// ResampleDistance resamples the input shape every meters.
func (b *Builder) ResampleDistance(meters float64) *Builder {
	b.m.ResampleDistance = &meters
	return b
}

// Shape appends points to sample.
func (b *Builder) Shape(points ...polyline.Point) *Builder {
	b.m.Shape = append(b.m.Shape, points...)
	return b
}

// EncodedPolyline samples an encoded polyline instead of a point list.
func (b *Builder) EncodedPolyline(encoded string) *Builder {
	b.m.EncodedPolyline = encoded
	return b
}

// ShapeFormat sets the precision of the encoded polyline.
func (b *Builder) ShapeFormat(f valhalla.ShapeFormat) *Builder {
	b.m.ShapeFormat = f
	return b
}

// Build validates the accumulated options and returns the manifest.
func (b *Builder) Build() (Manifest, error) {
	m := b.m
	m.Shape = slices.Clone(b.m.Shape)
	if err := Validate(m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks the invariants of a height request.
func Validate(m Manifest) error {
	var errs []error

	switch {
	case m.Shape != nil && m.EncodedPolyline != "":
		errs = append(errs, &valhalla.ValidationError{Field: "shape", Message: "cannot be combined with encoded_polyline"})
	case m.Shape == nil && m.EncodedPolyline == "":
		errs = append(errs, &valhalla.ValidationError{Field: "shape", Message: "either shape or encoded_polyline is required"})
	case m.Shape != nil && len(m.Shape) == 0:
		errs = append(errs, &valhalla.ValidationError{Field: "shape", Message: "at least 1 point is required"})
	}
	for i, pt := range m.Shape {
		if pt.Lat < -90 || pt.Lat > 90 || pt.Lon < -180 || pt.Lon > 180 {
			errs = append(errs, &valhalla.ValidationError{Field: fmt.Sprintf("shape[%d]", i), Message: "coordinate out of range"})
		}
	}

	if m.ShapeFormat != "" {
		if m.EncodedPolyline == "" {
			errs = append(errs, &valhalla.ValidationError{Field: "shape_format", Message: "only applies to encoded_polyline"})
		}
		switch m.ShapeFormat {
		case valhalla.ShapeFormatPolyline5, valhalla.ShapeFormatPolyline6:
		default:
			errs = append(errs, &valhalla.ValidationError{Field: "shape_format", Message: fmt.Sprintf("unknown shape format %q", m.ShapeFormat)})
		}
	}
	if m.HeightPrecision != nil && (*m.HeightPrecision < PrecisionMeter || *m.HeightPrecision > PrecisionCentimeter) {
		errs = append(errs, &valhalla.ValidationError{Field: "height_precision", Message: fmt.Sprintf("must be between 0 and 2, got %d", *m.HeightPrecision)})
	}
	if m.ResampleDistance != nil && *m.ResampleDistance <= 0 {
		errs = append(errs, &valhalla.ValidationError{Field: "resample_distance", Message: "must be positive"})
	}

	return errors.Join(errs...)
}

// RangeHeight is a height with its cumulative distance in meters along the shape.
// Height is nil where no elevation data exists.
type RangeHeight struct {
	Distance float64  `json:"distance"`
	Height   *float64 `json:"height"`
}

// Response is a decoded height response. Height is set for plain requests and
// RangeHeight for range requests.
type Response struct {
	ID              string            `json:"id,omitempty"`
	Shape           []polyline.Point  `json:"shape,omitempty"`
	EncodedPolyline string            `json:"encoded_polyline,omitempty"`
	Height          []*float64        `json:"height,omitempty"`
	RangeHeight     []RangeHeight     `json:"range_height,omitempty"`
	XCoordinate     *float64          `json:"x_coordinate,omitempty"`
	YCoordinate     *float64          `json:"y_coordinate,omitempty"`
	Warnings        []json.RawMessage `json:"warnings,omitempty"`
}

type responseWire struct {
	Response
	RangeHeight []*[2]*float64 `json:"range_height"`
}

// DecodeResponse decodes a height response. One of height and range_height
// must be present.
func DecodeResponse(body []byte) (*Response, error) {
	var w responseWire
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, valhalla.SyntaxError(err)
	}
	if w.Height == nil && w.RangeHeight == nil {
		return nil, valhalla.MissingField("height")
	}

	resp := w.Response
	for i, pair := range w.RangeHeight {
		if pair == nil || pair[0] == nil {
			return nil, valhalla.MissingField(fmt.Sprintf("range_height[%d]", i))
		}
		resp.RangeHeight = append(resp.RangeHeight, RangeHeight{Distance: *pair[0], Height: pair[1]})
	}
	return &resp, nil
}
