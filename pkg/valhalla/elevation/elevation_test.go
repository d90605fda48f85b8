package elevation_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breatheroute/valhalla/pkg/polyline"
	"github.com/breatheroute/valhalla/pkg/valhalla"
	"github.com/breatheroute/valhalla/pkg/valhalla/elevation"
)

var vondelpark = []polyline.Point{
	{Lat: 52.3580, Lon: 4.8686},
	{Lat: 52.3601, Lon: 4.8763},
}

func TestBuild_Shape(t *testing.T) {
	m, err := elevation.NewBuilder().
		ID("park").
		Range(true).
		HeightPrecision(elevation.PrecisionDecimeter).
		ResampleDistance(50).
		Shape(vondelpark...).
		Build()
	require.NoError(t, err)

	data, err := elevation.Encode(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "park",
		"range": true,
		"height_precision": 1,
		"resample_distance": 50,
		"shape": [{"lat": 52.358, "lon": 4.8686}, {"lat": 52.3601, "lon": 4.8763}]
	}`, string(data))
}

func TestBuild_EncodedPolyline(t *testing.T) {
	encoded := polyline.Encode(vondelpark, polyline.Precision6)

	m, err := elevation.NewBuilder().
		EncodedPolyline(encoded).
		ShapeFormat(valhalla.ShapeFormatPolyline6).
		HeightPrecision(elevation.PrecisionMeter).
		Build()
	require.NoError(t, err)

	data, err := elevation.Encode(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"encoded_polyline": `+strconv.Quote(encoded)+`, "shape_format": "polyline6", "height_precision": 0}`, string(data))
}

func TestBuild_Invariants(t *testing.T) {
	tests := []struct {
		name    string
		builder *elevation.Builder
		field   string
	}{
		{"no geometry", elevation.NewBuilder(), "shape"},
		{"both geometries", elevation.NewBuilder().Shape(vondelpark...).EncodedPolyline("abc"), "shape"},
		{"shape format without polyline", elevation.NewBuilder().Shape(vondelpark...).ShapeFormat(valhalla.ShapeFormatPolyline5), "shape_format"},
		{"unknown shape format", elevation.NewBuilder().EncodedPolyline("abc").ShapeFormat("wkt"), "shape_format"},
		{"precision too high", elevation.NewBuilder().Shape(vondelpark...).HeightPrecision(3), "height_precision"},
		{"precision negative", elevation.NewBuilder().Shape(vondelpark...).HeightPrecision(-1), "height_precision"},
		{"zero resample distance", elevation.NewBuilder().Shape(vondelpark...).ResampleDistance(0), "resample_distance"},
		{"point out of range", elevation.NewBuilder().Shape(polyline.Point{Lat: 100, Lon: 0}), "shape[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			require.Error(t, err)
			assert.ErrorIs(t, err, valhalla.ErrInvalidManifest)

			var fields []string
			for _, v := range valhalla.ValidationErrors(err) {
				fields = append(fields, v.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidate_EmptyShape(t *testing.T) {
	err := elevation.Validate(elevation.Manifest{Shape: []polyline.Point{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 1 point")
}

func TestDecodeResponse_Heights(t *testing.T) {
	body := `{"id": "park", "shape": [{"lat": 52.358, "lon": 4.8686}, {"lat": 52.3601, "lon": 4.8763}], "height": [1.5, null]}`

	resp, err := elevation.DecodeResponse([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "park", resp.ID)
	assert.Equal(t, vondelpark, resp.Shape)
	require.Len(t, resp.Height, 2)
	assert.Equal(t, 1.5, *resp.Height[0])
	assert.Nil(t, resp.Height[1])
	assert.Empty(t, resp.RangeHeight)
}

func TestDecodeResponse_RangeHeights(t *testing.T) {
	body := `{"encoded_polyline": "abc", "range_height": [[0, 1.5], [52.1, null], [104.2, -0.4]], "x_coordinate": 4.86, "warnings": [{"code": 1}]}`

	resp, err := elevation.DecodeResponse([]byte(body))
	require.NoError(t, err)

	require.Len(t, resp.RangeHeight, 3)
	assert.Equal(t, 0.0, resp.RangeHeight[0].Distance)
	assert.Equal(t, 1.5, *resp.RangeHeight[0].Height)
	assert.Equal(t, 52.1, resp.RangeHeight[1].Distance)
	assert.Nil(t, resp.RangeHeight[1].Height)
	assert.Equal(t, -0.4, *resp.RangeHeight[2].Height)
	assert.Equal(t, 4.86, *resp.XCoordinate)
	assert.Nil(t, resp.YCoordinate)
	assert.Len(t, resp.Warnings, 1)
}

func TestDecodeResponse_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		path string
	}{
		{"no heights", `{"id": "x"}`, "height"},
		{"null range entry", `{"range_height": [[0, 1], null]}`, "range_height[1]"},
		{"range entry without distance", `{"range_height": [[null, 1]]}`, "range_height[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := elevation.DecodeResponse([]byte(tt.body))
			require.Error(t, err)

			var decodeErr *valhalla.DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.path, decodeErr.Path)
		})
	}
}
