package handler_test

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breatheroute/valhalla/internal/api/handler"
	"github.com/breatheroute/valhalla/internal/api/models"
	"github.com/breatheroute/valhalla/pkg/valhalla"
	"github.com/breatheroute/valhalla/pkg/valhalla/costing"
	"github.com/breatheroute/valhalla/pkg/valhalla/elevation"
	"github.com/breatheroute/valhalla/pkg/valhalla/route"
)

func TestRouteHandler_Compute(t *testing.T) {
	engine := &fakeEngine{t: t, route: func(m route.Manifest) (*route.Response, error) {
		assert.Len(t, m.Locations, 2)
		assert.Equal(t, "walk", m.ID)
		assert.IsType(t, costing.Pedestrian{}, m.Costing)
		return walkTrip(), nil
	}}
	rec := httptest.NewRecorder()

	handler.NewRouteHandler(engine).Compute(rec, post("/v1/route", walkBody))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		ID   string `json:"id"`
		Trip struct {
			Legs []json.RawMessage `json:"legs"`
		} `json:"trip"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "walk", body.ID)
	assert.Len(t, body.Trip.Legs, 2)
}

func TestRouteHandler_Compute_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{name: "empty body", body: ``},
		{name: "not json", body: `{"locations":`},
		{name: "unknown costing", body: `{"locations":[{"lat":1,"lon":1},{"lat":2,"lon":2}],"costing":"hovercraft"}`},
		{
			name:   "one location",
			body:   `{"locations":[{"lat":52.37,"lon":4.89}]}`,
			fields: []string{"locations"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.NewRouteHandler(&fakeEngine{t: t}).Compute(rec, post("/v1/route", tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			p := decodeProblem(t, rec)
			assert.Equal(t, models.ProblemTypeValidation, p.Type)
			for _, field := range tt.fields {
				var found bool
				for _, fe := range p.Errors {
					found = found || fe.Field == field
				}
				assert.True(t, found, "expected a violation on %s", field)
			}
		})
	}
}

func TestRouteHandler_Compute_EngineRejects(t *testing.T) {
	engine := &fakeEngine{t: t, route: func(route.Manifest) (*route.Response, error) {
		return nil, &valhalla.RemoteError{Surface: valhalla.SurfaceRoute, ErrorCode: 442, Message: "No path could be found for input", StatusCode: 400}
	}}
	rec := httptest.NewRecorder()

	handler.NewRouteHandler(engine).Compute(rec, post("/v1/route", walkBody))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	p := decodeProblem(t, rec)
	assert.Equal(t, 442, p.EngineErrorCode)
}

func TestRouteHandler_GPX(t *testing.T) {
	engine := &fakeEngine{t: t, route: func(route.Manifest) (*route.Response, error) {
		return walkTrip(), nil
	}}
	rec := httptest.NewRecorder()

	handler.NewRouteHandler(engine).GPX(rec, post("/v1/route/gpx?departure=2026-03-01T08:00:00Z", walkBody))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.ContentTypeGPX, rec.Header().Get("Content-Type"))

	var doc struct {
		Waypoints []struct {
			Name string `xml:"name"`
		} `xml:"wpt"`
		Tracks []struct {
			Segments []struct {
				Points []struct {
					Time string `xml:"time"`
				} `xml:"trkpt"`
			} `xml:"trkseg"`
		} `xml:"trk"`
	}
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.Waypoints, 2)
	assert.Equal(t, "Dam", doc.Waypoints[0].Name)
	require.Len(t, doc.Tracks, 1)
	require.Len(t, doc.Tracks[0].Segments, 2)
	require.NotEmpty(t, doc.Tracks[0].Segments[0].Points)
	assert.NotEmpty(t, doc.Tracks[0].Segments[0].Points[0].Time)
}

func TestRouteHandler_GPX_InvalidDeparture(t *testing.T) {
	rec := httptest.NewRecorder()

	handler.NewRouteHandler(&fakeEngine{t: t}).GPX(rec, post("/v1/route/gpx?departure=tomorrow", walkBody))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	p := decodeProblem(t, rec)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "departure", p.Errors[0].Field)
}

func TestRouteHandler_GeoJSON(t *testing.T) {
	engine := &fakeEngine{t: t, route: func(route.Manifest) (*route.Response, error) {
		return walkTrip(), nil
	}}
	rec := httptest.NewRecorder()

	handler.NewRouteHandler(engine).GeoJSON(rec, post("/v1/route/geojson", walkBody))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.ContentTypeGeoJSON, rec.Header().Get("Content-Type"))

	fc, err := geojson.UnmarshalFeatureCollection(rec.Body.Bytes())
	require.NoError(t, err)
	// Two leg lines and two waypoints.
	assert.Len(t, fc.Features, 4)
	assert.Equal(t, "LineString", fc.Features[0].Geometry.GeoJSONType())
}

func TestRouteHandler_Profile(t *testing.T) {
	heights := []float64{10, 14, 12, 15}
	engine := &fakeEngine{
		t: t,
		route: func(route.Manifest) (*route.Response, error) {
			return walkTrip(), nil
		},
		elevation: func(m elevation.Manifest) (*elevation.Response, error) {
			assert.Equal(t, "walk", m.ID)
			require.NotNil(t, m.Range)
			assert.True(t, *m.Range)
			require.NotNil(t, m.HeightPrecision)
			assert.Equal(t, 1, *m.HeightPrecision)
			require.Len(t, m.Shape, len(heights))

			resp := &elevation.Response{Shape: m.Shape}
			for i := range m.Shape {
				resp.RangeHeight = append(resp.RangeHeight, elevation.RangeHeight{
					Distance: float64(i) * 100,
					Height:   valhalla.Ptr(heights[i]),
				})
			}
			return resp, nil
		},
	}
	body := `{"route":` + walkBody + `,"sampleDistance":100,"heightPrecision":1}`
	rec := httptest.NewRecorder()

	handler.NewRouteHandler(engine).Profile(rec, post("/v1/route/profile", body))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var profile models.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))

	assert.Equal(t, "walk", profile.ID)
	require.Len(t, profile.Points, 4)
	assert.InDelta(t, 300.0, profile.Length, 1e-9)
	assert.InDelta(t, 7.0, profile.Ascent, 1e-9)
	assert.InDelta(t, 2.0, profile.Descent, 1e-9)
	require.NotNil(t, profile.MinimumElevation)
	require.NotNil(t, profile.MaximumElevation)
	assert.InDelta(t, 10.0, *profile.MinimumElevation, 1e-9)
	assert.InDelta(t, 15.0, *profile.MaximumElevation, 1e-9)
	assert.InDelta(t, 52.370, profile.Points[0].Lat, 1e-9)
	assert.InDelta(t, 52.372, profile.Points[3].Lat, 1e-9)
}

func TestRouteHandler_Profile_Errors(t *testing.T) {
	routed := func(route.Manifest) (*route.Response, error) { return walkTrip(), nil }

	tests := []struct {
		name      string
		body      string
		elevation func(elevation.Manifest) (*elevation.Response, error)
		status    int
	}{
		{
			name:   "sample distance too small",
			body:   `{"route":` + walkBody + `,"sampleDistance":1}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "invalid route",
			body:   `{"route":{"locations":[]}}`,
			status: http.StatusBadRequest,
		},
		{
			name: "engine returns fewer heights",
			body: `{"route":` + walkBody + `}`,
			elevation: func(elevation.Manifest) (*elevation.Response, error) {
				return &elevation.Response{RangeHeight: []elevation.RangeHeight{{Distance: 0}}}, nil
			},
			status: http.StatusBadGateway,
		},
		{
			name: "elevation transport failure",
			body: `{"route":` + walkBody + `}`,
			elevation: func(elevation.Manifest) (*elevation.Response, error) {
				return nil, &valhalla.TransportError{Surface: valhalla.SurfaceElevation, Err: errors.New("refused")}
			},
			status: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{t: t, route: routed, elevation: tt.elevation}
			rec := httptest.NewRecorder()

			handler.NewRouteHandler(engine).Profile(rec, post("/v1/route/profile", tt.body))

			assert.Equal(t, tt.status, rec.Code)
			decodeProblem(t, rec)
		})
	}
}
