package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/breatheroute/valhalla/internal/api/models"
	"github.com/breatheroute/valhalla/pkg/polyline"
	"github.com/breatheroute/valhalla/pkg/valhalla"
	"github.com/breatheroute/valhalla/pkg/valhalla/elevation"
	"github.com/breatheroute/valhalla/pkg/valhalla/matrix"
	"github.com/breatheroute/valhalla/pkg/valhalla/route"
	"github.com/breatheroute/valhalla/pkg/valhalla/status"
)

// fakeEngine dispatches to the configured functions; unset ones fail the test.
type fakeEngine struct {
	t         *testing.T
	route     func(route.Manifest) (*route.Response, error)
	matrix    func(matrix.Manifest) (*matrix.Response, error)
	elevation func(elevation.Manifest) (*elevation.Response, error)
	status    func(status.Manifest) (*status.Response, error)
}

func (f *fakeEngine) Route(_ context.Context, m route.Manifest) (*route.Response, error) {
	require.NotNil(f.t, f.route, "unexpected route call")
	return f.route(m)
}

func (f *fakeEngine) Matrix(_ context.Context, m matrix.Manifest) (*matrix.Response, error) {
	require.NotNil(f.t, f.matrix, "unexpected matrix call")
	return f.matrix(m)
}

func (f *fakeEngine) Elevation(_ context.Context, m elevation.Manifest) (*elevation.Response, error) {
	require.NotNil(f.t, f.elevation, "unexpected elevation call")
	return f.elevation(m)
}

func (f *fakeEngine) Status(_ context.Context, m status.Manifest) (*status.Response, error) {
	require.NotNil(f.t, f.status, "unexpected status call")
	return f.status(m)
}

func post(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) models.Problem {
	t.Helper()
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var p models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

const walkBody = `{
	"locations": [
		{"lat": 52.370, "lon": 4.890, "name": "Dam"},
		{"lat": 52.372, "lon": 4.890}
	],
	"costing": "pedestrian",
	"id": "walk"
}`

// walkTrip is a two leg trip heading due north, 0.001 degree per shape point.
func walkTrip() *route.Response {
	p0 := polyline.Point{Lat: 52.370, Lon: 4.890}
	p1 := polyline.Point{Lat: 52.371, Lon: 4.890}
	p2 := polyline.Point{Lat: 52.372, Lon: 4.890}
	return &route.Response{
		ID: "walk",
		Trip: route.Trip{
			Units: valhalla.Kilometers,
			Locations: []route.TripLocation{
				{Location: valhalla.NewLocation(52.370, 4.890).WithName("Dam")},
				{Location: valhalla.NewLocation(52.372, 4.890)},
			},
			Legs: []route.Leg{
				{
					Shape: []polyline.Point{p0, p1},
					Maneuvers: []route.Maneuver{
						{Instruction: "Walk north.", BeginShapeIndex: 0, EndShapeIndex: 1, Time: 60},
					},
				},
				{
					Shape: []polyline.Point{p1, p2},
					Maneuvers: []route.Maneuver{
						{Instruction: "Continue.", BeginShapeIndex: 0, EndShapeIndex: 1, Time: 60},
					},
				},
			},
		},
	}
}
