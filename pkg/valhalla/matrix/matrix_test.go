package matrix_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breatheroute/valhalla/pkg/valhalla"
	"github.com/breatheroute/valhalla/pkg/valhalla/costing"
	"github.com/breatheroute/valhalla/pkg/valhalla/matrix"
)

var (
	dam     = valhalla.NewLocation(52.370216, 4.895168)
	central = valhalla.NewLocation(52.3791, 4.9003)
	zuid    = valhalla.NewLocation(52.3312, 4.8885)
	morning = time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)
)

func fields(err error) []string {
	var out []string
	for _, v := range valhalla.ValidationErrors(err) {
		out = append(out, v.Field)
	}
	return out
}

func TestBuild_Valid(t *testing.T) {
	m, err := matrix.NewBuilder().
		Sources(dam, central).
		Targets(dam, central, zuid).
		Costing(costing.Bicycle{}).
		DepartAt(morning).
		MatrixLocations(2).
		Verbose(false).
		Build()
	require.NoError(t, err)
	assert.Equal(t, matrix.Dimensions{Sources: 2, Targets: 3}, m.Dimensions())

	data, err := matrix.Encode(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"sources": [{"lat": 52.370216, "lon": 4.895168}, {"lat": 52.3791, "lon": 4.9003}],
		"targets": [{"lat": 52.370216, "lon": 4.895168}, {"lat": 52.3791, "lon": 4.9003}, {"lat": 52.3312, "lon": 4.8885}],
		"costing": "bicycle",
		"costing_options": {"bicycle": {}},
		"matrix_locations": 2,
		"verbose": false,
		"date_time": {"type": 1, "value": "2026-03-14T08:30"}
	}`, string(data))
}

func TestBuild_Invariants(t *testing.T) {
	stamped := dam.WithDateTime(valhalla.NewLocalTime(morning))

	tests := []struct {
		name    string
		builder *matrix.Builder
		field   string
	}{
		{
			name:    "no sources",
			builder: matrix.NewBuilder().Targets(dam),
			field:   "sources",
		},
		{
			name:    "no targets",
			builder: matrix.NewBuilder().Sources(dam),
			field:   "targets",
		},
		{
			name:    "multimodal costing",
			builder: matrix.NewBuilder().Sources(dam).Targets(central).Costing(costing.Multimodal{}),
			field:   "costing",
		},
		{
			name:    "two date-time modes",
			builder: matrix.NewBuilder().Sources(dam).Targets(central).CurrentDeparture().DepartAt(morning),
			field:   "date_time",
		},
		{
			name:    "zero matrix locations",
			builder: matrix.NewBuilder().Sources(dam).Targets(central).MatrixLocations(0),
			field:   "matrix_locations",
		},
		{
			name:    "target out of range",
			builder: matrix.NewBuilder().Sources(dam).Targets(valhalla.NewLocation(0, 181)),
			field:   "targets[0].lon",
		},
		{
			name:    "arrive by with fewer sources",
			builder: matrix.NewBuilder().Sources(dam).Targets(central, zuid).ArriveBy(morning),
			field:   "date_time.type",
		},
		{
			name:    "depart at with more sources",
			builder: matrix.NewBuilder().Sources(dam, central).Targets(zuid).DepartAt(morning),
			field:   "date_time.type",
		},
		{
			name:    "target time with fewer sources",
			builder: matrix.NewBuilder().Sources(dam).Targets(central, stamped),
			field:   "targets[1].date_time",
		},
		{
			name:    "source time with more sources",
			builder: matrix.NewBuilder().Sources(stamped, central).Targets(zuid),
			field:   "sources[0].date_time",
		},
		{
			name:    "unknown shape format",
			builder: matrix.NewBuilder().Sources(dam).Targets(central).ShapeFormat("geojson"),
			field:   "shape_format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			require.Error(t, err)
			assert.ErrorIs(t, err, valhalla.ErrInvalidManifest)
			assert.Contains(t, fields(err), tt.field)
		})
	}
}

func TestBuild_TimeDependenceAllowed(t *testing.T) {
	stamped := dam.WithDateTime(valhalla.NewLocalTime(morning))

	_, err := matrix.NewBuilder().Sources(stamped).Targets(central, zuid).Build()
	assert.NoError(t, err)

	_, err = matrix.NewBuilder().Sources(dam, central).Targets(zuid).ArriveBy(morning).Build()
	assert.NoError(t, err)
}

func TestManifest_UnmarshalAndValidate(t *testing.T) {
	var m matrix.Manifest
	require.NoError(t, json.Unmarshal([]byte(`{
		"sources": [{"lat": 52.37, "lon": 4.89}],
		"targets": [{"lat": 52.38, "lon": 4.90}],
		"costing": "multimodal"
	}`), &m))

	err := matrix.Validate(m)
	assert.Equal(t, []string{"costing"}, fields(err))
}

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestDecodeResponse_Verbose(t *testing.T) {
	resp, err := matrix.DecodeResponse(loadFixture(t, "verbose.json"), matrix.Dimensions{})
	require.NoError(t, err)

	assert.Equal(t, "depots", resp.ID)
	assert.Equal(t, "costmatrix", resp.Algorithm)
	assert.Len(t, resp.Warnings, 1)
	require.Len(t, resp.Sources, 2)
	require.NotNil(t, resp.Sources[0].DateTime)
	assert.Len(t, resp.Targets, 3)

	require.Len(t, resp.Cells, 2)
	require.Len(t, resp.Cells[0], 3)

	cell, ok := resp.Cell(0, 1)
	require.True(t, ok)
	assert.True(t, cell.Reachable())
	assert.InDelta(t, 3.12, *cell.Distance, 1e-9)
	assert.InDelta(t, 452, *cell.Time, 1e-9)
	assert.Equal(t, "Europe/Amsterdam", cell.TimeZoneName)
	assert.Equal(t, "2026-03-14T08:38", cell.DateTime.Format(valhalla.LocalTimeLayout))

	unreachable, ok := resp.Cell(0, 2)
	require.True(t, ok)
	assert.False(t, unreachable.Reachable())

	_, ok = resp.Cell(2, 0)
	assert.False(t, ok)
}

func TestDecodeResponse_ConciseMatchesVerbose(t *testing.T) {
	dims := matrix.Dimensions{Sources: 2, Targets: 3}

	verbose, err := matrix.DecodeResponse(loadFixture(t, "verbose.json"), dims)
	require.NoError(t, err)
	concise, err := matrix.DecodeResponse(loadFixture(t, "concise.json"), dims)
	require.NoError(t, err)

	assert.Empty(t, concise.Sources)
	require.Len(t, concise.Cells, len(verbose.Cells))
	for i := range verbose.Cells {
		require.Len(t, concise.Cells[i], len(verbose.Cells[i]))
		for j, want := range verbose.Cells[i] {
			got := concise.Cells[i][j]
			assert.Equal(t, want.Reachable(), got.Reachable(), "cell %d,%d", i, j)
			assert.Equal(t, want.Distance, got.Distance, "cell %d,%d", i, j)
			assert.Equal(t, want.Time, got.Time, "cell %d,%d", i, j)
			assert.Equal(t, i, got.FromIndex)
			assert.Equal(t, j, got.ToIndex)
		}
	}
}

func TestDecodeResponse_DimensionMismatch(t *testing.T) {
	tests := []struct {
		name string
		body string
		dims matrix.Dimensions
		path string
		want matrix.DimensionError
	}{
		{
			name: "two sources declared, one row supplied",
			body: `{"sources": [{"lat": 1, "lon": 1}, {"lat": 2, "lon": 2}], "targets": [{"lat": 3, "lon": 3}],
				"sources_to_targets": [[{"distance": 1, "time": 1, "from_index": 0, "to_index": 0}]]}`,
			path: "sources_to_targets",
			want: matrix.DimensionError{Row: -1, Want: 2, Got: 1},
		},
		{
			name: "short verbose row",
			body: `{"sources": [{"lat": 1, "lon": 1}], "targets": [{"lat": 2, "lon": 2}, {"lat": 3, "lon": 3}],
				"sources_to_targets": [[{"distance": 1, "time": 1, "from_index": 0, "to_index": 0}]]}`,
			path: "sources_to_targets[0]",
			want: matrix.DimensionError{Row: 0, Want: 2, Got: 1},
		},
		{
			name: "concise rows against manifest",
			body: `{"sources_to_targets": {"durations": [[1, 2]], "distances": [[1, 2]]}}`,
			dims: matrix.Dimensions{Sources: 2, Targets: 2},
			path: "sources_to_targets.durations",
			want: matrix.DimensionError{Row: -1, Want: 2, Got: 1},
		},
		{
			name: "echo with fewer sources than the manifest",
			body: `{"sources": [{"lat": 1, "lon": 1}], "targets": [{"lat": 3, "lon": 3}, {"lat": 4, "lon": 4}],
				"sources_to_targets": [[{"distance": 1, "time": 1, "from_index": 0, "to_index": 0},
					{"distance": 2, "time": 2, "from_index": 0, "to_index": 1}]]}`,
			dims: matrix.Dimensions{Sources: 2, Targets: 2},
			path: "sources",
			want: matrix.DimensionError{Row: -1, Want: 2, Got: 1},
		},
		{
			name: "empty echo does not clear the manifest dimensions",
			body: `{"sources": [], "targets": [],
				"sources_to_targets": [[{"distance": 1, "time": 1, "from_index": 0, "to_index": 0}]]}`,
			dims: matrix.Dimensions{Sources: 1, Targets: 1},
			path: "sources",
			want: matrix.DimensionError{Row: -1, Want: 1, Got: 0},
		},
		{
			name: "manifest dimensions without echo",
			body: `{"sources_to_targets": [[{"distance": 1, "time": 1, "from_index": 0, "to_index": 0}]]}`,
			dims: matrix.Dimensions{Sources: 2, Targets: 2},
			path: "sources_to_targets",
			want: matrix.DimensionError{Row: -1, Want: 2, Got: 1},
		},
		{
			name: "concise distances disagree with durations",
			body: `{"sources_to_targets": {"durations": [[1, 2], [3, 4]], "distances": [[1, 2], [3]]}}`,
			dims: matrix.Dimensions{Sources: 2, Targets: 2},
			path: "sources_to_targets.distances[1]",
			want: matrix.DimensionError{Row: 1, Want: 2, Got: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := matrix.DecodeResponse([]byte(tt.body), tt.dims)
			require.Error(t, err)
			assert.ErrorIs(t, err, valhalla.ErrDecode)

			var decodeErr *valhalla.DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.path, decodeErr.Path)

			var dimErr *matrix.DimensionError
			require.True(t, errors.As(err, &dimErr))
			assert.Equal(t, tt.want, *dimErr)
		})
	}
}

func TestDecodeResponse_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		path string
	}{
		{"no result", `{"units": "kilometers"}`, "sources_to_targets"},
		{"null result", `{"sources_to_targets": null}`, "sources_to_targets"},
		{"no durations", `{"sources_to_targets": {"distances": [[1]]}}`, "sources_to_targets.durations"},
		{"no distances", `{"sources_to_targets": {"durations": [[1]]}}`, "sources_to_targets.distances"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := matrix.DecodeResponse([]byte(tt.body), matrix.Dimensions{Sources: 1, Targets: 1})
			require.Error(t, err)
			assert.ErrorIs(t, err, valhalla.ErrMissingField)

			var decodeErr *valhalla.DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.path, decodeErr.Path)
		})
	}
}
