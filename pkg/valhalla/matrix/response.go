package matrix

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/breatheroute/valhalla/pkg/valhalla"
)

// Endpoint is a source or target as echoed by a verbose response.
type Endpoint struct {
	Lat      float64             `json:"lat"`
	Lon      float64             `json:"lon"`
	DateTime *valhalla.LocalTime `json:"date_time,omitempty"`
}

// Cell is the result for one source and target pair. Distance and Time are nil
// when the target cannot be reached from the source.
type Cell struct {
	// Distance is in the units of the response; Time is in seconds.
	Distance *float64 `json:"distance"`
	Time     *float64 `json:"time"`

	FromIndex int `json:"from_index"`
	ToIndex   int `json:"to_index"`

	// Only present in verbose responses to time-dependent requests.
	DateTime       *valhalla.LocalTime `json:"date_time,omitempty"`
	TimeZoneName   string              `json:"time_zone_name,omitempty"`
	TimeZoneOffset string              `json:"time_zone_offset,omitempty"`
}

// Reachable reports whether the engine found a connection.
func (c Cell) Reachable() bool {
	return c.Distance != nil && c.Time != nil
}

// Response is a decoded matrix response. Cells is indexed [source][target]
// whichever form the engine answered in.
type Response struct {
	ID        string            `json:"id,omitempty"`
	Algorithm string            `json:"algorithm,omitempty"`
	Units     valhalla.Units    `json:"units,omitempty"`
	Warnings  []json.RawMessage `json:"warnings,omitempty"`

	// Sources and Targets are only echoed by verbose responses.
	Sources []Endpoint `json:"sources,omitempty"`
	Targets []Endpoint `json:"targets,omitempty"`

	Cells [][]Cell `json:"cells"`
}

// Cell returns the result for a source and target pair.
func (r *Response) Cell(source, target int) (Cell, bool) {
	if source < 0 || source >= len(r.Cells) || target < 0 || target >= len(r.Cells[source]) {
		return Cell{}, false
	}
	return r.Cells[source][target], true
}

// DimensionError reports a result whose shape disagrees with the declared
// sources and targets.
type DimensionError struct {
	// Row is the offending row for column mismatches, or -1 for a row count mismatch.
	Row  int
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("expected %d rows, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("row %d: expected %d columns, got %d", e.Row, e.Want, e.Got)
}

type responseWire struct {
	ID               string            `json:"id"`
	Algorithm        string            `json:"algorithm"`
	Units            valhalla.Units    `json:"units"`
	Warnings         []json.RawMessage `json:"warnings"`
	Sources          []Endpoint        `json:"sources"`
	Targets          []Endpoint        `json:"targets"`
	SourcesToTargets json.RawMessage   `json:"sources_to_targets"`
}

type conciseWire struct {
	Durations [][]*float64 `json:"durations"`
	Distances [][]*float64 `json:"distances"`
}

// DecodeResponse decodes a matrix response in either form. A non-zero axis of
// dims is authoritative: an echoed sources or targets list of another length is
// a DimensionError. A zero axis takes its count from the echo, and the check for
// that axis is skipped when there is none.
func DecodeResponse(body []byte, dims Dimensions) (*Response, error) {
	var w responseWire
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, valhalla.SyntaxError(err)
	}

	raw := bytes.TrimSpace(w.SourcesToTargets)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, valhalla.MissingField("sources_to_targets")
	}

	resp := &Response{
		ID:        w.ID,
		Algorithm: w.Algorithm,
		Units:     w.Units,
		Warnings:  w.Warnings,
		Sources:   w.Sources,
		Targets:   w.Targets,
	}
	var err error
	if dims.Sources, err = reconcile("sources", dims.Sources, w.Sources); err != nil {
		return nil, err
	}
	if dims.Targets, err = reconcile("targets", dims.Targets, w.Targets); err != nil {
		return nil, err
	}

	switch raw[0] {
	case '[':
		resp.Cells, err = decodeVerbose(raw, dims)
	case '{':
		resp.Cells, err = decodeConcise(raw, dims)
	default:
		err = &valhalla.DecodeError{Path: "sources_to_targets", Err: fmt.Errorf("unexpected JSON value")}
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func decodeVerbose(raw json.RawMessage, dims Dimensions) ([][]Cell, error) {
	var rows [][]Cell
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, &valhalla.DecodeError{Path: "sources_to_targets", Err: err}
	}
	if err := checkDimensions("sources_to_targets", rowLengths(rows), dims); err != nil {
		return nil, err
	}
	return rows, nil
}

func decodeConcise(raw json.RawMessage, dims Dimensions) ([][]Cell, error) {
	var w conciseWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, &valhalla.DecodeError{Path: "sources_to_targets", Err: err}
	}
	if w.Durations == nil {
		return nil, valhalla.MissingField("sources_to_targets.durations")
	}
	if w.Distances == nil {
		return nil, valhalla.MissingField("sources_to_targets.distances")
	}
	if err := checkDimensions("sources_to_targets.durations", rowLengths(w.Durations), dims); err != nil {
		return nil, err
	}
	// Distances must match durations cell for cell.
	if err := checkDimensions("sources_to_targets.distances", rowLengths(w.Distances), Dimensions{
		Sources: len(w.Durations),
		Targets: columns(w.Durations),
	}); err != nil {
		return nil, err
	}

	cells := make([][]Cell, len(w.Durations))
	for i, row := range w.Durations {
		cells[i] = make([]Cell, len(row))
		for j := range row {
			cells[i][j] = Cell{
				Distance:  w.Distances[i][j],
				Time:      w.Durations[i][j],
				FromIndex: i,
				ToIndex:   j,
			}
		}
	}
	return cells, nil
}

// reconcile returns the expected count for one axis.
func reconcile(path string, want int, echoed []Endpoint) (int, error) {
	if echoed == nil {
		return want, nil
	}
	if want == 0 {
		return len(echoed), nil
	}
	if len(echoed) != want {
		return 0, &valhalla.DecodeError{Path: path, Err: &DimensionError{Row: -1, Want: want, Got: len(echoed)}}
	}
	return want, nil
}

func rowLengths[T any](rows [][]T) []int {
	lengths := make([]int, len(rows))
	for i, row := range rows {
		lengths[i] = len(row)
	}
	return lengths
}

func columns[T any](rows [][]T) int {
	if len(rows) == 0 {
		return 0
	}
	return len(rows[0])
}

// checkDimensions compares row lengths with dims. Rows must be rectangular
// even when dims gives no column count.
func checkDimensions(path string, rows []int, dims Dimensions) error {
	if dims.Sources > 0 && len(rows) != dims.Sources {
		return &valhalla.DecodeError{Path: path, Err: &DimensionError{Row: -1, Want: dims.Sources, Got: len(rows)}}
	}
	want := dims.Targets
	if want == 0 && len(rows) > 0 {
		want = rows[0]
	}
	for i, n := range rows {
		if n != want {
			return &valhalla.DecodeError{
				Path: fmt.Sprintf("%s[%d]", path, i),
				Err:  &DimensionError{Row: i, Want: want, Got: n},
			}
		}
	}
	return nil
}
