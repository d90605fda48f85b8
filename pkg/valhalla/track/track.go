// Package track projects decoded trips onto a GPS track structure and exports
// it as GPX or GeoJSON.
package track

import (
	"fmt"
	"time"

	"github.com/breatheroute/valhalla/pkg/valhalla/route"
)

// Point is one track point. Elevation and Time are nil when unknown.
type Point struct {
	Lat       float64    `json:"lat"`
	Lon       float64    `json:"lon"`
	Elevation *float64   `json:"elevation,omitempty"`
	Time      *time.Time `json:"time,omitempty"`
}

// Segment is the geometry of one leg.
type Segment struct {
	Points []Point `json:"points"`
}

// Waypoint is a named position.
type Waypoint struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}

// Track is the interchange form of a trip.
type Track struct {
	Segments  []Segment  `json:"segments"`
	Waypoints []Waypoint `json:"waypoints"`

	// Route holds the begin point of every maneuver, named by its instruction.
	Route []Waypoint `json:"route,omitempty"`
}

type options struct {
	departure *time.Time
}

// Option configures ToTrack.
type Option func(*options)

// WithDeparture timestamps points, starting at t and advancing by each
// maneuver's time spread evenly over the points it covers.
func WithDeparture(t time.Time) Option {
	return func(o *options) {
		o.departure = &t
	}
}

// ToTrack converts a decoded trip. It never fails: one segment is produced per
// leg, with the leg's shape points in order, and one waypoint per trip location.
// Leg elevation is attached to points only when there is one sample per point.
func ToTrack(trip route.Trip, opts ...Option) Track {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	t := Track{
		Segments:  make([]Segment, 0, len(trip.Legs)),
		Waypoints: make([]Waypoint, 0, len(trip.Locations)),
	}

	clock := o.departure
	for _, leg := range trip.Legs {
		seg := Segment{Points: make([]Point, len(leg.Shape))}
		withElevation := len(leg.Elevation) == len(leg.Shape)
		for i, p := range leg.Shape {
			seg.Points[i] = Point{Lat: p.Lat, Lon: p.Lon}
			if withElevation {
				e := leg.Elevation[i]
				seg.Points[i].Elevation = &e
			}
		}
		if clock != nil {
			end := stamp(seg.Points, leg.Maneuvers, *clock)
			clock = &end
		}
		t.Segments = append(t.Segments, seg)

		for _, m := range leg.Maneuvers {
			if m.BeginShapeIndex < 0 || m.BeginShapeIndex >= len(leg.Shape) {
				continue
			}
			p := leg.Shape[m.BeginShapeIndex]
			t.Route = append(t.Route, Waypoint{Lat: p.Lat, Lon: p.Lon, Name: m.Instruction})
		}
	}

	for i, loc := range trip.Locations {
		name := fmt.Sprintf("location %d", i+1)
		if loc.Name != nil && *loc.Name != "" {
			name = *loc.Name
		}
		t.Waypoints = append(t.Waypoints, Waypoint{Lat: loc.Lat, Lon: loc.Lon, Name: name})
	}

	return t
}

// stamp assigns times to the points covered by each maneuver and returns the
// time at the end of the leg.
func stamp(points []Point, maneuvers []route.Maneuver, start time.Time) time.Time {
	at := start
	for _, m := range maneuvers {
		begin, end := m.BeginShapeIndex, m.EndShapeIndex
		if begin < 0 || end >= len(points) || end < begin {
			continue
		}
		duration := time.Duration(m.Time * float64(time.Second))
		span := end - begin
		for i := begin; i <= end; i++ {
			ts := at
			if span > 0 {
				ts = at.Add(duration * time.Duration(i-begin) / time.Duration(span))
			}
			points[i].Time = &ts
		}
		at = at.Add(duration)
	}
	return at
}
