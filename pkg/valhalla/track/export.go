package track

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tkrajina/gpxgo/gpx"
)

// Creator is written to the creator attribute of exported GPX documents.
const Creator = "valhalla"

// MarshalGPX encodes the track as a GPX 1.1 document with the waypoints, a
// route of maneuver points and a track named "route".
func MarshalGPX(t Track) ([]byte, error) {
	doc := gpx.GPX{
		Creator: Creator,
		Version: "1.1",
	}

	for _, w := range t.Waypoints {
		doc.Waypoints = append(doc.Waypoints, gpxWaypoint(w))
	}

	if len(t.Route) > 0 {
		r := gpx.GPXRoute{Name: "maneuvers"}
		for _, w := range t.Route {
			r.Points = append(r.Points, gpxWaypoint(w))
		}
		doc.Routes = append(doc.Routes, r)
	}

	trk := gpx.GPXTrack{Name: "route"}
	for _, s := range t.Segments {
		seg := gpx.GPXTrackSegment{Points: make([]gpx.GPXPoint, 0, len(s.Points))}
		for _, p := range s.Points {
			pt := gpx.GPXPoint{Point: gpx.Point{Latitude: p.Lat, Longitude: p.Lon}}
			if p.Elevation != nil {
				pt.Elevation = *gpx.NewNullableFloat64(*p.Elevation)
			}
			if p.Time != nil {
				pt.Timestamp = p.Time.UTC()
			}
			seg.Points = append(seg.Points, pt)
		}
		trk.Segments = append(trk.Segments, seg)
	}
	doc.Tracks = append(doc.Tracks, trk)

	data, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("encoding gpx: %w", err)
	}
	return data, nil
}

func gpxWaypoint(w Waypoint) gpx.GPXPoint {
	return gpx.GPXPoint{
		Point: gpx.Point{Latitude: w.Lat, Longitude: w.Lon},
		Name:  w.Name,
	}
}

// MarshalGeoJSON encodes the track as a FeatureCollection with one LineString
// per segment and one Point per waypoint.
func MarshalGeoJSON(t Track) ([]byte, error) {
	fc := geojson.NewFeatureCollection()

	for i, s := range t.Segments {
		line := make(orb.LineString, len(s.Points))
		for j, p := range s.Points {
			line[j] = orb.Point{p.Lon, p.Lat}
		}
		f := geojson.NewFeature(line)
		f.Properties["leg"] = i
		fc.Append(f)
	}

	for _, w := range t.Waypoints {
		f := geojson.NewFeature(orb.Point{w.Lon, w.Lat})
		f.Properties["name"] = w.Name
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding geojson: %w", err)
	}
	return data, nil
}
