package valhalla

import (
	"encoding/json"
	"fmt"

	"github.com/breatheroute/valhalla/pkg/polyline"
)

// LocationType controls how a location shapes the route through it.
type LocationType string

// Location types.
const (
	// LocationBreak allows u-turns and produces a leg boundary with arrival maneuvers.
	LocationBreak LocationType = "break"
	// LocationThrough passes through without a leg boundary or u-turn.
	LocationThrough LocationType = "through"
	// LocationVia passes through without a leg boundary but allows a u-turn.
	LocationVia LocationType = "via"
	// LocationBreakThrough produces a leg boundary without allowing a u-turn.
	LocationBreakThrough LocationType = "break_through"
)

// PreferredSide selects the side of the street to reach the location on.
type PreferredSide string

// Preferred sides.
const (
	SideSame     PreferredSide = "same"
	SideOpposite PreferredSide = "opposite"
	SideEither   PreferredSide = "either"
)

// RoadClass is an OSM-derived road classification.
type RoadClass string

// Road classes, from most to least important.
const (
	RoadMotorway     RoadClass = "motorway"
	RoadTrunk        RoadClass = "trunk"
	RoadPrimary      RoadClass = "primary"
	RoadSecondary    RoadClass = "secondary"
	RoadTertiary     RoadClass = "tertiary"
	RoadUnclassified RoadClass = "unclassified"
	RoadResidential  RoadClass = "residential"
	RoadServiceOther RoadClass = "service_other"
)

// SearchFilter narrows the candidate edges a location may snap to.
type SearchFilter struct {
	ExcludeTunnel   *bool      `json:"exclude_tunnel,omitempty"`
	ExcludeBridge   *bool      `json:"exclude_bridge,omitempty"`
	ExcludeRamp     *bool      `json:"exclude_ramp,omitempty"`
	ExcludeClosures *bool      `json:"exclude_closures,omitempty"`
	MinRoadClass    *RoadClass `json:"min_road_class,omitempty" validate:"omitempty,oneof=motorway trunk primary secondary tertiary unclassified residential service_other"`
	MaxRoadClass    *RoadClass `json:"max_road_class,omitempty" validate:"omitempty,oneof=motorway trunk primary secondary tertiary unclassified residential service_other"`
}

// Location is a point the engine snaps to the road network, plus optional hints
// on how to snap and how to route through it.
type Location struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`

	Type                  *LocationType  `json:"type,omitempty" validate:"omitempty,oneof=break through via break_through"`
	Heading               *int           `json:"heading,omitempty" validate:"omitempty,gte=0,lte=360"`
	HeadingTolerance      *int           `json:"heading_tolerance,omitempty" validate:"omitempty,gte=0,lte=180"`
	Street                *string        `json:"street,omitempty"`
	WayID                 *int64         `json:"way_id,omitempty"`
	MinimumReachability   *int           `json:"minimum_reachability,omitempty" validate:"omitempty,gte=0"`
	Radius                *int           `json:"radius,omitempty" validate:"omitempty,gte=0"`
	RankCandidates        *bool          `json:"rank_candidates,omitempty"`
	PreferredSide         *PreferredSide `json:"preferred_side,omitempty" validate:"omitempty,oneof=same opposite either"`
	DisplayLat            *float64       `json:"display_lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	DisplayLon            *float64       `json:"display_lon,omitempty" validate:"omitempty,gte=-180,lte=180"`
	SearchCutoff          *float64       `json:"search_cutoff,omitempty" validate:"omitempty,gte=0"`
	NodeSnapTolerance     *float64       `json:"node_snap_tolerance,omitempty" validate:"omitempty,gte=0"`
	StreetSideTolerance   *float64       `json:"street_side_tolerance,omitempty" validate:"omitempty,gte=0"`
	StreetSideMaxDistance *float64       `json:"street_side_max_distance,omitempty" validate:"omitempty,gte=0"`
	StreetSideCutoff      *RoadClass     `json:"street_side_cutoff,omitempty" validate:"omitempty,oneof=motorway trunk primary secondary tertiary unclassified residential service_other"`
	SearchFilter          *SearchFilter  `json:"search_filter,omitempty"`
	Name                  *string        `json:"name,omitempty"`
	Waiting               *int           `json:"waiting,omitempty" validate:"omitempty,gte=0"`
	DateTime              *LocalTime     `json:"date_time,omitempty"`
}

// NewLocation returns a location with no hints.
func NewLocation(lat, lon float64) Location {
	return Location{Lat: lat, Lon: lon}
}

// WithName returns a copy with a display name, used as the waypoint name in tracks.
func (l Location) WithName(name string) Location {
	l.Name = &name
	return l
}

// WithType returns a copy with the given location type.
func (l Location) WithType(t LocationType) Location {
	l.Type = &t
	return l
}

// WithHeading returns a copy with a preferred heading in degrees and its tolerance.
func (l Location) WithHeading(heading, tolerance int) Location {
	l.Heading = &heading
	l.HeadingTolerance = &tolerance
	return l
}

// WithRadius returns a copy with a candidate search radius in meters.
func (l Location) WithRadius(meters int) Location {
	l.Radius = &meters
	return l
}

// WithPreferredSide returns a copy with a street side preference.
func (l Location) WithPreferredSide(side PreferredSide) Location {
	l.PreferredSide = &side
	return l
}

// WithStreetSideTolerance returns a copy with the street side tolerance in meters.
func (l Location) WithStreetSideTolerance(meters float64) Location {
	l.StreetSideTolerance = &meters
	return l
}

// WithSearchFilter returns a copy with the given search filter.
func (l Location) WithSearchFilter(f SearchFilter) Location {
	l.SearchFilter = &f
	return l
}

// WithDateTime returns a copy with a per-location time, used by matrix requests.
func (l Location) WithDateTime(t LocalTime) Location {
	l.DateTime = &t
	return l
}

// Point returns the coordinate of the location.
func (l Location) Point() polyline.Point {
	return polyline.Point{Lat: l.Lat, Lon: l.Lon}
}

// ExcludesClosures reports whether the location's search filter excludes closed edges.
func (l Location) ExcludesClosures() bool {
	return l.SearchFilter != nil && l.SearchFilter.ExcludeClosures != nil && *l.SearchFilter.ExcludeClosures
}

// ValidateLocations checks every location and returns one error per violation,
// with fields named like "locations[1].lat".
func ValidateLocations(field string, locations []Location) []error {
	var errs []error
	for i := range locations {
		errs = append(errs, ValidateStruct(fmt.Sprintf("%s[%d]", field, i), locations[i])...)
	}
	return errs
}

// Polygon is a closed ring of coordinates, serialized as [[lon, lat], ...].
type Polygon []polyline.Point

// MarshalJSON implements json.Marshaler.
func (p Polygon) MarshalJSON() ([]byte, error) {
	pairs := make([][2]float64, len(p))
	for i, pt := range p {
		pairs[i] = [2]float64{pt.Lon, pt.Lat}
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Polygon) UnmarshalJSON(data []byte) error {
	var pairs [][2]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	ring := make(Polygon, len(pairs))
	for i, pair := range pairs {
		ring[i] = polyline.Point{Lat: pair[1], Lon: pair[0]}
	}
	*p = ring
	return nil
}

// ValidatePolygons checks that every ring has at least three coordinates within range.
func ValidatePolygons(field string, polygons []Polygon) []error {
	var errs []error
	for i, ring := range polygons {
		name := fmt.Sprintf("%s[%d]", field, i)
		if len(ring) < 3 {
			errs = append(errs, &ValidationError{Field: name, Message: fmt.Sprintf("ring needs at least 3 coordinates, got %d", len(ring))})
			continue
		}
		for j, pt := range ring {
			if pt.Lat < -90 || pt.Lat > 90 || pt.Lon < -180 || pt.Lon > 180 {
				errs = append(errs, &ValidationError{Field: fmt.Sprintf("%s[%d]", name, j), Message: "coordinate out of range"})
			}
		}
	}
	return errs
}
