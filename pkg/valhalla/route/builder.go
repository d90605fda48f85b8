package route

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/breatheroute/valhalla/pkg/valhalla"
	"github.com/breatheroute/valhalla/pkg/valhalla/costing"
)

// MinLocations is the smallest number of locations a route can be computed for.
const MinLocations = 2

// Builder accumulates route options. Setters never fail; every invariant is
// checked once, in Build.
type Builder struct {
	m         Manifest
	dateTimes valhalla.DateTimeSelector
}

// NewBuilder returns an empty route builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Locations appends locations to the ordered path.
func (b *Builder) Locations(locations ...valhalla.Location) *Builder {
	b.m.Locations = append(b.m.Locations, locations...)
	return b
}

// Costing selects the travel mode.
func (b *Builder) Costing(c costing.Costing) *Builder {
	b.m.Costing = c
	return b
}

// Units selects the distance unit of the response.
func (b *Builder) Units(u valhalla.Units) *Builder {
	b.m.Units = u
	return b
}

// Language selects the narrative language, as an IETF tag such as "en-US".
func (b *Builder) Language(lang string) *Builder {
	b.m.Language = lang
	return b
}

// ID sets a request identifier echoed back in the response.
func (b *Builder) ID(id string) *Builder {
	b.m.ID = id
	return b
}

// DirectionsType controls the narrative detail.
func (b *Builder) DirectionsType(t DirectionsType) *Builder {
	b.m.DirectionsType = t
	return b
}

// Alternates asks for up to n alternate routes.
func (b *Builder) Alternates(n int) *Builder {
	b.m.Alternates = &n
	return b
}

// ExcludeLocations appends locations whose edges the route must avoid.
func (b *Builder) ExcludeLocations(locations ...valhalla.Location) *Builder {
	b.m.ExcludeLocations = append(b.m.ExcludeLocations, locations...)
	return b
}

// ExcludePolygon appends a ring whose enclosed roads the route must avoid.
func (b *Builder) ExcludePolygon(ring valhalla.Polygon) *Builder {
	b.m.ExcludePolygons = append(b.m.ExcludePolygons, slices.Clone(ring))
	return b
}

// LinearReferences asks for OpenLR references of the route edges.
func (b *Builder) LinearReferences(enabled bool) *Builder {
	b.m.LinearReferences = &enabled
	return b
}

// PrioritizeBidirectional favors bidirectional search for depart-at requests.
func (b *Builder) PrioritizeBidirectional(enabled bool) *Builder {
	b.m.PrioritizeBidirectional = &enabled
	return b
}

// RoundaboutExits controls whether roundabout exit maneuvers are emitted.
func (b *Builder) RoundaboutExits(enabled bool) *Builder {
	b.m.RoundaboutExits = &enabled
	return b
}

// ElevationInterval asks for leg elevation sampled every meters along the shape.
func (b *Builder) ElevationInterval(meters float64) *Builder {
	b.m.ElevationInterval = &meters
	return b
}

// CurrentDeparture departs now.
func (b *Builder) CurrentDeparture() *Builder {
	b.dateTimes.Set(valhalla.CurrentDeparture())
	return b
}

// DepartAt departs at the given local time.
func (b *Builder) DepartAt(t time.Time) *Builder {
	b.dateTimes.Set(valhalla.DepartAt(t))
	return b
}

// ArriveBy arrives at the given local time.
func (b *Builder) ArriveBy(t time.Time) *Builder {
	b.dateTimes.Set(valhalla.ArriveBy(t))
	return b
}

// Build validates the accumulated options and returns the manifest.
func (b *Builder) Build() (Manifest, error) {
	m := b.m
	m.Locations = slices.Clone(b.m.Locations)
	m.ExcludeLocations = slices.Clone(b.m.ExcludeLocations)
	m.ExcludePolygons = slices.Clone(b.m.ExcludePolygons)

	dt, err := b.dateTimes.Resolve("date_time")
	m.DateTime = dt

	errs := []error{err}
	errs = append(errs, validate(m)...)
	if err := errors.Join(errs...); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks a manifest that was not produced by a Builder, such as one
// decoded from JSON.
func Validate(m Manifest) error {
	errs := validate(m)
	errs = append(errs, valhalla.ValidateDateTime("date_time", m.DateTime))
	return errors.Join(errs...)
}

func validate(m Manifest) []error {
	var errs []error

	if len(m.Locations) < MinLocations {
		errs = append(errs, &valhalla.ValidationError{
			Field:   "locations",
			Message: fmt.Sprintf("at least %d locations are required, got %d", MinLocations, len(m.Locations)),
		})
	}
	errs = append(errs, valhalla.ValidateLocations("locations", m.Locations)...)
	errs = append(errs, valhalla.ValidateLocations("exclude_locations", m.ExcludeLocations)...)
	errs = append(errs, valhalla.ValidatePolygons("exclude_polygons", m.ExcludePolygons)...)

	if m.Alternates != nil && *m.Alternates < 0 {
		errs = append(errs, &valhalla.ValidationError{Field: "alternates", Message: "must not be negative"})
	}
	if m.ElevationInterval != nil && *m.ElevationInterval <= 0 {
		errs = append(errs, &valhalla.ValidationError{Field: "elevation_interval", Message: "must be positive"})
	}
	switch m.DirectionsType {
	case "", DirectionsNone, DirectionsManeuvers, DirectionsInstructions:
	default:
		errs = append(errs, &valhalla.ValidationError{Field: "directions_type", Message: fmt.Sprintf("unknown directions type %q", m.DirectionsType)})
	}
	switch m.Units {
	case "", valhalla.Kilometers, valhalla.Miles:
	default:
		errs = append(errs, &valhalla.ValidationError{Field: "units", Message: fmt.Sprintf("unknown units %q", m.Units)})
	}

	if costing.IgnoresClosures(m.Costing) {
		for i, loc := range m.Locations {
			if loc.ExcludesClosures() {
				errs = append(errs, &valhalla.ValidationError{
					Field:   fmt.Sprintf("locations[%d].search_filter.exclude_closures", i),
					Message: "cannot be combined with costing option ignore_closures",
				})
			}
		}
	}

	return errs
}
