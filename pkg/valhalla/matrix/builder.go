package matrix

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/breatheroute/valhalla/pkg/valhalla"
	"github.com/breatheroute/valhalla/pkg/valhalla/costing"
)

// Builder accumulates matrix options and validates them in Build.
type Builder struct {
	m         Manifest
	dateTimes valhalla.DateTimeSelector
}

// NewBuilder returns an empty matrix builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Sources appends origin locations; each becomes one row of the result.
func (b *Builder) Sources(locations ...valhalla.Location) *Builder {
	b.m.Sources = append(b.m.Sources, locations...)
	return b
}

// Targets appends destination locations; each becomes one column of the result.
func (b *Builder) Targets(locations ...valhalla.Location) *Builder {
	b.m.Targets = append(b.m.Targets, locations...)
	return b
}

// Costing selects the travel mode.
func (b *Builder) Costing(c costing.Costing) *Builder {
	b.m.Costing = c
	return b
}

// ID sets a request identifier echoed back in the response.
func (b *Builder) ID(id string) *Builder {
	b.m.ID = id
	return b
}

// Units selects the distance unit of the response.
func (b *Builder) Units(u valhalla.Units) *Builder {
	b.m.Units = u
	return b
}

// MatrixLocations accepts a partial result once n locations are reached.
func (b *Builder) MatrixLocations(n int) *Builder {
	b.m.MatrixLocations = &n
	return b
}

// Verbose selects between the verbose and concise response forms.
func (b *Builder) Verbose(verbose bool) *Builder {
	b.m.Verbose = &verbose
	return b
}

// ShapeFormat selects the encoding of connection shapes.
func (b *Builder) ShapeFormat(f valhalla.ShapeFormat) *Builder {
	b.m.ShapeFormat = f
	return b
}

// CurrentDeparture departs now from every source.
func (b *Builder) CurrentDeparture() *Builder {
	b.dateTimes.Set(valhalla.CurrentDeparture())
	return b
}

// DepartAt departs from every source at the given local time.
func (b *Builder) DepartAt(t time.Time) *Builder {
	b.dateTimes.Set(valhalla.DepartAt(t))
	return b
}

// ArriveBy arrives at every target by the given local time.
func (b *Builder) ArriveBy(t time.Time) *Builder {
	b.dateTimes.Set(valhalla.ArriveBy(t))
	return b
}

// Build validates the accumulated options and returns the manifest.
func (b *Builder) Build() (Manifest, error) {
	m := b.m
	m.Sources = slices.Clone(b.m.Sources)
	m.Targets = slices.Clone(b.m.Targets)

	dt, err := b.dateTimes.Resolve("date_time")
	m.DateTime = dt

	errs := append([]error{err}, validate(m)...)
	if err := errors.Join(errs...); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks a manifest that was not produced by a Builder.
func Validate(m Manifest) error {
	errs := validate(m)
	errs = append(errs, valhalla.ValidateDateTime("date_time", m.DateTime))
	return errors.Join(errs...)
}

func validate(m Manifest) []error {
	var errs []error

	if len(m.Sources) == 0 {
		errs = append(errs, &valhalla.ValidationError{Field: "sources", Message: "at least 1 source is required"})
	}
	if len(m.Targets) == 0 {
		errs = append(errs, &valhalla.ValidationError{Field: "targets", Message: "at least 1 target is required"})
	}
	errs = append(errs, valhalla.ValidateLocations("sources", m.Sources)...)
	errs = append(errs, valhalla.ValidateLocations("targets", m.Targets)...)

	if m.Costing != nil && m.Costing.Tag() == costing.TagMultimodal {
		errs = append(errs, &valhalla.ValidationError{Field: "costing", Message: "multimodal costing is not supported by the matrix"})
	}
	if m.MatrixLocations != nil && *m.MatrixLocations <= 0 {
		errs = append(errs, &valhalla.ValidationError{Field: "matrix_locations", Message: "must be positive"})
	}
	switch m.Units {
	case "", valhalla.Kilometers, valhalla.Miles:
	default:
		errs = append(errs, &valhalla.ValidationError{Field: "units", Message: fmt.Sprintf("unknown units %q", m.Units)})
	}
	switch m.ShapeFormat {
	case "", valhalla.ShapeFormatPolyline5, valhalla.ShapeFormatPolyline6:
	default:
		errs = append(errs, &valhalla.ValidationError{Field: "shape_format", Message: fmt.Sprintf("unknown shape format %q", m.ShapeFormat)})
	}

	return append(errs, validateTimeDependence(m)...)
}

// validateTimeDependence enforces the engine's limits on time-dependent
// matrices. With more sources than targets the search runs backwards from the
// targets, so times may only be given as arrivals at targets. Otherwise the
// search runs forwards and times may only be given as departures from sources.
func validateTimeDependence(m Manifest) []error {
	var errs []error
	backward := len(m.Sources) > len(m.Targets)

	forbidden, field := m.Targets, "targets"
	if backward {
		forbidden, field = m.Sources, "sources"
	}
	for i, loc := range forbidden {
		if loc.DateTime != nil {
			errs = append(errs, &valhalla.ValidationError{
				Field:   fmt.Sprintf("%s[%d].date_time", field, i),
				Message: fmt.Sprintf("not allowed with %d sources and %d targets", len(m.Sources), len(m.Targets)),
			})
		}
	}

	if m.DateTime == nil {
		return errs
	}
	switch t := m.DateTime.Type; {
	case backward && (t == valhalla.DateTimeCurrent || t == valhalla.DateTimeDepartAt):
		errs = append(errs, &valhalla.ValidationError{
			Field:   "date_time.type",
			Message: fmt.Sprintf("%s is not allowed with more sources than targets", t),
		})
	case !backward && t == valhalla.DateTimeArriveBy:
		errs = append(errs, &valhalla.ValidationError{
			Field:   "date_time.type",
			Message: "arrive_by requires more sources than targets",
		})
	}
	return errs
}
