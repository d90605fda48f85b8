package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/breatheroute/valhalla/internal/api/models"
	"github.com/breatheroute/valhalla/internal/api/response"
	"github.com/breatheroute/valhalla/pkg/polyline"
	"github.com/breatheroute/valhalla/pkg/valhalla"
	"github.com/breatheroute/valhalla/pkg/valhalla/elevation"
	"github.com/breatheroute/valhalla/pkg/valhalla/route"
	"github.com/breatheroute/valhalla/pkg/valhalla/track"
)

// Content types of the track exports.
const (
	ContentTypeGPX     = "application/gpx+xml"
	ContentTypeGeoJSON = "application/geo+json"
)

// DefaultSampleDistance is the spacing of profile points when the request sets none.
const DefaultSampleDistance = 50.0

// RouteHandler handles routing endpoints.
type RouteHandler struct {
	engine Engine
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(engine Engine) *RouteHandler {
	return &RouteHandler{engine: engine}
}

// Compute handles POST /v1/route - forwards a route request and returns the decoded trip.
func (h *RouteHandler) Compute(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.route(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, resp)
}

// GPX handles POST /v1/route/gpx - returns the primary trip as a GPX document.
// The optional departure query parameter (RFC 3339) timestamps the track points.
func (h *RouteHandler) GPX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, ContentTypeGPX, track.MarshalGPX)
}

// GeoJSON handles POST /v1/route/geojson - returns the primary trip as a feature collection.
func (h *RouteHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, ContentTypeGeoJSON, track.MarshalGeoJSON)
}

func (h *RouteHandler) export(w http.ResponseWriter, r *http.Request, contentType string, marshal func(track.Track) ([]byte, error)) {
	var opts []track.Option
	if raw := r.URL.Query().Get("departure"); raw != "" {
		departure, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(w, r, "invalid departure", []models.FieldError{
				{Field: "departure", Message: "must be an RFC 3339 timestamp", Code: "INVALID"},
			})
			return
		}
		opts = append(opts, track.WithDeparture(departure))
	}

	resp, ok := h.route(w, r)
	if !ok {
		return
	}

	body, err := marshal(track.ToTrack(resp.Trip, opts...))
	if err != nil {
		response.InternalError(w, r, "failed to encode track")
		return
	}
	response.Raw(w, r, http.StatusOK, contentType, body)
}

// Profile handles POST /v1/route/profile - computes a route and samples the
// elevation along its primary trip.
func (h *RouteHandler) Profile(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if errs := valhalla.ValidateStruct("", req); len(errs) > 0 {
		response.Invalid(w, r, errors.Join(errs...))
		return
	}
	if err := route.Validate(req.Route); err != nil {
		response.Invalid(w, r, err)
		return
	}

	routed, err := h.engine.Route(r.Context(), req.Route)
	if err != nil {
		response.EngineError(w, r, err)
		return
	}

	interval := req.SampleDistance
	if interval == 0 {
		interval = DefaultSampleDistance
	}
	sampled := polyline.Sample(tripShape(routed.Trip), interval)
	if len(sampled) == 0 {
		response.EngineError(w, r, valhalla.MissingField("trip.legs[0].shape"))
		return
	}

	em, err := elevation.NewBuilder().
		ID(routed.ID).
		Shape(sampled...).
		Range(true).
		HeightPrecision(req.HeightPrecision).
		Build()
	if err != nil {
		response.EngineError(w, r, fmt.Errorf("building elevation request: %w", err))
		return
	}

	heights, err := h.engine.Elevation(r.Context(), em)
	if err != nil {
		response.EngineError(w, r, err)
		return
	}
	if len(heights.RangeHeight) != len(sampled) {
		response.EngineError(w, r, &valhalla.DecodeError{
			Path: "range_height",
			Err:  fmt.Errorf("got %d samples for %d points", len(heights.RangeHeight), len(sampled)),
		})
		return
	}

	response.JSON(w, r, http.StatusOK, buildProfile(routed.ID, sampled, heights.RangeHeight))
}

func (h *RouteHandler) route(w http.ResponseWriter, r *http.Request) (*route.Response, bool) {
	var m route.Manifest
	if !decodeBody(w, r, &m) {
		return nil, false
	}
	if err := route.Validate(m); err != nil {
		response.Invalid(w, r, err)
		return nil, false
	}

	resp, err := h.engine.Route(r.Context(), m)
	if err != nil {
		response.EngineError(w, r, err)
		return nil, false
	}
	return resp, true
}

// tripShape concatenates the leg shapes of a trip, dropping the first point of
// a leg when it repeats the end of the previous one.
func tripShape(trip route.Trip) []polyline.Point {
	var out []polyline.Point
	for _, leg := range trip.Legs {
		shape := leg.Shape
		if len(out) > 0 && len(shape) > 0 && shape[0] == out[len(out)-1] {
			shape = shape[1:]
		}
		out = append(out, shape...)
	}
	return out
}

func buildProfile(id string, points []polyline.Point, heights []elevation.RangeHeight) models.ProfileResponse {
	profile := models.ProfileResponse{
		ID:     id,
		Units:  "meters",
		Points: make([]models.ProfilePoint, len(points)),
	}

	var prev *float64
	for i, p := range points {
		rh := heights[i]
		profile.Points[i] = models.ProfilePoint{
			Lat:       p.Lat,
			Lon:       p.Lon,
			Distance:  rh.Distance,
			Elevation: rh.Height,
		}
		profile.Length = rh.Distance

		if rh.Height == nil {
			continue
		}
		e := *rh.Height
		if profile.MinimumElevation == nil || e < *profile.MinimumElevation {
			profile.MinimumElevation = valhalla.Ptr(e)
		}
		if profile.MaximumElevation == nil || e > *profile.MaximumElevation {
			profile.MaximumElevation = valhalla.Ptr(e)
		}
		if prev != nil {
			if d := e - *prev; d > 0 {
				profile.Ascent += d
			} else {
				profile.Descent += math.Abs(d)
			}
		}
		prev = rh.Height
	}
	return profile
}
