// Package handler provides the HTTP handlers of the routing gateway.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/breatheroute/valhalla/internal/api/response"
	"github.com/breatheroute/valhalla/pkg/valhalla/elevation"
	"github.com/breatheroute/valhalla/pkg/valhalla/matrix"
	"github.com/breatheroute/valhalla/pkg/valhalla/route"
	"github.com/breatheroute/valhalla/pkg/valhalla/status"
)

// maxBodyBytes bounds request bodies accepted by the gateway.
const maxBodyBytes = 1 << 20

// Engine is the routing engine as seen by the handlers. *client.Client implements it.
type Engine interface {
	Route(ctx context.Context, m route.Manifest) (*route.Response, error)
	Matrix(ctx context.Context, m matrix.Manifest) (*matrix.Response, error)
	Elevation(ctx context.Context, m elevation.Manifest) (*elevation.Response, error)
	Status(ctx context.Context, m status.Manifest) (*status.Response, error)
}

// decodeBody reads a JSON request body into v and writes a 400 problem when it
// cannot. It reports whether decoding succeeded.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			response.BadRequest(w, r, "request body is empty", nil)
		case errors.As(err, &maxErr):
			response.BadRequest(w, r, "request body is too large", nil)
		default:
			response.BadRequest(w, r, "invalid JSON body: "+err.Error(), nil)
		}
		return false
	}
	return true
}
