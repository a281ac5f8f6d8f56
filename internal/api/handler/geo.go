package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/departwise/departwise/internal/api/models"
	"github.com/departwise/departwise/internal/api/response"
	"github.com/departwise/departwise/internal/geo"
	"github.com/departwise/departwise/internal/planner"
)

// Geocoder resolves place names and coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, placeName string) (geo.Coordinate, error)
	ReverseResolve(ctx context.Context, c geo.Coordinate) (string, bool)
}

// GeoHandler handles place lookup endpoints.
type GeoHandler struct {
	geocoder Geocoder
}

// NewGeoHandler creates a new GeoHandler.
func NewGeoHandler(g Geocoder) *GeoHandler {
	return &GeoHandler{geocoder: g}
}

// Search handles GET /v1/geo/search?q= and returns the top match's position.
func (h *GeoHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		response.BadRequest(w, r, "request validation failed", []models.FieldError{
			{Field: "q", Message: "required", Code: "REQUIRED"},
		})
		return
	}

	c, err := h.geocoder.Resolve(r.Context(), q)
	if err != nil {
		response.PlanningFailed(w, r, planner.CodeLocationNotFound, fmt.Sprintf("Could not find location: %s", q))
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	response.JSON(w, r, http.StatusOK, models.NewPoint(c))
}

// Reverse handles GET /v1/geo/reverse?lat=&lon= and returns the locality name.
func (h *GeoHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	var errs []models.FieldError
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if latErr != nil {
		errs = append(errs, models.FieldError{Field: "lat", Message: "must be a number", Code: "INVALID_FORMAT"})
	}
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if lonErr != nil {
		errs = append(errs, models.FieldError{Field: "lon", Message: "must be a number", Code: "INVALID_FORMAT"})
	}
	if len(errs) > 0 {
		response.BadRequest(w, r, "request validation failed", errs)
		return
	}

	c := geo.Coordinate{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	name, ok := h.geocoder.ReverseResolve(r.Context(), c)
	if !ok {
		response.NotFound(w, r, "No locality name for this coordinate")
		return
	}

	response.JSON(w, r, http.StatusOK, models.ReverseGeocodeResponse{Name: name})
}
