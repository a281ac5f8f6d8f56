package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/departwise/departwise/internal/api/models"
	"github.com/departwise/departwise/internal/api/response"
	"github.com/departwise/departwise/internal/planner"
	"github.com/departwise/departwise/internal/timewindow"
	"github.com/departwise/departwise/internal/weather"
)

// Planner is the planning surface the HTTP handlers depend on.
type Planner interface {
	Route(ctx context.Context, req planner.RouteRequest) (*planner.RouteResult, error)
	Scan(ctx context.Context, req planner.ScanRequest) (*planner.ScanResult, error)
	SmartPlan(ctx context.Context, req planner.PlanRequest) (*planner.Plan, error)
	RiskCurve(ctx context.Context, req planner.RiskRequest) ([]planner.RiskSample, error)
	Weather(ctx context.Context, req planner.WeatherRequest) (*weather.ForecastWindowSummary, error)
}

// PlanningHandler handles route, departure, risk and weather endpoints.
type PlanningHandler struct {
	planner Planner
	logger  zerolog.Logger
}

// NewPlanningHandler creates a new PlanningHandler.
func NewPlanningHandler(p Planner, logger zerolog.Logger) *PlanningHandler {
	return &PlanningHandler{planner: p, logger: logger}
}

// ComputeRoutes handles POST /v1/routes:compute.
func (h *PlanningHandler) ComputeRoutes(w http.ResponseWriter, r *http.Request) {
	var input models.RouteComputeRequest
	if !decode(w, r, &input) {
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "request validation failed", errs)
		return
	}

	req := planner.RouteRequest{
		Origin:      input.Origin,
		Destination: input.Destination,
		Alternative: input.Alternatives,
	}
	if input.DepartAt != nil {
		departAt := input.DepartAt.Time()
		req.DepartAt = &departAt
	}

	result, err := h.planner.Route(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=60")
	response.JSON(w, r, http.StatusOK, models.NewRouteComputeResponse(result))
}

// BestDeparture handles POST /v1/departures:best.
func (h *PlanningHandler) BestDeparture(w http.ResponseWriter, r *http.Request) {
	var input models.WindowRequest
	if !decode(w, r, &input) {
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "request validation failed", errs)
		return
	}
	window, ok := buildWindow(w, r, input.WindowFields)
	if !ok {
		return
	}

	result, err := h.planner.Scan(r.Context(), planner.ScanRequest{
		Origin:      input.Origin,
		Destination: input.Destination,
		Window:      window,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewBestDepartureResponse(result))
}

// SmartPlan handles POST /v1/plans:smart.
func (h *PlanningHandler) SmartPlan(w http.ResponseWriter, r *http.Request) {
	var input models.SmartPlanRequest
	if !decode(w, r, &input) {
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "request validation failed", errs)
		return
	}
	window, ok := buildWindow(w, r, input.WindowFields)
	if !ok {
		return
	}

	plan, err := h.planner.SmartPlan(r.Context(), planner.PlanRequest{
		Origin:      input.Origin,
		Destination: input.Destination,
		Window:      window,
		Efficiency:  input.Efficiency,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewSmartPlanResponse(plan))
}

// RiskCurve handles POST /v1/risk:curve.
func (h *PlanningHandler) RiskCurve(w http.ResponseWriter, r *http.Request) {
	var input models.WindowRequest
	if !decode(w, r, &input) {
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "request validation failed", errs)
		return
	}
	window, ok := buildWindow(w, r, input.WindowFields)
	if !ok {
		return
	}

	curve, err := h.planner.RiskCurve(r.Context(), planner.RiskRequest{
		Origin:      input.Origin,
		Destination: input.Destination,
		Window:      window,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewRiskCurve(curve))
}

// WeatherWindow handles POST /v1/weather:window.
func (h *PlanningHandler) WeatherWindow(w http.ResponseWriter, r *http.Request) {
	var input models.WeatherWindowRequest
	if !decode(w, r, &input) {
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "request validation failed", errs)
		return
	}
	window, ok := buildWindow(w, r, input.WindowFields)
	if !ok {
		return
	}

	summary, err := h.planner.Weather(r.Context(), planner.WeatherRequest{
		Destination: input.Destination,
		Window:      window,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewWeatherWindowResponse(summary))
}

// writeError maps planner failures to problem responses: lookups and empty
// results are the caller's 400, provider outages are 503.
func (h *PlanningHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var pErr *planner.Error
	if !errors.As(err, &pErr) {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected planning error")
		response.InternalError(w, r, "An unexpected error occurred")
		return
	}

	switch pErr.Kind {
	case planner.KindProvider:
		h.logger.Warn().Err(err).Str("code", pErr.Code).Msg("planning provider unavailable")
		response.ServiceUnavailable(w, r, pErr.Reason)
	default:
		response.PlanningFailed(w, r, pErr.Code, pErr.Reason)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return false
	}
	return true
}

// buildWindow converts validated window fields into a TimeWindow.
func buildWindow(w http.ResponseWriter, r *http.Request, f models.WindowFields) (timewindow.TimeWindow, bool) {
	window, err := f.Window()
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return timewindow.TimeWindow{}, false
	}
	return window, true
}
