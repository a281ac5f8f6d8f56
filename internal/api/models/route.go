package models

// RouteComputeRequest is the body of POST /v1/routes:compute.
type RouteComputeRequest struct {
	Origin       string     `json:"origin"`
	Destination  string     `json:"destination"`
	DepartAt     *Timestamp `json:"depart_at,omitempty"`
	Alternatives bool       `json:"alternatives"`
}

// Validate returns field errors for missing places.
func (r RouteComputeRequest) Validate() []FieldError {
	return requirePlaces(r.Origin, r.Destination)
}

// RouteSummary is one summarized route.
type RouteSummary struct {
	DistanceKm        float64 `json:"distance_km"`
	DurationFormatted string  `json:"duration_formatted"`
	AvgSpeedKmh       float64 `json:"avg_speed_kmh"`
	TrafficLevel      string  `json:"traffic_level"`
	Reason            string  `json:"reason"`
	ViaPoint          string  `json:"via_point"`
	DelayRatio        float64 `json:"delay_ratio"`
	Geometry          string  `json:"geometry,omitempty"`
}

// RouteComputeResponse is the primary route and, when requested and
// available, one alternative.
type RouteComputeResponse struct {
	Origin      Point         `json:"origin"`
	Destination Point         `json:"destination"`
	Primary     RouteSummary  `json:"primary"`
	Alternative *RouteSummary `json:"alternative"`
}

func requirePlaces(origin, destination string) []FieldError {
	var errs []FieldError
	if origin == "" {
		errs = append(errs, FieldError{Field: "origin", Message: "required", Code: "REQUIRED"})
	}
	if destination == "" {
		errs = append(errs, FieldError{Field: "destination", Message: "required", Code: "REQUIRED"})
	}
	return errs
}
