package models

// WindowRequest is the body shared by the departure scan and risk curve endpoints.
type WindowRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	WindowFields
}

// Validate returns field errors for the places and the window.
func (r WindowRequest) Validate() []FieldError {
	return append(requirePlaces(r.Origin, r.Destination), r.WindowFields.Validate()...)
}

// BestDepartureResponse is the result of a departure window scan.
type BestDepartureResponse struct {
	BestHour     int     `json:"best_hour"`
	BestTime     string  `json:"best_time"`
	AvgSpeedKmh  float64 `json:"avg_speed_kmh"`
	TrafficLevel string  `json:"traffic_level"`
	HoursScanned int     `json:"hours_scanned"`
	HoursFailed  int     `json:"hours_failed"`
}

// RiskSample is one point of a risk curve.
type RiskSample struct {
	Hour      int    `json:"hour"`
	TimeLabel string `json:"time_label"`
	Risk      int    `json:"risk"`
}

// SmartPlanRequest is the body of POST /v1/plans:smart.
type SmartPlanRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	WindowFields
	// Efficiency is the vehicle's km per unit of fuel.
	Efficiency *float64 `json:"efficiency,omitempty"`
}

// Validate returns field errors for the places, window and efficiency.
func (r SmartPlanRequest) Validate() []FieldError {
	errs := append(requirePlaces(r.Origin, r.Destination), r.WindowFields.Validate()...)
	if r.Efficiency != nil && *r.Efficiency <= 0 {
		errs = append(errs, FieldError{Field: "efficiency", Message: "must be positive", Code: "OUT_OF_RANGE"})
	}
	return errs
}

// SmartPlanResponse is the full departure recommendation.
type SmartPlanResponse struct {
	BestHour     int           `json:"best_hour"`
	AvgSpeed     float64       `json:"avg_speed"`
	TrafficLevel string        `json:"traffic_level"`
	Reason       string        `json:"reason"`
	ViaPoint     string        `json:"via_point"`
	BestAltTime  string        `json:"best_alt_time"`
	BestAltSpeed float64       `json:"best_alt_speed"`
	FuelNeeded   float64       `json:"fuel_needed"`
	Efficiency   float64       `json:"efficiency"`
	Primary      RouteSummary  `json:"primary"`
	Alternative  *RouteSummary `json:"alternative"`
	Message      string        `json:"message"`
}

// WeatherWindowRequest is the body of POST /v1/weather:window.
type WeatherWindowRequest struct {
	Destination string `json:"destination"`
	WindowFields
}

// Validate returns field errors for the destination and the window.
func (r WeatherWindowRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Destination == "" {
		errs = append(errs, FieldError{Field: "destination", Message: "required", Code: "REQUIRED"})
	}
	return append(errs, r.WindowFields.Validate()...)
}

// WeatherWindowResponse is the dominant condition over a window.
type WeatherWindowResponse struct {
	Condition     string  `json:"condition"`
	Label         string  `json:"label"`
	Emoji         string  `json:"emoji"`
	Message       string  `json:"message"`
	Image         string  `json:"image"`
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"wind_speed"`
	Humidity      float64 `json:"humidity"`
	HoursAnalyzed int     `json:"hours_analyzed"`
}

// ReverseGeocodeResponse is the locality name at a coordinate.
type ReverseGeocodeResponse struct {
	Name string `json:"name"`
}
