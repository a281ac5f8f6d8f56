package tomtom

// calculateRouteResponse is the subset of the calculateRoute response the client reads.
type calculateRouteResponse struct {
	Routes []ttRoute `json:"routes"`
}

type ttRoute struct {
	Summary ttSummary `json:"summary"`
	Legs    []ttLeg   `json:"legs"`
}

type ttSummary struct {
	LengthInMeters               int    `json:"lengthInMeters"`
	TravelTimeInSeconds          int    `json:"travelTimeInSeconds"`
	NoTrafficTravelTimeInSeconds int    `json:"noTrafficTravelTimeInSeconds"`
	TrafficDelayInSeconds        int    `json:"trafficDelayInSeconds"`
	DepartureTime                string `json:"departureTime"`
}

type ttLeg struct {
	Points []ttPoint `json:"points"`
}

type ttPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// errorResponse is the TomTom routing error envelope.
type errorResponse struct {
	FormatVersion string `json:"formatVersion"`
	Error         struct {
		Description string `json:"description"`
	} `json:"error"`
	DetailedError struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"detailedError"`
}

// Detailed error codes that mean the request was understood but no route exists.
const (
	errorCodeNoRouteFound       = "NO_ROUTE_FOUND"
	errorCodeMapMatchingFailure = "MAP_MATCHING_FAILURE"
)
