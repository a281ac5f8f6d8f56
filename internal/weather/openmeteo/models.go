package openmeteo

// forecastResponse is the subset of the /v1/forecast response the client reads.
type forecastResponse struct {
	Latitude             float64     `json:"latitude"`
	Longitude            float64     `json:"longitude"`
	UTCOffsetSeconds     int         `json:"utc_offset_seconds"`
	Timezone             string      `json:"timezone"`
	TimezoneAbbreviation string      `json:"timezone_abbreviation"`
	Hourly               hourlyBlock `json:"hourly"`
	HourlyUnits          hourlyUnits `json:"hourly_units"`
}

// hourlyBlock holds parallel arrays indexed by hour. Values can be null.
type hourlyBlock struct {
	Time             []string   `json:"time"`
	Temperature      []*float64 `json:"temperature_2m"`
	WeatherCode      []*int     `json:"weather_code"`
	WindSpeed        []*float64 `json:"wind_speed_10m"`
	RelativeHumidity []*float64 `json:"relative_humidity_2m"`
}

type hourlyUnits struct {
	Temperature string `json:"temperature_2m"`
	WindSpeed   string `json:"wind_speed_10m"`
}

// errorResponse is the Open-Meteo error envelope.
type errorResponse struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}
