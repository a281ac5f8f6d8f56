package tomtom

// searchResponse is the subset of the fuzzy search response the client reads.
type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Position struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"position"`
	Address struct {
		FreeformAddress string `json:"freeformAddress"`
	} `json:"address"`
}

// reverseResponse is the subset of the reverse geocode response the client reads.
type reverseResponse struct {
	Addresses []struct {
		Address struct {
			MunicipalitySubdivision string `json:"municipalitySubdivision"`
			Neighbourhood           string `json:"neighbourhood"`
			Municipality            string `json:"municipality"`
			StreetName              string `json:"streetName"`
		} `json:"address"`
	} `json:"addresses"`
}
