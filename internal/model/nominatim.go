package model

// NominatimResult is one candidate of a jsonv2 search response.
// Coordinates arrive as decimal strings.
type NominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
	Type        string `json:"type"`
}
