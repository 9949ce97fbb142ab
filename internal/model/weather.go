package model

import "fmt"

const iconURLFormat = "https://openweathermap.org/img/wn/%s@2x.png"

// Place is a resolved query. It is immutable once built and is what the geocode cache stores.
type Place struct {
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
	SourceType  string  `json:"type"`
}

// CurrentConditions is the current weather at one place.
type CurrentConditions struct {
	Name                 string  `json:"name,omitempty"`
	Temperature          float64 `json:"temperature"`
	FeelsLike            float64 `json:"feels_like"`
	Humidity             int     `json:"humidity"`
	ConditionMain        string  `json:"condition"`
	ConditionDescription string  `json:"description"`
	IconID               string  `json:"icon"`
}

// IconURL returns the provider's 2x icon image, or "" when there is no icon.
func (c CurrentConditions) IconURL() string {
	if c.IconID == "" {
		return ""
	}
	return fmt.Sprintf(iconURLFormat, c.IconID)
}

// ForecastSample is one raw forecast reading. Timestamp is "YYYY-MM-DD HH:MM:SS".
type ForecastSample struct {
	Timestamp            string  `json:"timestamp"`
	Temperature          float64 `json:"temperature"`
	ConditionMain        string  `json:"condition"`
	ConditionDescription string  `json:"description"`
	IconID               string  `json:"icon"`
}

// DailyDigest summarizes all samples of one calendar date.
type DailyDigest struct {
	Date                    string `json:"date"`
	TempMax                 int    `json:"temp_max"`
	TempMin                 int    `json:"temp_min"`
	RepresentativeCondition string `json:"condition"`
	IconID                  string `json:"icon"`
	Description             string `json:"description"`
}

// Detail is everything the detail view shows for one city.
type Detail struct {
	Query   string            `json:"query"`
	Place   Place             `json:"place"`
	Current CurrentConditions `json:"current"`
	IconURL string            `json:"icon_url,omitempty"`
	Daily   []DailyDigest     `json:"daily"`
	Theme   string            `json:"theme"`
}

// CityStatus tags the outcome of one city in a batch.
type CityStatus string

const (
	CityStatusOK          CityStatus = "ok"
	CityStatusUnavailable CityStatus = "unavailable"
)

// CityResult is the per-city outcome of a batch lookup.
type CityResult struct {
	City       string             `json:"city"`
	Status     CityStatus         `json:"status"`
	Conditions *CurrentConditions `json:"conditions,omitempty"`
	IconURL    string             `json:"icon_url,omitempty"`
	Error      string             `json:"error,omitempty"`
	ErrorKind  string             `json:"error_kind,omitempty"`
	Err        error              `json:"-"`
}

// BatchResult holds one result per requested city, in request order.
type BatchResult struct {
	Results   []CityResult `json:"results"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

// AllFailed reports a batch with no usable result.
func (b BatchResult) AllFailed() bool {
	return b.Succeeded == 0
}
