package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastResponse_Samples(t *testing.T) {
	raw := `{"list":[
		{"dt_txt":"2024-01-01 00:00:00","main":{"temp":1.5},"weather":[{"main":"Clear","description":"clear sky","icon":"01n"}]},
		{"dt_txt":"2024-01-01 03:00:00","main":{},"weather":[{"main":"Rain"}]},
		{"dt_txt":"","main":{"temp":3}},
		{"dt_txt":"2024-01-01 06:00:00","main":{"temp":-2}}
	]}`
	var resp ForecastResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	samples := resp.Samples()
	require.Len(t, samples, 2)
	assert.Equal(t, ForecastSample{
		Timestamp:            "2024-01-01 00:00:00",
		Temperature:          1.5,
		ConditionMain:        "Clear",
		ConditionDescription: "clear sky",
		IconID:               "01n",
	}, samples[0])
	assert.Equal(t, -2.0, samples[1].Temperature)
	assert.Empty(t, samples[1].ConditionMain)
}

func TestForecastResponse_SamplesWithoutList(t *testing.T) {
	var resp ForecastResponse
	require.NoError(t, json.Unmarshal([]byte(`{"cod":"200"}`), &resp))
	assert.Nil(t, resp.Samples())

	var nilResp *ForecastResponse
	assert.Nil(t, nilResp.Samples())
}

func TestOpenWeatherMapResponse_Conditions(t *testing.T) {
	raw := `{"name":"Seoul","main":{"temp":17.3,"feels_like":16.9,"humidity":62},"weather":[{"main":"Clouds","description":"broken clouds","icon":"04d"}]}`
	var resp OpenWeatherMapResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	c := resp.Conditions()
	assert.Equal(t, "Seoul", c.Name)
	assert.Equal(t, 17.3, c.Temperature)
	assert.Equal(t, 16.9, c.FeelsLike)
	assert.Equal(t, 62, c.Humidity)
	assert.Equal(t, "Clouds", c.ConditionMain)
	assert.Equal(t, "https://openweathermap.org/img/wn/04d@2x.png", c.IconURL())
}

func TestOpenWeatherMapResponse_FullPayload(t *testing.T) {
	raw := `{"coord":{"lon":126.98,"lat":37.57},
		"weather":[{"id":803,"main":"Clouds","description":"튼구름","icon":"04d"}],
		"main":{"temp":17.3,"feels_like":16.9,"temp_min":16,"temp_max":18.2,"pressure":1015,"humidity":62},
		"name":"Seoul","cod":200}`
	var resp OpenWeatherMapResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	assert.Equal(t, CurrentConditions{
		Name:                 "Seoul",
		Temperature:          17.3,
		FeelsLike:            16.9,
		Humidity:             62,
		ConditionMain:        "Clouds",
		ConditionDescription: "튼구름",
		IconID:               "04d",
	}, resp.Conditions())
}

func TestOpenWeatherMapResponse_ConditionsMissingFields(t *testing.T) {
	var resp OpenWeatherMapResponse
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Nowhere"}`), &resp))

	c := resp.Conditions()
	assert.Equal(t, CurrentConditions{Name: "Nowhere"}, c)
	assert.Empty(t, c.IconURL())
}

func TestBatchResult_AllFailed(t *testing.T) {
	assert.True(t, BatchResult{Failed: 3}.AllFailed())
	assert.False(t, BatchResult{Succeeded: 1, Failed: 2}.AllFailed())
}
