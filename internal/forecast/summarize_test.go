package forecast

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/fakhrymubarak/city-weather/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(ts string, temp float64, main string) model.ForecastSample {
	return model.ForecastSample{
		Timestamp:            ts,
		Temperature:          temp,
		ConditionMain:        main,
		ConditionDescription: "desc " + main,
		IconID:               "icon-" + main,
	}
}

func twoDayForecast() []model.ForecastSample {
	day1Temps := []float64{1, 3, 5, 7, 2, 4, 6, 8}
	day1Conds := []string{"Clear", "Rain", "Clear", "Rain", "Clear", "Rain", "Clear", "Clear"}
	day2Temps := []float64{-3.4, -1.2, 0.6, 2.5, 1.1, -0.4, -2.6, -4.5}
	day2Conds := []string{"Snow", "Snow", "Clouds", "Clouds", "Clouds", "Snow", "Snow", "Clouds"}

	var out []model.ForecastSample
	for i := range day1Temps {
		out = append(out, sample(fmt.Sprintf("2024-01-01 %02d:00:00", i*3), day1Temps[i], day1Conds[i]))
	}
	for i := range day2Temps {
		out = append(out, sample(fmt.Sprintf("2024-01-02 %02d:00:00", i*3), day2Temps[i], day2Conds[i]))
	}
	return out
}

func TestSummarize_TwoDays(t *testing.T) {
	digests := Summarize(twoDayForecast(), 5)
	require.Len(t, digests, 2)

	assert.Equal(t, model.DailyDigest{
		Date:                    "2024-01-01",
		TempMax:                 8,
		TempMin:                 1,
		RepresentativeCondition: "Clear",
		IconID:                  "icon-Clear",
		Description:             "desc Clear",
	}, digests[0])

	// Snow and Clouds both occur four times; Snow is seen first.
	assert.Equal(t, "2024-01-02", digests[1].Date)
	assert.Equal(t, 3, digests[1].TempMax)
	assert.Equal(t, -4, digests[1].TempMin)
	assert.Equal(t, "Snow", digests[1].RepresentativeCondition)
}

func TestSummarize_TieGoesToFirstSeen(t *testing.T) {
	samples := []model.ForecastSample{
		sample("2024-03-10 00:00:00", 10, "Clouds"),
		sample("2024-03-10 03:00:00", 11, "Rain"),
		sample("2024-03-10 06:00:00", 12, "Rain"),
		sample("2024-03-10 09:00:00", 13, "Clouds"),
	}
	digests := Summarize(samples, 5)
	require.Len(t, digests, 1)
	assert.Equal(t, "Clouds", digests[0].RepresentativeCondition)
	assert.Equal(t, "icon-Clouds", digests[0].IconID)
}

func TestSummarize_IconFromFirstMatchingSample(t *testing.T) {
	samples := []model.ForecastSample{
		{Timestamp: "2024-03-10 00:00:00", Temperature: 1, ConditionMain: "Clear", IconID: "01n", ConditionDescription: "clear sky"},
		{Timestamp: "2024-03-10 03:00:00", Temperature: 2, ConditionMain: "Rain", IconID: "10n", ConditionDescription: "light rain"},
		{Timestamp: "2024-03-10 06:00:00", Temperature: 3, ConditionMain: "Rain", IconID: "10d", ConditionDescription: "moderate rain"},
	}
	d := Summarize(samples, 1)[0]
	assert.Equal(t, "Rain", d.RepresentativeCondition)
	assert.Equal(t, "10n", d.IconID)
	assert.Equal(t, "light rain", d.Description)
}

func TestSummarize_MaxDaysCaps(t *testing.T) {
	var samples []model.ForecastSample
	for d := 1; d <= 6; d++ {
		for h := 0; h < 24; h += 3 {
			samples = append(samples, sample(fmt.Sprintf("2024-05-%02d %02d:00:00", d, h), float64(d), "Clear"))
		}
	}

	digests := Summarize(samples, 5)
	require.Len(t, digests, 5)
	for i, d := range digests {
		assert.Equal(t, fmt.Sprintf("2024-05-%02d", i+1), d.Date)
	}

	assert.Len(t, Summarize(samples, 1), 1)
	assert.Len(t, Summarize(samples, 10), 6)
}

func TestSummarize_KeepsFirstSeenDateOrder(t *testing.T) {
	samples := []model.ForecastSample{
		sample("2024-01-03 00:00:00", 1, "Clear"),
		sample("2024-01-01 00:00:00", 2, "Clear"),
		sample("2024-01-03 03:00:00", 3, "Clear"),
	}
	digests := Summarize(samples, 5)
	require.Len(t, digests, 2)
	assert.Equal(t, "2024-01-03", digests[0].Date)
	assert.Equal(t, 3, digests[0].TempMax)
	assert.Equal(t, "2024-01-01", digests[1].Date)
}

func TestSummarize_EmptyInputs(t *testing.T) {
	assert.Empty(t, Summarize(nil, 5))
	assert.NotNil(t, Summarize(nil, 5))
	assert.Empty(t, Summarize([]model.ForecastSample{}, 5))
	assert.Empty(t, Summarize(twoDayForecast(), 0))
	assert.Empty(t, Summarize(twoDayForecast(), -1))
	assert.Empty(t, Summarize([]model.ForecastSample{{Timestamp: "", Temperature: 3}}, 5))
}

func TestSummarizeResponse_Malformed(t *testing.T) {
	for _, raw := range []string{`{}`, `{"list":null}`, `{"cod":"404","message":"not found"}`} {
		var resp model.ForecastResponse
		require.NoError(t, json.Unmarshal([]byte(raw), &resp))
		assert.Empty(t, SummarizeResponse(&resp, 5), raw)
	}
	assert.Empty(t, SummarizeResponse(nil, 5))
}

func TestSummarizeResponse_DropsIncompleteEntries(t *testing.T) {
	raw := `{"list":[
		{"dt_txt":"2024-01-01 00:00:00","main":{"temp":4.4},"weather":[{"main":"Clear","icon":"01n"}]},
		{"dt_txt":"2024-01-01 03:00:00","weather":[{"main":"Rain"}]},
		{"main":{"temp":40}}
	]}`
	var resp model.ForecastResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	digests := SummarizeResponse(&resp, 5)
	require.Len(t, digests, 1)
	assert.Equal(t, 4, digests[0].TempMax)
	assert.Equal(t, "Clear", digests[0].RepresentativeCondition)
}

func TestRound(t *testing.T) {
	tests := map[float64]int{
		0.4:  0,
		0.5:  1,
		2.5:  3,
		-0.4: 0,
		-2.5: -2,
		-2.6: -3,
		7.49: 7,
	}
	for in, want := range tests {
		assert.Equal(t, want, round(in), "round(%v)", in)
	}
}

func TestSummarize_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	conditions := []string{"Clear", "Clouds", "Rain", "Snow"}

	for iter := 0; iter < 200; iter++ {
		var samples []model.ForecastSample
		days := 1 + rng.Intn(7)
		for d := 0; d < days; d++ {
			for n := 1 + rng.Intn(8); n > 0; n-- {
				ts := fmt.Sprintf("2024-02-%02d %02d:00:00", d+1, rng.Intn(24))
				samples = append(samples, sample(ts, rng.Float64()*60-30, conditions[rng.Intn(len(conditions))]))
			}
		}
		maxDays := rng.Intn(8)

		digests := Summarize(samples, maxDays)
		assert.LessOrEqual(t, len(digests), maxDays)
		assert.LessOrEqual(t, len(digests), days)

		for _, d := range digests {
			hi, lo := math.Inf(-1), math.Inf(1)
			for _, s := range samples {
				if dateOf(s.Timestamp) == d.Date {
					hi = math.Max(hi, s.Temperature)
					lo = math.Min(lo, s.Temperature)
				}
			}
			assert.GreaterOrEqual(t, d.TempMax, d.TempMin)
			assert.Equal(t, round(hi), d.TempMax)
			assert.Equal(t, round(lo), d.TempMin)
		}
	}
}
