package model

// OpenWeatherCondition is one entry of the provider's "weather" array.
type OpenWeatherCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// OpenWeatherMain holds the readings used from the "main" object.
type OpenWeatherMain struct {
	Temp      *float64 `json:"temp"`
	FeelsLike *float64 `json:"feels_like"`
	Humidity  *int     `json:"humidity"`
}

// OpenWeatherMapResponse is the /weather payload. Nested objects are optional.
type OpenWeatherMapResponse struct {
	Name    string                 `json:"name"`
	Main    *OpenWeatherMain       `json:"main"`
	Weather []OpenWeatherCondition `json:"weather"`
}

// ForecastEntry is one 3-hourly item of the /forecast payload.
type ForecastEntry struct {
	DtTxt   string                 `json:"dt_txt"`
	Main    *OpenWeatherMain       `json:"main"`
	Weather []OpenWeatherCondition `json:"weather"`
}

// ForecastResponse is the /forecast payload. A nil List means the
// response had no list structure at all.
type ForecastResponse struct {
	List []ForecastEntry `json:"list"`
}

func firstCondition(items []OpenWeatherCondition) OpenWeatherCondition {
	if len(items) == 0 {
		return OpenWeatherCondition{}
	}
	return items[0]
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// Conditions flattens the payload. Missing fields become zero values.
func (r *OpenWeatherMapResponse) Conditions() CurrentConditions {
	var main OpenWeatherMain
	if r.Main != nil {
		main = *r.Main
	}
	w := firstCondition(r.Weather)
	return CurrentConditions{
		Name:                 r.Name,
		Temperature:          deref(main.Temp),
		FeelsLike:            deref(main.FeelsLike),
		Humidity:             deref(main.Humidity),
		ConditionMain:        w.Main,
		ConditionDescription: w.Description,
		IconID:               w.Icon,
	}
}

// Samples converts the payload into forecast samples in provider order.
// Entries without a timestamp or a temperature are dropped.
func (r *ForecastResponse) Samples() []ForecastSample {
	if r == nil || r.List == nil {
		return nil
	}
	samples := make([]ForecastSample, 0, len(r.List))
	for _, e := range r.List {
		if e.DtTxt == "" || e.Main == nil || e.Main.Temp == nil {
			continue
		}
		w := firstCondition(e.Weather)
		samples = append(samples, ForecastSample{
			Timestamp:            e.DtTxt,
			Temperature:          *e.Main.Temp,
			ConditionMain:        w.Main,
			ConditionDescription: w.Description,
			IconID:               w.Icon,
		})
	}
	return samples
}
