package cli

import (
	"encoding/json"
	"io"

	"github.com/fakhrymubarak/city-weather/internal/service"
	"github.com/spf13/cobra"
)

// app carries the service shared by every subcommand. svc is built on first use.
type app struct {
	svc service.WeatherServiceInterface
}

func (a *app) service() service.WeatherServiceInterface {
	if a.svc == nil {
		a.svc = service.NewWeatherService(nil, nil)
	}
	return a.svc
}

// NewRootCommand builds the city-weather command tree. A nil svc is built from config.
func NewRootCommand(svc service.WeatherServiceInterface) *cobra.Command {
	a := &app{svc: svc}
	rootCmd := &cobra.Command{
		Use:           "city-weather",
		Short:         "Current weather and daily forecasts for named places",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		newServeCommand(a),
		newCurrentCommand(a),
		newForecastCommand(a),
		newGeocodeCommand(a),
	)
	return rootCmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
