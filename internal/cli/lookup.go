package cli

import (
	"github.com/fakhrymubarak/city-weather/internal/model"
	"github.com/spf13/cobra"
)

func newCurrentCommand(a *app) *cobra.Command {
	var direct bool
	cmd := &cobra.Command{
		Use:   "current <city>",
		Short: "Print current conditions for a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				current *model.CurrentConditions
				err     error
			)
			if direct {
				current, err = a.service().CurrentByName(cmd.Context(), args[0])
			} else {
				current, err = a.service().CurrentByNameWithFallback(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), current)
		},
	}
	cmd.Flags().BoolVar(&direct, "direct", false, "let the weather provider resolve the name instead of geocoding it")
	return cmd
}

func newForecastCommand(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "forecast <city>",
		Short: "Print current conditions and a daily forecast digest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := a.service().Detail(cmd.Context(), args[0], days)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), detail)
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "number of days to summarize (0 uses forecast.max_days)")
	return cmd
}

func newGeocodeCommand(a *app) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "geocode <query>",
		Short: "Resolve a place name to coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			place, err := a.service().Resolve(cmd.Context(), args[0], lang)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), place)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "accept-language for the geocoder (defaults to nominatim.language)")
	return cmd
}
