package cmd

import (
	"github.com/spf13/cobra"
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Collect weather forecasts for the geocoded destinations",
	Long: `weather reads the destinations file written by "geocode" and collects the
5 day / 3 hour OpenWeatherMap forecast for each destination.
OPENWEATHER_API_KEY must be set. Rows are stored under run.id (RUN_ID) when set,
otherwise under a new run id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := bootstrap()
		if err != nil {
			return err
		}
		defer p.logger.Sync()

		destinations, err := p.loadDestinations()
		if err != nil {
			return err
		}
		rows, err := p.forecasts(cmd.Context(), destinations)
		if err != nil {
			return err
		}

		db, err := p.openDatabase(p.runID())
		if err != nil {
			return err
		}
		if db == nil {
			return nil
		}
		defer db.Close()
		return db.SaveForecasts(rows)
	},
}
