package cmd

import (
	"github.com/spf13/cobra"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Geocode, collect forecasts and crawl hotels in one run",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := bootstrap()
		if err != nil {
			return err
		}
		defer p.logger.Sync()
		ctx := cmd.Context()

		p.logger.Info("Trip planning data collection")
		p.logger.Info("Destinations: %d | Stay: %s -> %s | Parallelism: %d",
			len(p.cfg.Trip.Destinations), p.cfg.Trip.Checkin, p.cfg.Trip.Checkout, p.cfg.Scraper.Parallelism)

		// ================== Geocoding ====================
		destinations, err := p.geocode(ctx)
		if err != nil {
			return err
		}

		// ================== Weather ======================
		rows, err := p.forecasts(ctx, destinations)
		if err != nil {
			return err
		}

		// ================== Hotels =======================
		coord, err := p.newCoordinator(idsByKey(destinations))
		if err != nil {
			return err
		}
		db, err := p.openDatabase(coord.RunID())
		if err != nil {
			return err
		}
		if db != nil {
			if err := db.SaveDestinations(destinations); err != nil {
				p.logger.Error("Failed to store destinations: %v", err)
			}
			if err := db.SaveForecasts(rows); err != nil {
				p.logger.Error("Failed to store forecasts: %v", err)
			}
		}
		return p.crawlHotels(ctx, coord, db)
	},
}
