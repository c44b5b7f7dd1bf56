package cmd

import (
	"github.com/spf13/cobra"
)

var hotelsCmd = &cobra.Command{
	Use:   "hotels",
	Short: "Crawl hotel listings and details for the configured trip",
	Long: `hotels searches the booking site for every configured destination, follows
each hotel to its detail page and writes one row per hotel. Destination ids
come from the destinations file when "geocode" has run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := bootstrap()
		if err != nil {
			return err
		}
		defer p.logger.Sync()

		ids, err := p.destinationIDs()
		if err != nil {
			return err
		}
		coord, err := p.newCoordinator(ids)
		if err != nil {
			return err
		}
		db, err := p.openDatabase(coord.RunID())
		if err != nil {
			return err
		}
		return p.crawlHotels(cmd.Context(), coord, db)
	},
}
