package cmd

import (
	"github.com/spf13/cobra"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Resolve the configured destinations to coordinates",
	Long: `geocode resolves every trip destination through Nominatim and writes the
destinations file. With a database configured, rows are stored under run.id
(RUN_ID). When run.id is unset each invocation gets a new run id, and its rows
cannot be joined to a later weather or hotels run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := bootstrap()
		if err != nil {
			return err
		}
		defer p.logger.Sync()

		destinations, err := p.geocode(cmd.Context())
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
		return db.SaveDestinations(destinations)
	},
}
