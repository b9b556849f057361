package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bradcypert/httpspec/packages/core/config"
	"github.com/bradcypert/httpspec/packages/history"
)

var (
	historyDBFlag    string
	historyLimitFlag int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded run outcomes",
	Long: `History lists recent per-file outcomes recorded with --history.
The database path comes from --db or the history entry in httpspec.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := historyDBFlag
		if path == "" {
			fileConfig, err := config.LoadConfig(configFlag)
			if err != nil {
				return err
			}
			path = fileConfig.History
		}
		if path == "" {
			return fmt.Errorf("no history database configured (use --db or httpspec.yaml)")
		}

		store, err := history.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Recent(cmd.Context(), historyLimitFlag)
		if err != nil {
			return err
		}

		for _, rec := range records {
			runID := rec.RunID
			if len(runID) > 8 {
				runID = runID[:8]
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s %-7s %6dms  %s\n",
				rec.At.Format("2006-01-02 15:04:05"), runID, rec.Outcome,
				rec.Duration.Milliseconds(), rec.File)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyDBFlag, "db", "", "Path to the history database")
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", 20, "Maximum records to show")
}
