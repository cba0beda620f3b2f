package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/moodlog/internal/cli"
	"github.com/at-ishikawa/moodlog/internal/client"
	"github.com/at-ishikawa/moodlog/internal/statistics"
)

func newStatsCommand() *cobra.Command {
	var filter statistics.Filter
	var local bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show mood statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			filter.HasEndDate = cmd.Flags().Changed("end")
			var result statistics.Result
			if local {
				_, repos, closeStorage, err := openStorage(ctx)
				if err != nil {
					return err
				}
				defer closeStorage()

				records, err := repos.Moods.FindAll(ctx)
				if err != nil {
					return fmt.Errorf("repos.Moods.FindAll() > %w", err)
				}
				result = statistics.Aggregate(records, filter, time.Now())
			} else {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				apiClient := client.NewClient(cfg.Client)
				defer func() {
					_ = apiClient.Close()
				}()

				result, err = apiClient.GetStatistics(ctx, filter)
				if err != nil {
					return fmt.Errorf("apiClient.GetStatistics() > %w", err)
				}
			}

			cli.RenderStatistics(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Period, "period", statistics.DefaultPeriod, "period label: week, month, year or all")
	cmd.Flags().StringVar(&filter.StartDate, "start", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.EndDate, "end", "", "last date to include (YYYY-MM-DD), defaults to today; an empty value removes the bound")
	cmd.Flags().BoolVar(&local, "local", false, "read the configured storage instead of calling the server")
	return cmd
}
