package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/moodlog/internal/cli"
	"github.com/at-ishikawa/moodlog/internal/client"
	"github.com/at-ishikawa/moodlog/internal/notification"
	"github.com/at-ishikawa/moodlog/internal/validation"
)

// settingsStore reads and writes notification settings either through the server or from local storage.
type settingsStore struct {
	read  func(ctx context.Context) (notification.Settings, error)
	write func(ctx context.Context, settings notification.Settings) error
	close func()
}

func openSettingsStore(ctx context.Context, local bool) (*settingsStore, error) {
	if local {
		_, repos, closeStorage, err := openStorage(ctx)
		if err != nil {
			return nil, err
		}
		return &settingsStore{
			read: repos.Notifications.Read,
			write: func(ctx context.Context, settings notification.Settings) error {
				settings.SavedAt = time.Now().Format(time.RFC3339)
				return repos.Notifications.Write(ctx, settings)
			},
			close: closeStorage,
		}, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	apiClient := client.NewClient(cfg.Client)
	return &settingsStore{
		read: apiClient.GetNotificationSettings,
		write: func(ctx context.Context, settings notification.Settings) error {
			_, err := apiClient.SaveNotificationSettings(ctx, settings)
			return err
		},
		close: func() {
			_ = apiClient.Close()
		},
	}, nil
}

func newNotificationsCommand() *cobra.Command {
	var local bool
	notificationsCmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show or change reminder settings",
	}
	notificationsCmd.PersistentFlags().BoolVar(&local, "local", false, "use the configured storage instead of calling the server")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show reminder settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSettingsStore(cmd.Context(), local)
			if err != nil {
				return err
			}
			defer store.close()

			settings, err := store.read(cmd.Context())
			if err != nil {
				return fmt.Errorf("read notification settings > %w", err)
			}
			cli.RenderSettings(cmd.OutOrStdout(), settings)
			return nil
		},
	}

	var enabled bool
	var times []string
	var frequency int
	var theme string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change reminder settings; flags that are not given keep their value",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSettingsStore(cmd.Context(), local)
			if err != nil {
				return err
			}
			defer store.close()

			settings, err := store.read(cmd.Context())
			if err != nil {
				return fmt.Errorf("read notification settings > %w", err)
			}
			flags := cmd.Flags()
			if flags.Changed("enabled") {
				settings.Enabled = enabled
			}
			if flags.Changed("time") {
				settings.Times = times
			}
			if flags.Changed("frequency") {
				settings.Frequency = frequency
			}
			if flags.Changed("theme") {
				settings.Theme = theme
			}

			v, err := validation.New()
			if err != nil {
				return fmt.Errorf("validation.New() > %w", err)
			}
			if err := v.Struct(settings); err != nil {
				return fmt.Errorf("invalid notification settings: %w", err)
			}

			if err := store.write(cmd.Context(), settings); err != nil {
				return fmt.Errorf("write notification settings > %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Notification settings saved!")
			return nil
		},
	}
	setCmd.Flags().BoolVar(&enabled, "enabled", true, "enable reminders")
	setCmd.Flags().StringSliceVar(&times, "time", nil, "reminder time of day (HH:MM); repeat or separate with commas")
	setCmd.Flags().IntVar(&frequency, "frequency", 0, "number of reminder times used per day; 0 uses all")
	setCmd.Flags().StringVar(&theme, "theme", "", "reminder message theme: positive, calm or motivational")

	notificationsCmd.AddCommand(showCmd, setCmd)
	return notificationsCmd
}
