package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/moodlog/internal/client"
	"github.com/at-ishikawa/moodlog/internal/mood"
)

// MoodFlag accepts one of the known moods.
type MoodFlag mood.Mood

// Set implements pflag.Value.
func (m *MoodFlag) Set(v string) error {
	parsed, err := mood.Parse(v)
	if err != nil {
		return err
	}
	*m = MoodFlag(parsed)
	return nil
}

// String implements pflag.Value.
func (m *MoodFlag) String() string {
	if m == nil {
		return ""
	}
	return string(*m)
}

// Type implements pflag.Value.
func (m *MoodFlag) Type() string {
	return "MoodFlag"
}

var (
	_ pflag.Value = (*MoodFlag)(nil)
)

func newMoodCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "mood <happy|sad|angry|calm>",
		Short:     "Record how you feel right now",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"happy", "sad", "angry", "calm"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var m MoodFlag
			if err := m.Set(args[0]); err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			apiClient := client.NewClient(cfg.Client)
			defer func() {
				_ = apiClient.Close()
			}()

			quote, err := apiClient.SaveMood(cmd.Context(), mood.Mood(m))
			if err != nil {
				return fmt.Errorf("apiClient.SaveMood() > %w", err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Saved %s.\n", m.String())
			fmt.Fprintln(cmd.OutOrStdout(), quote)
			return nil
		},
	}
}
