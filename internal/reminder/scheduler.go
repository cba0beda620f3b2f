// Package reminder shows mood check-in reminders at the configured times of day.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/at-ishikawa/moodlog/internal/mood"
	"github.com/at-ishikawa/moodlog/internal/notification"
)

const (
	// DefaultTheme is used when the settings name a theme without messages.
	DefaultTheme = "positive"

	title = "How are you feeling?"
)

var themes = map[string][]string{
	"positive": {
		"Take a moment to notice something good about today.",
		"You are doing better than you think. How do you feel right now?",
		"A small pause for yourself: log your mood.",
	},
	"calm": {
		"Breathe in, breathe out. How is your mood?",
		"Slow down for a minute and check in with yourself.",
	},
	"motivational": {
		"Every check-in helps you understand yourself better.",
		"Keep the streak going: record how you feel.",
	},
}

// Messages returns the reminder messages of theme, falling back to DefaultTheme.
func Messages(theme string) []string {
	if messages, ok := themes[theme]; ok {
		return messages
	}
	return themes[DefaultTheme]
}

// Scheduler fires a notification at each active reminder time, at most once per time and day.
type Scheduler struct {
	mu       sync.Mutex
	settings notification.Settings
	notifier Notifier
	window   time.Duration
	now      func() time.Time
	// fired maps a reminder time to the date it last fired on.
	fired map[string]string
	sent  int
}

// NewScheduler creates a Scheduler. A reminder is due from its time until window has passed.
func NewScheduler(settings notification.Settings, notifier Notifier, window time.Duration) *Scheduler {
	return &Scheduler{
		settings: settings,
		notifier: notifier,
		window:   window,
		now:      time.Now,
		fired:    make(map[string]string),
	}
}

// SetSettings replaces the settings used by the next tick.
func (s *Scheduler) SetSettings(settings notification.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// Tick fires every reminder due at now.
func (s *Scheduler) Tick(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.settings.Enabled {
		return nil
	}

	today := now.Format(mood.DateLayout)
	messages := Messages(s.settings.Theme)
	var errs []error
	for _, at := range s.settings.ActiveTimes() {
		clock, err := time.ParseInLocation(notification.TimeOfDayLayout, at, now.Location())
		if err != nil {
			slog.Default().Warn("skip an invalid reminder time", "time", at, "error", err)
			continue
		}
		due := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
		if now.Before(due) || now.Sub(due) >= s.window || s.fired[at] == today {
			continue
		}

		s.fired[at] = today
		message := messages[s.sent%len(messages)]
		s.sent++
		if err := s.notifier.Notify(title, message); err != nil {
			errs = append(errs, fmt.Errorf("notifier.Notify(%s) > %w", at, err))
			continue
		}
		slog.Default().Info("sent a reminder", "time", at)
	}
	return errors.Join(errs...)
}

// Run ticks every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.Tick(s.now()); err != nil {
			slog.Default().Error("failed to send a reminder", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
