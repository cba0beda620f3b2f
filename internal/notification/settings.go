// Package notification provides reminder notification settings and their repositories.
package notification

import "time"

// TimeOfDayLayout is the layout of a reminder time.
const TimeOfDayLayout = "15:04"

// Settings controls when and how reminders are shown.
type Settings struct {
	Enabled   bool     `json:"enabled" yaml:"enabled"`
	Times     []string `json:"times" yaml:"times" validate:"max=24,dive,datetime=15:04"`
	Frequency int      `json:"frequency" yaml:"frequency" validate:"min=0,max=24"`
	Theme     string   `json:"theme" yaml:"theme" validate:"max=64"`
	SavedAt   string   `json:"savedAt,omitempty" yaml:"saved_at,omitempty"`
}

// DefaultSettings returns the settings used before the user saves any.
func DefaultSettings(now time.Time) Settings {
	return Settings{
		Enabled:   true,
		Times:     []string{"09:00", "12:00", "18:00"},
		Frequency: 3,
		Theme:     "positive",
		SavedAt:   now.Format(time.RFC3339),
	}
}

// ActiveTimes returns the reminder times in effect.
// Only the first Frequency times are used; a zero Frequency uses them all.
func (s Settings) ActiveTimes() []string {
	if s.Frequency <= 0 || s.Frequency >= len(s.Times) {
		return s.Times
	}
	return s.Times[:s.Frequency]
}
