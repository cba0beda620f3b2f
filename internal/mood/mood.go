// Package mood provides the mood record model and its repositories.
package mood

import (
	"fmt"
	"strings"
	"time"
)

// Mood is one of the fixed mood labels a user can log.
type Mood string

const (
	Happy Mood = "happy"
	Sad   Mood = "sad"
	Angry Mood = "angry"
	Calm  Mood = "calm"
)

const (
	// StampLayout is the layout of a record stamp, minute precision.
	StampLayout = "2006-01-02 15:04"
	// DateLayout is the canonical calendar date layout.
	DateLayout = "2006-01-02"
)

// All lists every mood in the order they are offered to the user.
var All = []Mood{Happy, Sad, Angry, Calm}

// PriorityOrder decides the dominant mood of a day when counts tie.
// An earlier mood wins over a later one.
var PriorityOrder = []Mood{Happy, Calm, Sad, Angry}

var messages = map[Mood]string{
	Happy: "Happiness is being understood, great happiness is being loved, and true happiness is loving someone yourself.",
	Sad:   "When you feel low, listen to nature. The quiet of the world soothes better than a million needless words.",
	Angry: "When anger rises, think of the consequences.",
	Calm:  "Whatever you can accept calmly no longer controls you.",
}

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	_, ok := messages[m]
	return ok
}

// Message returns the encouraging quote shown after the mood is saved.
func (m Mood) Message() string {
	return messages[m]
}

func (m Mood) String() string {
	return string(m)
}

// Parse converts a raw label into a Mood.
func Parse(s string) (Mood, error) {
	m := Mood(strings.TrimSpace(s))
	if !m.Valid() {
		return "", fmt.Errorf("invalid mood %q, valid values are %s", s, joinMoods(All))
	}
	return m, nil
}

func joinMoods(moods []Mood) string {
	names := make([]string, len(moods))
	for i, m := range moods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// Record is a single logged mood.
type Record struct {
	ID    int64  `db:"id" json:"-" yaml:"id,omitempty"`
	Stamp string `db:"stamp" json:"stamp" yaml:"stamp"`
	Mood  Mood   `db:"mood" json:"mood" yaml:"mood"`
}

// NewRecord creates a record stamped with now.
func NewRecord(m Mood, now time.Time) Record {
	return Record{
		Stamp: now.Format(StampLayout),
		Mood:  m,
	}
}

// Date returns the calendar date portion of the stamp.
// ok is false when the stamp has no parseable date.
func (r Record) Date() (time.Time, bool) {
	return ParseDate(r.Stamp)
}

// looseDateLayout also accepts month and day without zero padding.
const looseDateLayout = "2006-1-2"

// ParseDate parses the leading YYYY-MM-DD part of s.
// Month and day may omit the leading zero. Anything after the first whitespace is ignored.
func ParseDate(s string) (time.Time, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, fields[0])
	if err == nil {
		return t, true
	}
	t, err = time.Parse(looseDateLayout, fields[0])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
