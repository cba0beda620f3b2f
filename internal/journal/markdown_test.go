package journal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/moodlog/internal/mood"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		records []mood.Record
		want    string
	}{
		{
			name: "days are ordered and labelled with the dominant mood",
			entries: []Entry{
				{Date: "2024-05-02", Text: "rainy", Timestamp: "2024-05-02 21:00:00"},
				{Date: "2024-05-01", Text: "evening", Timestamp: "2024-05-01 22:00:00"},
				{Date: "2024-05-01", Text: "morning", Timestamp: "2024-05-01 07:00:00"},
			},
			records: []mood.Record{
				{Stamp: "2024-05-01 08:00", Mood: mood.Sad},
				{Stamp: "2024-05-01 12:00", Mood: mood.Calm},
				{Stamp: "2024-05-01 18:00", Mood: mood.Calm},
				{Stamp: "2024-05-03 09:00", Mood: mood.Happy},
			},
			want: "# My journal\n" +
				"\n## 2024-05-01 (calm)\n" +
				"\n> 2024-05-01 07:00:00\n\nmorning\n" +
				"\n> 2024-05-01 22:00:00\n\nevening\n" +
				"\n## 2024-05-02\n" +
				"\n> 2024-05-02 21:00:00\n\nrainy\n" +
				"\n",
		},
		{
			name: "no entries",
			records: []mood.Record{
				{Stamp: "2024-05-01 08:00", Mood: mood.Sad},
			},
			want: "# My journal\n\n_No journal entries yet._\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderMarkdown(&buf, "", "My journal", tt.entries, tt.records))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	t.Run("input order is kept", func(t *testing.T) {
		entries := []Entry{
			{Date: "2024-05-02", Text: "b", Timestamp: "2024-05-02 21:00:00"},
			{Date: "2024-05-01", Text: "a", Timestamp: "2024-05-01 22:00:00"},
		}
		require.NoError(t, RenderMarkdown(&bytes.Buffer{}, "", "j", entries, nil))
		assert.Equal(t, "b", entries[0].Text)
	})
}

func TestPlainQuotes(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			name:     "bold inside a quote",
			markdown: "> 2024-05-01 20:00:00 **late**\n",
			want:     "> 2024-05-01 20:00:00 late\n",
		},
		{
			name:     "bold outside quotes is kept",
			markdown: "**keep**\n> a **b** c\n",
			want:     "**keep**\n> a b c\n",
		},
		{name: "no quotes", markdown: "# Journal\n", want: "# Journal\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(PlainQuotes([]byte(tt.markdown))))
		})
	}
}
