package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"

	"github.com/at-ishikawa/moodlog/internal/config"
	"github.com/at-ishikawa/moodlog/internal/journal"
	"github.com/at-ishikawa/moodlog/internal/mood"
	"github.com/at-ishikawa/moodlog/internal/notification"
	"github.com/at-ishikawa/moodlog/internal/server"
	"github.com/at-ishikawa/moodlog/internal/statistics"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := &Client{
		httpClient:       resty.New().SetBaseURL(srv.URL),
		maxRetryAttempts: 2,
		retryDelay:       time.Millisecond,
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, &calls
}

func writeBody(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestClient_SaveMood(t *testing.T) {
	tests := []struct {
		name      string
		handler   func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request)
		wantQuote string
		wantErr   string
		wantCalls int32
	}{
		{
			name: "success",
			handler: func(t *testing.T, _ int32, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/save", r.URL.Path)
				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, map[string]string{"mood": "calm"}, body)
				writeBody(t, w, http.StatusOK, map[string]string{"message": "stay calm"})
			},
			wantQuote: "stay calm",
			wantCalls: 1,
		},
		{
			name: "client error is not retried",
			handler: func(t *testing.T, _ int32, w http.ResponseWriter, _ *http.Request) {
				writeBody(t, w, http.StatusBadRequest, map[string]string{"message": "Invalid mood"})
			},
			wantErr:   "response error 400: Invalid mood",
			wantCalls: 1,
		},
		{
			name: "server error is retried",
			handler: func(t *testing.T, calls int32, w http.ResponseWriter, _ *http.Request) {
				if calls == 1 {
					writeBody(t, w, http.StatusInternalServerError, map[string]any{"success": false, "message": "internal error"})
					return
				}
				writeBody(t, w, http.StatusOK, map[string]string{"message": "stay calm"})
			},
			wantQuote: "stay calm",
			wantCalls: 2,
		},
		{
			name: "gives up after the retry attempts",
			handler: func(t *testing.T, _ int32, w http.ResponseWriter, _ *http.Request) {
				writeBody(t, w, http.StatusServiceUnavailable, map[string]any{"success": false, "message": "internal error"})
			},
			wantErr:   "response error 503: internal error",
			wantCalls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var client *Client
			var calls *atomic.Int32
			client, calls = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				tt.handler(t, calls.Load(), w, r)
			})

			got, err := client.SaveMood(context.Background(), mood.Calm)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantQuote, got)
			}
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestClient_GetStatistics(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/statistics", r.URL.Path)
		assert.Equal(t, "month", r.URL.Query().Get("period"))
		assert.Equal(t, "2024-04-01", r.URL.Query().Get("start_date"))
		assert.False(t, r.URL.Query().Has("end_date"))
		_, _ = w.Write([]byte(`{"success":true,"statistics":{
			"counts":{"happy":1,"calm":0,"sad":0,"angry":0},
			"percentages":{"happy":100,"calm":0,"sad":0,"angry":0},
			"total":1,
			"daily_data":[{"date":"2024-04-02","mood":"happy","count":1}],
			"period":"month"}}`))
	})

	got, err := client.GetStatistics(context.Background(), statistics.Filter{Period: "month", StartDate: "2024-04-01"})
	require.NoError(t, err)
	assert.Equal(t, statistics.Result{
		Counts:      map[mood.Mood]int{mood.Happy: 1, mood.Calm: 0, mood.Sad: 0, mood.Angry: 0},
		Percentages: map[mood.Mood]float64{mood.Happy: 100, mood.Calm: 0, mood.Sad: 0, mood.Angry: 0},
		Total:       1,
		DailyData:   []statistics.DailySummary{{Date: "2024-04-02", Mood: mood.Happy, Count: 1}},
		Period:      "month",
	}, got)
}

func TestClient_GetStatistics_EmptyEndDate(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, r.URL.Query().Has("end_date"))
		assert.Equal(t, "", r.URL.Query().Get("end_date"))
		_, _ = w.Write([]byte(`{"success":true,"statistics":{"total":0,"period":"week"}}`))
	})

	got, err := client.GetStatistics(context.Background(), statistics.Filter{Period: "week", HasEndDate: true})
	require.NoError(t, err)
	assert.Equal(t, "week", got.Period)
}

func TestClient_NotificationSettings(t *testing.T) {
	var saved notification.Settings
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/notifications":
			writeBody(t, w, http.StatusOK, map[string]any{"success": true, "settings": notification.Settings{
				Enabled: true, Times: []string{"09:00"}, Frequency: 1, Theme: "positive", SavedAt: "2024-05-01T08:00:00Z",
			}})
		case "/save_notifications":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
			writeBody(t, w, http.StatusOK, map[string]any{"success": true, "message": "Notification settings saved!"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	settings, err := client.GetNotificationSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, settings.Times)

	settings.Times = []string{"10:00", "22:00"}
	message, err := client.SaveNotificationSettings(ctx, settings)
	require.NoError(t, err)
	assert.Equal(t, "Notification settings saved!", message)
	assert.Equal(t, notification.Settings{
		Enabled: true, Times: []string{"10:00", "22:00"}, Frequency: 1, Theme: "positive",
	}, saved)
}

func TestClient_AgainstServer(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 5, 1, 21, 0, 0, 0, time.UTC) }
	dir := t.TempDir()
	handler, err := server.NewHandler(
		mood.NewJSONRepository(filepath.Join(dir, "mood_data.json")),
		journal.NewJSONRepository(filepath.Join(dir, "journal_data.json")),
		notification.NewJSONRepository(filepath.Join(dir, "notifications_settings.json"), now),
		now,
	)
	require.NoError(t, err)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	client := NewClient(config.ClientConfig{BaseURL: srv.URL + "/", TimeoutSeconds: 5})
	defer func() {
		_ = client.Close()
	}()
	ctx := context.Background()

	quote, err := client.SaveMood(ctx, mood.Happy)
	require.NoError(t, err)
	assert.Equal(t, mood.Happy.Message(), quote)

	_, err = client.SaveMood(ctx, mood.Mood("bored"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid mood")

	message, err := client.SaveJournalEntry(ctx, "2024-05-01", "Good day")
	require.NoError(t, err)
	assert.Equal(t, "Entry saved!", message)

	_, err = client.SaveJournalEntry(ctx, "2024-05-01", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Date and text are required")

	result, err := client.GetStatistics(ctx, statistics.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "week", result.Period)
	assert.Equal(t, []statistics.DailySummary{{Date: "2024-05-01", Mood: mood.Happy, Count: 1}}, result.DailyData)
}
