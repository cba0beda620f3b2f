// Package client calls the mood tracker HTTP API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/moodlog/internal/config"
	"github.com/at-ishikawa/moodlog/internal/mood"
	"github.com/at-ishikawa/moodlog/internal/notification"
	"github.com/at-ishikawa/moodlog/internal/statistics"
)

const defaultRetryDelay = 100 * time.Millisecond

type Client struct {
	httpClient       *resty.Client
	maxRetryAttempts uint
	retryDelay       time.Duration
}

func NewClient(cfg config.ClientConfig) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/"))
	client.SetHeader("Content-Type", "application/json")
	if cfg.TimeoutSeconds > 0 {
		client.SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	}

	return &Client{
		httpClient:       client,
		maxRetryAttempts: cfg.RetryAttempts,
		retryDelay:       defaultRetryDelay,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.StatusCode, e.Message)
}

type messageBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type statisticsBody struct {
	Success    bool              `json:"success"`
	Statistics statistics.Result `json:"statistics"`
}

type settingsBody struct {
	Success  bool                  `json:"success"`
	Settings notification.Settings `json:"settings"`
}

// SaveMood records m and returns the quote chosen by the server.
func (client *Client) SaveMood(ctx context.Context, m mood.Mood) (string, error) {
	var result messageBody
	if err := client.do(ctx, "/save", func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(map[string]string{"mood": string(m)}).SetResult(&result).Post("/save")
	}); err != nil {
		return "", err
	}
	return result.Message, nil
}

// SaveJournalEntry adds a journal entry for date.
func (client *Client) SaveJournalEntry(ctx context.Context, date, text string) (string, error) {
	var result messageBody
	if err := client.do(ctx, "/save_journal", func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(map[string]string{"date": date, "text": text}).SetResult(&result).Post("/save_journal")
	}); err != nil {
		return "", err
	}
	return result.Message, nil
}

func (client *Client) GetStatistics(ctx context.Context, filter statistics.Filter) (statistics.Result, error) {
	query := map[string]string{}
	if filter.Period != "" {
		query["period"] = filter.Period
	}
	if filter.StartDate != "" {
		query["start_date"] = filter.StartDate
	}
	if filter.EndDate != "" || filter.HasEndDate {
		query["end_date"] = filter.EndDate
	}

	var result statisticsBody
	if err := client.do(ctx, "/api/statistics", func(r *resty.Request) (*resty.Response, error) {
		return r.SetQueryParams(query).SetResult(&result).Get("/api/statistics")
	}); err != nil {
		return statistics.Result{}, err
	}
	if !result.Success {
		return statistics.Result{}, fmt.Errorf("unsuccessful statistics response")
	}
	return result.Statistics, nil
}

func (client *Client) GetNotificationSettings(ctx context.Context) (notification.Settings, error) {
	var result settingsBody
	if err := client.do(ctx, "/api/notifications", func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&result).Get("/api/notifications")
	}); err != nil {
		return notification.Settings{}, err
	}
	if !result.Success {
		return notification.Settings{}, fmt.Errorf("unsuccessful notification settings response")
	}
	return result.Settings, nil
}

func (client *Client) SaveNotificationSettings(ctx context.Context, settings notification.Settings) (string, error) {
	settings.SavedAt = ""
	var result messageBody
	if err := client.do(ctx, "/save_notifications", func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(settings).SetResult(&result).Post("/save_notifications")
	}); err != nil {
		return "", err
	}
	return result.Message, nil
}

// do sends a request built by send, retrying transport failures and 5xx responses.
func (client *Client) do(ctx context.Context, path string, send func(*resty.Request) (*resty.Response, error)) error {
	return retry.Do(
		func() error {
			response, err := send(client.httpClient.R().SetContext(ctx))
			if err != nil {
				return fmt.Errorf("httpClient(%s) > %w", path, err)
			}
			if response.IsError() {
				statusErr := &StatusError{
					StatusCode: response.StatusCode(),
					Message:    errorMessage(response),
				}
				if response.StatusCode() < http.StatusInternalServerError {
					return retry.Unrecoverable(statusErr)
				}
				return statusErr
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.Delay(client.retryDelay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

func errorMessage(response *resty.Response) string {
	raw := strings.TrimSpace(response.String())
	var body messageBody
	if err := json.Unmarshal([]byte(raw), &body); err == nil && body.Message != "" {
		return body.Message
	}
	if raw == "" {
		return http.StatusText(response.StatusCode())
	}
	return raw
}
