package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"empathy-client/internal/domain/model"
	"empathy-client/internal/domain/ports"
)

const (
	colorOK      = 0x57F287
	colorPartial = 0xFEE75C
	maxFailures  = 10
)

// Webhook posts broadcast summaries to a Discord channel.
type Webhook struct {
	webhookURL string
	httpClient *http.Client
	logger     ports.Logger
}

var _ ports.ReportSink = (*Webhook)(nil)

// NewWebhook creates a Discord webhook sink.
func NewWebhook(webhookURL string, timeout time.Duration, logger ports.Logger) *Webhook {
	return &Webhook{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Report posts a delivery summary as a Discord embed.
func (w *Webhook) Report(ctx context.Context, title string, result model.FanoutResult) error {
	if w.webhookURL == "" {
		return fmt.Errorf("webhook URL is empty")
	}

	body, err := json.Marshal(buildPayload(title, result, time.Now()))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}

	if w.logger != nil {
		w.logger.Info(ctx, "broadcast report sent to discord")
	}
	return nil
}

func buildPayload(title string, result model.FanoutResult, now time.Time) map[string]any {
	color := colorOK
	if len(result.Failed) > 0 {
		color = colorPartial
	}

	fields := []map[string]any{
		{"name": "Recipients", "value": strconv.Itoa(result.Attempted), "inline": true},
		{"name": "Delivered", "value": strconv.Itoa(result.Succeeded), "inline": true},
		{"name": "Failed", "value": strconv.Itoa(len(result.Failed)), "inline": true},
	}
	if len(result.Failed) > 0 {
		fields = append(fields, map[string]any{
			"name":   "Failures",
			"value":  truncate(formatFailures(result.Failed), 1024),
			"inline": false,
		})
	}

	return map[string]any{
		"content": "",
		"embeds": []map[string]any{
			{
				"title":     truncate(title, 256),
				"fields":    fields,
				"timestamp": now.UTC().Format(time.RFC3339),
				"color":     color,
				"footer":    map[string]string{"text": "Empathy notifications"},
			},
		},
	}
}

func formatFailures(failed []model.RecipientFailure) string {
	lines := make([]string, 0, min(len(failed), maxFailures)+1)
	for i, f := range failed {
		if i == maxFailures {
			lines = append(lines, fmt.Sprintf("…and %d more", len(failed)-maxFailures))
			break
		}
		lines = append(lines, fmt.Sprintf("`%s`: %v", f.RecipientID, f.Err))
	}
	return strings.Join(lines, "\n")
}

func truncate(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	return strings.TrimSpace(string([]rune(value)[:limit-3])) + "..."
}
