package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/srcwatch/internal/domain/model"
	"github.com/okian/srcwatch/internal/domain/timefmt"
)

// Discord webhook constants.
const (
	embedColor            = 0xffcd2e
	defaultWebhookTimeout = 10 * time.Second
)

// discordPayload is the webhook request body.
type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title  string         `json:"title"`
	URL    string         `json:"url,omitempty"`
	Color  int            `json:"color"`
	Fields []discordField `json:"fields,omitempty"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// DiscordSink posts record announcements to a Discord webhook.
type DiscordSink struct {
	webhookURL string
	http       *http.Client
}

// NewDiscordSink creates a sink for the given webhook URL.
func NewDiscordSink(webhookURL string, opts ...DiscordOption) *DiscordSink {
	s := &DiscordSink{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: defaultWebhookTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DiscordOption configures a DiscordSink.
type DiscordOption func(*DiscordSink)

// WithDiscordHTTPClient replaces the HTTP client, mainly for tests.
func WithDiscordHTTPClient(c *http.Client) DiscordOption {
	return func(s *DiscordSink) {
		if c != nil {
			s.http = c
		}
	}
}

// Send posts one announcement as a rich embed.
func (s *DiscordSink) Send(ctx context.Context, a model.Announcement) error {
	payload := discordPayload{
		Embeds: []discordEmbed{{
			Title: fmt.Sprintf("NEW World Record in %s!", SlotTitle(a)),
			URL:   Permalink(a),
			Color: embedColor,
			Fields: []discordField{
				{Name: "Runner", Value: a.Run.PlayerName, Inline: true},
				{Name: "Time", Value: timefmt.Seconds(a.Run.Seconds), Inline: true},
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: webhook returned %d", ErrSendFailed, resp.StatusCode)
	}
	return nil
}
