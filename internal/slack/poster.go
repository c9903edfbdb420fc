package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/folio/internal/contact"
)

const (
	defaultPostMessageURL = "https://slack.com/api/chat.postMessage"
	previewLimit          = 280
)

// Poster alerts the site owner in Slack when a contact message arrives.
type Poster struct {
	token   string
	channel string
	client  *http.Client
	logger  *slog.Logger
	apiURL  string
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return &Poster{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

func (p *Poster) Name() string { return "slack-alert" }

// Notify posts a summary of the submission to the configured channel.
func (p *Poster) Notify(ctx context.Context, sub contact.Submission) error {
	ts, err := p.post(ctx, formatContactAlert(sub))
	if err != nil {
		return err
	}
	p.logger.Info("posted contact alert to slack", "ts", ts, "contact_id", sub.ID)
	return nil
}

func (p *Poster) post(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"channel": p.channel,
		"text":    text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": text,
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return "", fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return "", fmt.Errorf("slack error: %s", slackResp.Error)
	}
	return slackResp.TS, nil
}

func formatContactAlert(sub contact.Submission) string {
	var sb strings.Builder

	sb.WriteString("*New contact message*\n")
	fmt.Fprintf(&sb, "*From:* %s <%s>\n", sub.Name, sub.Email)
	if !sub.SubmittedAt.IsZero() {
		fmt.Fprintf(&sb, "*At:* %s\n", sub.SubmittedAt.UTC().Format(time.RFC1123))
	}
	sb.WriteString("\n> ")
	sb.WriteString(strings.ReplaceAll(preview(sub.Message), "\n", "\n> "))
	return sb.String()
}

func preview(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= previewLimit {
		return string(r)
	}
	return string(r[:previewLimit]) + "…"
}
