package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SlackNotifier sends alerts to a Slack webhook.
type SlackNotifier struct {
	webhookURL string
	channel    string
	client     *http.Client
}

// NewSlackNotifier creates a Slack webhook notifier.
func NewSlackNotifier(webhookURL, channel string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		channel:    channel,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *SlackNotifier) Name() string { return "slack" }

func (s *SlackNotifier) Send(ctx context.Context, alert Alert) error {
	color := "#36a64f" // green
	if alert.Level == AlertWarning {
		color = "#ff9900" // orange
	}

	fields := []slackField{
		{Title: "Source", Value: alert.Source, Short: false},
		{Title: "Metric", Value: alert.Metric, Short: true},
		{Title: "Run", Value: alert.RunID, Short: true},
		{Title: "Value", Value: formatValue(alert.Kind, alert.Value), Short: true},
		{Title: "Threshold", Value: formatValue(alert.Kind, alert.Threshold), Short: true},
	}
	if alert.Period != "" {
		fields = append(fields, slackField{Title: "Billing period", Value: alert.Period, Short: true})
	}

	payload := slackPayload{
		Channel: s.channel,
		Attachments: []slackAttachment{
			{
				Color:  color,
				Title:  fmt.Sprintf("CUR Scenarios: %s", alert.Kind),
				Text:   alert.Message,
				Fields: fields,
				Footer: "CUR Scenarios",
				Ts:     time.Now().Unix(),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send slack alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned status %d", resp.StatusCode)
	}
	return nil
}

// formatValue renders ratios as percentages and savings as currency.
func formatValue(kind AlertKind, v float64) string {
	if kind == KindSavingsOpportunity {
		return fmt.Sprintf("$%.2f", v)
	}
	return fmt.Sprintf("%.1f%%", v*100)
}

type slackPayload struct {
	Channel     string            `json:"channel,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text,omitempty"`
	Fields []slackField `json:"fields"`
	Footer string       `json:"footer"`
	Ts     int64        `json:"ts"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}
