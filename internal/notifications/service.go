package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"renoquote/internal/config"
)

const userAgent = "renoquote/0.1.0"

// Event identifies a workflow milestone.
type Event string

const (
	EventRunStarted   Event = "run_started"
	EventRunCompleted Event = "run_completed"
	EventRunFailed    Event = "run_failed"
	EventTest         Event = "test"
)

// Payload carries the event fields used to format a message.
type Payload map[string]any

// Service publishes workflow events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func format(event Event, payload Payload) (message, bool) {
	runID := payloadString(payload, "runID")
	switch event {
	case EventRunStarted:
		return message{
			title: "renoquote - Run Started",
			body:  fmt.Sprintf("Estimating %s (%s)", payloadString(payload, "transcript"), runID),
			tags:  []string{"renoquote", "run", "started"},
		}, true
	case EventRunCompleted:
		body := fmt.Sprintf("Estimate ready: %s items, grand total %s", payloadString(payload, "items"), payloadString(payload, "grandTotal"))
		if failed := payloadString(payload, "failedGroups"); failed != "" && failed != "0" {
			body += fmt.Sprintf("\n%s group(s) failed", failed)
		}
		if output := payloadString(payload, "workbook"); output != "" {
			body += "\nFile: " + output
		}
		return message{
			title:    "renoquote - Estimate Complete",
			body:     body,
			tags:     []string{"renoquote", "run", "completed"},
			priority: "high",
		}, true
	case EventRunFailed:
		var b strings.Builder
		b.WriteString("Error")
		if stage := payloadString(payload, "stage"); stage != "" {
			b.WriteString(" during ")
			b.WriteString(stage)
		}
		b.WriteString(": ")
		if errText := payloadString(payload, "error"); errText != "" {
			b.WriteString(errText)
		} else {
			b.WriteString("unknown")
		}
		return message{
			title:    "renoquote - Run Failed",
			body:     b.String(),
			tags:     []string{"renoquote", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "renoquote - Test",
			body:     "Notification system test",
			tags:     []string{"renoquote", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func payloadString(payload Payload, key string) string {
	if payload == nil {
		return ""
	}
	value, ok := payload[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
