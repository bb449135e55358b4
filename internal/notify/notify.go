package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/brandops/automation/internal/log"
	"github.com/brandops/automation/pkg/models"
)

// HTTPNotifier forwards notifications to the platform's notification
// service. Delivery failures surface as action errors and end up in
// the rule's execution log.
type HTTPNotifier struct {
	endpoint string
	client   *http.Client
}

func NewHTTPNotifier(endpoint string) *HTTPNotifier {
	return &HTTPNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *HTTPNotifier) CreateNotification(ctx context.Context, notification models.Notification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification service returned %d", resp.StatusCode)
	}
	return nil
}

// LogNotifier writes notifications to the operational log. It is the
// fallback when no notification endpoint is configured.
type LogNotifier struct{}

func (LogNotifier) CreateNotification(ctx context.Context, n models.Notification) error {
	log.GetLogger().Infof("Notification: type=%s title=%q message=%q", n.Type, n.Title, n.Message)
	return nil
}
