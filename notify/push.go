package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/turfnote/turfapi/models"
)

// PushSender POSTs notifications as JSON to a push gateway. A per-user
// webhook URL overrides the global one; users with neither are skipped.
type PushSender struct {
	url   string
	httpc *http.Client
}

// NewPushSender builds a PushSender, or a nil Sender when no gateway is
// configured.
func NewPushSender(url string) Sender {
	if url == "" {
		return nil
	}
	return &PushSender{
		url:   url,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *PushSender) Name() string { return "push" }

type pushPayload struct {
	UserID int               `json:"userId"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Meta   map[string]string `json:"meta,omitempty"`
}

// Send posts the notification to the gateway.
func (p *PushSender) Send(ctx context.Context, user *models.User, title, body string, meta map[string]string) error {
	url := p.url
	if user.PushURL != nil && *user.PushURL != "" {
		url = *user.PushURL
	}

	raw, err := json.Marshal(pushPayload{UserID: user.ID, Title: title, Body: body, Meta: meta})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned %d", resp.StatusCode)
	}
	return nil
}
