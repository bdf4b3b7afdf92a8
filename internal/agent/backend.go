package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/petstate"
)

// Backend is the agent's HTTP client for the Waddl server.
type Backend struct {
	baseURL string
	userID  string
	http    *http.Client
}

func NewBackend(baseURL string, userID string, timeout time.Duration) *Backend {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Backend{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		http:    &http.Client{Timeout: timeout},
	}
}

type eventReport struct {
	UserID        string    `json:"user_id"`
	Emotion       string    `json:"emotion,omitempty"`
	Focus         string    `json:"focus,omitempty"`
	ThumbsUp      string    `json:"thumbs_up,omitempty"`
	Wave          string    `json:"wave,omitempty"`
	CurrentTabURL string    `json:"current_tab_url,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type eventReply struct {
	Roast   string `json:"roast"`
	Message string `json:"message"`
}

// ReportEvent forwards a raw perception sample to the ingestion
// endpoint and returns the roast, if any.
func (b *Backend) ReportEvent(ctx context.Context, sample petstate.Sample, tabURL string, ts time.Time) (string, error) {
	var reply eventReply
	err := b.postJSON(ctx, "/api/cv-event", eventReport{
		UserID:        b.userID,
		Emotion:       sample.Emotion,
		Focus:         sample.Focus,
		ThumbsUp:      sample.ThumbsUp,
		Wave:          sample.Wave,
		CurrentTabURL: tabURL,
		Timestamp:     ts,
	}, &reply)
	if err != nil {
		return "", err
	}
	return reply.Roast, nil
}

type urlCheckReply struct {
	IsProductive bool   `json:"is_productive"`
	Message      string `json:"message"`
}

func (b *Backend) CheckURL(ctx context.Context, url string) (bool, string, error) {
	var reply urlCheckReply
	err := b.postJSON(ctx, "/api/check-url", map[string]string{
		"url":     url,
		"user_id": b.userID,
	}, &reply)
	if err != nil {
		return false, "", err
	}
	return reply.IsProductive, reply.Message, nil
}

func (b *Backend) CaptureBet(ctx context.Context) error {
	return b.postJSON(ctx, "/api/capture-bet-by-user", map[string]string{
		"user_id": b.userID,
	}, nil)
}

func (b *Backend) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
