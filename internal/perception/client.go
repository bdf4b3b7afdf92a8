// Package perception talks to the local computer-vision service that
// watches the user through the webcam. The service is best-effort: when it
// is down the caller skips the poll cycle rather than surfacing an error.
package perception

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/petstate"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 250 * time.Millisecond
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type stateResponse struct {
	Focus    string `json:"focus"`
	Emotion  string `json:"emotion"`
	Wave     string `json:"wave"`
	ThumbsUp string `json:"thumbs_up"`
}

// State fetches the current perception sample.
func (c *Client) State(ctx context.Context) (petstate.Sample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/state", nil)
	if err != nil {
		return petstate.Sample{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return petstate.Sample{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return petstate.Sample{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return petstate.Sample{}, fmt.Errorf("perception service status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var state stateResponse
	if err := json.Unmarshal(body, &state); err != nil {
		return petstate.Sample{}, err
	}
	return petstate.Sample{
		Focus:    strings.TrimSpace(state.Focus),
		Emotion:  strings.TrimSpace(state.Emotion),
		Wave:     strings.TrimSpace(state.Wave),
		ThumbsUp: strings.TrimSpace(state.ThumbsUp),
	}, nil
}
