// Package roast wraps the generative-AI calls that turn a detected
// distraction into a short message aimed at the distracted user.
package roast

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/genai"
)

var ErrInvalidResponse = errors.New("invalid model response")

// Fallback is returned instead of an error when the model is unavailable.
// Having some response matters more than perfect content.
const Fallback = "Caught you slacking. The pet noticed, and so did everyone else."

type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("roast api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, err
	}
	return &Client{
		client:  client,
		model:   model,
		timeout: cfg.Timeout,
	}, nil
}

// Request carries everything the prompt needs about the distraction.
type Request struct {
	TargetName string
	Level      int
	Goal       string
	TabURL     string
	EventType  string
	EventValue string
	Ticks      []string
}

// Generate produces a roast for the request. Callers are expected to fall
// back to Fallback on error rather than propagating it.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(buildRoastPrompt(req)),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.9),
		},
	)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", ErrInvalidResponse
	}
	return text, nil
}

// CheckAlignment asks the model a yes/no question: does the URL align with
// the goal. Any parse or transport failure is an error the caller treats as
// "roast anyway".
func (c *Client) CheckAlignment(ctx context.Context, tabURL string, goal string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(buildAlignmentPrompt(tabURL, goal)),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0),
		},
	)
	if err != nil {
		return false, err
	}
	return parseYesNo(result.Text())
}
