/*
Package premservice sends single-turn chat completion requests to the Prem
API and falls back to a fixed message when a request fails.
*/
package premservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"AINutritionist/internal/metrics"
	"AINutritionist/internal/utility"
	"github.com/rs/zerolog"
)

// --- Prem API Configuration ---
const (
	DefaultBaseURL = "https://app.premai.io"
	DefaultModel   = "gpt-4o-mini"

	chatCompletionsPath = "/v1/chat/completions"
	defaultTimeout      = 30 * time.Second

	// Fixed sampling parameters for every request.
	temperature = 0.7
	maxTokens   = 500

	// FallbackText is served whenever a suggestion cannot be generated.
	FallbackText = "Could not generate suggestions at this time."
)

var (
	// ErrNoChoices is returned when the response carries no usable completion.
	ErrNoChoices = errors.New("no content found in Prem response")
)

// --- Structs for Prem API Request/Response ---

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	ProjectID   string        `json:"project_id"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
}

type ChatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// Config carries the credentials and endpoint for the Prem client.
type Config struct {
	APIKey    string
	ProjectID string
	BaseURL   string
	Model     string
	Timeout   time.Duration
}

// Client sends single-turn chat completion requests.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient builds a Client, filling in defaults for empty settings.
// A missing API key or project id is not rejected here; the service
// reports it as an authentication failure.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With().Str("component", "premservice").Logger(),
	}
}

// Suggest sends prompt as a single user message and returns the first
// completion. On any failure the Outcome holds FallbackText and the reason.
func (c *Client) Suggest(ctx context.Context, prompt string) utility.Outcome[string] {
	start := time.Now()

	text, status, err := c.complete(ctx, prompt)
	metrics.RecordUpstreamCall("prem", status, time.Since(start))

	if err != nil {
		c.log.Error().Err(err).Msg("Error using Prem API")
		return utility.Failure(FallbackText, err)
	}

	c.log.Info().Int("chars", len(text)).Msg("Received Prem suggestion")
	return utility.Success(text)
}

// complete handles the actual HTTP request to the Prem API
func (c *Client) complete(ctx context.Context, prompt string) (string, string, error) {
	payload := ChatRequest{
		ProjectID:   c.cfg.ProjectID,
		Messages:    []ChatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Model:       c.cfg.Model,
		Temperature: temperature,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", "error", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+chatCompletionsPath, bytes.NewReader(payloadBytes))
	if err != nil {
		return "", "error", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	c.log.Debug().Str("model", c.cfg.Model).Msg("Calling Prem API...")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "error", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", status, fmt.Errorf("API returned non-200 status: %s, Body: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", status, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 || strings.TrimSpace(chatResp.Choices[0].Message.Content) == "" {
		return "", status, ErrNoChoices
	}

	return chatResp.Choices[0].Message.Content, status, nil
}
