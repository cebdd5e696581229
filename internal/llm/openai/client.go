// Package openai is the Chat Completions backend for llm.Client.
package openai

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/telemetry"
)

const (
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultTimeout  = 120 * time.Second
	maxResponseSize = 4 << 20

	systemPrompt = "You are a resume assistant. Respond with JSON only. No markdown."
)

// Client sends each prompt as one JSON-mode chat completion.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
	// noTemp0 lists models that reject temperature 0, lowercased.
	noTemp0 map[string]bool
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint points the client at another Chat Completions URL.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient builds a client. OPENAI_TIMEOUT_SECONDS and LLM_NO_TEMP0_MODELS are read from the
// environment.
func NewClient(apiKey, model string, opts ...Option) (*Client, error) {
	apiKey, model = strings.TrimSpace(apiKey), strings.TrimSpace(model)
	switch {
	case model == "":
		return nil, errors.New("LLM_MODEL is required for OpenAI")
	case apiKey == "":
		return nil, errors.New("OPENAI_API_KEY is required")
	}

	timeout := defaultTimeout
	if secs, err := strconv.Atoi(strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS"))); err == nil && secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}
	c := &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultEndpoint,
		http:     &http.Client{Timeout: timeout},
		noTemp0:  map[string]bool{},
	}
	for _, name := range strings.Split(os.Getenv("LLM_NO_TEMP0_MODELS"), ",") {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			c.noTemp0[name] = true
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Type    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("openai http status %d: %s (%s)", e.Status, e.Message, e.Type)
	}
	return fmt.Sprintf("openai http status %d: %s", e.Status, e.Message)
}

func (e *APIError) temperatureRejected() bool {
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "temperature") &&
		(strings.Contains(msg, "unsupported") || strings.Contains(msg, "does not support"))
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model          string    `json:"model"`
	Messages       []message `json:"messages"`
	Temperature    *float32  `json:"temperature,omitempty"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete returns the trimmed message content. When the model rejects temperature 0 the
// request is sent once more without it.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	zeroTemp := c.acceptsZeroTemperature()
	out, err := c.send(ctx, prompt, zeroTemp)
	var apiErr *APIError
	if zeroTemp && errors.As(err, &apiErr) && apiErr.temperatureRejected() {
		telemetry.Warn("llm.temperature_unsupported", map[string]any{"model": c.model})
		out, err = c.send(ctx, prompt, false)
	}
	return out, err
}

func (c *Client) acceptsZeroTemperature() bool {
	return !isGPT5(c.model) && !c.noTemp0[strings.ToLower(c.model)]
}

func (c *Client) send(ctx context.Context, prompt string, zeroTemp bool) (string, error) {
	body := completionRequest{
		Model:    c.model,
		Messages: []message{{Role: "system", Content: systemPrompt}, {Role: "user", Content: prompt}},
	}
	body.ResponseFormat.Type = "json_object"
	if zeroTemp {
		body.Temperature = new(float32)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("openai read response: %w", err)
	}

	var decoded completionResponse
	decodeErr := json.Unmarshal(raw, &decoded)
	if resp.StatusCode >= 400 || decoded.Error != nil {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		if decodeErr == nil && decoded.Error != nil {
			apiErr.Message, apiErr.Type = decoded.Error.Message, decoded.Error.Type
		}
		return "", apiErr
	}
	if decodeErr != nil {
		return "", fmt.Errorf("openai response parse: %w", decodeErr)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("openai response missing choices")
	}

	c.logUsage(prompt, decoded, time.Since(started))
	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("openai response empty content")
	}
	return content, nil
}

func (c *Client) logUsage(prompt string, resp completionResponse, took time.Duration) {
	sum := sha256.Sum256([]byte(prompt))
	fields := map[string]any{
		"model":       c.model,
		"prompt_hash": hex.EncodeToString(sum[:8]),
		"duration_ms": took.Milliseconds(),
	}
	if u := resp.Usage; u != nil {
		fields["prompt_tokens"] = u.PromptTokens
		fields["completion_tokens"] = u.CompletionTokens
		fields["total_tokens"] = u.TotalTokens
	}
	telemetry.Info("llm.response", fields)
}

// gpt-5 models only accept the default temperature.
func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

var _ llm.Client = (*Client)(nil)
