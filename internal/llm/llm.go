package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Client completes a prompt and returns the model's raw text. Prompts ask for JSON output.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// ErrInvalidJSON is returned when the model output cannot be decoded even after a repair attempt.
var ErrInvalidJSON = errors.New("invalid JSON from LLM")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Complete returns ErrNotImplemented.
func (PlaceholderClient) Complete(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotImplemented
}

// CompleteJSON runs prompt and decodes the response into out. When the first response is not
// valid JSON the model is asked once to repair it.
func CompleteJSON(ctx context.Context, c Client, prompt string, out any) error {
	if c == nil {
		return ErrNotImplemented
	}
	raw, err := c.Complete(ctx, prompt)
	if err != nil {
		return err
	}
	raw = stripFences(raw)
	if err := json.Unmarshal([]byte(raw), out); err == nil {
		return nil
	}

	fixed, err := c.Complete(ctx, FixJSONPrompt(raw))
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(stripFences(fixed)), out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
