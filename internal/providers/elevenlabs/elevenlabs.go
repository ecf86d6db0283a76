// Package elevenlabs synthesizes spoken audio from cleaned podcast scripts.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultVoiceID is used when the caller does not pick a voice.
const DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

var (
	// ErrAuth means the API key is missing or rejected.
	ErrAuth = errors.New("elevenlabs: invalid or missing API key")
	// ErrQuota means the account ran out of character quota.
	ErrQuota = errors.New("elevenlabs: quota exceeded")
)

// Synthesizer turns text into audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// Client calls the ElevenLabs text-to-speech API.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// New returns the real client, or a mock when the API key is empty.
func New(apiKey string) Synthesizer {
	if apiKey == "" {
		return &Mock{}
	}
	return &Client{APIKey: apiKey, BaseURL: "https://api.elevenlabs.io/v1"}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 120 * time.Second}
}

func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if voiceID == "" {
		voiceID = DefaultVoiceID
	}
	body := map[string]any{
		"text":     text,
		"model_id": "eleven_monolingual_v1",
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	}
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/text-to-speech/%s", c.BaseURL, voiceID), bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.APIKey)

	res, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized, res.StatusCode == http.StatusForbidden:
		return nil, ErrAuth
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, ErrQuota
	case res.StatusCode < 200 || res.StatusCode >= 300:
		var eresp struct {
			Detail struct {
				Message string `json:"message"`
			} `json:"detail"`
		}
		_ = json.NewDecoder(res.Body).Decode(&eresp)
		if eresp.Detail.Message != "" {
			return nil, fmt.Errorf("elevenlabs status %d: %s", res.StatusCode, eresp.Detail.Message)
		}
		return nil, fmt.Errorf("elevenlabs status %d", res.StatusCode)
	}

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs read audio: %w", err)
	}
	return audio, nil
}

// Mock returns a small fake audio payload; used when no key is configured.
type Mock struct{}

func (m *Mock) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	return []byte("mock-audio"), nil
}
