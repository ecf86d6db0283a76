// Package gemini provides the generation collaborators backed by the
// Google generative AI APIs: text (Gemini), images (Imagen predict) and
// video rendering (Veo long-running operations). Each collaborator is an
// interface with a real client and a mock; the factories return the mock
// when no API key is configured so the rest of the system works in
// development without credentials.
package gemini

import (
	"context"

	"github.com/example/marketing-autopilot/internal/models"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// TextGenerator produces plain text (or JSON-as-text) from a prompt.
// The brand profile, when present, is folded into the prompt as context.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, brand *models.BrandProfile) (string, error)
}

// ImageGenerator produces base64-encoded images from a prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, count int) ([]string, error)
}

// RenderState is the tri-state outcome of polling a video render operation.
type RenderState string

const (
	RenderProcessing RenderState = "processing"
	RenderCompleted  RenderState = "completed"
	RenderFailed     RenderState = "failed"
)

// RenderStatus is the result of one poll of a render operation. The caller
// owns retry and backoff policy.
type RenderStatus struct {
	State    RenderState `json:"status"`
	VideoURL string      `json:"videoUrl,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// VideoRenderer starts an asynchronous video render and reports on it.
type VideoRenderer interface {
	Start(ctx context.Context, script string) (operation string, err error)
	Poll(ctx context.Context, operation string) (RenderStatus, error)
}

// NewTextGenerator returns the SDK-backed Gemini client, or a mock when the
// API key is empty.
func NewTextGenerator(apiKey, model string) TextGenerator {
	if apiKey == "" {
		return &MockText{}
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &TextClient{APIKey: apiKey, Model: model}
}

// NewImageGenerator returns the Imagen REST client, or a mock when the API
// key is empty.
func NewImageGenerator(apiKey, model string) ImageGenerator {
	if apiKey == "" {
		return &MockImages{}
	}
	if model == "" {
		model = "imagen-4.0-generate-001"
	}
	return &ImageClient{APIKey: apiKey, Model: model, BaseURL: defaultBaseURL}
}

// NewVideoRenderer returns the Veo REST client, or a mock when the API key
// is empty.
func NewVideoRenderer(apiKey, model string) VideoRenderer {
	if apiKey == "" {
		return &MockRenderer{}
	}
	if model == "" {
		model = "veo-2.0-generate-001"
	}
	return &VideoClient{APIKey: apiKey, Model: model, BaseURL: defaultBaseURL}
}
