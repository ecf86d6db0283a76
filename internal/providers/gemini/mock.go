package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/example/marketing-autopilot/internal/models"
)

// MockText is used when no API key is configured. It returns deterministic
// canned output shaped roughly like the real thing so downstream JSON
// handling can be exercised.
type MockText struct{}

func (m *MockText) Generate(ctx context.Context, prompt string, brand *models.BrandProfile) (string, error) {
	p := strings.ToLower(prompt)
	switch {
	case strings.Contains(p, "marketing strategist"):
		// A minimal plan that parses, so the planner works without a key.
		return `{
  "objectives": ["Mock objective: establish a content baseline"],
  "phases": [
    {
      "title": "Mock Phase 1",
      "tasks": [
        {"type": "keyword", "title": "Mock keyword research", "description": "Collect seed keywords.", "scheduledDate": "2026-01-01"},
        {"type": "article", "title": "Mock launch article", "description": "Introduce the brand.", "scheduledDate": "2026-01-03"}
      ]
    }
  ]
}`, nil
	case strings.Contains(p, "json"):
		return `{"mock": true, "note": "no GEMINI_API_KEY configured"}`, nil
	case strings.Contains(p, "script"):
		return "Welcome to the show. Today we talk about what matters to your audience.", nil
	default:
		return fmt.Sprintf("<h1>Mock content</h1><p>Generated without an API key for prompt: %.80s</p>", prompt), nil
	}
}

// MockImages returns a single tiny placeholder image.
type MockImages struct{}

func (m *MockImages) Generate(ctx context.Context, prompt string, count int) ([]string, error) {
	if count <= 0 {
		count = 1
	}
	img := base64.StdEncoding.EncodeToString([]byte("mock-image"))
	out := make([]string, count)
	for i := range out {
		out[i] = img
	}
	return out, nil
}

// MockRenderer completes every render on the first poll.
type MockRenderer struct{}

func (m *MockRenderer) Start(ctx context.Context, script string) (string, error) {
	return "operations/mock-render", nil
}

func (m *MockRenderer) Poll(ctx context.Context, operation string) (RenderStatus, error) {
	return RenderStatus{State: RenderCompleted, VideoURL: "https://example.invalid/mock.mp4"}, nil
}
