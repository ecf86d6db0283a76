package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/example/marketing-autopilot/internal/models"
)

// TextClient generates text through the official generative-ai SDK.
type TextClient struct {
	APIKey string
	Model  string

	once    sync.Once
	client  *genai.Client
	initErr error
}

func (c *TextClient) init(ctx context.Context) error {
	c.once.Do(func() {
		client, err := genai.NewClient(ctx, option.WithAPIKey(c.APIKey))
		if err != nil {
			c.initErr = fmt.Errorf("gemini client: %w", err)
			return
		}
		c.client = client
	})
	return c.initErr
}

func (c *TextClient) Generate(ctx context.Context, prompt string, brand *models.BrandProfile) (string, error) {
	if err := c.init(ctx); err != nil {
		return "", err
	}
	model := c.client.GenerativeModel(c.Model)
	resp, err := model.GenerateContent(ctx, genai.Text(brandPrompt(prompt, brand)))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	txt := firstText(resp)
	if txt == "" {
		return "", errors.New("gemini generate: empty response")
	}
	return txt, nil
}

// brandPrompt folds the brand profile into the prompt as a context preamble.
func brandPrompt(prompt string, brand *models.BrandProfile) string {
	if brand == nil {
		return prompt
	}
	var b strings.Builder
	b.WriteString("Brand Context:\n")
	fmt.Fprintf(&b, "- Title: %s\n", orNA(brand.Title))
	fmt.Fprintf(&b, "- Description: %s\n", orNA(brand.Description))
	fmt.Fprintf(&b, "- Brand Voice: %s\n", orNA(brand.BrandVoice))
	fmt.Fprintf(&b, "- Target Audience: %s\n", orNA(brand.TargetAudience))
	fmt.Fprintf(&b, "- Keywords: %s\n", orNA(strings.Join(brand.Keywords, ", ")))
	b.WriteString("\nTask: ")
	b.WriteString(prompt)
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func firstText(r *genai.GenerateContentResponse) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}
