package publishing

import (
	"context"
	"errors"

	"github.com/example/marketing-autopilot/internal/models"
)

// MockAds stands in for the ad platform when credentials are not
// configured. Every campaign "publishes" successfully.
type MockAds struct{}

func (m *MockAds) PublishCampaign(ctx context.Context, item *models.ContentItem) (Result, error) {
	return Result{Platform: "google_ads", Success: true, RemoteID: "customers/0/campaigns/mock"}, nil
}

// MockSocial stands in for a social platform. When RequireImage is set it
// mirrors Instagram's image precondition.
type MockSocial struct {
	Name         string
	RequireImage bool
}

func (m *MockSocial) Platform() string { return m.Name }

func (m *MockSocial) Publish(ctx context.Context, caption, imageURL string) (Result, error) {
	if m.RequireImage && imageURL == "" {
		err := errors.New(m.Name + " requires an image")
		return Result{Platform: m.Name, Error: err.Error()}, &PublishError{Platform: m.Name, Err: err}
	}
	return Result{Platform: m.Name, Success: true, RemoteID: "mock-post"}, nil
}
