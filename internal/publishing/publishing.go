// Package publishing holds the outbound side of the pipeline: the ad and
// social publisher collaborators and the auto-publish policy that decides
// which freshly generated content skips manual approval.
package publishing

import (
	"context"
	"fmt"

	"github.com/example/marketing-autopilot/internal/models"
)

// Result is the outcome of one publish attempt against one platform.
type Result struct {
	Platform string `json:"platform"`
	Success  bool   `json:"success"`
	RemoteID string `json:"id,omitempty"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// PublishError wraps a platform rejection or transport failure.
type PublishError struct {
	Platform string
	Err      error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to %s: %v", e.Platform, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// AdPublisher pushes ad content to an ad platform as a (paused) campaign.
type AdPublisher interface {
	PublishCampaign(ctx context.Context, item *models.ContentItem) (Result, error)
}

// SocialPublisher posts a caption (and optionally an image) to one social
// platform. Implementations report their platform name for logging.
type SocialPublisher interface {
	Platform() string
	Publish(ctx context.Context, caption, imageURL string) (Result, error)
}
