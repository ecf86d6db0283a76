package publishing

import (
	"context"
	"fmt"
	"log"

	"github.com/example/marketing-autopilot/internal/models"
)

// PromoImager is the optional enrichment step that produces a public image
// URL to accompany a social post. ok=false means no image; a failed
// enrichment never affects the publish outcome of the primary content.
type PromoImager interface {
	PromoImage(ctx context.Context, title string) (url string, ok bool)
}

// ContentStatusStore is the slice of the store the approved-content sweep
// needs.
type ContentStatusStore interface {
	ListContentByStatus(status models.ContentStatus) ([]models.ContentItem, error)
	UpdateContentStatus(id string, status models.ContentStatus) error
}

// Policy decides, per content type, whether freshly generated content skips
// manual approval and is published immediately. Publish failures are logged
// and folded into the status decision; they never propagate to the caller.
type Policy struct {
	Ads    AdPublisher
	Social []SocialPublisher
	Promo  PromoImager
}

// MaybeAutoPublish applies the auto-publish rules to a just-generated item:
// ads go straight to the ad platform, articles go to the social platforms,
// everything else waits for a human. The returned status is PUBLISHED on
// success and the item's current status otherwise — never FAILED, so the
// manual recovery path stays open.
func (p *Policy) MaybeAutoPublish(ctx context.Context, item *models.ContentItem, task *models.Task) (models.ContentStatus, []Result) {
	switch item.Type {
	case models.TypeAd:
		res := p.publishAd(ctx, item)
		if res.Success {
			return models.StatusPublished, []Result{res}
		}
		return item.Status, []Result{res}

	case models.TypeArticle:
		results := p.publishSocial(ctx, item, task)
		for _, r := range results {
			if r.Success {
				return models.StatusPublished, results
			}
		}
		return item.Status, results

	default:
		return item.Status, nil
	}
}

// PublishItem pushes already-approved content to its platform(s). Used by
// the manual publish endpoint and the approved-content sweep.
func (p *Policy) PublishItem(ctx context.Context, item *models.ContentItem) ([]Result, bool) {
	var results []Result
	if item.Type == models.TypeAd {
		results = []Result{p.publishAd(ctx, item)}
	} else {
		results = p.publishSocial(ctx, item, nil)
	}
	for _, r := range results {
		if r.Success {
			return results, true
		}
	}
	return results, false
}

// PublishApproved publishes every APPROVED content item and marks the
// successes PUBLISHED. Per-item failures are logged and skipped.
func (p *Policy) PublishApproved(ctx context.Context, store ContentStatusStore) (published int, err error) {
	approved, err := store.ListContentByStatus(models.StatusApproved)
	if err != nil {
		return 0, fmt.Errorf("list approved content: %w", err)
	}
	for i := range approved {
		item := &approved[i]
		if _, ok := p.PublishItem(ctx, item); !ok {
			log.Printf("[publish] approved item %s (%s) not published; leaving APPROVED", item.ID, item.Type)
			continue
		}
		if err := store.UpdateContentStatus(item.ID, models.StatusPublished); err != nil {
			log.Printf("[publish] item %s published but status update failed: %v", item.ID, err)
			continue
		}
		published++
	}
	return published, nil
}

func (p *Policy) publishAd(ctx context.Context, item *models.ContentItem) Result {
	if p.Ads == nil {
		return Result{Platform: "google_ads", Error: "no ad publisher configured"}
	}
	res, err := p.Ads.PublishCampaign(ctx, item)
	if err != nil {
		log.Printf("[publish] ad campaign %q failed: %v", item.Title, err)
	}
	return res
}

func (p *Policy) publishSocial(ctx context.Context, item *models.ContentItem, task *models.Task) []Result {
	caption := socialCaption(item, task)

	imageURL := ""
	if p.Promo != nil {
		if u, ok := p.Promo.PromoImage(ctx, item.Title); ok {
			imageURL = u
		}
	}

	results := make([]Result, 0, len(p.Social))
	for _, pub := range p.Social {
		res, err := pub.Publish(ctx, caption, imageURL)
		if err != nil {
			log.Printf("[publish] %s %q failed: %v", pub.Platform(), item.Title, err)
		}
		results = append(results, res)
	}
	return results
}

// socialCaption builds the post text: headline plus the task description,
// or a plain-text excerpt of the content when no description is available.
func socialCaption(item *models.ContentItem, task *models.Task) string {
	body := ""
	if task != nil {
		body = task.Description
	}
	if body == "" {
		body = excerpt(htmlToText(item.Content), 400)
	}
	return fmt.Sprintf("New Article Published: %s\n\n%s", item.Title, body)
}
