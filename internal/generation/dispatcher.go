// Package generation turns planned tasks into content items. The
// dispatcher maps each of the six content types onto one generation
// routine; the planner produces a whole strategy from a brand profile.
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/marketing-autopilot/internal/models"
	"github.com/example/marketing-autopilot/internal/providers/gemini"
)

// ContentSaver is the slice of the store the dispatcher needs: persist the
// generated item before handing it back.
type ContentSaver interface {
	SaveContent(item *models.ContentItem) error
}

// PreviousResult is a bounded view of an earlier task's output, folded into
// later prompts for continuity.
type PreviousResult struct {
	Type   models.ContentType `json:"type"`
	Title  string             `json:"title"`
	Result string             `json:"result"`
}

// DefaultContextBytes bounds how much of each previous result is folded
// into a prompt, so context cannot grow without limit over a long plan.
const DefaultContextBytes = 2000

type generateFunc func(ctx context.Context, task *models.Task, brand *models.BrandProfile, prevCtx string) (string, error)

// Dispatcher routes a task to the generation routine for its content type
// and persists the result as a PENDING_APPROVAL content item.
type Dispatcher struct {
	text    gemini.TextGenerator
	images  gemini.ImageGenerator
	video   gemini.VideoRenderer
	content ContentSaver

	contextBytes int
	generators   map[models.ContentType]generateFunc
}

// NewDispatcher builds the dispatch table over the closed set of content
// types. contextBytes <= 0 selects DefaultContextBytes.
func NewDispatcher(text gemini.TextGenerator, images gemini.ImageGenerator, video gemini.VideoRenderer, content ContentSaver, contextBytes int) *Dispatcher {
	if contextBytes <= 0 {
		contextBytes = DefaultContextBytes
	}
	d := &Dispatcher{
		text:         text,
		images:       images,
		video:        video,
		content:      content,
		contextBytes: contextBytes,
	}
	d.generators = map[models.ContentType]generateFunc{
		models.TypeArticle: d.generateArticle,
		models.TypeVideo:   d.generateVideo,
		models.TypePodcast: d.generatePodcast,
		models.TypeAd:      d.generateAdCreative,
		models.TypeImage:   d.generateAdCreative,
		models.TypeKeyword: d.generateSEO,
	}
	return d
}

// Execute generates content for one task. On success the item has been
// saved with status PENDING_APPROVAL. On failure nothing was persisted.
func (d *Dispatcher) Execute(ctx context.Context, task *models.Task, brand *models.BrandProfile, previous []PreviousResult) (*models.ContentItem, error) {
	gen, ok := d.generators[task.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTaskType, task.Type)
	}

	payload, err := gen(ctx, task, brand, d.formatPrevious(previous))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &models.ContentItem{
		ID:        uuid.NewString(),
		TaskID:    task.ID,
		Type:      task.Type,
		Title:     task.Title,
		Content:   payload,
		Status:    models.StatusPendingApproval,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.content.SaveContent(item); err != nil {
		return nil, fmt.Errorf("persist content for task %s: %w", task.ID, err)
	}
	return item, nil
}

// formatPrevious renders earlier results as a prompt section, truncating
// each to the configured byte budget.
func (d *Dispatcher) formatPrevious(previous []PreviousResult) string {
	if len(previous) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nContext from previously generated content:\n")
	for _, p := range previous {
		result := p.Result
		if len(result) > d.contextBytes {
			result = result[:d.contextBytes]
		}
		fmt.Fprintf(&b, "Type: %s\nTitle: %s\nContent: %s\n---\n", p.Type, p.Title, result)
	}
	return b.String()
}

func (d *Dispatcher) generateArticle(ctx context.Context, task *models.Task, brand *models.BrandProfile, prevCtx string) (string, error) {
	prompt := fmt.Sprintf(`Write a professional blog article about %q.
Description: %s
Context: %s
Include relevant industry terms and SEO-optimized headers.
The article should be around 800-1000 words in HTML format (use <h1>, <h2>, <p> tags).`,
		task.Title, task.Description, prevCtx)

	article, err := d.text.Generate(ctx, prompt, brand)
	if err != nil {
		return "", genErr("article", err)
	}
	return article, nil
}

type videoPayload struct {
	Status    string `json:"status"`
	Type      string `json:"type"`
	Script    string `json:"script"`
	Operation string `json:"operation,omitempty"`
}

func (d *Dispatcher) generateVideo(ctx context.Context, task *models.Task, brand *models.BrandProfile, prevCtx string) (string, error) {
	prompt := fmt.Sprintf(`Generate a spoken script (about 30 seconds long) for a marketing video about %q.
Description: %s%s
Output ONLY the spoken text, no directions or formatting.`,
		task.Title, task.Description, prevCtx)

	script, err := d.text.Generate(ctx, prompt, brand)
	if err != nil {
		return "", genErr("video script", err)
	}

	payload := videoPayload{Status: "pending_render", Type: "avatar", Script: script}
	if d.video != nil {
		// Kicking off the render is best effort; the script alone is a
		// valid result awaiting a manual render trigger.
		op, err := d.video.Start(ctx, script)
		if err != nil {
			log.Printf("[generate] video render start failed for task %s: %v", task.ID, err)
		} else {
			payload.Status = "processing"
			payload.Operation = op
		}
	}
	return marshalPayload(payload)
}

type podcastPayload struct {
	Type   string `json:"type"`
	Script string `json:"script"`
}

func (d *Dispatcher) generatePodcast(ctx context.Context, task *models.Task, brand *models.BrandProfile, prevCtx string) (string, error) {
	prompt := fmt.Sprintf(`Generate a podcast script about %q.
Duration: 5 minutes.%s
Format: Return ONLY the spoken dialogue. Do not include [Sound Effects], (Tone instructions), or Speaker Labels like "Host:".
Start directly with the intro.`, task.Title, prevCtx)

	script, err := d.text.Generate(ctx, prompt, brand)
	if err != nil {
		return "", genErr("podcast script", err)
	}
	return marshalPayload(podcastPayload{Type: "podcast_script", Script: CleanScript(script)})
}

type adPayload struct {
	AdCopy string   `json:"adCopy"`
	Images []string `json:"images"`
}

// generateAdCreative serves both ad and image tasks: copy variations from
// the text generator plus images from the image generator. The two calls
// run concurrently. Copy is the primary result and its failure fails the
// task; image failure degrades to an empty list.
func (d *Dispatcher) generateAdCreative(ctx context.Context, task *models.Task, brand *models.BrandProfile, prevCtx string) (string, error) {
	imagesCh := make(chan []string, 1)
	go func() {
		prompt := fmt.Sprintf("Professional marketing photo for %s, high quality, 4k", task.Title)
		images, err := d.images.Generate(ctx, prompt, 1)
		if err != nil {
			log.Printf("[generate] image generation failed for task %s: %v", task.ID, err)
			images = nil
		}
		imagesCh <- images
	}()

	copyPrompt := fmt.Sprintf("Create 3 variations of ad copy for %q. %s%s Format as JSON list.",
		task.Title, task.Description, prevCtx)
	adCopy, err := d.text.Generate(ctx, copyPrompt, brand)
	images := <-imagesCh
	if err != nil {
		return "", genErr("ad copy", err)
	}

	if images == nil {
		images = []string{}
	}
	return marshalPayload(adPayload{AdCopy: adCopy, Images: images})
}

func (d *Dispatcher) generateSEO(ctx context.Context, task *models.Task, brand *models.BrandProfile, prevCtx string) (string, error) {
	prompt := fmt.Sprintf(`Perform keyword research and SEO strategy for %q.
Description: %s%s
Provide a JSON object with:
- focusKeywords (list of {keyword, volume, difficulty, intent})
- contentPillars (list of {title, description})
- onPageRecommendations (list)
- backlinkStrategy (string)`, task.Title, task.Description, prevCtx)

	raw, err := d.text.Generate(ctx, prompt, brand)
	if err != nil {
		return "", genErr("seo", err)
	}

	// Re-serialize when the response parses; otherwise keep the raw text
	// verbatim rather than failing the task.
	if strings.Contains(raw, "{") {
		var parsed any
		if err := json.Unmarshal([]byte(NormalizeJSON(raw)), &parsed); err == nil {
			if pretty, err := json.MarshalIndent(parsed, "", "  "); err == nil {
				return string(pretty), nil
			}
		}
	}
	return raw, nil
}

func marshalPayload(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", genErr("encode payload", err)
	}
	return string(b), nil
}
