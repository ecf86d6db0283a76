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

// Planner produces a full marketing strategy (objectives, phases, tasks)
// from a brand profile.
type Planner struct {
	Text gemini.TextGenerator
}

type plannedTask struct {
	Type          string `json:"type"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	ScheduledDate string `json:"scheduledDate"`
}

type plannedPhase struct {
	Title string        `json:"title"`
	Tasks []plannedTask `json:"tasks"`
}

type plannedStrategy struct {
	Objectives []string       `json:"objectives"`
	Phases     []plannedPhase `json:"phases"`
}

// Plan asks the model for a structured strategy and normalizes it: every
// phase and task gets a fresh id, every task starts PLANNED, and tasks with
// an unknown type tag are dropped with a log line rather than planned into
// a guaranteed dispatch failure.
func (p *Planner) Plan(ctx context.Context, brand *models.BrandProfile) (*models.Strategy, error) {
	raw, err := p.Text.Generate(ctx, buildStrategyPrompt(brand), brand)
	if err != nil {
		return nil, genErr("strategy", err)
	}

	var planned plannedStrategy
	if err := json.Unmarshal([]byte(NormalizeJSON(raw)), &planned); err != nil {
		return nil, genErr("strategy", fmt.Errorf("unparseable plan: %w", err))
	}
	if len(planned.Phases) == 0 {
		return nil, genErr("strategy", fmt.Errorf("plan has no phases"))
	}

	strategy := &models.Strategy{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		BrandProfile: *brand,
		Objectives:   planned.Objectives,
	}
	for _, ph := range planned.Phases {
		phase := models.Phase{
			ID:    uuid.NewString(),
			Title: ph.Title,
		}
		for _, t := range ph.Tasks {
			ct := models.ContentType(strings.ToLower(strings.TrimSpace(t.Type)))
			if !ct.Known() {
				log.Printf("[planner] dropping task %q: unknown type %q", t.Title, t.Type)
				continue
			}
			phase.Tasks = append(phase.Tasks, models.Task{
				ID:            uuid.NewString(),
				Type:          ct,
				Title:         t.Title,
				Description:   t.Description,
				Status:        models.StatusPlanned,
				ScheduledDate: t.ScheduledDate,
			})
		}
		strategy.Phases = append(strategy.Phases, phase)
	}
	return strategy, nil
}

func buildStrategyPrompt(brand *models.BrandProfile) string {
	keywords := "none captured"
	if len(brand.Keywords) > 0 {
		keywords = strings.Join(brand.Keywords, ", ")
	}
	return fmt.Sprintf(`You are a marketing strategist. Create a 30-day content marketing strategy for the brand below.
Output ONLY a JSON object, no prose, no code fences.

Brand: %s
Description: %s
Brand voice: %s
Target audience: %s
Keywords: %s

Schema:
{
  "objectives": ["..."],
  "phases": [
    {
      "title": "...",
      "tasks": [
        {"type": "article"|"podcast"|"video"|"ad"|"keyword"|"image", "title": "...", "description": "...", "scheduledDate": "YYYY-MM-DD"}
      ]
    }
  ]
}

Rules:
- Produce 2-4 phases, each with 2-5 tasks.
- Start with a "keyword" research task so later content can build on it.
- Mix content types; every type field MUST be one of the six listed values.
- Descriptions should be specific enough to generate from directly.`,
		brand.Title, brand.Description, brand.BrandVoice, brand.TargetAudience, keywords)
}
