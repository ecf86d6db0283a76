package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/example/marketing-autopilot/internal/models"
	"github.com/example/marketing-autopilot/internal/providers/gemini"
)

const planJSON = `{
  "objectives": ["grow traffic"],
  "phases": [
    {"title": "Research", "tasks": [
      {"type": "keyword", "title": "Keyword research", "description": "Find terms", "scheduledDate": "2026-09-02"},
      {"type": "Newsletter", "title": "Weekly mail", "description": "Not a known type"}
    ]},
    {"title": "Content", "tasks": [
      {"type": "ARTICLE", "title": "Launch post", "description": "Announce"}
    ]}
  ]
}`

func TestPlan(t *testing.T) {
	p := &Planner{Text: &fakeText{out: "```json\n" + planJSON + "\n```"}}

	strategy, err := p.Plan(context.Background(), &models.BrandProfile{Title: "Acme"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if strategy.ID == "" || strategy.BrandProfile.Title != "Acme" {
		t.Errorf("strategy header wrong: %+v", strategy)
	}
	if len(strategy.Phases) != 2 {
		t.Fatalf("phases: got %d, want 2", len(strategy.Phases))
	}

	// The unknown "Newsletter" task is dropped; the rest keep their order
	// and the type tags are normalized to lowercase.
	if len(strategy.Phases[0].Tasks) != 1 {
		t.Fatalf("phase 1 tasks: got %d, want 1", len(strategy.Phases[0].Tasks))
	}
	first := strategy.Phases[0].Tasks[0]
	if first.Type != models.TypeKeyword || first.ScheduledDate != "2026-09-02" {
		t.Errorf("first task wrong: %+v", first)
	}
	second := strategy.Phases[1].Tasks[0]
	if second.Type != models.TypeArticle {
		t.Errorf("type not normalized: %+v", second)
	}

	total, planned := strategy.CountTasks(models.StatusPlanned)
	if total != 2 || planned != 2 {
		t.Errorf("every task must start PLANNED: total=%d planned=%d", total, planned)
	}
	if first.ID == "" || second.ID == "" || first.ID == second.ID {
		t.Error("tasks must get distinct ids")
	}
}

// Keyless dev mode runs on the mock generator, so its canned strategy
// answer must plan without error.
func TestPlan_MockGenerator(t *testing.T) {
	p := &Planner{Text: &gemini.MockText{}}

	strategy, err := p.Plan(context.Background(), &models.BrandProfile{Title: "Acme"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(strategy.Phases) == 0 {
		t.Fatal("mock plan has no phases")
	}
	total, planned := strategy.CountTasks(models.StatusPlanned)
	if total == 0 || total != planned {
		t.Errorf("mock plan tasks: total=%d planned=%d", total, planned)
	}
}

func TestPlan_GeneratorError(t *testing.T) {
	p := &Planner{Text: &fakeText{err: errors.New("down")}}
	if _, err := p.Plan(context.Background(), &models.BrandProfile{Title: "Acme"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestPlan_UnparseableOutput(t *testing.T) {
	p := &Planner{Text: &fakeText{out: "I cannot help with that."}}
	_, err := p.Plan(context.Background(), &models.BrandProfile{Title: "Acme"})
	var gerr *GenerationError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}
