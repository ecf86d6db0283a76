package generation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/example/marketing-autopilot/internal/models"
	"github.com/example/marketing-autopilot/internal/providers/gemini"
)

type fakeText struct {
	out     string
	err     error
	prompts []string
}

func (f *fakeText) Generate(ctx context.Context, prompt string, brand *models.BrandProfile) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.out, f.err
}

type fakeImages struct {
	out []string
	err error
}

func (f *fakeImages) Generate(ctx context.Context, prompt string, count int) ([]string, error) {
	return f.out, f.err
}

type fakeVideo struct {
	operation string
	startErr  error
}

func (f *fakeVideo) Start(ctx context.Context, script string) (string, error) {
	return f.operation, f.startErr
}

func (f *fakeVideo) Poll(ctx context.Context, operation string) (gemini.RenderStatus, error) {
	return gemini.RenderStatus{State: gemini.RenderProcessing}, nil
}

type fakeSaver struct {
	saved []*models.ContentItem
	err   error
}

func (f *fakeSaver) SaveContent(item *models.ContentItem) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, item)
	return nil
}

func articleTask() *models.Task {
	return &models.Task{
		ID:          "t1",
		Type:        models.TypeArticle,
		Title:       "Launch post",
		Description: "Announce the new product line",
		Status:      models.StatusPlanned,
	}
}

func TestExecute_Article(t *testing.T) {
	text := &fakeText{out: "<h1>Launch</h1><p>Body.</p>"}
	saver := &fakeSaver{}
	d := NewDispatcher(text, &fakeImages{}, nil, saver, 0)

	item, err := d.Execute(context.Background(), articleTask(), &models.BrandProfile{Title: "Acme"}, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if item.Type != models.TypeArticle || item.TaskID != "t1" {
		t.Errorf("item wiring wrong: %+v", item)
	}
	if item.Status != models.StatusPendingApproval {
		t.Errorf("status: got %s, want PENDING_APPROVAL", item.Status)
	}
	if item.Content != "<h1>Launch</h1><p>Body.</p>" {
		t.Errorf("content: got %q", item.Content)
	}
	if item.ID == "" {
		t.Error("item must get an id")
	}
	if len(saver.saved) != 1 || saver.saved[0] != item {
		t.Errorf("item not persisted: %+v", saver.saved)
	}
}

func TestExecute_UnknownType_NoSideEffects(t *testing.T) {
	saver := &fakeSaver{}
	d := NewDispatcher(&fakeText{out: "x"}, &fakeImages{}, nil, saver, 0)

	task := articleTask()
	task.Type = models.ContentType("newsletter")
	_, err := d.Execute(context.Background(), task, nil, nil)
	if !errors.Is(err, ErrUnsupportedTaskType) {
		t.Fatalf("expected ErrUnsupportedTaskType, got %v", err)
	}
	if len(saver.saved) != 0 {
		t.Errorf("nothing should be persisted, got %d items", len(saver.saved))
	}
}

func TestExecute_GeneratorError_NothingPersisted(t *testing.T) {
	saver := &fakeSaver{}
	d := NewDispatcher(&fakeText{err: errors.New("upstream down")}, &fakeImages{}, nil, saver, 0)

	_, err := d.Execute(context.Background(), articleTask(), nil, nil)
	var gerr *GenerationError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if len(saver.saved) != 0 {
		t.Errorf("nothing should be persisted on failure")
	}
}

func TestExecute_Podcast_CleansScript(t *testing.T) {
	text := &fakeText{out: "[Intro music]\nHost: Welcome to the show.\n(Upbeat)\nThanks for joining."}
	saver := &fakeSaver{}
	d := NewDispatcher(text, &fakeImages{}, nil, saver, 0)

	task := articleTask()
	task.Type = models.TypePodcast
	item, err := d.Execute(context.Background(), task, nil, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var payload struct {
		Type   string `json:"type"`
		Script string `json:"script"`
	}
	if err := json.Unmarshal([]byte(item.Content), &payload); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if payload.Type != "podcast_script" {
		t.Errorf("payload type: got %q", payload.Type)
	}
	for _, banned := range []string{"[", "(", "Host:"} {
		if strings.Contains(payload.Script, banned) {
			t.Errorf("script not cleaned, still contains %q: %q", banned, payload.Script)
		}
	}
	if !strings.Contains(payload.Script, "Welcome to the show.") {
		t.Errorf("spoken text lost: %q", payload.Script)
	}
}

func TestExecute_Ad_ImageFailureDegrades(t *testing.T) {
	text := &fakeText{out: `["Buy now", "Act fast", "Limited"]`}
	saver := &fakeSaver{}
	d := NewDispatcher(text, &fakeImages{err: errors.New("quota")}, nil, saver, 0)

	task := articleTask()
	task.Type = models.TypeAd
	item, err := d.Execute(context.Background(), task, nil, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var payload struct {
		AdCopy string   `json:"adCopy"`
		Images []string `json:"images"`
	}
	if err := json.Unmarshal([]byte(item.Content), &payload); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if payload.AdCopy == "" {
		t.Error("ad copy missing")
	}
	if len(payload.Images) != 0 {
		t.Errorf("images should be empty on failure, got %v", payload.Images)
	}
}

func TestExecute_Ad_CopyFailureFails(t *testing.T) {
	saver := &fakeSaver{}
	d := NewDispatcher(&fakeText{err: errors.New("nope")}, &fakeImages{out: []string{"img"}}, nil, saver, 0)

	task := articleTask()
	task.Type = models.TypeImage
	if _, err := d.Execute(context.Background(), task, nil, nil); err == nil {
		t.Fatal("expected error when copy generation fails")
	}
	if len(saver.saved) != 0 {
		t.Error("nothing should be persisted")
	}
}

func TestExecute_Video_StartsRender(t *testing.T) {
	text := &fakeText{out: "A short spoken pitch."}
	d := NewDispatcher(text, &fakeImages{}, &fakeVideo{operation: "operations/op-1"}, &fakeSaver{}, 0)

	task := articleTask()
	task.Type = models.TypeVideo
	item, err := d.Execute(context.Background(), task, nil, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var payload struct {
		Status    string `json:"status"`
		Script    string `json:"script"`
		Operation string `json:"operation"`
	}
	if err := json.Unmarshal([]byte(item.Content), &payload); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if payload.Status != "processing" || payload.Operation != "operations/op-1" {
		t.Errorf("render not started: %+v", payload)
	}
	if payload.Script != "A short spoken pitch." {
		t.Errorf("script: got %q", payload.Script)
	}
}

func TestExecute_Video_StartFailureKeepsScript(t *testing.T) {
	text := &fakeText{out: "A short spoken pitch."}
	d := NewDispatcher(text, &fakeImages{}, &fakeVideo{startErr: errors.New("veo down")}, &fakeSaver{}, 0)

	task := articleTask()
	task.Type = models.TypeVideo
	item, err := d.Execute(context.Background(), task, nil, nil)
	if err != nil {
		t.Fatalf("a failed render start must not fail the task: %v", err)
	}

	var payload struct {
		Status    string `json:"status"`
		Operation string `json:"operation"`
	}
	if err := json.Unmarshal([]byte(item.Content), &payload); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if payload.Status != "pending_render" || payload.Operation != "" {
		t.Errorf("expected pending_render without operation, got %+v", payload)
	}
}

func TestExecute_SEO_MalformedJSONKeptRaw(t *testing.T) {
	raw := "Here are my thoughts { not json at all"
	d := NewDispatcher(&fakeText{out: raw}, &fakeImages{}, nil, &fakeSaver{}, 0)

	task := articleTask()
	task.Type = models.TypeKeyword
	item, err := d.Execute(context.Background(), task, nil, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if item.Content != raw {
		t.Errorf("malformed JSON should be kept verbatim, got %q", item.Content)
	}
}

func TestExecute_SEO_FencedJSONNormalized(t *testing.T) {
	d := NewDispatcher(&fakeText{out: "```json\n{\"focusKeywords\": []}\n```"}, &fakeImages{}, nil, &fakeSaver{}, 0)

	task := articleTask()
	task.Type = models.TypeKeyword
	item, err := d.Execute(context.Background(), task, nil, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(item.Content), &parsed); err != nil {
		t.Fatalf("normalized result should parse: %v (%q)", err, item.Content)
	}
}

func TestExecute_PreviousResultsTruncated(t *testing.T) {
	text := &fakeText{out: "ok"}
	d := NewDispatcher(text, &fakeImages{}, nil, &fakeSaver{}, 100)

	long := strings.Repeat("x", 500)
	_, err := d.Execute(context.Background(), articleTask(), nil, []PreviousResult{
		{Type: models.TypeKeyword, Title: "Research", Result: long},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	prompt := text.prompts[0]
	if !strings.Contains(prompt, "Research") {
		t.Error("previous result title missing from prompt")
	}
	if strings.Contains(prompt, strings.Repeat("x", 101)) {
		t.Error("previous result not truncated to the configured budget")
	}
}
