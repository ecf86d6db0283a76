// Package autopilot runs the sequential execute-everything loop: pick the
// next PLANNED task, generate its content, apply the auto-publish policy,
// wait, repeat. One run at a time; any generation failure halts the run.
package autopilot

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/example/marketing-autopilot/internal/generation"
	"github.com/example/marketing-autopilot/internal/models"
	"github.com/example/marketing-autopilot/internal/publishing"
)

// State names where the loop currently is. Transitions:
// idle -> selecting -> executing -> waiting -> selecting ... -> stopped.
type State string

const (
	StateIdle      State = "idle"
	StateSelecting State = "selecting"
	StateExecuting State = "executing"
	StateWaiting   State = "waiting"
	StateStopped   State = "stopped"
)

// DefaultInterval is the pause between tasks.
const DefaultInterval = time.Second

// DefaultPreviousWindow bounds how many earlier results feed later prompts.
const DefaultPreviousWindow = 3

var ErrAlreadyRunning = errors.New("autopilot already running")
var ErrNotRunning = errors.New("autopilot not running")

// PlanStore is the slice of the store the loop needs.
type PlanStore interface {
	GetStrategy() (*models.Strategy, error)
	GetContent(id string) (*models.ContentItem, error)
	UpdateTask(id string, status models.ContentStatus, contentID string) error
	UpdateContentStatus(id string, status models.ContentStatus) error
}

// TaskRunner generates and persists content for one task.
type TaskRunner interface {
	Execute(ctx context.Context, task *models.Task, brand *models.BrandProfile, previous []generation.PreviousResult) (*models.ContentItem, error)
}

// PublishPolicy decides whether a fresh item publishes immediately.
type PublishPolicy interface {
	MaybeAutoPublish(ctx context.Context, item *models.ContentItem, task *models.Task) (models.ContentStatus, []publishing.Result)
}

// Status is a point-in-time snapshot of the loop, safe to serve while a run
// is in flight.
type Status struct {
	Active        bool   `json:"active"`
	State         State  `json:"state"`
	CurrentTaskID string `json:"current_task_id,omitempty"`
	Completed     int    `json:"completed"`
	LastError     string `json:"last_error,omitempty"`
}

type Loop struct {
	store    PlanStore
	runner   TaskRunner
	policy   PublishPolicy
	hub      *Hub
	interval time.Duration
	window   int

	mu            sync.Mutex
	active        bool
	state         State
	currentTaskID string
	completed     int
	lastErr       string
	cancel        context.CancelFunc
	done          chan struct{}
}

// NewLoop wires the loop. interval <= 0 selects DefaultInterval, window <= 0
// selects DefaultPreviousWindow.
func NewLoop(store PlanStore, runner TaskRunner, policy PublishPolicy, hub *Hub, interval time.Duration, window int) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if window <= 0 {
		window = DefaultPreviousWindow
	}
	return &Loop{
		store:    store,
		runner:   runner,
		policy:   policy,
		hub:      hub,
		interval: interval,
		window:   window,
		state:    StateIdle,
	}
}

// Start launches a run. Returns ErrAlreadyRunning while one is active.
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.active = true
	l.state = StateSelecting
	l.completed = 0
	l.lastErr = ""
	l.cancel = cancel
	l.done = make(chan struct{})
	go l.run(ctx)
	l.hub.Publish(Event{Event: "autopilot_started"})
	return nil
}

// Stop requests a halt. The loop finishes the in-flight task and exits at
// the next selection boundary; Stop does not wait for that.
func (l *Loop) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.active {
		return ErrNotRunning
	}
	l.cancel()
	return nil
}

// Wait blocks until the current run exits. Returns immediately when no run
// was ever started.
func (l *Loop) Wait() {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Active reports whether a run is in flight. The manual execute endpoint
// uses this to refuse concurrent execution.
func (l *Loop) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

func (l *Loop) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Status{
		Active:        l.active,
		State:         l.state,
		CurrentTaskID: l.currentTaskID,
		Completed:     l.completed,
		LastError:     l.lastErr,
	}
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.done)
	for {
		l.setState(StateSelecting, "")
		if ctx.Err() != nil {
			l.halt("", "autopilot_stopped")
			return
		}

		strategy, err := l.store.GetStrategy()
		if err != nil {
			l.halt("load strategy: "+err.Error(), "autopilot_failed")
			return
		}
		if strategy == nil {
			l.halt("no strategy to execute", "autopilot_failed")
			return
		}
		task := strategy.NextPlanned()
		if task == nil {
			log.Printf("[autopilot] no PLANNED tasks remain; run complete")
			l.halt("", "autopilot_complete")
			return
		}

		if err := l.executeOne(ctx, strategy, task); err != nil {
			// Fail fast: one broken task means the run stops, it does not
			// skip ahead and burn through the rest of the plan.
			l.halt(err.Error(), "autopilot_failed")
			return
		}

		l.setState(StateWaiting, "")
		select {
		case <-ctx.Done():
			l.halt("", "autopilot_stopped")
			return
		case <-time.After(l.interval):
		}
	}
}

func (l *Loop) executeOne(ctx context.Context, strategy *models.Strategy, task *models.Task) error {
	l.setState(StateExecuting, task.ID)
	l.hub.Publish(Event{Event: "task_started", TaskID: task.ID, Payload: map[string]any{
		"title": task.Title,
		"type":  task.Type,
	}})
	log.Printf("[autopilot] executing task %s (%s) %q", task.ID, task.Type, task.Title)

	// Stop must not abort a task that already started: the stop signal is
	// only honored at the selection and waiting boundaries, so the in-flight
	// execution runs under a context detached from the run's cancellation.
	execCtx := context.WithoutCancel(ctx)
	item, err := l.runner.Execute(execCtx, task, &strategy.BrandProfile, l.previousWindow(strategy))
	if err != nil {
		if uerr := l.store.UpdateTask(task.ID, models.StatusFailed, ""); uerr != nil {
			log.Printf("[autopilot] marking task %s FAILED also failed: %v", task.ID, uerr)
		}
		l.hub.Publish(Event{Event: "task_failed", TaskID: task.ID, Payload: map[string]any{"error": err.Error()}})
		return err
	}

	status, results := l.policy.MaybeAutoPublish(execCtx, item, task)
	if err := l.store.UpdateTask(task.ID, item.Status, item.ID); err != nil {
		return err
	}
	if status != item.Status {
		// Propagates to the owning task as well.
		if err := l.store.UpdateContentStatus(item.ID, status); err != nil {
			return err
		}
	}

	l.mu.Lock()
	l.completed++
	l.mu.Unlock()
	l.hub.Publish(Event{Event: "task_completed", TaskID: task.ID, Payload: map[string]any{
		"content_id": item.ID,
		"status":     status,
		"publish":    results,
	}})
	return nil
}

// previousWindow collects the most recent non-PLANNED tasks' results so a
// later prompt can build on earlier output. Bounded by the configured
// window; per-item size is bounded again inside the dispatcher.
func (l *Loop) previousWindow(strategy *models.Strategy) []generation.PreviousResult {
	var prev []generation.PreviousResult
	for pi := range strategy.Phases {
		for ti := range strategy.Phases[pi].Tasks {
			t := &strategy.Phases[pi].Tasks[ti]
			if t.ContentID == "" || t.Status == models.StatusPlanned || t.Status == models.StatusFailed {
				continue
			}
			item, err := l.store.GetContent(t.ContentID)
			if err != nil || item == nil {
				continue
			}
			prev = append(prev, generation.PreviousResult{Type: t.Type, Title: t.Title, Result: item.Content})
		}
	}
	if len(prev) > l.window {
		prev = prev[len(prev)-l.window:]
	}
	return prev
}

func (l *Loop) setState(s State, taskID string) {
	l.mu.Lock()
	l.state = s
	l.currentTaskID = taskID
	l.mu.Unlock()
}

func (l *Loop) halt(errMsg, event string) {
	l.mu.Lock()
	l.active = false
	l.state = StateStopped
	l.currentTaskID = ""
	l.lastErr = errMsg
	cancel := l.cancel
	l.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	payload := map[string]any{"completed": l.Status().Completed}
	if errMsg != "" {
		payload["error"] = errMsg
		log.Printf("[autopilot] halted: %s", errMsg)
	}
	l.hub.Publish(Event{Event: event, Payload: payload})
}
