package models

import (
	"time"
)

// ContentType tags a task with the kind of artifact it produces.
type ContentType string

const (
	TypeArticle ContentType = "article"
	TypePodcast ContentType = "podcast"
	TypeVideo   ContentType = "video"
	TypeAd      ContentType = "ad"
	TypeKeyword ContentType = "keyword"
	TypeImage   ContentType = "image"
)

// ContentTypes lists every known content type. Dispatch tables are built
// from this list so an unknown tag can never silently map to a generator.
var ContentTypes = []ContentType{
	TypeArticle, TypePodcast, TypeVideo, TypeAd, TypeKeyword, TypeImage,
}

// Known reports whether t is one of the six content types.
func (t ContentType) Known() bool {
	for _, k := range ContentTypes {
		if t == k {
			return true
		}
	}
	return false
}

// BrandProfile is the captured brand identity used as context for every
// generation call. It is never mutated after capture.
type BrandProfile struct {
	URL            string   `json:"url,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	BrandVoice     string   `json:"brandVoice"`
	TargetAudience string   `json:"targetAudience"`
	Keywords       []string `json:"keywords"`
}

// Strategy is the top-level marketing plan. It owns its phases and tasks;
// a new planning cycle replaces the whole thing.
type Strategy struct {
	ID           string       `json:"id"`
	CreatedAt    time.Time    `json:"created_at"`
	BrandProfile BrandProfile `json:"brandProfile"`
	Objectives   []string     `json:"objectives"`
	Phases       []Phase      `json:"phases"`
}

// Phase groups tasks inside a strategy. Pure grouping, no lifecycle of its own.
type Phase struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Tasks []Task `json:"tasks"`
}

// Task is one planned unit of content work.
type Task struct {
	ID            string        `json:"id"`
	Type          ContentType   `json:"type"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Status        ContentStatus `json:"status"`
	ScheduledDate string        `json:"scheduledDate,omitempty"`
	ContentID     string        `json:"contentId,omitempty"`
}

// ContentItem is the generated artifact for a task. Content is opaque:
// plain text, HTML, or a serialized JSON payload depending on Type.
type ContentItem struct {
	ID        string        `json:"id"`
	TaskID    string        `json:"taskId"`
	Type      ContentType   `json:"type"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Status    ContentStatus `json:"status"`
	Feedback  string        `json:"feedback,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// FindTask walks phases in order, tasks in order, and returns the task with
// the given id, or nil.
func (s *Strategy) FindTask(taskID string) *Task {
	for pi := range s.Phases {
		for ti := range s.Phases[pi].Tasks {
			if s.Phases[pi].Tasks[ti].ID == taskID {
				return &s.Phases[pi].Tasks[ti]
			}
		}
	}
	return nil
}

// NextPlanned returns the first PLANNED task in deterministic order
// (phase order, then task order within the phase), or nil when none remain.
func (s *Strategy) NextPlanned() *Task {
	for pi := range s.Phases {
		for ti := range s.Phases[pi].Tasks {
			if s.Phases[pi].Tasks[ti].Status == StatusPlanned {
				return &s.Phases[pi].Tasks[ti]
			}
		}
	}
	return nil
}

// CountTasks returns the number of tasks across all phases, and how many of
// them currently have the given status.
func (s *Strategy) CountTasks(status ContentStatus) (total, matching int) {
	for pi := range s.Phases {
		for ti := range s.Phases[pi].Tasks {
			total++
			if s.Phases[pi].Tasks[ti].Status == status {
				matching++
			}
		}
	}
	return total, matching
}
