package models

// ContentStatus is the shared lifecycle vocabulary for tasks and content
// items. A task's status mirrors its linked content item's status at all
// times; PLANNED is the only state with no content item behind it.
type ContentStatus string

const (
	StatusPlanned         ContentStatus = "PLANNED"
	StatusPendingApproval ContentStatus = "PENDING_APPROVAL"
	StatusApproved        ContentStatus = "APPROVED"
	StatusPublished       ContentStatus = "PUBLISHED"
	StatusDraft           ContentStatus = "DRAFT"
	StatusFailed          ContentStatus = "FAILED"
)

// transitions is the closed set of legal status edges. FAILED is reachable
// from any non-terminal state and is handled in CanTransition directly.
var transitions = map[ContentStatus][]ContentStatus{
	StatusPlanned:         {StatusPendingApproval},
	StatusPendingApproval: {StatusApproved, StatusPublished, StatusDraft},
	StatusApproved:        {StatusPublished, StatusDraft},
	StatusDraft:           {StatusPendingApproval},
	StatusPublished:       {},
	StatusFailed:          {},
}

// Note: PENDING_APPROVAL -> PUBLISHED is the auto-publish fast path; every
// other route to PUBLISHED goes through an explicit APPROVED step.

// Terminal reports whether no further transitions leave s.
func (s ContentStatus) Terminal() bool {
	return s == StatusPublished || s == StatusFailed
}

// Valid reports whether s is one of the six lifecycle states.
func (s ContentStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether moving from s to next is a legal edge of the
// lifecycle state machine.
func (s ContentStatus) CanTransition(next ContentStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if next == StatusFailed {
		return !s.Terminal()
	}
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}
