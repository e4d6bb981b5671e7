// Package meeting defines the meeting domain model shared by the recorder,
// the minutes compiler, and the store.
package meeting

import (
	"strings"
	"time"

	"github.com/google/uuid"

	mnerrors "github.com/minutedesk/mins-cli/pkg/errors"
)

// Type classifies a meeting. Disciplinary and investigation meetings carry
// extra compliance requirements (case reference, HR addendum in the minutes).
type Type string

const (
	TypeOneOnOne      Type = "one_on_one"
	TypeTeam          Type = "team"
	TypeDisciplinary  Type = "disciplinary"
	TypeInvestigation Type = "investigation"
)

// IsHRCase reports whether the meeting type is an HR case type.
func (t Type) IsHRCase() bool {
	return t == TypeDisciplinary || t == TypeInvestigation
}

// Valid reports whether t is a known meeting type.
func (t Type) Valid() bool {
	switch t {
	case TypeOneOnOne, TypeTeam, TypeDisciplinary, TypeInvestigation:
		return true
	}
	return false
}

// Status is the meeting lifecycle state. Completed is terminal.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
)

// Attendee is a meeting participant.
type Attendee struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
}

// ActionItem is an owner-assignable task extracted from the transcript or
// supplied by the user.
type ActionItem struct {
	ID       string `json:"id" yaml:"id"`
	Action   string `json:"action" yaml:"action"`
	Owner    string `json:"owner" yaml:"owner"`
	Deadline string `json:"deadline,omitempty" yaml:"deadline,omitempty"`
}

// Action text length bounds after cleanup. Items outside these are dropped,
// never stored malformed.
const (
	ActionMinLen = 8
	ActionMaxLen = 150
)

// Validate checks the action item invariants.
func (a *ActionItem) Validate() error {
	text := strings.TrimSpace(a.Action)
	if len(text) < ActionMinLen || len(text) > ActionMaxLen {
		return mnerrors.ErrValidation
	}
	return nil
}

// MarkerType classifies a recording marker.
type MarkerType string

const (
	MarkerDecision MarkerType = "decision"
	MarkerAction   MarkerType = "action"
	MarkerKeyPoint MarkerType = "keypoint"
)

// Valid reports whether m is a known marker type.
func (m MarkerType) Valid() bool {
	switch m {
	case MarkerDecision, MarkerAction, MarkerKeyPoint:
		return true
	}
	return false
}

// RecordingMarker is a user-entered timestamped marker captured during a
// recording session. Append-only during a session; cleared on reset.
type RecordingMarker struct {
	ID               string     `json:"id"`
	TimestampSeconds int        `json:"timestamp_seconds"`
	Type             MarkerType `json:"type"`
	Note             string     `json:"note,omitempty"`
}

// Meeting is the central record. The recorder owns TranscriptText, the
// minutes compiler owns MinutesText and Actions; Status is advanced by the
// surrounding application, not the core.
type Meeting struct {
	ID               string       `json:"id" yaml:"id"`
	Title            string       `json:"title" yaml:"title"`
	Type             Type         `json:"type" yaml:"type"`
	Date             time.Time    `json:"date" yaml:"date"`
	StartTime        string       `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	Location         string       `json:"location,omitempty" yaml:"location,omitempty"`
	CaseRef          string       `json:"case_ref,omitempty" yaml:"case_ref,omitempty"`
	ConsentConfirmed bool         `json:"consent_confirmed" yaml:"consent_confirmed"`
	Attendees        []Attendee   `json:"attendees,omitempty" yaml:"attendees,omitempty"`
	TranscriptText   string       `json:"transcript_text,omitempty" yaml:"transcript_text,omitempty"`
	MinutesText      string       `json:"minutes_text,omitempty" yaml:"minutes_text,omitempty"`
	Actions          []ActionItem `json:"actions,omitempty" yaml:"actions,omitempty"`
	Status           Status       `json:"status" yaml:"status"`
}

// New creates a draft meeting with a fresh ID.
func New(title string, mtype Type) *Meeting {
	return &Meeting{
		ID:     uuid.NewString(),
		Title:  title,
		Type:   mtype,
		Date:   time.Now(),
		Status: StatusDraft,
	}
}

// NewActionItem creates a validated action item. Owner defaults to "Team"
// when empty. Returns ErrValidation when the action text is out of bounds.
func NewActionItem(action, owner, deadline string) (ActionItem, error) {
	if owner == "" {
		owner = "Team"
	}
	item := ActionItem{
		ID:       uuid.NewString(),
		Action:   strings.TrimSpace(action),
		Owner:    owner,
		Deadline: deadline,
	}
	if err := item.Validate(); err != nil {
		return ActionItem{}, err
	}
	return item, nil
}

// NewMarker creates a recording marker stamped at the given elapsed second.
func NewMarker(mtype MarkerType, elapsedSeconds int, note string) RecordingMarker {
	return RecordingMarker{
		ID:               uuid.NewString(),
		TimestampSeconds: elapsedSeconds,
		Type:             mtype,
		Note:             note,
	}
}
