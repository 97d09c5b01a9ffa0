package decision

import (
	"errors"
	"time"
)

// Type classifies a decision by severity.
type Type string

const (
	// TypeLifeLevel marks decisions whose failure costs more than a year of
	// income or recovery time. Triggers the mandatory action checklist.
	TypeLifeLevel Type = "life_level"
	// TypeImportant marks decisions with bounded, sub-year recovery cost.
	TypeImportant Type = "important"
	// TypeDaily marks low-stakes decisions that can be adjusted quickly.
	TypeDaily Type = "daily"
)

// Valid reports whether t is one of the enumerated decision types.
func (t Type) Valid() bool {
	switch t {
	case TypeLifeLevel, TypeImportant, TypeDaily:
		return true
	}
	return false
}

// RiskLevel is the coarse severity classification stamped at creation.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Status is the lifecycle state of a decision.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusAccepted, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Result records how a completed decision turned out.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
	ResultPartial Result = "partial"
)

// Valid reports whether r is one of the enumerated results.
func (r Result) Valid() bool {
	switch r {
	case ResultSuccess, ResultFailure, ResultPartial:
		return true
	}
	return false
}

// Sentinel errors returned by the store and lifecycle service.
var (
	// ErrNotFound indicates no record exists for the given ID.
	ErrNotFound = errors.New("decision not found")
	// ErrInvalidType indicates an unknown decision type.
	ErrInvalidType = errors.New("invalid decision type")
	// ErrInvalidStatus indicates an unknown lifecycle status.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidResult indicates an unknown completion result.
	ErrInvalidResult = errors.New("invalid result")
)

// StatusChange is one entry in a decision's audit trail.
type StatusChange struct {
	Timestamp time.Time `json:"timestamp"`
	From      Status    `json:"from_status"`
	To        Status    `json:"to_status"`
	Note      string    `json:"note"`
}

// Decision is the persisted unit representing one tracked choice and its
// resolution. EmotionRatio and RiskLevel are computed once at creation and
// never recomputed; they reflect the decision at the moment of capture.
type Decision struct {
	// ID is the unique identifier, date-prefixed for sortability.
	ID string `json:"decision_id"`

	// Timestamp mirrors CreatedAt; kept for the persisted layout.
	Timestamp time.Time `json:"timestamp"`

	// Type is the severity class. Immutable after creation.
	Type Type `json:"type"`

	// Description is the free-text statement of the decision. Immutable.
	Description string `json:"description"`

	// RationalAnalysis is the reasoning captured at creation. Immutable.
	RationalAnalysis string `json:"rational_analysis"`

	// EmotionalFactors are the caller-supplied emotion tags. Immutable.
	EmotionalFactors []string `json:"emotional_factors"`

	// EmotionRatio is the derived [0,1] emotional-influence score.
	EmotionRatio float64 `json:"emotion_ratio"`

	// RiskLevel is the derived severity classification.
	RiskLevel RiskLevel `json:"risk_level"`

	// AIWarning is an optional advisory set at creation.
	AIWarning string `json:"ai_warning"`

	// RequiredActions is the mandatory checklist, non-empty iff life_level.
	RequiredActions []string `json:"required_actions"`

	// Outcome is the current lifecycle status.
	Outcome Status `json:"outcome"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Completion fields, set together when Outcome becomes completed.
	Result         Result     `json:"result,omitempty"`
	FinalOutcome   string     `json:"final_outcome,omitempty"`
	LessonsLearned string     `json:"lessons_learned,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`

	// StatusHistory is the append-only audit trail. Entries are added only
	// for status changes that carry a note.
	StatusHistory []StatusChange `json:"status_history,omitempty"`
}

// Completed reports whether the record carries a full completion sub-state.
func (d *Decision) Completed() bool {
	return d.Outcome == StatusCompleted && d.Result != "" && d.FinalOutcome != "" && d.CompletedAt != nil
}

// CreateRequest holds the caller-supplied fields for a new decision.
type CreateRequest struct {
	Description      string
	Type             Type
	RationalAnalysis string
	EmotionalFactors []string
	AIWarning        string
}

// ListRequest filters a listing. Zero values mean no filtering.
type ListRequest struct {
	// WindowDays restricts results to records created within the last N days.
	WindowDays int
	// Status restricts results to records with the given outcome.
	Status Status
}

// Scorer computes the derived classification fields for a new decision.
// Implemented by the classifier package; defined here so the store can
// depend on the behavior without importing the implementation.
type Scorer interface {
	Score(t Type, emotionalFactors []string) (emotionRatio float64, risk RiskLevel, requiredActions []string)
}
