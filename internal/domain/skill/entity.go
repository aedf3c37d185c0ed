package skill

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinProficiency = 0
	MaxProficiency = 10

	MaxNameLength         = 100
	MaxCategoryNameLength = 64
)

type Category struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	Color       string
	SkillCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Skill struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	CategoryID        uuid.UUID
	CategoryName      string
	Name              string
	Description       string
	Proficiency       int
	TargetProficiency *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AtTarget reports whether the skill has a target and has reached it.
func (s Skill) AtTarget() bool {
	return s.TargetProficiency != nil && s.Proficiency >= *s.TargetProficiency
}

type HistorySource string

const (
	SourceCreated    HistorySource = "CREATED"
	SourceManual     HistorySource = "MANUAL"
	SourceAssessment HistorySource = "ASSESSMENT"
)

type History struct {
	ID                  uuid.UUID
	SkillID             uuid.UUID
	UserID              uuid.UUID
	SkillName           string
	PreviousProficiency *int
	NewProficiency      int
	Source              HistorySource
	AssessmentID        *uuid.UUID
	Note                string
	CreatedAt           time.Time
}

// Delta is the change recorded by the entry; creation counts from zero.
func (h History) Delta() int {
	if h.PreviousProficiency == nil {
		return h.NewProficiency
	}
	return h.NewProficiency - *h.PreviousProficiency
}

func ValidProficiency(v int) bool {
	return v >= MinProficiency && v <= MaxProficiency
}

// ClampProficiency forces v into the proficiency range.
func ClampProficiency(v int) int {
	if v < MinProficiency {
		return MinProficiency
	}
	if v > MaxProficiency {
		return MaxProficiency
	}
	return v
}
