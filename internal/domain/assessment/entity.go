package assessment

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeSelf          Type = "SELF"
	TypePeerReview    Type = "PEER_REVIEW"
	TypeCertification Type = "CERTIFICATION"
	TypeAutomated     Type = "AUTOMATED"
)

var Types = []Type{TypeSelf, TypePeerReview, TypeCertification, TypeAutomated}

func ParseType(s string) (Type, bool) {
	for _, t := range Types {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

type Assessment struct {
	ID         uuid.UUID
	SkillID    uuid.UUID
	UserID     uuid.UUID
	SkillName  string
	Type       Type
	Score      int
	Notes      string
	AssessedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
