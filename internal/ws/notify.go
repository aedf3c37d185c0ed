package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventSkillUpdated       = "skill_updated"
	EventSkillDeleted       = "skill_deleted"
	EventAssessmentRecorded = "assessment_recorded"
)

type Event struct {
	Type        string    `json:"type"`
	SkillID     uuid.UUID `json:"skill_id"`
	Proficiency *int      `json:"proficiency,omitempty"`
	Timestamp   string    `json:"timestamp"`
}

func NewEvent(typ string, skillID uuid.UUID, proficiency *int) Event {
	return Event{
		Type:        typ,
		SkillID:     skillID,
		Proficiency: proficiency,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

// Publish queues evt for every open connection of userID.
func (h *Hub) Publish(userID uuid.UUID, evt Event) {
	if h == nil {
		return
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.send(userID, b)
}
