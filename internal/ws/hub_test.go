package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_PublishReachesOnlyOwner(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	owner, other := uuid.New(), uuid.New()
	a := NewClient(hub, nil, owner)
	b := NewClient(hub, nil, owner)
	c := NewClient(hub, nil, other)
	hub.Register(a)
	hub.Register(b)
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 3 })

	skillID := uuid.New()
	p := 7
	hub.Publish(owner, NewEvent(EventAssessmentRecorded, skillID, &p))

	for _, cl := range []*Client{a, b} {
		select {
		case raw := <-cl.send:
			var evt Event
			if err := json.Unmarshal(raw, &evt); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if evt.Type != EventAssessmentRecorded || evt.SkillID != skillID || evt.Proficiency == nil || *evt.Proficiency != 7 {
				t.Fatalf("unexpected event %+v", evt)
			}
		case <-time.After(time.Second):
			t.Fatalf("owner connection did not receive the event")
		}
	}

	select {
	case raw := <-c.send:
		t.Fatalf("other user received %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	cl := NewClient(hub, nil, uuid.New())
	hub.Register(cl)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Unregister(cl)
	waitFor(t, func() bool { return hub.ClientCount() == 0 })

	if _, open := <-cl.send; open {
		t.Fatalf("expected send channel closed")
	}
}

func TestHub_NilIsSafe(t *testing.T) {
	var hub *Hub
	hub.Publish(uuid.New(), NewEvent(EventSkillDeleted, uuid.New(), nil))
	if hub.ClientCount() != 0 {
		t.Fatalf("expected zero clients")
	}
}
