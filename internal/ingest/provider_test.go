package ingest

import (
	"testing"

	"github.com/claude/flowfocus/internal/models"
	"github.com/google/uuid"
)

func payload(typ string, durationSec int) models.SessionPayload {
	return models.SessionPayload{
		Type:        typ,
		DurationSec: durationSec,
		StartedAt:   "2024-06-12T09:00:00Z",
		CompletedAt: "2024-06-12T09:25:00Z",
	}
}

func TestValidateSessionValid(t *testing.T) {
	row, err := ValidateSession(payload("focus", 1500), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Type != models.TypeFocus {
		t.Errorf("type = %s, want focus", row.Type)
	}
	if row.DurationSec != 1500 {
		t.Errorf("duration = %d, want 1500", row.DurationSec)
	}
	if row.UserID != 1 {
		t.Errorf("user_id = %d, want 1", row.UserID)
	}
	if row.ID == uuid.Nil {
		t.Error("id not assigned")
	}
}

func TestValidateSessionKeepsClientID(t *testing.T) {
	id := uuid.New()
	p := payload("break", 300)
	p.ID = id.String()

	row, err := ValidateSession(p, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.ID != id {
		t.Errorf("id = %s, want %s", row.ID, id)
	}
}

func TestValidateSessionRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SessionPayload)
	}{
		{"unknown type", func(p *models.SessionPayload) { p.Type = "nap" }},
		{"negative duration", func(p *models.SessionPayload) { p.DurationSec = -5 }},
		{"bad started_at", func(p *models.SessionPayload) { p.StartedAt = "yesterday" }},
		{"bad completed_at", func(p *models.SessionPayload) { p.CompletedAt = "" }},
		{"completed before started", func(p *models.SessionPayload) {
			p.CompletedAt = "2024-06-12T08:00:00Z"
		}},
		{"malformed id", func(p *models.SessionPayload) { p.ID = "not-a-uuid" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := payload("focus", 1500)
			tt.mutate(&p)
			if _, err := ValidateSession(p, 1); err == nil {
				t.Error("expected rejection, got nil")
			}
		})
	}
}

func TestValidateSessionAllTypes(t *testing.T) {
	for _, typ := range []string{"focus", "break", "long_break"} {
		if _, err := ValidateSession(payload(typ, 300), 1); err != nil {
			t.Errorf("type %q rejected: %v", typ, err)
		}
	}
}
