// Package ingest is the write boundary for session records. Malformed
// payloads (unknown types, negative durations, inverted timestamps) are
// rejected here so the read-side consumers downstream never have to
// repair data.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/flowfocus/internal/models"
	"github.com/claude/flowfocus/internal/notify"
	"github.com/claude/flowfocus/internal/storage"
	"github.com/google/uuid"
)

// Result holds the outcome of an ingest operation.
type Result struct {
	Received int      `json:"received"`
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Rejected int      `json:"rejected"`
	Reasons  []string `json:"reasons,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// Provider validates and stores incoming session records.
type Provider struct {
	db       *storage.DB
	notifier *notify.Broadcaster
	log      *slog.Logger
}

// NewProvider creates an ingest Provider.
func NewProvider(db *storage.DB, notifier *notify.Broadcaster, log *slog.Logger) *Provider {
	return &Provider{db: db, notifier: notifier, log: log}
}

// ValidateSession checks a payload against the session contract and
// converts it to a row. An empty id gets a fresh one.
func ValidateSession(p models.SessionPayload, userID int) (models.SessionRow, error) {
	var row models.SessionRow

	typ, err := models.ParseSessionType(p.Type)
	if err != nil {
		return row, err
	}
	if p.DurationSec < 0 {
		return row, fmt.Errorf("negative duration %d", p.DurationSec)
	}

	started, err := time.Parse(time.RFC3339, p.StartedAt)
	if err != nil {
		return row, fmt.Errorf("parsing started_at: %w", err)
	}
	completed, err := time.Parse(time.RFC3339, p.CompletedAt)
	if err != nil {
		return row, fmt.Errorf("parsing completed_at: %w", err)
	}
	if completed.Before(started) {
		return row, fmt.Errorf("completed_at %s before started_at %s", p.CompletedAt, p.StartedAt)
	}

	id := uuid.New()
	if p.ID != "" {
		id, err = uuid.Parse(p.ID)
		if err != nil {
			return row, fmt.Errorf("parsing id: %w", err)
		}
	}

	return models.SessionRow{
		ID:          id,
		UserID:      userID,
		Type:        typ,
		DurationSec: p.DurationSec,
		StartedAt:   started,
		CompletedAt: completed,
	}, nil
}

// Ingest validates and inserts a batch of session payloads. Duplicate ids
// are skipped, invalid payloads rejected; one bad record never fails the
// batch. A single change notification fires when anything was inserted.
func (p *Provider) Ingest(ctx context.Context, userID int, payloads []models.SessionPayload) (*Result, error) {
	result := &Result{Received: len(payloads)}

	for _, payload := range payloads {
		row, err := ValidateSession(payload, userID)
		if err != nil {
			result.Rejected++
			result.Reasons = append(result.Reasons, err.Error())
			continue
		}

		inserted, err := p.db.InsertSession(ctx, row)
		if err != nil {
			return result, fmt.Errorf("ingesting session %s: %w", row.ID, err)
		}
		if inserted {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}

	if result.Inserted > 0 {
		p.notifier.Publish()
	}

	p.log.Info("session ingest",
		"received", result.Received,
		"inserted", result.Inserted,
		"skipped", result.Skipped,
		"rejected", result.Rejected,
	)
	return result, nil
}

// SaveSession persists a single engine-produced session and signals the
// change. It satisfies the timer engine's writer contract.
func (p *Provider) SaveSession(ctx context.Context, row models.SessionRow) error {
	inserted, err := p.db.InsertSession(ctx, row)
	if err != nil {
		return fmt.Errorf("saving timer session: %w", err)
	}
	if inserted {
		p.notifier.Publish()
	}
	return nil
}
