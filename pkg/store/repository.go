package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	mnerrors "github.com/minutedesk/mins-cli/pkg/errors"
	"github.com/minutedesk/mins-cli/pkg/logging"
	"github.com/minutedesk/mins-cli/pkg/meeting"
)

// MeetingSummary is the list-view projection of a meeting.
type MeetingSummary struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Type        meeting.Type `json:"type"`
	Date        time.Time    `json:"date"`
	Status      string       `json:"status"`
	ActionCount int          `json:"action_count"`
}

// MeetingStore is the persistence surface the commands depend on.
type MeetingStore interface {
	Save(ctx context.Context, m *meeting.Meeting) error
	Get(ctx context.Context, id string) (*meeting.Meeting, error)
	List(ctx context.Context) ([]MeetingSummary, error)
	Delete(ctx context.Context, id string) error
}

// MeetingRepository is the PostgreSQL-backed MeetingStore.
type MeetingRepository struct {
	pool    *pgxpool.Pool
	log     logging.Logger
	metrics *Metrics
}

// NewMeetingRepository creates a repository over an existing pool.
func NewMeetingRepository(pool *pgxpool.Pool, log logging.Logger, metrics *Metrics) *MeetingRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &MeetingRepository{pool: pool, log: log, metrics: metrics}
}

// jsonList encodes a slice for a jsonb column. A nil slice becomes an empty
// JSON array, not the scalar null, so array functions stay usable in SQL.
func jsonList[T any](items []T) ([]byte, error) {
	if items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(items)
}

// Save upserts the meeting. Attendees and actions travel as JSONB.
func (r *MeetingRepository) Save(ctx context.Context, m *meeting.Meeting) error {
	if m.ID == "" {
		return fmt.Errorf("meeting id is empty: %w", mnerrors.ErrValidation)
	}
	if !m.Type.Valid() {
		return fmt.Errorf("invalid meeting type %q: %w", m.Type, mnerrors.ErrValidation)
	}

	attendees, err := jsonList(m.Attendees)
	if err != nil {
		return fmt.Errorf("failed to encode attendees: %w", err)
	}
	actions, err := jsonList(m.Actions)
	if err != nil {
		return fmt.Errorf("failed to encode actions: %w", err)
	}

	start := time.Now()
	_, err = r.pool.Exec(ctx, `
		INSERT INTO meetings (
			id, title, type, date, start_time, location, case_ref,
			consent_confirmed, attendees, transcript_text, minutes_text,
			actions, status, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			type = EXCLUDED.type,
			date = EXCLUDED.date,
			start_time = EXCLUDED.start_time,
			location = EXCLUDED.location,
			case_ref = EXCLUDED.case_ref,
			consent_confirmed = EXCLUDED.consent_confirmed,
			attendees = EXCLUDED.attendees,
			transcript_text = EXCLUDED.transcript_text,
			minutes_text = EXCLUDED.minutes_text,
			actions = EXCLUDED.actions,
			status = EXCLUDED.status,
			updated_at = now()`,
		m.ID, m.Title, string(m.Type), m.Date, m.StartTime, m.Location,
		m.CaseRef, m.ConsentConfirmed, attendees, m.TranscriptText,
		m.MinutesText, actions, string(m.Status),
	)
	r.metrics.observeQuery("save", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to save meeting %s: %w", m.ID, err)
	}

	r.log.Debug("meeting saved", logging.F("meeting_id", m.ID), logging.F("status", string(m.Status)))
	return nil
}

// Get loads a meeting by ID. Returns ErrNotFound when no row matches.
func (r *MeetingRepository) Get(ctx context.Context, id string) (*meeting.Meeting, error) {
	start := time.Now()
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, type, date, start_time, location, case_ref,
			consent_confirmed, attendees, transcript_text, minutes_text,
			actions, status
		FROM meetings WHERE id = $1`, id)

	var (
		m             meeting.Meeting
		mtype, status string
		attendees     []byte
		actions       []byte
	)
	err := row.Scan(&m.ID, &m.Title, &mtype, &m.Date, &m.StartTime,
		&m.Location, &m.CaseRef, &m.ConsentConfirmed, &attendees,
		&m.TranscriptText, &m.MinutesText, &actions, &status)
	r.metrics.observeQuery("get", time.Since(start), err)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("meeting %s: %w", id, mnerrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load meeting %s: %w", id, err)
	}

	m.Type = meeting.Type(mtype)
	m.Status = meeting.Status(status)
	if err := json.Unmarshal(attendees, &m.Attendees); err != nil {
		return nil, fmt.Errorf("failed to decode attendees for %s: %w", id, err)
	}
	if err := json.Unmarshal(actions, &m.Actions); err != nil {
		return nil, fmt.Errorf("failed to decode actions for %s: %w", id, err)
	}

	return &m, nil
}

// List returns summaries of all meetings, newest first.
func (r *MeetingRepository) List(ctx context.Context) ([]MeetingSummary, error) {
	start := time.Now()
	// COALESCE guards rows whose actions column holds jsonb null rather
	// than an empty array; jsonb_array_length rejects scalars.
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, type, date, status,
			jsonb_array_length(COALESCE(NULLIF(actions, 'null'::jsonb), '[]'::jsonb))
		FROM meetings ORDER BY date DESC`)
	r.metrics.observeQuery("list", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	var out []MeetingSummary
	for rows.Next() {
		var (
			s     MeetingSummary
			mtype string
		)
		if err := rows.Scan(&s.ID, &s.Title, &mtype, &s.Date, &s.Status, &s.ActionCount); err != nil {
			return nil, fmt.Errorf("failed to scan meeting summary: %w", err)
		}
		s.Type = meeting.Type(mtype)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meetings: %w", err)
	}

	return out, nil
}

// Delete removes a meeting. Returns ErrNotFound when no row matched.
func (r *MeetingRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	r.metrics.observeQuery("delete", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to delete meeting %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("meeting %s: %w", id, mnerrors.ErrNotFound)
	}

	r.log.Debug("meeting deleted", logging.F("meeting_id", id))
	return nil
}
