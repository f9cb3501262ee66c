package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/interview/pkg/interview"
)

// SessionRepository хранит историю интервью в локальном файле SQLite.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) (*SessionRepository, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	return &SessionRepository{db: db}, nil
}

const selectColumns = `id, owner_id, position, interview_type, session_date, duration, score, status, total_questions, responses, report, created_at`

func (r *SessionRepository) Append(ctx context.Context, s interview.SessionSummary) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	responsesJSON, err := json.Marshal(s.Responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}
	reportJSON, err := json.Marshal(s.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	// REPLACE даёт новый seq, поэтому перезаписанная сессия оказывается первой
	_, err = r.db.ExecContext(ctx, `
INSERT OR REPLACE INTO interview_sessions (id, owner_id, position, interview_type, session_date, duration, score, status, total_questions, responses, report, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.ID.String(), s.OwnerID.String(), s.Position, string(s.Type), s.Date, s.Duration, s.Score, s.Status, s.TotalQuestions,
		string(responsesJSON), string(reportJSON), s.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (r *SessionRepository) ListAll(ctx context.Context, ownerID uuid.UUID) ([]interview.SessionSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM interview_sessions WHERE owner_id = ? ORDER BY seq DESC`, ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []interview.SessionSummary{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SessionRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (interview.SessionSummary, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM interview_sessions WHERE id = ? AND owner_id = ?`, id.String(), ownerID.String())
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return interview.SessionSummary{}, interview.ErrNotFound
		}
		return interview.SessionSummary{}, err
	}
	return s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (interview.SessionSummary, error) {
	var (
		s                         interview.SessionSummary
		id, owner, typ, created   string
		responsesJSON, reportJSON string
	)
	if err := row.Scan(&id, &owner, &s.Position, &typ, &s.Date, &s.Duration, &s.Score, &s.Status, &s.TotalQuestions, &responsesJSON, &reportJSON, &created); err != nil {
		return interview.SessionSummary{}, err
	}
	var err error
	if s.ID, err = uuid.Parse(id); err != nil {
		return interview.SessionSummary{}, fmt.Errorf("decode id: %w", err)
	}
	if s.OwnerID, err = uuid.Parse(owner); err != nil {
		return interview.SessionSummary{}, fmt.Errorf("decode owner id: %w", err)
	}
	s.Type = interview.Type(typ)
	if err := json.Unmarshal([]byte(responsesJSON), &s.Responses); err != nil {
		return interview.SessionSummary{}, fmt.Errorf("decode responses: %w", err)
	}
	if err := json.Unmarshal([]byte(reportJSON), &s.Report); err != nil {
		return interview.SessionSummary{}, fmt.Errorf("decode report: %w", err)
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return interview.SessionSummary{}, fmt.Errorf("decode created_at: %w", err)
	}
	return s, nil
}
