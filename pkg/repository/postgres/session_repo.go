package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/interview/pkg/interview"
)

// SessionRepository хранит историю интервью в PostgreSQL.
// Схема создаётся миграциями (pkg/storage/migrations).
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

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
	_, err = r.pool.Exec(ctx, `
INSERT INTO interview_sessions (id, owner_id, position, interview_type, session_date, duration, score, status, total_questions, responses, report, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET
	position = EXCLUDED.position,
	interview_type = EXCLUDED.interview_type,
	session_date = EXCLUDED.session_date,
	duration = EXCLUDED.duration,
	score = EXCLUDED.score,
	status = EXCLUDED.status,
	total_questions = EXCLUDED.total_questions,
	responses = EXCLUDED.responses,
	report = EXCLUDED.report,
	created_at = EXCLUDED.created_at
`, s.ID, s.OwnerID, s.Position, string(s.Type), s.Date, s.Duration, s.Score, s.Status, s.TotalQuestions, responsesJSON, reportJSON, s.CreatedAt)
	return err
}

func (r *SessionRepository) ListAll(ctx context.Context, ownerID uuid.UUID) ([]interview.SessionSummary, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, owner_id, position, interview_type, session_date, duration, score, status, total_questions, responses, report, created_at
FROM interview_sessions WHERE owner_id = $1
ORDER BY created_at DESC, seq DESC
`, ownerID)
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
	row := r.pool.QueryRow(ctx, `
SELECT id, owner_id, position, interview_type, session_date, duration, score, status, total_questions, responses, report, created_at
FROM interview_sessions WHERE id = $1 AND owner_id = $2
`, id, ownerID)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return interview.SessionSummary{}, interview.ErrNotFound
		}
		return interview.SessionSummary{}, err
	}
	return s, nil
}

func scanSession(row pgx.Row) (interview.SessionSummary, error) {
	var s interview.SessionSummary
	var typ string
	var responsesBytes, reportBytes []byte
	var created time.Time
	if err := row.Scan(&s.ID, &s.OwnerID, &s.Position, &typ, &s.Date, &s.Duration, &s.Score, &s.Status, &s.TotalQuestions, &responsesBytes, &reportBytes, &created); err != nil {
		return interview.SessionSummary{}, err
	}
	s.Type = interview.Type(typ)
	if err := json.Unmarshal(responsesBytes, &s.Responses); err != nil {
		return interview.SessionSummary{}, fmt.Errorf("decode responses: %w", err)
	}
	if err := json.Unmarshal(reportBytes, &s.Report); err != nil {
		return interview.SessionSummary{}, fmt.Errorf("decode report: %w", err)
	}
	s.CreatedAt = created.UTC()
	return s, nil
}
