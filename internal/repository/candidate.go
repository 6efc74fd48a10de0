package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhishek622/exitview/internal/lifecycle"
	"github.com/abhishek622/exitview/pkg"
	"github.com/abhishek622/exitview/pkg/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CandidateRepository is the PostgreSQL record store for candidates and their follow-up attempts.
type CandidateRepository struct {
	db     *pgxpool.Pool
	crypto *pkg.Crypto
}

var _ lifecycle.Store = (*CandidateRepository)(nil)

const candidateCols = `
	candidate_id, project_id, name, email, phone_enc, employee_code, department, designation, exit_date,
	overall_status, status_overridden, max_followup_attempts, attempt_window_start,
	assigned_interviewer, assigned_by,
	scheduled_date, started_at, completed_at, interview_duration_minutes, answers_submitted, questionnaire_id,
	report_id, is_active, version, created_at, updated_at`

func (r *CandidateRepository) CreateCandidate(ctx context.Context, c *model.Candidate) error {
	phone, err := r.sealPhone(c.Phone)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO candidates (` + candidateCols + `
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
`
	iv := c.InterviewDetails
	_, err = r.db.Exec(ctx, q,
		c.CandidateID, c.ProjectID, c.Name, c.Email, phone, c.EmployeeCode, c.Department, c.Designation, c.ExitDate,
		c.OverallStatus, c.StatusOverridden, c.MaxFollowupAttempts, c.AttemptWindowStart,
		c.AssignedInterviewer, c.AssignedBy,
		iv.ScheduledDate, iv.StartedAt, iv.CompletedAt, iv.InterviewDurationMinutes, iv.AnswersSubmitted, iv.QuestionnaireID,
		c.ReportID, c.IsActive, c.Version, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

func (r *CandidateRepository) GetCandidate(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	q := `SELECT ` + candidateCols + ` FROM candidates WHERE candidate_id = $1`
	c, err := r.scanCandidate(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, lifecycle.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("scan candidate: %w", err)
	}

	attempts, err := r.listAttempts(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	c.FollowupAttempts = attempts[id]
	if c.FollowupAttempts == nil {
		c.FollowupAttempts = []model.FollowupAttempt{}
	}
	return c, nil
}

func (r *CandidateRepository) ListProjectCandidates(ctx context.Context, projectID uuid.UUID) ([]model.Candidate, error) {
	q := `SELECT ` + candidateCols + ` FROM candidates WHERE project_id = $1 ORDER BY created_at ASC, candidate_id ASC`
	rows, err := r.db.Query(ctx, q, projectID)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	out := make([]model.Candidate, 0, 16)
	ids := make([]uuid.UUID, 0, 16)
	for rows.Next() {
		c, err := r.scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate row: %w", err)
		}
		out = append(out, *c)
		ids = append(ids, c.CandidateID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	attempts, err := r.listAttempts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].FollowupAttempts = attempts[out[i].CandidateID]
		if out[i].FollowupAttempts == nil {
			out[i].FollowupAttempts = []model.FollowupAttempt{}
		}
	}
	return out, nil
}

// SaveCandidate writes the lifecycle fields and any new follow-up attempts
// in one transaction, guarded by the version read earlier.
func (r *CandidateRepository) SaveCandidate(ctx context.Context, c *model.Candidate, expectedVersion int64) error {
	err := execTx(ctx, r.db, func(tx pgx.Tx) error {
		const q = `
UPDATE candidates SET
	overall_status = $1, status_overridden = $2, max_followup_attempts = $3, attempt_window_start = $4,
	assigned_interviewer = $5, assigned_by = $6,
	scheduled_date = $7, started_at = $8, completed_at = $9, interview_duration_minutes = $10,
	answers_submitted = $11, questionnaire_id = $12, report_id = $13,
	updated_at = $14, version = version + 1
WHERE candidate_id = $15 AND version = $16
`
		iv := c.InterviewDetails
		tag, err := tx.Exec(ctx, q,
			c.OverallStatus, c.StatusOverridden, c.MaxFollowupAttempts, c.AttemptWindowStart,
			c.AssignedInterviewer, c.AssignedBy,
			iv.ScheduledDate, iv.StartedAt, iv.CompletedAt, iv.InterviewDurationMinutes,
			iv.AnswersSubmitted, iv.QuestionnaireID, c.ReportID,
			c.UpdatedAt, c.CandidateID, expectedVersion,
		)
		if err != nil {
			return fmt.Errorf("update candidate: %w", err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM candidates WHERE candidate_id = $1)`, c.CandidateID).Scan(&exists); err != nil {
				return fmt.Errorf("check candidate exists: %w", err)
			}
			if !exists {
				return lifecycle.ErrCandidateNotFound
			}
			return lifecycle.ErrConcurrentModification
		}

		var persisted int
		const qMax = `SELECT COALESCE(MAX(attempt_number), 0) FROM followup_attempts WHERE candidate_id = $1`
		if err := tx.QueryRow(ctx, qMax, c.CandidateID).Scan(&persisted); err != nil {
			return fmt.Errorf("count attempts: %w", err)
		}
		return insertAttempts(ctx, tx, c, persisted)
	})
	if err != nil {
		return err
	}
	c.Version = expectedVersion + 1
	return nil
}

func insertAttempts(ctx context.Context, tx pgx.Tx, c *model.Candidate, persisted int) error {
	batch := &pgx.Batch{}
	const q = `
INSERT INTO followup_attempts (
	attempt_id, candidate_id, attempt_number, call_status, notes, scheduled_interview_date, attempted_by, attempt_timestamp
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	queued := 0
	for _, a := range c.FollowupAttempts {
		if a.AttemptNumber <= persisted {
			continue
		}
		batch.Queue(q, a.AttemptID, c.CandidateID, a.AttemptNumber, a.CallStatus, a.Notes,
			a.ScheduledInterviewDate, a.AttemptedBy, a.AttemptTimestamp)
		queued++
	}
	if queued == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < queued; i++ {
		if _, err := br.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return lifecycle.ErrConcurrentModification
			}
			return fmt.Errorf("batch insert attempt %d: %w", i, err)
		}
	}
	return nil
}

func (r *CandidateRepository) listAttempts(ctx context.Context, candidateIDs []uuid.UUID) (map[uuid.UUID][]model.FollowupAttempt, error) {
	out := make(map[uuid.UUID][]model.FollowupAttempt, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return out, nil
	}

	const q = `
SELECT attempt_id, candidate_id, attempt_number, call_status, notes, scheduled_interview_date, attempted_by, attempt_timestamp
FROM followup_attempts
WHERE candidate_id = ANY($1::uuid[])
ORDER BY candidate_id, attempt_number ASC
`
	ids := make([]string, len(candidateIDs))
	for i, id := range candidateIDs {
		ids[i] = id.String()
	}
	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a model.FollowupAttempt
		if err := rows.Scan(&a.AttemptID, &a.CandidateID, &a.AttemptNumber, &a.CallStatus, &a.Notes,
			&a.ScheduledInterviewDate, &a.AttemptedBy, &a.AttemptTimestamp); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out[a.CandidateID] = append(out[a.CandidateID], a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, nil
}

func (r *CandidateRepository) scanCandidate(row pgx.Row) (*model.Candidate, error) {
	var c model.Candidate
	var phone *string
	iv := &c.InterviewDetails
	err := row.Scan(
		&c.CandidateID, &c.ProjectID, &c.Name, &c.Email, &phone, &c.EmployeeCode, &c.Department, &c.Designation, &c.ExitDate,
		&c.OverallStatus, &c.StatusOverridden, &c.MaxFollowupAttempts, &c.AttemptWindowStart,
		&c.AssignedInterviewer, &c.AssignedBy,
		&iv.ScheduledDate, &iv.StartedAt, &iv.CompletedAt, &iv.InterviewDurationMinutes, &iv.AnswersSubmitted, &iv.QuestionnaireID,
		&c.ReportID, &c.IsActive, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.Phone, err = r.openPhone(phone); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CandidateRepository) sealPhone(phone *string) (*string, error) {
	if phone == nil || r.crypto == nil {
		return phone, nil
	}
	enc, err := r.crypto.Encrypt(*phone)
	if err != nil {
		return nil, fmt.Errorf("encrypt phone: %w", err)
	}
	return &enc, nil
}

func (r *CandidateRepository) openPhone(phone *string) (*string, error) {
	if phone == nil || r.crypto == nil {
		return phone, nil
	}
	dec, err := r.crypto.Decrypt(*phone)
	if err != nil {
		return nil, fmt.Errorf("decrypt phone: %w", err)
	}
	return &dec, nil
}
