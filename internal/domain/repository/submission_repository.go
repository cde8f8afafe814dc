package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, s *model.Submission) error
	ListByHackathon(ctx context.Context, hackathonID string) ([]model.Submission, error)

	CreateQuizSubmission(ctx context.Context, s *model.QuizSubmission) error
	FindQuizSubmission(ctx context.Context, userID, hackathonID string) (*model.QuizSubmission, error)

	CreateProjectSubmission(ctx context.Context, s *model.ProjectSubmission) error
	FindProjectSubmission(ctx context.Context, userID, hackathonID string) (*model.ProjectSubmission, error)

	LeaderboardTotals(ctx context.Context, hackathonID string) ([]model.LeaderboardEntry, error)
	Metrics(ctx context.Context, hackathonID string) (*model.HackathonMetrics, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) CreateSubmission(ctx context.Context, s *model.Submission) error {
	results, err := json.Marshal(s.TestResults)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.CreateSubmission results: %w", err)
	}
	query := `INSERT INTO coding_submissions
	          (id, user_id, hackathon_id, challenge_id, code, language, test_results, passed, score)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.HackathonID, s.ChallengeID, s.Code, s.Language, results, s.Passed, s.Score)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.CreateSubmission: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) ListByHackathon(ctx context.Context, hackathonID string) ([]model.Submission, error) {
	query := `SELECT s.id, s.user_id, s.hackathon_id, s.challenge_id, s.code, s.language,
	                 s.test_results, s.passed, s.score, s.submitted_at, u.username
	          FROM coding_submissions s
	          JOIN users u ON u.id = s.user_id
	          WHERE s.hackathon_id = $1
	          ORDER BY s.submitted_at DESC`
	rows, err := r.db.QueryContext(ctx, query, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByHackathon: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var s model.Submission
		var results []byte
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.HackathonID, &s.ChallengeID, &s.Code, &s.Language,
			&results, &s.Passed, &s.Score, &s.SubmittedAt, &s.Username,
		); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListByHackathon scan: %w", err)
		}
		if err := json.Unmarshal(results, &s.TestResults); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListByHackathon results: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *pgSubmissionRepository) CreateQuizSubmission(ctx context.Context, s *model.QuizSubmission) error {
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.CreateQuizSubmission answers: %w", err)
	}
	query := `INSERT INTO quiz_submissions (id, user_id, hackathon_id, answers, score, total)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.db.ExecContext(ctx, query, s.ID, s.UserID, s.HackathonID, answers, s.Score, s.Total)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("quiz already submitted for this hackathon: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgSubmissionRepository.CreateQuizSubmission: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) FindQuizSubmission(ctx context.Context, userID, hackathonID string) (*model.QuizSubmission, error) {
	query := `SELECT id, user_id, hackathon_id, answers, score, total, submitted_at
	          FROM quiz_submissions WHERE user_id = $1 AND hackathon_id = $2`
	s := &model.QuizSubmission{}
	var answers []byte
	err := r.db.QueryRowContext(ctx, query, userID, hackathonID).Scan(
		&s.ID, &s.UserID, &s.HackathonID, &answers, &s.Score, &s.Total, &s.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindQuizSubmission: %w", err)
	}
	if err := json.Unmarshal(answers, &s.Answers); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.FindQuizSubmission answers: %w", err)
	}
	return s, nil
}

func (r *pgSubmissionRepository) CreateProjectSubmission(ctx context.Context, s *model.ProjectSubmission) error {
	query := `INSERT INTO project_submissions
	          (id, user_id, hackathon_id, name, email, mobile, project_link, description)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.HackathonID, s.Name, s.Email, s.Mobile, s.ProjectLink, s.Description)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("project already submitted for this hackathon: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgSubmissionRepository.CreateProjectSubmission: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) FindProjectSubmission(ctx context.Context, userID, hackathonID string) (*model.ProjectSubmission, error) {
	query := `SELECT id, user_id, hackathon_id, name, email, mobile, project_link, description, submitted_at
	          FROM project_submissions WHERE user_id = $1 AND hackathon_id = $2`
	s := &model.ProjectSubmission{}
	err := r.db.QueryRowContext(ctx, query, userID, hackathonID).Scan(
		&s.ID, &s.UserID, &s.HackathonID, &s.Name, &s.Email, &s.Mobile, &s.ProjectLink, &s.Description, &s.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindProjectSubmission: %w", err)
	}
	return s, nil
}

// LeaderboardTotals aggregates per-participant scores. A participant's coding
// score is the maximum cumulative score they reported (the session score is
// monotonically non-decreasing, so the max is the latest).
func (r *pgSubmissionRepository) LeaderboardTotals(ctx context.Context, hackathonID string) ([]model.LeaderboardEntry, error) {
	query := `
	  SELECT u.id, u.username,
	         COALESCE(cs.score, 0) AS coding_score,
	         COALESCE(qs.score, 0) AS quiz_score,
	         COALESCE(cs.passed_count, 0) AS challenges_passed,
	         COALESCE(cs.last_submission, r.created_at) AS last_submission
	  FROM registrations r
	  JOIN users u ON u.id = r.user_id
	  LEFT JOIN (
	    SELECT user_id,
	           MAX(score) AS score,
	           COUNT(DISTINCT challenge_id) FILTER (WHERE passed) AS passed_count,
	           MAX(submitted_at) AS last_submission
	    FROM coding_submissions
	    WHERE hackathon_id = $1
	    GROUP BY user_id
	  ) cs ON cs.user_id = r.user_id
	  LEFT JOIN (
	    SELECT user_id, score FROM quiz_submissions WHERE hackathon_id = $1
	  ) qs ON qs.user_id = r.user_id
	  WHERE r.hackathon_id = $1
	  ORDER BY coding_score + quiz_score DESC, last_submission ASC`
	rows, err := r.db.QueryContext(ctx, query, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.LeaderboardTotals: %w", err)
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	rank := 0
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.CodingScore, &e.QuizScore, &e.ChallengesPassed, &e.LastSubmission); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.LeaderboardTotals scan: %w", err)
		}
		rank++
		e.Rank = rank
		e.TotalScore = e.CodingScore + e.QuizScore
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *pgSubmissionRepository) Metrics(ctx context.Context, hackathonID string) (*model.HackathonMetrics, error) {
	m := &model.HackathonMetrics{HackathonID: hackathonID}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE hackathon_id = $1`, hackathonID).Scan(&m.Participants); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.Metrics participants: %w", err)
	}

	query := `SELECT COUNT(*),
	                 COUNT(*) FILTER (WHERE passed),
	                 COALESCE(AVG(score), 0),
	                 COALESCE(MAX(score), 0)
	          FROM coding_submissions WHERE hackathon_id = $1`
	if err := r.db.QueryRowContext(ctx, query, hackathonID).Scan(
		&m.Submissions, &m.PassedSubmissions, &m.AverageScore, &m.TopScore); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.Metrics submissions: %w", err)
	}
	if m.Submissions > 0 {
		m.PassRate = float64(m.PassedSubmissions) / float64(m.Submissions)
	}
	return m, nil
}
