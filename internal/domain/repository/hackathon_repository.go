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

type HackathonRepository interface {
	Create(ctx context.Context, h *model.Hackathon) error
	Update(ctx context.Context, h *model.Hackathon) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Hackathon, error)
	List(ctx context.Context, limit, offset int) ([]model.Hackathon, int, error)

	ReplaceMCQs(ctx context.Context, hackathonID string, mcqs []model.MCQ) error

	AddChallenge(ctx context.Context, c *model.Challenge) error
	DeleteChallenge(ctx context.Context, id string) error
	GetChallenges(ctx context.Context, hackathonID string) ([]model.Challenge, error)
}

type pgHackathonRepository struct {
	db *sql.DB
}

func NewPgHackathonRepository(db *sql.DB) HackathonRepository {
	return &pgHackathonRepository{db: db}
}

func (r *pgHackathonRepository) Create(ctx context.Context, h *model.Hackathon) error {
	tags, err := json.Marshal(h.Tags)
	if err != nil {
		return fmt.Errorf("pgHackathonRepository.Create tags: %w", err)
	}
	mcqs, err := json.Marshal(h.MCQs)
	if err != nil {
		return fmt.Errorf("pgHackathonRepository.Create mcqs: %w", err)
	}
	query := `INSERT INTO hackathons
	          (id, title, slug, description, start_date, end_date, registration_deadline,
	           max_participants, prize_money, registration_fee, location, skill_level, tags, mcqs)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.db.ExecContext(ctx, query,
		h.ID, h.Title, h.Slug, h.Description, h.StartDate, h.EndDate, h.RegistrationDeadline,
		h.MaxParticipants, h.PrizeMoney, h.RegistrationFee, h.Location, h.SkillLevel, tags, mcqs)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("hackathon with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgHackathonRepository.Create: %w", err)
	}
	return nil
}

func (r *pgHackathonRepository) Update(ctx context.Context, h *model.Hackathon) error {
	tags, err := json.Marshal(h.Tags)
	if err != nil {
		return fmt.Errorf("pgHackathonRepository.Update tags: %w", err)
	}
	query := `UPDATE hackathons SET
	          title = $1, description = $2, start_date = $3, end_date = $4,
	          registration_deadline = $5, max_participants = $6, prize_money = $7,
	          registration_fee = $8, location = $9, skill_level = $10, tags = $11,
	          updated_at = NOW()
	          WHERE id = $12`
	res, err := r.db.ExecContext(ctx, query,
		h.Title, h.Description, h.StartDate, h.EndDate, h.RegistrationDeadline,
		h.MaxParticipants, h.PrizeMoney, h.RegistrationFee, h.Location, h.SkillLevel, tags, h.ID)
	if err != nil {
		return fmt.Errorf("pgHackathonRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgHackathonRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hackathons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgHackathonRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgHackathonRepository) FindByID(ctx context.Context, id string) (*model.Hackathon, error) {
	query := `SELECT id, title, slug, description, start_date, end_date, registration_deadline,
	                 max_participants, prize_money, registration_fee, location, skill_level,
	                 tags, mcqs, created_at, updated_at
	          FROM hackathons WHERE id = $1`
	h := &model.Hackathon{}
	var tags, mcqs []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&h.ID, &h.Title, &h.Slug, &h.Description, &h.StartDate, &h.EndDate, &h.RegistrationDeadline,
		&h.MaxParticipants, &h.PrizeMoney, &h.RegistrationFee, &h.Location, &h.SkillLevel,
		&tags, &mcqs, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgHackathonRepository.FindByID: %w", err)
	}
	if err := json.Unmarshal(tags, &h.Tags); err != nil {
		return nil, fmt.Errorf("pgHackathonRepository.FindByID tags: %w", err)
	}
	if err := json.Unmarshal(mcqs, &h.MCQs); err != nil {
		return nil, fmt.Errorf("pgHackathonRepository.FindByID mcqs: %w", err)
	}

	challenges, err := r.GetChallenges(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	h.CodingChallenges = challenges
	return h, nil
}

func (r *pgHackathonRepository) List(ctx context.Context, limit, offset int) ([]model.Hackathon, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hackathons`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgHackathonRepository.List count: %w", err)
	}

	query := `SELECT id, title, slug, description, start_date, end_date, registration_deadline,
	                 max_participants, prize_money, registration_fee, location, skill_level,
	                 tags, created_at, updated_at
	          FROM hackathons ORDER BY start_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgHackathonRepository.List: %w", err)
	}
	defer rows.Close()

	var hackathons []model.Hackathon
	for rows.Next() {
		var h model.Hackathon
		var tags []byte
		if err := rows.Scan(
			&h.ID, &h.Title, &h.Slug, &h.Description, &h.StartDate, &h.EndDate, &h.RegistrationDeadline,
			&h.MaxParticipants, &h.PrizeMoney, &h.RegistrationFee, &h.Location, &h.SkillLevel,
			&tags, &h.CreatedAt, &h.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("pgHackathonRepository.List scan: %w", err)
		}
		if err := json.Unmarshal(tags, &h.Tags); err != nil {
			return nil, 0, fmt.Errorf("pgHackathonRepository.List tags: %w", err)
		}
		hackathons = append(hackathons, h)
	}
	return hackathons, total, rows.Err()
}

func (r *pgHackathonRepository) ReplaceMCQs(ctx context.Context, hackathonID string, mcqs []model.MCQ) error {
	data, err := json.Marshal(mcqs)
	if err != nil {
		return fmt.Errorf("pgHackathonRepository.ReplaceMCQs marshal: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE hackathons SET mcqs = $1, updated_at = NOW() WHERE id = $2`, data, hackathonID)
	if err != nil {
		return fmt.Errorf("pgHackathonRepository.ReplaceMCQs: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgHackathonRepository) AddChallenge(ctx context.Context, c *model.Challenge) error {
	languages, err := json.Marshal(c.Languages)
	if err != nil {
		return fmt.Errorf("pgHackathonRepository.AddChallenge languages: %w", err)
	}
	impls, err := json.Marshal(c.LanguageImplementations)
	if err != nil {
		return fmt.Errorf("pgHackathonRepository.AddChallenge implementations: %w", err)
	}
	testCases, err := json.Marshal(c.TestCases)
	if err != nil {
		return fmt.Errorf("pgHackathonRepository.AddChallenge test cases: %w", err)
	}
	query := `INSERT INTO coding_challenges
	          (id, hackathon_id, name, slug, problem_statement, constraints,
	           languages, language_implementations, test_cases, proctoring)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.HackathonID, c.Name, c.Slug, c.ProblemStatement, c.Constraints,
		languages, impls, testCases, c.Proctoring)
	if err != nil {
		return fmt.Errorf("pgHackathonRepository.AddChallenge: %w", err)
	}
	return nil
}

func (r *pgHackathonRepository) DeleteChallenge(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coding_challenges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgHackathonRepository.DeleteChallenge: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgHackathonRepository) GetChallenges(ctx context.Context, hackathonID string) ([]model.Challenge, error) {
	query := `SELECT id, hackathon_id, name, slug, problem_statement, constraints,
	                 languages, language_implementations, test_cases, proctoring,
	                 created_at, updated_at
	          FROM coding_challenges WHERE hackathon_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("pgHackathonRepository.GetChallenges: %w", err)
	}
	defer rows.Close()

	var challenges []model.Challenge
	for rows.Next() {
		var c model.Challenge
		var languages, impls, testCases []byte
		if err := rows.Scan(
			&c.ID, &c.HackathonID, &c.Name, &c.Slug, &c.ProblemStatement, &c.Constraints,
			&languages, &impls, &testCases, &c.Proctoring, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgHackathonRepository.GetChallenges scan: %w", err)
		}
		if err := json.Unmarshal(languages, &c.Languages); err != nil {
			return nil, fmt.Errorf("pgHackathonRepository.GetChallenges languages: %w", err)
		}
		if err := json.Unmarshal(impls, &c.LanguageImplementations); err != nil {
			return nil, fmt.Errorf("pgHackathonRepository.GetChallenges implementations: %w", err)
		}
		if err := json.Unmarshal(testCases, &c.TestCases); err != nil {
			return nil, fmt.Errorf("pgHackathonRepository.GetChallenges test cases: %w", err)
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}
