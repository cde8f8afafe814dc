package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"
)

type RegistrationRepository interface {
	Upsert(ctx context.Context, reg *model.Registration) error
	Find(ctx context.Context, userID, hackathonID string) (*model.Registration, error)
	CountByHackathon(ctx context.Context, hackathonID string) (int, error)
}

type pgRegistrationRepository struct {
	db *sql.DB
}

func NewPgRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &pgRegistrationRepository{db: db}
}

// Upsert replaces an existing registration so a participant whose attempt
// window has lapsed can register again with a fresh window.
func (r *pgRegistrationRepository) Upsert(ctx context.Context, reg *model.Registration) error {
	query := `INSERT INTO registrations
	          (id, user_id, hackathon_id, team_name, mobile, institution, start_date, end_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (user_id, hackathon_id) DO UPDATE SET
	            team_name = EXCLUDED.team_name,
	            mobile = EXCLUDED.mobile,
	            institution = EXCLUDED.institution,
	            start_date = EXCLUDED.start_date,
	            end_date = EXCLUDED.end_date`
	_, err := r.db.ExecContext(ctx, query,
		reg.ID, reg.UserID, reg.HackathonID, reg.TeamName, reg.Mobile, reg.Institution,
		reg.StartDate, reg.EndDate)
	if err != nil {
		return fmt.Errorf("pgRegistrationRepository.Upsert: %w", err)
	}
	return nil
}

func (r *pgRegistrationRepository) Find(ctx context.Context, userID, hackathonID string) (*model.Registration, error) {
	query := `SELECT id, user_id, hackathon_id, team_name, mobile, institution,
	                 start_date, end_date, created_at
	          FROM registrations WHERE user_id = $1 AND hackathon_id = $2`
	reg := &model.Registration{}
	err := r.db.QueryRowContext(ctx, query, userID, hackathonID).Scan(
		&reg.ID, &reg.UserID, &reg.HackathonID, &reg.TeamName, &reg.Mobile, &reg.Institution,
		&reg.StartDate, &reg.EndDate, &reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgRegistrationRepository.Find: %w", err)
	}
	return reg, nil
}

func (r *pgRegistrationRepository) CountByHackathon(ctx context.Context, hackathonID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE hackathon_id = $1`, hackathonID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgRegistrationRepository.CountByHackathon: %w", err)
	}
	return count, nil
}

type ProgressRepository interface {
	Upsert(ctx context.Context, p *model.Progress) error
	Find(ctx context.Context, userID, hackathonID string) (*model.Progress, error)
}

type pgProgressRepository struct {
	db *sql.DB
}

func NewPgProgressRepository(db *sql.DB) ProgressRepository {
	return &pgProgressRepository{db: db}
}

func (r *pgProgressRepository) Upsert(ctx context.Context, p *model.Progress) error {
	steps, err := json.Marshal(p.CompletedSteps)
	if err != nil {
		return fmt.Errorf("pgProgressRepository.Upsert steps: %w", err)
	}
	query := `INSERT INTO hackathon_progress (user_id, hackathon_id, current_step, completed_steps, total_score, updated_at)
	          VALUES ($1, $2, $3, $4, $5, NOW())
	          ON CONFLICT (user_id, hackathon_id) DO UPDATE SET
	            current_step = EXCLUDED.current_step,
	            completed_steps = EXCLUDED.completed_steps,
	            total_score = EXCLUDED.total_score,
	            updated_at = NOW()`
	_, err = r.db.ExecContext(ctx, query, p.UserID, p.HackathonID, p.CurrentStep, steps, p.TotalScore)
	if err != nil {
		return fmt.Errorf("pgProgressRepository.Upsert: %w", err)
	}
	return nil
}

func (r *pgProgressRepository) Find(ctx context.Context, userID, hackathonID string) (*model.Progress, error) {
	query := `SELECT user_id, hackathon_id, current_step, completed_steps, total_score, updated_at
	          FROM hackathon_progress WHERE user_id = $1 AND hackathon_id = $2`
	p := &model.Progress{}
	var steps []byte
	err := r.db.QueryRowContext(ctx, query, userID, hackathonID).Scan(
		&p.UserID, &p.HackathonID, &p.CurrentStep, &steps, &p.TotalScore, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProgressRepository.Find: %w", err)
	}
	if err := json.Unmarshal(steps, &p.CompletedSteps); err != nil {
		return nil, fmt.Errorf("pgProgressRepository.Find steps: %w", err)
	}
	return p, nil
}
