package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"
	"hackfest_v2/internal/domain/repository"

	"github.com/google/uuid"
)

type RegistrationService struct {
	regRepo       repository.RegistrationRepository
	hackathonRepo repository.HackathonRepository
	attemptWindow time.Duration
	now           func() time.Time
}

func NewRegistrationService(regRepo repository.RegistrationRepository, hackathonRepo repository.HackathonRepository, attemptWindowDays int) *RegistrationService {
	return &RegistrationService{
		regRepo:       regRepo,
		hackathonRepo: hackathonRepo,
		attemptWindow: time.Duration(attemptWindowDays) * 24 * time.Hour,
		now:           time.Now,
	}
}

type RegisterRequest struct {
	TeamName    string `json:"teamName"`
	Mobile      string `json:"mobile"`
	Institution string `json:"institution"`
}

// Register opens an attempt window for the participant. Dates are set
// server-side regardless of what the client sent. A lapsed registration
// may be replaced with a fresh one; an active one may not.
func (s *RegistrationService) Register(ctx context.Context, userID, hackathonID string, req RegisterRequest) (*model.Registration, error) {
	hackathon, err := s.hackathonRepo.FindByID(ctx, hackathonID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !hackathon.RegistrationDeadline.IsZero() && now.After(hackathon.RegistrationDeadline) {
		return nil, fmt.Errorf("%w: registration deadline has passed", common.ErrForbidden)
	}

	existing, err := s.regRepo.Find(ctx, userID, hackathonID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if existing != nil && !existing.Expired(now) {
		return nil, fmt.Errorf("%w: already registered", common.ErrConflict)
	}

	if existing == nil && hackathon.MaxParticipants > 0 {
		count, err := s.regRepo.CountByHackathon(ctx, hackathonID)
		if err != nil {
			return nil, err
		}
		if count >= hackathon.MaxParticipants {
			return nil, fmt.Errorf("%w: hackathon is full", common.ErrConflict)
		}
	}

	reg := &model.Registration{
		ID:          uuid.NewString(),
		UserID:      userID,
		HackathonID: hackathonID,
		TeamName:    req.TeamName,
		Mobile:      req.Mobile,
		Institution: req.Institution,
		StartDate:   now,
		EndDate:     now.Add(s.attemptWindow),
		CreatedAt:   now,
	}
	if err := s.regRepo.Upsert(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to save registration: %w", err)
	}
	return reg, nil
}

func (s *RegistrationService) Status(ctx context.Context, userID, hackathonID string) (*model.RegistrationStatus, error) {
	reg, err := s.regRepo.Find(ctx, userID, hackathonID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &model.RegistrationStatus{}, nil
		}
		return nil, err
	}
	start := reg.StartDate
	return &model.RegistrationStatus{
		IsRegistered: true,
		StartDate:    &start,
		Expired:      reg.Expired(s.now()),
	}, nil
}

// RequireActive returns the registration if it exists and its attempt
// window is still open.
func (s *RegistrationService) RequireActive(ctx context.Context, userID, hackathonID string) (*model.Registration, error) {
	reg, err := s.regRepo.Find(ctx, userID, hackathonID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotRegistered
		}
		return nil, err
	}
	if reg.Expired(s.now()) {
		return nil, common.ErrAttemptExpired
	}
	return reg, nil
}
