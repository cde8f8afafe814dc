package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"
	"hackfest_v2/internal/domain/repository"
)

type ProgressService struct {
	progressRepo repository.ProgressRepository
	regs         *RegistrationService
}

func NewProgressService(progressRepo repository.ProgressRepository, regs *RegistrationService) *ProgressService {
	return &ProgressService{progressRepo: progressRepo, regs: regs}
}

type UpdateProgressRequest struct {
	CurrentStep    int   `json:"currentStep"`
	CompletedSteps []int `json:"completedSteps"`
}

// Get returns the wizard progress, or a zero-valued progress record if the
// participant has not started yet.
func (s *ProgressService) Get(ctx context.Context, userID, hackathonID string) (*model.Progress, error) {
	p, err := s.progressRepo.Find(ctx, userID, hackathonID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &model.Progress{UserID: userID, HackathonID: hackathonID}, nil
		}
		return nil, err
	}
	return p, nil
}

// Update moves the wizard to a new step. The quiz, coding and project steps
// are marked complete server-side when the corresponding submission lands, so
// client-reported completions for those steps are ignored. TotalScore is
// likewise server-written and never taken from the request.
func (s *ProgressService) Update(ctx context.Context, userID, hackathonID string, req UpdateProgressRequest) (*model.Progress, error) {
	if req.CurrentStep < model.StepDetails || req.CurrentStep > model.StepProject {
		return nil, fmt.Errorf("%w: step out of range", common.ErrBadRequest)
	}
	if _, err := s.regs.RequireActive(ctx, userID, hackathonID); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, userID, hackathonID)
	if err != nil {
		return nil, err
	}

	for _, step := range req.CompletedSteps {
		if step == model.StepDetails {
			p.MarkCompleted(step)
		}
	}
	if req.CurrentStep > model.StepCoding && !p.StepCompleted(model.StepCoding) {
		return nil, common.ErrStepLocked
	}

	p.CurrentStep = req.CurrentStep
	p.UpdatedAt = time.Now()
	if err := s.progressRepo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}
	return p, nil
}

// MarkStepCompleted records a server-side step completion and adds
// scoreDelta to the running wizard total.
func (s *ProgressService) MarkStepCompleted(ctx context.Context, userID, hackathonID string, step, scoreDelta int) (*model.Progress, error) {
	p, err := s.Get(ctx, userID, hackathonID)
	if err != nil {
		return nil, err
	}
	p.MarkCompleted(step)
	p.TotalScore += scoreDelta
	if step >= p.CurrentStep && step < model.StepProject {
		p.CurrentStep = step + 1
	}
	p.UpdatedAt = time.Now()
	if err := s.progressRepo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}
	return p, nil
}
