package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"
	"hackfest_v2/internal/domain/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProjectService struct {
	submissionRepo repository.SubmissionRepository
	regs           *RegistrationService
	progress       *ProgressService
	logger         *zap.SugaredLogger
}

func NewProjectService(submissionRepo repository.SubmissionRepository, regs *RegistrationService, progress *ProgressService, logger *zap.SugaredLogger) *ProjectService {
	return &ProjectService{submissionRepo: submissionRepo, regs: regs, progress: progress, logger: logger}
}

type SubmitProjectRequest struct {
	HackathonID string `json:"hackathonId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile"`
	ProjectLink string `json:"projectLink"`
	Description string `json:"description"`
}

func (s *ProjectService) Submit(ctx context.Context, userID string, req SubmitProjectRequest) (*model.ProjectSubmission, error) {
	if req.HackathonID == "" {
		return nil, fmt.Errorf("%w: hackathonId is required", common.ErrBadRequest)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.ProjectLink) == "" {
		return nil, fmt.Errorf("%w: name, email and projectLink are required", common.ErrValidation)
	}
	if _, err := s.regs.RequireActive(ctx, userID, req.HackathonID); err != nil {
		return nil, err
	}

	if existing, err := s.submissionRepo.FindProjectSubmission(ctx, userID, req.HackathonID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: project already submitted", common.ErrConflict)
	} else if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	sub := &model.ProjectSubmission{
		ID:          uuid.NewString(),
		UserID:      userID,
		HackathonID: req.HackathonID,
		Name:        req.Name,
		Email:       req.Email,
		Mobile:      req.Mobile,
		ProjectLink: req.ProjectLink,
		Description: req.Description,
		SubmittedAt: time.Now(),
	}
	if err := s.submissionRepo.CreateProjectSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save project submission: %w", err)
	}

	if _, err := s.progress.MarkStepCompleted(ctx, userID, req.HackathonID, model.StepProject, 0); err != nil {
		s.logger.Warnw("failed to mark project step complete", "userId", userID, "hackathonId", req.HackathonID, "error", err)
	}
	return sub, nil
}
