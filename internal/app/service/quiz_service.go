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
	"go.uber.org/zap"
)

type QuizService struct {
	hackathonRepo  repository.HackathonRepository
	submissionRepo repository.SubmissionRepository
	regs           *RegistrationService
	progress       *ProgressService
	logger         *zap.SugaredLogger
}

func NewQuizService(hackathonRepo repository.HackathonRepository, submissionRepo repository.SubmissionRepository, regs *RegistrationService, progress *ProgressService, logger *zap.SugaredLogger) *QuizService {
	return &QuizService{
		hackathonRepo:  hackathonRepo,
		submissionRepo: submissionRepo,
		regs:           regs,
		progress:       progress,
		logger:         logger,
	}
}

type SubmitQuizRequest struct {
	Answers map[int]string `json:"answers"` // question index -> selected option text
}

// Submit grades the quiz against the server-side answer key and records the
// result. One submission per participant per hackathon.
func (s *QuizService) Submit(ctx context.Context, userID, hackathonID string, req SubmitQuizRequest) (*model.QuizSubmission, error) {
	if _, err := s.regs.RequireActive(ctx, userID, hackathonID); err != nil {
		return nil, err
	}

	if existing, err := s.submissionRepo.FindQuizSubmission(ctx, userID, hackathonID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: quiz already submitted", common.ErrConflict)
	} else if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hackathon, err := s.hackathonRepo.FindByID(ctx, hackathonID)
	if err != nil {
		return nil, err
	}
	if len(hackathon.MCQs) == 0 {
		return nil, fmt.Errorf("%w: hackathon has no quiz", common.ErrNotFound)
	}

	score := 0
	for idx, selected := range req.Answers {
		if idx < 0 || idx >= len(hackathon.MCQs) {
			continue
		}
		mcq := hackathon.MCQs[idx]
		optIdx := -1
		for i, opt := range mcq.Options {
			if opt == selected {
				optIdx = i
				break
			}
		}
		if optIdx < 0 {
			continue
		}
		for _, correct := range mcq.CorrectAnswers {
			if correct == optIdx {
				score++
				break
			}
		}
	}

	sub := &model.QuizSubmission{
		ID:          uuid.NewString(),
		UserID:      userID,
		HackathonID: hackathonID,
		Answers:     req.Answers,
		Score:       score,
		Total:       len(hackathon.MCQs),
		SubmittedAt: time.Now(),
	}
	if err := s.submissionRepo.CreateQuizSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save quiz submission: %w", err)
	}

	// Quiz score reaches the leaderboard through its own column, so the
	// wizard step completes with no score delta.
	if _, err := s.progress.MarkStepCompleted(ctx, userID, hackathonID, model.StepQuiz, 0); err != nil {
		s.logger.Warnw("failed to mark quiz step complete", "userId", userID, "hackathonId", hackathonID, "error", err)
	}
	return sub, nil
}
