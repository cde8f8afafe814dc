package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"
	"hackfest_v2/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"
)

type HackathonService struct {
	hackathonRepo repository.HackathonRepository
	regs          *RegistrationService
	progress      *ProgressService
}

func NewHackathonService(hackathonRepo repository.HackathonRepository, regs *RegistrationService, progress *ProgressService) *HackathonService {
	return &HackathonService{hackathonRepo: hackathonRepo, regs: regs, progress: progress}
}

type HackathonListResponse struct {
	Hackathons []model.Hackathon `json:"hackathons"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
}

func (s *HackathonService) List(ctx context.Context, page, pageSize int) (*HackathonListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	hackathons, total, err := s.hackathonRepo.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	for i := range hackathons {
		hackathons[i] = hackathons[i].ForParticipant()
	}
	return &HackathonListResponse{Hackathons: hackathons, Total: total, Page: page, PageSize: pageSize}, nil
}

// GetForParticipant returns a hackathon with answer keys and hidden test
// material stripped.
func (s *HackathonService) GetForParticipant(ctx context.Context, id string) (*model.Hackathon, error) {
	h, err := s.hackathonRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sanitized := h.ForParticipant()
	return &sanitized, nil
}

func (s *HackathonService) GetForAdmin(ctx context.Context, id string) (*model.Hackathon, error) {
	return s.hackathonRepo.FindByID(ctx, id)
}

// AttemptContext bundles everything the attempt wizard needs to render.
type AttemptContext struct {
	Hackathon    *model.Hackathon          `json:"hackathon"`
	Registration *model.RegistrationStatus `json:"registration"`
	Progress     *model.Progress           `json:"progress"`
}

// GetAttemptContext fetches the hackathon detail, registration status and
// wizard progress concurrently.
func (s *HackathonService) GetAttemptContext(ctx context.Context, userID, hackathonID string) (*AttemptContext, error) {
	out := &AttemptContext{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := s.GetForParticipant(ctx, hackathonID)
		if err != nil {
			return err
		}
		out.Hackathon = h
		return nil
	})
	g.Go(func() error {
		st, err := s.regs.Status(ctx, userID, hackathonID)
		if err != nil {
			return err
		}
		out.Registration = st
		return nil
	})
	g.Go(func() error {
		p, err := s.progress.Get(ctx, userID, hackathonID)
		if err != nil {
			return err
		}
		out.Progress = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type CreateHackathonRequest struct {
	Title                string      `json:"title"`
	Description          string      `json:"description"`
	StartDate            time.Time   `json:"startDate"`
	EndDate              time.Time   `json:"endDate"`
	RegistrationDeadline time.Time   `json:"registrationDeadline"`
	MaxParticipants      int         `json:"maxParticipants"`
	PrizeMoney           int         `json:"prizeMoney"`
	RegistrationFee      int         `json:"registrationFee"`
	Location             string      `json:"location"`
	SkillLevel           string      `json:"skillLevel"`
	Tags                 []string    `json:"tags"`
	MCQs                 []model.MCQ `json:"mcqs"`
}

func (s *HackathonService) Create(ctx context.Context, req CreateHackathonRequest) (*model.Hackathon, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: endDate before startDate", common.ErrValidation)
	}
	mcqs, err := sanitizeMCQs(req.MCQs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	h := &model.Hackathon{
		ID:                   uuid.NewString(),
		Title:                req.Title,
		Slug:                 slug.Make(req.Title),
		Description:          req.Description,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		RegistrationDeadline: req.RegistrationDeadline,
		MaxParticipants:      req.MaxParticipants,
		PrizeMoney:           req.PrizeMoney,
		RegistrationFee:      req.RegistrationFee,
		Location:             req.Location,
		SkillLevel:           req.SkillLevel,
		Tags:                 req.Tags,
		MCQs:                 mcqs,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.hackathonRepo.Create(ctx, h); err != nil {
		return nil, fmt.Errorf("failed to create hackathon: %w", err)
	}
	return h, nil
}

func (s *HackathonService) Update(ctx context.Context, id string, req CreateHackathonRequest) (*model.Hackathon, error) {
	h, err := s.hackathonRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}

	h.Title = req.Title
	h.Slug = slug.Make(req.Title)
	h.Description = req.Description
	h.StartDate = req.StartDate
	h.EndDate = req.EndDate
	h.RegistrationDeadline = req.RegistrationDeadline
	h.MaxParticipants = req.MaxParticipants
	h.PrizeMoney = req.PrizeMoney
	h.RegistrationFee = req.RegistrationFee
	h.Location = req.Location
	h.SkillLevel = req.SkillLevel
	h.Tags = req.Tags
	h.UpdatedAt = time.Now()

	if err := s.hackathonRepo.Update(ctx, h); err != nil {
		return nil, fmt.Errorf("failed to update hackathon: %w", err)
	}
	return h, nil
}

func (s *HackathonService) Delete(ctx context.Context, id string) error {
	return s.hackathonRepo.Delete(ctx, id)
}

func (s *HackathonService) ReplaceMCQs(ctx context.Context, hackathonID string, mcqs []model.MCQ) error {
	if _, err := s.hackathonRepo.FindByID(ctx, hackathonID); err != nil {
		return err
	}
	sanitized, err := sanitizeMCQs(mcqs)
	if err != nil {
		return err
	}
	return s.hackathonRepo.ReplaceMCQs(ctx, hackathonID, sanitized)
}

type CreateChallengeRequest struct {
	Name                    string                                  `json:"name"`
	ProblemStatement        string                                  `json:"problemStatement"`
	Constraints             string                                  `json:"constraints"`
	Languages               []string                                `json:"languages"`
	LanguageImplementations map[string]model.LanguageImplementation `json:"languageImplementations"`
	TestCases               []model.TestCase                        `json:"testCases"`
	Proctoring              bool                                    `json:"proctoring"`
}

func (s *HackathonService) AddChallenge(ctx context.Context, hackathonID string, req CreateChallengeRequest) (*model.Challenge, error) {
	if _, err := s.hackathonRepo.FindByID(ctx, hackathonID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if len(req.Languages) == 0 {
		return nil, fmt.Errorf("%w: at least one language is required", common.ErrValidation)
	}
	for _, lang := range req.Languages {
		if _, ok := req.LanguageImplementations[lang]; !ok {
			return nil, fmt.Errorf("%w: missing implementation for language %q", common.ErrValidation, lang)
		}
	}
	if len(req.TestCases) == 0 {
		return nil, fmt.Errorf("%w: at least one test case is required", common.ErrValidation)
	}

	now := time.Now()
	c := &model.Challenge{
		ID:                      uuid.NewString(),
		HackathonID:             hackathonID,
		Name:                    req.Name,
		Slug:                    slug.Make(req.Name),
		ProblemStatement:        req.ProblemStatement,
		Constraints:             req.Constraints,
		Languages:               req.Languages,
		LanguageImplementations: req.LanguageImplementations,
		TestCases:               req.TestCases,
		Proctoring:              req.Proctoring,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.hackathonRepo.AddChallenge(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to add challenge: %w", err)
	}
	return c, nil
}

func (s *HackathonService) DeleteChallenge(ctx context.Context, challengeID string) error {
	return s.hackathonRepo.DeleteChallenge(ctx, challengeID)
}

// sanitizeMCQs drops empty options and validates the answer key against the
// surviving option list.
func sanitizeMCQs(mcqs []model.MCQ) ([]model.MCQ, error) {
	out := make([]model.MCQ, 0, len(mcqs))
	for i, m := range mcqs {
		if strings.TrimSpace(m.Question) == "" {
			return nil, fmt.Errorf("%w: question %d is empty", common.ErrValidation, i+1)
		}
		options := make([]string, 0, len(m.Options))
		for _, opt := range m.Options {
			if strings.TrimSpace(opt) != "" {
				options = append(options, opt)
			}
		}
		if len(options) < 2 {
			return nil, fmt.Errorf("%w: question %d needs at least two options", common.ErrValidation, i+1)
		}
		if len(m.CorrectAnswers) == 0 {
			return nil, fmt.Errorf("%w: question %d has no correct answer", common.ErrValidation, i+1)
		}
		for _, a := range m.CorrectAnswers {
			if a < 0 || a >= len(options) {
				return nil, fmt.Errorf("%w: question %d answer index out of range", common.ErrValidation, i+1)
			}
		}
		m.Options = options
		m.IsMultipleAnswer = len(m.CorrectAnswers) > 1
		out = append(out, m)
	}
	return out, nil
}
