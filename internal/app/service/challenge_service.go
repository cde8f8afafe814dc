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
	"hackfest_v2/internal/platform/judge"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionStore persists challenge runner sessions keyed by (user, hackathon).
type SessionStore interface {
	Get(ctx context.Context, userID, hackathonID string) (*model.ChallengeSession, error)
	Save(ctx context.Context, sess *model.ChallengeSession) error
	Delete(ctx context.Context, userID, hackathonID string) error
}

// ChallengeService drives the coding challenge runner: one session per
// participant per hackathon, sequential test execution against the judge
// relay, and a terminal submitted state per challenge.
type ChallengeService struct {
	store          SessionStore
	hackathonRepo  repository.HackathonRepository
	submissionRepo repository.SubmissionRepository
	regs           *RegistrationService
	progress       *ProgressService
	executor       judge.Executor
	leaderboard    *LeaderboardService
	logger         *zap.SugaredLogger
}

func NewChallengeService(
	store SessionStore,
	hackathonRepo repository.HackathonRepository,
	submissionRepo repository.SubmissionRepository,
	regs *RegistrationService,
	progress *ProgressService,
	executor judge.Executor,
	leaderboard *LeaderboardService,
	logger *zap.SugaredLogger,
) *ChallengeService {
	return &ChallengeService{
		store:          store,
		hackathonRepo:  hackathonRepo,
		submissionRepo: submissionRepo,
		regs:           regs,
		progress:       progress,
		executor:       executor,
		leaderboard:    leaderboard,
		logger:         logger,
	}
}

func (s *ChallengeService) challenges(ctx context.Context, hackathonID string) ([]model.Challenge, error) {
	challenges, err := s.hackathonRepo.GetChallenges(ctx, hackathonID)
	if err != nil {
		return nil, err
	}
	if len(challenges) == 0 {
		return nil, common.ErrNoChallenges
	}
	return challenges, nil
}

// StartSession returns the existing session for the attempt, or creates a
// fresh one pointing at the first challenge.
func (s *ChallengeService) StartSession(ctx context.Context, userID, hackathonID string) (*model.ChallengeSession, error) {
	if _, err := s.regs.RequireActive(ctx, userID, hackathonID); err != nil {
		return nil, err
	}
	challenges, err := s.challenges(ctx, hackathonID)
	if err != nil {
		return nil, err
	}

	sess, err := s.store.Get(ctx, userID, hackathonID)
	if err == nil {
		sess.ChallengeCount = len(challenges)
		return sess, nil
	}
	if !errors.Is(err, common.ErrSessionNotFound) {
		return nil, err
	}

	sess = &model.ChallengeSession{
		UserID:         userID,
		HackathonID:    hackathonID,
		ChallengeCount: len(challenges),
		Phase:          model.PhaseIdle,
		Submitted:      map[int]bool{},
		UpdatedAt:      time.Now(),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

func (s *ChallengeService) GetSession(ctx context.Context, userID, hackathonID string) (*model.ChallengeSession, error) {
	return s.store.Get(ctx, userID, hackathonID)
}

// SelectLanguage switches the editor to lang's starter template. Any test
// results for the previous language are stale and get cleared.
func (s *ChallengeService) SelectLanguage(ctx context.Context, userID, hackathonID, lang string) (*model.ChallengeSession, error) {
	sess, err := s.store.Get(ctx, userID, hackathonID)
	if err != nil {
		return nil, err
	}
	challenges, err := s.challenges(ctx, hackathonID)
	if err != nil {
		return nil, err
	}
	current, err := currentChallenge(sess, challenges)
	if err != nil {
		return nil, err
	}
	if !current.HasLanguage(lang) {
		return nil, common.ErrUnknownLanguage
	}

	sess.SelectedLanguage = lang
	sess.UserCode = current.LanguageImplementations[lang].VisibleCode
	sess.TestResults = nil
	sess.ResultsVisible = false
	if !sess.CurrentSubmitted() {
		sess.Phase = model.PhaseIdle
	}
	sess.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

// Navigate moves to the adjacent challenge and resets all per-challenge
// state. Out-of-range moves are a no-op.
func (s *ChallengeService) Navigate(ctx context.Context, userID, hackathonID, direction string) (*model.ChallengeSession, error) {
	sess, err := s.store.Get(ctx, userID, hackathonID)
	if err != nil {
		return nil, err
	}

	next := sess.CurrentIndex
	switch direction {
	case "next":
		next++
	case "prev":
		next--
	default:
		return nil, fmt.Errorf("%w: unknown direction %q", common.ErrBadRequest, direction)
	}
	if next < 0 || next >= sess.ChallengeCount {
		return sess, nil
	}

	sess.CurrentIndex = next
	sess.SelectedLanguage = ""
	sess.UserCode = ""
	sess.TestResults = nil
	sess.ResultsVisible = false
	if sess.CurrentSubmitted() {
		sess.Phase = model.PhaseSubmitted
	} else {
		sess.Phase = model.PhaseIdle
	}
	sess.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

// ResetCode restores the starter template for the selected language.
func (s *ChallengeService) ResetCode(ctx context.Context, userID, hackathonID string) (*model.ChallengeSession, error) {
	sess, err := s.store.Get(ctx, userID, hackathonID)
	if err != nil {
		return nil, err
	}
	if sess.SelectedLanguage == "" {
		return nil, fmt.Errorf("%w: no language selected", common.ErrBadRequest)
	}
	challenges, err := s.challenges(ctx, hackathonID)
	if err != nil {
		return nil, err
	}
	current, err := currentChallenge(sess, challenges)
	if err != nil {
		return nil, err
	}

	sess.UserCode = current.LanguageImplementations[sess.SelectedLanguage].VisibleCode
	sess.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

// RunSample executes the participant's code against the first test case
// only. Sample runs never affect the score.
func (s *ChallengeService) RunSample(ctx context.Context, userID, hackathonID, code string) (*model.ChallengeSession, error) {
	sess, current, err := s.prepareRun(ctx, userID, hackathonID, code)
	if err != nil {
		return nil, err
	}

	sess.Phase = model.PhaseRunning
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	result := s.runTestCase(ctx, sess, current, current.TestCases[0])
	sess.TestResults = []model.TestResult{result}
	sess.Phase = model.PhaseResultsShown
	sess.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

// SubmitAll executes the full ordered test sequence, scores the challenge
// (one point per passing test, two bonus points when all pass), records the
// submission and moves the challenge into its terminal submitted state.
// Results land in the session incrementally so the client can poll progress.
func (s *ChallengeService) SubmitAll(ctx context.Context, userID, hackathonID, code string) (*model.ChallengeSession, error) {
	if _, err := s.regs.RequireActive(ctx, userID, hackathonID); err != nil {
		return nil, err
	}
	sess, current, err := s.prepareRun(ctx, userID, hackathonID, code)
	if err != nil {
		return nil, err
	}
	if sess.CurrentSubmitted() {
		return nil, common.ErrAlreadySubmitted
	}

	sess.Phase = model.PhaseSubmitting
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	challengeScore := 0
	for _, tc := range current.TestCases {
		result := s.runTestCase(ctx, sess, current, tc)
		if result.Passed {
			challengeScore++
		}
		sess.TestResults = append(sess.TestResults, result)
		if err := s.store.Save(ctx, sess); err != nil {
			s.logger.Warnw("failed to persist intermediate result", "userId", userID, "error", err)
		}
	}

	allPassed := challengeScore == len(current.TestCases)
	if allPassed {
		challengeScore += 2
	}
	sess.Score += challengeScore

	sub := &model.Submission{
		ID:          uuid.NewString(),
		UserID:      userID,
		HackathonID: hackathonID,
		ChallengeID: current.ID,
		Code:        sess.UserCode,
		Language:    sess.SelectedLanguage,
		TestResults: sess.TestResults,
		Passed:      allPassed,
		Score:       sess.Score,
		SubmittedAt: time.Now(),
	}
	if err := s.submissionRepo.CreateSubmission(ctx, sub); err != nil {
		// Roll back the accrual so a retry cannot double-count.
		sess.Score -= challengeScore
		sess.Phase = model.PhaseResultsShown
		sess.UpdatedAt = time.Now()
		if saveErr := s.store.Save(ctx, sess); saveErr != nil {
			s.logger.Errorw("failed to restore session after submission failure", "userId", userID, "error", saveErr)
		}
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	sess.Submitted[sess.CurrentIndex] = true
	sess.Phase = model.PhaseSubmitted
	sess.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if sess.AllSubmitted() {
		if _, err := s.progress.MarkStepCompleted(ctx, userID, hackathonID, model.StepCoding, sess.Score); err != nil {
			s.logger.Warnw("failed to mark coding step complete", "userId", userID, "hackathonId", hackathonID, "error", err)
		}
	}
	s.leaderboard.Refresh(ctx, hackathonID)
	return sess, nil
}

// RunCustom relays an ad-hoc execution request straight to the judge.
func (s *ChallengeService) RunCustom(ctx context.Context, req judge.ExecRequest) (*judge.ExecResult, error) {
	req.Language = strings.ToLower(req.Language)
	return s.executor.Execute(ctx, req)
}

// prepareRun loads the session and the active challenge, applies the code
// snapshot sent with the request and clears the previous results.
func (s *ChallengeService) prepareRun(ctx context.Context, userID, hackathonID, code string) (*model.ChallengeSession, *model.Challenge, error) {
	sess, err := s.store.Get(ctx, userID, hackathonID)
	if err != nil {
		return nil, nil, err
	}
	if sess.SelectedLanguage == "" {
		return nil, nil, fmt.Errorf("%w: no language selected", common.ErrBadRequest)
	}
	challenges, err := s.challenges(ctx, hackathonID)
	if err != nil {
		return nil, nil, err
	}
	current, err := currentChallenge(sess, challenges)
	if err != nil {
		return nil, nil, err
	}
	if len(current.TestCases) == 0 {
		return nil, nil, fmt.Errorf("%w: challenge has no test cases", common.ErrBadRequest)
	}

	if code != "" {
		sess.UserCode = code
	}
	sess.TestResults = nil
	sess.ResultsVisible = true
	sess.UpdatedAt = time.Now()
	return sess, current, nil
}

// runTestCase executes one test case and never returns an error: judge
// failures become an error-status result so one bad test cannot abort the
// rest of the batch.
func (s *ChallengeService) runTestCase(ctx context.Context, sess *model.ChallengeSession, c *model.Challenge, tc model.TestCase) model.TestResult {
	result := model.TestResult{
		Input:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
	}

	code := sess.UserCode
	if impl, ok := c.LanguageImplementations[sess.SelectedLanguage]; ok && impl.InvisibleCode != "" {
		code = code + "\n" + impl.InvisibleCode
	}

	res, err := s.executor.Execute(ctx, judge.ExecRequest{
		Language: strings.ToLower(sess.SelectedLanguage),
		Code:     code,
		Input:    tc.Input,
	})
	if err != nil {
		s.logger.Debugw("test case execution failed", "challengeId", c.ID, "error", err)
		result.ActualOutput = err.Error()
		result.Time = "N/A"
		result.Memory = "N/A"
		result.Status = model.TestStatusError
		return result
	}

	result.ActualOutput = res.Stdout
	result.Passed = strings.TrimSpace(res.Stdout) == strings.TrimSpace(tc.ExpectedOutput)
	result.Time = res.Time
	result.Memory = res.Memory
	result.Status = model.TestStatusCompleted
	return result
}

func currentChallenge(sess *model.ChallengeSession, challenges []model.Challenge) (*model.Challenge, error) {
	if sess.CurrentIndex < 0 || sess.CurrentIndex >= len(challenges) {
		return nil, fmt.Errorf("%w: challenge index out of range", common.ErrBadRequest)
	}
	return &challenges[sess.CurrentIndex], nil
}
