package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hackfest_v2/internal/app/service"
	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"
	"hackfest_v2/internal/platform/judge"
	"hackfest_v2/internal/platform/logging"
	"hackfest_v2/internal/platform/sessions"
)

type challengeFixture struct {
	svc      *service.ChallengeService
	store    *sessions.MemoryStore
	executor *fakeExecutor
	subs     *fakeSubmissionRepo
	progress *fakeProgressRepo
	hacks    *fakeHackathonRepo
}

func newChallengeFixture(t *testing.T, challenges ...model.Challenge) *challengeFixture {
	t.Helper()

	hacks := newFakeHackathonRepo()
	hacks.hackathons["h1"] = &model.Hackathon{ID: "h1", Title: "Hackfest"}
	for _, c := range challenges {
		c.HackathonID = "h1"
		hacks.challenges["h1"] = append(hacks.challenges["h1"], c)
	}

	regs := newFakeRegistrationRepo()
	regs.regs[regKey("u1", "h1")] = &model.Registration{
		ID: "r1", UserID: "u1", HackathonID: "h1",
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	}

	subs := newFakeSubmissionRepo()
	progressRepo := newFakeProgressRepo()
	executor := newFakeExecutor()
	store := sessions.NewMemoryStore()
	logger := logging.NewNop()

	regService := service.NewRegistrationService(regs, hacks, 7)
	progressService := service.NewProgressService(progressRepo, regService)
	leaderboard := service.NewLeaderboardService(subs, nil, time.Second, logger)

	svc := service.NewChallengeService(store, hacks, subs, regService, progressService, executor, leaderboard, logger)
	return &challengeFixture{svc: svc, store: store, executor: executor, subs: subs, progress: progressRepo, hacks: hacks}
}

func pythonChallenge(id string, tests ...model.TestCase) model.Challenge {
	return model.Challenge{
		ID:        id,
		Name:      "Sum",
		Languages: []string{"Python"},
		LanguageImplementations: map[string]model.LanguageImplementation{
			"Python": {VisibleCode: "def solve():\n    pass", InvisibleCode: "solve()"},
		},
		TestCases: tests,
	}
}

func threeTests() []model.TestCase {
	return []model.TestCase{
		{Input: "1", ExpectedOutput: "a", IsVisible: true},
		{Input: "2", ExpectedOutput: "b"},
		{Input: "3", ExpectedOutput: "c"},
	}
}

func startPythonSession(t *testing.T, f *challengeFixture) *model.ChallengeSession {
	t.Helper()
	ctx := context.Background()
	if _, err := f.svc.StartSession(ctx, "u1", "h1"); err != nil {
		t.Fatalf("start session failed: %v", err)
	}
	sess, err := f.svc.SelectLanguage(ctx, "u1", "h1", "Python")
	if err != nil {
		t.Fatalf("select language failed: %v", err)
	}
	return sess
}

func TestSubmitAllFullPass(t *testing.T) {
	f := newChallengeFixture(t, pythonChallenge("c1", threeTests()...))
	f.executor.results["1"] = execResult("a\n")
	f.executor.results["2"] = execResult("b")
	f.executor.results["3"] = execResult(" c ")
	startPythonSession(t, f)

	sess, err := f.svc.SubmitAll(context.Background(), "u1", "h1", "my code")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if len(sess.TestResults) != 3 {
		t.Fatalf("expected 3 results, got %d", len(sess.TestResults))
	}
	for i, r := range sess.TestResults {
		if !r.Passed || r.Status != model.TestStatusCompleted {
			t.Fatalf("result %d: expected pass, got %+v", i, r)
		}
	}
	// 3 passed tests plus the all-pass bonus.
	if sess.Score != 5 {
		t.Fatalf("expected score 5, got %d", sess.Score)
	}
	if sess.Phase != model.PhaseSubmitted || !sess.Submitted[0] {
		t.Fatalf("expected terminal submitted state, got phase=%s submitted=%v", sess.Phase, sess.Submitted)
	}

	if len(f.subs.submissions) != 1 {
		t.Fatalf("expected 1 stored submission, got %d", len(f.subs.submissions))
	}
	sub := f.subs.submissions[0]
	if !sub.Passed || sub.Score != 5 || sub.ChallengeID != "c1" || sub.Language != "Python" {
		t.Fatalf("unexpected submission: %+v", sub)
	}
}

func TestSubmitAllContainsJudgeFailure(t *testing.T) {
	f := newChallengeFixture(t, pythonChallenge("c1", threeTests()...))
	f.executor.results["1"] = execResult("a")
	f.executor.failWith["2"] = errJudgeDown
	f.executor.results["3"] = execResult("c")
	startPythonSession(t, f)

	sess, err := f.svc.SubmitAll(context.Background(), "u1", "h1", "my code")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if len(sess.TestResults) != 3 {
		t.Fatalf("one failing test must not abort the batch, got %d results", len(sess.TestResults))
	}
	bad := sess.TestResults[1]
	if bad.Passed || bad.Status != model.TestStatusError {
		t.Fatalf("expected error result at index 1, got %+v", bad)
	}
	if bad.Time != "N/A" || bad.Memory != "N/A" {
		t.Fatalf("expected N/A time/memory on error, got %q/%q", bad.Time, bad.Memory)
	}
	// Two passes, no bonus.
	if sess.Score != 2 {
		t.Fatalf("expected score 2, got %d", sess.Score)
	}
	if f.subs.submissions[0].Passed {
		t.Fatal("submission must not be marked passed")
	}
}

func TestSubmitAllRejectsResubmission(t *testing.T) {
	f := newChallengeFixture(t, pythonChallenge("c1", threeTests()...))
	startPythonSession(t, f)

	if _, err := f.svc.SubmitAll(context.Background(), "u1", "h1", "v1"); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	_, err := f.svc.SubmitAll(context.Background(), "u1", "h1", "v2")
	if !errors.Is(err, common.ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
	if len(f.subs.submissions) != 1 {
		t.Fatalf("resubmission must not be recorded, got %d submissions", len(f.subs.submissions))
	}
}

func TestSubmitAllRollsBackScoreOnPersistFailure(t *testing.T) {
	f := newChallengeFixture(t, pythonChallenge("c1", threeTests()...))
	f.executor.results["1"] = execResult("a")
	f.executor.results["2"] = execResult("b")
	f.executor.results["3"] = execResult("c")
	f.subs.failCreateSubmission = errors.New("db down")
	startPythonSession(t, f)

	if _, err := f.svc.SubmitAll(context.Background(), "u1", "h1", "my code"); err == nil {
		t.Fatal("expected submit to fail")
	}

	sess, err := f.svc.GetSession(context.Background(), "u1", "h1")
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if sess.Score != 0 {
		t.Fatalf("score must be rolled back on persist failure, got %d", sess.Score)
	}
	if sess.Submitted[0] {
		t.Fatal("challenge must stay resubmittable after persist failure")
	}

	// Retry succeeds and accrues exactly once.
	f.subs.failCreateSubmission = nil
	sess, err = f.svc.SubmitAll(context.Background(), "u1", "h1", "my code")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if sess.Score != 5 {
		t.Fatalf("expected score 5 after retry, got %d", sess.Score)
	}
}

func TestRunSampleUsesFirstTestOnly(t *testing.T) {
	f := newChallengeFixture(t, pythonChallenge("c1", threeTests()...))
	f.executor.results["1"] = execResult("a")
	startPythonSession(t, f)

	sess, err := f.svc.RunSample(context.Background(), "u1", "h1", "my code")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(sess.TestResults) != 1 {
		t.Fatalf("expected 1 result, got %d", len(sess.TestResults))
	}
	if !sess.TestResults[0].Passed {
		t.Fatalf("expected pass, got %+v", sess.TestResults[0])
	}
	if sess.Score != 0 {
		t.Fatalf("sample runs must not score, got %d", sess.Score)
	}
	if len(f.executor.calls) != 1 || f.executor.calls[0].Input != "1" {
		t.Fatalf("expected a single call with the first test input, got %+v", f.executor.calls)
	}
	if sess.Phase != model.PhaseResultsShown || !sess.ResultsVisible {
		t.Fatalf("expected results shown, got phase=%s visible=%v", sess.Phase, sess.ResultsVisible)
	}
}

func TestRunSampleLowercasesLanguageAndAppendsHarness(t *testing.T) {
	f := newChallengeFixture(t, pythonChallenge("c1", threeTests()...))
	startPythonSession(t, f)

	if _, err := f.svc.RunSample(context.Background(), "u1", "h1", "my code"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	call := f.executor.calls[0]
	if call.Language != "python" {
		t.Fatalf("expected lowercased language, got %q", call.Language)
	}
	if call.Code != "my code\nsolve()" {
		t.Fatalf("expected harness appended, got %q", call.Code)
	}
}

func TestSelectLanguageLoadsTemplateAndClearsResults(t *testing.T) {
	f := newChallengeFixture(t, pythonChallenge("c1", threeTests()...))
	startPythonSession(t, f)

	if _, err := f.svc.RunSample(context.Background(), "u1", "h1", "edited"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	sess, err := f.svc.SelectLanguage(context.Background(), "u1", "h1", "Python")
	if err != nil {
		t.Fatalf("select language failed: %v", err)
	}
	if sess.UserCode != "def solve():\n    pass" {
		t.Fatalf("expected template restored, got %q", sess.UserCode)
	}
	if len(sess.TestResults) != 0 {
		t.Fatal("language change must clear stale results")
	}

	if _, err := f.svc.SelectLanguage(context.Background(), "u1", "h1", "COBOL"); !errors.Is(err, common.ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestNavigateResetsPerChallengeState(t *testing.T) {
	f := newChallengeFixture(t,
		pythonChallenge("c1", threeTests()...),
		pythonChallenge("c2", model.TestCase{Input: "9", ExpectedOutput: "z"}),
	)
	startPythonSession(t, f)
	if _, err := f.svc.RunSample(context.Background(), "u1", "h1", "edited"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	sess, err := f.svc.Navigate(context.Background(), "u1", "h1", "next")
	if err != nil {
		t.Fatalf("navigate failed: %v", err)
	}
	if sess.CurrentIndex != 1 {
		t.Fatalf("expected index 1, got %d", sess.CurrentIndex)
	}
	if sess.SelectedLanguage != "" || sess.UserCode != "" || len(sess.TestResults) != 0 {
		t.Fatalf("navigation must reset per-challenge state: %+v", sess)
	}

	// No wraparound past the last challenge.
	sess, err = f.svc.Navigate(context.Background(), "u1", "h1", "next")
	if err != nil {
		t.Fatalf("navigate failed: %v", err)
	}
	if sess.CurrentIndex != 1 {
		t.Fatalf("out-of-range navigation must be a no-op, got index %d", sess.CurrentIndex)
	}

	if _, err := f.svc.Navigate(context.Background(), "u1", "h1", "sideways"); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestAllSubmittedCompletesCodingStep(t *testing.T) {
	f := newChallengeFixture(t,
		pythonChallenge("c1", model.TestCase{Input: "1", ExpectedOutput: "a"}),
		pythonChallenge("c2", model.TestCase{Input: "2", ExpectedOutput: "b"}),
	)
	f.executor.results["1"] = execResult("a")
	f.executor.results["2"] = execResult("b")
	ctx := context.Background()
	startPythonSession(t, f)

	if _, err := f.svc.SubmitAll(ctx, "u1", "h1", "code1"); err != nil {
		t.Fatalf("submit 1 failed: %v", err)
	}
	if _, err := f.progress.Find(ctx, "u1", "h1"); !errors.Is(err, common.ErrNotFound) {
		t.Fatal("coding step must not complete before the last challenge")
	}

	if _, err := f.svc.Navigate(ctx, "u1", "h1", "next"); err != nil {
		t.Fatalf("navigate failed: %v", err)
	}
	if _, err := f.svc.SelectLanguage(ctx, "u1", "h1", "Python"); err != nil {
		t.Fatalf("select language failed: %v", err)
	}
	sess, err := f.svc.SubmitAll(ctx, "u1", "h1", "code2")
	if err != nil {
		t.Fatalf("submit 2 failed: %v", err)
	}
	if !sess.AllSubmitted() {
		t.Fatal("expected all challenges submitted")
	}

	p, err := f.progress.Find(ctx, "u1", "h1")
	if err != nil {
		t.Fatalf("progress lookup failed: %v", err)
	}
	if !p.StepCompleted(model.StepCoding) {
		t.Fatal("coding step must be marked complete")
	}
	// Each challenge: 1 pass + 2 bonus.
	if p.TotalScore != 6 {
		t.Fatalf("expected total score 6, got %d", p.TotalScore)
	}
}

func TestStartSessionRequiresRegistrationAndChallenges(t *testing.T) {
	f := newChallengeFixture(t, pythonChallenge("c1", threeTests()...))
	if _, err := f.svc.StartSession(context.Background(), "someone-else", "h1"); !errors.Is(err, common.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}

	empty := newChallengeFixture(t)
	if _, err := empty.svc.StartSession(context.Background(), "u1", "h1"); !errors.Is(err, common.ErrNoChallenges) {
		t.Fatalf("expected ErrNoChallenges, got %v", err)
	}
}

func execResult(stdout string) judge.ExecResult {
	return judge.ExecResult{Stdout: stdout, Time: "0.02", Memory: "2048"}
}
