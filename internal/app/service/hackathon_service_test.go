package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hackfest_v2/internal/app/service"
	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"
)

func newHackathonFixture(t *testing.T) (*service.HackathonService, *fakeHackathonRepo, *fakeRegistrationRepo) {
	t.Helper()
	hacks := newFakeHackathonRepo()
	regs := newFakeRegistrationRepo()
	regService := service.NewRegistrationService(regs, hacks, 7)
	progressService := service.NewProgressService(newFakeProgressRepo(), regService)
	return service.NewHackathonService(hacks, regService, progressService), hacks, regs
}

func TestCreateHackathonGeneratesSlugAndValidatesMCQs(t *testing.T) {
	svc, _, _ := newHackathonFixture(t)
	ctx := context.Background()

	h, err := svc.Create(ctx, service.CreateHackathonRequest{
		Title: "Spring Hackfest 2026!",
		MCQs: []model.MCQ{
			{Question: "2+2?", Options: []string{"3", "4", ""}, CorrectAnswers: []int{1}},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if h.Slug != "spring-hackfest-2026" {
		t.Fatalf("unexpected slug %q", h.Slug)
	}
	// Empty option dropped during sanitization.
	if len(h.MCQs[0].Options) != 2 {
		t.Fatalf("expected empty options dropped, got %v", h.MCQs[0].Options)
	}

	_, err = svc.Create(ctx, service.CreateHackathonRequest{
		Title: "Bad quiz",
		MCQs:  []model.MCQ{{Question: "?", Options: []string{"a", "b"}, CorrectAnswers: []int{5}}},
	})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation for out-of-range answer, got %v", err)
	}

	if _, err := svc.Create(ctx, service.CreateHackathonRequest{Title: "   "}); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty title, got %v", err)
	}
}

func TestAddChallengeRequiresImplementationPerLanguage(t *testing.T) {
	svc, hacks, _ := newHackathonFixture(t)
	hacks.hackathons["h1"] = &model.Hackathon{ID: "h1", Title: "Hackfest"}
	ctx := context.Background()

	_, err := svc.AddChallenge(ctx, "h1", service.CreateChallengeRequest{
		Name:      "Sum",
		Languages: []string{"Python", "Java"},
		LanguageImplementations: map[string]model.LanguageImplementation{
			"Python": {VisibleCode: "pass"},
		},
		TestCases: []model.TestCase{{Input: "1", ExpectedOutput: "1"}},
	})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing Java implementation, got %v", err)
	}

	c, err := svc.AddChallenge(ctx, "h1", service.CreateChallengeRequest{
		Name:      "Sum",
		Languages: []string{"Python"},
		LanguageImplementations: map[string]model.LanguageImplementation{
			"Python": {VisibleCode: "pass", InvisibleCode: "run()"},
		},
		TestCases: []model.TestCase{{Input: "1", ExpectedOutput: "1", IsVisible: true}},
	})
	if err != nil {
		t.Fatalf("add challenge failed: %v", err)
	}
	if c.Slug != "sum" {
		t.Fatalf("unexpected slug %q", c.Slug)
	}

	_, err = svc.AddChallenge(ctx, "h1", service.CreateChallengeRequest{
		Name:                    "No tests",
		Languages:               []string{"Python"},
		LanguageImplementations: map[string]model.LanguageImplementation{"Python": {}},
	})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing test cases, got %v", err)
	}
}

func TestGetForParticipantStripsSecrets(t *testing.T) {
	svc, hacks, _ := newHackathonFixture(t)
	hacks.hackathons["h1"] = &model.Hackathon{
		ID:    "h1",
		Title: "Hackfest",
		MCQs:  []model.MCQ{{Question: "?", Options: []string{"a", "b"}, CorrectAnswers: []int{0}}},
	}
	hacks.challenges["h1"] = []model.Challenge{{
		ID: "c1", HackathonID: "h1", Name: "Sum",
		Languages: []string{"Python"},
		LanguageImplementations: map[string]model.LanguageImplementation{
			"Python": {VisibleCode: "pass", InvisibleCode: "secret harness"},
		},
		TestCases: []model.TestCase{
			{Input: "1", ExpectedOutput: "a", IsVisible: true},
			{Input: "hidden-in", ExpectedOutput: "hidden-out", IsVisible: false},
		},
	}}

	h, err := svc.GetForParticipant(context.Background(), "h1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if h.MCQs[0].CorrectAnswers != nil {
		t.Fatal("answer key must be hidden")
	}
	challenge := h.CodingChallenges[0]
	if challenge.LanguageImplementations["Python"].InvisibleCode != "" {
		t.Fatal("invisible code must be hidden")
	}
	if len(challenge.TestCases) != 2 {
		t.Fatalf("hidden tests must keep their slot, got %d", len(challenge.TestCases))
	}
	if challenge.TestCases[1].Input != "" || challenge.TestCases[1].ExpectedOutput != "" {
		t.Fatal("hidden test contents must be blanked")
	}
	if challenge.TestCases[0].Input != "1" {
		t.Fatal("visible test must survive")
	}
}

func TestAttemptContextBundlesEverything(t *testing.T) {
	svc, hacks, regs := newHackathonFixture(t)
	hacks.hackathons["h1"] = &model.Hackathon{ID: "h1", Title: "Hackfest"}
	regs.regs[regKey("u1", "h1")] = &model.Registration{
		UserID: "u1", HackathonID: "h1",
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	}

	out, err := svc.GetAttemptContext(context.Background(), "u1", "h1")
	if err != nil {
		t.Fatalf("attempt context failed: %v", err)
	}
	if out.Hackathon == nil || out.Hackathon.ID != "h1" {
		t.Fatalf("missing hackathon: %+v", out)
	}
	if out.Registration == nil || !out.Registration.IsRegistered {
		t.Fatalf("missing registration status: %+v", out.Registration)
	}
	if out.Progress == nil || out.Progress.CurrentStep != model.StepDetails {
		t.Fatalf("missing progress: %+v", out.Progress)
	}

	if _, err := svc.GetAttemptContext(context.Background(), "u1", "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
