package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hackfest_v2/internal/app/service"
	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"
	"hackfest_v2/internal/platform/logging"
)

func newProjectFixture(t *testing.T) (*service.ProjectService, *fakeProgressRepo) {
	t.Helper()

	hacks := newFakeHackathonRepo()
	hacks.hackathons["h1"] = &model.Hackathon{ID: "h1"}
	regs := newFakeRegistrationRepo()
	regs.regs[regKey("u1", "h1")] = &model.Registration{
		UserID: "u1", HackathonID: "h1",
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	}

	progressRepo := newFakeProgressRepo()
	regService := service.NewRegistrationService(regs, hacks, 7)
	progressService := service.NewProgressService(progressRepo, regService)
	return service.NewProjectService(newFakeSubmissionRepo(), regService, progressService, logging.NewNop()), progressRepo
}

func validProject() service.SubmitProjectRequest {
	return service.SubmitProjectRequest{
		HackathonID: "h1",
		Name:        "Alice",
		Email:       "alice@example.com",
		Mobile:      "5550123",
		ProjectLink: "https://github.com/alice/project",
		Description: "A thing",
	}
}

func TestProjectSubmission(t *testing.T) {
	svc, progressRepo := newProjectFixture(t)
	ctx := context.Background()

	sub, err := svc.Submit(ctx, "u1", validProject())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if sub.ID == "" || sub.UserID != "u1" {
		t.Fatalf("unexpected submission: %+v", sub)
	}

	p, err := progressRepo.Find(ctx, "u1", "h1")
	if err != nil {
		t.Fatalf("progress lookup failed: %v", err)
	}
	if !p.StepCompleted(model.StepProject) {
		t.Fatal("project step must be marked complete")
	}

	if _, err := svc.Submit(ctx, "u1", validProject()); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate, got %v", err)
	}
}

func TestProjectValidation(t *testing.T) {
	svc, _ := newProjectFixture(t)
	ctx := context.Background()

	req := validProject()
	req.ProjectLink = " "
	if _, err := svc.Submit(ctx, "u1", req); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	req = validProject()
	req.HackathonID = ""
	if _, err := svc.Submit(ctx, "u1", req); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}

	if _, err := svc.Submit(ctx, "stranger", validProject()); !errors.Is(err, common.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}
