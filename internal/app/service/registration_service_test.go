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

func newRegFixture(t *testing.T, maxParticipants int) (*service.RegistrationService, *fakeRegistrationRepo) {
	t.Helper()

	hacks := newFakeHackathonRepo()
	hacks.hackathons["h1"] = &model.Hackathon{
		ID:                   "h1",
		Title:                "Hackfest",
		MaxParticipants:      maxParticipants,
		RegistrationDeadline: time.Now().Add(48 * time.Hour),
	}
	regs := newFakeRegistrationRepo()
	return service.NewRegistrationService(regs, hacks, 7), regs
}

func TestRegisterOpensSevenDayWindow(t *testing.T) {
	svc, _ := newRegFixture(t, 0)

	reg, err := svc.Register(context.Background(), "u1", "h1", service.RegisterRequest{TeamName: "solo"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	window := reg.EndDate.Sub(reg.StartDate)
	if window != 7*24*time.Hour {
		t.Fatalf("expected a 7 day window, got %s", window)
	}

	status, err := svc.Status(context.Background(), "u1", "h1")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !status.IsRegistered || status.Expired {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestRegisterRejectsActiveDuplicate(t *testing.T) {
	svc, _ := newRegFixture(t, 0)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "u1", "h1", service.RegisterRequest{}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register(ctx, "u1", "h1", service.RegisterRequest{}); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRegisterAgainAfterExpiry(t *testing.T) {
	svc, regs := newRegFixture(t, 0)
	ctx := context.Background()

	regs.regs[regKey("u1", "h1")] = &model.Registration{
		UserID: "u1", HackathonID: "h1",
		StartDate: time.Now().Add(-10 * 24 * time.Hour),
		EndDate:   time.Now().Add(-3 * 24 * time.Hour),
	}

	if _, err := svc.RequireActive(ctx, "u1", "h1"); !errors.Is(err, common.ErrAttemptExpired) {
		t.Fatalf("expected ErrAttemptExpired, got %v", err)
	}

	reg, err := svc.Register(ctx, "u1", "h1", service.RegisterRequest{})
	if err != nil {
		t.Fatalf("re-register failed: %v", err)
	}
	if reg.Expired(time.Now()) {
		t.Fatal("fresh registration must not be expired")
	}
	if _, err := svc.RequireActive(ctx, "u1", "h1"); err != nil {
		t.Fatalf("expected active registration, got %v", err)
	}
}

func TestRegisterEnforcesCapacity(t *testing.T) {
	svc, _ := newRegFixture(t, 1)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "u1", "h1", service.RegisterRequest{}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register(ctx, "u2", "h1", service.RegisterRequest{}); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected ErrConflict when full, got %v", err)
	}
}

func TestRequireActiveForUnknownUser(t *testing.T) {
	svc, _ := newRegFixture(t, 0)

	if _, err := svc.RequireActive(context.Background(), "ghost", "h1"); !errors.Is(err, common.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}
