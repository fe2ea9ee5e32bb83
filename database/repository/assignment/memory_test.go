package assignmentRepo

import (
	"context"
	"testing"
	"time"

	technicianRepo "vehicleservice/database/repository/technician"
	"vehicleservice/models"
)

func setup(t *testing.T) (*MemoryAssignmentRepo, *technicianRepo.MemoryTechnicianRepo) {
	t.Helper()
	techs := technicianRepo.NewMemoryTechnicianRepo()
	if err := techs.Create(context.Background(), &models.Technician{ID: "t1", EmployeeID: "EMP001", MaxDailyWorkload: 6, Active: true}); err != nil {
		t.Fatalf("create technician: %v", err)
	}
	return NewMemoryAssignmentRepo(techs), techs
}

func workload(t *testing.T, techs *technicianRepo.MemoryTechnicianRepo) int {
	t.Helper()
	tech, err := techs.GetByID(context.Background(), "t1")
	if err != nil {
		t.Fatalf("get technician: %v", err)
	}
	return tech.CurrentWorkload
}

func assignment(id, booking string) *models.Assignment {
	now := time.Now()
	return &models.Assignment{ID: id, BookingID: booking, TechnicianID: "t1", Status: models.AssignmentAssigned, AssignmentDate: now, CreatedAt: now}
}

func TestCreateAndAcquireRejectsDuplicatePair(t *testing.T) {
	ctx := context.Background()
	repo, techs := setup(t)

	if err := repo.CreateAndAcquire(ctx, assignment("a1", "b1")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := repo.CreateAndAcquire(ctx, assignment("a2", "b1"))
	if !models.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := workload(t, techs); got != 1 {
		t.Fatalf("workload = %d, want 1", got)
	}
}

func TestCreateAndAcquireUnknownTechnician(t *testing.T) {
	repo, _ := setup(t)
	a := assignment("a1", "b1")
	a.TechnicianID = "missing"
	if err := repo.CreateAndAcquire(context.Background(), a); !models.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if all, _ := repo.FindAll(context.Background()); len(all) != 0 {
		t.Fatalf("row stored despite failure: %v", all)
	}
}

func TestTransitionReleasesOnce(t *testing.T) {
	ctx := context.Background()
	repo, techs := setup(t)
	_ = repo.CreateAndAcquire(ctx, assignment("a1", "b1"))

	if _, err := repo.Transition(ctx, "a1", models.AssignmentAssigned, models.AssignmentCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got := workload(t, techs); got != 0 {
		t.Fatalf("workload = %d, want 0", got)
	}
	_, err := repo.Transition(ctx, "a1", models.AssignmentAssigned, models.AssignmentCompleted)
	if !models.IsConflict(err) {
		t.Fatalf("expected conflict on stale transition, got %v", err)
	}
	if got := workload(t, techs); got != 0 {
		t.Fatalf("workload after stale transition = %d, want 0", got)
	}
}

func TestDeleteReleasesOnlyActive(t *testing.T) {
	ctx := context.Background()
	repo, techs := setup(t)
	_ = repo.CreateAndAcquire(ctx, assignment("a1", "b1"))
	_ = repo.CreateAndAcquire(ctx, assignment("a2", "b2"))
	_, _ = repo.Transition(ctx, "a2", models.AssignmentAssigned, models.AssignmentCancelled)

	if _, err := repo.DeleteAndRelease(ctx, "a2"); err != nil {
		t.Fatalf("delete terminal: %v", err)
	}
	if got := workload(t, techs); got != 1 {
		t.Fatalf("workload = %d, want 1", got)
	}
	if _, err := repo.DeleteAndRelease(ctx, "a1"); err != nil {
		t.Fatalf("delete active: %v", err)
	}
	if got := workload(t, techs); got != 0 {
		t.Fatalf("workload = %d, want 0", got)
	}
	if _, err := repo.DeleteAndRelease(ctx, "a1"); !models.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
