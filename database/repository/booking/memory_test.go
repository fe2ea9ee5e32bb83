package bookingRepo

import (
	"context"
	"testing"
	"time"

	"vehicleservice/models"
)

func TestUpdateDetectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo()
	if err := repo.Create(ctx, &models.Booking{ID: "b1", BookingNumber: "BK100001"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, _ := repo.GetByID(ctx, "b1")
	second, _ := repo.GetByID(ctx, "b1")

	first.Notes = "first"
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("update: %v", err)
	}
	if first.Version != 1 {
		t.Fatalf("version = %d, want 1", first.Version)
	}
	second.Notes = "second"
	if err := repo.Update(ctx, second); !models.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestFindByDateAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo()
	loc := time.UTC
	for i, spec := range []struct {
		name, vehicle string
		at            time.Time
	}{
		{"Nimal Perera", "CAB-1234", time.Date(2025, 3, 10, 9, 0, 0, 0, loc)},
		{"Kamala Silva", "WP-5678", time.Date(2025, 3, 10, 11, 0, 0, 0, loc)},
		{"Nimal Perera", "CAB-9999", time.Date(2025, 3, 11, 9, 0, 0, 0, loc)},
	} {
		b := &models.Booking{ID: string(rune('a' + i)), BookingNumber: "BK" + string(rune('a'+i)), CustomerName: spec.name, VehicleNumber: spec.vehicle}
		b.Schedule(spec.at, loc)
		if err := repo.Create(ctx, b); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	day, _ := repo.FindByDate(ctx, "2025-03-10")
	if len(day) != 2 || day[0].CustomerName != "Nimal Perera" {
		t.Fatalf("FindByDate = %+v", day)
	}

	hits, _ := repo.Find(ctx, models.BookingFilter{Keyword: "nimal"})
	if len(hits) != 2 {
		t.Fatalf("keyword hits = %d, want 2", len(hits))
	}
	hits, _ = repo.Find(ctx, models.BookingFilter{VehicleNumber: "wp-"})
	if len(hits) != 1 || hits[0].CustomerName != "Kamala Silva" {
		t.Fatalf("vehicle hits = %+v", hits)
	}
	from := time.Date(2025, 3, 10, 10, 0, 0, 0, loc)
	hits, _ = repo.Find(ctx, models.BookingFilter{From: &from})
	if len(hits) != 2 {
		t.Fatalf("range hits = %d, want 2", len(hits))
	}
}
