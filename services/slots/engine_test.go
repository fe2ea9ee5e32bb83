package slots

import (
	"testing"
	"time"

	"vehicleservice/models"
)

var june10 = time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)

func TestGenerateSlotsOilChange(t *testing.T) {
	e := NewEngine(nil)
	slots := e.GenerateSlots(june10, "Oil Change")

	if len(slots) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(slots))
	}
	if slots[0].StartTime != "09:00" || slots[15].EndTime != "17:00" {
		t.Fatalf("unexpected window %s..%s", slots[0].StartTime, slots[15].EndTime)
	}
	for i, s := range slots {
		if s.End-s.Start != 30 {
			t.Errorf("slot %d: duration %d", i, s.End-s.Start)
		}
		if s.RemainingCapacity != 3 || !s.Available {
			t.Errorf("slot %d: capacity %d available %v", i, s.RemainingCapacity, s.Available)
		}
		if s.Date != "2024-06-10" || s.Category != CategoryQuick {
			t.Errorf("slot %d: date %s category %s", i, s.Date, s.Category)
		}
	}
}

func TestGenerateSlotsLongServiceHasBuffer(t *testing.T) {
	slots := NewEngine(nil).GenerateSlots(june10, "Brake Service")

	want := []string{"08:00 - 10:00", "10:30 - 12:30", "13:00 - 15:00"}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i, w := range want {
		if slots[i].Label() != w {
			t.Errorf("slot %d = %s, want %s", i, slots[i].Label(), w)
		}
		if slots[i].RemainingCapacity != 1 {
			t.Errorf("slot %d capacity %d", i, slots[i].RemainingCapacity)
		}
	}
}

func TestGenerateSlotsInspection(t *testing.T) {
	slots := NewEngine(nil).GenerateSlots(june10, "Safety Inspection")
	if len(slots) != 7 {
		t.Fatalf("expected 7 hourly slots, got %d", len(slots))
	}
	if slots[6].Label() != "15:00 - 16:00" || slots[0].RemainingCapacity != 2 {
		t.Fatalf("unexpected last slot %s", slots[6].Label())
	}
}

func TestGenerateSlotsDropsTrailingPartialSlot(t *testing.T) {
	s := shape{category: "X", duration: 45, capacity: 1, open: 9 * 60, close: 10 * 60}
	slots := s.GenerateSlots(june10)
	if len(slots) != 1 || slots[0].Label() != "09:00 - 09:45" {
		t.Fatalf("expected a single 45 minute slot, got %+v", slots)
	}
}

func TestGenerateSlotsIsDeterministic(t *testing.T) {
	e := NewEngine(nil)
	for _, st := range []string{"Oil Change", "Transmission Service", "Emission Test", "", "car wash"} {
		a := e.GenerateSlots(june10, st)
		b := e.GenerateSlots(june10, st)
		if len(a) != len(b) {
			t.Fatalf("%q: %d vs %d slots", st, len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%q: slot %d differs", st, i)
			}
		}
	}
}

func TestResolveSlotStrategy(t *testing.T) {
	e := NewEngine(nil)
	cases := map[string]string{
		"Oil Change":           CategoryQuick,
		"AC Service":           CategoryQuick,
		"brake service":        CategoryLong,
		"Engine Inspection":    CategoryLong,
		"Complete Overhaul":    CategoryLong,
		"Safety Inspection":    CategoryInspection,
		"Computer Diagnostic":  CategoryInspection,
		"":                     CategoryInspection,
		"Windscreen Replace":   CategoryInspection,
		"Transmission Service": CategoryLong,
	}
	for st, want := range cases {
		if got := e.Resolve(st).Category(); got != want {
			t.Errorf("Resolve(%q) = %s, want %s", st, got, want)
		}
	}
}

func TestInfo(t *testing.T) {
	info := NewEngine(nil).Info("Major Repair")
	want := models.SlotGenerationInfo{ServiceType: "Major Repair", ServiceCategory: CategoryLong, SlotDurationMinutes: 120, MaxBookingsPerSlot: 1}
	if info != want {
		t.Fatalf("got %+v, want %+v", info, want)
	}
}
