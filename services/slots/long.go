package slots

import "vehicleservice/services/strategy"

const CategoryLong = "LONG_SERVICE"

// LongService handles major work: one vehicle per 2 hour slot, 30 minute
// turnaround, 08:00 to 16:00.
type LongService struct{ shape }

func NewLongService() LongService {
	return LongService{shape{category: CategoryLong, duration: 120, buffer: 30, capacity: 1, open: 8 * 60, close: 16 * 60}}
}

func (LongService) AppliesTo(serviceType string) bool {
	s := strategy.Normalize(serviceType)
	if s == "" {
		return false
	}
	switch s {
	case "brake service", "transmission service", "engine inspection":
		return true
	}
	return strategy.ContainsAny(s, "major repair", "overhaul", "long service")
}
