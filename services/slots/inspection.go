package slots

import "vehicleservice/services/strategy"

const CategoryInspection = "INSPECTION_SERVICE"

// InspectionService: 60 minute slots, two lanes, 09:00 to 16:00.
type InspectionService struct{ shape }

func NewInspectionService() InspectionService {
	return InspectionService{shape{category: CategoryInspection, duration: 60, capacity: 2, open: 9 * 60, close: 16 * 60}}
}

// AppliesTo excludes "engine inspection", which is booked as a long service.
func (InspectionService) AppliesTo(serviceType string) bool {
	s := strategy.Normalize(serviceType)
	if s == "" {
		return false
	}
	if s != "engine inspection" && strategy.ContainsAny(s, "inspection") {
		return true
	}
	return strategy.ContainsAny(s,
		"emission",
		"diagnostic",
		"safety check",
		"pre purchase",
		"insurance check",
		"annual check",
	)
}
