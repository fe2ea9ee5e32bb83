package slots

import "vehicleservice/services/strategy"

const CategoryQuick = "QUICK_SERVICE"

// QuickService handles short jobs: 30 minute slots, three bays, 09:00 to 17:00.
type QuickService struct{ shape }

func NewQuickService() QuickService {
	return QuickService{shape{category: CategoryQuick, duration: 30, capacity: 3, open: 9 * 60, close: 17 * 60}}
}

func (QuickService) AppliesTo(serviceType string) bool {
	s := strategy.Normalize(serviceType)
	if s == "" {
		return false
	}
	return strategy.ContainsAny(s,
		"oil change",
		"tire service",
		"ac service",
		"electrical service",
		"general maintenance",
		"quick service",
	)
}
