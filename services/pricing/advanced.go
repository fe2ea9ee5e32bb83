package pricing

import "vehicleservice/services/strategy"

const CategoryAdvanced = "ADVANCED_SERVICE"

// AdvancedService prices major mechanical and electrical work.
type AdvancedService struct{ catalogue }

func NewAdvancedService() AdvancedService {
	return AdvancedService{catalogue{
		category: CategoryAdvanced,
		fallback: lkr(15000),
		prices: merge(
			prices(lkr(15000), "engine inspection", "engine repair", "engine overhaul"),
			prices(lkr(25000), "transmission service", "transmission repair", "transmission overhaul"),
			prices(lkr(12000), "brake service", "brake repair", "brake system"),
			prices(lkr(8000), "electrical service", "electrical repair", "electrical system", "wiring repair"),
			prices(lkr(10000), "ac service", "ac repair", "air conditioning"),
			prices(lkr(35000), "major overhaul", "complete overhaul"),
		),
	}}
}

func (AdvancedService) AppliesTo(serviceType string) bool {
	s := strategy.Normalize(serviceType)
	if s == "" {
		return false
	}
	return strategy.ContainsAny(s,
		"engine inspection",
		"engine repair",
		"transmission",
		"brake service",
		"electrical service",
		"ac service",
		"overhaul",
		"major repair",
		"diagnostic",
	)
}
