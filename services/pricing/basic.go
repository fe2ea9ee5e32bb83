package pricing

import "vehicleservice/services/strategy"

const CategoryBasic = "BASIC_SERVICE"

// BasicService prices routine maintenance. No surcharges apply.
type BasicService struct{ catalogue }

func NewBasicService() BasicService {
	return BasicService{catalogue{
		category: CategoryBasic,
		fallback: lkr(2000),
		prices: merge(
			prices(lkr(3600), "oil change", "basic oil change"),
			prices(lkr(2000), "tire service", "tire rotation", "general maintenance", "basic maintenance"),
			prices(lkr(2500), "air filter replacement", "air filter"),
			prices(lkr(3000), "spark plug replacement", "spark plugs"),
		),
	}}
}

func (BasicService) AppliesTo(serviceType string) bool {
	s := strategy.Normalize(serviceType)
	if s == "" {
		return false
	}
	return strategy.ContainsAny(s,
		"oil change",
		"tire service",
		"general maintenance",
		"air filter",
		"spark plug",
		"basic service",
	)
}
