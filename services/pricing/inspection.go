package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"vehicleservice/services/strategy"
)

const CategoryInspection = "INSPECTION_SERVICE"

var (
	detailedReportFee = lkr(1500)
	certificateFee    = lkr(500)
	reInspectionFee   = lkr(2000)
)

// InspectionService prices inspections and adds surcharges for report extras
// named in the service type.
type InspectionService struct{ catalogue }

func NewInspectionService() InspectionService {
	return InspectionService{catalogue{
		category: CategoryInspection,
		fallback: lkr(3000),
		prices: merge(
			prices(lkr(3000), "safety inspection", "safety check"),
			prices(lkr(2500), "emissions test", "emission test"),
			prices(lkr(4000), "vehicle diagnostic", "diagnostic", "computer diagnostic"),
			prices(lkr(5000), "pre purchase inspection", "pre-purchase inspection", "buyer inspection"),
			prices(lkr(2000), "insurance inspection", "insurance check"),
			prices(lkr(3500), "annual inspection", "yearly inspection"),
		),
	}}
}

func (InspectionService) AdditionalCharges(serviceType string, _ decimal.Decimal) decimal.Decimal {
	s := strings.ToLower(serviceType)
	extra := decimal.Zero
	if strings.Contains(s, "detailed") {
		extra = extra.Add(detailedReportFee)
	}
	if strings.Contains(s, "certificate") {
		extra = extra.Add(certificateFee)
	}
	if strings.Contains(s, "re-inspection") {
		extra = extra.Add(reInspectionFee)
	}
	return extra
}

func (InspectionService) AppliesTo(serviceType string) bool {
	s := strategy.Normalize(serviceType)
	if s == "" {
		return false
	}
	return strategy.ContainsAny(s,
		"inspection",
		"emission",
		"diagnostic",
		"safety check",
		"pre purchase",
		"insurance check",
		"annual check",
	)
}
