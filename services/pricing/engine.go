package pricing

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vehicleservice/models"
	"vehicleservice/services/strategy"
)

// Engine resolves a pricing strategy for a service type.
type Engine struct {
	registry *strategy.Registry[Strategy]
	logger   *zap.Logger
}

// DefaultStrategies is the production registration order. Unmatched or blank
// service types are priced by the first entry.
func DefaultStrategies() []Strategy {
	return []Strategy{NewAdvancedService(), NewBasicService(), NewInspectionService()}
}

func NewEngine(logger *zap.Logger, strategies ...Strategy) *Engine {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{registry: strategy.NewRegistry(strategies...), logger: logger}
}

func (e *Engine) Resolve(serviceType string) Strategy {
	s, _ := e.registry.Resolve(serviceType)
	e.logger.Debug("pricing strategy resolved",
		zap.String("serviceType", serviceType),
		zap.String("category", s.Category()))
	return s
}

func (e *Engine) BasePrice(serviceType string) decimal.Decimal {
	return e.Resolve(serviceType).BasePrice(serviceType)
}

func (e *Engine) AdditionalCharges(serviceType string, base decimal.Decimal) decimal.Decimal {
	return e.Resolve(serviceType).AdditionalCharges(serviceType, base)
}

func (e *Engine) TotalPrice(serviceType string, base, additional decimal.Decimal) decimal.Decimal {
	return e.Resolve(serviceType).TotalPrice(serviceType, base, additional)
}

// CalculateCompletePricing prices a service type with a single strategy resolution.
func (e *Engine) CalculateCompletePricing(serviceType string) models.PricingResult {
	s := e.Resolve(serviceType)
	base := s.BasePrice(serviceType)
	additional := s.AdditionalCharges(serviceType, base)
	return models.PricingResult{
		ServiceType:       serviceType,
		ServiceCategory:   s.Category(),
		BasePrice:         base,
		AdditionalCharges: additional,
		TotalPrice:        s.TotalPrice(serviceType, base, additional),
	}
}

// CalculateTotalCost adds caller-supplied charges to the catalogue total.
func (e *Engine) CalculateTotalCost(serviceType string, extra decimal.Decimal) decimal.Decimal {
	p := e.CalculateCompletePricing(serviceType)
	return p.TotalPrice.Add(extra)
}

func (e *Engine) Categories() []string {
	return e.registry.Categories()
}
