package slots

import (
	"time"

	"go.uber.org/zap"

	"vehicleservice/models"
	"vehicleservice/services/strategy"
)

// Engine resolves a slot strategy for a service type and generates its slots.
type Engine struct {
	registry *strategy.Registry[Strategy]
	logger   *zap.Logger
}

// DefaultStrategies is the production registration order. Unmatched or blank
// service types resolve to the first entry.
func DefaultStrategies() []Strategy {
	return []Strategy{NewInspectionService(), NewLongService(), NewQuickService()}
}

// NewEngine registers strategies in the given order, or the defaults when none are given.
func NewEngine(logger *zap.Logger, strategies ...Strategy) *Engine {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{registry: strategy.NewRegistry(strategies...), logger: logger}
}

// Resolve always returns a strategy; the registry is never empty.
func (e *Engine) Resolve(serviceType string) Strategy {
	s, _ := e.registry.Resolve(serviceType)
	e.logger.Debug("slot strategy resolved",
		zap.String("serviceType", serviceType),
		zap.String("category", s.Category()))
	return s
}

// GenerateSlots is deterministic for a given (date, serviceType).
func (e *Engine) GenerateSlots(date time.Time, serviceType string) []models.TimeSlot {
	return e.Resolve(serviceType).GenerateSlots(date)
}

func (e *Engine) SlotDuration(serviceType string) int {
	return e.Resolve(serviceType).SlotDuration()
}

func (e *Engine) MaxBookingsPerSlot(serviceType string) int {
	return e.Resolve(serviceType).MaxBookingsPerSlot()
}

func (e *Engine) Info(serviceType string) models.SlotGenerationInfo {
	s := e.Resolve(serviceType)
	return models.SlotGenerationInfo{
		ServiceType:         serviceType,
		ServiceCategory:     s.Category(),
		SlotDurationMinutes: s.SlotDuration(),
		MaxBookingsPerSlot:  s.MaxBookingsPerSlot(),
	}
}

func (e *Engine) Strategies() []Strategy {
	return e.registry.All()
}
