package pricing

import (
	"github.com/shopspring/decimal"

	"vehicleservice/services/strategy"
)

// Strategy prices one family of services. Amounts are in LKR.
type Strategy interface {
	strategy.Strategy
	BasePrice(serviceType string) decimal.Decimal
	AdditionalCharges(serviceType string, base decimal.Decimal) decimal.Decimal
	TotalPrice(serviceType string, base, additional decimal.Decimal) decimal.Decimal
}

// catalogue maps normalized service names to fixed prices.
type catalogue struct {
	category string
	prices   map[string]decimal.Decimal
	fallback decimal.Decimal
}

func (c catalogue) Category() string { return c.category }

func (c catalogue) BasePrice(serviceType string) decimal.Decimal {
	if p, ok := c.prices[strategy.Normalize(serviceType)]; ok {
		return p
	}
	return c.fallback
}

func (c catalogue) AdditionalCharges(string, decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

func (c catalogue) TotalPrice(_ string, base, additional decimal.Decimal) decimal.Decimal {
	return base.Add(additional)
}

func lkr(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func prices(amount decimal.Decimal, names ...string) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(names))
	for _, n := range names {
		m[n] = amount
	}
	return m
}

func merge(maps ...map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
