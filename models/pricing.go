package models

import "github.com/shopspring/decimal"

// PricingResult is the computed price for a service type.
type PricingResult struct {
	ServiceType       string          `json:"serviceType"`
	ServiceCategory   string          `json:"serviceCategory"`
	BasePrice         decimal.Decimal `json:"basePrice"`
	AdditionalCharges decimal.Decimal `json:"additionalCharges"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
}
