package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"vehicleservice/models"
)

const MethodCard = "CARD"

type feeTier struct {
	rate    decimal.Decimal
	minimum decimal.Decimal
}

var (
	visaTier = feeTier{decimal.RequireFromString("0.025"), decimal.NewFromInt(25)}

	cardTiers = map[string]feeTier{
		"VISA":             visaTier,
		"MASTERCARD":       {decimal.RequireFromString("0.03"), decimal.NewFromInt(30)},
		"AMEX":             {decimal.RequireFromString("0.035"), decimal.NewFromInt(35)},
		"AMERICAN_EXPRESS": {decimal.RequireFromString("0.035"), decimal.NewFromInt(35)},
		"CREDIT_CARD":      {decimal.RequireFromString("0.028"), decimal.NewFromInt(28)},
		"DEBIT_CARD":       {decimal.RequireFromString("0.02"), decimal.NewFromInt(20)},
	}

	// Methods routed to the card strategy.
	cardMethods = map[string]bool{
		MethodCard: true, "VISA": true, "MASTERCARD": true, "AMEX": true, "CREDIT_CARD": true, "DEBIT_CARD": true,
	}

	// Methods accepted for processing; plain CARD must name a card type.
	chargeableCards = map[string]bool{
		"VISA": true, "MASTERCARD": true, "AMEX": true, "CREDIT_CARD": true, "DEBIT_CARD": true,
	}
)

// CardPayment charges a card through a Gateway.
type CardPayment struct {
	limits  bounds
	gateway Gateway
}

func NewCardPayment(gateway Gateway) *CardPayment {
	if gateway == nil {
		gateway = NewSimulatedGateway()
	}
	return &CardPayment{
		limits:  bounds{label: "Card", min: decimal.NewFromInt(500), max: decimal.NewFromInt(500000)},
		gateway: gateway,
	}
}

func (c *CardPayment) Method() string   { return MethodCard }
func (c *CardPayment) Category() string { return MethodCard }

func (c *CardPayment) AppliesTo(method string) bool {
	return cardMethods[normalizeMethod(method)]
}

// ProcessingFees is max(amount * rate, minimum). Unknown card types pay VISA rates.
func (c *CardPayment) ProcessingFees(amount decimal.Decimal, method string) decimal.Decimal {
	tier, ok := cardTiers[normalizeMethod(method)]
	if !ok {
		tier = visaTier
	}
	return decimal.Max(amount.Mul(tier.rate), tier.minimum)
}

func (c *CardPayment) Validate(b *models.Booking, amount decimal.Decimal, method string) models.PaymentValidation {
	if v := c.limits.check(b, amount); !v.Valid {
		return v
	}
	if !chargeableCards[normalizeMethod(method)] {
		return invalid("Invalid card payment method. Supported methods: VISA, MASTERCARD, AMEX")
	}
	return models.PaymentValidation{Valid: true}
}

func (c *CardPayment) Process(ctx context.Context, b *models.Booking, amount decimal.Decimal, method string) models.PaymentResult {
	if v := c.Validate(b, amount, method); !v.Valid {
		return models.FailedPayment(v.ErrorMessage)
	}
	if !c.gateway.Authorize(ctx, amount, method) {
		return models.FailedPayment("Card payment processing failed. Please try again.")
	}
	fees := c.ProcessingFees(amount, method)
	settle(b, amount)
	return models.PaymentResult{
		Success:         true,
		TransactionID:   transactionID(MethodCard),
		Message:         "Card payment processed successfully",
		ProcessedAmount: amount,
		ProcessingFees:  fees,
	}
}
