package models

import "github.com/shopspring/decimal"

// PaymentResult reports the outcome of a payment attempt. A failed result never
// comes with a mutated booking.
type PaymentResult struct {
	Success         bool            `json:"success"`
	TransactionID   string          `json:"transactionId,omitempty"`
	Message         string          `json:"message"`
	ProcessedAmount decimal.Decimal `json:"processedAmount"`
	ProcessingFees  decimal.Decimal `json:"processingFees"`
}

// FailedPayment builds an unsuccessful result with zero amounts.
func FailedPayment(message string) PaymentResult {
	return PaymentResult{Message: message, ProcessedAmount: decimal.Zero, ProcessingFees: decimal.Zero}
}

// PaymentValidation is the outcome of checking a payment before processing.
type PaymentValidation struct {
	Valid        bool   `json:"valid"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// PaymentMethodInfo describes the fees charged for a method.
type PaymentMethodInfo struct {
	RequestedMethod      string          `json:"requestedMethod"`
	SupportedMethod      string          `json:"supportedMethod"`
	SampleProcessingFees decimal.Decimal `json:"sampleProcessingFees"`
	Description          string          `json:"description"`
}

// PaymentInput is the request to pay towards a booking.
type PaymentInput struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" binding:"required"`
}
