package handlers

import (
	"net/http"

	"vehicleservice/services/payment"
	"vehicleservice/services/pricing"
	"vehicleservice/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes pricing and payment method details.
type CatalogHandler struct {
	Pricing  *pricing.Engine
	Payments *payment.Engine
}

func NewCatalogHandler(p *pricing.Engine, pay *payment.Engine) *CatalogHandler {
	return &CatalogHandler{Pricing: p, Payments: pay}
}

// Price handles GET /api/pricing?serviceType=&additional=.
func (h *CatalogHandler) Price(c *gin.Context) {
	serviceType := c.Query("serviceType")
	if serviceType == "" {
		c.JSON(http.StatusOK, gin.H{"categories": h.Pricing.Categories()})
		return
	}
	extra, err := decimalQuery(c, "additional")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pricing":   h.Pricing.CalculateCompletePricing(serviceType),
		"totalCost": h.Pricing.CalculateTotalCost(serviceType, extra),
	})
}

// Methods handles GET /api/payments/methods.
func (h *CatalogHandler) Methods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"methods": h.Payments.SupportedMethods()})
}

// Info handles GET /api/payments/info?method=.
func (h *CatalogHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, h.Payments.Info(c.Query("method")))
}

// Fees handles GET /api/payments/fees?amount=&method=.
func (h *CatalogHandler) Fees(c *gin.Context) {
	amount, err := decimalQuery(c, "amount")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	method := c.Query("method")
	c.JSON(http.StatusOK, gin.H{
		"amount":         amount,
		"method":         method,
		"processingFees": h.Payments.CalculateProcessingFees(amount, method),
	})
}
