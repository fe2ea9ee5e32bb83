package handlers

import (
	"net/http"
	"strconv"
	"time"

	"vehicleservice/models"
	"vehicleservice/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
}

// decimalQuery parses an optional decimal query parameter.
func decimalQuery(c *gin.Context, name string) (decimal.Decimal, error) {
	raw := c.Query(name)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, models.NewValidationError(name, "invalid amount %q", raw)
	}
	return d, nil
}

func boolQuery(c *gin.Context, name string) bool {
	v, _ := strconv.ParseBool(c.Query(name))
	return v
}

// dateQuery parses an optional YYYY-MM-DD parameter. end moves it to the last instant of that day.
func dateQuery(c *gin.Context, name string, loc *time.Location, end bool) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw, loc)
	if err != nil {
		return nil, models.NewValidationError(name, "invalid date %q, expected YYYY-MM-DD", raw)
	}
	if end {
		d = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &d, nil
}
