package plans

import (
	"net/http"

	"chartsense-app/internal/domain/plans"

	"github.com/gin-gonic/gin"
)

type PlanDTO struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"` // major units
	Currency string  `json:"currency"`
	Interval string  `json:"interval"`
}

func ListPlans(c *gin.Context) {
	out := []PlanDTO{}
	for _, p := range plans.Products() {
		out = append(out, PlanDTO{
			Key:      p.Key,
			Name:     p.Name,
			Amount:   float64(p.Amount) / 100.0,
			Currency: p.Currency,
			Interval: p.Interval,
		})
	}
	c.JSON(http.StatusOK, out)
}
