package middleware

import (
	"time"

	"chartsense-app/database"
	"chartsense-app/internal/domain/entitlement"

	"github.com/gin-gonic/gin"
)

// PremiumContext resolves the caller's premium entitlement and stores it on
// the request context for handlers that shape output by tier (it never
// blocks the request). Evaluation is per-request; nothing is cached across
// requests, so a racing webhook write is picked up on the next call.
func PremiumContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		hasPremium, err := entitlement.HasActivePremium(database.DB, time.Now(), userID)
		if err != nil {
			hasPremium = false
		}
		c.Set("has_premium", hasPremium)
		c.Next()
	}
}
