package subscription

import (
	"errors"
	"net/http"
	"time"

	"chartsense-app/database"
	"chartsense-app/internal/domain/billing"
	"chartsense-app/internal/domain/entitlement"
	"chartsense-app/internal/domain/profiles"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CheckPremium is the entitlement query RPC. The premium evaluation may
// lazily downgrade an expired profile, so status/plan are re-read afterward.
func CheckPremium(c *gin.Context) {
	userID := c.GetUint("user_id")

	hasPremium, err := entitlement.HasActivePremium(database.DB, time.Now(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate subscription"})
		return
	}

	profile, err := entitlement.GetOrCreateProfile(database.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	status := profiles.StatusFree
	var plan *string
	var endsAt *time.Time
	if profile != nil {
		status = profile.SubscriptionStatus
		plan = profile.SubscriptionPlan
		endsAt = profile.SubscriptionEndsAt
	}

	c.JSON(http.StatusOK, gin.H{
		"hasPremium": hasPremium,
		"status":     status,
		"plan":       plan,
		"endsAt":     endsAt,
	})
}

type SubscriptionDTO struct {
	StripeCustomerID     string     `json:"stripeCustomerId"`
	StripeSubscriptionID string     `json:"stripeSubscriptionId"`
	Plan                 string     `json:"plan"`
	Status               string     `json:"status"`
	CurrentPeriodStart   *time.Time `json:"currentPeriodStart"`
	CurrentPeriodEnd     *time.Time `json:"currentPeriodEnd"`
	CancelAtPeriodEnd    bool       `json:"cancelAtPeriodEnd"`
}

func buildSubscriptionDTO(s billing.Subscription) SubscriptionDTO {
	return SubscriptionDTO{
		StripeCustomerID:     s.StripeCustomerID,
		StripeSubscriptionID: s.StripeSubscriptionID,
		Plan:                 s.Plan,
		Status:               s.Status,
		CurrentPeriodStart:   s.CurrentPeriodStart,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
	}
}

// Get returns the Stripe mirror record, or null when the user never
// completed a checkout.
func Get(c *gin.Context) {
	userID := c.GetUint("user_id")

	if database.DB == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	var mirror billing.Subscription
	if err := database.DB.Where("user_id = ?", userID).First(&mirror).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}

	c.JSON(http.StatusOK, buildSubscriptionDTO(mirror))
}
