package stripewebhooks

import (
	"errors"
	"log"

	"chartsense-app/database"
	"chartsense-app/internal/domain/billing"
	"chartsense-app/internal/domain/profiles"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

func handleSubscriptionDeleted(sub *stripe.Subscription) error {
	db := database.DB
	if db == nil {
		log.Println("[Webhook] store not configured, skipping reconciliation")
		return nil
	}
	if sub.Customer == nil || sub.Customer.ID == "" {
		return nil
	}

	var mirror billing.Subscription
	if err := db.Where("stripe_customer_id = ?", sub.Customer.ID).First(&mirror).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[Webhook] No subscription record for customer %s, nothing to cancel", sub.Customer.ID)
			return nil
		}
		return err
	}

	// The mirror row stays behind as a historical trace; only the profile
	// loses its entitlement.
	if err := updateProfile(db, mirror.UserID, map[string]interface{}{
		"subscription_status":  profiles.StatusFree,
		"subscription_ends_at": nil,
	}); err != nil {
		return err
	}

	log.Printf("[Webhook] Subscription cancelled for user %d", mirror.UserID)
	return nil
}
