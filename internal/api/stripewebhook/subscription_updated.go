package stripewebhooks

import (
	"errors"
	"log"
	"time"

	"chartsense-app/database"
	"chartsense-app/internal/domain/billing"
	"chartsense-app/internal/domain/profiles"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func handleSubscriptionUpdated(sub *stripe.Subscription) error {
	db := database.DB
	if db == nil {
		log.Println("[Webhook] store not configured, skipping reconciliation")
		return nil
	}
	if sub.Customer == nil || sub.Customer.ID == "" {
		return nil
	}

	// The event only carries the Stripe customer id; the mirror row is the
	// reverse-lookup path back to our user. An update arriving before the
	// initial checkout.session.completed has no row to land on and is lost.
	var mirror billing.Subscription
	if err := db.Where("stripe_customer_id = ?", sub.Customer.ID).First(&mirror).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[Webhook] No subscription record for customer %s, dropping update", sub.Customer.ID)
			return nil
		}
		return err
	}

	status := profiles.StatusFree
	if sub.Status == stripe.SubscriptionStatusActive {
		status = profiles.StatusActive
	}
	periodStart := time.Unix(sub.CurrentPeriodStart, 0)
	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)

	if err := updateProfile(db, mirror.UserID, map[string]interface{}{
		"subscription_status":  status,
		"subscription_ends_at": periodEnd,
	}); err != nil {
		return err
	}

	next := billing.Subscription{
		UserID:               mirror.UserID,
		StripeCustomerID:     sub.Customer.ID,
		StripeSubscriptionID: sub.ID,
		Plan:                 planInterval(sub),
		Status:               string(sub.Status),
		CurrentPeriodStart:   &periodStart,
		CurrentPeriodEnd:     &periodEnd,
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stripe_customer_id", "stripe_subscription_id", "plan", "status",
			"current_period_start", "current_period_end", "cancel_at_period_end",
			"updated_at",
		}),
	}).Create(&next).Error; err != nil {
		return err
	}

	log.Printf("[Webhook] Subscription updated for user %d", mirror.UserID)
	return nil
}
