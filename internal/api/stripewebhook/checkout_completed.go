package stripewebhooks

import (
	"log"
	"strconv"
	"time"

	"chartsense-app/database"
	"chartsense-app/internal/domain/billing"
	"chartsense-app/internal/domain/profiles"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/subscription"
	"gorm.io/gorm/clause"
)

// Indirection so tests can exercise the apply path without Stripe access.
var fetchSubscription = func(id string) (*stripe.Subscription, error) {
	return subscription.Get(id, nil)
}

func handleCheckoutSessionCompleted(session *stripe.CheckoutSession) error {
	// The correlation id we embedded at checkout creation is the only link
	// between the Stripe object and our user. Redundant encoding: prefer
	// client_reference_id, fall back to metadata.
	userID := userIDFromSessionOrMetadata(session)
	if userID == 0 {
		log.Println("[Webhook] No user id in checkout session, cannot reconcile")
		return nil
	}

	if session.Subscription == nil || session.Subscription.ID == "" {
		log.Printf("[Webhook] Checkout session for user %d carries no subscription", userID)
		return nil
	}

	subData, err := fetchSubscription(session.Subscription.ID)
	if err != nil {
		return err
	}

	customerID := ""
	if session.Customer != nil {
		customerID = session.Customer.ID
	}
	if customerID == "" && subData.Customer != nil {
		customerID = subData.Customer.ID
	}

	if err := applyCheckoutSubscription(userID, customerID, subData); err != nil {
		return err
	}

	log.Printf("[Webhook] Subscription activated for user %d", userID)
	return nil
}

// applyCheckoutSubscription writes the authoritative Stripe subscription
// onto the profile and upserts the mirror row. Redelivery of the same event
// lands on the same user_id key and stays a single mirror row.
func applyCheckoutSubscription(userID uint, customerID string, subData *stripe.Subscription) error {
	db := database.DB
	if db == nil {
		log.Println("[Webhook] store not configured, skipping reconciliation")
		return nil
	}

	plan := planInterval(subData)
	periodStart := time.Unix(subData.CurrentPeriodStart, 0)
	periodEnd := time.Unix(subData.CurrentPeriodEnd, 0)

	if err := updateProfile(db, userID, map[string]interface{}{
		"subscription_status":  profiles.StatusActive,
		"subscription_plan":    plan,
		"subscription_ends_at": periodEnd,
	}); err != nil {
		return err
	}

	mirror := billing.Subscription{
		UserID:               userID,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: subData.ID,
		Plan:                 plan,
		Status:               string(subData.Status),
		CurrentPeriodStart:   &periodStart,
		CurrentPeriodEnd:     &periodEnd,
		CancelAtPeriodEnd:    subData.CancelAtPeriodEnd,
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stripe_customer_id", "stripe_subscription_id", "plan", "status",
			"current_period_start", "current_period_end", "cancel_at_period_end",
			"updated_at",
		}),
	}).Create(&mirror).Error
}

func userIDFromSessionOrMetadata(session *stripe.CheckoutSession) uint {
	ref := session.ClientReferenceID
	if ref == "" && session.Metadata != nil {
		ref = session.Metadata["user_id"]
	}
	if ref == "" {
		return 0
	}
	uid, err := strconv.ParseUint(ref, 10, 64)
	if err != nil {
		return 0
	}
	return uint(uid)
}

func planInterval(sub *stripe.Subscription) string {
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return "unknown"
	}
	price := sub.Items.Data[0].Price
	if price == nil || price.Recurring == nil {
		return "unknown"
	}
	return string(price.Recurring.Interval)
}
