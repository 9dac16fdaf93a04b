package billing

import "time"

// Subscription mirrors the external Stripe subscription object, one row per
// user. It is an audit/detail trace, not the entitlement flag: access
// decisions read profiles.Profile. The stripe_customer_id index backs the
// webhook reconciler's reverse lookup (Stripe events only carry the customer
// id, never our user id).
type Subscription struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;uniqueIndex:idx_subscriptions_user_id"`

	StripeCustomerID     string `gorm:"column:stripe_customer_id;index:idx_subscriptions_stripe_customer_id"`
	StripeSubscriptionID string `gorm:"column:stripe_subscription_id"`

	Plan   string `gorm:"type:varchar(50)"`
	Status string `gorm:"type:varchar(50)"`

	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CancelAtPeriodEnd  bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
