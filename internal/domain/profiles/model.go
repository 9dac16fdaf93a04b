package profiles

import "time"

const (
	StatusFree   = "free"
	StatusActive = "active"
)

// Profile is the per-user entitlement record. It is the authoritative source
// for access decisions; the billing.Subscription row is only a mirror of the
// external Stripe object. Created lazily on first access, never deleted.
type Profile struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;uniqueIndex:idx_profiles_user_id"`

	SubscriptionStatus string     `gorm:"type:varchar(50);not null;default:'free'"`
	SubscriptionPlan   *string    `gorm:"type:varchar(50)"`
	SubscriptionEndsAt *time.Time

	// Lifetime counter feeding the free-tier quota. Never reset across plan
	// changes.
	AnalysisCount int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
