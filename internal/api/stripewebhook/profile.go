package stripewebhooks

import (
	"chartsense-app/internal/domain/entitlement"
	"chartsense-app/internal/domain/profiles"

	"gorm.io/gorm"
)

// updateProfile applies a partial update, creating the free profile first if
// the user has never touched the entitlement system. Last write wins; the
// lazy downgrade on the read path keeps any racing stale state
// self-correcting.
func updateProfile(db *gorm.DB, userID uint, updates map[string]interface{}) error {
	if _, err := entitlement.GetOrCreateProfile(db, userID); err != nil {
		return err
	}
	return db.Model(&profiles.Profile{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}
