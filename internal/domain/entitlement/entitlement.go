// Package entitlement decides whether a user may perform gated actions:
// premium evaluation with lazy downgrade of expired subscriptions, and the
// free-tier quota gate.
package entitlement

import (
	"errors"
	"log"
	"time"

	"chartsense-app/internal/domain/profiles"

	"gorm.io/gorm"
)

// GetOrCreateProfile fetches the user's entitlement record, creating it with
// free status and zero usage on first access. This is the only implicit
// creation point in the system. A nil db handle yields a nil profile and no
// error: an unconfigured store means "new free user", not a fault.
func GetOrCreateProfile(db *gorm.DB, userID uint) (*profiles.Profile, error) {
	if db == nil {
		log.Println("[Entitlement] store not configured, treating user as free tier")
		return nil, nil
	}

	var profile profiles.Profile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = profiles.Profile{
		UserID:             userID,
		SubscriptionStatus: profiles.StatusFree,
		AnalysisCount:      0,
	}
	if err := db.Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// HasActivePremium reports whether the user holds an unexpired paid
// subscription. An active profile whose subscriptionEndsAt has passed is
// downgraded to free in place before returning false, so callers must
// tolerate this read causing a write. Re-invoking on an already-downgraded
// profile is a no-op.
func HasActivePremium(db *gorm.DB, now time.Time, userID uint) (bool, error) {
	profile, err := GetOrCreateProfile(db, userID)
	if err != nil {
		return false, err
	}
	if profile == nil || profile.SubscriptionStatus != profiles.StatusActive {
		return false, nil
	}

	if profile.SubscriptionEndsAt != nil && profile.SubscriptionEndsAt.Before(now) {
		// Lazy downgrade. Nil ends-at means lifetime and never reaches here.
		if err := db.Model(&profiles.Profile{}).
			Where("user_id = ?", userID).
			Update("subscription_status", profiles.StatusFree).Error; err != nil {
			log.Printf("[Entitlement] lazy downgrade failed for user %d: %v", userID, err)
		}
		return false, nil
	}

	return true, nil
}

// CanAnalyze is the quota gate for the analysis action: premium users always
// pass, free users pass while their lifetime count is below freeLimit.
func CanAnalyze(db *gorm.DB, now time.Time, userID uint, freeLimit int) (bool, error) {
	premium, err := HasActivePremium(db, now, userID)
	if err != nil {
		return false, err
	}
	if premium {
		return true, nil
	}

	profile, err := GetOrCreateProfile(db, userID)
	if err != nil {
		return false, err
	}
	if profile == nil {
		return true, nil
	}
	return profile.AnalysisCount < freeLimit, nil
}
