package usage

import (
	"encoding/json"
	"errors"
	"log"

	"chartsense-app/internal/domain/profiles"

	"gorm.io/gorm"
)

const ActionAnalysisCreated = "ANALYSIS_CREATED"

// RecordAnalysis meters one completed gated action: bumps the profile's
// lifetime counter and appends an audit row. Both writes are best-effort;
// the caller's action has already succeeded and must not be failed or rolled
// back over metering. Under-counting on concurrent calls is accepted (the
// quota is a soft abuse deterrent, not a billing meter).
func RecordAnalysis(db *gorm.DB, userID uint, action string, metadata map[string]interface{}) {
	if db == nil {
		log.Println("[Usage] store not configured, skipping metering")
		return
	}

	incrementCount(db, userID)

	row := Log{UserID: userID, Action: action}
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			row.Metadata = string(b)
		}
	}
	if err := db.Create(&row).Error; err != nil {
		log.Printf("[Usage] failed to append usage log for user %d: %v", userID, err)
	}
}

// Non-atomic read-modify-write, matching the consistency model of the rest
// of the profile record.
func incrementCount(db *gorm.DB, userID uint) {
	var profile profiles.Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile = profiles.Profile{UserID: userID, SubscriptionStatus: profiles.StatusFree}
			if err := db.Create(&profile).Error; err != nil {
				log.Printf("[Usage] failed to create profile for user %d: %v", userID, err)
				return
			}
		} else {
			log.Printf("[Usage] failed to load profile for user %d: %v", userID, err)
			return
		}
	}

	if err := db.Model(&profiles.Profile{}).
		Where("user_id = ?", userID).
		Update("analysis_count", profile.AnalysisCount+1).Error; err != nil {
		log.Printf("[Usage] failed to increment analysis count for user %d: %v", userID, err)
	}
}
