package usage

import (
	"fmt"
	"strings"
	"testing"

	"chartsense-app/internal/domain/profiles"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Migrates only the models metering touches: the database package imports
// this one for AutoMigrate, so its helper cannot be used from here.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&profiles.Profile{}, &Log{}))
	return db
}

func TestRecordAnalysis(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&profiles.Profile{UserID: 1, SubscriptionStatus: profiles.StatusFree, AnalysisCount: 2}).Error)

	RecordAnalysis(db, 1, ActionAnalysisCreated, map[string]interface{}{"analysisId": 10})

	var p profiles.Profile
	require.NoError(t, db.Where("user_id = ?", 1).First(&p).Error)
	require.Equal(t, 3, p.AnalysisCount)

	var logs []Log
	require.NoError(t, db.Where("user_id = ?", 1).Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, ActionAnalysisCreated, logs[0].Action)
	require.Contains(t, logs[0].Metadata, `"analysisId":10`)
}

func TestRecordAnalysisCreatesProfile(t *testing.T) {
	db := newTestDB(t)

	RecordAnalysis(db, 42, ActionAnalysisCreated, nil)

	var p profiles.Profile
	require.NoError(t, db.Where("user_id = ?", 42).First(&p).Error)
	require.Equal(t, 1, p.AnalysisCount)
	require.Equal(t, profiles.StatusFree, p.SubscriptionStatus)
}

func TestRecordAnalysisNilDB(t *testing.T) {
	// metering is best-effort: an unconfigured store must not panic
	RecordAnalysis(nil, 1, ActionAnalysisCreated, nil)
}
