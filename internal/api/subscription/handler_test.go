package subscription

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chartsense-app/database"
	"chartsense-app/internal/domain/billing"
	"chartsense-app/internal/domain/profiles"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.DB = db
	t.Cleanup(func() { database.DB = nil })
	return db
}

func newRouter(userID uint) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", userID) })
	r.GET("/subscription", Get)
	r.GET("/subscription/premium", CheckPremium)
	return r
}

func TestCheckPremiumNewUser(t *testing.T) {
	setupTest(t)

	w := httptest.NewRecorder()
	newRouter(1).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/subscription/premium", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, false, out["hasPremium"])
	require.Equal(t, "free", out["status"])
	require.Nil(t, out["plan"])
	require.Nil(t, out["endsAt"])
}

func TestCheckPremiumExpiredReportsDowngradedStatus(t *testing.T) {
	db := setupTest(t)
	ends := time.Now().Add(-time.Hour)
	plan := "week"
	require.NoError(t, db.Create(&profiles.Profile{
		UserID:             1,
		SubscriptionStatus: profiles.StatusActive,
		SubscriptionPlan:   &plan,
		SubscriptionEndsAt: &ends,
	}).Error)

	w := httptest.NewRecorder()
	newRouter(1).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/subscription/premium", nil))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, false, out["hasPremium"])
	// the lazy downgrade happened before the profile was re-read
	require.Equal(t, "free", out["status"])
}

func TestGetSubscriptionNone(t *testing.T) {
	setupTest(t)

	w := httptest.NewRecorder()
	newRouter(1).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/subscription", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "null", strings.TrimSpace(w.Body.String()))
}

func TestGetSubscriptionMirror(t *testing.T) {
	db := setupTest(t)
	require.NoError(t, db.Create(&billing.Subscription{
		UserID:               1,
		StripeCustomerID:     "cus_1",
		StripeSubscriptionID: "sub_1",
		Plan:                 "year",
		Status:               "active",
	}).Error)

	w := httptest.NewRecorder()
	newRouter(1).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/subscription", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var out SubscriptionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, "sub_1", out.StripeSubscriptionID)
	require.Equal(t, "cus_1", out.StripeCustomerID)
	require.Equal(t, "year", out.Plan)

	// camelCase keys like the rest of the API surface
	require.Contains(t, w.Body.String(), `"stripeSubscriptionId"`)
}
