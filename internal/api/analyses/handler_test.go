package analyses

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chartsense-app/config"
	"chartsense-app/database"
	"chartsense-app/internal/domain/analyses"
	"chartsense-app/internal/domain/profiles"
	"chartsense-app/internal/domain/usage"
	"chartsense-app/internal/infra/llm"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.FREE_ANALYSIS_LIMIT = 3

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.DB = db
	t.Cleanup(func() { database.DB = nil })
	return db
}

func newRouter(userID uint, hasPremium bool) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("has_premium", hasPremium)
	})
	r.POST("/analyses/analyze", Analyze)
	r.POST("/analyses", Create)
	r.GET("/analyses", List)
	r.GET("/analyses/:id", Get)
	r.DELETE("/analyses/:id", Delete)
	return r
}

func stubCollaborators(t *testing.T, upload func(ctx context.Context, key string, body []byte, contentType string) (string, error),
	analyze func(ctx context.Context, imageURL, assetName, strategy string) (*llm.ChartAnalysis, error)) {
	t.Helper()
	origUpload, origAnalyze := uploadChart, analyzeChart
	uploadChart, analyzeChart = upload, analyze
	t.Cleanup(func() { uploadChart, analyzeChart = origUpload, origAnalyze })
}

func analyzeBody() string {
	img := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))
	b, _ := json.Marshal(gin.H{"imageBase64": img, "assetName": "BTC/USD", "strategy": "swing"})
	return string(b)
}

func TestAnalyzeQuotaExceeded(t *testing.T) {
	db := setupTest(t)
	require.NoError(t, db.Create(&profiles.Profile{UserID: 1, SubscriptionStatus: profiles.StatusFree, AnalysisCount: 3}).Error)

	stubCollaborators(t,
		func(ctx context.Context, key string, body []byte, contentType string) (string, error) {
			t.Fatal("upload must not run for a denied request")
			return "", nil
		},
		func(ctx context.Context, imageURL, assetName, strategy string) (*llm.ChartAnalysis, error) {
			t.Fatal("analysis must not run for a denied request")
			return nil, nil
		})

	r := newRouter(1, false)
	req := httptest.NewRequest(http.MethodPost, "/analyses/analyze", strings.NewReader(analyzeBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "free_limit_reached")

	// no increment, no analysis row
	var p profiles.Profile
	require.NoError(t, db.Where("user_id = ?", 1).First(&p).Error)
	require.Equal(t, 3, p.AnalysisCount)

	var count int64
	require.NoError(t, db.Model(&analyses.Analysis{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestAnalyzeSuccess(t *testing.T) {
	db := setupTest(t)

	stubCollaborators(t,
		func(ctx context.Context, key string, body []byte, contentType string) (string, error) {
			require.True(t, strings.HasPrefix(key, "analyses/1/"))
			require.Equal(t, "image/png", contentType)
			return "https://bucket.s3.us-east-1.amazonaws.com/" + key, nil
		},
		func(ctx context.Context, imageURL, assetName, strategy string) (*llm.ChartAnalysis, error) {
			require.Equal(t, "BTC/USD", assetName)
			return &llm.ChartAnalysis{
				Trend:      "bullish",
				Confidence: 82,
				Patterns:   []string{"double bottom"},
				Raw:        json.RawMessage(`{"trend":"bullish"}`),
			}, nil
		})

	r := newRouter(1, false)
	req := httptest.NewRequest(http.MethodPost, "/analyses/analyze", strings.NewReader(analyzeBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "bullish")

	var row analyses.Analysis
	require.NoError(t, db.Where("user_id = ?", 1).First(&row).Error)
	require.Equal(t, "bullish", row.Trend)
	require.Equal(t, "BTC/USD", row.AssetName)

	// metering ran: counter bumped, audit row appended
	var p profiles.Profile
	require.NoError(t, db.Where("user_id = ?", 1).First(&p).Error)
	require.Equal(t, 1, p.AnalysisCount)

	var logs []usage.Log
	require.NoError(t, db.Where("user_id = ?", 1).Find(&logs).Error)
	require.Len(t, logs, 1)
}

func TestListFreeUserTruncated(t *testing.T) {
	db := setupTest(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&analyses.Analysis{UserID: 1, ImageURL: fmt.Sprintf("https://img/%d", i)}).Error)
	}

	w := httptest.NewRecorder()
	newRouter(1, false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analyses", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out []AnalysisDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 3)

	w = httptest.NewRecorder()
	newRouter(1, true).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analyses", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 5)
}

func TestGetNotOwned(t *testing.T) {
	db := setupTest(t)
	row := analyses.Analysis{UserID: 2, ImageURL: "https://img/1"}
	require.NoError(t, db.Create(&row).Error)

	w := httptest.NewRecorder()
	newRouter(1, false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/analyses/%d", row.ID), nil))

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "Not authorized")
	// uniform message, nothing about the other user's row
	require.NotContains(t, w.Body.String(), "img")
}

func TestDeleteOwned(t *testing.T) {
	db := setupTest(t)
	row := analyses.Analysis{UserID: 1, ImageURL: "https://img/1"}
	require.NoError(t, db.Create(&row).Error)

	w := httptest.NewRecorder()
	newRouter(1, false).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/analyses/%d", row.ID), nil))

	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&analyses.Analysis{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestCreateMetersUsage(t *testing.T) {
	db := setupTest(t)

	body, _ := json.Marshal(gin.H{"imageUrl": "https://img/1", "assetName": "ETH/USD", "trend": "bearish"})
	req := httptest.NewRequest(http.MethodPost, "/analyses", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newRouter(1, false).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var p profiles.Profile
	require.NoError(t, db.Where("user_id = ?", 1).First(&p).Error)
	require.Equal(t, 1, p.AnalysisCount)
}
