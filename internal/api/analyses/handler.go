package analyses

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"chartsense-app/config"
	"chartsense-app/database"
	"chartsense-app/internal/domain/analyses"
	"chartsense-app/internal/domain/entitlement"
	"chartsense-app/internal/domain/usage"
	"chartsense-app/internal/infra/llm"
	"chartsense-app/internal/infra/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Indirection over the external collaborators so handler tests don't need
// S3 or OpenAI credentials.
var (
	uploadChart  = storage.Put
	analyzeChart = llm.AnalyzeChart
)

// Analyze is the gated action: quota check, image upload, model call,
// result row, then metering. The counter is bumped only after the action
// succeeded; the window between the two is an accepted under-count risk.
func Analyze(c *gin.Context) {
	userID := c.GetUint("user_id")

	var input struct {
		ImageBase64 string `json:"imageBase64" binding:"required"`
		AssetName   string `json:"assetName" binding:"required"`
		Strategy    string `json:"strategy" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	allowed, err := entitlement.CanAnalyze(database.DB, time.Now(), userID, config.FREE_ANALYSIS_LIMIT)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check quota"})
		return
	}
	if !allowed {
		// Distinguished from auth failures so the client can route to the
		// upgrade flow.
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Free tier limit reached. Please upgrade to continue.",
			"code":  "free_limit_reached",
		})
		return
	}

	imageBytes, err := decodeImage(input.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image data"})
		return
	}

	ctx := c.Request.Context()
	imageKey := fmt.Sprintf("analyses/%d/%s.png", userID, uuid.NewString())
	imageURL, err := uploadChart(ctx, imageKey, imageBytes, "image/png")
	if err != nil {
		log.Println("[Analyses] upload failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store chart image"})
		return
	}

	result, err := analyzeChart(ctx, imageURL, input.AssetName, input.Strategy)
	if err != nil {
		log.Println("[Analyses] analysis failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze chart"})
		return
	}

	row := rowFromResult(userID, imageURL, input.AssetName, input.Strategy, result)
	if database.DB != nil {
		if err := database.DB.Create(&row).Error; err != nil {
			log.Println("[Analyses] failed to persist analysis:", err)
		}
	}

	usage.RecordAnalysis(database.DB, userID, usage.ActionAnalysisCreated, map[string]interface{}{
		"analysisId": row.ID,
	})

	c.JSON(http.StatusOK, buildAnalysisDTO(row))
}

// Create records a client-assembled analysis (e.g. replayed from a realtime
// session). It is metered like Analyze.
func Create(c *gin.Context) {
	userID := c.GetUint("user_id")

	var input CreateAnalysisInput
	if err := c.ShouldBindJSON(&input); err != nil || input.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	row := input.toRow(userID)
	if database.DB != nil {
		if err := database.DB.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save analysis"})
			return
		}
	}

	usage.RecordAnalysis(database.DB, userID, usage.ActionAnalysisCreated, map[string]interface{}{
		"analysisId": row.ID,
	})

	c.JSON(http.StatusOK, buildAnalysisDTO(row))
}

// List returns the user's analyses, newest first. Free users only see their
// last few; premium users see everything.
const freeHistoryLimit = 3

func List(c *gin.Context) {
	userID := c.GetUint("user_id")

	if database.DB == nil {
		c.JSON(http.StatusOK, []AnalysisDTO{})
		return
	}

	q := database.DB.Where("user_id = ?", userID).Order("created_at DESC")
	if !c.GetBool("has_premium") {
		q = q.Limit(freeHistoryLimit)
	}

	var rows []analyses.Analysis
	if err := q.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analyses"})
		return
	}

	out := make([]AnalysisDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, buildAnalysisDTO(row))
	}
	c.JSON(http.StatusOK, out)
}

func Get(c *gin.Context) {
	userID := c.GetUint("user_id")

	row, status := loadOwned(c, userID)
	if status != http.StatusOK {
		return
	}
	c.JSON(http.StatusOK, buildAnalysisDTO(*row))
}

func Delete(c *gin.Context) {
	userID := c.GetUint("user_id")

	row, status := loadOwned(c, userID)
	if status != http.StatusOK {
		return
	}

	if err := database.DB.Delete(&analyses.Analysis{}, row.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete analysis"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// loadOwned fetches the analysis on the path and enforces ownership with a
// uniform rejection: another user's row answers exactly like a missing one
// answers for authorization, leaking nothing about its existence.
func loadOwned(c *gin.Context, userID uint) (*analyses.Analysis, int) {
	if database.DB == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return nil, http.StatusNotFound
	}

	var row analyses.Analysis
	if err := database.DB.Where("id = ?", c.Param("id")).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
			return nil, http.StatusNotFound
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis"})
		return nil, http.StatusInternalServerError
	}

	if row.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
		return nil, http.StatusForbidden
	}

	return &row, http.StatusOK
}

func decodeImage(data string) ([]byte, error) {
	if idx := strings.Index(data, ","); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}
	return base64.StdEncoding.DecodeString(data)
}

func rowFromResult(userID uint, imageURL, assetName, strategy string, result *llm.ChartAnalysis) analyses.Analysis {
	patterns, _ := json.Marshal(result.Patterns)
	return analyses.Analysis{
		UserID:        userID,
		ImageURL:      imageURL,
		ThumbnailURL:  imageURL,
		AssetName:     assetName,
		Timeframe:     strategy,
		Trend:         result.Trend,
		Confidence:    result.Confidence,
		RSIValue:      result.RSIValue,
		RSIStatus:     result.RSIStatus,
		MACDSignal:    result.MACDSignal,
		MAStatus:      result.MAStatus,
		Patterns:      string(patterns),
		BuyZoneMin:    result.BuyZoneMin,
		BuyZoneMax:    result.BuyZoneMax,
		StopLoss:      result.StopLoss,
		TakeProfit1:   result.TakeProfit1,
		TakeProfit2:   result.TakeProfit2,
		RiskReward:    result.RiskReward,
		RiskLevel:     result.RiskLevel,
		Volatility:    result.Volatility,
		TrendStrength: result.TrendStrength,
		AnalysisRaw:   string(result.Raw),
	}
}
