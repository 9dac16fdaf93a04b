package analyses

import (
	"encoding/json"
	"time"

	"chartsense-app/internal/domain/analyses"
)

type CreateAnalysisInput struct {
	ImageURL      string   `json:"imageUrl"`
	ThumbnailURL  string   `json:"thumbnailUrl"`
	AssetName     string   `json:"assetName"`
	Timeframe     string   `json:"timeframe"`
	Trend         string   `json:"trend"`
	Confidence    int      `json:"confidence"`
	RSIValue      int      `json:"rsiValue"`
	RSIStatus     string   `json:"rsiStatus"`
	MACDSignal    string   `json:"macdSignal"`
	MAStatus      string   `json:"maStatus"`
	Patterns      []string `json:"patterns"`
	BuyZoneMin    string   `json:"buyZoneMin"`
	BuyZoneMax    string   `json:"buyZoneMax"`
	StopLoss      string   `json:"stopLoss"`
	TakeProfit1   string   `json:"takeProfit1"`
	TakeProfit2   string   `json:"takeProfit2"`
	RiskReward    string   `json:"riskReward"`
	RiskLevel     string   `json:"riskLevel"`
	Volatility    string   `json:"volatility"`
	TrendStrength int      `json:"trendStrength"`
}

func (in CreateAnalysisInput) toRow(userID uint) analyses.Analysis {
	patterns, _ := json.Marshal(in.Patterns)
	return analyses.Analysis{
		UserID:        userID,
		ImageURL:      in.ImageURL,
		ThumbnailURL:  in.ThumbnailURL,
		AssetName:     in.AssetName,
		Timeframe:     in.Timeframe,
		Trend:         in.Trend,
		Confidence:    in.Confidence,
		RSIValue:      in.RSIValue,
		RSIStatus:     in.RSIStatus,
		MACDSignal:    in.MACDSignal,
		MAStatus:      in.MAStatus,
		Patterns:      string(patterns),
		BuyZoneMin:    in.BuyZoneMin,
		BuyZoneMax:    in.BuyZoneMax,
		StopLoss:      in.StopLoss,
		TakeProfit1:   in.TakeProfit1,
		TakeProfit2:   in.TakeProfit2,
		RiskReward:    in.RiskReward,
		RiskLevel:     in.RiskLevel,
		Volatility:    in.Volatility,
		TrendStrength: in.TrendStrength,
	}
}

type AnalysisDTO struct {
	ID            uint      `json:"id"`
	ImageURL      string    `json:"imageUrl"`
	ThumbnailURL  string    `json:"thumbnailUrl"`
	AssetName     string    `json:"assetName"`
	Timeframe     string    `json:"timeframe"`
	Trend         string    `json:"trend"`
	Confidence    int       `json:"confidence"`
	RSIValue      int       `json:"rsiValue"`
	RSIStatus     string    `json:"rsiStatus"`
	MACDSignal    string    `json:"macdSignal"`
	MAStatus      string    `json:"maStatus"`
	Patterns      []string  `json:"patterns"`
	BuyZoneMin    string    `json:"buyZoneMin"`
	BuyZoneMax    string    `json:"buyZoneMax"`
	StopLoss      string    `json:"stopLoss"`
	TakeProfit1   string    `json:"takeProfit1"`
	TakeProfit2   string    `json:"takeProfit2"`
	RiskReward    string    `json:"riskReward"`
	RiskLevel     string    `json:"riskLevel"`
	Volatility    string    `json:"volatility"`
	TrendStrength int       `json:"trendStrength"`
	CreatedAt     time.Time `json:"createdAt"`
}

func buildAnalysisDTO(a analyses.Analysis) AnalysisDTO {
	var patterns []string
	if a.Patterns != "" {
		_ = json.Unmarshal([]byte(a.Patterns), &patterns)
	}
	return AnalysisDTO{
		ID:            a.ID,
		ImageURL:      a.ImageURL,
		ThumbnailURL:  a.ThumbnailURL,
		AssetName:     a.AssetName,
		Timeframe:     a.Timeframe,
		Trend:         a.Trend,
		Confidence:    a.Confidence,
		RSIValue:      a.RSIValue,
		RSIStatus:     a.RSIStatus,
		MACDSignal:    a.MACDSignal,
		MAStatus:      a.MAStatus,
		Patterns:      patterns,
		BuyZoneMin:    a.BuyZoneMin,
		BuyZoneMax:    a.BuyZoneMax,
		StopLoss:      a.StopLoss,
		TakeProfit1:   a.TakeProfit1,
		TakeProfit2:   a.TakeProfit2,
		RiskReward:    a.RiskReward,
		RiskLevel:     a.RiskLevel,
		Volatility:    a.Volatility,
		TrendStrength: a.TrendStrength,
		CreatedAt:     a.CreatedAt,
	}
}
