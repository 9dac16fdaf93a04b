package analyses

import "time"

// Analysis is one chart analysis result. Basic fields are visible to free
// users; trading signals and risk fields are premium-only in the client.
type Analysis struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;index:idx_analyses_user_id"`

	ImageURL     string `gorm:"type:text;not null"`
	ThumbnailURL string `gorm:"type:text"`
	AssetName    string `gorm:"type:varchar(100)"`
	Timeframe    string `gorm:"type:varchar(50)"`

	Trend      string `gorm:"type:varchar(50)"`
	Confidence int

	RSIValue   int
	RSIStatus  string `gorm:"type:varchar(50)"`
	MACDSignal string `gorm:"type:varchar(100)"`
	MAStatus   string `gorm:"type:varchar(100)"`
	Patterns   string `gorm:"type:text"` // JSON array

	BuyZoneMin  string `gorm:"type:varchar(50)"`
	BuyZoneMax  string `gorm:"type:varchar(50)"`
	StopLoss    string `gorm:"type:varchar(50)"`
	TakeProfit1 string `gorm:"type:varchar(50)"`
	TakeProfit2 string `gorm:"type:varchar(50)"`
	RiskReward  string `gorm:"type:varchar(50)"`

	RiskLevel     string `gorm:"type:varchar(50)"`
	Volatility    string `gorm:"type:varchar(50)"`
	TrendStrength int

	AnalysisRaw string `gorm:"type:text"` // full model response, JSON

	CreatedAt time.Time
}
