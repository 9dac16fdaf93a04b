package usage

import "time"

// Log is an append-only audit row. Written on every metered action, never
// read by the gating logic itself.
type Log struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   uint   `gorm:"not null;index:idx_usage_logs_user_id"`
	Action   string `gorm:"type:varchar(100);not null"`
	Metadata string `gorm:"type:text"`

	CreatedAt time.Time
}

func (Log) TableName() string { return "usage_logs" }
