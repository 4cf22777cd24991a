package model

import "time"

// Step is one ordered action inside a log's remediation sequence.
// Order is unique within the owning log.
type Step struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	LogID           int64     `gorm:"not null;index;uniqueIndex:uniq_step_order_per_log" json:"log_id"`
	Order           int       `gorm:"column:order;not null;uniqueIndex:uniq_step_order_per_log" json:"order"`
	Action          string    `gorm:"size:1000;not null" json:"action"`
	Result          string    `gorm:"size:1000" json:"result"`
	DurationMinutes *int      `json:"duration_minutes"`
	PerformedByID   *int64    `gorm:"index" json:"performed_by_id"`
	PerformedBy     *User     `gorm:"foreignKey:PerformedByID;constraint:OnDelete:SET NULL" json:"performed_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
