package model

import "time"

// MaintenanceLog difficulty values.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// MaintenanceLog is one incident/repair record. Equipment and author are
// weak references: deleting either clears the field on the log, never the
// log itself. Steps are owned and cascade with the log.
type MaintenanceLog struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	EquipmentID *int64     `gorm:"index" json:"equipment_id"`
	Equipment   *Equipment `gorm:"constraint:OnDelete:SET NULL" json:"equipment,omitempty"`
	CreatedByID *int64     `gorm:"index" json:"created_by_id"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"created_by,omitempty"`
	Zone        string     `gorm:"size:10;not null;index" json:"zone"`
	AlarmCode   string     `gorm:"size:50;not null;index" json:"alarm_code"`
	AlarmName   string     `gorm:"size:150" json:"alarm_name"`
	LamChecked  bool       `gorm:"not null;default:false" json:"lam_checked"`
	Difficulty  string     `gorm:"size:10;not null;index" json:"difficulty"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Steps []Step `gorm:"foreignKey:LogID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
}
