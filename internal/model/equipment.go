package model

import "time"

// Equipment status values.
const (
	StatusActive    = "active"
	StatusInService = "in_service"
	StatusDown      = "down"
	StatusRetired   = "retired"
)

// Equipment represents a physical asset, optionally grouped by zone.
// (Name, Zone) is unique; AssetTag, when set, is globally unique.
type Equipment struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120;not null;index;uniqueIndex:uniq_equipment_name_zone" json:"name"`
	AssetTag    *string   `gorm:"size:64;uniqueIndex" json:"asset_tag"`
	Zone        string    `gorm:"size:10;not null;index;uniqueIndex:uniq_equipment_name_zone" json:"zone"`
	Location    string    `gorm:"size:120" json:"location"`
	Status      string    `gorm:"size:16;not null;default:active;index" json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName keeps the uncountable noun instead of GORM's pluralizer.
func (Equipment) TableName() string { return "equipment" }
