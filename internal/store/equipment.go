package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"maintenatrack-backend/internal/model"
	"maintenatrack-backend/internal/validate"
)

// autoTagPrefix marks asset tags generated by quick-add.
const autoTagPrefix = "AUTO-"

var autoTagPattern = regexp.MustCompile(`AUTO-(\d+)`)

// QuickAddEquipment creates a minimal equipment row from a bare name and
// zone, generating a fresh AUTO-<n> asset tag. Two concurrent callers with
// the same (name, zone) race on the insert; the loser falls back to the
// existing row instead of erroring, so the call is idempotent.
func (s *gormStore) QuickAddEquipment(ctx context.Context, name, zone string) (*model.Equipment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &validate.FieldError{Field: "name", Message: "name is required"}
	}
	if len(name) > 120 {
		return nil, &validate.FieldError{Field: "name", Message: "must be 120 characters or less"}
	}
	zone, err := validate.Zone("zone", zone)
	if err != nil {
		return nil, err
	}

	var equipment model.Equipment
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tags []string
		if err := tx.Model(&model.Equipment{}).
			Where("asset_tag LIKE ?", autoTagPrefix+"%").
			Pluck("asset_tag", &tags).Error; err != nil {
			return fmt.Errorf("failed to scan asset tags: %w", err)
		}

		tag := fmt.Sprintf("%s%d", autoTagPrefix, nextAutoTagNumber(tags))
		equipment = model.Equipment{
			Name:     name,
			AssetTag: &tag,
			Zone:     zone,
			Status:   model.StatusActive,
		}
		return tx.Create(&equipment).Error
	})
	if txErr == nil {
		return &equipment, nil
	}

	// A concurrent identical request may have won the (name, zone) insert;
	// the lookup runs outside the aborted transaction.
	var existing model.Equipment
	if lookupErr := s.db.WithContext(ctx).
		Where("name = ? AND zone = ?", name, zone).
		First(&existing).Error; lookupErr == nil {
		s.logger.Info("quick-add raced, reusing existing equipment",
			zap.Int64("equipment_id", existing.ID),
			zap.String("name", name),
			zap.String("zone", zone))
		return &existing, nil
	}
	if errors.Is(txErr, gorm.ErrDuplicatedKey) {
		return nil, &validate.FieldError{Field: "name", Message: "equipment with this name already exists in this zone"}
	}
	return nil, txErr
}

// nextAutoTagNumber returns one greater than the largest numeric suffix
// among existing AUTO- tags, so generated tags stay monotonic.
func nextAutoTagNumber(tags []string) int {
	maxNum := 0
	for _, tag := range tags {
		m := autoTagPattern.FindStringSubmatch(tag)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxNum {
			maxNum = n
		}
	}
	return maxNum + 1
}

// ListEquipment returns all equipment ordered by zone then name, the order
// the selection form presents it in.
func (s *gormStore) ListEquipment(ctx context.Context) ([]model.Equipment, error) {
	var equipment []model.Equipment
	if err := s.db.WithContext(ctx).
		Order("zone ASC, name ASC").
		Find(&equipment).Error; err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return equipment, nil
}

// DeleteEquipment removes an equipment row, permitted only when the
// requester authored at least one log referencing it and no other user
// (including deleted accounts) authored any. References on the requester's
// own logs are cleared explicitly before the row is removed.
func (s *gormStore) DeleteEquipment(ctx context.Context, equipmentID, userID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var equipment model.Equipment
		if err := tx.First(&equipment, equipmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var ownLogs int64
		if err := tx.Model(&model.MaintenanceLog{}).
			Where("equipment_id = ? AND created_by_id = ?", equipmentID, userID).
			Count(&ownLogs).Error; err != nil {
			return err
		}
		if ownLogs == 0 {
			return ErrNotOwner
		}

		var otherLogs int64
		if err := tx.Model(&model.MaintenanceLog{}).
			Where("equipment_id = ? AND (created_by_id IS NULL OR created_by_id <> ?)", equipmentID, userID).
			Count(&otherLogs).Error; err != nil {
			return err
		}
		if otherLogs > 0 {
			return ErrEquipmentInUse
		}

		// Clear the weak references before deleting the row.
		if err := tx.Model(&model.MaintenanceLog{}).
			Where("equipment_id = ?", equipmentID).
			Update("equipment_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear equipment references: %w", err)
		}
		if err := tx.Delete(&equipment).Error; err != nil {
			return fmt.Errorf("failed to delete equipment: %w", err)
		}
		return nil
	})
}
