package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"maintenatrack-backend/internal/model"
	"maintenatrack-backend/internal/validate"
)

const logPageSize = 10

// CreateLog persists a new maintenance log together with its steps as one
// transaction. The acting user becomes the author. Returns the stored log
// and the number of steps actually saved.
func (s *gormStore) CreateLog(ctx context.Context, userID int64, in LogInput, steps []StepInput) (*model.MaintenanceLog, int, error) {
	var (
		log   *model.MaintenanceLog
		saved int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.buildLog(tx, in)
		if err != nil {
			return err
		}
		row.CreatedByID = &userID

		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("failed to create log: %w", err)
		}

		saved, err = s.writeSteps(tx, row.ID, userID, steps)
		if err != nil {
			return err
		}
		log = row
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	s.logger.Info("maintenance log created",
		zap.Int64("log_id", log.ID),
		zap.String("alarm_code", log.AlarmCode),
		zap.Int("steps", saved))
	return log, saved, nil
}

// UpdateLog replaces a log's fields and its entire step set in one
// transaction. Only the author may update; the stored author is retained,
// never overwritten. Steps use full-replace semantics: all previously
// stored steps are discarded before the new set is written.
func (s *gormStore) UpdateLog(ctx context.Context, logID, userID int64, in LogInput, steps []StepInput) (*model.MaintenanceLog, int, error) {
	var (
		log   *model.MaintenanceLog
		saved int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.MaintenanceLog
		if err := tx.First(&existing, logID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if existing.CreatedByID == nil || *existing.CreatedByID != userID {
			return ErrNotOwner
		}

		row, err := s.buildLog(tx, in)
		if err != nil {
			return err
		}
		row.ID = existing.ID
		row.CreatedByID = existing.CreatedByID
		row.CreatedAt = existing.CreatedAt

		if err := tx.Model(&existing).Select(
			"equipment_id", "zone", "alarm_code", "alarm_name",
			"lam_checked", "difficulty", "description",
		).Updates(row).Error; err != nil {
			return fmt.Errorf("failed to update log: %w", err)
		}

		if err := tx.Where("log_id = ?", existing.ID).Delete(&model.Step{}).Error; err != nil {
			return fmt.Errorf("failed to clear steps: %w", err)
		}

		saved, err = s.writeSteps(tx, existing.ID, userID, steps)
		if err != nil {
			return err
		}
		log = row
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	s.logger.Info("maintenance log updated",
		zap.Int64("log_id", log.ID),
		zap.Int("steps", saved))
	return log, saved, nil
}

// buildLog sanitizes a candidate log, inheriting the zone from the linked
// equipment when the submitted zone is blank.
func (s *gormStore) buildLog(tx *gorm.DB, in LogInput) (*model.MaintenanceLog, error) {
	zone := strings.TrimSpace(in.Zone)
	if in.EquipmentID != nil {
		var equipment model.Equipment
		if err := tx.First(&equipment, *in.EquipmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if zone == "" && equipment.Zone != "" {
			zone = equipment.Zone
		}
	}

	zone, err := validate.Zone("zone", zone)
	if err != nil {
		return nil, err
	}
	code, err := validate.AlarmCode(in.AlarmCode)
	if err != nil {
		return nil, err
	}
	difficulty, err := validate.Difficulty(in.Difficulty)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.AlarmName)
	if len(name) > 150 {
		return nil, &validate.FieldError{Field: "alarm_name", Message: "must be 150 characters or less"}
	}

	return &model.MaintenanceLog{
		EquipmentID: in.EquipmentID,
		Zone:        zone,
		AlarmCode:   code,
		AlarmName:   name,
		LamChecked:  in.LamChecked,
		Difficulty:  difficulty,
		Description: strings.TrimSpace(in.Description),
	}, nil
}

// writeSteps persists the retained candidate steps for a log. Steps with a
// blank action are empty form slots and are skipped. Missing orders default
// to the 1-based position among retained steps; a missing performer
// defaults to the acting user.
func (s *gormStore) writeSteps(tx *gorm.DB, logID, userID int64, steps []StepInput) (int, error) {
	saved := 0
	for _, in := range steps {
		action, err := validate.StepText("action", in.Action)
		if err != nil {
			return 0, err
		}
		if action == "" {
			continue
		}
		result, err := validate.StepText("result", in.Result)
		if err != nil {
			return 0, err
		}
		if err := validate.Duration(in.DurationMinutes); err != nil {
			return 0, err
		}
		if in.Order < 0 {
			return 0, &validate.FieldError{Field: "order", Message: "must be a positive number"}
		}

		order := in.Order
		if order == 0 {
			order = saved + 1
		}
		performedBy := in.PerformedByID
		if performedBy == nil {
			performedBy = &userID
		}

		step := model.Step{
			LogID:           logID,
			Order:           order,
			Action:          action,
			Result:          result,
			DurationMinutes: in.DurationMinutes,
			PerformedByID:   performedBy,
		}
		if err := tx.Create(&step).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return 0, &validate.FieldError{
					Field:   "order",
					Message: fmt.Sprintf("step order %d is used more than once", order),
				}
			}
			return 0, fmt.Errorf("failed to create step: %w", err)
		}
		saved++
	}
	return saved, nil
}

// GetLog returns one log with its steps, equipment, and author loaded.
func (s *gormStore) GetLog(ctx context.Context, id int64) (*model.MaintenanceLog, error) {
	var log model.MaintenanceLog
	err := s.db.WithContext(ctx).
		Preload("Equipment").
		Preload("CreatedBy").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order(`steps."order" ASC`)
		}).
		First(&log, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// DeleteLog removes a log and its steps. Only the author may delete.
func (s *gormStore) DeleteLog(ctx context.Context, logID, userID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var log model.MaintenanceLog
		if err := tx.First(&log, logID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if log.CreatedByID == nil || *log.CreatedByID != userID {
			return ErrNotOwner
		}

		// Steps are removed explicitly rather than trusting the DB cascade,
		// so the behavior holds on stores migrated without the constraint.
		if err := tx.Where("log_id = ?", logID).Delete(&model.Step{}).Error; err != nil {
			return fmt.Errorf("failed to delete steps: %w", err)
		}
		if err := tx.Delete(&log).Error; err != nil {
			return fmt.Errorf("failed to delete log: %w", err)
		}
		return nil
	})
}

// ListLogs returns a filtered page of logs, newest first. All filters are
// optional and AND-ed together; out-of-range pages clamp to the nearest
// valid page.
func (s *gormStore) ListLogs(ctx context.Context, f LogFilter) (*LogPage, error) {
	applyFilters := func(db *gorm.DB) *gorm.DB {
		q := db.Model(&model.MaintenanceLog{})
		if term := strings.TrimSpace(f.Query); term != "" {
			pattern := "%" + strings.ToLower(term) + "%"
			q = q.
				Joins("LEFT JOIN steps ON steps.log_id = maintenance_logs.id").
				Joins("LEFT JOIN equipment ON equipment.id = maintenance_logs.equipment_id").
				Joins("LEFT JOIN users ON users.id = maintenance_logs.created_by_id").
				Where(`LOWER(maintenance_logs.alarm_code) LIKE @pat
					OR LOWER(maintenance_logs.alarm_name) LIKE @pat
					OR LOWER(maintenance_logs.description) LIKE @pat
					OR LOWER(steps.action) LIKE @pat
					OR LOWER(steps.result) LIKE @pat
					OR LOWER(equipment.name) LIKE @pat
					OR LOWER(equipment.asset_tag) LIKE @pat
					OR LOWER(users.username) LIKE @pat
					OR LOWER(users.first_name) LIKE @pat
					OR LOWER(users.last_name) LIKE @pat`,
					map[string]interface{}{"pat": pattern})
		}
		if zone := strings.TrimSpace(f.Zone); zone != "" {
			q = q.Where("LOWER(maintenance_logs.zone) = ?", strings.ToLower(zone))
		}
		if diff := strings.TrimSpace(f.Difficulty); diff != "" {
			q = q.Where("maintenance_logs.difficulty = ?", diff)
		}
		if f.MineOnly && f.UserID != nil {
			q = q.Where("maintenance_logs.created_by_id = ?", *f.UserID)
		}
		return q
	}

	var total int64
	if err := applyFilters(s.db.WithContext(ctx)).
		Distinct("maintenance_logs.id").
		Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count logs: %w", err)
	}

	totalPages := int((total + logPageSize - 1) / logPageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	// The one-to-many step join can yield one row per matching step; select
	// distinct log ids first so each matching log appears exactly once.
	type idRow struct {
		ID int64
	}
	var rows []idRow
	if err := applyFilters(s.db.WithContext(ctx)).
		Distinct("maintenance_logs.id", "maintenance_logs.created_at").
		Order("maintenance_logs.created_at DESC, maintenance_logs.id DESC").
		Offset((page - 1) * logPageSize).
		Limit(logPageSize).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to page logs: %w", err)
	}

	logs := make([]model.MaintenanceLog, 0, len(rows))
	if len(rows) > 0 {
		ids := make([]int64, len(rows))
		for i, r := range rows {
			ids[i] = r.ID
		}
		if err := s.db.WithContext(ctx).
			Preload("Equipment").
			Preload("CreatedBy").
			Preload("Steps", func(db *gorm.DB) *gorm.DB {
				return db.Order(`steps."order" ASC`)
			}).
			Where("id IN ?", ids).
			Order("created_at DESC, id DESC").
			Find(&logs).Error; err != nil {
			return nil, fmt.Errorf("failed to load logs: %w", err)
		}
	}

	return &LogPage{
		Logs:       logs,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}
