package store

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"maintenatrack-backend/internal/model"
)

// Errors returned by store operations. Validation failures are reported
// separately as *validate.FieldError so handlers can name the field.
var (
	ErrNotFound       = errors.New("record not found")
	ErrNotOwner       = errors.New("operation restricted to the author")
	ErrEquipmentInUse = errors.New("equipment is referenced by other users' logs")
)

// LogInput is a candidate maintenance log as submitted by a user, before
// sanitization and zone inheritance.
type LogInput struct {
	EquipmentID *int64
	Zone        string
	AlarmCode   string
	AlarmName   string
	LamChecked  bool
	Difficulty  string
	Description string
}

// StepInput is a candidate step. A blank action marks an empty form slot
// and is discarded, not persisted. Zero Order and nil PerformedByID are
// filled in during the aggregate write.
type StepInput struct {
	Order           int
	Action          string
	Result          string
	DurationMinutes *int
	PerformedByID   *int64
}

// LogFilter holds the optional, independently combinable listing filters.
type LogFilter struct {
	Query      string
	Zone       string
	Difficulty string
	MineOnly   bool
	UserID     *int64 // authenticated caller, if any
	Page       int
}

// LogPage is one page of the newest-first listing.
type LogPage struct {
	Logs       []model.MaintenanceLog
	Page       int
	TotalPages int
	Total      int64
}

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	CreateLog(ctx context.Context, userID int64, in LogInput, steps []StepInput) (*model.MaintenanceLog, int, error)
	UpdateLog(ctx context.Context, logID, userID int64, in LogInput, steps []StepInput) (*model.MaintenanceLog, int, error)
	GetLog(ctx context.Context, id int64) (*model.MaintenanceLog, error)
	DeleteLog(ctx context.Context, logID, userID int64) error
	ListLogs(ctx context.Context, f LogFilter) (*LogPage, error)

	QuickAddEquipment(ctx context.Context, name, zone string) (*model.Equipment, error)
	ListEquipment(ctx context.Context) ([]model.Equipment, error)
	DeleteEquipment(ctx context.Context, equipmentID, userID int64) error

	CreateUser(ctx context.Context, username, password, firstName, lastName string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, logger *zap.Logger) Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gormStore{db: db, logger: logger}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}
