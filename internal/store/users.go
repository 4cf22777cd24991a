package store

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"maintenatrack-backend/internal/auth"
	"maintenatrack-backend/internal/model"
	"maintenatrack-backend/internal/validate"
)

// CreateUser registers a new account with a bcrypt-hashed password.
// Username uniqueness rides on the DB constraint, not a pre-check.
func (s *gormStore) CreateUser(ctx context.Context, username, password, firstName, lastName string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return nil, &validate.FieldError{Field: "username", Message: "must be at least 3 characters"}
	}
	if len(username) > 150 {
		return nil, &validate.FieldError{Field: "username", Message: "must be 150 characters or less"}
	}
	if len(password) < 8 {
		return nil, &validate.FieldError{Field: "password", Message: "must be at least 8 characters"}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &validate.FieldError{Field: "username", Message: "username is already taken"}
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return &user, nil
}

// GetUserByUsername looks up an account for credential checks.
func (s *gormStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
