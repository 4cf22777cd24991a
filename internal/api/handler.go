package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maintenatrack-backend/config"
	"maintenatrack-backend/internal/store"
	"maintenatrack-backend/internal/validate"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store  store.Store
	cfg    *config.Config
	logger *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, cfg *config.Config, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:  s,
		cfg:    cfg,
		logger: logger,
	}
}

// writeError maps store/validation errors onto HTTP statuses. Field rule
// violations name the offending field; everything unexpected is a 500.
func (h *Handler) writeError(c *gin.Context, err error) {
	var fieldErr *validate.FieldError
	switch {
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldErr.Message, "field": fieldErr.Field})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only modify records you created"})
	case errors.Is(err, store.ErrEquipmentInUse):
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot delete equipment that other users have logged with"})
	default:
		h.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
