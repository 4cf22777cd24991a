package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maintenatrack-backend/config"
	"maintenatrack-backend/internal/mw"
	"maintenatrack-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestLogger(logger))

	handler := NewHandler(s, cfg, logger)
	secret := []byte(cfg.Auth.JWTSecret)

	api := r.Group("/api")
	{
		// Logs
		api.GET("/logs", mw.OptionalAuth(secret), handler.ListLogs)
		api.GET("/logs/new", mw.Auth(secret), handler.NewLogForm)
		api.POST("/logs/new",
			mw.Auth(secret),
			mw.RateLimitByUser(cfg.Server.LogCreatePerMinute),
			handler.CreateLog)
		api.GET("/logs/:id", handler.GetLog)
		api.GET("/logs/:id/edit", mw.Auth(secret), handler.EditLogForm)
		api.POST("/logs/:id/edit", mw.Auth(secret), handler.UpdateLog)
		api.POST("/logs/:id/delete", mw.Auth(secret), handler.DeleteLog)

		// Equipment
		api.POST("/equipment/add", mw.Auth(secret), handler.AddEquipment)
		api.POST("/equipment/:id/delete", mw.Auth(secret), handler.DeleteEquipment)

		// Accounts
		api.POST("/accounts/signup",
			mw.RateLimitByIP(cfg.Server.SignupPerMinute),
			handler.Signup)
		api.POST("/accounts/login",
			mw.RateLimitByIP(cfg.Server.SignupPerMinute),
			handler.Login)
	}

	return r
}
