package api

import (
	"net/http"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maintenatrack-backend/internal/auth"
	"maintenatrack-backend/internal/model"
)

type signupRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

var signupSchema = z.Struct(z.Shape{
	"Username":  z.String().Required(),
	"Password":  z.String().Required(),
	"FirstName": z.String(),
	"LastName":  z.String(),
})

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var loginSchema = z.Struct(z.Shape{
	"Username": z.String().Required(),
	"Password": z.String().Required(),
})

func (h *Handler) tokenResponse(user *model.User) (gin.H, error) {
	token, expiresAt, err := auth.GenerateToken(
		[]byte(h.cfg.Auth.JWTSecret), h.cfg.Auth.TokenTTL, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	}, nil
}

// Signup handles POST /api/accounts/signup. A fresh account is signed in
// immediately: the response carries a usable bearer token.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := signupSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), req.Username, req.Password, req.FirstName, req.LastName)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp, err := h.tokenResponse(user)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/accounts/login. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := loginSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	user, err := h.store.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.logger.Warn("login failed", zap.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	resp, err := h.tokenResponse(user)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
