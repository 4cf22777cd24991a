package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"maintenatrack-backend/internal/model"
	"maintenatrack-backend/internal/mw"
	"maintenatrack-backend/internal/store"
)

type stepRequest struct {
	Order           int    `json:"order"`
	Action          string `json:"action"`
	Result          string `json:"result"`
	DurationMinutes *int   `json:"duration_minutes"`
	PerformedByID   *int64 `json:"performed_by_id"`
}

type logRequest struct {
	EquipmentID *int64        `json:"equipment_id"`
	Zone        string        `json:"zone"`
	AlarmCode   string        `json:"alarm_code"`
	AlarmName   string        `json:"alarm_name"`
	LamChecked  bool          `json:"lam_checked"`
	Difficulty  string        `json:"difficulty"`
	Description string        `json:"description"`
	Steps       []stepRequest `json:"steps"`
}

func (r *logRequest) toInput() (store.LogInput, []store.StepInput) {
	steps := make([]store.StepInput, len(r.Steps))
	for i, s := range r.Steps {
		steps[i] = store.StepInput{
			Order:           s.Order,
			Action:          s.Action,
			Result:          s.Result,
			DurationMinutes: s.DurationMinutes,
			PerformedByID:   s.PerformedByID,
		}
	}
	return store.LogInput{
		EquipmentID: r.EquipmentID,
		Zone:        r.Zone,
		AlarmCode:   r.AlarmCode,
		AlarmName:   r.AlarmName,
		LamChecked:  r.LamChecked,
		Difficulty:  r.Difficulty,
		Description: r.Description,
	}, steps
}

// ListLogs handles GET /api/logs.
func (h *Handler) ListLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	filter := store.LogFilter{
		Query:      c.Query("q"),
		Zone:       c.Query("zone"),
		Difficulty: c.Query("difficulty"),
		MineOnly:   c.Query("my_logs") == "true",
		Page:       page,
	}
	if userID, ok := mw.UserID(c); ok {
		filter.UserID = &userID
	}

	result, err := h.store.ListLogs(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":        result.Logs,
		"page":        result.Page,
		"total_pages": result.TotalPages,
		"total":       result.Total,
	})
}

// GetLog handles GET /api/logs/:id.
func (h *Handler) GetLog(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	log, err := h.store.GetLog(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// NewLogForm handles GET /api/logs/new: the choices the create form needs.
func (h *Handler) NewLogForm(c *gin.Context) {
	equipment, err := h.store.ListEquipment(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"equipment":    equipment,
		"difficulties": []string{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard},
	})
}

// CreateLog handles POST /api/logs/new.
func (h *Handler) CreateLog(c *gin.Context) {
	var req logRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := mw.UserID(c)
	in, steps := req.toInput()

	log, saved, err := h.store.CreateLog(c.Request.Context(), userID, in, steps)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          log.ID,
		"saved_steps": saved,
		"message":     fmt.Sprintf("Log %q saved successfully with %d steps", log.AlarmCode, saved),
	})
}

// EditLogForm handles GET /api/logs/:id/edit: current values, author only.
func (h *Handler) EditLogForm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	log, err := h.store.GetLog(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	userID, _ := mw.UserID(c)
	if log.CreatedByID == nil || *log.CreatedByID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only edit logs you created"})
		return
	}
	c.JSON(http.StatusOK, log)
}

// UpdateLog handles POST /api/logs/:id/edit.
func (h *Handler) UpdateLog(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	var req logRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := mw.UserID(c)
	in, steps := req.toInput()

	log, saved, err := h.store.UpdateLog(c.Request.Context(), id, userID, in, steps)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          log.ID,
		"saved_steps": saved,
		"message":     fmt.Sprintf("Maintenance log %q updated successfully with %d step(s)", log.AlarmCode, saved),
	})
}

// DeleteLog handles POST /api/logs/:id/delete.
func (h *Handler) DeleteLog(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	userID, _ := mw.UserID(c)
	if err := h.store.DeleteLog(c.Request.Context(), id, userID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "maintenance log deleted"})
}
