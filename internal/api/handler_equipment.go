package api

import (
	"net/http"
	"strconv"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
	"github.com/gin-gonic/gin"

	"maintenatrack-backend/internal/mw"
)

type addEquipmentRequest struct {
	Name string `json:"name"`
	Zone string `json:"zone"`
}

var addEquipmentSchema = z.Struct(z.Shape{
	"Name": z.String().Required(),
	"Zone": z.String().Required(),
})

// AddEquipment handles POST /api/equipment/add, the quick-add path. The
// submitted name and zone are enough; tag, status, and the rest are filled
// in by the store.
func (h *Handler) AddEquipment(c *gin.Context) {
	var req addEquipmentRequest
	if err := addEquipmentSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	equipment, err := h.store.QuickAddEquipment(c.Request.Context(), req.Name, req.Zone)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":   equipment.ID,
		"name": equipment.Name,
		"zone": equipment.Zone,
	})
}

// DeleteEquipment handles POST /api/equipment/:id/delete.
func (h *Handler) DeleteEquipment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid equipment id"})
		return
	}

	userID, _ := mw.UserID(c)
	if err := h.store.DeleteEquipment(c.Request.Context(), id, userID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "equipment deleted"})
}
