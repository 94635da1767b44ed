package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/models"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

type CleaningLogController struct {
	tables *services.TableRegistry
}

func NewCleaningLogController(svc *services.Container) *CleaningLogController {
	return &CleaningLogController{tables: svc.Tables}
}

// MarkClean -> staff selesai membersihkan meja; status default Available
func (cc *CleaningLogController) MarkClean(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	table, err := cc.tables.MarkClean(c.Request.Context(), restaurantID(c), id, actorFrom(c).UserID, models.TableStatus(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table marked as clean", table)
}

// GetCleaningLogs -> riwayat pembersihan terbaru, ?limit= maks 200
func (cc *CleaningLogController) GetCleaningLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	logs, err := cc.tables.CleaningLogs(c.Request.Context(), restaurantID(c), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cleaning logs retrieved successfully", logs)
}
