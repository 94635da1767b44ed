package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/models"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

type TableController struct {
	tables *services.TableRegistry
}

func NewTableController(svc *services.Container) *TableController {
	return &TableController{tables: svc.Tables}
}

// CreateTable -> menambahkan meja baru dengan QR identifier baru
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string `json:"tableNumber" binding:"required"`
		Capacity    int    `json:"capacity" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	table, err := tc.tables.CreateTable(c.Request.Context(), restaurantID(c), req.TableNumber, req.Capacity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.WithField("table", table.TableNumber).Info("table created")
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> menampilkan seluruh meja, bisa difilter ?status=
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.tables.ListTables(c.Request.Context(), restaurantID(c), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) GetTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	table, err := tc.tables.GetTable(c.Request.Context(), restaurantID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table retrieved successfully", table)
}

// GetByQRCode -> lookup publik dari QR code meja
func (tc *TableController) GetByQRCode(c *gin.Context) {
	table, err := tc.tables.FindByQRCode(c.Request.Context(), c.Param("qrCodeIdentifier"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table retrieved successfully", table)
}

func (tc *TableController) UpdateTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		TableNumber *string `json:"tableNumber"`
		Capacity    *int    `json:"capacity"`
	}
	if !bindJSON(c, &req) {
		return
	}
	table, err := tc.tables.UpdateTable(c.Request.Context(), restaurantID(c), id, services.TableUpdate{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated successfully", table)
}

func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := tc.tables.DeleteTable(c.Request.Context(), restaurantID(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted successfully", nil)
}

// UpdateTableStatus -> perubahan status manual, mengikuti tabel transisi
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	table, err := tc.tables.SetStatus(c.Request.Context(), restaurantID(c), id, models.TableStatus(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}
