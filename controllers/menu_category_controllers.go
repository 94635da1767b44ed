package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

type MenuCategoryController struct {
	catalog *services.CatalogService
}

func NewMenuCategoryController(svc *services.Container) *MenuCategoryController {
	return &MenuCategoryController{catalog: svc.Catalog}
}

type categoryRequest struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"sortOrder"`
}

func (mc *MenuCategoryController) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := mc.catalog.CreateCategory(c.Request.Context(), restaurantID(c), services.CategoryInput{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created successfully", cat)
}

func (mc *MenuCategoryController) GetCategories(c *gin.Context) {
	cats, err := mc.catalog.ListCategories(c.Request.Context(), restaurantID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Categories retrieved successfully", cats)
}

func (mc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := mc.catalog.UpdateCategory(c.Request.Context(), restaurantID(c), id, services.CategoryInput{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated successfully", cat)
}

// DeleteCategory -> produk di kategori ini menjadi tanpa kategori
func (mc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := mc.catalog.DeleteCategory(c.Request.Context(), restaurantID(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted successfully", nil)
}
