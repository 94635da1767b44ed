package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

// MenuController mengelola produk dan addon restoran.
type MenuController struct {
	catalog *services.CatalogService
}

func NewMenuController(svc *services.Container) *MenuController {
	return &MenuController{catalog: svc.Catalog}
}

type productRequest struct {
	CategoryID  *uint            `json:"categoryId"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	IsAvailable *bool            `json:"isAvailable"`
	AddonIDs    []uint           `json:"addonIds"`
	TagIDs      []uint           `json:"tagIds"`
}

func (r productRequest) input() services.ProductInput {
	return services.ProductInput{
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		IsAvailable: r.IsAvailable,
		AddonIDs:    r.AddonIDs,
		TagIDs:      r.TagIDs,
	}
}

// GetMenu -> menu lengkap per kategori, hanya produk yang tersedia
func (mc *MenuController) GetMenu(c *gin.Context) {
	menu, err := mc.catalog.Menu(c.Request.Context(), restaurantID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu retrieved successfully", menu)
}

func (mc *MenuController) CreateProduct(c *gin.Context) {
	var req productRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := mc.catalog.CreateProduct(c.Request.Context(), restaurantID(c), req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created successfully", p)
}

// queryUint membaca query opsional berupa id.
func queryUint(c *gin.Context, key string) (*uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		utils.RespondFail(c, http.StatusBadRequest, "Invalid "+key)
		return nil, false
	}
	id := uint(n)
	return &id, true
}

func queryDecimal(c *gin.Context, key string) (*decimal.Decimal, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		utils.RespondFail(c, http.StatusBadRequest, "Invalid "+key)
		return nil, false
	}
	return &d, true
}

// GetProducts -> filter opsional: categoryId, tagId, search, minPrice, maxPrice
func (mc *MenuController) GetProducts(c *gin.Context) {
	filter := services.ProductFilter{Search: c.Query("search")}
	var ok bool
	if filter.CategoryID, ok = queryUint(c, "categoryId"); !ok {
		return
	}
	if filter.TagID, ok = queryUint(c, "tagId"); !ok {
		return
	}
	if filter.MinPrice, ok = queryDecimal(c, "minPrice"); !ok {
		return
	}
	if filter.MaxPrice, ok = queryDecimal(c, "maxPrice"); !ok {
		return
	}
	products, err := mc.catalog.ListProducts(c.Request.Context(), restaurantID(c), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Products retrieved successfully", products)
}

func (mc *MenuController) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := mc.catalog.GetProduct(c.Request.Context(), restaurantID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product retrieved successfully", p)
}

func (mc *MenuController) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req productRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := mc.catalog.UpdateProduct(c.Request.Context(), restaurantID(c), id, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated successfully", p)
}

func (mc *MenuController) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := mc.catalog.DeleteProduct(c.Request.Context(), restaurantID(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted successfully", nil)
}

type addonRequest struct {
	Name          *string                  `json:"name"`
	IsMultiSelect *bool                    `json:"isMultiSelect"`
	SubAddons     []services.SubAddonInput `json:"subAddons"`
}

func (r addonRequest) input() services.AddonInput {
	return services.AddonInput{Name: r.Name, IsMultiSelect: r.IsMultiSelect, SubAddons: r.SubAddons}
}

func (mc *MenuController) CreateAddon(c *gin.Context) {
	var req addonRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := mc.catalog.CreateAddon(c.Request.Context(), restaurantID(c), actorFrom(c).UserID, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Addon created successfully", a)
}

func (mc *MenuController) GetAddons(c *gin.Context) {
	addons, err := mc.catalog.ListAddons(c.Request.Context(), restaurantID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Addons retrieved successfully", addons)
}

// UpdateAddon -> subAddons yang dikirim menggantikan seluruh pilihan lama
func (mc *MenuController) UpdateAddon(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req addonRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := mc.catalog.UpdateAddon(c.Request.Context(), restaurantID(c), id, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Addon updated successfully", a)
}

func (mc *MenuController) DeleteAddon(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := mc.catalog.DeleteAddon(c.Request.Context(), restaurantID(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Addon deleted successfully", nil)
}

type tagRequest struct {
	Name *string `json:"name"`
}

func (mc *MenuController) CreateTag(c *gin.Context) {
	var req tagRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := mc.catalog.CreateTag(c.Request.Context(), restaurantID(c), actorFrom(c).UserID, services.TagInput{Name: req.Name})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Tag created successfully", t)
}

func (mc *MenuController) GetTags(c *gin.Context) {
	tags, err := mc.catalog.ListTags(c.Request.Context(), restaurantID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tags retrieved successfully", tags)
}

func (mc *MenuController) UpdateTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req tagRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := mc.catalog.UpdateTag(c.Request.Context(), restaurantID(c), id, services.TagInput{Name: req.Name})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tag updated successfully", t)
}

// DeleteTag -> ditolak selama masih dipakai produk
func (mc *MenuController) DeleteTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := mc.catalog.DeleteTag(c.Request.Context(), restaurantID(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tag deleted successfully", nil)
}
