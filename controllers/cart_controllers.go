package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(svc *services.Container) *CartController {
	return &CartController{carts: svc.Carts}
}

func (cc *CartController) GetCart(c *gin.Context) {
	view, err := cc.carts.GetCart(c.Request.Context(), customerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart retrieved successfully", view)
}

// AddItem -> POST /api/customer/cart
func (cc *CartController) AddItem(c *gin.Context) {
	var req struct {
		ProductID           uint                   `json:"productId" binding:"required"`
		Quantity            int                    `json:"quantity" binding:"required"`
		SelectedAddons      []services.AddonChoice `json:"selectedAddons"`
		SpecialInstructions *string                `json:"specialInstructions"`
	}
	if !bindJSON(c, &req) {
		return
	}
	view, err := cc.carts.AddItem(c.Request.Context(), customerID(c), services.AddCartItem{
		ProductID:           req.ProductID,
		Quantity:            req.Quantity,
		Addons:              req.SelectedAddons,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item added to cart", view)
}

// UpdateItem -> PUT /api/customer/cart/:itemId
func (cc *CartController) UpdateItem(c *gin.Context) {
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	var req struct {
		Quantity            *int                   `json:"quantity"`
		SelectedAddons      []services.AddonChoice `json:"selectedAddons"`
		SpecialInstructions *string                `json:"specialInstructions"`
	}
	if !bindJSON(c, &req) {
		return
	}
	view, err := cc.carts.UpdateItem(c.Request.Context(), customerID(c), itemID, services.UpdateCartItem{
		Quantity:            req.Quantity,
		Addons:              req.SelectedAddons,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart item updated", view)
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	if err := cc.carts.RemoveItem(c.Request.Context(), customerID(c), itemID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart item removed", nil)
}

func (cc *CartController) ClearCart(c *gin.Context) {
	if err := cc.carts.Clear(c.Request.Context(), customerID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", nil)
}
