package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(svc *services.Container) *OrderController {
	return &OrderController{orders: svc.Orders}
}

// PlaceOrder -> mengubah isi keranjang menjadi pesanan
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	var req struct {
		SpecialInstructions string `json:"specialInstructions"`
	}
	// body boleh kosong
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	order, err := oc.orders.PlaceOrder(c.Request.Context(), customerID(c), req.SpecialInstructions)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order placed successfully", order)
}

func (oc *OrderController) ListCustomerOrders(c *gin.Context) {
	orders, err := oc.orders.ListCustomerOrders(c.Request.Context(), customerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (oc *OrderController) GetCustomerOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := oc.orders.GetCustomerOrder(c.Request.Context(), customerID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order retrieved successfully", order)
}

// ListActiveOrders -> antrian dapur (pending, preparing, ready)
func (oc *OrderController) ListActiveOrders(c *gin.Context) {
	orders, err := oc.orders.ListActiveOrders(c.Request.Context(), restaurantID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active orders retrieved successfully", orders)
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := oc.orders.GetRestaurantOrder(c.Request.Context(), restaurantID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order retrieved successfully", order)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := oc.orders.UpdateOrderStatus(c.Request.Context(), restaurantID(c), id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// UpdateItemStatus -> PUT /api/orders/:id/items/:itemId/status
func (oc *OrderController) UpdateItemStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := oc.orders.UpdateItemStatus(c.Request.Context(), restaurantID(c), id, itemID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order item status updated", order)
}
