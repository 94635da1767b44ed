package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

type RestaurantController struct {
	restaurants *services.RestaurantService
}

func NewRestaurantController(svc *services.Container) *RestaurantController {
	return &RestaurantController{restaurants: svc.Restaurants}
}

type restaurantRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Status      *string `json:"status"`
}

func (r restaurantRequest) input() services.RestaurantInput {
	return services.RestaurantInput{
		Name:        r.Name,
		Description: r.Description,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
		City:        r.City,
		Status:      r.Status,
	}
}

func (rc *RestaurantController) Create(c *gin.Context) {
	var req restaurantRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := rc.restaurants.Create(c.Request.Context(), actorFrom(c), req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created successfully", r)
}

func (rc *RestaurantController) List(c *gin.Context) {
	list, err := rc.restaurants.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurants retrieved successfully", list)
}

func (rc *RestaurantController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r, err := rc.restaurants.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant retrieved successfully", r)
}

func (rc *RestaurantController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req restaurantRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := rc.restaurants.Update(c.Request.Context(), actorFrom(c), id, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated successfully", r)
}
