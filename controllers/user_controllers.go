package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(svc *services.Container) *UserController {
	return &UserController{users: svc.Users}
}

// Login staff dengan email dan password
func (uc *UserController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	result, err := uc.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", result)
}

func (uc *UserController) Me(c *gin.Context) {
	user, err := uc.users.Me(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Current user", user)
}

// CreateUser -> role yang boleh dibuat tergantung role pembuat
func (uc *UserController) CreateUser(c *gin.Context) {
	var req struct {
		FirstName    string `json:"firstName"`
		LastName     string `json:"lastName"`
		Email        string `json:"email"`
		Password     string `json:"password"`
		Role         string `json:"role"`
		RestaurantID *uint  `json:"restaurantId"`
	}
	if !bindJSON(c, &req) {
		return
	}
	user, err := uc.users.Create(c.Request.Context(), actorFrom(c), services.UserInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "User created successfully", user)
}

func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.users.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Users retrieved successfully", users)
}
