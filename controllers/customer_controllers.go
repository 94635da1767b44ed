package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

// CustomerController melayani alur pelanggan: OTP, scan meja, checkout.
type CustomerController struct {
	sessions *services.SessionService
	catalog  *services.CatalogService
}

func NewCustomerController(svc *services.Container) *CustomerController {
	return &CustomerController{sessions: svc.Sessions, catalog: svc.Catalog}
}

type phoneRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// SendOTP -> POST /api/customer/send-otp
func (cc *CustomerController) SendOTP(c *gin.Context) {
	var req phoneRequest
	if !bindJSON(c, &req) {
		return
	}
	challenge, err := cc.sessions.RequestOTP(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "OTP sent successfully", challenge)
}

// VerifyOTP -> POST /api/customer/verify-otp
func (cc *CustomerController) VerifyOTP(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phoneNumber" binding:"required"`
		OTP         string `json:"otp" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	verified, err := cc.sessions.VerifyOTP(c.Request.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "OTP verified successfully", verified)
}

// ScanTable -> POST /api/customer/scan-table/:qrCodeIdentifier
func (cc *CustomerController) ScanTable(c *gin.Context) {
	info, err := cc.sessions.ScanTable(c.Request.Context(), customerID(c), c.Param("qrCodeIdentifier"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table session started", info)
}

// Checkout menutup sesi aktif dan melepas meja.
func (cc *CustomerController) Checkout(c *gin.Context) {
	if err := cc.sessions.Checkout(c.Request.Context(), customerID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Checked out successfully", nil)
}

func (cc *CustomerController) GetProfile(c *gin.Context) {
	profile, err := cc.sessions.Profile(c.Request.Context(), customerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile retrieved successfully", profile)
}

func (cc *CustomerController) UpdateProfile(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	customer, err := cc.sessions.UpdateProfile(c.Request.Context(), customerID(c), req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile updated successfully", customer)
}

// GetMenu mengembalikan menu restoran tempat pelanggan sedang duduk.
func (cc *CustomerController) GetMenu(c *gin.Context) {
	menu, err := cc.catalog.CustomerMenu(c.Request.Context(), customerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu retrieved successfully", menu)
}
