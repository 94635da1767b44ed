package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

type ReservationController struct {
	reservations *services.ReservationService
}

func NewReservationController(svc *services.Container) *ReservationController {
	return &ReservationController{reservations: svc.Reservations}
}

type reservationRequest struct {
	CustomerName    *string    `json:"customerName"`
	PhoneNumber     *string    `json:"phoneNumber"`
	Email           *string    `json:"email"`
	PartySize       *int       `json:"partySize"`
	ReservationDate *time.Time `json:"reservationDate"`
	SpecialRequests *string    `json:"specialRequests"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (rc *ReservationController) Create(c *gin.Context) {
	var req reservationRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := rc.reservations.Create(c.Request.Context(), restaurantID(c), actorFrom(c).UserID, services.ReservationInput{
		CustomerName:    deref(req.CustomerName),
		PhoneNumber:     deref(req.PhoneNumber),
		Email:           deref(req.Email),
		PartySize:       deref(req.PartySize),
		ReservationDate: deref(req.ReservationDate),
		SpecialRequests: deref(req.SpecialRequests),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation created successfully", r)
}

// List -> GET /api/reservations?date=YYYY-MM-DD&status=
func (rc *ReservationController) List(c *gin.Context) {
	var filter services.ReservationFilter
	if c.Query("date") != "" {
		d, ok := queryDate(c, "date", time.Time{})
		if !ok {
			return
		}
		filter.Date = &d
	}
	filter.Status = c.Query("status")

	list, err := rc.reservations.List(c.Request.Context(), restaurantID(c), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservations retrieved successfully", list)
}

func (rc *ReservationController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r, err := rc.reservations.Get(c.Request.Context(), restaurantID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation retrieved successfully", r)
}

func (rc *ReservationController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req reservationRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := rc.reservations.Update(c.Request.Context(), restaurantID(c), id, services.ReservationUpdate{
		CustomerName:    req.CustomerName,
		PhoneNumber:     req.PhoneNumber,
		Email:           req.Email,
		PartySize:       req.PartySize,
		ReservationDate: req.ReservationDate,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation updated successfully", r)
}

// AssignTable -> PUT /api/reservations/:id/assign-table
func (rc *ReservationController) AssignTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		TableID uint `json:"tableId" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	r, err := rc.reservations.AssignTable(c.Request.Context(), restaurantID(c), actorFrom(c).UserID, id, req.TableID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table assigned successfully", r)
}

func (rc *ReservationController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := rc.reservations.UpdateStatus(c.Request.Context(), restaurantID(c), id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation status updated", r)
}

// AvailableTables -> GET /api/reservations/available-tables?date=&partySize=
func (rc *ReservationController) AvailableTables(c *gin.Context) {
	date, ok := queryDate(c, "date", time.Now())
	if !ok {
		return
	}
	partySize, err := strconv.Atoi(c.DefaultQuery("partySize", "1"))
	if err != nil {
		utils.RespondFail(c, http.StatusBadRequest, "Invalid partySize")
		return
	}
	tables, err := rc.reservations.AvailableTables(c.Request.Context(), restaurantID(c), date, partySize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available tables retrieved successfully", tables)
}
