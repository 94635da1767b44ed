package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/middlewares"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

const dateLayout = "2006-01-02"

// respondServiceError maps a service error onto the response envelope.
func respondServiceError(c *gin.Context, err error) {
	msg := err.Error()
	var se *services.Error
	if errors.As(err, &se) {
		msg = se.Message
	}

	switch services.KindOf(err) {
	case services.KindValidation, services.KindInvalidOtp, services.KindPrecondition:
		utils.RespondFail(c, http.StatusBadRequest, msg)
	case services.KindUnauthorized:
		utils.RespondFail(c, http.StatusUnauthorized, msg)
	case services.KindForbidden:
		utils.RespondFail(c, http.StatusForbidden, msg)
	case services.KindNotFound:
		utils.RespondFail(c, http.StatusNotFound, msg)
	case services.KindConflict:
		utils.RespondFail(c, http.StatusConflict, msg)
	default:
		utils.ErrorLogger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		utils.RespondError(c, http.StatusInternalServerError, "Something went wrong", err)
	}
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondFail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondFail(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func queryDate(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	d, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		utils.RespondFail(c, http.StatusBadRequest, "Invalid "+name+", expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

func customerID(c *gin.Context) uint {
	return c.GetUint(middlewares.KeyCustomerID)
}

func restaurantID(c *gin.Context) uint {
	return c.GetUint(middlewares.KeyRestaurantID)
}

func actorFrom(c *gin.Context) services.Actor {
	a := services.Actor{
		UserID: c.GetUint(middlewares.KeyUserID),
		Role:   c.GetString(middlewares.KeyRole),
	}
	if v, ok := c.Get(middlewares.KeyRestaurantID); ok {
		id := v.(uint)
		a.RestaurantID = &id
	}
	return a
}
