package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/dinein-backend/kds"
	"github.com/yeremiapane/dinein-backend/utils"
)

type KDSController struct {
	hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKDSController; origins kosong atau "*" menerima semua origin.
func NewKDSController(hub *kds.Hub, origins []string) *KDSController {
	allowed := map[string]bool{}
	for _, o := range origins {
		allowed[o] = true
	}
	return &KDSController{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

// KDSHandler -> endpoint WebSocket, event dibatasi per restoran
func (kc *KDSController) KDSHandler(c *gin.Context) {
	rid := restaurantID(c)
	role := actorFrom(c).Role

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	kc.hub.Register(ws, rid, role)

	// Baca pesan sampai client menutup koneksi
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	kc.hub.Unregister(ws)
}
