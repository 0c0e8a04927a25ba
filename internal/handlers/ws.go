package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/weddingflow/weddingflow/internal/types"
	"github.com/weddingflow/weddingflow/internal/utils"
)

var (
	ownerClients   = make(map[uint]map[*websocket.Conn]bool)
	ownerClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		for _, allowed := range types.AllowedOrigins {
			if origin == allowed {
				return true
			}
		}
		return false
	},
}

// BroadcastRefresh tells every dashboard subscribed to an owner that its
// data changed. Called after team membership and project mutations.
func BroadcastRefresh(ownerID uint) {
	ownerClientsMu.RLock()
	clients, exists := ownerClients[ownerID]
	if !exists || len(clients) == 0 {
		ownerClientsMu.RUnlock()
		return
	}

	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	ownerClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":    "refresh",
			"message": "Dashboard data updated",
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			removeClient(ownerID, conn)
			conn.Close()
		}
	}
}

// WebSocket subscribes the authenticated user to refresh events for their
// own dashboards.
func WebSocket(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)

	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}

	ownerClientsMu.Lock()
	if ownerClients[userID] == nil {
		ownerClients[userID] = make(map[*websocket.Conn]bool)
	}
	ownerClients[userID][conn] = true
	ownerClientsMu.Unlock()

	go writePump(userID, conn)
	go readPump(userID, conn)
}

func readPump(ownerID uint, conn *websocket.Conn) {
	defer func() {
		removeClient(ownerID, conn)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Websocket closed unexpectedly: %v", err)
			}
			return
		}
	}
}

func writePump(ownerID uint, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		removeClient(ownerID, conn)
		conn.Close()
	}()

	for range ticker.C {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}

		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			return
		}
	}
}

func removeClient(ownerID uint, conn *websocket.Conn) {
	ownerClientsMu.Lock()
	defer ownerClientsMu.Unlock()

	if clients, exists := ownerClients[ownerID]; exists {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(ownerClients, ownerID)
		}
	}
}
