package server

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// The table is served to a browser on any origin during development.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ServeWs upgrades the request and hands the connection to the hub. Each
// connection gets its own table.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.WithError(err).Warn("Failed to upgrade connection.")
		return
	}

	client := hub.newClient(conn)
	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
