package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches one upgraded connection to the hub for the given session.
func ServeWs(hub *Hub, conn *websocket.Conn, sessionID string) {
	client := &Client{hub: hub, conn: conn, SessionID: sessionID, send: make(chan []byte, 256)}
	hub.register <- client

	go client.writePump()
	client.readPump()
}
