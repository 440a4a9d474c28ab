package server

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/sim"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// Client represents an active WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient wraps an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Register adds the client to the hub. A hub that has already shut down
// accepts nobody.
func (c *Client) Register() {
	select {
	case c.hub.register <- c:
	case <-c.hub.done:
	}
}

// drop hands the client back to the hub, or gives up when the hub has
// already shut down and stopped receiving.
func (c *Client) drop() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

// ReadPump pumps player commands from the connection to the runner.
func (c *Client) ReadPump() {
	defer func() {
		c.drop()
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Error("websocket read failed", "error", err)
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.hub.log.Debug("unparseable client message", "error", err)
			continue
		}
		c.handleCommand(env)
	}
}

// handleCommand translates one inbound envelope into a runner command.
func (c *Client) handleCommand(env Envelope) {
	switch env.Type {
	case TypeUseTool:
		var p UseToolPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.hub.log.Debug("bad use_tool payload", "error", err)
			return
		}
		tool, ok := parseTool(p.Tool)
		if !ok {
			c.hub.log.Debug("unknown tool", "tool", p.Tool)
			return
		}
		c.hub.runner.Enqueue(sim.Command{
			Kind: sim.CmdUseTool,
			Tool: tool,
			At:   geo.Coordinates{Lat: p.Lat, Lng: p.Lng},
		})
	case TypeInspect:
		var p InspectPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.hub.log.Debug("bad inspect payload", "error", err)
			return
		}
		c.hub.runner.Enqueue(sim.Command{
			Kind: sim.CmdInspect,
			At:   geo.Coordinates{Lat: p.Lat, Lng: p.Lng},
		})
	case TypeTogglePause:
		c.hub.runner.Enqueue(sim.Command{Kind: sim.CmdTogglePause})
	case TypeReset:
		c.hub.radio.Reset()
		c.hub.runner.Enqueue(sim.Command{Kind: sim.CmdReset})
	default:
		c.hub.log.Debug("unknown client message type", "type", env.Type)
	}
}

// WritePump pumps broadcast messages to the connection with keepalive pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
