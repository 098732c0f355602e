package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/xelth-com/esimchatgo/internal/chat"
	"github.com/xelth-com/esimchatgo/internal/utils"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024 // 64KB

	// Upper bound on a single dialogue turn, completion included.
	turnTimeout = 45 * time.Second

	// Pause before the follow-up frame so the widget shows it as a
	// separate bubble.
	followUpDelay = 1200 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The widget is embedded on third-party storefront pages
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RespondFunc runs one dialogue turn.
type RespondFunc func(ctx context.Context, req chat.Request) (chat.Response, error)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	// Session ID assigned at upgrade
	SessionID string

	respond  RespondFunc
	clientIP string
}

// TurnMessage is an inbound dialogue turn from the widget. History is
// kept client-side and replayed with every turn.
type TurnMessage struct {
	Type        string         `json:"type"`
	MsgID       string         `json:"msgId,omitempty"`
	Message     string         `json:"message"`
	History     []chat.Message `json:"history,omitempty"`
	Email       string         `json:"email,omitempty"`
	Order       string         `json:"order,omitempty"`
	ICCID       string         `json:"iccid,omitempty"`
	DeviceMake  string         `json:"deviceMake,omitempty"`
	DeviceModel string         `json:"deviceModel,omitempty"`
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WS error: %v", err)
			}
			break
		}

		var turn TurnMessage
		if err := json.Unmarshal(message, &turn); err != nil || turn.Type != "turn" {
			c.SendJSON(map[string]string{"type": "error", "error": "invalid_message"})
			continue
		}

		// Completions can take seconds; keep the read loop responsive.
		go c.handleTurn(turn)
	}
}

// handleTurn runs one dialogue turn and pushes the reply, then the
// follow-up as a separate delayed frame.
func (c *Client) handleTurn(turn TurnMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	resp, err := c.respond(ctx, chat.Request{
		Message:     turn.Message,
		History:     turn.History,
		Email:       turn.Email,
		Order:       turn.Order,
		ICCID:       turn.ICCID,
		DeviceMake:  turn.DeviceMake,
		DeviceModel: turn.DeviceModel,
		ClientIP:    c.clientIP,
	})
	if err != nil {
		if err == chat.ErrEmptyMessage {
			c.SendJSON(map[string]string{"type": "error", "msgId": turn.MsgID, "error": "message_required"})
			return
		}
		log.Printf("⚠️ WS turn failed for session %s: %v", c.SessionID, err)
		c.SendJSON(map[string]string{"type": "error", "msgId": turn.MsgID, "error": "internal_error"})
		return
	}

	c.SendJSON(map[string]string{"type": "reply", "msgId": turn.MsgID, "reply": resp.Reply})

	if resp.FollowUp != "" {
		time.Sleep(followUpDelay)
		c.hub.SendToSession(c.SessionID, map[string]string{"type": "followUp", "reply": resp.FollowUp})
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
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
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
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

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(v interface{}) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return websocket.ErrCloseSent
	}
}

// ServeWs handles websocket requests from the widget.
func ServeWs(hub *Hub, respond RespondFunc, w http.ResponseWriter, r *http.Request) {
	clientIP := utils.ClientIP(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	client := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		SessionID: uuid.New().String(),
		respond:   respond,
		clientIP:  clientIP,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	client.SendJSON(map[string]string{"type": "session", "sessionId": client.SessionID})
}
