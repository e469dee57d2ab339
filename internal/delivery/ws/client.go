package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/beaconlabs/pairlink/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Outbound frames buffered per connection before drops kick in
	sendBufferSize = 256
)

// Client represents a single websocket connection in a room. Its peer id is
// generated at join time and is the stable key for all per-connection state;
// nothing is keyed by the transport handle itself.
type Client struct {
	PeerID string
	room   *Room
	conn   *websocket.Conn
	send   chan []byte
}

// ReadPump pumps frames from the websocket connection into the room. It runs
// in its own goroutine, one per connection, so relay calls for a peer are
// naturally ordered and none can follow its leave.
func (c *Client) ReadPump() {
	defer func() {
		c.room.Leave(c.PeerID)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(domain.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			// Transport failure or explicit close; either way the
			// deferred Leave handles it.
			break
		}
		c.room.Relay(c.PeerID, message)
	}
}

// WritePump pumps frames from the room to the websocket connection.
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
				// Room closed the channel
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

// Send queues a frame for delivery. A slow or dead downstream never blocks
// the caller: when the buffer is full the frame is dropped and false is
// returned.
func (c *Client) Send(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}
