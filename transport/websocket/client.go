package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

type client struct {
	conn *websocket.Conn

	outbox    chan Message
	done      chan struct{}
	closeOnce sync.Once

	mu    sync.Mutex
	match string
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:   conn,
		outbox: make(chan Message, sendBuffer),
		done:   make(chan struct{}),
	}
}

func (that *client) matchID() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.match
}

func (that *client) setMatchID(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.match = id
}

// send queues a message. A client that cannot keep up is disconnected.
func (that *client) send(message Message) {
	select {
	case <-that.done:
	case that.outbox <- message:
	default:
		that.close()
	}
}

func (that *client) close() {
	that.closeOnce.Do(func() {
		close(that.done)
		_ = that.conn.Close()
	})
}

func (that *client) readPump(ctx context.Context, dispatch func(context.Context, *Message, *client)) {
	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			that.send(Message{Action: actionError, Payload: mustMarshal(Payload{Error: "malformed message"})})
			continue
		}

		dispatch(ctx, &message, that)
	}
}

func (that *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-that.done:
			return
		case message := <-that.outbox:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteJSON(message); err != nil {
				that.close()
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				that.close()
				return
			}
		}
	}
}
