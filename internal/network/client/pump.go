package client

import (
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/electric-chair/internal/logger"
	"github.com/palemoky/electric-chair/internal/protocol/codec"
)

// readPump 从服务器读取消息
func (c *Client) readPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		c.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && c.OnError != nil {
				c.OnError(err)
			}
			return
		}

		msg, err := codec.Decode(data)
		if err != nil {
			log.Printf("消息解析错误: %v", err)
			continue
		}

		select {
		case c.receive <- msg:
		case <-c.done:
			return
		}
	}
}

// writePump 向服务器写入消息
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		ticker.Stop()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Close()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}

		case <-c.done:
			return
		}
	}
}
