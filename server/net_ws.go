package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"pokearena/game"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
)

// Conn 房间向客户端发送数据所需的最小接口（测试中可替换）
type Conn interface {
	Enqueue(msgType int, b []byte)
	Codec() Codec
	Close()
}

// send 按连接的编码发送一条消息
func send(c Conn, v any) error {
	b, err := c.Codec().Encode(v)
	if err != nil {
		return err
	}
	c.Enqueue(c.Codec().MessageType(), b)
	return nil
}

type frame struct {
	msgType int
	data    []byte
}

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws    *websocket.Conn
	codec Codec

	mu     sync.Mutex
	send   chan frame
	closed bool
}

func NewClientConn(ws *websocket.Conn, codec Codec) *ClientConn {
	return &ClientConn{
		ws:    ws,
		codec: codec,
		send:  make(chan frame, 64),
	}
}

func (c *ClientConn) Codec() Codec { return c.codec }

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）
func (c *ClientConn) Enqueue(msgType int, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- frame{msgType: msgType, data: b}:
	default:
		// 为了实时性，丢弃新消息（防止阻塞 Tick）
	}
}

// Close 关闭发送队列；写协程发完剩余消息后关闭底层连接
func (c *ClientConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定时 ping
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case f, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(f.msgType, f.data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端输入，转换为 Input 注入房间
func (c *ClientConn) readPump(room *Room, playerID string) {
	// 读泵退出时，通知房间在 Tick 线程中移除该玩家
	defer func() { room.RequestLeave(playerID) }()
	c.ws.SetReadLimit(1 << 20) // 1MB
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error { return c.ws.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				Log.Debugf("ws read: room=%s player=%s err=%v", room.ID, playerID, err)
			}
			return
		}
		var im InputMessage
		if err := json.Unmarshal(payload, &im); err != nil {
			continue
		}
		switch strings.ToLower(im.Type) {
		case "move":
			room.OnInput(Input{PlayerID: playerID, Command: game.ParseDirection(im.Command)})
		case "respawn":
			id, err := room.Respawn(playerID)
			if err != nil {
				_ = send(c, ErrorMessage{Type: "error", Error: err.Error()})
				continue
			}
			playerID = id
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：?room=room-1&name=alice&species=abra&codec=json
func (m *RoomManager) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	roomID := q.Get("room")
	if roomID == "" {
		roomID = DefaultRoomID
	}
	var sp *game.Species
	if name := q.Get("species"); name != "" {
		var err error
		if sp, err = game.LookupSpecies(name); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}

	room := m.GetOrCreateRoom(roomID)
	cc := NewClientConn(ws, ParseCodec(q.Get("codec")))
	go cc.writePump()

	playerID, err := room.JoinPlayer(q.Get("name"), sp, cc)
	if err != nil {
		msg := "join failed"
		if errors.Is(err, game.ErrFieldSaturated) {
			msg = "arena is full"
		}
		_ = send(cc, ErrorMessage{Type: "error", Error: msg})
		cc.Close()
		Log.Warnf("join rejected: room=%s err=%v", roomID, err)
		return
	}
	go cc.readPump(room, playerID)
}
