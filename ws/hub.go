package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"go-duel/dto"
	"go-duel/duel"
	"go-duel/middleware"
	"go-duel/service"
)

// client 一个 websocket 连接。gorilla 的连接不支持并发写，写入需加锁
type client struct {
	mu       sync.Mutex
	playerID string
	conn     dto.ConnInterface
}

func (c *client) send(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

type duelRoom struct {
	clients     []*client
	unsubscribe func()
}

// Hub 按对局分组管理连接，对局状态变化时广播给所有连接
type Hub struct {
	svc      *service.DuelService
	log      *zap.Logger
	secret   string // 为空时不鉴权
	upgrader websocket.Upgrader

	mu    sync.Mutex
	rooms map[string]*duelRoom
}

func NewHub(svc *service.DuelService, log *zap.Logger, secret string) *Hub {
	return &Hub{
		svc:    svc,
		log:    log,
		secret: secret,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		rooms: make(map[string]*duelRoom),
	}
}

// HandleWebSocket WebSocket 主入口（处理每个连接）
func (h *Hub) HandleWebSocket(c *gin.Context) {
	duelID := c.Query("duelId")
	if duelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST", "message": "缺少 duelId"})
		return
	}
	playerID, status, err := h.authorize(c, duelID)
	if err != nil {
		code := "DUEL_NOT_FOUND"
		switch status {
		case http.StatusUnauthorized:
			code = "UNAUTHORIZED"
		case http.StatusForbidden:
			code = "FORBIDDEN"
		}
		c.JSON(status, gin.H{"error": code, "message": err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket 升级失败", zap.Error(err))
		return
	}
	defer conn.Close()

	h.Serve(c.Request.Context(), conn, duelID, playerID)
}

// authorize 握手鉴权。开启鉴权时玩家身份取自 token，且必须是对局创建者
func (h *Hub) authorize(c *gin.Context, duelID string) (string, int, error) {
	if h.secret == "" {
		if _, err := h.svc.View(c.Request.Context(), duelID); err != nil {
			return "", http.StatusNotFound, err
		}
		return c.Query("userId"), http.StatusOK, nil
	}
	userID, err := middleware.ParseToken(h.secret, middleware.BearerToken(c))
	if err != nil {
		return "", http.StatusUnauthorized, err
	}
	if err := h.svc.Authorize(duelID, userID); err != nil {
		if errors.Is(err, service.ErrForbidden) {
			return "", http.StatusForbidden, err
		}
		return "", http.StatusNotFound, err
	}
	return userID, http.StatusOK, nil
}

// Serve 注册连接并进入消息监听循环，连接断开或 ctx 结束后返回
func (h *Hub) Serve(ctx context.Context, conn dto.ReadWriteConn, duelID, playerID string) {
	cl := &client{playerID: playerID, conn: conn}
	if err := h.join(duelID, cl); err != nil {
		h.sendError(cl, err)
		return
	}
	defer h.leave(duelID, cl)

	h.log.Info("玩家加入对局", zap.String("duel_id", duelID), zap.String("player_id", playerID))
	h.sendState(ctx, cl, duelID)

	// ctx 结束时关闭连接，让下面的 ReadMessage 返回
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			h.log.Debug("读取消息失败", zap.String("duel_id", duelID), zap.Error(err))
			return
		}
		h.dispatch(ctx, cl, duelID, msg)
	}
}

func (h *Hub) join(duelID string, cl *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[duelID]
	if !ok {
		unsubscribe, err := h.svc.Subscribe(duelID, func(view dto.RoundView) {
			h.broadcast(duelID, view)
		})
		if err != nil {
			return err
		}
		room = &duelRoom{unsubscribe: unsubscribe}
		h.rooms[duelID] = room
	}
	room.clients = append(room.clients, cl)
	return nil
}

// leave 玩家断开连接后，从房间中移除该连接；最后一个连接离开时取消订阅
func (h *Hub) leave(duelID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[duelID]
	if !ok {
		return
	}
	kept := room.clients[:0]
	for _, c := range room.clients {
		if c != cl {
			kept = append(kept, c)
		}
	}
	room.clients = kept
	if len(room.clients) == 0 {
		room.unsubscribe()
		delete(h.rooms, duelID)
	}
	h.log.Info("玩家离开对局", zap.String("duel_id", duelID), zap.String("player_id", cl.playerID))
}

// broadcast 广播状态给对局内所有连接，写失败的连接被关闭并移除
func (h *Hub) broadcast(duelID string, view dto.RoundView) {
	msg, err := json.Marshal(dto.StateMessage{Type: dto.MsgState, Data: view})
	if err != nil {
		h.log.Error("状态编码失败", zap.Error(err))
		return
	}

	h.mu.Lock()
	room, ok := h.rooms[duelID]
	var clients []*client
	if ok {
		clients = append(clients, room.clients...)
	}
	h.mu.Unlock()

	for _, cl := range clients {
		if err := cl.send(msg); err != nil {
			h.log.Warn("广播失败，移除连接", zap.String("duel_id", duelID), zap.String("player_id", cl.playerID), zap.Error(err))
			cl.conn.Close()
			h.leave(duelID, cl)
		}
	}
}

// ConnCount 对局当前连接数
func (h *Hub) ConnCount(duelID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[duelID]; ok {
		return len(room.clients)
	}
	return 0
}

func (h *Hub) sendState(ctx context.Context, cl *client, duelID string) {
	view, err := h.svc.View(ctx, duelID)
	if err != nil {
		h.sendError(cl, err)
		return
	}
	msg, _ := json.Marshal(dto.StateMessage{Type: dto.MsgState, Data: view})
	if err := cl.send(msg); err != nil {
		h.log.Debug("发送状态失败", zap.String("duel_id", duelID), zap.Error(err))
	}
}

func (h *Hub) sendError(cl *client, err error) {
	code := string(duel.CodeOf(err))
	switch {
	case errors.Is(err, service.ErrDuelNotFound):
		code = "DUEL_NOT_FOUND"
	case errors.Is(err, service.ErrForbidden):
		code = "FORBIDDEN"
	case code == "":
		code = "INVALID_REQUEST"
	}
	msg, _ := json.Marshal(dto.ErrorMessage{Type: dto.MsgError, Code: code, Message: err.Error()})
	if werr := cl.send(msg); werr != nil {
		h.log.Debug("发送错误失败", zap.Error(werr))
	}
}
