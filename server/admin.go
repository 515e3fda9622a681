package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pokearena/render"
)

// NewRouter 组装 HTTP 路由：WebSocket 接入、房间管理、配置热更新、指标与视口渲染
func NewRouter(m *RoomManager, spriteDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/ws", gin.WrapF(m.HandleWS))

	r.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": m.ListRooms()})
	})
	r.POST("/rooms", func(c *gin.Context) {
		room := m.CreateRoom()
		c.JSON(http.StatusCreated, gin.H{"id": room.ID})
	})
	r.GET("/rooms/:room/state", func(c *gin.Context) {
		room, ok := m.GetRoom(c.Param("room"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, room.Snapshot())
	})
	r.GET("/rooms/:room/view.png", handleView(m, spriteDir))

	r.GET("/admin/config", handleGetConfig(m))
	r.POST("/admin/config", handleUpdateConfig(m))
	r.GET("/metrics", handleMetrics(m))
	return r
}

// requestLogger 将请求写入 zap（Debug 级别）
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		Log.Debugf("http %s %s status=%d took=%s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func roomParam(c *gin.Context) string {
	if id := c.Query("room"); id != "" {
		return id
	}
	return DefaultRoomID
}

type configPayload struct {
	PotionTarget *int `json:"potionTarget,omitempty"`
	AITarget     *int `json:"aiTarget,omitempty"`
	PotionHeal   *int `json:"potionHeal,omitempty"`
	TickHz       *int `json:"tickHz,omitempty"`
	FieldWidth   *int `json:"fieldWidth,omitempty"`
	FieldHeight  *int `json:"fieldHeight,omitempty"`
}

// handleGetConfig GET /admin/config?room=room-1  返回当前配置，房间不存在返回 404
func handleGetConfig(m *RoomManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		room, ok := m.GetRoom(roomParam(c))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		cfg, hz := room.GameConfig()
		c.JSON(http.StatusOK, configPayload{
			PotionTarget: &cfg.PotionTarget,
			AITarget:     &cfg.AITarget,
			PotionHeal:   &cfg.PotionHeal,
			TickHz:       &hz,
			FieldWidth:   &cfg.FieldWidth,
			FieldHeight:  &cfg.FieldHeight,
		})
	}
}

// handleUpdateConfig POST /admin/config?room=room-1 以 JSON 载荷更新补给目标
// 场地尺寸与 Tick 频率只读
func handleUpdateConfig(m *RoomManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body configPayload
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if body.TickHz != nil || body.FieldWidth != nil || body.FieldHeight != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tickHz and field size are read-only"})
			return
		}
		potions, ai, heal := -1, -1, -1
		for _, f := range []struct {
			v   *int
			dst *int
		}{{body.PotionTarget, &potions}, {body.AITarget, &ai}, {body.PotionHeal, &heal}} {
			if f.v == nil {
				continue
			}
			if *f.v < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "values must be >= 0"})
				return
			}
			*f.dst = *f.v
		}

		roomID := roomParam(c)
		cfg := m.GetOrCreateRoom(roomID).UpdateTargets(potions, ai, heal)
		Log.Infof("config updated: room=%s potions=%d ai=%d heal=%d", roomID, cfg.PotionTarget, cfg.AITarget, cfg.PotionHeal)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// handleMetrics GET /metrics?room=room-1 输出指定房间的运行指标
func handleMetrics(m *RoomManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := roomParam(c)
		room, ok := m.GetRoom(roomID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"room":    roomID,
			"tick":    room.TickSeq(),
			"players": room.NumPlayers(),
			"metrics": room.Metrics().Snapshot(),
		})
	}
}

// handleView GET /rooms/:room/view.png?player=7&scale=2 以该玩家为中心渲染 PNG
func handleView(m *RoomManager, spriteDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		room, ok := m.GetRoom(c.Param("room"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		scale := 1.0
		if s := c.Query("scale"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || v <= 0 || v > 4 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "scale must be in (0, 4]"})
				return
			}
			scale = v
		}

		state, _ := room.View()
		opts := render.DefaultOptions()
		opts.SpriteDir = spriteDir
		img, err := render.Viewport(state, c.Query("player"), opts)
		if errors.Is(err, render.ErrUnknownPlayer) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		buf, err := render.EncodePNG(img, scale)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode image"})
			return
		}
		c.Data(http.StatusOK, "image/png", buf)
	}
}
