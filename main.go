package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"pokearena/server"
)

// PokeArena 入口：加载配置，启动 HTTP + WebSocket 服务，并初始化房间管理器
func main() {
	var addr, envFile string
	flag.StringVar(&addr, "addr", "", "server listen address, e.g. :8080 (overrides ARENA_ADDR)")
	flag.StringVar(&envFile, "env", ".env", "optional dotenv file")
	flag.Parse()

	cfg, err := server.LoadConfig(envFile)
	if err != nil {
		panic(err)
	}
	if addr != "" {
		cfg.Addr = addr
	}

	// 使用 zap 日志写入文件（带滚动）
	if err := server.InitLogger(cfg.LogFile, cfg.LogLevel, cfg.LogConsole); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	rm := server.InitRoomManager(cfg.Room)
	// 先预创建一个默认房间，便于快速试跑
	_ = rm.GetOrCreateRoom(server.DefaultRoomID)

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(rm, cfg.SpriteDir)
	// 前后端分离：未匹配的路径映射到 web 目录的静态资源
	router.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.WebDir))))
	srv := &http.Server{Addr: cfg.Addr, Handler: router}

	go func() {
		server.Log.Infof("PokeArena listening on %s (tick %d/s, field %dx%d)",
			cfg.Addr, cfg.Room.TickHz, cfg.Room.Game.FieldWidth, cfg.Room.Game.FieldHeight)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		server.Log.Warnf("http shutdown: %v", err)
	}
	rm.Shutdown()
}
