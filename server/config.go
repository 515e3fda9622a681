package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"pokearena/game"
)

// Config 进程级配置，来源：.env 文件 + ARENA_* 环境变量（环境变量优先）
type Config struct {
	Addr       string
	LogFile    string
	LogLevel   string
	LogConsole bool
	SpriteDir  string // 精灵图目录，<id>.png；为空则用纯色圆点渲染
	WebDir     string // 前端静态资源目录
	Room       RoomConfig
}

// RoomConfig 新房间使用的参数
type RoomConfig struct {
	TickHz int
	Game   game.Config
}

// DefaultRoomConfig 10 TPS + 引擎默认参数
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{TickHz: TicksPerSecond, Game: game.DefaultConfig()}
}

// LoadConfig 读取可选的 .env 文件（不存在不报错）后解析环境变量
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		Addr:       envString("ARENA_ADDR", ":8080"),
		LogFile:    envString("ARENA_LOG_FILE", "arena.log"),
		LogLevel:   envString("ARENA_LOG_LEVEL", "info"),
		SpriteDir:  envString("ARENA_SPRITE_DIR", ""),
		WebDir:     envString("ARENA_WEB_DIR", "web"),
		Room:       DefaultRoomConfig(),
	}

	var err error
	if cfg.LogConsole, err = envBool("ARENA_LOG_CONSOLE", false); err != nil {
		return Config{}, err
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"ARENA_TICK_HZ", &cfg.Room.TickHz},
		{"ARENA_FIELD_WIDTH", &cfg.Room.Game.FieldWidth},
		{"ARENA_FIELD_HEIGHT", &cfg.Room.Game.FieldHeight},
		{"ARENA_POTION_COUNT", &cfg.Room.Game.PotionTarget},
		{"ARENA_AI_COUNT", &cfg.Room.Game.AITarget},
		{"ARENA_POTION_HEAL", &cfg.Room.Game.PotionHeal},
		{"ARENA_PLACEMENT_ATTEMPTS", &cfg.Room.Game.PlacementAttempts},
	}
	for _, it := range ints {
		if *it.dst, err = envInt(it.key, *it.dst); err != nil {
			return Config{}, err
		}
	}
	if cfg.Room.TickHz <= 0 {
		return Config{}, fmt.Errorf("ARENA_TICK_HZ must be > 0, got %d", cfg.Room.TickHz)
	}
	if cfg.Room.Game.FieldWidth <= 0 || cfg.Room.Game.FieldHeight <= 0 {
		return Config{}, fmt.Errorf("field size must be > 0, got %dx%d", cfg.Room.Game.FieldWidth, cfg.Room.Game.FieldHeight)
	}
	return cfg, nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
	return n, nil
}

func envBool(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
	return b, nil
}
