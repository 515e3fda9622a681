package game

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Config 引擎可调参数
type Config struct {
	FieldWidth        int
	FieldHeight       int
	PotionTarget      int // 场上药水目标数量
	AITarget          int // AI 名册目标数量
	PotionHeal        int
	BounceWindow      int // 战斗双方存活时弹开的窗口边长
	PlacementAttempts int // 随机找空位的尝试次数，之后逐格扫描
}

// DefaultConfig 100×100 场地、10 瓶药水、20 个 AI
func DefaultConfig() Config {
	return Config{
		FieldWidth:        100,
		FieldHeight:       100,
		PotionTarget:      10,
		AITarget:          20,
		PotionHeal:        10,
		BounceWindow:      4,
		PlacementAttempts: 256,
	}
}

// Engine 每个会话一个：持有 AI 名册、id 计数器与随机源。无锁，同一会话同一时刻只能有一个 Tick。
type Engine struct {
	cfg    Config
	rng    *rand.Rand
	log    *zap.Logger
	roster []*Player
	nextID int
}

// Option 引擎构造选项
type Option func(*Engine)

// WithRand 指定随机源（测试用固定种子）
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithLogger 指定日志；默认 zap.NewNop()
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine 创建引擎
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	return e
}

// Config 当前参数
func (e *Engine) Config() Config { return e.cfg }

// SetTargets 调整补给目标（热更新）；负数忽略
func (e *Engine) SetTargets(potions, ai, heal int) {
	if potions >= 0 {
		e.cfg.PotionTarget = potions
	}
	if ai >= 0 {
		e.cfg.AITarget = ai
	}
	if heal >= 0 {
		e.cfg.PotionHeal = heal
	}
}

// Join 创建人类玩家并加入场上；name 为空时用 "Player <id>"，species 为 nil 时随机
func (e *Engine) Join(s *GameState, name string, sp *Species) (*Player, error) {
	if sp == nil {
		sp = randomSpecies(e.rng)
	}
	p, err := e.newPlayer(s, sp)
	if err != nil {
		return nil, err
	}
	p.Name = name
	if p.Name == "" {
		p.Name = "Player " + p.ID
	}
	s.Players = append(s.Players, p)
	e.log.Debug("player joined", zap.String("id", p.ID), zap.String("species", sp.Name))
	return p, nil
}

// IsAI 是否为本引擎名册中的 AI
func (e *Engine) IsAI(id string) bool {
	for _, ai := range e.roster {
		if ai.ID == id {
			return true
		}
	}
	return false
}
