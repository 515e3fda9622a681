package game

import "strings"

// Direction 移动方向（每 Tick 至多一步）
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection 解析客户端命令字符串，无法识别的一律视为 DirNone
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirUp
	case "down":
		return DirDown
	case "left":
		return DirLeft
	case "right":
		return DirRight
	default:
		return DirNone
	}
}

// Commands 本 Tick 的玩家命令：playerID -> 方向
type Commands map[string]Direction

// Point 网格坐标
type Point struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// Size 场地尺寸，坐标闭区间 [0, Width] × [0, Height]
type Size struct {
	Width  int `json:"width" msgpack:"width"`
	Height int `json:"height" msgpack:"height"`
}

// Rect 采样窗口：x ∈ [X, X+W)，y ∈ [Y, Y+H)
type Rect struct {
	X, Y, W, H int
}

// Potion 药水，仅有位置，被拾取即销毁
type Potion struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// Player 场上的玩家（人类或 AI），Species 指向共享只读图鉴条目
type Player struct {
	ID      string
	Name    string
	XP      int
	Level   int
	Species *Species
	Health  int
	X       int
	Y       int
}

// MaxHealth 有效最大生命值，按需计算，不存储
func (p *Player) MaxHealth() int {
	return p.Level * p.Species.MaxHealthBase * 3
}

// SpriteID 当前等级对应的进化形态
func (p *Player) SpriteID() int {
	return p.Species.SpriteFor(p.Level)
}

// GameState 单个会话的权威状态
type GameState struct {
	Players           []*Player
	Potions           []Potion
	FieldSize         Size
	EliminatedPlayers map[string]string // 被淘汰者 -> 淘汰者（同归于尽时互为对方），只增不删
}

// MakeInitialState 会话开始时调用一次
func MakeInitialState(cfg Config) *GameState {
	return &GameState{
		Players:           []*Player{},
		Potions:           []Potion{},
		FieldSize:         Size{Width: cfg.FieldWidth, Height: cfg.FieldHeight},
		EliminatedPlayers: make(map[string]string),
	}
}

// FindPlayer 按 id 查找在场玩家
func (s *GameState) FindPlayer(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// InBounds 坐标是否在场地闭区间内
func (s *GameState) InBounds(x, y int) bool {
	return x >= 0 && x <= s.FieldSize.Width && y >= 0 && y <= s.FieldSize.Height
}

// Occupied 该格是否已有玩家或药水
func (s *GameState) Occupied(x, y int) bool {
	for _, p := range s.Players {
		if p.X == x && p.Y == y {
			return true
		}
	}
	for _, c := range s.Potions {
		if c.X == x && c.Y == y {
			return true
		}
	}
	return false
}

// RemovePlayer 移出玩家，不记录淘汰（用于断线离场）
func (s *GameState) RemovePlayer(id string) bool {
	for i, p := range s.Players {
		if p.ID == id {
			s.Players = append(s.Players[:i:i], s.Players[i+1:]...)
			return true
		}
	}
	return false
}

// eliminate 移出玩家并记录淘汰者
func (s *GameState) eliminate(p *Player, by *Player) {
	for i, q := range s.Players {
		if q == p {
			s.Players = append(s.Players[:i:i], s.Players[i+1:]...)
			break
		}
	}
	s.EliminatedPlayers[p.ID] = by.ID
}

// Clone 深拷贝（Species 仍共享），供渲染等只读方使用
func (s *GameState) Clone() *GameState {
	out := &GameState{
		Players:           make([]*Player, len(s.Players)),
		Potions:           append([]Potion(nil), s.Potions...),
		FieldSize:         s.FieldSize,
		EliminatedPlayers: make(map[string]string, len(s.EliminatedPlayers)),
	}
	for i, p := range s.Players {
		cp := *p
		out.Players[i] = &cp
	}
	for k, v := range s.EliminatedPlayers {
		out.EliminatedPlayers[k] = v
	}
	return out
}
