package server

import (
	"pokearena/game"
)

// PlayerState 为广播给客户端的玩家状态
type PlayerState struct {
	ID        string `json:"id" msgpack:"id"`
	Name      string `json:"name" msgpack:"name"`
	XP        int    `json:"xp" msgpack:"xp"`
	Level     int    `json:"level" msgpack:"level"`
	Health    int    `json:"health" msgpack:"health"`
	MaxHealth int    `json:"maxHealth" msgpack:"maxHealth"`
	X         int    `json:"x" msgpack:"x"`
	Y         int    `json:"y" msgpack:"y"`
	Species   string `json:"species" msgpack:"species"`
	Type      string `json:"type" msgpack:"type"`
	SpriteID  int    `json:"spriteId" msgpack:"spriteId"`
	AI        bool   `json:"ai,omitempty" msgpack:"ai,omitempty"`
}

// Snapshot 整场快照（无增量），每 Tick 广播一次
type Snapshot struct {
	Type              string            `json:"type" msgpack:"type"`
	Tick              int64             `json:"tick" msgpack:"tick"`
	Players           []PlayerState     `json:"players" msgpack:"players"`
	Potions           []game.Potion     `json:"potions" msgpack:"potions"`
	FieldSize         game.Size         `json:"fieldSize" msgpack:"fieldSize"`
	EliminatedPlayers map[string]string `json:"eliminatedPlayers" msgpack:"eliminatedPlayers"`
}

// Welcome 加入成功后发给客户端
type Welcome struct {
	Type     string    `json:"type" msgpack:"type"`
	PlayerID string    `json:"playerId" msgpack:"playerId"`
	TickHz   int       `json:"tickHz" msgpack:"tickHz"`
	Field    game.Size `json:"fieldSize" msgpack:"fieldSize"`
}

// Eliminated 本客户端的角色被淘汰
type Eliminated struct {
	Type     string `json:"type" msgpack:"type"`
	PlayerID string `json:"playerId" msgpack:"playerId"`
	By       string `json:"by" msgpack:"by"`
}

// ErrorMessage 服务端拒绝请求（如场地已满）
type ErrorMessage struct {
	Type  string `json:"type" msgpack:"type"`
	Error string `json:"error" msgpack:"error"`
}

// client 房间内的人类玩家会话：连接 + 重生时沿用的名字与图鉴
type client struct {
	conn    Conn
	name    string
	species *game.Species
}

func buildSnapshot(s *game.GameState, e *game.Engine, tick int64) Snapshot {
	snap := Snapshot{
		Type:              "state",
		Tick:              tick,
		Players:           make([]PlayerState, 0, len(s.Players)),
		Potions:           append([]game.Potion{}, s.Potions...),
		FieldSize:         s.FieldSize,
		EliminatedPlayers: make(map[string]string, len(s.EliminatedPlayers)),
	}
	for _, p := range s.Players {
		snap.Players = append(snap.Players, PlayerState{
			ID:        p.ID,
			Name:      p.Name,
			XP:        p.XP,
			Level:     p.Level,
			Health:    p.Health,
			MaxHealth: p.MaxHealth(),
			X:         p.X,
			Y:         p.Y,
			Species:   p.Species.Name,
			Type:      p.Species.Type.String(),
			SpriteID:  p.SpriteID(),
			AI:        e.IsAI(p.ID),
		})
	}
	for k, v := range s.EliminatedPlayers {
		snap.EliminatedPlayers[k] = v
	}
	return snap
}
