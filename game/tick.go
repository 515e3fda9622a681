package game

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Elimination 一条淘汰记录
type Elimination struct {
	PlayerID string
	By       string
}

// Report 单个 Tick 内发生的事
type Report struct {
	Pickups        int
	Fights         int
	LevelUps       int
	Eliminations   []Elimination
	PotionsSpawned int
	AISpawned      int
}

// Tick 推进一帧，原地修改 s：
// AI 命令 → 移动 → 拾取药水 → 碰撞战斗 → 补药水 → 补 AI。
// 非法命令静默忽略；补给阶段场地已满时返回包装了 ErrFieldSaturated 的错误，状态仍保持一致。
func (e *Engine) Tick(s *GameState, cmds Commands) (Report, error) {
	var rep Report

	merged := make(Commands, len(cmds)+len(e.roster))
	for id, d := range cmds {
		merged[id] = d
	}
	e.reconcileRoster(s)
	e.moveAI(merged)

	applyCommands(s, merged)
	rep.Pickups = resolvePotions(s, e.cfg.PotionHeal)
	e.resolveCollisions(s, &rep)

	var err error
	if perr := e.replenishPotions(s, &rep); perr != nil {
		err = multierr.Append(err, fmt.Errorf("replenish potions: %w", perr))
	}
	if aerr := e.replenishAI(s, &rep); aerr != nil {
		err = multierr.Append(err, fmt.Errorf("replenish ai: %w", aerr))
	}

	if len(rep.Eliminations) > 0 {
		e.log.Debug("tick eliminations", zap.Int("count", len(rep.Eliminations)))
	}
	return rep, err
}

// applyCommands 每人至多一步，越界则原地不动（不裁剪、不环绕）。未知 id 忽略。
func applyCommands(s *GameState, cmds Commands) {
	for _, p := range s.Players {
		d, ok := cmds[p.ID]
		if !ok {
			continue
		}
		x, y := p.X, p.Y
		switch d {
		case DirUp:
			y--
		case DirDown:
			y++
		case DirLeft:
			x--
		case DirRight:
			x++
		default:
			continue
		}
		if !s.InBounds(x, y) {
			continue
		}
		p.X, p.Y = x, y
	}
}

// resolvePotions 按药水列表顺序匹配同格的第一个玩家；每人每 Tick 至多拾取一瓶
func resolvePotions(s *GameState, heal int) int {
	picked := make(map[*Player]bool)
	kept := s.Potions[:0:0]
	for _, c := range s.Potions {
		var taker *Player
		for _, p := range s.Players {
			if p.X == c.X && p.Y == c.Y && !picked[p] {
				taker = p
				break
			}
		}
		if taker == nil {
			kept = append(kept, c)
			continue
		}
		Heal(taker, heal)
		picked[taker] = true
	}
	n := len(s.Potions) - len(kept)
	s.Potions = kept
	return n
}

func (e *Engine) replenishPotions(s *GameState, rep *Report) error {
	for len(s.Potions) < e.cfg.PotionTarget {
		loc, err := FindUnoccupiedLocation(s, FieldWindow(s), e.rng, e.cfg.PlacementAttempts)
		if err != nil {
			return err
		}
		s.Potions = append(s.Potions, Potion{X: loc.X, Y: loc.Y})
		rep.PotionsSpawned++
	}
	return nil
}
