package game

import "go.uber.org/zap"

// Outcome 一次碰撞战斗的结果
type Outcome int

const (
	BothSurvive Outcome = iota
	BothEliminated
	AttackerWins
	DefenderWins
)

func (o Outcome) String() string {
	switch o {
	case BothEliminated:
		return "both_eliminated"
	case AttackerWins:
		return "attacker_wins"
	case DefenderWins:
		return "defender_wins"
	default:
		return "both_survive"
	}
}

// Damage a 对 b 造成的伤害：等级 × 攻击力，再按属性克制调整
func Damage(a, b *Player) int {
	raw := a.Level * a.Species.AttackPower
	return EffectivenessOf(a.Species.Type, b.Species.Type).Apply(raw)
}

// Fight 双方同时结算伤害并判定结果（不负责移除或弹开）
func Fight(a, b *Player) Outcome {
	toB := Damage(a, b)
	toA := Damage(b, a)
	b.Health -= toB
	a.Health -= toA

	switch {
	case a.Health > 0 && b.Health > 0:
		return BothSurvive
	case a.Health <= 0 && b.Health <= 0:
		return BothEliminated
	case b.Health <= 0:
		return AttackerWins
	default:
		return DefenderWins
	}
}

type pairKey struct{ a, b string }

func makePair(x, y string) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{x, y}
}

// resolveCollisions 对同格玩家两两结算，每对无序组合每 Tick 至多一次
func (e *Engine) resolveCollisions(s *GameState, rep *Report) {
	fought := make(map[pairKey]bool)
	present := make(map[*Player]bool, len(s.Players))
	for _, p := range s.Players {
		present[p] = true
	}

	for _, player := range append([]*Player(nil), s.Players...) {
		if !present[player] {
			continue
		}
		var other *Player
		for _, q := range s.Players {
			if q != player && q.X == player.X && q.Y == player.Y && !fought[makePair(player.ID, q.ID)] {
				other = q
				break
			}
		}
		if other == nil {
			continue
		}
		fought[makePair(player.ID, other.ID)] = true
		rep.Fights++

		outcome := Fight(player, other)
		e.log.Debug("combat",
			zap.String("a", player.ID), zap.String("b", other.ID),
			zap.String("outcome", outcome.String()))

		switch outcome {
		case BothSurvive:
			e.bounce(s, player)
			e.bounce(s, other)
		case BothEliminated:
			e.remove(s, rep, player, other, present)
			e.remove(s, rep, other, player, present)
		case AttackerWins:
			rep.LevelUps += XPUp(player, other.Level)
			e.remove(s, rep, other, player, present)
		case DefenderWins:
			rep.LevelUps += XPUp(other, player.Level)
			e.remove(s, rep, player, other, present)
		}
	}
}

func (e *Engine) remove(s *GameState, rep *Report, loser, winner *Player, present map[*Player]bool) {
	s.eliminate(loser, winner)
	delete(present, loser)
	rep.Eliminations = append(rep.Eliminations, Elimination{PlayerID: loser.ID, By: winner.ID})
}

// bounce 在以当前位置为起点的小窗口内随机挪到空位，窗口裁剪到场地内；无空位则原地不动
func (e *Engine) bounce(s *GameState, p *Player) {
	win := Rect{X: p.X, Y: p.Y, W: e.cfg.BounceWindow, H: e.cfg.BounceWindow}.clip(s.FieldSize)
	loc, err := FindUnoccupiedLocation(s, win, e.rng, e.cfg.PlacementAttempts)
	if err != nil {
		e.log.Debug("bounce skipped", zap.String("player", p.ID))
		return
	}
	p.X, p.Y = loc.X, loc.Y
}
