package game

import "strconv"

// AI 随机移动候选，五选一均匀分布（DirNone 即原地不动）
var aiMoves = [...]Direction{DirUp, DirLeft, DirDown, DirRight, DirNone}

// Roster 当前 AI 名册（只读副本）
func (e *Engine) Roster() []*Player {
	return append([]*Player(nil), e.roster...)
}

// reconcileRoster 丢弃已不在场上的 AI 引用，名册只跟随存活的 AI
func (e *Engine) reconcileRoster(s *GameState) {
	alive := make(map[*Player]bool, len(s.Players))
	for _, p := range s.Players {
		alive[p] = true
	}
	kept := e.roster[:0]
	for _, ai := range e.roster {
		if alive[ai] {
			kept = append(kept, ai)
		}
	}
	clear(e.roster[len(kept):])
	e.roster = kept
}

// moveAI 为名册中每个 AI 生成命令，覆盖调用方给出的同 id 命令
func (e *Engine) moveAI(cmds Commands) {
	for _, ai := range e.roster {
		cmds[ai.ID] = aiMoves[e.rng.Intn(len(aiMoves))]
	}
}

// replenishAI 先剔除本 Tick 战斗中淘汰的 AI，再补足数量；新 AI 直接加入 players
func (e *Engine) replenishAI(s *GameState, rep *Report) error {
	e.reconcileRoster(s)
	for len(e.roster) < e.cfg.AITarget {
		ai, err := e.SpawnAI(s)
		if err != nil {
			return err
		}
		e.roster = append(e.roster, ai)
		s.Players = append(s.Players, ai)
		rep.AISpawned++
	}
	return nil
}

// SpawnAI 生成一个 AI 玩家（不加入 state，由调用方决定）
func (e *Engine) SpawnAI(s *GameState) (*Player, error) {
	sp := randomSpecies(e.rng)
	p, err := e.newPlayer(s, sp)
	if err != nil {
		return nil, err
	}
	p.Name = "AI " + sp.Name
	return p, nil
}

func (e *Engine) newPlayer(s *GameState, sp *Species) (*Player, error) {
	loc, err := FindUnoccupiedLocation(s, FieldWindow(s), e.rng, e.cfg.PlacementAttempts)
	if err != nil {
		return nil, err
	}
	e.nextID++
	return &Player{
		ID:      strconv.Itoa(e.nextID),
		XP:      0,
		Level:   1,
		Species: sp,
		Health:  sp.MaxHealthBase * 3,
		X:       loc.X,
		Y:       loc.Y,
	}, nil
}
