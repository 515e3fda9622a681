package game

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"
)

func mustSpecies(t *testing.T, name string) *Species {
	t.Helper()
	sp, err := LookupSpecies(name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return sp
}

func newTestPlayer(t *testing.T, id, species string, x, y int) *Player {
	t.Helper()
	p := &Player{ID: id, Name: id, Level: 1, Species: mustSpecies(t, species), X: x, Y: y}
	p.Health = p.MaxHealth()
	return p
}

// quietEngine 不补药水、不补 AI，只测单步规则
func quietEngine(seed int64) *Engine {
	cfg := DefaultConfig()
	cfg.PotionTarget = 0
	cfg.AITarget = 0
	return NewEngine(cfg, WithRand(rand.New(rand.NewSource(seed))))
}

func dumpState(s *GameState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Field=%dx%d Potions=%d\n", s.FieldSize.Width, s.FieldSize.Height, len(s.Potions))
	players := append([]*Player(nil), s.Players...)
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	for _, p := range players {
		fmt.Fprintf(&b, "  %s %s L%d xp=%d hp=%d/%d (%d,%d)\n",
			p.ID, p.Species.Name, p.Level, p.XP, p.Health, p.MaxHealth(), p.X, p.Y)
	}
	fmt.Fprintf(&b, "  eliminated=%v\n", s.EliminatedPlayers)
	return b.String()
}
