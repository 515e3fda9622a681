package game

import "testing"

func TestEffectivenessTableIsConsistent(t *testing.T) {
	types := []Type{Grass, Fire, Water, Psychic, Fighting, Dark}
	for _, x := range types {
		strong, weak := 0, 0
		for _, y := range types {
			switch EffectivenessOf(x, y) {
			case Strong:
				strong++
				if got := EffectivenessOf(y, x); got != Weak {
					t.Fatalf("%v strong vs %v, but reverse = %v, want weak", x, y, got)
				}
			case Weak:
				weak++
				if got := EffectivenessOf(y, x); got != Strong {
					t.Fatalf("%v weak vs %v, but reverse = %v, want strong", x, y, got)
				}
			}
		}
		if strong != 1 || weak != 1 {
			t.Fatalf("%v: strong=%d weak=%d, want 1 and 1", x, strong, weak)
		}
		if got := EffectivenessOf(x, x); got != Neutral {
			t.Fatalf("%v vs itself = %v, want neutral", x, got)
		}
	}
}

func TestEffectivenessApply(t *testing.T) {
	cases := []struct {
		e    Effectiveness
		raw  int
		want int
	}{
		{Strong, 5, 10},
		{Weak, 2, 1},
		{Weak, 5, 3},
		{Neutral, 7, 7},
	}
	for _, c := range cases {
		if got := c.e.Apply(c.raw); got != c.want {
			t.Fatalf("%v.Apply(%d) = %d, want %d", c.e, c.raw, got, c.want)
		}
	}
}

func TestGrassVsFireBothSurviveAndBounce(t *testing.T) {
	e := quietEngine(7)
	s := MakeInitialState(DefaultConfig())
	grass := newTestPlayer(t, "g", "Bulbasaur", 5, 5)
	fire := newTestPlayer(t, "f", "Charmander", 5, 5)
	s.Players = []*Player{grass, fire}

	if grass.Health != 18 || fire.Health != 9 {
		t.Fatalf("unexpected starting health grass=%d fire=%d", grass.Health, fire.Health)
	}

	rep, err := e.Tick(s, nil)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	t.Logf("after:\n%s", dumpState(s))

	if rep.Fights != 1 {
		t.Fatalf("fights = %d, want 1", rep.Fights)
	}
	if grass.Health != 8 {
		t.Fatalf("grass health = %d, want 8", grass.Health)
	}
	if fire.Health != 8 {
		t.Fatalf("fire health = %d, want 8", fire.Health)
	}
	if len(s.Players) != 2 || len(s.EliminatedPlayers) != 0 {
		t.Fatalf("expected both players to survive")
	}
	for _, p := range []*Player{grass, fire} {
		if p.X < 5 || p.X >= 9 || p.Y < 5 || p.Y >= 9 {
			t.Fatalf("%s bounced outside window: (%d,%d)", p.ID, p.X, p.Y)
		}
		if p.X == 5 && p.Y == 5 {
			t.Fatalf("%s still on the collision cell", p.ID)
		}
	}
	if grass.X == fire.X && grass.Y == fire.Y {
		t.Fatalf("players bounced onto the same cell (%d,%d)", grass.X, grass.Y)
	}
}

func TestMutualElimination(t *testing.T) {
	e := quietEngine(1)
	s := MakeInitialState(DefaultConfig())
	a := newTestPlayer(t, "a", "Abra", 3, 3)
	b := newTestPlayer(t, "b", "Abra", 3, 3)
	s.Players = []*Player{a, b}

	rep, err := e.Tick(s, nil)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(s.Players) != 0 {
		t.Fatalf("players left = %d, want 0\n%s", len(s.Players), dumpState(s))
	}
	if s.EliminatedPlayers["a"] != "b" || s.EliminatedPlayers["b"] != "a" {
		t.Fatalf("eliminated = %v, want a<-b and b<-a", s.EliminatedPlayers)
	}
	if len(rep.Eliminations) != 2 {
		t.Fatalf("report eliminations = %d, want 2", len(rep.Eliminations))
	}
}

func TestSingleEliminationAwardsXP(t *testing.T) {
	e := quietEngine(1)
	s := MakeInitialState(DefaultConfig())
	grass := newTestPlayer(t, "g", "Bulbasaur", 8, 8)
	grass.Health = 5
	fire := newTestPlayer(t, "f", "Charmander", 8, 8)
	fire.XP = 1
	s.Players = []*Player{grass, fire}

	rep, err := e.Tick(s, nil)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(s.Players) != 1 || s.Players[0] != fire {
		t.Fatalf("expected only fire to remain\n%s", dumpState(s))
	}
	if s.EliminatedPlayers["g"] != "f" {
		t.Fatalf("eliminated = %v, want g<-f", s.EliminatedPlayers)
	}
	// xp 1 + 1 = 2，不大于 level+1，不升级；被草系打掉 1 点
	if fire.Level != 1 || fire.XP != 2 || fire.Health != 8 {
		t.Fatalf("fire after kill: L%d xp=%d hp=%d, want L1 xp=2 hp=8", fire.Level, fire.XP, fire.Health)
	}
	if rep.LevelUps != 0 {
		t.Fatalf("level ups = %d, want 0", rep.LevelUps)
	}
}

func TestPairResolvedOnceWhenBounceImpossible(t *testing.T) {
	e := quietEngine(3)
	s := MakeInitialState(Config{FieldWidth: 0, FieldHeight: 0})
	a := newTestPlayer(t, "a", "Bulbasaur", 0, 0)
	b := newTestPlayer(t, "b", "Bulbasaur", 0, 0)
	a.Level, b.Level = 10, 10
	a.Health, b.Health = a.MaxHealth(), b.MaxHealth()
	s.Players = []*Player{a, b}

	rep, err := e.Tick(s, nil)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if rep.Fights != 1 {
		t.Fatalf("fights = %d, want 1", rep.Fights)
	}
	// 10 × 2 = 20 点中性伤害，只结算一次
	if want := 180 - 20; a.Health != want || b.Health != want {
		t.Fatalf("health a=%d b=%d, want %d", a.Health, b.Health, want)
	}
	if a.X != 0 || a.Y != 0 || b.X != 0 || b.Y != 0 {
		t.Fatalf("players moved on a single-cell field")
	}
}

func TestFightOutcomeIsExclusive(t *testing.T) {
	names := []string{"Bulbasaur", "Charmander", "Squirtle", "Abra", "Machop", "Deinos"}
	for _, an := range names {
		for _, bn := range names {
			for _, hp := range []int{1, 5, 30} {
				a := newTestPlayer(t, "a", an, 0, 0)
				b := newTestPlayer(t, "b", bn, 0, 0)
				a.Health, b.Health = hp, hp
				out := Fight(a, b)
				aDead, bDead := a.Health <= 0, b.Health <= 0
				var want Outcome
				switch {
				case !aDead && !bDead:
					want = BothSurvive
				case aDead && bDead:
					want = BothEliminated
				case bDead:
					want = AttackerWins
				default:
					want = DefenderWins
				}
				if out != want {
					t.Fatalf("%s vs %s hp=%d: outcome %v, want %v", an, bn, hp, out, want)
				}
			}
		}
	}
}
