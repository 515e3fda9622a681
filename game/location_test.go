package game

import (
	"errors"
	"math/rand"
	"testing"
)

func TestFindUnoccupiedLocationSaturated(t *testing.T) {
	s := MakeInitialState(Config{FieldWidth: 1, FieldHeight: 1})
	s.Potions = []Potion{{X: 0, Y: 0}}

	_, err := FindUnoccupiedLocation(s, FieldWindow(s), rand.New(rand.NewSource(1)), 16)
	if !errors.Is(err, ErrFieldSaturated) {
		t.Fatalf("err = %v, want ErrFieldSaturated", err)
	}
}

func TestFindUnoccupiedLocationFallsBackToScan(t *testing.T) {
	s := MakeInitialState(Config{FieldWidth: 2, FieldHeight: 1})
	s.Players = []*Player{newTestPlayer(t, "p", "Abra", 0, 0)}

	got, err := FindUnoccupiedLocation(s, FieldWindow(s), rand.New(rand.NewSource(1)), 0)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != (Point{X: 1, Y: 0}) {
		t.Fatalf("got %+v, want the only free cell (1,0)", got)
	}
}

func TestFindUnoccupiedLocationFillsWindow(t *testing.T) {
	s := MakeInitialState(DefaultConfig())
	rng := rand.New(rand.NewSource(8))
	win := Rect{X: 40, Y: 60, W: 4, H: 4}
	for i := 0; i < 16; i++ {
		p, err := FindUnoccupiedLocation(s, win, rng, 8)
		if err != nil {
			t.Fatalf("find #%d: %v", i, err)
		}
		if p.X < 40 || p.X >= 44 || p.Y < 60 || p.Y >= 64 {
			t.Fatalf("point %+v outside window %+v", p, win)
		}
		if s.Occupied(p.X, p.Y) {
			t.Fatalf("point %+v already occupied", p)
		}
		s.Potions = append(s.Potions, Potion{X: p.X, Y: p.Y})
	}
	if _, err := FindUnoccupiedLocation(s, win, rng, 8); !errors.Is(err, ErrFieldSaturated) {
		t.Fatalf("full window err = %v, want ErrFieldSaturated", err)
	}
}

func TestBounceWindowClippedToField(t *testing.T) {
	win := Rect{X: 98, Y: 99, W: 4, H: 4}.clip(Size{Width: 100, Height: 100})
	if win != (Rect{X: 98, Y: 99, W: 3, H: 2}) {
		t.Fatalf("clipped = %+v", win)
	}
}

func TestBounceNearEdgeStaysInBounds(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		e := quietEngine(seed)
		s := MakeInitialState(DefaultConfig())
		a := newTestPlayer(t, "a", "Squirtle", 99, 99)
		b := newTestPlayer(t, "b", "Squirtle", 99, 99)
		s.Players = []*Player{a, b}
		if _, err := e.Tick(s, nil); err != nil {
			t.Fatalf("tick: %v", err)
		}
		for _, p := range s.Players {
			if !s.InBounds(p.X, p.Y) {
				t.Fatalf("seed %d: %s out of bounds at (%d,%d)", seed, p.ID, p.X, p.Y)
			}
		}
	}
}
