package server

import (
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"pokearena/game"
)

type fakeConn struct {
	mu     sync.Mutex
	codec  Codec
	frames []frame
	closed bool
}

func (f *fakeConn) Enqueue(msgType int, b []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]byte, len(b))
	copy(cp, b)
	f.frames = append(f.frames, frame{msgType: msgType, data: cp})
}

func (f *fakeConn) Codec() Codec { return f.codec }

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// messages 解码所有帧中指定 type 的消息
func (f *fakeConn) messages(t *testing.T, typ string) []map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []map[string]any
	for _, fr := range f.frames {
		var m map[string]any
		var err error
		if f.codec == CodecMsgpack {
			err = msgpack.Unmarshal(fr.data, &m)
		} else {
			err = json.Unmarshal(fr.data, &m)
		}
		if err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if m["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}

func quietRoomConfig() RoomConfig {
	cfg := DefaultRoomConfig()
	cfg.Game.AITarget = 0
	cfg.Game.PotionTarget = 0
	return cfg
}

func newTestRoom(t *testing.T, cfg RoomConfig) *Room {
	t.Helper()
	r := NewRoom("test", cfg, game.WithRand(rand.New(rand.NewSource(1))))
	t.Cleanup(r.Stop)
	return r
}

func joinAt(t *testing.T, r *Room, name string, x, y int) (string, *fakeConn) {
	t.Helper()
	fc := &fakeConn{}
	id, err := r.JoinPlayer(name, nil, fc)
	if err != nil {
		t.Fatalf("join %s: %v", name, err)
	}
	r.mu.Lock()
	p := r.state.FindPlayer(id)
	p.X, p.Y = x, y
	r.mu.Unlock()
	return id, fc
}

func TestRoomJoinSendsWelcomeAndBroadcastIncludesPlayer(t *testing.T) {
	r := newTestRoom(t, quietRoomConfig())
	id, fc := joinAt(t, r, "alice", 10, 10)

	welcome := fc.messages(t, "welcome")
	if len(welcome) != 1 || welcome[0]["playerId"] != id {
		t.Fatalf("welcome = %v, want playerId %s", welcome, id)
	}

	r.Step()
	states := fc.messages(t, "state")
	if len(states) != 1 {
		t.Fatalf("state messages = %d, want 1", len(states))
	}
	players, _ := states[0]["players"].([]any)
	found := false
	for _, p := range players {
		if pm, ok := p.(map[string]any); ok && pm["id"] == id && pm["name"] == "alice" {
			found = true
		}
	}
	if !found {
		t.Fatalf("player %s not in snapshot: %v", id, players)
	}
}

func TestRoomAppliesLatestInputPerTick(t *testing.T) {
	r := newTestRoom(t, quietRoomConfig())
	id, _ := joinAt(t, r, "bob", 10, 10)

	r.OnInput(Input{PlayerID: id, Command: game.DirLeft})
	r.OnInput(Input{PlayerID: id, Command: game.DirRight})
	r.OnInput(Input{PlayerID: "nobody", Command: game.DirUp})
	r.Step()

	state, tick := r.View()
	p := state.FindPlayer(id)
	if p.X != 11 || p.Y != 10 {
		t.Fatalf("player at (%d,%d), want (11,10)", p.X, p.Y)
	}
	if tick != 1 {
		t.Fatalf("tick = %d, want 1", tick)
	}
	m := r.Metrics().Snapshot()
	if m["rate_limited"] != int64(1) || m["unknown_ignored"] != int64(1) || m["inputs_accepted"] != int64(2) {
		t.Fatalf("metrics = %v", m)
	}
}

func TestRoomEliminationNotifiesAndRespawns(t *testing.T) {
	r := newTestRoom(t, quietRoomConfig())
	abra, _ := game.LookupSpecies("Abra")

	fa := &fakeConn{}
	a, err := r.JoinPlayer("a", abra, fa)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	fb := &fakeConn{}
	b, err := r.JoinPlayer("b", abra, fb)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	r.mu.Lock()
	pa, pb := r.state.FindPlayer(a), r.state.FindPlayer(b)
	pa.X, pa.Y, pb.X, pb.Y = 20, 20, 20, 20
	r.mu.Unlock()

	// 两只 Abra 各 6 血、互打 6 点：同归于尽
	r.Step()

	for _, tc := range []struct {
		conn *fakeConn
		id   string
		by   string
	}{{fa, a, b}, {fb, b, a}} {
		msgs := tc.conn.messages(t, "eliminated")
		if len(msgs) != 1 || msgs[0]["playerId"] != tc.id || msgs[0]["by"] != tc.by {
			t.Fatalf("eliminated messages for %s = %v", tc.id, msgs)
		}
	}

	newID, err := r.Respawn(a)
	if err != nil {
		t.Fatalf("respawn: %v", err)
	}
	if newID == a || newID == b {
		t.Fatalf("respawn reused id %s", newID)
	}
	state, _ := r.View()
	p := state.FindPlayer(newID)
	if p == nil || p.Name != "a" || p.Species.Name != "Abra" {
		t.Fatalf("respawned player = %+v", p)
	}
	if _, err := r.Respawn(newID); !errors.Is(err, ErrStillAlive) {
		t.Fatalf("respawn alive err = %v, want ErrStillAlive", err)
	}
}

func TestRoomLeaveRemovesWithoutElimination(t *testing.T) {
	r := newTestRoom(t, quietRoomConfig())
	id, fc := joinAt(t, r, "carol", 30, 30)

	r.RequestLeave(id)
	r.Step()

	state, _ := r.View()
	if state.FindPlayer(id) != nil {
		t.Fatalf("player %s still present after leave", id)
	}
	if _, ok := state.EliminatedPlayers[id]; ok {
		t.Fatalf("leave recorded as elimination")
	}
	fc.mu.Lock()
	closed := fc.closed
	fc.mu.Unlock()
	if !closed {
		t.Fatalf("connection not closed on leave")
	}
	if r.NumPlayers() != 0 {
		t.Fatalf("clients = %d, want 0", r.NumPlayers())
	}
}

func TestRoomReplenishesAIAndPotions(t *testing.T) {
	r := newTestRoom(t, DefaultRoomConfig())
	r.Step()
	snap := r.Snapshot()
	if len(snap.Potions) != 10 {
		t.Fatalf("potions = %d, want 10", len(snap.Potions))
	}
	ai := 0
	for _, p := range snap.Players {
		if p.AI {
			ai++
		}
	}
	if ai != 20 {
		t.Fatalf("ai players = %d, want 20", ai)
	}
}

func TestUpdateTargets(t *testing.T) {
	r := newTestRoom(t, quietRoomConfig())
	cfg := r.UpdateTargets(3, -1, 25)
	if cfg.PotionTarget != 3 || cfg.AITarget != 0 || cfg.PotionHeal != 25 {
		t.Fatalf("config = %+v", cfg)
	}
	r.Step()
	if n := len(r.Snapshot().Potions); n != 3 {
		t.Fatalf("potions = %d, want 3", n)
	}
}

func TestNotifyLogsEncodeFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := Log
	Log = zap.New(core).Sugar()
	t.Cleanup(func() { Log = prev })

	r := newTestRoom(t, quietRoomConfig())
	fc := &fakeConn{}
	r.notify(fc, "7", make(chan int))

	if n := len(fc.frames); n != 0 {
		t.Fatalf("frames = %d, want 0", n)
	}
	entries := logs.FilterMessageSnippet("player=7").All()
	if len(entries) != 1 {
		t.Fatalf("warn entries = %d, want 1 (all: %v)", len(entries), logs.All())
	}

	r.notify(fc, "7", Eliminated{Type: "eliminated", PlayerID: "7", By: "3"})
	if got := fc.messages(t, "eliminated"); len(got) != 1 || got[0]["by"] != "3" {
		t.Fatalf("eliminated messages = %v", got)
	}
}
