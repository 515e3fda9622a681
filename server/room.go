package server

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"pokearena/game"
)

// ErrStillAlive 角色仍在场上时不允许重生
var ErrStillAlive = errors.New("player is still in the arena")

// Room 房间世界：权威状态维护在内存，单线程 Tick 推进
type Room struct {
	ID string

	mu      sync.Mutex
	state   *game.GameState
	engine  *game.Engine
	clients map[string]*client // playerID -> 人类玩家会话
	pending game.Commands      // 本 Tick 待执行命令，同一玩家后到覆盖先到

	inputChan chan Input
	leaveChan chan string
	quit      chan struct{}

	tickHz        int
	tickSeq       int64
	metrics       *RoomMetrics
	tickerStarted bool
	stopOnce      sync.Once
}

// NewRoom 创建房间，初始化数据结构
func NewRoom(id string, cfg RoomConfig, opts ...game.Option) *Room {
	if cfg.TickHz <= 0 {
		cfg.TickHz = TicksPerSecond
	}
	base := []game.Option{
		game.WithLogger(Log.Desugar().Named("engine").With(zap.String("room", id))),
		game.WithRand(rand.New(rand.NewSource(time.Now().UnixNano()))),
	}
	return &Room{
		ID:        id,
		state:     game.MakeInitialState(cfg.Game),
		engine:    game.NewEngine(cfg.Game, append(base, opts...)...),
		clients:   make(map[string]*client),
		pending:   make(game.Commands),
		inputChan: make(chan Input, 256), // 足够缓冲，避免网络读阻塞影响 Tick
		leaveChan: make(chan string, 64),
		quit:      make(chan struct{}),
		tickHz:    cfg.TickHz,
		metrics:   &RoomMetrics{},
	}
}

// JoinPlayer 创建人类玩家并绑定连接，返回分配的 id
func (r *Room) JoinPlayer(name string, sp *game.Species, conn Conn) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.engine.Join(r.state, name, sp)
	if err != nil {
		return "", fmt.Errorf("join room %s: %w", r.ID, err)
	}
	r.clients[p.ID] = &client{conn: conn, name: name, species: p.Species}
	r.welcome(p.ID, conn)
	Log.Infof("player joined: room=%s id=%s name=%q species=%s", r.ID, p.ID, p.Name, p.Species.Name)
	return p.ID, nil
}

// Respawn 被淘汰的玩家以同名同图鉴重新加入，获得新 id
func (r *Room) Respawn(oldID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[oldID]
	if !ok {
		return "", fmt.Errorf("unknown player %s", oldID)
	}
	if r.state.FindPlayer(oldID) != nil {
		return "", ErrStillAlive
	}
	p, err := r.engine.Join(r.state, c.name, c.species)
	if err != nil {
		return "", fmt.Errorf("respawn in room %s: %w", r.ID, err)
	}
	delete(r.clients, oldID)
	r.clients[p.ID] = c
	r.welcome(p.ID, c.conn)
	Log.Infof("player respawned: room=%s old=%s new=%s", r.ID, oldID, p.ID)
	return p.ID, nil
}

func (r *Room) welcome(id string, conn Conn) {
	r.notify(conn, id, Welcome{Type: "welcome", PlayerID: id, TickHz: r.tickHz, Field: r.state.FieldSize})
}

// notify 向单个客户端发送消息，编码失败只记日志
func (r *Room) notify(conn Conn, playerID string, msg any) {
	if err := send(conn, msg); err != nil {
		Log.Warnf("message encode (%T): room=%s player=%s err=%v", msg, r.ID, playerID, err)
	}
}

// LeavePlayer 将玩家移出房间（离场不计入淘汰记录）
func (r *Room) LeavePlayer(id string) {
	if c, ok := r.clients[id]; ok {
		c.conn.Close()
		delete(r.clients, id)
	}
	if r.state.RemovePlayer(id) {
		Log.Infof("player left: room=%s id=%s", r.ID, id)
	}
}

// OnInput 入站输入（不立即改变位置），仅记录意图，等下一次 Tick 处理
func (r *Room) OnInput(in Input) {
	// 不阻塞：输入拥塞时丢弃，保证 Tick 准时
	select {
	case r.inputChan <- in:
	default:
		r.metrics.IncChanFullDiscarded()
	}
}

// ProcessInputs 处理离场请求并把输入汇总为本 Tick 的命令（非阻塞 drain）
func (r *Room) ProcessInputs() {
	for {
		select {
		case pid := <-r.leaveChan:
			r.LeavePlayer(pid)
		case in := <-r.inputChan:
			if _, ok := r.clients[in.PlayerID]; !ok {
				r.metrics.IncUnknownIgnored()
				continue
			}
			if _, dup := r.pending[in.PlayerID]; dup {
				// 同一 Tick 内每人只走一步，后到的输入覆盖先到的
				r.metrics.IncRateLimited()
			}
			r.pending[in.PlayerID] = in.Command
			r.metrics.IncAccepted()
		default:
			return
		}
	}
}

// UpdateWorld 推进世界一帧并处理结果
func (r *Room) UpdateWorld() game.Report {
	rep, err := r.engine.Tick(r.state, r.pending)
	r.pending = make(game.Commands)
	if err != nil {
		// 场地饱和：本 Tick 补给不足，下一 Tick 再试
		r.metrics.IncSaturated()
		Log.Warnf("tick %d replenish incomplete: room=%s err=%v", r.tickSeq, r.ID, err)
	}
	r.metrics.AddReport(rep)
	for _, el := range rep.Eliminations {
		Log.Debugf("eliminated: room=%s player=%s by=%s", r.ID, el.PlayerID, el.By)
		if c, ok := r.clients[el.PlayerID]; ok {
			r.notify(c.conn, el.PlayerID, Eliminated{Type: "eliminated", PlayerID: el.PlayerID, By: el.By})
		}
	}
	return rep
}

// Broadcast 将当前世界状态广播给所有人类玩家
func (r *Room) Broadcast() {
	if len(r.clients) == 0 {
		return
	}
	cache := newEncodedCache(buildSnapshot(r.state, r.engine, r.tickSeq))
	for id, c := range r.clients {
		b, err := cache.get(c.conn.Codec())
		if err != nil {
			Log.Errorf("snapshot encode (%s): room=%s player=%s err=%v", c.conn.Codec(), r.ID, id, err)
			continue
		}
		c.conn.Enqueue(c.conn.Codec().MessageType(), b)
	}
}

// RequestLeave 请求在 Tick 线程中移除玩家，避免并发改动房间状态
func (r *Room) RequestLeave(pid string) {
	select {
	case r.leaveChan <- pid:
	case <-r.quit:
	}
}

// View 当前状态的深拷贝，供渲染与 HTTP 读取
func (r *Room) View() (*game.GameState, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone(), r.tickSeq
}

// Snapshot 与广播内容一致的快照
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return buildSnapshot(r.state, r.engine, r.tickSeq)
}

// TickSeq 已执行的 Tick 数
func (r *Room) TickSeq() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tickSeq
}

// NumPlayers 当前连接的人类玩家数
func (r *Room) NumPlayers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Metrics 运行指标
func (r *Room) Metrics() *RoomMetrics { return r.metrics }

// GameConfig 当前引擎参数
func (r *Room) GameConfig() (game.Config, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.Config(), r.tickHz
}

// UpdateTargets 热更新补给目标；负数表示不修改
func (r *Room) UpdateTargets(potions, ai, heal int) game.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engine.SetTargets(potions, ai, heal)
	return r.engine.Config()
}

// Stop 停止 Tick 并断开所有客户端
func (r *Room) Stop() {
	r.stopOnce.Do(func() {
		close(r.quit)
		r.mu.Lock()
		defer r.mu.Unlock()
		for id, c := range r.clients {
			c.conn.Close()
			delete(r.clients, id)
		}
	})
}
