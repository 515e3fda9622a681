package server

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// DefaultRoomID 未指定房间时使用
const DefaultRoomID = "room-1"

// RoomInfo 房间列表条目
type RoomInfo struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
	Tick    int64  `json:"tick"`
}

// RoomManager 管理多个房间的生命周期
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	cfg   RoomConfig
}

var (
	defaultManager *RoomManager
	once           sync.Once
)

// InitRoomManager 以给定参数初始化单例（仅首次调用生效）
func InitRoomManager(cfg RoomConfig) *RoomManager {
	once.Do(func() {
		defaultManager = NewRoomManager(cfg)
	})
	return defaultManager
}

// GetRoomManager 单例房间管理器
func GetRoomManager() *RoomManager {
	return InitRoomManager(DefaultRoomConfig())
}

// NewRoomManager 独立的管理器（测试或多实例）
func NewRoomManager(cfg RoomConfig) *RoomManager {
	return &RoomManager{rooms: make(map[string]*Room), cfg: cfg}
}

// GetOrCreateRoom 获取或创建房间，并确保开始 Tick
func (m *RoomManager) GetOrCreateRoom(id string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		r = NewRoom(id, m.cfg)
		m.rooms[id] = r
		r.StartTicker()
		Log.Infof("room created: %s", id)
	}
	return r
}

// GetRoom 只查询不创建
func (m *RoomManager) GetRoom(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// CreateRoom 以随机 uuid 为房间号新建房间
func (m *RoomManager) CreateRoom() *Room {
	return m.GetOrCreateRoom(uuid.NewString())
}

// ListRooms 返回所有房间，按 id 排序
func (m *RoomManager) ListRooms() []RoomInfo {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	out := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomInfo{ID: r.ID, Players: r.NumPlayers(), Tick: r.TickSeq()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Shutdown 停止所有房间
func (m *RoomManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rooms {
		r.Stop()
		delete(m.rooms, id)
	}
}
