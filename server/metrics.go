package server

import (
	"sync/atomic"

	"pokearena/game"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
type RoomMetrics struct {
	TickCount         int64 // 统计的 Tick 次数
	InputsAccepted    int64 // 被接受的输入数
	RateLimited       int64 // 同一 Tick 内被后到输入覆盖的次数
	UnknownIgnored    int64 // 来自不在房间内玩家的输入
	ChanFullDiscarded int64 // 因通道满被丢弃的输入数
	Fights            int64
	Eliminations      int64
	PotionsPicked     int64
	LevelUps          int64
	SaturatedTicks    int64 // 补给因场地饱和未完成的 Tick 数
	TotalTickNs       int64 // Tick 累计耗时（纳秒）
}

func (m *RoomMetrics) IncAccepted()          { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *RoomMetrics) IncRateLimited()       { atomic.AddInt64(&m.RateLimited, 1) }
func (m *RoomMetrics) IncUnknownIgnored()    { atomic.AddInt64(&m.UnknownIgnored, 1) }
func (m *RoomMetrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }
func (m *RoomMetrics) IncSaturated()         { atomic.AddInt64(&m.SaturatedTicks, 1) }
func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// AddReport 累加一个 Tick 的战斗与拾取统计
func (m *RoomMetrics) AddReport(rep game.Report) {
	atomic.AddInt64(&m.Fights, int64(rep.Fights))
	atomic.AddInt64(&m.Eliminations, int64(len(rep.Eliminations)))
	atomic.AddInt64(&m.PotionsPicked, int64(rep.Pickups))
	atomic.AddInt64(&m.LevelUps, int64(rep.LevelUps))
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":          tick,
		"inputs_accepted":     atomic.LoadInt64(&m.InputsAccepted),
		"rate_limited":        atomic.LoadInt64(&m.RateLimited),
		"unknown_ignored":     atomic.LoadInt64(&m.UnknownIgnored),
		"chan_full_discarded": atomic.LoadInt64(&m.ChanFullDiscarded),
		"fights":              atomic.LoadInt64(&m.Fights),
		"eliminations":        atomic.LoadInt64(&m.Eliminations),
		"potions_picked":      atomic.LoadInt64(&m.PotionsPicked),
		"level_ups":           atomic.LoadInt64(&m.LevelUps),
		"saturated_ticks":     atomic.LoadInt64(&m.SaturatedTicks),
		"avg_tick_ms":         avgMs,
	}
}
