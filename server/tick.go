package server

import "time"

const (
	// TicksPerSecond 默认世界推进频率（10 TPS）
	TicksPerSecond = 10
)

// StartTicker 启动房间的 Tick 循环（单线程推进世界）
func (r *Room) StartTicker() {
	if r.tickerStarted {
		return
	}
	r.tickerStarted = true
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(r.tickHz))
		defer ticker.Stop()
		for {
			select {
			case <-r.quit:
				return
			case <-ticker.C:
				r.Step()
			}
		}
	}()
}

// Step 执行一个完整 Tick：处理输入 → 更新世界 → 广播结果
func (r *Room) Step() {
	start := time.Now()
	r.mu.Lock()
	r.tickSeq++
	r.ProcessInputs()
	r.UpdateWorld()
	r.Broadcast()
	r.mu.Unlock()
	r.metrics.AddTick(time.Since(start).Nanoseconds())
}
