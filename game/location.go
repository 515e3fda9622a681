package game

import (
	"errors"
	"math/rand"
)

// ErrFieldSaturated 采样窗口内没有空位
var ErrFieldSaturated = errors.New("field saturated: no unoccupied cell")

// FieldWindow 全场采样窗口 [0,width) × [0,height)
func FieldWindow(s *GameState) Rect {
	return Rect{X: 0, Y: 0, W: s.FieldSize.Width, H: s.FieldSize.Height}
}

// clip 将窗口裁剪到场地闭区间内
func (r Rect) clip(size Size) Rect {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.X+r.W, size.Width+1), min(r.Y+r.H, size.Height+1)
	return Rect{X: x0, Y: y0, W: max(x1-x0, 0), H: max(y1-y0, 0)}
}

// FindUnoccupiedLocation 在窗口内随机寻找无玩家、无药水的格子。
// 随机尝试 attempts 次失败后退化为逐格扫描，窗口全满时返回 ErrFieldSaturated。
func FindUnoccupiedLocation(s *GameState, win Rect, rng *rand.Rand, attempts int) (Point, error) {
	if win.W <= 0 || win.H <= 0 {
		return Point{}, ErrFieldSaturated
	}
	occupied := occupancy(s)
	for i := 0; i < attempts; i++ {
		p := Point{X: win.X + rng.Intn(win.W), Y: win.Y + rng.Intn(win.H)}
		if !occupied[p] {
			return p, nil
		}
	}

	free := make([]Point, 0, 16)
	for y := win.Y; y < win.Y+win.H; y++ {
		for x := win.X; x < win.X+win.W; x++ {
			if p := (Point{X: x, Y: y}); !occupied[p] {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return Point{}, ErrFieldSaturated
	}
	return free[rng.Intn(len(free))], nil
}

func occupancy(s *GameState) map[Point]bool {
	occupied := make(map[Point]bool, len(s.Players)+len(s.Potions))
	for _, p := range s.Players {
		occupied[Point{X: p.X, Y: p.Y}] = true
	}
	for _, c := range s.Potions {
		occupied[Point{X: c.X, Y: c.Y}] = true
	}
	return occupied
}
