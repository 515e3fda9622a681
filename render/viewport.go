// Package render 以某个玩家为中心把场地绘制成图片（浏览器画布的服务端版本）
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"pokearena/game"
)

// ErrUnknownPlayer 观察者不在场上
var ErrUnknownPlayer = errors.New("viewer not in arena")

var (
	Background  = color.RGBA{255, 255, 255, 255}
	GridColor   = color.RGBA{211, 211, 211, 255}
	PotionColor = color.RGBA{255, 215, 0, 255}
	SelfColor   = color.RGBA{0, 0, 255, 255}
	OtherColor  = color.RGBA{255, 0, 0, 255}
	HealthColor = color.RGBA{46, 204, 113, 255}
	LabelColor  = color.RGBA{0, 0, 0, 255}
)

// Options 画布尺寸与缩放
type Options struct {
	Width     int
	Height    int
	CellSize  float64 // 每格像素
	GridEvery int     // 每 N 格一条网格线
	SpriteDir string  // 可选的精灵图目录，文件名 <spriteId>.png
}

func DefaultOptions() Options {
	return Options{Width: 400, Height: 400, CellSize: 10, GridEvery: 5}
}

// Viewport 渲染 playerID 周围的场地，观察者始终位于画布中心
func Viewport(s *game.GameState, playerID string, opts Options) (image.Image, error) {
	me := s.FindPlayer(playerID)
	if me == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas %dx%d", opts.Width, opts.Height)
	}

	v := &view{
		dc:   gg.NewContext(opts.Width, opts.Height),
		opts: opts,
		cx:   float64(opts.Width) / 2,
		cy:   float64(opts.Height) / 2,
		me:   me,
	}
	v.dc.SetFontFace(basicfont.Face7x13)
	v.dc.SetColor(Background)
	v.dc.Clear()

	v.drawGrid(s.FieldSize)
	for _, c := range s.Potions {
		if x, y, ok := v.project(c.X, c.Y); ok {
			v.dc.SetColor(PotionColor)
			v.dc.DrawCircle(x, y, opts.CellSize*0.4)
			v.dc.Fill()
		}
	}
	for _, p := range s.Players {
		if p == me {
			continue
		}
		if x, y, ok := v.project(p.X, p.Y); ok {
			v.drawPlayer(p, x, y, OtherColor)
		}
	}
	v.drawPlayer(me, v.cx, v.cy, SelfColor)
	return v.dc.Image(), nil
}

type view struct {
	dc     *gg.Context
	opts   Options
	cx, cy float64
	me     *game.Player
}

// project 场地坐标转画布坐标，超出画布时 ok 为 false
func (v *view) project(wx, wy int) (float64, float64, bool) {
	x := v.cx + float64(wx-v.me.X)*v.opts.CellSize
	y := v.cy + float64(wy-v.me.Y)*v.opts.CellSize
	if x < 0 || x > float64(v.opts.Width) || y < 0 || y > float64(v.opts.Height) {
		return 0, 0, false
	}
	return x, y, true
}

func (v *view) drawGrid(field game.Size) {
	if v.opts.GridEvery <= 0 {
		return
	}
	v.dc.SetColor(GridColor)
	v.dc.SetLineWidth(1)
	for wx := 0; wx <= field.Width; wx += v.opts.GridEvery {
		x := v.cx + float64(wx-v.me.X)*v.opts.CellSize
		if x >= 0 && x <= float64(v.opts.Width) {
			v.dc.DrawLine(x, 0, x, float64(v.opts.Height))
		}
	}
	for wy := 0; wy <= field.Height; wy += v.opts.GridEvery {
		y := v.cy + float64(wy-v.me.Y)*v.opts.CellSize
		if y >= 0 && y <= float64(v.opts.Height) {
			v.dc.DrawLine(0, y, float64(v.opts.Width), y)
		}
	}
	v.dc.Stroke()
}

func (v *view) drawPlayer(p *game.Player, x, y float64, fallback color.Color) {
	r := v.opts.CellSize * 0.45
	if sprite := loadSprite(v.opts.SpriteDir, p.SpriteID(), int(v.opts.CellSize*3)); sprite != nil {
		v.dc.DrawImageAnchored(sprite, int(x), int(y), 0.5, 0.5)
		r = float64(sprite.Bounds().Dy()) / 2
	} else {
		v.dc.SetColor(fallback)
		v.dc.DrawCircle(x, y, r)
		v.dc.Fill()
	}

	v.dc.SetColor(LabelColor)
	v.dc.DrawStringAnchored(p.Name, x, y-r-2, 0.5, 0)

	// 血条
	w, h := v.opts.CellSize*1.6, 2.0
	frac := float64(p.Health) / float64(max(p.MaxHealth(), 1))
	frac = min(max(frac, 0), 1)
	v.dc.SetColor(LabelColor)
	v.dc.DrawRectangle(x-w/2, y+r+2, w, h)
	v.dc.Stroke()
	v.dc.SetColor(HealthColor)
	v.dc.DrawRectangle(x-w/2, y+r+2, w*frac, h)
	v.dc.Fill()
}

var (
	spriteMu    sync.RWMutex
	spriteCache = make(map[string]image.Image)
)

// loadSprite 读取 <dir>/<id>.png 并缓存缩放后的结果，文件不存在返回 nil
func loadSprite(dir string, id, size int) image.Image {
	if dir == "" || size <= 0 {
		return nil
	}
	path := filepath.Join(dir, strconv.Itoa(id)+".png")
	key := path + "@" + strconv.Itoa(size)

	spriteMu.RLock()
	img, ok := spriteCache[key]
	spriteMu.RUnlock()
	if ok {
		return img
	}

	if _, err := os.Stat(path); err == nil {
		if src, err := imaging.Open(path); err == nil {
			img = imaging.Fit(src, size, size, imaging.Lanczos)
		}
	}
	spriteMu.Lock()
	spriteCache[key] = img
	spriteMu.Unlock()
	return img
}

// EncodePNG 编码为 PNG，scale != 1 时先缩放
func EncodePNG(img image.Image, scale float64) ([]byte, error) {
	if scale > 0 && scale != 1 {
		w := int(float64(img.Bounds().Dx()) * scale)
		if w < 1 {
			w = 1
		}
		img = imaging.Resize(img, w, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
