package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// Type 属性类别（六种，石头剪刀布式克制）
type Type int

const (
	Grass Type = iota
	Fire
	Water
	Psychic
	Fighting
	Dark
)

var typeNames = [...]string{"grass", "fire", "water", "psychic", "fighting", "dark"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// Species 图鉴条目（只读参考数据，玩家只持有指针）
type Species struct {
	Name          string
	MaxHealthBase int
	AttackPower   int
	SpriteID      int
	L1SpriteID    int // Lv.10 起
	L2SpriteID    int // Lv.20 起
	Type          Type
}

// SpriteFor 按等级选择进化形态
func (s *Species) SpriteFor(level int) int {
	switch {
	case level >= 20:
		return s.L2SpriteID
	case level >= 10:
		return s.L1SpriteID
	default:
		return s.SpriteID
	}
}

// ErrUnknownSpecies 图鉴中不存在该名称
var ErrUnknownSpecies = errors.New("unknown species")

var catalog = [...]Species{
	{Name: "Bulbasaur", MaxHealthBase: 6, AttackPower: 2, SpriteID: 1, L1SpriteID: 2, L2SpriteID: 3, Type: Grass},
	{Name: "Charmander", MaxHealthBase: 3, AttackPower: 5, SpriteID: 4, L1SpriteID: 5, L2SpriteID: 6, Type: Fire},
	{Name: "Squirtle", MaxHealthBase: 4, AttackPower: 4, SpriteID: 7, L1SpriteID: 8, L2SpriteID: 9, Type: Water},
	{Name: "Abra", MaxHealthBase: 2, AttackPower: 6, SpriteID: 63, L1SpriteID: 64, L2SpriteID: 65, Type: Psychic},
	{Name: "Machop", MaxHealthBase: 3, AttackPower: 5, SpriteID: 66, L1SpriteID: 67, L2SpriteID: 68, Type: Fighting},
	{Name: "Deinos", MaxHealthBase: 4, AttackPower: 4, SpriteID: 633, L1SpriteID: 634, L2SpriteID: 635, Type: Dark},
}

// Catalog 返回全部图鉴条目的共享指针
func Catalog() []*Species {
	out := make([]*Species, len(catalog))
	for i := range catalog {
		out[i] = &catalog[i]
	}
	return out
}

// LookupSpecies 按名称（不区分大小写）查找
func LookupSpecies(name string) (*Species, error) {
	for i := range catalog {
		if strings.EqualFold(catalog[i].Name, name) {
			return &catalog[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSpecies, name)
}

func randomSpecies(rng *rand.Rand) *Species {
	return &catalog[rng.Intn(len(catalog))]
}
