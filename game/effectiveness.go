package game

// Effectiveness 攻击方属性对防守方属性的伤害倍率
type Effectiveness int

const (
	Neutral Effectiveness = iota
	Strong                // ×2
	Weak                  // ÷2 向上取整
)

// 每种属性克制一种、被一种克制，两个三角循环：草/火/水、格斗/超能/恶
var effectivenessTable = map[Type]struct{ strongTo, weakTo Type }{
	Grass:    {strongTo: Water, weakTo: Fire},
	Fire:     {strongTo: Grass, weakTo: Water},
	Water:    {strongTo: Fire, weakTo: Grass},
	Fighting: {strongTo: Dark, weakTo: Psychic},
	Psychic:  {strongTo: Fighting, weakTo: Dark},
	Dark:     {strongTo: Psychic, weakTo: Fighting},
}

// EffectivenessOf 查表
func EffectivenessOf(attacker, defender Type) Effectiveness {
	e, ok := effectivenessTable[attacker]
	if !ok {
		return Neutral
	}
	switch defender {
	case e.strongTo:
		return Strong
	case e.weakTo:
		return Weak
	default:
		return Neutral
	}
}

// Apply 按倍率调整原始伤害
func (e Effectiveness) Apply(raw int) int {
	switch e {
	case Strong:
		return raw * 2
	case Weak:
		return (raw + 1) / 2
	default:
		return raw
	}
}

func (e Effectiveness) String() string {
	switch e {
	case Strong:
		return "strong"
	case Weak:
		return "weak"
	default:
		return "neutral"
	}
}
