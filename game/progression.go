package game

// XPUp 增加经验并处理升级：xp 超过 level+1 即升一级，扣除新等级值并回满血。
// 一次可连升多级，无等级上限。返回升级次数。
func XPUp(p *Player, amount int) int {
	gained := 0
	p.XP += amount
	for p.XP > p.Level+1 {
		p.Level++
		p.XP -= p.Level
		p.Health = p.MaxHealth()
		gained++
	}
	return gained
}

// Heal 回复生命，不超过有效最大生命值
func Heal(p *Player, amount int) {
	p.Health = min(p.MaxHealth(), p.Health+amount)
}
