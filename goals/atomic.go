package goals

import "fmt"

func describeBuyArmy(g Goal) string {
	return fmt.Sprintf("BuyArmy town=%d %dx%s cost=%d", g.Town, g.Amount, g.Creature, g.Cost)
}

func describeRecruitHero(g Goal) string {
	return fmt.Sprintf("RecruitHero hero=%d town=%d turn=%d cost=%d", g.Hero, g.Town, g.Turn, g.Cost)
}

func describeMoveReinforcements(g Goal) string {
	return fmt.Sprintf("MoveReinforcements hero=%d town=%d turn=%d", g.Hero, g.Town, g.Turn)
}

func describeBuildDefences(g Goal) string {
	return fmt.Sprintf("BuildDefences town=%d level=%d cost=%d", g.Town, g.Amount, g.Cost)
}
