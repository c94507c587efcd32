package goals

// decomposeBuyArmyBehavior spends gold above the reserve on troops, town by
// town in id order.
func decomposeBuyArmyBehavior(gc *GameContext, _ Goal) Vec {
	budget := gc.gold() - gc.GoldReserve
	var out Vec
	for _, town := range gc.State.OwnedTowns() {
		if budget <= 0 {
			break
		}
		bought := purchase(town, budget, 0, TierEconomy, 0)
		for _, g := range bought {
			budget -= g.Cost
		}
		out = append(out, bought...)
	}
	return out
}
