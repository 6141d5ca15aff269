package lineup

import (
	"sort"

	"fieldday/internal/domain"
)

// fieldOrder is the order the non-battery positions are filled in.
var fieldOrder = []domain.Position{
	domain.FirstBase, domain.SecondBase, domain.Shortstop, domain.ThirdBase,
	domain.LeftField, domain.CenterField, domain.RightField,
}

// fillField assigns the seven field positions. Each slot goes to the free player with the
// least time so far in that slot's category (infield or outfield). Ties keep roster order.
// stats must not include the current inning yet.
func fillField(players []domain.Player, st *inningState, stats *Stats, slots map[domain.Position]domain.Player) {
	for _, pos := range fieldOrder {
		var candidates []domain.Player
		for _, p := range players {
			if st.free(p) && !p.Excludes(pos) {
				candidates = append(candidates, p)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		category := pos.Category()
		sort.SliceStable(candidates, func(i, j int) bool {
			return stats.categoryCount(candidates[i].ID, category) < stats.categoryCount(candidates[j].ID, category)
		})
		chosen := candidates[0]
		slots[pos] = chosen
		st.used[chosen.ID] = true
	}
}
