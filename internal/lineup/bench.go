package lineup

import (
	"math/rand/v2"

	"fieldday/internal/domain"
)

// BenchSet is the set of player ids sitting out one inning.
type BenchSet map[string]struct{}

func (b BenchSet) Has(id string) bool {
	_, ok := b[id]
	return ok
}

func (b BenchSet) Add(id string)    { b[id] = struct{}{} }
func (b BenchSet) Remove(id string) { delete(b, id) }

func (b BenchSet) Clone() BenchSet {
	out := make(BenchSet, len(b))
	for id := range b {
		out[id] = struct{}{}
	}
	return out
}

// Members returns the benched players in roster order.
func (b BenchSet) Members(players []domain.Player) []domain.Player {
	var out []domain.Player
	for _, p := range players {
		if b.Has(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// BenchPlan holds one BenchSet per inning, index 0 being the first inning.
type BenchPlan []BenchSet

// Counts returns how many innings each player is scheduled to sit.
func (bp BenchPlan) Counts() map[string]int {
	out := map[string]int{}
	for _, set := range bp {
		for id := range set {
			out[id]++
		}
	}
	return out
}

// PlanBench schedules who sits out each inning when more than FieldSlots players are
// available. Players never benched go first, then players benched once, both in roster
// order. Only when both tiers are exhausted are players benched twice or more reused,
// in shuffled order.
func PlanBench(players []domain.Player, innings int, rng *rand.Rand) BenchPlan {
	return planBench(players, innings, nil, rng)
}

// planBench is PlanBench starting from prior bench counts, so the tail of a game can be
// rescheduled after the bench actually sat differs from the plan.
func planBench(players []domain.Player, innings int, prior map[string]int, rng *rand.Rand) BenchPlan {
	if innings < 0 {
		innings = 0
	}
	plan := make(BenchPlan, innings)
	quota := len(players) - FieldSlots
	if quota <= 0 {
		for i := range plan {
			plan[i] = BenchSet{}
		}
		return plan
	}

	counts := make(map[string]int, len(players))
	for _, p := range players {
		counts[p.ID] = prior[p.ID]
	}
	for i := range plan {
		var never, once, twice []domain.Player
		for _, p := range players {
			switch counts[p.ID] {
			case 0:
				never = append(never, p)
			case 1:
				once = append(once, p)
			default:
				twice = append(twice, p)
			}
		}
		if len(never)+len(once) < quota {
			rng.Shuffle(len(twice), func(a, b int) { twice[a], twice[b] = twice[b], twice[a] })
		}

		set := BenchSet{}
		for _, tier := range [][]domain.Player{never, once, twice} {
			for _, p := range tier {
				if len(set) == quota {
					break
				}
				set.Add(p.ID)
				counts[p.ID]++
			}
		}
		plan[i] = set
	}
	return plan
}
