package lineup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanBenchEmptyWhenNineOrFewer(t *testing.T) {
	for _, n := range []int{0, 5, 9} {
		plan := PlanBench(roster(n), 6, newRand(1))
		require.Len(t, plan, 6)
		for _, set := range plan {
			assert.Empty(t, set)
		}
	}
}

func TestPlanBenchSetsAreIndependent(t *testing.T) {
	plan := PlanBench(roster(9), 3, newRand(1))
	plan[0].Add("p1")
	assert.False(t, plan[1].Has("p1"))
}

func TestPlanBenchDrainsNeverBenchedInRosterOrder(t *testing.T) {
	plan := PlanBench(roster(12), 6, newRand(7))

	assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, keys(plan[0]))
	assert.ElementsMatch(t, []string{"p4", "p5", "p6"}, keys(plan[1]))
	assert.ElementsMatch(t, []string{"p7", "p8", "p9"}, keys(plan[2]))
	assert.ElementsMatch(t, []string{"p10", "p11", "p12"}, keys(plan[3]))
	assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, keys(plan[4]))
	assert.ElementsMatch(t, []string{"p4", "p5", "p6"}, keys(plan[5]))
}

func TestPlanBenchTwelvePlayersSixInnings(t *testing.T) {
	plan := PlanBench(roster(12), 6, newRand(3))
	for _, set := range plan {
		assert.Len(t, set, 3)
	}
	counts := plan.Counts()
	twice := 0
	for _, p := range roster(12) {
		c := counts[p.ID]
		assert.GreaterOrEqual(t, c, 1, p.ID)
		assert.LessOrEqual(t, c, 2, p.ID)
		if c == 2 {
			twice++
		}
	}
	assert.Equal(t, 6, twice)
}

// A player moves to their second (or third) bench inning only in an inning where
// every player with fewer bench innings is also sitting.
func TestPlanBenchTieredFairness(t *testing.T) {
	for n := 10; n <= 16; n++ {
		for innings := 1; innings <= 12; innings++ {
			t.Run(fmt.Sprintf("%d_players_%d_innings", n, innings), func(t *testing.T) {
				players := roster(n)
				plan := PlanBench(players, innings, newRand(uint64(n*100+innings)))
				counts := map[string]int{}
				for i, set := range plan {
					require.Len(t, set, n-FieldSlots, "inning %d", i+1)
					for id := range set {
						before := counts[id]
						if before > 2 {
							continue
						}
						for _, other := range players {
							if counts[other.ID] < before && !set.Has(other.ID) {
								t.Fatalf("inning %d: %s benched for time %d while %s has %d",
									i+1, id, before+1, other.ID, counts[other.ID])
							}
						}
					}
					for id := range set {
						counts[id]++
					}
				}
			})
		}
	}
}

func TestPlanBenchTierThreeUsesRandomSource(t *testing.T) {
	a := PlanBench(roster(15), 9, newRand(11))
	b := PlanBench(roster(15), 9, newRand(11))
	assert.Equal(t, a, b)
}

func TestPlanBenchStartsFromPriorCounts(t *testing.T) {
	prior := map[string]int{"p1": 1, "p2": 1, "p4": 2}
	plan := planBench(roster(11), 3, prior, newRand(5))

	assert.ElementsMatch(t, []string{"p3", "p5"}, keys(plan[0]))
	assert.ElementsMatch(t, []string{"p6", "p7"}, keys(plan[1]))
	assert.ElementsMatch(t, []string{"p8", "p9"}, keys(plan[2]))
	for _, set := range plan {
		assert.False(t, set.Has("p4"))
	}
}

func keys(set BenchSet) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
