package lineup

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldday/internal/domain"
)

// checkLineup asserts the rules every generated lineup must satisfy.
func checkLineup(t *testing.T, players []domain.Player, game domain.Game, res Result) {
	t.Helper()
	available := FilterAvailable(players, game)
	byID := map[string]domain.Player{}
	for _, p := range available {
		byID[p.ID] = p
	}
	benchSize := len(available) - FieldSlots
	if benchSize < 0 {
		benchSize = 0
	}

	require.Len(t, res.Lineup.Innings, game.Innings)
	for i, inning := range res.Lineup.Innings {
		assert.Equal(t, i+1, inning.Inning)
		require.Len(t, inning.Assignments, len(domain.Positions))

		seenPlayer := map[string]bool{}
		for j, a := range inning.Assignments {
			assert.Equal(t, domain.Positions[j], a.Position)
			if a.Player == nil {
				continue
			}
			p, ok := byID[a.Player.ID]
			require.True(t, ok, "inning %d: %s is not available", inning.Inning, a.Player.ID)
			assert.False(t, p.Excludes(a.Position), "inning %d: %s excluded from %s", inning.Inning, p.ID, a.Position)
			assert.False(t, seenPlayer[p.ID], "inning %d: %s assigned twice", inning.Inning, p.ID)
			seenPlayer[p.ID] = true
		}

		assert.Len(t, inning.Bench, benchSize, "inning %d bench", inning.Inning)
		for _, b := range inning.Bench {
			assert.False(t, seenPlayer[b.ID], "inning %d: benched %s also assigned", inning.Inning, b.ID)
		}
	}
	assert.Equal(t, res.Stats, ComputeStats(res.Lineup, available))
	assert.Equal(t, ids(available), res.Lineup.PlayerIDs)
	checkBenchFairness(t, available, res)
}

// checkBenchFairness asserts, after every inning, that nobody has sat twice while
// someone has not sat at all, and nobody three times while someone has sat only once.
// Promoted pitchers are left out since they can be kept off the bench.
func checkBenchFairness(t *testing.T, available []domain.Player, res Result) {
	t.Helper()
	exempt := map[string]bool{}
	for _, id := range res.PromotedPitchers {
		exempt[id] = true
	}
	counts := map[string]int{}
	for _, inning := range res.Lineup.Innings {
		for _, b := range inning.Bench {
			counts[b.ID]++
		}
		low, high := -1, 0
		for _, p := range available {
			if exempt[p.ID] {
				continue
			}
			n := counts[p.ID]
			if low < 0 || n < low {
				low = n
			}
			if n > high {
				high = n
			}
		}
		if high >= 2 {
			assert.GreaterOrEqual(t, low, 1, "inning %d: bench counts %v", inning.Inning, counts)
		}
		if high >= 3 {
			assert.GreaterOrEqual(t, low, 2, "inning %d: bench counts %v", inning.Inning, counts)
		}
	}
}

func TestScenarioNinePlayersNoBench(t *testing.T) {
	players := withCatchers(withPitchers(roster(9), 0, 1), 2)
	game := gameFor(players, 6)

	res := NewGenerator(1, nil).Generate(players, game, nil)
	checkLineup(t, players, game, res)

	for _, inning := range res.Lineup.Innings {
		assert.Empty(t, inning.Unfilled(), "inning %d", inning.Inning)
		assert.Empty(t, inning.Bench)
	}
	for _, st := range res.Stats {
		assert.Equal(t, 6, st.TotalInnings, st.PlayerID)
	}
}

func TestScenarioTwelvePlayersBenchRotation(t *testing.T) {
	players := roster(12)
	for i := range players {
		players[i].IsPitcher = true
	}
	game := gameFor(players, 6)

	res := NewGenerator(2, nil).Generate(players, game, nil)
	checkLineup(t, players, game, res)
	assert.Zero(t, res.BenchOverrides)

	benched := map[string]int{}
	for _, inning := range res.Lineup.Innings {
		assert.Len(t, inning.Bench, 3)
		assert.Len(t, inning.Filled(), 9)
		for _, b := range inning.Bench {
			benched[b.ID]++
		}
	}
	twice := 0
	for _, p := range players {
		assert.GreaterOrEqual(t, benched[p.ID], 1, p.ID)
		assert.LessOrEqual(t, benched[p.ID], 2, p.ID)
		if benched[p.ID] == 2 {
			twice++
		}
	}
	assert.Equal(t, 6, twice)
}

func TestScenarioExcludedPitcherNeverPitches(t *testing.T) {
	players := withPitchers(roster(10), 0, 5)
	players[0].ExcludedPositions = []domain.Position{domain.Pitcher}
	game := gameFor(players, 6)

	for seed := uint64(0); seed < 10; seed++ {
		res := NewGenerator(seed, nil).Generate(players, game, nil)
		checkLineup(t, players, game, res)
		for _, inning := range res.Lineup.Innings {
			p, ok := inning.PlayerAt(domain.Pitcher)
			if ok {
				assert.NotEqual(t, "p1", p.ID)
			}
		}
	}
}

func TestScenarioNoPitchers(t *testing.T) {
	players := roster(10)
	game := gameFor(players, 5)

	res := NewGenerator(3, nil).Generate(players, game, nil)
	checkLineup(t, players, game, res)
	for _, inning := range res.Lineup.Innings {
		assert.Equal(t, []domain.Position{domain.Pitcher}, inning.Unfilled(), "inning %d", inning.Inning)
	}
	for _, st := range res.Stats {
		assert.Zero(t, st.PitchingInnings)
	}
}

func TestBenchedPitcherPromotion(t *testing.T) {
	// p1 is the only pitcher and keeps being scheduled to sit.
	players := withPitchers(roster(10), 0)
	game := gameFor(players, 3)

	res := NewGenerator(4, nil).Generate(players, game, nil)
	checkLineup(t, players, game, res)
	assert.Equal(t, 3, res.BenchOverrides)
	assert.Equal(t, []string{"p1"}, res.PromotedPitchers)

	var bench []string
	for _, inning := range res.Lineup.Innings {
		p, ok := inning.PlayerAt(domain.Pitcher)
		require.True(t, ok)
		assert.Equal(t, "p1", p.ID)
		require.Len(t, inning.Bench, 1)
		bench = append(bench, inning.Bench[0].ID)
	}
	// Backfills skip players the rest of the plan already sits.
	assert.Equal(t, []string{"p4", "p3", "p2"}, bench)
}

func TestPromotedPitcherKeepsBenchRotationFair(t *testing.T) {
	players := withCatchers(withPitchers(roster(10), 0), 3)
	game := gameFor(players, 12)

	for seed := uint64(0); seed < 10; seed++ {
		res := NewGenerator(seed, nil).Generate(players, game, nil)
		checkLineup(t, players, game, res)
		assert.Equal(t, []string{"p1"}, res.PromotedPitchers)

		counts := map[string]int{}
		for _, inning := range res.Lineup.Innings {
			for _, b := range inning.Bench {
				counts[b.ID]++
			}
		}
		assert.Zero(t, counts["p1"])
		for _, p := range players[1:] {
			assert.GreaterOrEqual(t, counts[p.ID], 1, p.ID)
			assert.LessOrEqual(t, counts[p.ID], 2, p.ID)
		}
	}
}

func TestPitchingRotatesBeforeRepeating(t *testing.T) {
	players := withPitchers(roster(9), 0, 1, 2)
	game := gameFor(players, 6)

	res := NewGenerator(9, nil).Generate(players, game, nil)
	checkLineup(t, players, game, res)
	for _, st := range res.Stats {
		if st.PlayerID == "p1" || st.PlayerID == "p2" || st.PlayerID == "p3" {
			assert.Equal(t, 2, st.PitchingInnings, st.PlayerID)
		}
	}
}

func TestSmallRosterLeavesGaps(t *testing.T) {
	players := withPitchers(roster(6), 0)
	game := gameFor(players, 4)

	res := NewGenerator(5, nil).Generate(players, game, nil)
	checkLineup(t, players, game, res)
	for _, inning := range res.Lineup.Innings {
		assert.Len(t, inning.Filled(), 6)
		assert.Len(t, inning.Unfilled(), 3)
	}
}

func TestEmptyAvailability(t *testing.T) {
	players := roster(5)
	game := domain.Game{ID: "g", Innings: 3}

	res := NewGenerator(1, nil).Generate(players, game, nil)
	require.Len(t, res.Lineup.Innings, 3)
	for _, inning := range res.Lineup.Innings {
		assert.Empty(t, inning.Filled())
	}
	assert.Empty(t, res.Stats)
}

func TestSameSeedSameLineup(t *testing.T) {
	players := withCatchers(withPitchers(roster(14), 0, 2, 4, 6), 1, 3)
	game := gameFor(players, 9)

	a := NewGenerator(77, nil).Generate(players, game, nil)
	b := NewGenerator(77, nil).Generate(players, game, nil)
	assert.Equal(t, a, b)
	assert.Equal(t, uint64(77), a.Lineup.Seed)
	assert.Equal(t, "g1", a.Lineup.GameID)
}

func TestGeneratorWithoutRandUsesSeed(t *testing.T) {
	players := withPitchers(roster(11), 0, 1, 2, 3)
	game := gameFor(players, 6)

	a := Generator{Seed: 12}.Generate(players, game, nil)
	b := NewGenerator(12, nil).Generate(players, game, nil)
	assert.Equal(t, a.Lineup, b.Lineup)
}

func TestRandomRostersKeepInvariants(t *testing.T) {
	src := rand.New(rand.NewPCG(2024, 7))
	for n := 0; n <= 16; n++ {
		for trial := 0; trial < 8; trial++ {
			players := randomRoster(src, n)
			innings := 1 + src.IntN(9)
			game := gameFor(players, innings)
			seed := src.Uint64()
			t.Run(fmt.Sprintf("n%d_trial%d", n, trial), func(t *testing.T) {
				res := NewGenerator(seed, nil).Generate(players, game, nil)
				checkLineup(t, players, game, res)
			})
		}
	}
}

func randomRoster(src *rand.Rand, n int) []domain.Player {
	players := roster(n)
	for i := range players {
		players[i].IsPitcher = src.IntN(3) == 0
		players[i].IsCatcher = src.IntN(4) == 0
		for _, pos := range domain.Positions {
			if src.IntN(6) == 0 {
				players[i].ExcludedPositions = append(players[i].ExcludedPositions, pos)
			}
		}
	}
	return players
}
