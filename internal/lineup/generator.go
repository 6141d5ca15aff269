package lineup

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"fieldday/internal/domain"
	"fieldday/internal/logging"
)

// Generator produces lineups. A Generator owns its random source and must not be
// shared between goroutines; build one per call with NewGenerator.
type Generator struct {
	Rand   *rand.Rand
	Seed   uint64
	Logger logrus.FieldLogger
}

// Result is the output of one generation run.
type Result struct {
	Lineup domain.Lineup
	// Stats is the accumulator built during generation, one row per available player.
	Stats []domain.PlayerLineupStats
	// BenchOverrides counts innings where a benched pitcher was promoted.
	BenchOverrides int
	// PromotedPitchers lists, in order of first promotion, pitchers taken off the bench
	// to pitch. They may end the game with fewer bench innings than everyone else.
	PromotedPitchers []string
	// HintsAcknowledged counts pairing hints seen with both players free.
	HintsAcknowledged int
}

// MaxSeed is the largest seed accepted from callers. Seeds stay within the integers a
// JSON number can carry exactly.
const MaxSeed uint64 = 1<<53 - 1

// NewGenerator returns a Generator whose random choices are fully determined by seed.
func NewGenerator(seed uint64, logger logrus.FieldLogger) Generator {
	return Generator{
		Rand:   newRand(seed),
		Seed:   seed,
		Logger: logger,
	}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate builds the full lineup for game. Slots nobody can fill are left empty;
// it always returns game.Innings innings (none when innings is not positive).
func (g Generator) Generate(roster []domain.Player, game domain.Game, hints []domain.PlayerCombination) Result {
	rng := g.Rand
	if rng == nil {
		rng = newRand(g.Seed)
	}
	log := logging.OrDiscard(g.Logger).WithField(logging.FieldGame, game.ID)

	players := FilterAvailable(roster, game)
	stats := NewStats(players)
	appearances := map[string]int{}
	plan := PlanBench(players, game.Innings, rng)
	benched := map[string]int{}
	promoted := map[string]bool{}

	res := Result{Lineup: domain.Lineup{GameID: game.ID, Seed: g.Seed, PlayerIDs: ids(players)}}
	for i, scheduled := range plan {
		inning := i + 1
		st := &inningState{used: map[string]bool{}, bench: scheduled.Clone()}
		slots := map[domain.Position]domain.Player{}

		if p, ok := selectPitcher(players, appearances, st, rng); ok {
			if resolveBenchConflict(p, players, st, benched, plan[i+1:].Counts()) {
				res.BenchOverrides++
				if !promoted[p.ID] {
					promoted[p.ID] = true
					res.PromotedPitchers = append(res.PromotedPitchers, p.ID)
				}
				log.WithFields(logrus.Fields{logging.FieldInning: inning, logging.FieldPlayer: p.ID}).
					Info("benched pitcher promoted; bench backfilled")
				replanRest(plan, i, players, benched, st.bench, rng)
			}
			slots[domain.Pitcher] = p
			st.used[p.ID] = true
			appearances[p.ID]++
		}
		if c, ok := selectCatcher(players, st, rng); ok {
			slots[domain.Catcher] = c
			st.used[c.ID] = true
		}

		res.HintsAcknowledged += applyPairingHints(log, inning, hints, st.remaining(players))
		fillField(players, st, stats, slots)

		il := buildInning(inning, slots, st.bench.Members(players))
		for id := range st.bench {
			benched[id]++
		}
		stats.Update(il)
		res.Lineup.Innings = append(res.Lineup.Innings, il)

		if missing := il.Unfilled(); len(missing) > 0 {
			log.WithFields(logrus.Fields{logging.FieldInning: inning, "unfilled": missing}).
				Debug("inning has unfilled positions")
		}
	}
	res.Stats = stats.Snapshot()
	return res
}

// replanRest reschedules the innings after i from the benches actually sat, including
// inning i's amended bench.
func replanRest(plan BenchPlan, i int, players []domain.Player, benched map[string]int, current BenchSet, rng *rand.Rand) {
	prior := make(map[string]int, len(benched)+len(current))
	for id, n := range benched {
		prior[id] = n
	}
	for id := range current {
		prior[id]++
	}
	copy(plan[i+1:], planBench(players, len(plan)-i-1, prior, rng))
}

func ids(players []domain.Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}

func buildInning(inning int, slots map[domain.Position]domain.Player, bench []domain.Player) domain.InningLineup {
	il := domain.InningLineup{Inning: inning, Assignments: make([]domain.PositionAssignment, 0, len(domain.Positions))}
	for _, pos := range domain.Positions {
		a := domain.PositionAssignment{Position: pos}
		if p, ok := slots[pos]; ok {
			ref := p.Ref()
			a.Player = &ref
		}
		il.Assignments = append(il.Assignments, a)
	}
	for _, p := range bench {
		il.Bench = append(il.Bench, p.Ref())
	}
	return il
}
