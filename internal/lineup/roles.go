package lineup

import (
	"math/rand/v2"

	"fieldday/internal/domain"
)

// inningState tracks who is already placed or sitting during one inning.
type inningState struct {
	used  map[string]bool
	bench BenchSet
}

func (s *inningState) free(p domain.Player) bool {
	return !s.used[p.ID] && !s.bench.Has(p.ID)
}

// remaining returns the players still unplaced and not benched, in roster order.
func (s *inningState) remaining(players []domain.Player) []domain.Player {
	var out []domain.Player
	for _, p := range players {
		if s.free(p) {
			out = append(out, p)
		}
	}
	return out
}

func canPitch(p domain.Player) bool { return p.IsPitcher && !p.Excludes(domain.Pitcher) }

// selectPitcher picks this inning's pitcher. Players who have not pitched yet are
// preferred; otherwise the choice is among those with the fewest appearances. When no
// eligible pitcher is off the bench, a scheduled-bench pitcher may be promoted; the
// caller resolves that with resolveBenchConflict.
func selectPitcher(players []domain.Player, appearances map[string]int, st *inningState, rng *rand.Rand) (domain.Player, bool) {
	var candidates []domain.Player
	for _, p := range players {
		if canPitch(p) && st.free(p) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		for _, p := range players {
			if canPitch(p) && !st.used[p.ID] && st.bench.Has(p.ID) {
				candidates = append(candidates, p)
			}
		}
	}
	if len(candidates) == 0 {
		return domain.Player{}, false
	}

	var fresh []domain.Player
	for _, p := range candidates {
		if appearances[p.ID] == 0 {
			fresh = append(fresh, p)
		}
	}
	if len(fresh) > 0 {
		return fresh[rng.IntN(len(fresh))], true
	}

	least := appearances[candidates[0].ID]
	for _, p := range candidates[1:] {
		if n := appearances[p.ID]; n < least {
			least = n
		}
	}
	var tied []domain.Player
	for _, p := range candidates {
		if appearances[p.ID] == least {
			tied = append(tied, p)
		}
	}
	return tied[rng.IntN(len(tied))], true
}

// resolveBenchConflict takes a pitcher off the inning's bench and benches someone else
// in their place, so the bench size stays the same. The replacement is the free player
// with the fewest innings actually benched so far; ties prefer non-pitchers, then fewer
// bench innings still scheduled in upcoming, then roster order. It reports whether the
// bench was changed.
func resolveBenchConflict(pitcher domain.Player, players []domain.Player, st *inningState, benched, upcoming map[string]int) bool {
	if !st.bench.Has(pitcher.ID) {
		return false
	}
	st.bench.Remove(pitcher.ID)

	var replacement *domain.Player
	for i := range players {
		p := &players[i]
		if p.ID == pitcher.ID || !st.free(*p) {
			continue
		}
		if replacement == nil || benchesBefore(*p, *replacement, benched, upcoming) {
			replacement = p
		}
	}
	if replacement != nil {
		st.bench.Add(replacement.ID)
	}
	return true
}

// benchesBefore reports whether a should sit ahead of b. Equal players keep roster order.
func benchesBefore(a, b domain.Player, benched, upcoming map[string]int) bool {
	if benched[a.ID] != benched[b.ID] {
		return benched[a.ID] < benched[b.ID]
	}
	if a.IsPitcher != b.IsPitcher {
		return !a.IsPitcher
	}
	return upcoming[a.ID] < upcoming[b.ID]
}

// selectCatcher picks a random designated catcher. If there is none, the first free
// player who does not exclude catching fills in.
func selectCatcher(players []domain.Player, st *inningState, rng *rand.Rand) (domain.Player, bool) {
	var catchers []domain.Player
	for _, p := range players {
		if p.IsCatcher && !p.Excludes(domain.Catcher) && st.free(p) {
			catchers = append(catchers, p)
		}
	}
	if len(catchers) > 0 {
		return catchers[rng.IntN(len(catchers))], true
	}
	for _, p := range players {
		if !p.Excludes(domain.Catcher) && st.free(p) {
			return p, true
		}
	}
	return domain.Player{}, false
}
