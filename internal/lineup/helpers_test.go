package lineup

import (
	"fmt"

	"fieldday/internal/domain"
)

// roster builds n players p1..pn with no flags or exclusions.
func roster(n int) []domain.Player {
	out := make([]domain.Player, n)
	for i := range out {
		id := fmt.Sprintf("p%d", i+1)
		out[i] = domain.Player{ID: id, Name: "Player " + id}
	}
	return out
}

func gameFor(players []domain.Player, innings int) domain.Game {
	return domain.Game{ID: "g1", Innings: innings, AvailablePlayerIDs: ids(players)}
}

func withPitchers(players []domain.Player, idx ...int) []domain.Player {
	for _, i := range idx {
		players[i].IsPitcher = true
	}
	return players
}

func withCatchers(players []domain.Player, idx ...int) []domain.Player {
	for _, i := range idx {
		players[i].IsCatcher = true
	}
	return players
}

func newState(bench ...string) *inningState {
	st := &inningState{used: map[string]bool{}, bench: BenchSet{}}
	for _, id := range bench {
		st.bench.Add(id)
	}
	return st
}
