package lineup

import "fieldday/internal/domain"

// Stats accumulates per-player playing time across innings. Counts only grow.
type Stats struct {
	order []string
	byID  map[string]*domain.PlayerLineupStats
}

func NewStats(players []domain.Player) *Stats {
	s := &Stats{byID: make(map[string]*domain.PlayerLineupStats, len(players))}
	for _, p := range players {
		if _, ok := s.byID[p.ID]; ok {
			continue
		}
		s.order = append(s.order, p.ID)
		s.byID[p.ID] = &domain.PlayerLineupStats{PlayerID: p.ID, PlayerName: p.Name}
	}
	return s
}

// Update folds one completed inning into the totals. Catching counts toward total
// innings only. Players not tracked by the accumulator are ignored.
func (s *Stats) Update(inning domain.InningLineup) {
	for _, a := range inning.Assignments {
		if a.Player == nil {
			continue
		}
		st, ok := s.byID[a.Player.ID]
		if !ok {
			continue
		}
		st.TotalInnings++
		switch a.Position.Category() {
		case domain.CategoryPitching:
			st.PitchingInnings++
		case domain.CategoryInfield:
			st.InfieldInnings++
		case domain.CategoryOutfield:
			st.OutfieldInnings++
		}
	}
}

func (s *Stats) Get(playerID string) (domain.PlayerLineupStats, bool) {
	st, ok := s.byID[playerID]
	if !ok {
		return domain.PlayerLineupStats{}, false
	}
	return *st, true
}

// Snapshot returns a copy of every row in roster order.
func (s *Stats) Snapshot() []domain.PlayerLineupStats {
	out := make([]domain.PlayerLineupStats, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out
}

func (s *Stats) categoryCount(playerID string, c domain.Category) int {
	st, ok := s.byID[playerID]
	if !ok {
		return 0
	}
	switch c {
	case domain.CategoryInfield:
		return st.InfieldInnings
	case domain.CategoryOutfield:
		return st.OutfieldInnings
	case domain.CategoryPitching:
		return st.PitchingInnings
	}
	return 0
}

// ComputeStats recomputes playing time from a finished lineup, one row per player.
// It gives the same rows the generator's accumulator produced for the same players.
func ComputeStats(l domain.Lineup, players []domain.Player) []domain.PlayerLineupStats {
	s := NewStats(players)
	for _, inning := range l.Innings {
		s.Update(inning)
	}
	return s.Snapshot()
}
