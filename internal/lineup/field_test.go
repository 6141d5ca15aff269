package lineup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fieldday/internal/domain"
)

func TestFillFieldBalancesCategoryTime(t *testing.T) {
	players := roster(7)
	stats := NewStats(players)
	// p1..p4 have played infield, p5..p7 outfield.
	stats.Update(domain.InningLineup{Assignments: []domain.PositionAssignment{
		assign(domain.FirstBase, players[0]), assign(domain.SecondBase, players[1]),
		assign(domain.Shortstop, players[2]), assign(domain.ThirdBase, players[3]),
		assign(domain.LeftField, players[4]), assign(domain.CenterField, players[5]),
		assign(domain.RightField, players[6]),
	}})

	slots := map[domain.Position]domain.Player{}
	fillField(players, newState(), stats, slots)

	assert.Equal(t, "p5", slots[domain.FirstBase].ID)
	assert.Equal(t, "p6", slots[domain.SecondBase].ID)
	assert.Equal(t, "p7", slots[domain.Shortstop].ID)
	assert.Equal(t, "p1", slots[domain.ThirdBase].ID)
	assert.Equal(t, "p2", slots[domain.LeftField].ID)
	assert.Len(t, slots, 7)
}

func TestFillFieldTiesKeepRosterOrder(t *testing.T) {
	players := roster(7)
	slots := map[domain.Position]domain.Player{}
	fillField(players, newState(), NewStats(players), slots)

	for i, pos := range fieldOrder {
		assert.Equal(t, players[i].ID, slots[pos].ID, pos)
	}
}

func TestFillFieldRespectsExclusionsAndLeavesGaps(t *testing.T) {
	players := roster(2)
	players[0].ExcludedPositions = []domain.Position{domain.FirstBase}
	st := newState()
	slots := map[domain.Position]domain.Player{}
	fillField(players, st, NewStats(players), slots)

	assert.Equal(t, "p2", slots[domain.FirstBase].ID)
	assert.Equal(t, "p1", slots[domain.SecondBase].ID)
	assert.Len(t, slots, 2)
	assert.True(t, st.used["p1"])
	assert.True(t, st.used["p2"])
}

func TestFillFieldSkipsBenched(t *testing.T) {
	players := roster(3)
	slots := map[domain.Position]domain.Player{}
	fillField(players, newState("p1"), NewStats(players), slots)
	for _, p := range slots {
		assert.NotEqual(t, "p1", p.ID)
	}
}

func assign(pos domain.Position, p domain.Player) domain.PositionAssignment {
	ref := p.Ref()
	return domain.PositionAssignment{Position: pos, Player: &ref}
}
