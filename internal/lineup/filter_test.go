package lineup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldday/internal/domain"
)

func TestFilterAvailableKeepsRosterOrder(t *testing.T) {
	players := roster(5)
	game := domain.Game{Innings: 3, AvailablePlayerIDs: []string{"p4", "p1", "p3"}}

	got := FilterAvailable(players, game)
	assert.Equal(t, []string{"p1", "p3", "p4"}, ids(got))
}

func TestFilterAvailableEmpty(t *testing.T) {
	got := FilterAvailable(roster(3), domain.Game{Innings: 1})
	assert.Empty(t, got)
}

func TestValidateInput(t *testing.T) {
	players := roster(3)

	require.NoError(t, ValidateInput(players, gameFor(players, 6)))

	err := ValidateInput(players, gameFor(players, 0))
	assert.ErrorIs(t, err, ErrInvalidInnings)

	err = ValidateInput(players, domain.Game{Innings: 3, AvailablePlayerIDs: []string{"p1", "ghost"}})
	assert.ErrorIs(t, err, ErrUnknownPlayer)
	assert.Contains(t, err.Error(), "ghost")

	dup := append(roster(2), domain.Player{ID: "p1"})
	err = ValidateInput(dup, domain.Game{Innings: 3})
	assert.ErrorIs(t, err, ErrDuplicatePlayer)
}
