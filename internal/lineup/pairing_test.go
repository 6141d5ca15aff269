package lineup

import (
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldday/internal/domain"
)

func TestPairingHintsAreLoggedOnly(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	players := roster(4)
	hints := []domain.PlayerCombination{
		{ID: "c1", PlayerIDs: []string{"p1", "p2"}, Description: "siblings"},
		{ID: "c2", PlayerIDs: []string{"p3", "gone"}},
		{ID: "c3", PlayerIDs: []string{"p1"}},
	}

	n := applyPairingHints(logger, 2, hints, players)
	assert.Equal(t, 1, n)

	entries := hook.AllEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, "c1", entries[0].Data["combination_id"])
	assert.Equal(t, 2, entries[0].Data["inning"])
}

func TestPairingHintsDoNotChangeLineup(t *testing.T) {
	players := withCatchers(withPitchers(roster(11), 0, 4, 8), 2)
	game := gameFor(players, 6)
	hints := []domain.PlayerCombination{
		{ID: "c1", PlayerIDs: []string{"p2", "p3"}},
		{ID: "c2", PlayerIDs: []string{"p10", "p11"}},
	}

	logger, hook := logtest.NewNullLogger()
	without := NewGenerator(5, nil).Generate(players, game, nil)
	with := NewGenerator(5, logger).Generate(players, game, hints)

	assert.Equal(t, without.Lineup, with.Lineup)
	assert.Equal(t, without.Stats, with.Stats)
	assert.Positive(t, with.HintsAcknowledged)
	assert.NotEmpty(t, hook.AllEntries())
}
