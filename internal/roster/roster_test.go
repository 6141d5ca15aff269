package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldday/internal/domain"
)

const sample = `players:
  - name: Ava
    pitcher: true
  - name: Ben
    catcher: true
    excluded_positions: [ss, 3b]
  - name: Cal
combinations:
  - players: [Ava, Cal]
    description: siblings
games:
  - opponent: Hawks
    date: "2026-05-02"
    innings: 6
    available: [Ava, Cal]
  - opponent: Owls
    innings: 4
`

func counter() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
}

func TestParseAndResolve(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	r := f.Resolve("team1", counter())
	require.Len(t, r.Players, 3)
	assert.Equal(t, "id1", r.Players[0].ID)
	assert.True(t, r.Players[0].IsPitcher)
	assert.Equal(t, []domain.Position{domain.Shortstop, domain.ThirdBase}, r.Players[1].ExcludedPositions)
	assert.Equal(t, "team1", r.Players[2].TeamID)

	require.Len(t, r.Combinations, 1)
	assert.Equal(t, []string{"id1", "id3"}, r.Combinations[0].PlayerIDs)

	require.Len(t, r.Games, 2)
	assert.Equal(t, []string{"id1", "id3"}, r.Games[0].AvailablePlayerIDs)
	assert.Equal(t, []string{"id1", "id2", "id3"}, r.Games[1].AvailablePlayerIDs)
	assert.Equal(t, "2026-05-02", r.Games[0].Date)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"no name":       "players:\n  - pitcher: true\n",
		"duplicate":     "players:\n  - name: A\n  - name: A\n",
		"bad position":  "players:\n  - name: A\n    excluded_positions: [DH]\n",
		"unknown combo": "players:\n  - name: A\ncombinations:\n  - players: [Z]\n",
		"empty combo":   "players:\n  - name: A\ncombinations:\n  - description: x\n",
		"neg innings":   "players:\n  - name: A\ngames:\n  - innings: -1\n",
		"bad date":      "players:\n  - name: A\ngames:\n  - date: May 2\n",
		"unknown avail": "players:\n  - name: A\ngames:\n  - available: [B]\n",
		"unknown field": "players:\n  - name: A\n    shortstop: true\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			assert.ErrorIs(t, err, ErrInvalidRoster)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Players, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
