package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldday/internal/config"
	"fieldday/internal/db"
	"fieldday/internal/domain"
	"fieldday/internal/events"
	"fieldday/internal/migrate"
	"fieldday/internal/repo"
)

const ts = "2026-04-01T10:00:00Z"

func newTestRepo(t *testing.T) (repo.Repo, context.Context) {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, migrate.Migrate(conn))
	r := repo.Repo{DB: conn}
	ctx := context.Background()
	require.NoError(t, r.InsertTeam(ctx, nil, domain.Team{ID: "team", Name: "Team", CreatedAt: ts}))
	return r, ctx
}

func TestTeamAndConfig(t *testing.T) {
	r, ctx := newTestRepo(t)

	team, err := r.SingleTeam(ctx)
	require.NoError(t, err)
	assert.Equal(t, "team", team.ID)

	_, err = r.GetTeamConfig(ctx, "team")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	cfg := config.Default("ignored")
	cfg.Lineup.DefaultInnings = 5
	require.NoError(t, r.UpsertTeamConfig(ctx, nil, "team", cfg))
	got, err := r.GetTeamConfig(ctx, "team")
	require.NoError(t, err)
	assert.Equal(t, "team", got.Team.ID)
	assert.Equal(t, 5, got.Lineup.DefaultInnings)

	_, err = r.GetTeam(ctx, "nope")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, r.InsertTeam(ctx, nil, domain.Team{ID: "other", Name: "Other", CreatedAt: ts}))
	_, err = r.SingleTeam(ctx)
	assert.ErrorContains(t, err, "multiple teams")
}

func TestPlayersKeepRosterOrder(t *testing.T) {
	r, ctx := newTestRepo(t)
	for _, id := range []string{"zed", "amy", "mo"} {
		require.NoError(t, r.InsertPlayer(ctx, nil, domain.Player{ID: id, TeamID: "team", Name: id, CreatedAt: ts, UpdatedAt: ts}))
	}
	players, err := r.ListPlayers(ctx, "team")
	require.NoError(t, err)
	var ids []string
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"zed", "amy", "mo"}, ids)

	p := players[1]
	p.IsPitcher = true
	p.ExcludedPositions = []domain.Position{domain.Catcher, domain.Shortstop}
	require.NoError(t, r.UpdatePlayer(ctx, nil, p))
	got, err := r.GetPlayer(ctx, "team", "amy")
	require.NoError(t, err)
	assert.True(t, got.IsPitcher)
	assert.False(t, got.IsCatcher)
	assert.Equal(t, []domain.Position{domain.Catcher, domain.Shortstop}, got.ExcludedPositions)

	require.NoError(t, r.DeletePlayer(ctx, nil, "team", "zed"))
	assert.ErrorIs(t, r.DeletePlayer(ctx, nil, "team", "zed"), repo.ErrNotFound)
	_, err = r.GetPlayer(ctx, "team", "zed")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestGamesAndAvailability(t *testing.T) {
	r, ctx := newTestRepo(t)
	require.NoError(t, r.InsertGame(ctx, nil, domain.Game{ID: "g1", TeamID: "team", Innings: 6, CreatedAt: ts, UpdatedAt: ts}))

	g, err := r.GetGame(ctx, "team", "g1")
	require.NoError(t, err)
	assert.Empty(t, g.AvailablePlayerIDs)
	assert.Equal(t, "", g.Opponent)

	require.NoError(t, r.SetAvailability(ctx, nil, "team", "g1", []string{"a", "b"}, ts))
	g, err = r.GetGame(ctx, "team", "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, g.AvailablePlayerIDs)

	assert.ErrorIs(t, r.SetAvailability(ctx, nil, "team", "missing", nil, ts), repo.ErrNotFound)
	games, err := r.ListGames(ctx, "team")
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestCombinations(t *testing.T) {
	r, ctx := newTestRepo(t)
	require.NoError(t, r.InsertCombination(ctx, nil, domain.PlayerCombination{ID: "c1", TeamID: "team", PlayerIDs: []string{"a", "b"}, Description: "pair", CreatedAt: ts}))
	combos, err := r.ListCombinations(ctx, "team")
	require.NoError(t, err)
	require.Len(t, combos, 1)
	assert.Equal(t, []string{"a", "b"}, combos[0].PlayerIDs)
	require.NoError(t, r.DeleteCombination(ctx, nil, "team", "c1"))
	assert.ErrorIs(t, r.DeleteCombination(ctx, nil, "team", "c1"), repo.ErrNotFound)
}

func TestLineupRoundTripKeepsLargeSeed(t *testing.T) {
	r, ctx := newTestRepo(t)
	require.NoError(t, r.InsertGame(ctx, nil, domain.Game{ID: "g1", TeamID: "team", Innings: 1, CreatedAt: ts, UpdatedAt: ts}))
	ref := &domain.PlayerRef{ID: "a", Name: "Amy"}
	l := domain.Lineup{
		ID:     "l1",
		GameID: "g1",
		Seed:   ^uint64(0),
		Innings: []domain.InningLineup{{
			Inning:      1,
			Assignments: []domain.PositionAssignment{{Position: domain.Pitcher, Player: ref}, {Position: domain.Catcher}},
			Bench:       []domain.PlayerRef{{ID: "b", Name: "Bo"}},
		}},
		PlayerIDs: []string{"a", "b"},
		CreatedAt: ts,
	}
	require.NoError(t, r.InsertLineup(ctx, nil, "team", l))
	require.NoError(t, r.InsertLineup(ctx, nil, "team", domain.Lineup{ID: "l2", GameID: "g1", Seed: 7, CreatedAt: ts}))

	got, err := r.GetLineup(ctx, "team", "l1")
	require.NoError(t, err)
	assert.Equal(t, "team", got.TeamID)
	assert.Equal(t, l, got.Lineup)

	latest, err := r.LatestLineup(ctx, "team", "g1")
	require.NoError(t, err)
	assert.Equal(t, "l2", latest.ID)
	assert.Empty(t, latest.PlayerIDs)

	all, err := r.ListLineups(ctx, "team", "g1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "l2", all[0].ID)
	assert.Equal(t, ^uint64(0), all[1].Seed)

	_, err = r.LatestLineup(ctx, "team", "nope")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestMembers(t *testing.T) {
	r, ctx := newTestRepo(t)
	require.NoError(t, r.AssignRole(ctx, nil, domain.TeamMember{TeamID: "team", ActorID: "sam", Role: "coach", CreatedAt: ts}))
	require.NoError(t, r.AssignRole(ctx, nil, domain.TeamMember{TeamID: "team", ActorID: "sam", Role: "coach", CreatedAt: ts}))
	require.NoError(t, r.AssignRole(ctx, nil, domain.TeamMember{TeamID: "team", ActorID: "sam", Role: "parent", CreatedAt: ts}))

	roles, err := r.ActorRoles(ctx, nil, "team", "sam")
	require.NoError(t, err)
	assert.Equal(t, []string{"coach", "parent"}, roles)

	require.NoError(t, r.RevokeRole(ctx, nil, "team", "sam", "parent"))
	assert.ErrorIs(t, r.RevokeRole(ctx, nil, "team", "sam", "parent"), repo.ErrNotFound)
	members, err := r.ListMembers(ctx, "team")
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestEventsCursor(t *testing.T) {
	r, ctx := newTestRepo(t)
	w := events.Writer{DB: r.DB}
	tx, err := r.DB.BeginTx(ctx, nil)
	require.NoError(t, err)
	for _, typ := range []string{events.PlayerCreated, events.GameCreated, events.LineupGenerated} {
		require.NoError(t, w.Append(ctx, tx, typ, "team", "x", "id", "sam", events.EventPayload{"k": 1}))
	}
	require.NoError(t, tx.Commit())

	all, err := r.EventsAfter(ctx, 0, 0, "team")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, events.PlayerCreated, all[0].Type)
	assert.JSONEq(t, `{"k":1}`, all[0].Payload)

	after, err := r.EventsAfter(ctx, 10, all[0].ID, "team")
	require.NoError(t, err)
	assert.Len(t, after, 2)

	latest, err := r.LatestEvents(ctx, 1, 0, repo.EventFilter{TeamID: "team"})
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, events.LineupGenerated, latest[0].Type)

	typed, err := r.LatestEvents(ctx, 10, 0, repo.EventFilter{Type: events.GameCreated})
	require.NoError(t, err)
	assert.Len(t, typed, 1)

	id, err := r.LatestEventID(ctx, "team")
	require.NoError(t, err)
	assert.Equal(t, all[2].ID, id)
}
