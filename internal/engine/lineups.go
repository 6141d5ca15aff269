package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fieldday/internal/domain"
	"fieldday/internal/events"
	"fieldday/internal/lineup"
	"fieldday/internal/logging"
)

// GenerateOptions select the game and, optionally, a seed to reproduce a lineup.
type GenerateOptions struct {
	TeamID  string
	GameID  string
	Seed    *uint64
	ActorID string
}

// LineupResult is a stored lineup with the stats computed while generating it.
type LineupResult struct {
	Lineup         domain.Lineup              `json:"lineup"`
	Stats          []domain.PlayerLineupStats `json:"stats"`
	BenchOverrides int                        `json:"bench_overrides"`
	Unfilled       map[string]int             `json:"unfilled"`
}

// GenerateLineup builds and stores a lineup for a game.
func (e Engine) GenerateLineup(ctx context.Context, opts GenerateOptions) (LineupResult, error) {
	game, err := e.Repo.GetGame(ctx, opts.TeamID, opts.GameID)
	if err != nil {
		return LineupResult{}, err
	}
	players, err := e.Repo.ListPlayers(ctx, opts.TeamID)
	if err != nil {
		return LineupResult{}, err
	}
	hints, err := e.Repo.ListCombinations(ctx, opts.TeamID)
	if err != nil {
		return LineupResult{}, err
	}
	if err := lineup.ValidateInput(players, game); err != nil {
		return LineupResult{}, err
	}
	seed := e.seed()
	if opts.Seed != nil {
		if *opts.Seed > lineup.MaxSeed {
			return LineupResult{}, fmt.Errorf("seed %d above %d: %w", *opts.Seed, lineup.MaxSeed, lineup.ErrSeedRange)
		}
		seed = *opts.Seed
	}
	log := e.log().WithFields(logrus.Fields{
		logging.FieldTeam: opts.TeamID,
		logging.FieldSeed: seed,
	})

	start := time.Now()
	res := lineup.NewGenerator(seed, log).Generate(players, game, hints)
	elapsed := time.Since(start)

	l := res.Lineup
	l.ID = uuid.NewString()
	l.CreatedAt = e.timestamp()
	unfilled := unfilledByPosition(l)

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return LineupResult{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertLineup(ctx, tx, opts.TeamID, l); err != nil {
		return LineupResult{}, fmt.Errorf("insert lineup: %w", err)
	}
	payload := events.EventPayload{
		"game_id":         game.ID,
		"seed":            strconv.FormatUint(seed, 10),
		"innings":         len(l.Innings),
		"unfilled":        unfilled,
		"bench_overrides": res.BenchOverrides,
	}
	if err := e.Events.Append(ctx, tx, events.LineupGenerated, opts.TeamID, "lineup", l.ID, opts.ActorID, payload); err != nil {
		return LineupResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return LineupResult{}, err
	}

	e.Metrics.LineupGenerated(elapsed, unfilled, res.BenchOverrides)
	log.WithFields(logrus.Fields{
		logging.FieldLineup:   l.ID,
		logging.FieldDuration: float64(elapsed.Microseconds()) / 1000,
		"bench_overrides":     res.BenchOverrides,
	}).Info("lineup generated")

	return LineupResult{Lineup: l, Stats: res.Stats, BenchOverrides: res.BenchOverrides, Unfilled: unfilled}, nil
}

// LineupStats recomputes playing time from a stored lineup.
func (e Engine) LineupStats(ctx context.Context, teamID, lineupID string) ([]domain.PlayerLineupStats, error) {
	stored, err := e.Repo.GetLineup(ctx, teamID, lineupID)
	if err != nil {
		return nil, err
	}
	players, err := e.lineupPlayers(ctx, teamID, stored.Lineup)
	if err != nil {
		return nil, err
	}
	return lineup.ComputeStats(stored.Lineup, players), nil
}

// lineupPlayers returns the players the lineup was generated for, named as the lineup
// recorded them, else from the roster. Lineups stored without player ids fall back
// to the game's current availability. Any player that appears in the lineup but not in
// that set is appended.
func (e Engine) lineupPlayers(ctx context.Context, teamID string, l domain.Lineup) ([]domain.Player, error) {
	roster, err := e.Repo.ListPlayers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	var players []domain.Player
	if len(l.PlayerIDs) > 0 {
		names := lineupNames(l)
		byID := make(map[string]domain.Player, len(roster))
		for _, p := range roster {
			byID[p.ID] = p
		}
		for _, id := range l.PlayerIDs {
			p, ok := byID[id]
			if !ok {
				p = domain.Player{ID: id, TeamID: teamID, Name: id}
			}
			if name := names[id]; name != "" {
				p.Name = name
			}
			players = append(players, p)
		}
	} else if game, err := e.Repo.GetGame(ctx, teamID, l.GameID); err == nil {
		players = lineup.FilterAvailable(roster, game)
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		seen[p.ID] = true
	}
	for _, ref := range lineupRefs(l) {
		if !seen[ref.ID] {
			seen[ref.ID] = true
			players = append(players, domain.Player{ID: ref.ID, TeamID: teamID, Name: ref.Name})
		}
	}
	return players, nil
}

// lineupRefs lists every player reference in the lineup, first appearance first.
func lineupRefs(l domain.Lineup) []domain.PlayerRef {
	var out []domain.PlayerRef
	for _, inning := range l.Innings {
		for _, a := range inning.Assignments {
			if a.Player != nil {
				out = append(out, *a.Player)
			}
		}
		out = append(out, inning.Bench...)
	}
	return out
}

func lineupNames(l domain.Lineup) map[string]string {
	names := map[string]string{}
	for _, ref := range lineupRefs(l) {
		names[ref.ID] = ref.Name
	}
	return names
}

func unfilledByPosition(l domain.Lineup) map[string]int {
	out := map[string]int{}
	for _, inning := range l.Innings {
		for _, pos := range inning.Unfilled() {
			out[string(pos)]++
		}
	}
	return out
}
