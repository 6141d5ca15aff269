package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fieldday/internal/domain"
	"fieldday/internal/events"
	"fieldday/internal/lineup"
)

// GameOptions are parameters for scheduling a game.
type GameOptions struct {
	TeamID   string
	ID       string
	Opponent string
	Date     string
	// Innings falls back to the config default when zero.
	Innings int
	// AvailablePlayerIDs defaults to the whole roster when nil.
	AvailablePlayerIDs []string
	ActorID            string
}

func (e Engine) CreateGame(ctx context.Context, opts GameOptions) (domain.Game, error) {
	cfg, err := e.config()
	if err != nil {
		return domain.Game{}, err
	}
	innings := opts.Innings
	if innings == 0 {
		innings = cfg.Lineup.DefaultInnings
	}
	if err := checkInnings(cfg.Lineup.MaxInningsLimit, innings); err != nil {
		return domain.Game{}, err
	}
	if opts.Date != "" {
		if _, err := time.Parse(time.DateOnly, opts.Date); err != nil {
			return domain.Game{}, fmt.Errorf("invalid game date %q: want YYYY-MM-DD", opts.Date)
		}
	}
	players, err := e.Repo.ListPlayers(ctx, opts.TeamID)
	if err != nil {
		return domain.Game{}, err
	}
	avail := opts.AvailablePlayerIDs
	if avail == nil {
		avail = make([]string, 0, len(players))
		for _, p := range players {
			avail = append(avail, p.ID)
		}
	} else if err := checkRosterIDs(players, avail); err != nil {
		return domain.Game{}, err
	}
	if _, err := e.Repo.GetTeam(ctx, opts.TeamID); err != nil {
		return domain.Game{}, err
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := e.timestamp()
	g := domain.Game{
		ID:                 id,
		TeamID:             opts.TeamID,
		Opponent:           strings.TrimSpace(opts.Opponent),
		Date:               opts.Date,
		Innings:            innings,
		AvailablePlayerIDs: avail,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Game{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertGame(ctx, tx, g); err != nil {
		return domain.Game{}, fmt.Errorf("insert game: %w", err)
	}
	payload := events.EventPayload{"innings": g.Innings, "available": len(g.AvailablePlayerIDs)}
	if err := e.Events.Append(ctx, tx, events.GameCreated, g.TeamID, "game", g.ID, opts.ActorID, payload); err != nil {
		return domain.Game{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Game{}, err
	}
	return g, nil
}

// SetAvailability replaces who can play in the game. Every id must be on the roster.
func (e Engine) SetAvailability(ctx context.Context, teamID, gameID string, playerIDs []string, actorID string) (domain.Game, error) {
	if _, err := e.Repo.GetGame(ctx, teamID, gameID); err != nil {
		return domain.Game{}, err
	}
	players, err := e.Repo.ListPlayers(ctx, teamID)
	if err != nil {
		return domain.Game{}, err
	}
	if playerIDs == nil {
		playerIDs = []string{}
	}
	if err := checkRosterIDs(players, playerIDs); err != nil {
		return domain.Game{}, err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Game{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.SetAvailability(ctx, tx, teamID, gameID, playerIDs, e.timestamp()); err != nil {
		return domain.Game{}, err
	}
	if err := e.Events.Append(ctx, tx, events.GameAvailability, teamID, "game", gameID, actorID, events.EventPayload{"player_ids": playerIDs}); err != nil {
		return domain.Game{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Game{}, err
	}
	return e.Repo.GetGame(ctx, teamID, gameID)
}

func checkInnings(max, innings int) error {
	if innings <= 0 {
		return fmt.Errorf("%w: got %d", lineup.ErrInvalidInnings, innings)
	}
	if max > 0 && innings > max {
		return fmt.Errorf("%w: %d exceeds max_innings %d", lineup.ErrInvalidInnings, innings, max)
	}
	return nil
}

func checkRosterIDs(players []domain.Player, ids []string) error {
	known := make(map[string]bool, len(players))
	for _, p := range players {
		known[p.ID] = true
	}
	seen := map[string]bool{}
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: %s", lineup.ErrUnknownPlayer, id)
		}
		if seen[id] {
			return errors.New("duplicate available player " + id)
		}
		seen[id] = true
	}
	return nil
}
