package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fieldday/internal/domain"
	"fieldday/internal/events"
	"fieldday/internal/logging"
	"fieldday/internal/roster"
)

// PlayerOptions are parameters for creating a player.
type PlayerOptions struct {
	TeamID            string
	ID                string
	Name              string
	IsPitcher         bool
	IsCatcher         bool
	ExcludedPositions []string
	ActorID           string
}

func (e Engine) CreatePlayer(ctx context.Context, opts PlayerOptions) (domain.Player, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return domain.Player{}, errors.New("player name is required")
	}
	excl, err := domain.ParsePositions(opts.ExcludedPositions)
	if err != nil {
		return domain.Player{}, err
	}
	if _, err := e.Repo.GetTeam(ctx, opts.TeamID); err != nil {
		return domain.Player{}, err
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := e.timestamp()
	p := domain.Player{
		ID:                id,
		TeamID:            opts.TeamID,
		Name:              name,
		IsPitcher:         opts.IsPitcher,
		IsCatcher:         opts.IsCatcher,
		ExcludedPositions: excl,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Player{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertPlayer(ctx, tx, p); err != nil {
		return domain.Player{}, fmt.Errorf("insert player: %w", err)
	}
	if err := e.Events.Append(ctx, tx, events.PlayerCreated, p.TeamID, "player", p.ID, opts.ActorID, playerPayload(p)); err != nil {
		return domain.Player{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Player{}, err
	}
	return p, nil
}

// PlayerUpdateOptions changes only the fields that are set.
type PlayerUpdateOptions struct {
	TeamID            string
	ID                string
	Name              *string
	IsPitcher         *bool
	IsCatcher         *bool
	ExcludedPositions *[]string
	ActorID           string
}

func (e Engine) UpdatePlayer(ctx context.Context, opts PlayerUpdateOptions) (domain.Player, error) {
	p, err := e.Repo.GetPlayer(ctx, opts.TeamID, opts.ID)
	if err != nil {
		return domain.Player{}, err
	}
	if opts.Name != nil {
		name := strings.TrimSpace(*opts.Name)
		if name == "" {
			return domain.Player{}, errors.New("player name is required")
		}
		p.Name = name
	}
	if opts.IsPitcher != nil {
		p.IsPitcher = *opts.IsPitcher
	}
	if opts.IsCatcher != nil {
		p.IsCatcher = *opts.IsCatcher
	}
	if opts.ExcludedPositions != nil {
		excl, err := domain.ParsePositions(*opts.ExcludedPositions)
		if err != nil {
			return domain.Player{}, err
		}
		p.ExcludedPositions = excl
	}
	p.UpdatedAt = e.timestamp()
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Player{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.UpdatePlayer(ctx, tx, p); err != nil {
		return domain.Player{}, err
	}
	if err := e.Events.Append(ctx, tx, events.PlayerUpdated, p.TeamID, "player", p.ID, opts.ActorID, playerPayload(p)); err != nil {
		return domain.Player{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Player{}, err
	}
	return p, nil
}

// DeletePlayer removes the player and drops them from game availability and pairing hints.
func (e Engine) DeletePlayer(ctx context.Context, teamID, id, actorID string) error {
	games, err := e.Repo.ListGames(ctx, teamID)
	if err != nil {
		return err
	}
	combos, err := e.Repo.ListCombinations(ctx, teamID)
	if err != nil {
		return err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.DeletePlayer(ctx, tx, teamID, id); err != nil {
		return err
	}
	now := e.timestamp()
	for _, g := range games {
		kept := without(g.AvailablePlayerIDs, id)
		if len(kept) == len(g.AvailablePlayerIDs) {
			continue
		}
		if err := e.Repo.SetAvailability(ctx, tx, teamID, g.ID, kept, now); err != nil {
			return err
		}
	}
	for _, c := range combos {
		if len(without(c.PlayerIDs, id)) == len(c.PlayerIDs) {
			continue
		}
		if err := e.Repo.DeleteCombination(ctx, tx, teamID, c.ID); err != nil {
			return err
		}
	}
	if err := e.Events.Append(ctx, tx, events.PlayerDeleted, teamID, "player", id, actorID, nil); err != nil {
		return err
	}
	return tx.Commit()
}

// ImportRoster adds every player, pairing hint and game from a roster file in one transaction.
func (e Engine) ImportRoster(ctx context.Context, teamID string, f *roster.File, actorID string) (roster.Resolved, error) {
	if f == nil {
		return roster.Resolved{}, errors.New("roster file is required")
	}
	if err := f.Validate(); err != nil {
		return roster.Resolved{}, err
	}
	if _, err := e.Repo.GetTeam(ctx, teamID); err != nil {
		return roster.Resolved{}, err
	}
	cfg, err := e.config()
	if err != nil {
		return roster.Resolved{}, err
	}
	res := f.Resolve(teamID, uuid.NewString)
	now := e.timestamp()
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return roster.Resolved{}, err
	}
	defer tx.Rollback()
	for i := range res.Players {
		res.Players[i].CreatedAt, res.Players[i].UpdatedAt = now, now
		if err := e.Repo.InsertPlayer(ctx, tx, res.Players[i]); err != nil {
			return roster.Resolved{}, fmt.Errorf("insert player %s: %w", res.Players[i].Name, err)
		}
	}
	for i := range res.Combinations {
		res.Combinations[i].CreatedAt = now
		if err := e.Repo.InsertCombination(ctx, tx, res.Combinations[i]); err != nil {
			return roster.Resolved{}, err
		}
	}
	for i := range res.Games {
		g := &res.Games[i]
		if g.Innings == 0 {
			g.Innings = cfg.Lineup.DefaultInnings
		}
		if err := checkInnings(cfg.Lineup.MaxInningsLimit, g.Innings); err != nil {
			return roster.Resolved{}, err
		}
		g.CreatedAt, g.UpdatedAt = now, now
		if err := e.Repo.InsertGame(ctx, tx, *g); err != nil {
			return roster.Resolved{}, err
		}
	}
	payload := events.EventPayload{
		"players":      len(res.Players),
		"combinations": len(res.Combinations),
		"games":        len(res.Games),
	}
	if err := e.Events.Append(ctx, tx, events.RosterImported, teamID, "team", teamID, actorID, payload); err != nil {
		return roster.Resolved{}, err
	}
	if err := tx.Commit(); err != nil {
		return roster.Resolved{}, err
	}
	e.log().WithFields(logrus.Fields(payload)).WithField(logging.FieldTeam, teamID).Info("roster imported")
	return res, nil
}

// CombinationOptions are parameters for a pairing hint.
type CombinationOptions struct {
	TeamID      string
	PlayerIDs   []string
	Description string
	ActorID     string
}

func (e Engine) CreateCombination(ctx context.Context, opts CombinationOptions) (domain.PlayerCombination, error) {
	if len(opts.PlayerIDs) == 0 {
		return domain.PlayerCombination{}, errors.New("combination players are required")
	}
	for _, id := range opts.PlayerIDs {
		if _, err := e.Repo.GetPlayer(ctx, opts.TeamID, id); err != nil {
			return domain.PlayerCombination{}, err
		}
	}
	c := domain.PlayerCombination{
		ID:          uuid.NewString(),
		TeamID:      opts.TeamID,
		PlayerIDs:   opts.PlayerIDs,
		Description: opts.Description,
		CreatedAt:   e.timestamp(),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.PlayerCombination{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertCombination(ctx, tx, c); err != nil {
		return domain.PlayerCombination{}, err
	}
	if err := e.Events.Append(ctx, tx, events.CombinationCreated, c.TeamID, "combination", c.ID, opts.ActorID, events.EventPayload{"player_ids": c.PlayerIDs}); err != nil {
		return domain.PlayerCombination{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.PlayerCombination{}, err
	}
	return c, nil
}

func (e Engine) DeleteCombination(ctx context.Context, teamID, id, actorID string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.DeleteCombination(ctx, tx, teamID, id); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, events.CombinationDeleted, teamID, "combination", id, actorID, nil); err != nil {
		return err
	}
	return tx.Commit()
}

func playerPayload(p domain.Player) events.EventPayload {
	return events.EventPayload{
		"name":               p.Name,
		"is_pitcher":         p.IsPitcher,
		"is_catcher":         p.IsCatcher,
		"excluded_positions": p.ExcludedPositions,
	}
}

func without(ids []string, drop string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
