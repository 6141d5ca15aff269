package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"fieldday/internal/config"
	"fieldday/internal/domain"
	"fieldday/internal/engine"
)

func registerLineups(api huma.API, e engine.Engine) {
	type lineupPath struct {
		TeamID   string `path:"team_id"`
		LineupID string `path:"lineup_id"`
	}

	huma.Register(api, huma.Operation{
		OperationID: "generate-lineup",
		Method:      http.MethodPost,
		Path:        "/teams/{team_id}/games/{game_id}/lineups",
		Summary:     "Generate and store a lineup for a game",
		Description: "Pass a seed to reproduce an earlier lineup; otherwise one is chosen and returned.",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TeamID string                `path:"team_id"`
		GameID string                `path:"game_id"`
		Body   GenerateLineupRequest `json:"body" required:"false"`
	}) (*struct {
		Body engine.LineupResult `json:"body"`
	}, error) {
		te, principal, err := teamScope(ctx, e, input.TeamID, config.PermLineupGenerate)
		if err != nil {
			return nil, handleError(err)
		}
		res, err := te.GenerateLineup(ctx, engine.GenerateOptions{
			TeamID:  input.TeamID,
			GameID:  input.GameID,
			Seed:    input.Body.Seed,
			ActorID: principal.ActorID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body engine.LineupResult `json:"body"`
		}{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-lineups",
		Method:      http.MethodGet,
		Path:        "/teams/{team_id}/games/{game_id}/lineups",
		Summary:     "Lineups generated for a game, newest first",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *gamePath) (*struct {
		Body []domain.Lineup `json:"body"`
	}, error) {
		te, _, err := teamScope(ctx, e, input.TeamID, config.PermTeamRead)
		if err != nil {
			return nil, handleError(err)
		}
		if _, err := te.Repo.GetGame(ctx, input.TeamID, input.GameID); err != nil {
			return nil, handleError(err)
		}
		stored, err := te.Repo.ListLineups(ctx, input.TeamID, input.GameID)
		if err != nil {
			return nil, handleError(err)
		}
		items := make([]domain.Lineup, 0, len(stored))
		for _, s := range stored {
			items = append(items, s.Lineup)
		}
		return &struct {
			Body []domain.Lineup `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "latest-lineup",
		Method:      http.MethodGet,
		Path:        "/teams/{team_id}/games/{game_id}/lineups/latest",
		Summary:     "Most recent lineup for a game",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *gamePath) (*struct {
		Body domain.Lineup `json:"body"`
	}, error) {
		te, _, err := teamScope(ctx, e, input.TeamID, config.PermTeamRead)
		if err != nil {
			return nil, handleError(err)
		}
		stored, err := te.Repo.LatestLineup(ctx, input.TeamID, input.GameID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Lineup `json:"body"`
		}{Body: stored.Lineup}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-lineup",
		Method:      http.MethodGet,
		Path:        "/teams/{team_id}/lineups/{lineup_id}",
		Summary:     "Get lineup",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *lineupPath) (*struct {
		Body domain.Lineup `json:"body"`
	}, error) {
		te, _, err := teamScope(ctx, e, input.TeamID, config.PermTeamRead)
		if err != nil {
			return nil, handleError(err)
		}
		stored, err := te.Repo.GetLineup(ctx, input.TeamID, input.LineupID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Lineup `json:"body"`
		}{Body: stored.Lineup}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "lineup-stats",
		Method:      http.MethodGet,
		Path:        "/teams/{team_id}/lineups/{lineup_id}/stats",
		Summary:     "Per-player playing time for a lineup",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *lineupPath) (*struct {
		Body LineupStatsResponse `json:"body"`
	}, error) {
		te, _, err := teamScope(ctx, e, input.TeamID, config.PermTeamRead)
		if err != nil {
			return nil, handleError(err)
		}
		stats, err := te.LineupStats(ctx, input.TeamID, input.LineupID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body LineupStatsResponse `json:"body"`
		}{Body: LineupStatsResponse{LineupID: input.LineupID, Stats: stats}}, nil
	})
}
