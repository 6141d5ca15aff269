package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"fieldday/internal/config"
	"fieldday/internal/domain"
	"fieldday/internal/engine"
)

type gamePath struct {
	TeamID string `path:"team_id"`
	GameID string `path:"game_id"`
}

func registerGames(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "create-game",
		Method:      http.MethodPost,
		Path:        "/teams/{team_id}/games",
		Summary:     "Schedule a game",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		TeamID string            `path:"team_id"`
		Body   CreateGameRequest `json:"body"`
	}) (*struct {
		Body domain.Game `json:"body"`
	}, error) {
		te, principal, err := teamScope(ctx, e, input.TeamID, config.PermGameWrite)
		if err != nil {
			return nil, handleError(err)
		}
		g, err := te.CreateGame(ctx, engine.GameOptions{
			TeamID:             input.TeamID,
			ID:                 strValue(input.Body.ID),
			Opponent:           input.Body.Opponent,
			Date:               input.Body.Date,
			Innings:            input.Body.Innings,
			AvailablePlayerIDs: input.Body.AvailablePlayerIDs,
			ActorID:            principal.ActorID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Game `json:"body"`
		}{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-games",
		Method:      http.MethodGet,
		Path:        "/teams/{team_id}/games",
		Summary:     "List games",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *teamPath) (*struct {
		Body []domain.Game `json:"body"`
	}, error) {
		te, _, err := teamScope(ctx, e, input.TeamID, config.PermTeamRead)
		if err != nil {
			return nil, handleError(err)
		}
		games, err := te.Repo.ListGames(ctx, input.TeamID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Game `json:"body"`
		}{Body: games}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-game",
		Method:      http.MethodGet,
		Path:        "/teams/{team_id}/games/{game_id}",
		Summary:     "Get game",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *gamePath) (*struct {
		Body domain.Game `json:"body"`
	}, error) {
		te, _, err := teamScope(ctx, e, input.TeamID, config.PermTeamRead)
		if err != nil {
			return nil, handleError(err)
		}
		g, err := te.Repo.GetGame(ctx, input.TeamID, input.GameID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Game `json:"body"`
		}{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-availability",
		Method:      http.MethodPut,
		Path:        "/teams/{team_id}/games/{game_id}/availability",
		Summary:     "Replace the players available for a game",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TeamID string                 `path:"team_id"`
		GameID string                 `path:"game_id"`
		Body   SetAvailabilityRequest `json:"body"`
	}) (*struct {
		Body domain.Game `json:"body"`
	}, error) {
		te, principal, err := teamScope(ctx, e, input.TeamID, config.PermGameWrite)
		if err != nil {
			return nil, handleError(err)
		}
		g, err := te.SetAvailability(ctx, input.TeamID, input.GameID, input.Body.PlayerIDs, principal.ActorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Game `json:"body"`
		}{Body: g}, nil
	})
}

func registerCombinations(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "create-combination",
		Method:      http.MethodPost,
		Path:        "/teams/{team_id}/combinations",
		Summary:     "Add a pairing hint",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TeamID string                   `path:"team_id"`
		Body   CreateCombinationRequest `json:"body"`
	}) (*struct {
		Body domain.PlayerCombination `json:"body"`
	}, error) {
		te, principal, err := teamScope(ctx, e, input.TeamID, config.PermRosterWrite)
		if err != nil {
			return nil, handleError(err)
		}
		c, err := te.CreateCombination(ctx, engine.CombinationOptions{
			TeamID:      input.TeamID,
			PlayerIDs:   input.Body.PlayerIDs,
			Description: input.Body.Description,
			ActorID:     principal.ActorID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.PlayerCombination `json:"body"`
		}{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-combinations",
		Method:      http.MethodGet,
		Path:        "/teams/{team_id}/combinations",
		Summary:     "List pairing hints",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *teamPath) (*struct {
		Body []domain.PlayerCombination `json:"body"`
	}, error) {
		te, _, err := teamScope(ctx, e, input.TeamID, config.PermTeamRead)
		if err != nil {
			return nil, handleError(err)
		}
		combos, err := te.Repo.ListCombinations(ctx, input.TeamID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.PlayerCombination `json:"body"`
		}{Body: combos}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-combination",
		Method:        http.MethodDelete,
		Path:          "/teams/{team_id}/combinations/{combination_id}",
		Summary:       "Remove a pairing hint",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TeamID        string `path:"team_id"`
		CombinationID string `path:"combination_id"`
	}) (*struct{}, error) {
		te, principal, err := teamScope(ctx, e, input.TeamID, config.PermRosterWrite)
		if err != nil {
			return nil, handleError(err)
		}
		if err := te.DeleteCombination(ctx, input.TeamID, input.CombinationID, principal.ActorID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}
