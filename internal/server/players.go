package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"fieldday/internal/config"
	"fieldday/internal/domain"
	"fieldday/internal/engine"
)

func registerPlayers(api huma.API, e engine.Engine) {
	type playerPath struct {
		TeamID   string `path:"team_id"`
		PlayerID string `path:"player_id"`
	}

	huma.Register(api, huma.Operation{
		OperationID: "create-player",
		Method:      http.MethodPost,
		Path:        "/teams/{team_id}/players",
		Summary:     "Add a player to the roster",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		TeamID string              `path:"team_id"`
		Body   CreatePlayerRequest `json:"body"`
	}) (*struct {
		Body domain.Player `json:"body"`
	}, error) {
		te, principal, err := teamScope(ctx, e, input.TeamID, config.PermRosterWrite)
		if err != nil {
			return nil, handleError(err)
		}
		p, err := te.CreatePlayer(ctx, engine.PlayerOptions{
			TeamID:            input.TeamID,
			ID:                strValue(input.Body.ID),
			Name:              input.Body.Name,
			IsPitcher:         input.Body.IsPitcher,
			IsCatcher:         input.Body.IsCatcher,
			ExcludedPositions: input.Body.ExcludedPositions,
			ActorID:           principal.ActorID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Player `json:"body"`
		}{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-players",
		Method:      http.MethodGet,
		Path:        "/teams/{team_id}/players",
		Summary:     "List the roster in roster order",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *teamPath) (*struct {
		Body []domain.Player `json:"body"`
	}, error) {
		te, _, err := teamScope(ctx, e, input.TeamID, config.PermTeamRead)
		if err != nil {
			return nil, handleError(err)
		}
		players, err := te.Repo.ListPlayers(ctx, input.TeamID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Player `json:"body"`
		}{Body: players}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-player",
		Method:      http.MethodGet,
		Path:        "/teams/{team_id}/players/{player_id}",
		Summary:     "Get player",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *playerPath) (*struct {
		Body domain.Player `json:"body"`
	}, error) {
		te, _, err := teamScope(ctx, e, input.TeamID, config.PermTeamRead)
		if err != nil {
			return nil, handleError(err)
		}
		p, err := te.Repo.GetPlayer(ctx, input.TeamID, input.PlayerID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Player `json:"body"`
		}{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-player",
		Method:      http.MethodPatch,
		Path:        "/teams/{team_id}/players/{player_id}",
		Summary:     "Update player",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TeamID   string              `path:"team_id"`
		PlayerID string              `path:"player_id"`
		Body     UpdatePlayerRequest `json:"body"`
	}) (*struct {
		Body domain.Player `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		te, principal, err := teamScope(ctx, e, input.TeamID, config.PermRosterWrite)
		if err != nil {
			return nil, handleError(err)
		}
		p, err := te.UpdatePlayer(ctx, engine.PlayerUpdateOptions{
			TeamID:            input.TeamID,
			ID:                input.PlayerID,
			Name:              input.Body.Name,
			IsPitcher:         input.Body.IsPitcher,
			IsCatcher:         input.Body.IsCatcher,
			ExcludedPositions: input.Body.ExcludedPositions,
			ActorID:           principal.ActorID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Player `json:"body"`
		}{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-player",
		Method:        http.MethodDelete,
		Path:          "/teams/{team_id}/players/{player_id}",
		Summary:       "Remove player from the roster",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *playerPath) (*struct{}, error) {
		te, principal, err := teamScope(ctx, e, input.TeamID, config.PermRosterWrite)
		if err != nil {
			return nil, handleError(err)
		}
		if err := te.DeletePlayer(ctx, input.TeamID, input.PlayerID, principal.ActorID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}
