package server

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"fieldday/internal/config"
	"fieldday/internal/engine"
)

type teamPath struct {
	TeamID string `path:"team_id"`
}

func registerTeams(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "get-team",
		Method:      http.MethodGet,
		Path:        "/teams/{team_id}",
		Summary:     "Get team with its config and members",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *teamPath) (*struct {
		Body TeamResponse `json:"body"`
	}, error) {
		te, _, err := teamScope(ctx, e, input.TeamID, config.PermTeamRead)
		if err != nil {
			return nil, handleError(err)
		}
		t, err := te.Repo.GetTeam(ctx, input.TeamID)
		if err != nil {
			return nil, handleError(err)
		}
		members, err := te.Repo.ListMembers(ctx, input.TeamID)
		if err != nil {
			return nil, handleError(err)
		}
		resp := TeamResponse{ID: t.ID, Name: t.Name, Created: t.CreatedAt, Config: *te.Config, Members: []MemberResult{}}
		for _, m := range members {
			resp.Members = append(resp.Members, MemberResult{ActorID: m.ActorID, Role: m.Role})
		}
		return &struct {
			Body TeamResponse `json:"body"`
		}{Body: resp}, nil
	})
}

func registerMe(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/teams/{team_id}/me",
		Summary:     "Current principal on a team",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *teamPath) (*struct {
		Body WhoAmIResponse `json:"body"`
	}, error) {
		principal, authErr := principalFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		cfg, err := e.Repo.GetTeamConfig(ctx, input.TeamID)
		if err != nil {
			return nil, handleError(err)
		}
		roles := append([]string{}, principal.Roles...)
		stored, err := e.Repo.ActorRoles(ctx, nil, input.TeamID, principal.ActorID)
		if err != nil {
			return nil, handleError(err)
		}
		roles = append(roles, stored...)
		perms := append(cfg.RolePermissions(roles), principal.Permissions...)
		return &struct {
			Body WhoAmIResponse `json:"body"`
		}{Body: WhoAmIResponse{
			ActorID:     principal.ActorID,
			Roles:       nonNilSlice(roles),
			Permissions: nonNilSlice(perms),
			Source:      principal.Source,
		}}, nil
	})
}

func registerDevAuth(api huma.API, authCfg AuthConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "dev-login",
		Method:      http.MethodPost,
		Path:        "/auth/dev/login",
		Summary:     "DEV ONLY: mint a JWT for local testing",
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		Body DevLoginRequest `json:"body"`
	}) (*struct {
		Body DevLoginResponse `json:"body"`
	}, error) {
		if input.Body.ActorID == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "actor_id is required", nil)
		}
		token, err := SignToken(authCfg.JWTSecret, input.Body.ActorID, input.Body.Roles, 12*time.Hour)
		if err != nil {
			return nil, newAPIError(http.StatusInternalServerError, "internal_error", err.Error(), nil)
		}
		return &struct {
			Body DevLoginResponse `json:"body"`
		}{Body: DevLoginResponse{Token: token}}, nil
	})
}
