package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fieldday/internal/config"
	"fieldday/internal/repo"
)

// ForbiddenError indicates missing permission.
type ForbiddenError struct {
	Permission string
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("permission %s required", e.Permission)
}

// Service resolves actor permissions from team membership and config roles.
type Service struct {
	Repo repo.Repo
}

// Permissions returns what the actor's team roles grant under cfg.
func (s Service) Permissions(ctx context.Context, tx *sql.Tx, cfg *config.Config, teamID, actorID string) ([]string, error) {
	if cfg == nil {
		return nil, errors.New("config not loaded")
	}
	roles, err := s.Repo.ActorRoles(ctx, tx, teamID, actorID)
	if err != nil {
		return nil, err
	}
	return cfg.RolePermissions(roles), nil
}

// Require returns ForbiddenError unless the actor holds perm on the team.
func (s Service) Require(ctx context.Context, tx *sql.Tx, cfg *config.Config, teamID, actorID, perm string) error {
	if actorID == "" {
		return errors.New("actor_id required")
	}
	perms, err := s.Permissions(ctx, tx, cfg, teamID, actorID)
	if err != nil {
		return err
	}
	if !Has(perms, perm) {
		return ForbiddenError{Permission: perm}
	}
	return nil
}

func Has(perms []string, perm string) bool {
	for _, p := range perms {
		if p == perm {
			return true
		}
	}
	return false
}
