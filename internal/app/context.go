package app

import (
	"context"
	"errors"
	"fmt"

	"fieldday/internal/config"
	"fieldday/internal/repo"
)

// ResolveTeamAndConfig picks the active team and loads its stored config, seeding defaults if
// missing. It prefers the override, then a single-team workspace, then the team named by the
// workspace fieldday.yml.
func ResolveTeamAndConfig(ctx context.Context, workspace, teamOverride string, r repo.Repo) (string, *config.Config, error) {
	teamID := teamOverride
	fileCfg, err := config.LoadOptional(workspace)
	if err != nil {
		return "", nil, fmt.Errorf("load %s: %w", config.Path(workspace), err)
	}
	if teamID == "" {
		if t, err := r.SingleTeam(ctx); err == nil {
			teamID = t.ID
		} else if fileCfg != nil {
			teamID = fileCfg.Team.ID
		} else {
			return "", nil, fmt.Errorf("team not specified; use --team or run fd team init")
		}
	}
	if _, err := r.GetTeam(ctx, teamID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", nil, fmt.Errorf("team %s not initialized; run fd team init --team %s", teamID, teamID)
		}
		return "", nil, err
	}
	cfg, err := r.GetTeamConfig(ctx, teamID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return "", nil, err
		}
		seed := config.Default(teamID)
		if fileCfg != nil && fileCfg.Team.ID == teamID {
			seed = fileCfg
		}
		if err := r.UpsertTeamConfig(ctx, nil, teamID, seed); err != nil {
			return "", nil, fmt.Errorf("seed team config: %w", err)
		}
		cfg = seed
	}
	cfg.Team.ID = teamID
	return teamID, cfg, nil
}
