package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldday/internal/config"
	"fieldday/internal/db"
	"fieldday/internal/domain"
	"fieldday/internal/engine/auth"
	"fieldday/internal/migrate"
	"fieldday/internal/repo"
)

func TestRequire(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, migrate.Migrate(conn))
	ctx := context.Background()
	r := repo.Repo{DB: conn}
	require.NoError(t, r.InsertTeam(ctx, nil, domain.Team{ID: "t", Name: "T", CreatedAt: "2026-01-01T00:00:00Z"}))
	require.NoError(t, r.AssignRole(ctx, nil, domain.TeamMember{TeamID: "t", ActorID: "pat", Role: "parent", CreatedAt: "2026-01-01T00:00:00Z"}))

	svc := auth.Service{Repo: r}
	cfg := config.Default("t")

	assert.NoError(t, svc.Require(ctx, nil, cfg, "t", "pat", config.PermTeamRead))

	err = svc.Require(ctx, nil, cfg, "t", "pat", config.PermLineupGenerate)
	var fe auth.ForbiddenError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, config.PermLineupGenerate, fe.Permission)

	err = svc.Require(ctx, nil, cfg, "t", "stranger", config.PermTeamRead)
	assert.True(t, errors.As(err, &fe))

	assert.Error(t, svc.Require(ctx, nil, cfg, "t", "", config.PermTeamRead))
	_, err = svc.Permissions(ctx, nil, nil, "t", "pat")
	assert.Error(t, err)
}
