package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"fieldday/internal/config"
	"fieldday/internal/domain"
	"fieldday/internal/engine/auth"
	"fieldday/internal/events"
	"fieldday/internal/lineup"
	"fieldday/internal/logging"
	"fieldday/internal/metrics"
	"fieldday/internal/repo"
)

// DefaultRole is granted to the actor that creates a team.
const DefaultRole = "coach"

type Engine struct {
	DB      *sql.DB
	Repo    repo.Repo
	Events  events.Writer
	Auth    auth.Service
	Config  *config.Config
	Logger  logrus.FieldLogger
	Metrics *metrics.Recorder
	Now     func() time.Time
	// Seed supplies a generation seed when the caller gives none. Only its low 53 bits
	// are used.
	Seed func() uint64
}

func New(db *sql.DB, cfg *config.Config) Engine {
	r := repo.Repo{DB: db}
	return Engine{
		DB:     db,
		Repo:   r,
		Events: events.Writer{DB: db},
		Auth:   auth.Service{Repo: r},
		Config: cfg,
		Now:    time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339)
}

func (e Engine) seed() uint64 {
	if e.Seed != nil {
		return e.Seed() & lineup.MaxSeed
	}
	return uint64(time.Now().UnixNano()) & lineup.MaxSeed
}

func (e Engine) log() logrus.FieldLogger {
	return logging.OrDiscard(e.Logger)
}

func (e Engine) config() (*config.Config, error) {
	if e.Config == nil {
		return nil, errors.New("config not loaded")
	}
	return e.Config, nil
}

// Authorize checks that actorID holds perm on the team under the loaded config.
func (e Engine) Authorize(ctx context.Context, teamID, actorID, perm string) error {
	cfg, err := e.config()
	if err != nil {
		return err
	}
	return e.Auth.Require(ctx, nil, cfg, teamID, actorID, perm)
}

// InitTeam creates a team with a default config and makes actorID its coach.
func (e Engine) InitTeam(ctx context.Context, teamID, name, actorID string) (domain.Team, error) {
	if teamID == "" {
		return domain.Team{}, errors.New("team id is required")
	}
	if actorID == "" {
		return domain.Team{}, errors.New("actor_id required")
	}
	if name == "" {
		name = teamID
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Team{}, err
	}
	defer tx.Rollback()

	t := domain.Team{ID: teamID, Name: name, CreatedAt: e.timestamp()}
	if err := e.Repo.InsertTeam(ctx, tx, t); err != nil {
		return domain.Team{}, fmt.Errorf("insert team: %w", err)
	}
	cfg := config.Default(teamID)
	if e.Config != nil && e.Config.Team.ID == teamID {
		c := *e.Config
		cfg = &c
	}
	cfg.Team.Name = name
	if err := e.Repo.UpsertTeamConfig(ctx, tx, teamID, cfg); err != nil {
		return domain.Team{}, fmt.Errorf("insert team config: %w", err)
	}
	if err := e.Repo.AssignRole(ctx, tx, domain.TeamMember{TeamID: teamID, ActorID: actorID, Role: DefaultRole, CreatedAt: t.CreatedAt}); err != nil {
		return domain.Team{}, fmt.Errorf("assign role: %w", err)
	}
	if err := e.Events.Append(ctx, tx, events.TeamInit, teamID, "team", teamID, actorID, events.EventPayload{"name": name}); err != nil {
		return domain.Team{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Team{}, err
	}
	e.log().WithFields(logrus.Fields{logging.FieldTeam: teamID, "actor_id": actorID}).Info("team initialized")
	return t, nil
}

// ImportConfig validates cfg and stores it as the team's config.
func (e Engine) ImportConfig(ctx context.Context, teamID string, cfg *config.Config, actorID string) error {
	if _, err := e.Repo.GetTeam(ctx, teamID); err != nil {
		return err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.UpsertTeamConfig(ctx, tx, teamID, cfg); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, events.TeamConfigImported, teamID, "team", teamID, actorID, nil); err != nil {
		return err
	}
	return tx.Commit()
}

// GrantRole gives member a config role on the team.
func (e Engine) GrantRole(ctx context.Context, teamID, member, role, actorID string) error {
	cfg, err := e.config()
	if err != nil {
		return err
	}
	if _, ok := cfg.RBAC.Roles[role]; !ok {
		return fmt.Errorf("unknown role %q", role)
	}
	if member == "" {
		return errors.New("member actor id is required")
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.AssignRole(ctx, tx, domain.TeamMember{TeamID: teamID, ActorID: member, Role: role, CreatedAt: e.timestamp()}); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, events.TeamMemberGranted, teamID, "member", member, actorID, events.EventPayload{"role": role}); err != nil {
		return err
	}
	return tx.Commit()
}

func (e Engine) RevokeRole(ctx context.Context, teamID, member, role, actorID string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.RevokeRole(ctx, tx, teamID, member, role); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, events.TeamMemberRevoked, teamID, "member", member, actorID, events.EventPayload{"role": role}); err != nil {
		return err
	}
	return tx.Commit()
}
