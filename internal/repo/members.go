package repo

import (
	"context"
	"database/sql"

	"fieldday/internal/domain"
)

func (r Repo) AssignRole(ctx context.Context, tx *sql.Tx, m domain.TeamMember) error {
	_, err := r.on(tx).ExecContext(ctx, `INSERT OR IGNORE INTO team_members(team_id, actor_id, role_id, created_at) VALUES (?,?,?,?)`,
		m.TeamID, m.ActorID, m.Role, m.CreatedAt)
	return err
}

func (r Repo) RevokeRole(ctx context.Context, tx *sql.Tx, teamID, actorID, role string) error {
	res, err := r.on(tx).ExecContext(ctx, `DELETE FROM team_members WHERE team_id=? AND actor_id=? AND role_id=?`, teamID, actorID, role)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ActorRoles lists the roles an actor holds on a team.
func (r Repo) ActorRoles(ctx context.Context, tx *sql.Tx, teamID, actorID string) ([]string, error) {
	rows, err := r.on(tx).QueryContext(ctx, `SELECT role_id FROM team_members WHERE team_id=? AND actor_id=? ORDER BY role_id`, teamID, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r Repo) ListMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT team_id,actor_id,role_id,created_at FROM team_members WHERE team_id=? ORDER BY actor_id, role_id`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.TeamMember
	for rows.Next() {
		var m domain.TeamMember
		if err := rows.Scan(&m.TeamID, &m.ActorID, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
