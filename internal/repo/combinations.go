package repo

import (
	"context"
	"database/sql"
	"fmt"

	"fieldday/internal/domain"
)

func (r Repo) InsertCombination(ctx context.Context, tx *sql.Tx, c domain.PlayerCombination) error {
	ids, err := marshalStrings(c.PlayerIDs)
	if err != nil {
		return err
	}
	_, err = r.on(tx).ExecContext(ctx, `INSERT INTO combinations(id,team_id,player_ids_json,description,created_at) VALUES (?,?,?,?,?)`,
		c.ID, c.TeamID, ids, nullable(c.Description), c.CreatedAt)
	return err
}

func (r Repo) DeleteCombination(ctx context.Context, tx *sql.Tx, teamID, id string) error {
	res, err := r.on(tx).ExecContext(ctx, `DELETE FROM combinations WHERE id=? AND team_id=?`, id, teamID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("combination %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r Repo) ListCombinations(ctx context.Context, teamID string) ([]domain.PlayerCombination, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,team_id,player_ids_json,COALESCE(description,''),created_at FROM combinations WHERE team_id=? ORDER BY created_at, id`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.PlayerCombination{}
	for rows.Next() {
		var c domain.PlayerCombination
		var ids string
		if err := rows.Scan(&c.ID, &c.TeamID, &ids, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		if c.PlayerIDs, err = unmarshalStrings(ids); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}
