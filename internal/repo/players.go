package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"fieldday/internal/domain"
)

const playerColumns = `id,team_id,name,is_pitcher,is_catcher,excluded_positions_json,created_at,updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (domain.Player, error) {
	var p domain.Player
	var pitcher, catcher int
	var excl string
	if err := row.Scan(&p.ID, &p.TeamID, &p.Name, &pitcher, &catcher, &excl, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return p, err
	}
	p.IsPitcher = pitcher != 0
	p.IsCatcher = catcher != 0
	codes, err := unmarshalStrings(excl)
	if err != nil {
		return p, fmt.Errorf("player %s excluded positions: %w", p.ID, err)
	}
	p.ExcludedPositions, err = domain.ParsePositions(codes)
	return p, err
}

// InsertPlayer appends the player at the end of the team's roster order.
func (r Repo) InsertPlayer(ctx context.Context, tx *sql.Tx, p domain.Player) error {
	excl, err := json.Marshal(positionCodes(p.ExcludedPositions))
	if err != nil {
		return err
	}
	_, err = r.on(tx).ExecContext(ctx, `INSERT INTO players(id,team_id,name,roster_order,is_pitcher,is_catcher,excluded_positions_json,created_at,updated_at)
VALUES (?,?,?,(SELECT COALESCE(MAX(roster_order),0)+1 FROM players WHERE team_id=?),?,?,?,?,?)`,
		p.ID, p.TeamID, p.Name, p.TeamID, boolInt(p.IsPitcher), boolInt(p.IsCatcher), string(excl), p.CreatedAt, p.UpdatedAt)
	return err
}

func (r Repo) UpdatePlayer(ctx context.Context, tx *sql.Tx, p domain.Player) error {
	excl, err := json.Marshal(positionCodes(p.ExcludedPositions))
	if err != nil {
		return err
	}
	res, err := r.on(tx).ExecContext(ctx, `UPDATE players SET name=?,is_pitcher=?,is_catcher=?,excluded_positions_json=?,updated_at=? WHERE id=? AND team_id=?`,
		p.Name, boolInt(p.IsPitcher), boolInt(p.IsCatcher), string(excl), p.UpdatedAt, p.ID, p.TeamID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("player %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r Repo) DeletePlayer(ctx context.Context, tx *sql.Tx, teamID, id string) error {
	res, err := r.on(tx).ExecContext(ctx, `DELETE FROM players WHERE id=? AND team_id=?`, id, teamID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r Repo) GetPlayer(ctx context.Context, teamID, id string) (domain.Player, error) {
	p, err := scanPlayer(r.DB.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id=? AND team_id=?`, id, teamID))
	if err == sql.ErrNoRows {
		return p, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return p, err
}

// ListPlayers returns the team roster in roster order.
func (r Repo) ListPlayers(ctx context.Context, teamID string) ([]domain.Player, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+playerColumns+` FROM players WHERE team_id=? ORDER BY roster_order, id`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func positionCodes(ps []domain.Position) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, string(p))
	}
	return out
}
