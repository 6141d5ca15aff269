package repo

import (
	"context"
	"database/sql"
	"fmt"

	"fieldday/internal/domain"
)

const gameColumns = `id,team_id,COALESCE(opponent,''),COALESCE(game_date,''),innings,available_json,created_at,updated_at`

func scanGame(row rowScanner) (domain.Game, error) {
	var g domain.Game
	var avail string
	if err := row.Scan(&g.ID, &g.TeamID, &g.Opponent, &g.Date, &g.Innings, &avail, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return g, err
	}
	ids, err := unmarshalStrings(avail)
	g.AvailablePlayerIDs = ids
	return g, err
}

func (r Repo) InsertGame(ctx context.Context, tx *sql.Tx, g domain.Game) error {
	avail, err := marshalStrings(g.AvailablePlayerIDs)
	if err != nil {
		return err
	}
	_, err = r.on(tx).ExecContext(ctx, `INSERT INTO games(id,team_id,opponent,game_date,innings,available_json,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?)`,
		g.ID, g.TeamID, nullable(g.Opponent), nullable(g.Date), g.Innings, avail, g.CreatedAt, g.UpdatedAt)
	return err
}

// SetAvailability replaces the game's available player ids.
func (r Repo) SetAvailability(ctx context.Context, tx *sql.Tx, teamID, gameID string, playerIDs []string, updatedAt string) error {
	avail, err := marshalStrings(playerIDs)
	if err != nil {
		return err
	}
	res, err := r.on(tx).ExecContext(ctx, `UPDATE games SET available_json=?, updated_at=? WHERE id=? AND team_id=?`, avail, updatedAt, gameID, teamID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}
	return nil
}

func (r Repo) GetGame(ctx context.Context, teamID, id string) (domain.Game, error) {
	g, err := scanGame(r.DB.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id=? AND team_id=?`, id, teamID))
	if err == sql.ErrNoRows {
		return g, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	return g, err
}

func (r Repo) ListGames(ctx context.Context, teamID string) ([]domain.Game, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+gameColumns+` FROM games WHERE team_id=? ORDER BY COALESCE(game_date,''), created_at, id`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}
