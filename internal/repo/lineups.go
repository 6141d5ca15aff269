package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"fieldday/internal/domain"
)

// StoredLineup is a persisted lineup with its owning team.
type StoredLineup struct {
	TeamID string
	domain.Lineup
}

func (r Repo) InsertLineup(ctx context.Context, tx *sql.Tx, teamID string, l domain.Lineup) error {
	innings, err := json.Marshal(l.Innings)
	if err != nil {
		return fmt.Errorf("marshal innings: %w", err)
	}
	playerIDs := l.PlayerIDs
	if playerIDs == nil {
		playerIDs = []string{}
	}
	players, err := json.Marshal(playerIDs)
	if err != nil {
		return fmt.Errorf("marshal player ids: %w", err)
	}
	// uint64 seeds may exceed the signed range of an SQLite integer.
	_, err = r.on(tx).ExecContext(ctx, `INSERT INTO lineups(id,team_id,game_id,seed,innings_json,player_ids_json,created_at) VALUES (?,?,?,?,?,?,?)`,
		l.ID, teamID, l.GameID, strconv.FormatUint(l.Seed, 10), string(innings), string(players), l.CreatedAt)
	return err
}

func scanLineup(row rowScanner) (StoredLineup, error) {
	var s StoredLineup
	var seed, innings, players string
	if err := row.Scan(&s.ID, &s.TeamID, &s.GameID, &seed, &innings, &players, &s.CreatedAt); err != nil {
		return s, err
	}
	v, err := strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return s, fmt.Errorf("lineup %s seed: %w", s.ID, err)
	}
	s.Seed = v
	if err := json.Unmarshal([]byte(innings), &s.Innings); err != nil {
		return s, fmt.Errorf("lineup %s innings: %w", s.ID, err)
	}
	if err := json.Unmarshal([]byte(players), &s.PlayerIDs); err != nil {
		return s, fmt.Errorf("lineup %s player ids: %w", s.ID, err)
	}
	return s, nil
}

func (r Repo) GetLineup(ctx context.Context, teamID, id string) (StoredLineup, error) {
	s, err := scanLineup(r.DB.QueryRowContext(ctx, `SELECT id,team_id,game_id,seed,innings_json,player_ids_json,created_at FROM lineups WHERE id=? AND team_id=?`, id, teamID))
	if err == sql.ErrNoRows {
		return s, fmt.Errorf("lineup %s: %w", id, ErrNotFound)
	}
	return s, err
}

// LatestLineup returns the most recently generated lineup for a game.
func (r Repo) LatestLineup(ctx context.Context, teamID, gameID string) (StoredLineup, error) {
	s, err := scanLineup(r.DB.QueryRowContext(ctx, `SELECT id,team_id,game_id,seed,innings_json,player_ids_json,created_at FROM lineups
WHERE team_id=? AND game_id=? ORDER BY created_at DESC, rowid DESC LIMIT 1`, teamID, gameID))
	if err == sql.ErrNoRows {
		return s, fmt.Errorf("lineup for game %s: %w", gameID, ErrNotFound)
	}
	return s, err
}

// ListLineups returns a game's lineups, newest first.
func (r Repo) ListLineups(ctx context.Context, teamID, gameID string) ([]StoredLineup, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,team_id,game_id,seed,innings_json,player_ids_json,created_at FROM lineups
WHERE team_id=? AND game_id=? ORDER BY created_at DESC, rowid DESC`, teamID, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []StoredLineup{}
	for rows.Next() {
		s, err := scanLineup(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}
