// Package lineup builds per-inning defensive assignments for a game.
//
// Generation is a single synchronous pass over the innings. Bench time is planned up
// front, then each inning picks a pitcher, a catcher and the seven field positions from
// whoever is left. Every random choice goes through the Generator's own source, so a
// seed fully determines the result.
package lineup

import (
	"errors"
	"fmt"

	"fieldday/internal/domain"
)

// FieldSlots is the number of defensive positions filled each inning.
const FieldSlots = 9

var (
	ErrInvalidInnings  = errors.New("innings must be positive")
	ErrUnknownPlayer   = errors.New("available player not on roster")
	ErrDuplicatePlayer = errors.New("duplicate player id on roster")
	ErrSeedRange       = errors.New("seed out of range")
)

// FilterAvailable returns the roster players marked available for the game, in roster order.
func FilterAvailable(roster []domain.Player, game domain.Game) []domain.Player {
	avail := make(map[string]struct{}, len(game.AvailablePlayerIDs))
	for _, id := range game.AvailablePlayerIDs {
		avail[id] = struct{}{}
	}
	out := make([]domain.Player, 0, len(avail))
	for _, p := range roster {
		if _, ok := avail[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ValidateInput checks the caller-side preconditions for Generate.
// Generate itself never fails; this runs before it.
func ValidateInput(roster []domain.Player, game domain.Game) error {
	if game.Innings <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidInnings, game.Innings)
	}
	ids := make(map[string]struct{}, len(roster))
	for _, p := range roster {
		if _, dup := ids[p.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.ID)
		}
		ids[p.ID] = struct{}{}
	}
	for _, id := range game.AvailablePlayerIDs {
		if _, ok := ids[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
		}
	}
	return nil
}
