package lineup

import (
	"github.com/sirupsen/logrus"

	"fieldday/internal/domain"
	"fieldday/internal/logging"
)

// applyPairingHints acknowledges "play these two together" hints whose players are both
// still unplaced this inning. Hints are advisory only: they are logged and never change
// an assignment or consume randomness.
//
// TODO: decide whether a hint should become a real constraint (e.g. adjacent positions)
// once coaches agree on what "together" means on the field.
func applyPairingHints(log logrus.FieldLogger, inning int, hints []domain.PlayerCombination, remaining []domain.Player) int {
	pool := make(map[string]bool, len(remaining))
	for _, p := range remaining {
		pool[p.ID] = true
	}
	acknowledged := 0
	for _, hint := range hints {
		if len(hint.PlayerIDs) != 2 {
			log.WithField("combination_id", hint.ID).Debug("skipping pairing hint without exactly two players")
			continue
		}
		a, b := hint.PlayerIDs[0], hint.PlayerIDs[1]
		if !pool[a] || !pool[b] {
			continue
		}
		log.WithFields(logrus.Fields{
			"combination_id":    hint.ID,
			"players":           []string{a, b},
			logging.FieldInning: inning,
			"description":       hint.Description,
		}).Info("pairing hint acknowledged; assignments unchanged")
		acknowledged++
	}
	return acknowledged
}
