// Package roster reads team roster files: players, pairing hints and games.
package roster

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"fieldday/internal/domain"
)

var ErrInvalidRoster = errors.New("invalid roster")

// File is the on-disk roster format. Players are referenced by name elsewhere in the file.
type File struct {
	Players      []PlayerEntry      `yaml:"players"`
	Combinations []CombinationEntry `yaml:"combinations"`
	Games        []GameEntry        `yaml:"games"`
}

type PlayerEntry struct {
	Name              string   `yaml:"name"`
	Pitcher           bool     `yaml:"pitcher"`
	Catcher           bool     `yaml:"catcher"`
	ExcludedPositions []string `yaml:"excluded_positions"`
}

type CombinationEntry struct {
	Players     []string `yaml:"players"`
	Description string   `yaml:"description"`
}

type GameEntry struct {
	Opponent string `yaml:"opponent"`
	Date     string `yaml:"date"`
	Innings  int    `yaml:"innings"`
	// Available lists player names; empty means the whole roster.
	Available []string `yaml:"available"`
}

// Parse decodes and validates a roster file.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads a roster file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (f *File) Validate() error {
	names := map[string]bool{}
	for i, p := range f.Players {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("%w: players[%d].name is required", ErrInvalidRoster, i)
		}
		if names[name] {
			return fmt.Errorf("%w: duplicate player %q", ErrInvalidRoster, name)
		}
		names[name] = true
		if _, err := domain.ParsePositions(p.ExcludedPositions); err != nil {
			return fmt.Errorf("%w: player %q: %v", ErrInvalidRoster, name, err)
		}
	}
	for i, c := range f.Combinations {
		if len(c.Players) == 0 {
			return fmt.Errorf("%w: combinations[%d] has no players", ErrInvalidRoster, i)
		}
		for _, n := range c.Players {
			if !names[strings.TrimSpace(n)] {
				return fmt.Errorf("%w: combinations[%d] references unknown player %q", ErrInvalidRoster, i, n)
			}
		}
	}
	for i, g := range f.Games {
		if g.Innings < 0 {
			return fmt.Errorf("%w: games[%d].innings must not be negative", ErrInvalidRoster, i)
		}
		if g.Date != "" {
			if _, err := time.Parse(time.DateOnly, g.Date); err != nil {
				return fmt.Errorf("%w: games[%d].date must be YYYY-MM-DD", ErrInvalidRoster, i)
			}
		}
		for _, n := range g.Available {
			if !names[strings.TrimSpace(n)] {
				return fmt.Errorf("%w: games[%d] references unknown player %q", ErrInvalidRoster, i, n)
			}
		}
	}
	return nil
}

// Resolved is a roster file bound to generated ids.
type Resolved struct {
	Players      []domain.Player
	Combinations []domain.PlayerCombination
	Games        []domain.Game
}

// Resolve assigns ids with newID and maps name references to player ids.
// The file must already be valid.
func (f *File) Resolve(teamID string, newID func() string) Resolved {
	var out Resolved
	byName := map[string]string{}
	for _, e := range f.Players {
		excl, _ := domain.ParsePositions(e.ExcludedPositions)
		p := domain.Player{
			ID:                newID(),
			TeamID:            teamID,
			Name:              strings.TrimSpace(e.Name),
			IsPitcher:         e.Pitcher,
			IsCatcher:         e.Catcher,
			ExcludedPositions: excl,
		}
		byName[p.Name] = p.ID
		out.Players = append(out.Players, p)
	}
	idsFor := func(names []string) []string {
		ids := make([]string, 0, len(names))
		for _, n := range names {
			ids = append(ids, byName[strings.TrimSpace(n)])
		}
		return ids
	}
	for _, c := range f.Combinations {
		out.Combinations = append(out.Combinations, domain.PlayerCombination{
			ID:          newID(),
			TeamID:      teamID,
			PlayerIDs:   idsFor(c.Players),
			Description: c.Description,
		})
	}
	for _, g := range f.Games {
		avail := g.Available
		if len(avail) == 0 {
			avail = make([]string, 0, len(f.Players))
			for _, p := range out.Players {
				avail = append(avail, p.Name)
			}
		}
		out.Games = append(out.Games, domain.Game{
			ID:                 newID(),
			TeamID:             teamID,
			Opponent:           g.Opponent,
			Date:               g.Date,
			Innings:            g.Innings,
			AvailablePlayerIDs: idsFor(avail),
		})
	}
	return out
}
