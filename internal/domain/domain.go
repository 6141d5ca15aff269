package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPosition is returned when a position code is not one of the nine defensive slots.
var ErrUnknownPosition = errors.New("unknown position")

type Position string

const (
	Catcher     Position = "C"
	Pitcher     Position = "P"
	FirstBase   Position = "1B"
	SecondBase  Position = "2B"
	Shortstop   Position = "SS"
	ThirdBase   Position = "3B"
	LeftField   Position = "LF"
	CenterField Position = "CF"
	RightField  Position = "RF"
)

// Positions lists every slot in the order an inning's assignments are reported.
var Positions = []Position{Pitcher, Catcher, FirstBase, SecondBase, Shortstop, ThirdBase, LeftField, CenterField, RightField}

var (
	InfieldPositions  = []Position{FirstBase, SecondBase, Shortstop, ThirdBase}
	OutfieldPositions = []Position{LeftField, CenterField, RightField}
)

type Category string

const (
	CategoryPitching Category = "pitching"
	CategoryCatching Category = "catching"
	CategoryInfield  Category = "infield"
	CategoryOutfield Category = "outfield"
)

func (p Position) IsInfield() bool {
	switch p {
	case FirstBase, SecondBase, Shortstop, ThirdBase:
		return true
	}
	return false
}

func (p Position) IsOutfield() bool {
	switch p {
	case LeftField, CenterField, RightField:
		return true
	}
	return false
}

// Category returns the playing-time bucket the position counts toward.
func (p Position) Category() Category {
	switch {
	case p == Pitcher:
		return CategoryPitching
	case p == Catcher:
		return CategoryCatching
	case p.IsInfield():
		return CategoryInfield
	default:
		return CategoryOutfield
	}
}

func (p Position) Valid() bool {
	for _, pos := range Positions {
		if pos == p {
			return true
		}
	}
	return false
}

// ParsePosition accepts position codes in any case ("ss", "Ss", "SS").
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPosition, s)
	}
	return p, nil
}

// ParsePositions parses a list of codes, dropping duplicates.
func ParsePositions(in []string) ([]Position, error) {
	var out []Position
	seen := map[Position]bool{}
	for _, s := range in {
		p, err := ParsePosition(s)
		if err != nil {
			return nil, err
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

type Team struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

type Player struct {
	ID                string     `json:"id"`
	TeamID            string     `json:"team_id"`
	Name              string     `json:"name"`
	IsPitcher         bool       `json:"is_pitcher"`
	IsCatcher         bool       `json:"is_catcher"`
	ExcludedPositions []Position `json:"excluded_positions,omitempty"`
	CreatedAt         string     `json:"created_at" format:"date-time"`
	UpdatedAt         string     `json:"updated_at" format:"date-time"`
}

// Excludes reports whether the player must never be assigned to pos.
func (p Player) Excludes(pos Position) bool {
	for _, ex := range p.ExcludedPositions {
		if ex == pos {
			return true
		}
	}
	return false
}

func (p Player) Ref() PlayerRef {
	return PlayerRef{ID: p.ID, Name: p.Name}
}

type Game struct {
	ID                 string   `json:"id"`
	TeamID             string   `json:"team_id"`
	Opponent           string   `json:"opponent,omitempty"`
	Date               string   `json:"date,omitempty"`
	Innings            int      `json:"innings"`
	AvailablePlayerIDs []string `json:"available_player_ids"`
	CreatedAt          string   `json:"created_at" format:"date-time"`
	UpdatedAt          string   `json:"updated_at" format:"date-time"`
}

type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PositionAssignment pairs a slot with its player. A nil Player is an unfilled slot.
type PositionAssignment struct {
	Position Position   `json:"position"`
	Player   *PlayerRef `json:"player,omitempty"`
}

func (a PositionAssignment) Filled() bool { return a.Player != nil }

type InningLineup struct {
	Inning      int                  `json:"inning"`
	Assignments []PositionAssignment `json:"assignments"`
	Bench       []PlayerRef          `json:"bench,omitempty"`
}

// Filled returns the assignments that have a player.
func (il InningLineup) Filled() []PositionAssignment {
	out := make([]PositionAssignment, 0, len(il.Assignments))
	for _, a := range il.Assignments {
		if a.Filled() {
			out = append(out, a)
		}
	}
	return out
}

// PlayerAt returns the player assigned to pos, if any.
func (il InningLineup) PlayerAt(pos Position) (PlayerRef, bool) {
	for _, a := range il.Assignments {
		if a.Position == pos && a.Player != nil {
			return *a.Player, true
		}
	}
	return PlayerRef{}, false
}

// Unfilled lists the positions left without a player.
func (il InningLineup) Unfilled() []Position {
	var out []Position
	for _, a := range il.Assignments {
		if !a.Filled() {
			out = append(out, a.Position)
		}
	}
	return out
}

type Lineup struct {
	ID      string         `json:"id"`
	GameID  string         `json:"game_id"`
	Seed    uint64         `json:"seed"`
	Innings []InningLineup `json:"innings"`
	// PlayerIDs are the players available when the lineup was generated, in roster order.
	PlayerIDs []string `json:"player_ids"`
	CreatedAt string   `json:"created_at" format:"date-time"`
}

type PlayerLineupStats struct {
	PlayerID        string `json:"player_id"`
	PlayerName      string `json:"player_name"`
	InfieldInnings  int    `json:"infield_innings"`
	OutfieldInnings int    `json:"outfield_innings"`
	PitchingInnings int    `json:"pitching_innings"`
	TotalInnings    int    `json:"total_innings"`
}

type PlayerCombination struct {
	ID          string   `json:"id"`
	TeamID      string   `json:"team_id"`
	PlayerIDs   []string `json:"player_ids"`
	Description string   `json:"description,omitempty"`
	CreatedAt   string   `json:"created_at" format:"date-time"`
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	TeamID     string `json:"team_id,omitempty"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Payload    string `json:"payload_json"`
}

// TeamMember grants an actor a config role on a team.
type TeamMember struct {
	TeamID    string `json:"team_id"`
	ActorID   string `json:"actor_id"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at" format:"date-time"`
}
