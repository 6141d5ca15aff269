package server

import (
	"encoding/json"

	"fieldday/internal/config"
	"fieldday/internal/domain"
)

// Request payloads

type CreatePlayerRequest struct {
	ID                *string  `json:"id,omitempty"`
	Name              string   `json:"name" minLength:"1"`
	IsPitcher         bool     `json:"is_pitcher,omitempty"`
	IsCatcher         bool     `json:"is_catcher,omitempty"`
	ExcludedPositions []string `json:"excluded_positions,omitempty"`
}

type UpdatePlayerRequest struct {
	Name              *string   `json:"name,omitempty"`
	IsPitcher         *bool     `json:"is_pitcher,omitempty"`
	IsCatcher         *bool     `json:"is_catcher,omitempty"`
	ExcludedPositions *[]string `json:"excluded_positions,omitempty"`
}

type CreateGameRequest struct {
	ID                 *string  `json:"id,omitempty"`
	Opponent           string   `json:"opponent,omitempty"`
	Date               string   `json:"date,omitempty" format:"date"`
	Innings            int      `json:"innings,omitempty" minimum:"0"`
	AvailablePlayerIDs []string `json:"available_player_ids,omitempty"`
}

type SetAvailabilityRequest struct {
	PlayerIDs []string `json:"player_ids"`
}

type CreateCombinationRequest struct {
	PlayerIDs   []string `json:"player_ids" minItems:"1"`
	Description string   `json:"description,omitempty"`
}

type GenerateLineupRequest struct {
	Seed *uint64 `json:"seed,omitempty" maximum:"9007199254740991"`
}

type DevLoginRequest struct {
	ActorID string   `json:"actor_id"`
	Roles   []string `json:"roles,omitempty"`
}

// Response payloads

type TeamResponse struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Created string         `json:"created_at" format:"date-time"`
	Config  config.Config  `json:"config"`
	Members []MemberResult `json:"members"`
}

type MemberResult struct {
	ActorID string `json:"actor_id"`
	Role    string `json:"role"`
}

type EventResponse struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts" format:"date-time"`
	Type       string         `json:"type"`
	TeamID     string         `json:"team_id,omitempty"`
	EntityKind string         `json:"entity_kind"`
	EntityID   string         `json:"entity_id,omitempty"`
	ActorID    string         `json:"actor_id"`
	Payload    map[string]any `json:"payload,omitempty"`
}

type paginatedEvents struct {
	Items      []EventResponse `json:"items"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

type LineupStatsResponse struct {
	LineupID string                     `json:"lineup_id"`
	Stats    []domain.PlayerLineupStats `json:"stats"`
}

type WhoAmIResponse struct {
	ActorID     string   `json:"actor_id"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	Source      string   `json:"source"`
}

type DevLoginResponse struct {
	Token string `json:"token"`
}

func eventResponse(e domain.Event) EventResponse {
	return EventResponse{
		ID:         e.ID,
		TS:         e.TS,
		Type:       e.Type,
		TeamID:     e.TeamID,
		EntityKind: e.EntityKind,
		EntityID:   e.EntityID,
		ActorID:    e.ActorID,
		Payload:    decodeJSONMap(e.Payload),
	}
}

func decodeJSONMap(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return map[string]any{"raw": raw}
	}
	return out
}

func nonNilSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func strValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
