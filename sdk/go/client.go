package fielddaysdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Fieldday HTTP API client.
type Client struct {
	BaseURL     string
	TeamID      string
	BearerToken string
	// ActorID is sent as X-Actor-Id when no bearer token is set.
	ActorID    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL, teamID string) *Client {
	return &Client{
		BaseURL: baseURL,
		TeamID:  teamID,
		Timeout: 10 * time.Second,
	}
}

// Player represents the API player model.
type Player struct {
	ID                string   `json:"id"`
	TeamID            string   `json:"team_id"`
	Name              string   `json:"name"`
	IsPitcher         bool     `json:"is_pitcher"`
	IsCatcher         bool     `json:"is_catcher"`
	ExcludedPositions []string `json:"excluded_positions,omitempty"`
}

// Game represents the API game model.
type Game struct {
	ID                 string   `json:"id"`
	TeamID             string   `json:"team_id"`
	Opponent           string   `json:"opponent,omitempty"`
	Date               string   `json:"date,omitempty"`
	Innings            int      `json:"innings"`
	AvailablePlayerIDs []string `json:"available_player_ids"`
}

// PlayerRef names a player inside a lineup.
type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Assignment is one defensive position in an inning; Player is nil when unfilled.
type Assignment struct {
	Position string     `json:"position"`
	Player   *PlayerRef `json:"player,omitempty"`
}

// Inning is one inning of a lineup.
type Inning struct {
	Inning      int          `json:"inning"`
	Assignments []Assignment `json:"assignments"`
	Bench       []PlayerRef  `json:"bench,omitempty"`
}

// Lineup is a stored lineup.
type Lineup struct {
	ID        string   `json:"id"`
	GameID    string   `json:"game_id"`
	Seed      uint64   `json:"seed"`
	Innings   []Inning `json:"innings"`
	PlayerIDs []string `json:"player_ids,omitempty"`
	CreatedAt string   `json:"created_at"`
}

// PlayerStats summarizes one player's innings in a lineup.
type PlayerStats struct {
	PlayerID        string `json:"player_id"`
	PlayerName      string `json:"player_name"`
	InfieldInnings  int    `json:"infield_innings"`
	OutfieldInnings int    `json:"outfield_innings"`
	PitchingInnings int    `json:"pitching_innings"`
	TotalInnings    int    `json:"total_innings"`
}

// GeneratedLineup is the response of a generate call.
type GeneratedLineup struct {
	Lineup         Lineup         `json:"lineup"`
	Stats          []PlayerStats  `json:"stats"`
	BenchOverrides int            `json:"bench_overrides"`
	Unfilled       map[string]int `json:"unfilled,omitempty"`
}

// Event represents a log entry.
type Event struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts"`
	Type       string         `json:"type"`
	TeamID     string         `json:"team_id"`
	EntityID   string         `json:"entity_id"`
	EntityKind string         `json:"entity_kind"`
	ActorID    string         `json:"actor_id"`
	Payload    map[string]any `json:"payload"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// PaginatedEvents wraps list responses with cursors.
type PaginatedEvents struct {
	Items      []Event `json:"items"`
	NextCursor string  `json:"next_cursor"`
}

// CreatePlayer adds a player to the roster.
func (c *Client) CreatePlayer(ctx context.Context, name string, pitcher, catcher bool, excluded ...string) (Player, error) {
	body := map[string]any{
		"name":       name,
		"is_pitcher": pitcher,
		"is_catcher": catcher,
	}
	if len(excluded) > 0 {
		body["excluded_positions"] = excluded
	}
	var resp Player
	err := c.do(ctx, http.MethodPost, c.teamPath("players"), body, &resp)
	return resp, err
}

// ListPlayers returns the roster in roster order.
func (c *Client) ListPlayers(ctx context.Context) ([]Player, error) {
	var resp []Player
	err := c.do(ctx, http.MethodGet, c.teamPath("players"), nil, &resp)
	return resp, err
}

// CreateGame schedules a game. A nil available list means the whole roster.
func (c *Client) CreateGame(ctx context.Context, opponent string, innings int, available []string) (Game, error) {
	body := map[string]any{"opponent": opponent}
	if innings > 0 {
		body["innings"] = innings
	}
	if available != nil {
		body["available_player_ids"] = available
	}
	var resp Game
	err := c.do(ctx, http.MethodPost, c.teamPath("games"), body, &resp)
	return resp, err
}

// GenerateLineup generates and stores a lineup. A nil seed lets the server pick one.
func (c *Client) GenerateLineup(ctx context.Context, gameID string, seed *uint64) (GeneratedLineup, error) {
	body := map[string]any{}
	if seed != nil {
		body["seed"] = *seed
	}
	var resp GeneratedLineup
	endpoint := c.teamPath(fmt.Sprintf("games/%s/lineups", url.PathEscape(gameID)))
	err := c.do(ctx, http.MethodPost, endpoint, body, &resp)
	return resp, err
}

// LatestLineup returns the most recent lineup for a game.
func (c *Client) LatestLineup(ctx context.Context, gameID string) (Lineup, error) {
	var resp Lineup
	endpoint := c.teamPath(fmt.Sprintf("games/%s/lineups/latest", url.PathEscape(gameID)))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// LineupStats returns per-player stats for a stored lineup.
func (c *Client) LineupStats(ctx context.Context, lineupID string) ([]PlayerStats, error) {
	var resp struct {
		Stats []PlayerStats `json:"stats"`
	}
	endpoint := c.teamPath(fmt.Sprintf("lineups/%s/stats", url.PathEscape(lineupID)))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Stats, err
}

// Events returns recent events.
func (c *Client) Events(ctx context.Context, limit int) ([]Event, error) {
	page, err := c.EventsPage(ctx, limit, "")
	return page.Items, err
}

// EventsPage returns a paginated event listing.
func (c *Client) EventsPage(ctx context.Context, limit int, cursor string) (PaginatedEvents, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	endpoint := c.teamPath("events")
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp PaginatedEvents
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	switch {
	case c.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	case c.ActorID != "":
		req.Header.Set("X-Actor-Id", c.ActorID)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) teamPath(p string) string {
	team := url.PathEscape(c.TeamID)
	return fmt.Sprintf("v0/teams/%s/%s", team, strings.TrimLeft(p, "/"))
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
