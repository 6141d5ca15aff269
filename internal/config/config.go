package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config models fieldday.yml.
type Config struct {
	Team struct {
		ID   string `yaml:"id" json:"id"`
		Name string `yaml:"name" json:"name"`
	} `yaml:"team" json:"team"`
	Lineup struct {
		DefaultInnings  int `yaml:"default_innings" json:"default_innings"`
		PlayersOnField  int `yaml:"players_on_field" json:"players_on_field"`
		MaxInningsLimit int `yaml:"max_innings" json:"max_innings"`
	} `yaml:"lineup" json:"lineup"`
	RBAC struct {
		Roles map[string]RBACRole `yaml:"roles" json:"roles"`
	} `yaml:"rbac" json:"rbac"`
	Webhooks []WebhookConfig `yaml:"webhooks" json:"webhooks,omitempty"`
	Logging  struct {
		Level  string `yaml:"level" json:"level"`
		Format string `yaml:"format" json:"format"`
	} `yaml:"logging" json:"logging"`
}

type RBACRole struct {
	Description string   `yaml:"description" json:"description"`
	Permissions []string `yaml:"permissions" json:"permissions"`
}

type WebhookConfig struct {
	URL            string   `yaml:"url" json:"url"`
	Events         []string `yaml:"events" json:"events,omitempty"`
	Secret         string   `yaml:"secret" json:"secret,omitempty"`
	Enabled        *bool    `yaml:"enabled" json:"enabled,omitempty"`
	TimeoutSeconds int      `yaml:"timeout_seconds" json:"timeout_seconds,omitempty"`
}

// Permissions understood by the API and CLI.
const (
	PermTeamRead       = "team.read"
	PermRosterWrite    = "roster.write"
	PermGameWrite      = "game.write"
	PermLineupGenerate = "lineup.generate"
)

var knownPermissions = map[string]bool{
	PermTeamRead:       true,
	PermRosterWrite:    true,
	PermGameWrite:      true,
	PermLineupGenerate: true,
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; import with fd config import --file <path>", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Team.ID == "" {
		return fmt.Errorf("config.team.id is required")
	}
	if c.Lineup.DefaultInnings <= 0 {
		return fmt.Errorf("config.lineup.default_innings must be positive")
	}
	if c.Lineup.PlayersOnField != 0 && c.Lineup.PlayersOnField != 9 {
		return fmt.Errorf("config.lineup.players_on_field must be 9")
	}
	if c.Lineup.MaxInningsLimit < 0 {
		return fmt.Errorf("config.lineup.max_innings must not be negative")
	}
	if c.Lineup.MaxInningsLimit > 0 && c.Lineup.DefaultInnings > c.Lineup.MaxInningsLimit {
		return fmt.Errorf("config.lineup.default_innings exceeds max_innings")
	}
	if len(c.RBAC.Roles) > 0 {
		if _, ok := c.RBAC.Roles["coach"]; !ok {
			return fmt.Errorf("config.rbac.roles must include coach")
		}
		for roleID, role := range c.RBAC.Roles {
			if roleID == "" {
				return fmt.Errorf("config.rbac.roles contains empty role id")
			}
			for _, perm := range role.Permissions {
				if !knownPermissions[perm] {
					return fmt.Errorf("role %s has unknown permission %q", roleID, perm)
				}
			}
		}
	}
	for i, hook := range c.Webhooks {
		if hook.URL == "" {
			return fmt.Errorf("webhooks[%d].url is required", i)
		}
		if hook.TimeoutSeconds < 0 {
			return fmt.Errorf("webhooks[%d].timeout_seconds must not be negative", i)
		}
	}
	return nil
}

// RolePermissions returns the union of permissions granted by roles.
func (c *Config) RolePermissions(roles []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range roles {
		role, ok := c.RBAC.Roles[r]
		if !ok {
			continue
		}
		for _, p := range role.Permissions {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// applyDefaults fills sections a hand-written file may leave out.
func (c *Config) applyDefaults() {
	if c.Lineup.PlayersOnField == 0 {
		c.Lineup.PlayersOnField = 9
	}
	if len(c.RBAC.Roles) == 0 {
		var d Config
		_ = yaml.Unmarshal([]byte(GenerateDefault(c.Team.ID)), &d)
		c.RBAC.Roles = d.RBAC.Roles
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "fieldday.yml")
}

// GenerateDefault returns default config YAML.
func GenerateDefault(teamID string) string {
	return fmt.Sprintf(defaultTemplate, teamID, teamID)
}

// LoadOptional returns nil,nil if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Default returns the default Config struct for a team.
func Default(teamID string) *Config {
	var cfg Config
	_ = yaml.NewDecoder(bytes.NewBufferString(GenerateDefault(teamID))).Decode(&cfg)
	cfg.Team.ID = teamID
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `team:
  id: %s
  name: %s

lineup:
  default_innings: 6
  players_on_field: 9
  max_innings: 12

rbac:
  roles:
    coach:
      description: "Head coach; manages roster, games and lineups"
      permissions: [team.read, roster.write, game.write, lineup.generate]
    assistant:
      description: "Assistant coach; can schedule games and generate lineups"
      permissions: [team.read, game.write, lineup.generate]
    parent:
      description: "Read-only access to lineups"
      permissions: [team.read]

logging:
  level: info
  format: text
`
