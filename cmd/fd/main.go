package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fieldday/internal/app"
	"fieldday/internal/config"
	"fieldday/internal/db"
	"fieldday/internal/engine"
	"fieldday/internal/logging"
	"fieldday/internal/metrics"
	"fieldday/internal/migrate"
	"fieldday/internal/repo"
	"fieldday/internal/roster"
	"fieldday/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "fd",
	Short: "Fieldday CLI",
	Long: `Fieldday builds fair youth-baseball lineups.
Core concepts:
- Workspace: the .fieldday directory holding the database; team config is stored in the DB and imported explicitly.
- Team: owns the roster, games, pairing hints and generated lineups.
- Roster: players in roster order, flagged as pitcher or catcher, with positions they should never play.
- Game: innings to play and the players available for it.
- Lineup: nine positions per inning plus a bench, rotated so playing time, infield and outfield stay balanced.
- Seed: every lineup records its seed; pass it back with --seed to reproduce the same lineup.
- Event log: diary of changes, view with 'fd log tail'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println("error:", err)
		stop()
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("FIELDDAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor-id", "local-user", "actor identifier")
	rootCmd.PersistentFlags().String("team", "", "team id (overrides workspace default)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides team config)")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("actor-id", rootCmd.PersistentFlags().Lookup("actor-id"))
	_ = viper.BindPFlag("team", rootCmd.PersistentFlags().Lookup("team"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func registerCommands() {
	rootCmd.AddCommand(teamCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(playerCmd())
	rootCmd.AddCommand(gameCmd())
	rootCmd.AddCommand(comboCmd())
	rootCmd.AddCommand(lineupCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(serveCmd())
}

func teamCmd() *cobra.Command {
	team := &cobra.Command{Use: "team", Short: "Manage the team"}
	team.AddCommand(teamInitCmd())
	team.AddCommand(teamShowCmd())
	team.AddCommand(teamGrantCmd())
	team.AddCommand(teamRevokeCmd())
	return team
}

func teamInitCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the team and make the current actor its coach",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			fileCfg, err := config.LoadOptional(workspace)
			if err != nil {
				return err
			}
			id := viper.GetString("team")
			if id == "" && fileCfg != nil {
				id = fileCfg.Team.ID
			}
			if id == "" {
				return fmt.Errorf("--team required")
			}
			cfg := config.Default(id)
			if fileCfg != nil && fileCfg.Team.ID == id {
				cfg = fileCfg
			}
			if name == "" {
				name = cfg.Team.Name
			}
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				e := engine.New(r.DB, cfg)
				e.Logger = newLogger(cfg)
				t, err := e.InitTeam(ctx, id, name, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func teamShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the team and its members",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				teamID := e.Config.Team.ID
				if err := authorize(ctx, e, config.PermTeamRead); err != nil {
					return err
				}
				t, err := e.Repo.GetTeam(ctx, teamID)
				if err != nil {
					return err
				}
				members, err := e.Repo.ListMembers(ctx, teamID)
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{"team": t, "members": members})
			})
		},
	}
	return cmd
}

func teamGrantCmd() *cobra.Command {
	var member, role string
	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Grant a role to a member",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermRosterWrite); err != nil {
					return err
				}
				return e.GrantRole(ctx, e.Config.Team.ID, member, role, viper.GetString("actor-id"))
			})
		},
	}
	cmd.Flags().StringVar(&member, "actor", "", "member actor id")
	cmd.Flags().StringVar(&role, "role", "", "role id")
	_ = cmd.MarkFlagRequired("actor")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func teamRevokeCmd() *cobra.Command {
	var member, role string
	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke a role from a member",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermRosterWrite); err != nil {
					return err
				}
				return e.RevokeRole(ctx, e.Config.Team.ID, member, role, viper.GetString("actor-id"))
			})
		},
	}
	cmd.Flags().StringVar(&member, "actor", "", "member actor id")
	cmd.Flags().StringVar(&role, "role", "", "role id")
	_ = cmd.MarkFlagRequired("actor")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Inspect team config",
		Long:  "Config is stored in the DB: innings defaults and limits, roles with their permissions, webhooks and logging. Import from fieldday.yml if desired.",
	}
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configValidateCmd())
	cfg.AddCommand(configImportCmd())
	return cfg
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show stored config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return printJSONOrTable(e.Config)
			})
		},
	}
	return cmd
}

func configValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate stored config",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.Config.Validate()
			})
			if viper.GetBool("json") {
				return printJSON(map[string]any{"ok": err == nil, "error": fmt.Sprint(err)})
			}
			if err != nil {
				return err
			}
			fmt.Println("config OK")
			return nil
		},
	}
	return cmd
}

func configImportCmd() *cobra.Command {
	var filePath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import team config from YAML into the DB",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromFile(filePath)
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermRosterWrite); err != nil {
					return err
				}
				if err := e.ImportConfig(ctx, e.Config.Team.ID, cfg, viper.GetString("actor-id")); err != nil {
					return err
				}
				return printJSONOrTable(cfg)
			})
		},
	}
	cmd.Flags().StringVar(&filePath, "file", "", "path to YAML config")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func playerCmd() *cobra.Command {
	player := &cobra.Command{
		Use:   "player",
		Short: "Manage the roster",
		Long:  "Players keep the order they were added in; that order breaks ties when positions are handed out.",
	}
	player.AddCommand(playerAddCmd())
	player.AddCommand(playerListCmd())
	player.AddCommand(playerUpdateCmd())
	player.AddCommand(playerRemoveCmd())
	player.AddCommand(playerImportCmd())
	return player
}

func playerAddCmd() *cobra.Command {
	var opts engine.PlayerOptions
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = args[0]
			opts.ActorID = viper.GetString("actor-id")
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermRosterWrite); err != nil {
					return err
				}
				opts.TeamID = e.Config.Team.ID
				p, err := e.CreatePlayer(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	cmd.Flags().StringVar(&opts.ID, "id", "", "player id (generated if omitted)")
	cmd.Flags().BoolVar(&opts.IsPitcher, "pitcher", false, "can pitch")
	cmd.Flags().BoolVar(&opts.IsCatcher, "catcher", false, "can catch")
	cmd.Flags().StringSliceVar(&opts.ExcludedPositions, "exclude", nil, "position never to play (repeatable, e.g. 1B,SS)")
	return cmd
}

func playerListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List players in roster order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermTeamRead); err != nil {
					return err
				}
				players, err := e.Repo.ListPlayers(ctx, e.Config.Team.ID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(players)
				}
				renderPlayers(os.Stdout, players)
				return nil
			})
		},
	}
	return cmd
}

func playerUpdateCmd() *cobra.Command {
	var name string
	var pitcher, catcher bool
	var exclude []string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engine.PlayerUpdateOptions{ID: args[0], ActorID: viper.GetString("actor-id")}
			if cmd.Flags().Changed("name") {
				opts.Name = &name
			}
			if cmd.Flags().Changed("pitcher") {
				opts.IsPitcher = &pitcher
			}
			if cmd.Flags().Changed("catcher") {
				opts.IsCatcher = &catcher
			}
			if cmd.Flags().Changed("exclude") {
				opts.ExcludedPositions = &exclude
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermRosterWrite); err != nil {
					return err
				}
				opts.TeamID = e.Config.Team.ID
				p, err := e.UpdatePlayer(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().BoolVar(&pitcher, "pitcher", false, "can pitch")
	cmd.Flags().BoolVar(&catcher, "catcher", false, "can catch")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "replace excluded positions (empty clears)")
	return cmd
}

func playerRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a player from the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermRosterWrite); err != nil {
					return err
				}
				return e.DeletePlayer(ctx, e.Config.Team.ID, args[0], viper.GetString("actor-id"))
			})
		},
	}
	return cmd
}

func playerImportCmd() *cobra.Command {
	var filePath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import players, pairing hints and games from a roster YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := roster.Load(filePath)
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermRosterWrite); err != nil {
					return err
				}
				res, err := e.ImportRoster(ctx, e.Config.Team.ID, f, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(res)
				}
				fmt.Printf("Imported %d players, %d pairing hints, %d games\n", len(res.Players), len(res.Combinations), len(res.Games))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&filePath, "file", "", "path to roster YAML")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func gameCmd() *cobra.Command {
	game := &cobra.Command{Use: "game", Short: "Manage games"}
	game.AddCommand(gameCreateCmd())
	game.AddCommand(gameListCmd())
	game.AddCommand(gameShowCmd())
	game.AddCommand(gameAvailCmd())
	return game
}

func gameCreateCmd() *cobra.Command {
	var opts engine.GameOptions
	var available []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a game",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ActorID = viper.GetString("actor-id")
			if cmd.Flags().Changed("available") {
				opts.AvailablePlayerIDs = available
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermGameWrite); err != nil {
					return err
				}
				opts.TeamID = e.Config.Team.ID
				g, err := e.CreateGame(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(g)
			})
		},
	}
	cmd.Flags().StringVar(&opts.ID, "id", "", "game id (generated if omitted)")
	cmd.Flags().StringVar(&opts.Opponent, "opponent", "", "opponent name")
	cmd.Flags().StringVar(&opts.Date, "date", "", "game date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.Innings, "innings", 0, "innings to schedule (config default when 0)")
	cmd.Flags().StringSliceVar(&available, "available", nil, "available player ids (whole roster when omitted)")
	return cmd
}

func gameListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermTeamRead); err != nil {
					return err
				}
				games, err := e.Repo.ListGames(ctx, e.Config.Team.ID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(games)
				}
				renderGames(os.Stdout, games)
				return nil
			})
		},
	}
	return cmd
}

func gameShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermTeamRead); err != nil {
					return err
				}
				g, err := e.Repo.GetGame(ctx, e.Config.Team.ID, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(g)
			})
		},
	}
	return cmd
}

func gameAvailCmd() *cobra.Command {
	var available []string
	cmd := &cobra.Command{
		Use:   "avail <game-id>",
		Short: "Replace the players available for a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermGameWrite); err != nil {
					return err
				}
				g, err := e.SetAvailability(ctx, e.Config.Team.ID, args[0], available, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSONOrTable(g)
			})
		},
	}
	cmd.Flags().StringSliceVar(&available, "players", nil, "available player ids")
	_ = cmd.MarkFlagRequired("players")
	return cmd
}

func comboCmd() *cobra.Command {
	combo := &cobra.Command{
		Use:   "combo",
		Short: "Manage pairing hints",
		Long:  "Pairing hints record players a coach likes to keep together. They are stored and listed; generation does not act on them yet.",
	}
	combo.AddCommand(comboAddCmd())
	combo.AddCommand(comboListCmd())
	combo.AddCommand(comboRemoveCmd())
	return combo
}

func comboAddCmd() *cobra.Command {
	var opts engine.CombinationOptions
	cmd := &cobra.Command{
		Use:   "add <player-id>...",
		Short: "Add a pairing hint",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.PlayerIDs = args
			opts.ActorID = viper.GetString("actor-id")
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermRosterWrite); err != nil {
					return err
				}
				opts.TeamID = e.Config.Team.ID
				c, err := e.CreateCombination(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(c)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Description, "description", "", "description")
	return cmd
}

func comboListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pairing hints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermTeamRead); err != nil {
					return err
				}
				items, err := e.Repo.ListCombinations(ctx, e.Config.Team.ID)
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	}
	return cmd
}

func comboRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a pairing hint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermRosterWrite); err != nil {
					return err
				}
				return e.DeleteCombination(ctx, e.Config.Team.ID, args[0], viper.GetString("actor-id"))
			})
		},
	}
	return cmd
}

func lineupCmd() *cobra.Command {
	l := &cobra.Command{
		Use:   "lineup",
		Short: "Generate and inspect lineups",
		Long:  "A lineup fills nine positions for every inning and benches the rest, rotating the bench and balancing infield and outfield time. Reuse a lineup's seed to reproduce it.",
	}
	l.AddCommand(lineupGenerateCmd())
	l.AddCommand(lineupShowCmd())
	l.AddCommand(lineupListCmd())
	l.AddCommand(lineupStatsCmd())
	return l
}

func lineupGenerateCmd() *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "generate <game-id>",
		Short: "Generate and store a lineup for a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engine.GenerateOptions{GameID: args[0], ActorID: viper.GetString("actor-id")}
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seed
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermLineupGenerate); err != nil {
					return err
				}
				opts.TeamID = e.Config.Team.ID
				res, err := e.GenerateLineup(ctx, opts)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(res)
				}
				fmt.Printf("Lineup %s for game %s (seed %d)\n", res.Lineup.ID, res.Lineup.GameID, res.Lineup.Seed)
				renderLineup(os.Stdout, res.Lineup)
				renderStats(os.Stdout, res.Stats)
				renderWarnings(os.Stdout, res)
				return nil
			})
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed to reproduce an earlier lineup (at most 2^53-1)")
	return cmd
}

func lineupShowCmd() *cobra.Command {
	var gameID string
	cmd := &cobra.Command{
		Use:   "show [lineup-id]",
		Short: "Show a stored lineup, or the latest for --game",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && gameID == "" {
				return fmt.Errorf("lineup id or --game required")
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermTeamRead); err != nil {
					return err
				}
				var (
					stored repo.StoredLineup
					err    error
				)
				if len(args) == 1 {
					stored, err = e.Repo.GetLineup(ctx, e.Config.Team.ID, args[0])
				} else {
					stored, err = e.Repo.LatestLineup(ctx, e.Config.Team.ID, gameID)
				}
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(stored.Lineup)
				}
				fmt.Printf("Lineup %s for game %s (seed %d, %s)\n", stored.ID, stored.GameID, stored.Seed, stored.CreatedAt)
				renderLineup(os.Stdout, stored.Lineup)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&gameID, "game", "", "show the latest lineup for this game")
	return cmd
}

func lineupListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <game-id>",
		Short: "List lineups generated for a game, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermTeamRead); err != nil {
					return err
				}
				items, err := e.Repo.ListLineups(ctx, e.Config.Team.ID, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				renderLineupHistory(os.Stdout, items)
				return nil
			})
		},
	}
	return cmd
}

func lineupStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <lineup-id>",
		Short: "Per-player innings for a stored lineup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermTeamRead); err != nil {
					return err
				}
				stats, err := e.LineupStats(ctx, e.Config.Team.ID, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(stats)
				}
				renderStats(os.Stdout, stats)
				return nil
			})
		},
	}
	return cmd
}

func logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Event log",
		Long:  "The diary of everything that happened: roster edits, games, generated lineups and role changes.",
	}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var n int
	var f repo.EventFilter
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := authorize(ctx, e, config.PermTeamRead); err != nil {
					return err
				}
				f.TeamID = e.Config.Team.ID
				events, err := e.Repo.LatestEvents(ctx, n, 0, f)
				if err != nil {
					return err
				}
				return printJSONOrTable(events)
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&f.Type, "type", "", "event type filter")
	cmd.Flags().StringVar(&f.EntityKind, "entity-kind", "", "entity kind")
	cmd.Flags().StringVar(&f.EntityID, "entity-id", "", "entity id")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	var devLogin, legacyActor bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			conn, err := db.Open(db.Config{Workspace: workspace})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			r := repo.Repo{DB: conn}
			_, cfg, err := app.ResolveTeamAndConfig(cmd.Context(), workspace, viper.GetString("team"), r)
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			e := engine.New(conn, cfg)
			e.Logger = log
			e.Metrics = metrics.NewRecorder()
			authCfg := server.AuthConfig{
				JWTSecret:              viper.GetString("jwt-secret"),
				AllowLegacyActorHeader: legacyActor,
				EnableDevLogin:         devLogin,
				Logger:                 log,
			}
			if authCfg.JWTSecret == "" {
				return fmt.Errorf("FIELDDAY_JWT_SECRET is required for bearer auth")
			}
			handler, err := server.New(server.Config{Engine: e, BasePath: basePath, Auth: authCfg, Logger: log})
			if err != nil {
				return err
			}
			server.StartWebhooks(cmd.Context(), e, log)
			srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			log.WithField("addr", addr).WithField(logging.FieldTeam, cfg.Team.ID).Info("serving fieldday api")
			fmt.Printf("Serving Fieldday API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs)\n", addr, basePath, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	cmd.Flags().String("jwt-secret", "", "HS256 secret for bearer tokens (env FIELDDAY_JWT_SECRET)")
	cmd.Flags().BoolVar(&devLogin, "dev-login", false, "expose POST /auth/dev/login (local testing only)")
	cmd.Flags().BoolVar(&legacyActor, "allow-actor-header", false, "trust X-Actor-Id without a token (local testing only)")
	_ = viper.BindPFlag("jwt-secret", cmd.Flags().Lookup("jwt-secret"))
	return cmd
}

// --- helpers ---

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	r := repo.Repo{DB: conn}
	_, cfg, err := app.ResolveTeamAndConfig(ctx, workspace, viper.GetString("team"), r)
	if err != nil {
		return err
	}
	e := engine.New(conn, cfg)
	e.Logger = newLogger(cfg)
	return fn(ctx, e)
}

func withRepo(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	r := repo.Repo{DB: conn}
	return fn(ctx, r)
}

func authorize(ctx context.Context, e engine.Engine, perm string) error {
	return e.Authorize(ctx, e.Config.Team.ID, viper.GetString("actor-id"), perm)
}

func newLogger(cfg *config.Config) *logrus.Logger {
	level := cfg.Logging.Level
	if override := viper.GetString("log-level"); override != "" {
		level = override
	}
	return logging.New(level, cfg.Logging.Format)
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
