package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd, metricsCmd, usageCmd, playersCmd, sessionCmd, statsCmd, exportCmd, importCmd, saveCmd, clearCmd)

	playerAddCmd.Flags().String("position", "", "Preferred team position")
	playerAddCmd.Flags().String("notes", "", "Free-form notes")
	playersCmd.AddCommand(playerAddCmd, playerSearchCmd, playerDeleteCmd)

	matchCmd.Flags().String("player", "", "Roster id of our player")
	matchCmd.Flags().String("team", "", "Opponent's team")
	matchCmd.Flags().String("context", "practice", "practice, tournament or friendly")
	matchCmd.Flags().String("format", "", "sanbon or ippon (defaults to the settings)")
	teamCmd.Flags().String("context", "tournament", "practice, tournament or friendly")
	teamCmd.Flags().StringToString("lineup", nil, "position=playerID pairs")
	teamCmd.Flags().StringToString("opponents", nil, "position=name pairs")
	timerCmd.AddCommand(timerSub("start"), timerSub("pause"), timerSub("reset"))
	boutCmd.AddCommand(boutSub("end"), boutSub("skip"))
	sessionCmd.AddCommand(matchCmd, teamCmd, ipponCmd, undoCmd, timerCmd, endCmd, boutCmd, discardCmd)

	statsCmd.AddCommand(statsPlayerCmd, statsTeamCmd, statsTeamMatchesCmd)
	exportCmd.Flags().Bool("csv", false, "Export matches as CSV")
	exportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show lifetime usage counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/usage")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var playerAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a player to the roster",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		position, _ := cmd.Flags().GetString("position")
		notes, _ := cmd.Flags().GetString("notes")
		return performRequest(http.MethodPost, "/players", nil, map[string]string{
			"name":     strings.Join(args, " "),
			"position": position,
			"notes":    notes,
		})
	},
}

var playerSearchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Find roster players by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players/search", url.Values{"q": {strings.Join(args, " ")}}, nil)
	},
}

var playerDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a player; their matches are kept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, "/players/"+url.PathEscape(args[0]), nil, nil)
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the active recording session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/session")
	},
}

var matchCmd = &cobra.Command{
	Use:   "match <opponent>",
	Short: "Start recording an individual match",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"opponentName": strings.Join(args, " ")}
		for flag, key := range map[string]string{"player": "playerId", "team": "opponentTeam", "context": "context", "format": "format"} {
			if v, _ := cmd.Flags().GetString(flag); v != "" {
				body[key] = v
			}
		}
		return performRequest(http.MethodPost, "/session/match", nil, body)
	},
}

var teamCmd = &cobra.Command{
	Use:   "team <opponent team>",
	Short: "Start recording a 5-bout team match",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		context, _ := cmd.Flags().GetString("context")
		lineup, _ := cmd.Flags().GetStringToString("lineup")
		opponents, _ := cmd.Flags().GetStringToString("opponents")
		return performRequest(http.MethodPost, "/session/team", nil, map[string]any{
			"opponentTeamName": strings.Join(args, " "),
			"context":          context,
			"lineup":           lineup,
			"opponentLineup":   opponents,
		})
	},
}

var ipponCmd = &cobra.Command{
	Use:   "ippon <target> <self|opponent> [technique]",
	Short: "Record an ippon in one go",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := performRequest(http.MethodPost, "/session/target", nil, map[string]string{"target": args[0]}); err != nil {
			return err
		}
		if err := performRequest(http.MethodPost, "/session/scorer", nil, map[string]string{"scorer": args[1]}); err != nil {
			return err
		}
		if len(args) == 3 {
			return performRequest(http.MethodPost, "/session/technique", nil, map[string]string{"technique": args[2]})
		}
		// Skipping is harmless when the prompt is off; the server answers 409.
		err := performRequest(http.MethodPost, "/session/technique/skip", nil, nil)
		if err != nil && strings.Contains(err.Error(), "409") {
			return nil
		}
		return err
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Remove the last ippon",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/session/undo", nil, nil)
	},
}

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Control the match clock",
}

func timerSub(action string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: action + " the timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return performRequest(http.MethodPost, "/session/timer/"+action, nil, nil)
		},
	}
}

var endCmd = &cobra.Command{
	Use:   "end",
	Short: "End and save the individual match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/session/end", nil, nil)
	},
}

var boutCmd = &cobra.Command{
	Use:   "bout",
	Short: "Resolve the current team bout",
}

func boutSub(action string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: action + " the current bout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return performRequest(http.MethodPost, "/session/bout/"+action, nil, nil)
		},
	}
}

var discardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Abandon the active session without saving",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, "/session", nil, nil)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Read statistics",
}

var statsPlayerCmd = &cobra.Command{
	Use:   "player <id>",
	Short: "Show a player's report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/stats/players/" + url.PathEscape(args[0]))
	},
}

var statsTeamCmd = &cobra.Command{
	Use:   "team",
	Short: "Show team-wide statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/stats/team")
	},
}

var statsTeamMatchesCmd = &cobra.Command{
	Use:   "team-matches",
	Short: "Show the team match record",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/stats/team-matches")
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download a backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		asCSV, _ := cmd.Flags().GetBool("csv")
		output, _ := cmd.Flags().GetString("output")
		path := "/export"
		if asCSV {
			path = "/export/csv"
		}
		out := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer f.Close()
			out = f
		}
		return send(http.MethodGet, endpoint(path, nil), nil, out)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()
		return send(http.MethodPost, endpoint("/import", nil), f, os.Stdout)
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Persist everything now (when auto-save is off)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/save", nil, nil)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all players, matches and settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, "/data", nil, nil)
	},
}
