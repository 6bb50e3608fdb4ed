package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/discman/internal/game"
	"github.com/roach88/discman/internal/model"
	"github.com/roach88/discman/internal/scoring"
)

// gameDetail is the JSON shape of `game show` and `game throw`.
type gameDetail struct {
	game.State
	Leaderboard []scoring.PlayerScore `json:"leaderboard"`
}

// gameSummary is the JSON shape of a `game list` entry.
type gameSummary struct {
	model.Game
	CourseName string `json:"course_name"`
}

// NewGameCommand creates the game command group.
func NewGameCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Start, score and share games",
	}

	cmd.AddCommand(newGameStartCommand(rootOpts))
	cmd.AddCommand(newGameListCommand(rootOpts))
	cmd.AddCommand(newGameShowCommand(rootOpts))
	cmd.AddCommand(newGameThrowCommand(rootOpts))
	cmd.AddCommand(newGameShareCommand(rootOpts))
	cmd.AddCommand(newGameDeleteCommand(rootOpts))

	return cmd
}

func newGameStartCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		courseID  int64
		playerIDs []int64
	)

	cmd := &cobra.Command{
		Use:   "start --course <id> --player <id> [--player <id>...]",
		Short: "Start a game with every throw set to par",
		Args:  cobra.NoArgs,
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()
			sess := game.NewSession(a.store, game.WithLogger(a.logger))

			if courseID > 0 {
				if err := sess.SelectCourse(ctx, courseID); err != nil {
					return a.fail("select course", err)
				}
			}
			for _, id := range playerIDs {
				if _, err := sess.TogglePlayerID(ctx, id); err != nil {
					return a.fail("select player", err)
				}
			}

			g, err := sess.StartGame(ctx)
			if err != nil {
				return a.fail("start game", err)
			}

			d := gameDetail{State: sess.Snapshot(), Leaderboard: sess.Leaderboard()}
			return a.out.Render(d, func(w io.Writer) {
				fmt.Fprintf(w, "Started game %d on %s with %d player(s)\n", g.ID, d.Course.Name, len(d.Players))
			})
		}),
	}

	cmd.Flags().Int64Var(&courseID, "course", 0, "course ID")
	cmd.Flags().Int64SliceVar(&playerIDs, "player", nil, "player ID (repeatable)")

	return cmd
}

func newGameListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games, most recent first",
		Args:  cobra.NoArgs,
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()
			games, err := a.store.ListGames(ctx)
			if err != nil {
				return a.fail("list games", err)
			}

			names := map[int64]string{}
			rows := make([]gameSummary, 0, len(games))
			for _, g := range games {
				name, ok := names[g.CourseID]
				if !ok {
					c, _, err := a.store.GetCourse(ctx, g.CourseID)
					if err != nil {
						return a.fail("list games", err)
					}
					name = c.Name
					names[g.CourseID] = name
				}
				rows = append(rows, gameSummary{Game: g, CourseName: name})
			}

			return a.out.Render(rows, func(w io.Writer) {
				if len(rows) == 0 {
					fmt.Fprintln(w, "No games.")
					return
				}
				for _, r := range rows {
					fmt.Fprintf(w, "%4d  %s  %s\n", r.ID, r.StartDate.Format("2006-01-02 15:04"), r.CourseName)
				}
			})
		}),
	}
}

// loadSession parses a game ID argument and loads the game.
func loadSession(cmd *cobra.Command, a *app, arg string) (*game.Session, error) {
	id, err := a.parseID("game id", arg)
	if err != nil {
		return nil, err
	}
	sess := game.NewSession(a.store, game.WithLogger(a.logger))
	if err := sess.LoadGame(cmd.Context(), id); err != nil {
		return nil, a.fail("load game", err)
	}
	return sess, nil
}

func renderGame(a *app, sess *game.Session) error {
	d := gameDetail{State: sess.Snapshot(), Leaderboard: sess.Leaderboard()}
	return a.out.Render(d, func(w io.Writer) {
		printScorecard(w, d, sess.Scores())
	})
}

// printScorecard writes one row per player with throws per hole, then the
// leaderboard.
func printScorecard(w io.Writer, d gameDetail, scores []scoring.PlayerScore) {
	fmt.Fprintf(w, "Game %d  %s  %s\n", d.Game.ID, d.Course.Name, d.Game.StartDate.Format(scoring.ShareDateLayout))

	var b strings.Builder
	fmt.Fprintf(&b, "%-16s", "Hole")
	for _, h := range d.Holes {
		fmt.Fprintf(&b, "%4d", h.HoleNumber)
	}
	fmt.Fprintf(w, "%s  Total\n", b.String())

	b.Reset()
	fmt.Fprintf(&b, "%-16s", "Par")
	for _, h := range d.Holes {
		fmt.Fprintf(&b, "%4d", h.Par)
	}
	fmt.Fprintf(w, "%s  %5d\n", b.String(), model.TotalPar(d.Holes))

	for _, ps := range scores {
		b.Reset()
		fmt.Fprintf(&b, "%-16s", ps.Player.Name)
		for _, h := range d.Holes {
			fmt.Fprintf(&b, "%4d", ps.HoleScores[h.HoleNumber])
		}
		fmt.Fprintf(w, "%s  %5d\n", b.String(), ps.TotalThrows)
	}

	fmt.Fprintln(w)
	for i, ps := range d.Leaderboard {
		fmt.Fprintf(w, "%d. %s: %s\n", i+1, ps.Player.Name, scoring.FormatRelative(ps.TotalScore))
	}
}

func newGameShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <game-id>",
		Short: "Show a game's scorecard and leaderboard",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			sess, err := loadSession(cmd, a, args[0])
			if err != nil {
				return err
			}
			return renderGame(a, sess)
		}),
	}
}

func newGameThrowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "throw <game-id> <player-id> <hole-number> <throws>",
		Short: "Record a player's throws on one hole",
		Args:  cobra.ExactArgs(4),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			sess, err := loadSession(cmd, a, args[0])
			if err != nil {
				return err
			}
			playerID, err := a.parseID("player id", args[1])
			if err != nil {
				return err
			}
			hole, err := a.parseInt("hole number", args[2])
			if err != nil {
				return err
			}
			throws, err := a.parseInt("throws", args[3])
			if err != nil {
				return err
			}

			if _, ok := sess.Cell(playerID, hole); !ok {
				a.out.VerboseLog("player %d has no hole %d in this game; nothing changed", playerID, hole)
			}
			if err := sess.UpdatePlayerThrows(cmd.Context(), playerID, hole, throws); err != nil {
				return a.fail("record throws", err)
			}
			return renderGame(a, sess)
		}),
	}
}

func newGameShareCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "share <game-id>",
		Short: "Print a game's results as shareable text",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			sess, err := loadSession(cmd, a, args[0])
			if err != nil {
				return err
			}
			text, err := sess.ShareText()
			if err != nil {
				return a.fail("share game", err)
			}
			return a.out.Render(map[string]string{"text": text}, func(w io.Writer) {
				fmt.Fprint(w, text)
			})
		}),
	}
}

func newGameDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Delete a game with its roster and throws",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := a.parseID("game id", args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteGame(cmd.Context(), id); err != nil {
				return a.fail("delete game", err)
			}
			return a.out.Render(map[string]int64{"game_id": id}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted game %d\n", id)
			})
		}),
	}
}
