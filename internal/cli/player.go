package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/discman/internal/model"
)

// NewPlayerCommand creates the player command group.
func NewPlayerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Manage players",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List players by name",
		Args:  cobra.NoArgs,
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, _ []string) error {
			players, err := a.store.ListPlayers(cmd.Context())
			if err != nil {
				return a.fail("list players", err)
			}
			return a.out.Render(players, func(w io.Writer) {
				if len(players) == 0 {
					fmt.Fprintln(w, "No players.")
					return
				}
				for _, p := range players {
					fmt.Fprintf(w, "%4d  %s\n", p.ID, p.Name)
				}
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a player",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			p := model.Player{Name: model.NormalizeName(args[0])}
			if err := p.Validate(); err != nil {
				return a.out.Fail(ExitCommandError, ErrCodeInvalid, "invalid player", err)
			}

			id, err := a.store.InsertPlayer(cmd.Context(), p)
			if err != nil {
				return a.fail("add player", err)
			}
			p.ID = id
			return a.out.Render(p, func(w io.Writer) {
				fmt.Fprintf(w, "Added player %d: %s\n", p.ID, p.Name)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <player-id> <name>",
		Short: "Rename a player",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := a.parseID("player id", args[0])
			if err != nil {
				return err
			}

			p := model.Player{ID: id, Name: model.NormalizeName(args[1])}
			if err := p.Validate(); err != nil {
				return a.out.Fail(ExitCommandError, ErrCodeInvalid, "invalid player", err)
			}
			if err := a.store.UpdatePlayer(cmd.Context(), p); err != nil {
				return a.fail("rename player", err)
			}
			return a.out.Render(p, func(w io.Writer) {
				fmt.Fprintf(w, "Renamed player %d to %s\n", p.ID, p.Name)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <player-id>",
		Short: "Delete a player and their game entries",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := a.parseID("player id", args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeletePlayer(cmd.Context(), id); err != nil {
				return a.fail("delete player", err)
			}
			return a.out.Render(map[string]int64{"player_id": id}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted player %d\n", id)
			})
		}),
	})

	return cmd
}
