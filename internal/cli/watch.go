package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/discman/internal/live"
	"github.com/roach88/discman/internal/model"
)

// signalContext returns a context cancelled by SIGINT/SIGTERM or by the
// command's own context (for tests).
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		interval time.Duration
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "watch <courses|players|games|holes> [course-id]",
		Short: "Print a list every time it changes",
		Long: `Print the current result of a list query, then print it again after
every change, including changes made by other processes, until interrupted.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			q, err := live.ParseQuery(args[0])
			if err != nil {
				return a.out.Fail(ExitCommandError, ErrCodeInvalid, err.Error(), nil)
			}

			key := live.Key{Query: q}
			if q == live.HolesForCourse {
				if len(args) != 2 {
					return a.out.Fail(ExitCommandError, ErrCodeInvalid, "holes needs a course id", nil)
				}
				if key.CourseID, err = a.parseID("course id", args[1]); err != nil {
					return err
				}
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			hub := live.NewHub(a.store, live.WithLogger(a.logger))
			defer hub.Close()

			go func() {
				if err := a.store.WatchExternal(ctx, interval); err != nil {
					a.logger.Error("external change polling stopped", "error", err)
				}
			}()

			sub, err := hub.Watch(ctx, key)
			if err != nil {
				return a.fail("watch "+key.String(), err)
			}
			defer sub.Close()

			printed := 0
			for snap := range sub.C {
				if err := printSnapshot(a, key, snap); err != nil {
					return err
				}
				printed++
				if limit > 0 && printed >= limit {
					return nil
				}
			}
			return nil
		}),
	}

	cmd.Flags().DurationVar(&interval, "poll", 500*time.Millisecond, "how often to check for changes from other processes")
	cmd.Flags().IntVar(&limit, "count", 0, "exit after printing this many snapshots (0 = until interrupted)")

	return cmd
}

func printSnapshot(a *app, key live.Key, snap any) error {
	if a.out.Format == "json" {
		return json.NewEncoder(a.out.Writer).Encode(map[string]any{"query": key.String(), "data": snap})
	}

	w := a.out.Writer
	fmt.Fprintf(w, "--- %s\n", key)
	switch rows := snap.(type) {
	case []model.Course:
		for _, c := range rows {
			fmt.Fprintf(w, "%4d  %s\n", c.ID, c.Name)
		}
	case []model.Hole:
		for _, h := range rows {
			fmt.Fprintf(w, "%4d  par %d\n", h.HoleNumber, h.Par)
		}
	case []model.Player:
		for _, p := range rows {
			fmt.Fprintf(w, "%4d  %s\n", p.ID, p.Name)
		}
	case []model.Game:
		for _, g := range rows {
			fmt.Fprintf(w, "%4d  course %d  %s\n", g.ID, g.CourseID, g.StartDate.Format("2006-01-02 15:04"))
		}
	}
	return nil
}
