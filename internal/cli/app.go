package cli

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/discman/internal/courseedit"
	"github.com/roach88/discman/internal/courseio"
	"github.com/roach88/discman/internal/game"
	"github.com/roach88/discman/internal/model"
	"github.com/roach88/discman/internal/store"
)

// app is the per-invocation context shared by commands: resolved options,
// an output formatter, a logger and an open store.
type app struct {
	opts   *RootOptions
	out    *OutputFormatter
	logger *slog.Logger
	store  *store.Store
}

// openApp opens the configured database. The caller must Close the app.
func openApp(cmd *cobra.Command, opts *RootOptions) (*app, error) {
	a := &app{
		opts: opts,
		out: &OutputFormatter{
			Format:    opts.Config.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
		logger: opts.Config.NewLogger(cmd.ErrOrStderr(), opts.Verbose),
	}

	a.logger.Debug("opening database", "path", opts.Config.Database)
	st, err := store.Open(opts.Config.Database)
	if err != nil {
		return nil, a.out.Fail(ExitCommandError, ErrCodeStore, "open database", err)
	}
	a.store = st
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
}

// fail maps a domain error to an error code and exit code and reports it.
func (a *app) fail(message string, err error) error {
	switch {
	case store.IsNotFound(err),
		errors.Is(err, courseedit.ErrCourseNotFound),
		errors.Is(err, game.ErrCourseNotFound),
		errors.Is(err, game.ErrPlayerNotFound),
		errors.Is(err, game.ErrGameNotFound):
		return a.out.Fail(ExitCommandError, ErrCodeNotFound, message, err)
	case courseio.IsValidationError(err),
		errors.Is(err, courseedit.ErrBlankName),
		errors.Is(err, courseedit.ErrIndexOutOfRange),
		errors.Is(err, game.ErrUnknownHole):
		return a.out.Fail(ExitCommandError, ErrCodeInvalid, message, err)
	case errors.Is(err, game.ErrNoCourse),
		errors.Is(err, game.ErrNoHoles),
		errors.Is(err, game.ErrNoPlayers):
		return a.out.Fail(ExitCommandError, ErrCodeGame, message, err)
	case courseedit.IsPartialCommit(err):
		return a.out.Fail(ExitFailure, ErrCodePartial, message, err)
	case store.IsConstraintViolation(err):
		return a.out.Fail(ExitFailure, ErrCodeConstraint, message, err)
	default:
		return a.out.Fail(ExitFailure, ErrCodeGeneric, message, err)
	}
}

// parseID parses a positive integer argument.
func (a *app) parseID(what, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, a.out.Fail(ExitCommandError, ErrCodeInvalid, "invalid "+what+" "+strconv.Quote(arg), err)
	}
	return id, nil
}

// parseInt parses a non-negative integer argument.
func (a *app) parseInt(what, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, a.out.Fail(ExitCommandError, ErrCodeInvalid, "invalid "+what+" "+strconv.Quote(arg), err)
	}
	return n, nil
}

// withApp adapts a command body that needs an open app.
func withApp(opts *RootOptions, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, opts)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

// courseWithHoles is the JSON shape of a course listing entry.
type courseWithHoles struct {
	model.Course
	Holes    int `json:"holes"`
	TotalPar int `json:"total_par"`
}
