package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/discman/internal/courseedit"
	"github.com/roach88/discman/internal/courseio"
	"github.com/roach88/discman/internal/model"
)

// courseDetail is the JSON shape of `course show`.
type courseDetail struct {
	Course   model.Course `json:"course"`
	Holes    []model.Hole `json:"holes"`
	TotalPar int          `json:"total_par"`
}

// NewCourseCommand creates the course command group.
func NewCourseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Manage courses and their holes",
	}

	cmd.AddCommand(newCourseListCommand(rootOpts))
	cmd.AddCommand(newCourseShowCommand(rootOpts))
	cmd.AddCommand(newCourseCreateCommand(rootOpts))
	cmd.AddCommand(newCourseImportCommand(rootOpts))
	cmd.AddCommand(newCourseExportCommand(rootOpts))
	cmd.AddCommand(newCourseDeleteCommand(rootOpts))
	cmd.AddCommand(newHoleCommand(rootOpts))

	return cmd
}

func newCourseListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List courses by name",
		Args:  cobra.NoArgs,
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()
			courses, err := a.store.ListCourses(ctx)
			if err != nil {
				return a.fail("list courses", err)
			}

			rows := make([]courseWithHoles, 0, len(courses))
			for _, c := range courses {
				holes, err := a.store.ListHoles(ctx, c.ID)
				if err != nil {
					return a.fail("list holes", err)
				}
				rows = append(rows, courseWithHoles{Course: c, Holes: len(holes), TotalPar: model.TotalPar(holes)})
			}

			return a.out.Render(rows, func(w io.Writer) {
				if len(rows) == 0 {
					fmt.Fprintln(w, "No courses.")
					return
				}
				for _, r := range rows {
					fmt.Fprintf(w, "%4d  %-24s %-20s %2d holes  par %d\n", r.ID, r.Name, r.Location, r.Holes, r.TotalPar)
				}
			})
		}),
	}
}

func newCourseShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <course-id>",
		Short: "Show a course and its holes",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := a.parseID("course id", args[0])
			if err != nil {
				return err
			}

			ed, err := courseedit.Load(cmd.Context(), a.store, id)
			if err != nil {
				return a.fail("show course", err)
			}

			d := courseDetail{Course: ed.Course(), Holes: ed.Holes(), TotalPar: model.TotalPar(ed.Holes())}
			return a.out.Render(d, func(w io.Writer) {
				printCourse(w, d)
			})
		}),
	}
}

func printCourse(w io.Writer, d courseDetail) {
	fmt.Fprintf(w, "Course: %s\n", d.Course.Name)
	if d.Course.Location != "" {
		fmt.Fprintf(w, "Location: %s\n", d.Course.Location)
	}
	fmt.Fprintf(w, "Holes: %d  Total Par: %d\n", len(d.Holes), d.TotalPar)
	for _, h := range d.Holes {
		line := fmt.Sprintf("  %2d  par %d", h.HoleNumber, h.Par)
		if h.Distance != nil {
			line += fmt.Sprintf("  dist %d", *h.Distance)
		}
		if h.Description != nil {
			line += "  " + *h.Description
		}
		fmt.Fprintln(w, line)
	}
}

type courseCreateOptions struct {
	location string
	holes    int
	par      int
}

func newCourseCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &courseCreateOptions{}

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a course with a number of holes at one par",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			ed := courseedit.New(a.store, courseedit.WithLogger(a.logger))
			ed.SetName(args[0])
			ed.SetLocation(opts.location)
			for i := 0; i < opts.holes; i++ {
				h := ed.AddHole()
				h.Par = opts.par
				if err := ed.UpdateHole(i, h); err != nil {
					return a.fail("create course", err)
				}
			}

			id, err := ed.Commit(cmd.Context())
			if err != nil {
				return a.fail("create course", err)
			}

			c := ed.Course()
			c.ID = id
			return a.out.Render(c, func(w io.Writer) {
				fmt.Fprintf(w, "Created course %d: %s (%d holes)\n", id, c.Name, opts.holes)
			})
		}),
	}

	cmd.Flags().StringVar(&opts.location, "location", "", "course location")
	cmd.Flags().IntVar(&opts.holes, "holes", 18, "number of holes")
	cmd.Flags().IntVar(&opts.par, "par", model.DefaultPar, "par for every hole")

	return cmd
}

func newCourseImportCommand(rootOpts *RootOptions) *cobra.Command {
	var replace int64

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import a course from a YAML document",
		Long: `Import a course from a YAML document ("-" reads stdin).

With --replace, the document overwrites an existing course instead of
creating a new one.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			r := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return a.out.Fail(ExitCommandError, ErrCodeInvalid, "open course document", err)
				}
				defer f.Close()
				r = f
			}

			id := replace
			var err error
			if replace > 0 {
				err = courseio.Replace(cmd.Context(), a.store, replace, r, a.logger)
			} else {
				id, err = courseio.Import(cmd.Context(), a.store, r, a.logger)
			}
			if err != nil {
				return a.fail("import course", err)
			}

			return a.out.Render(map[string]int64{"course_id": id}, func(w io.Writer) {
				fmt.Fprintf(w, "Imported course %d\n", id)
			})
		}),
	}

	cmd.Flags().Int64Var(&replace, "replace", 0, "overwrite the course with this ID")

	return cmd
}

func newCourseExportCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <course-id>",
		Short: "Export a course as a YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := a.parseID("course id", args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return a.out.Fail(ExitCommandError, ErrCodeInvalid, "create output file", err)
				}
				defer f.Close()
				w = f
			}

			if err := courseio.Export(cmd.Context(), a.store, id, w); err != nil {
				return a.fail("export course", err)
			}
			a.out.VerboseLog("exported course %d", id)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func newCourseDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <course-id>",
		Short: "Delete a course with its holes and games",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := a.parseID("course id", args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteCourse(cmd.Context(), id); err != nil {
				return a.fail("delete course", err)
			}
			return a.out.Render(map[string]int64{"course_id": id}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted course %d\n", id)
			})
		}),
	}
}

func newHoleCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hole",
		Short: "Edit a course's holes",
		Long: `Edit a course's holes. Each command loads the course, applies one
edit and commits; holes are renumbered 1..n after every change.`,
	}

	cmd.AddCommand(newHoleAddCommand(rootOpts))
	cmd.AddCommand(newHoleRemoveCommand(rootOpts))
	cmd.AddCommand(newHoleMoveCommand(rootOpts))
	cmd.AddCommand(newHoleSetCommand(rootOpts))

	return cmd
}

// editCourse loads a course, applies edit and commits, then prints the
// result.
func editCourse(cmd *cobra.Command, a *app, arg string, edit func(ed *courseedit.Editor) error) error {
	id, err := a.parseID("course id", arg)
	if err != nil {
		return err
	}

	ed, err := courseedit.Load(cmd.Context(), a.store, id, courseedit.WithLogger(a.logger))
	if err != nil {
		return a.fail("load course", err)
	}
	if err := edit(ed); err != nil {
		return a.fail("edit course", err)
	}
	if _, err := ed.Commit(cmd.Context()); err != nil {
		return a.fail("save course", err)
	}

	d := courseDetail{Course: ed.Course(), Holes: ed.Holes(), TotalPar: model.TotalPar(ed.Holes())}
	return a.out.Render(d, func(w io.Writer) {
		printCourse(w, d)
	})
}

func newHoleAddCommand(rootOpts *RootOptions) *cobra.Command {
	var par int

	cmd := &cobra.Command{
		Use:   "add <course-id>",
		Short: "Append a hole",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			return editCourse(cmd, a, args[0], func(ed *courseedit.Editor) error {
				h := ed.AddHole()
				h.Par = par
				return ed.UpdateHole(h.HoleNumber-1, h)
			})
		}),
	}

	cmd.Flags().IntVar(&par, "par", model.DefaultPar, "par of the new hole")

	return cmd
}

func newHoleRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <course-id> <hole-number>",
		Short: "Remove a hole",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			n, err := a.parseInt("hole number", args[1])
			if err != nil {
				return err
			}
			return editCourse(cmd, a, args[0], func(ed *courseedit.Editor) error {
				return ed.RemoveHole(n - 1)
			})
		}),
	}
}

func newHoleMoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <course-id> <from> <to>",
		Short: "Move a hole to another position",
		Args:  cobra.ExactArgs(3),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			from, err := a.parseInt("hole number", args[1])
			if err != nil {
				return err
			}
			to, err := a.parseInt("hole number", args[2])
			if err != nil {
				return err
			}
			return editCourse(cmd, a, args[0], func(ed *courseedit.Editor) error {
				return ed.MoveHole(from-1, to-1)
			})
		}),
	}
}

type holeSetOptions struct {
	par         int
	distance    int
	description string
	latitude    float64
	longitude   float64
}

func newHoleSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &holeSetOptions{}

	cmd := &cobra.Command{
		Use:   "set <course-id> <hole-number>",
		Short: "Change a hole's par, distance, description or position",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			n, err := a.parseInt("hole number", args[1])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			return editCourse(cmd, a, args[0], func(ed *courseedit.Editor) error {
				i := n - 1
				holes := ed.Holes()
				if i < 0 || i >= len(holes) {
					return fmt.Errorf("hole %s: %w", strconv.Itoa(n), courseedit.ErrIndexOutOfRange)
				}

				h := holes[i]
				if flags.Changed("par") {
					h.Par = opts.par
				}
				if flags.Changed("distance") {
					h.Distance = model.IntPtr(opts.distance)
				}
				if flags.Changed("description") {
					h.Description = model.StringPtr(opts.description)
				}
				if flags.Changed("lat") {
					h.Latitude = model.FloatPtr(opts.latitude)
				}
				if flags.Changed("long") {
					h.Longitude = model.FloatPtr(opts.longitude)
				}
				return ed.UpdateHole(i, h)
			})
		}),
	}

	cmd.Flags().IntVar(&opts.par, "par", model.DefaultPar, "par")
	cmd.Flags().IntVar(&opts.distance, "distance", 0, "distance in meters")
	cmd.Flags().StringVar(&opts.description, "description", "", "description")
	cmd.Flags().Float64Var(&opts.latitude, "lat", 0, "tee latitude")
	cmd.Flags().Float64Var(&opts.longitude, "long", 0, "tee longitude")

	return cmd
}
