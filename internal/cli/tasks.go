package cli

import (
	"errors"
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/mutate"

	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var list string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the board",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, closeFn, err := openBoard(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			settings, _ := resolveSettings(app)
			meta := loadMeta{Backend: settings.Backend, Key: b.Key(), Load: b.LoadInfo()}
			st := b.State()

			if strings.TrimSpace(list) != "" {
				l, ok := model.ParseListID(list)
				if !ok {
					return writeErr(cmd, mutate.InvalidListError{List: list})
				}
				tasks := st.List(l)
				if tasks == nil {
					tasks = model.TaskList{}
				}
				return writeOut(cmd, app, map[string]any{"data": tasks, "meta": meta})
			}
			return writeOut(cmd, app, map[string]any{"data": newBoardView(st), "meta": meta})
		},
	}

	cmd.Flags().StringVar(&list, "list", "", "Only show one list (pending|completed)")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task to To Do",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if !mutate.ValidateText(text).Valid {
				return writeErr(cmd, errInvalidText(text))
			}

			b, closeFn, err := openBoard(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			t, ok := b.Add(cmd.Context(), text)
			if !ok {
				return writeErr(cmd, errors.New("add: could not create task"))
			}
			return writeOut(cmd, app, map[string]any{"data": newTaskView(b.State(), t)})
		},
	}
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <task-id> <text>",
		Short: "Replace a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			text := strings.Join(args[1:], " ")
			if !mutate.ValidateText(text).Valid {
				return writeErr(cmd, errInvalidText(text))
			}

			b, closeFn, err := openBoard(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			if _, _, ok := b.State().Find(id); !ok {
				return writeErr(cmd, errNotFound("task", id))
			}
			t, changed := b.EditText(cmd.Context(), id, text)
			if !changed {
				t, _, _ = b.State().Find(id)
			}
			return writeOut(cmd, app, map[string]any{"data": newTaskView(b.State(), t), "meta": map[string]any{"changed": changed}})
		},
	}
	return cmd
}

func newNotesCmd(app *App) *cobra.Command {
	var clearNotes bool

	cmd := &cobra.Command{
		Use:   "notes <task-id> [notes]",
		Short: "Show or set a task's notes (markdown)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])

			b, closeFn, err := openBoard(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			t, _, ok := b.State().Find(id)
			if !ok {
				return writeErr(cmd, errNotFound("task", id))
			}
			if len(args) == 1 && !clearNotes {
				return writeOut(cmd, app, map[string]any{"data": newTaskView(b.State(), t)})
			}

			notes := strings.Join(args[1:], " ")
			if clearNotes {
				notes = ""
			}
			if nt, changed := b.EditNotes(cmd.Context(), id, notes); changed {
				t = nt
			}
			return writeOut(cmd, app, map[string]any{"data": newTaskView(b.State(), t)})
		},
	}

	cmd.Flags().BoolVar(&clearNotes, "clear", false, "Remove the notes")
	return cmd
}

func newRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])

			b, closeFn, err := openBoard(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			t, ok := b.Delete(cmd.Context(), id)
			if !ok {
				return writeErr(cmd, errNotFound("task", id))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": t}})
		},
	}
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	var to string
	var index int

	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Move a task to a list position",
		Long: strings.TrimSpace(`
Move a task to a position in a list.

Without --index the task is appended to the destination list. Within the same list,
--index is the task's final position.
`),
		Example: strings.TrimSpace(`
taskboard move 1 --to done
taskboard move 3 --to pending --index 0
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			l, ok := model.ParseListID(to)
			if !ok {
				return writeErr(cmd, mutate.InvalidListError{List: to})
			}

			b, closeFn, err := openBoard(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			t, changed, err := b.Move(cmd.Context(), id, l, index)
			if err != nil {
				var nf mutate.NotFoundError
				if errors.As(err, &nf) {
					return writeErr(cmd, errNotFound(nf.Kind, nf.ID))
				}
				return writeErr(cmd, err)
			}
			st := b.State()
			if !changed {
				t, _, _ = st.Find(id)
			}
			return writeOut(cmd, app, map[string]any{
				"data": newTaskView(st, t),
				"meta": map[string]any{"changed": changed},
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Destination list (pending|completed)")
	cmd.Flags().IntVar(&index, "index", -1, "Destination index (default: append)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newDropCmd(app *App) *cobra.Command {
	var over string
	var dx float64

	cmd := &cobra.Command{
		Use:   "drop <dragged-id>",
		Short: "Apply a drag-end event (dragged task released over a target)",
		Long: strings.TrimSpace(`
Apply a drag-end event the way the interactive boards do.

--over is a task id or a list container (` + model.PendingContainerID + `, ` + model.CompletedContainerID + `).
Leave it empty for a release outside any drop target (no-op). --dx is the horizontal pointer
displacement, only consulted when legacyDisplacement is enabled in config.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, closeFn, err := openBoard(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			ev := model.DragEnd{DraggedID: strings.TrimSpace(args[0]), TargetID: strings.TrimSpace(over), PointerDeltaX: dx}
			mv, applied := b.DragEnd(cmd.Context(), ev)

			data := map[string]any{
				"applied": applied,
				"board":   newBoardView(b.State()),
			}
			if applied {
				data["move"] = mv
			}
			return writeOut(cmd, app, map[string]any{"data": data})
		},
	}

	cmd.Flags().StringVar(&over, "over", "", "Drop target: task id or list container id")
	cmd.Flags().Float64Var(&dx, "dx", 0, "Horizontal pointer displacement in pixels")
	return cmd
}

func newResetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace the board with the starter tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, closeFn, err := openBoard(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			b.Reset(cmd.Context())
			return writeOut(cmd, app, map[string]any{"data": newBoardView(b.State())})
		},
	}
	return cmd
}
