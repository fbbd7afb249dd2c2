package commands

import (
	"context"
	"fmt"
	"time"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/commands/options"
	"tableflip.dev/rpt/pkg/prompt"
	"tableflip.dev/rpt/pkg/research"
	"tableflip.dev/rpt/pkg/runner/deadline"
)

const layoutMonth = "2006-01"

func addDeadline(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "deadline",
		Aliases: []string{"deadlines", "d"},
		Short:   base.Wrap80("Keep track of deadlines, with a countdown for each."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addDeadlineAdd(cmd)
	addDeadlineList(cmd)
	addDeadlineEdit(cmd)
	addDeadlineRemove(cmd)

	topLevel.AddCommand(cmd)
}

func addDeadlineAdd(parent *cobra.Command) {
	io := &options.InteractiveOptions{}
	wo := &options.WhenOptions{}
	var name, kind, projectID string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a deadline, optionally for a project.",
		Example: `
rpt deadline add ACL camera ready --on 2025-6-1 --at 23:59 --project 9c1e
rpt deadline add Send draft to advisor --in 3d --type soft
rpt deadline add -i
`,
		Args: textArg(io, &name, "name"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			now := s.Tracker.Now()

			in := app.DeadlineInput{Name: name, ProjectID: projectID}
			if kind != "" {
				if in.Type, err = research.ParseDeadlineType(kind); err != nil {
					return oo.HandleError(err)
				}
			}
			if wo.Set() || !io.Interactive {
				if in.Datetime, err = wo.Resolve(now); err != nil {
					return oo.HandleError(err)
				}
			}
			if io.Interactive {
				if in.ProjectID != "" {
					if in.ProjectID, err = s.Tracker.Resolve(app.KindProject, in.ProjectID); err != nil {
						return oo.HandleError(err)
					}
				}
				if in, err = io.Prompter(cmd).Deadline(in, s.Tracker.Projects(), now); err != nil {
					return oo.HandleError(err)
				}
			}
			r := deadline.Add{
				Tracker: s.Tracker,
				Input:   in,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}
	options.AddWhenArgs(cmd, wo)
	cmd.Flags().StringVar(&kind, "type", "", "hard or soft, hard by default.")
	cmd.Flags().StringVar(&projectID, "project", "", "Project id, or a unique prefix of one.")
	_ = cmd.RegisterFlagCompletionFunc("project", idCompletions(app.KindProject))
	options.InteractiveArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addDeadlineList(parent *cobra.Command) {
	wo := &options.WithinOptions{}
	ido := &options.IDOptions{}
	var projectID, month string
	var calendar bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List deadlines by date with their countdowns.",
		Example: `
rpt deadline list
rpt deadline list --within 1w
rpt deadline list --calendar --month 2025-06
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			within, err := wo.Duration()
			if err != nil {
				return oo.HandleError(err)
			}
			var then time.Time
			if month != "" {
				if then, err = time.ParseInLocation(layoutMonth, month, time.Local); err != nil {
					return oo.HandleError(fmt.Errorf("month %q is not YYYY-MM", month))
				}
				calendar = true
			}
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			r := deadline.List{
				Tracker:  s.Tracker,
				Project:  projectID,
				Within:   within,
				Calendar: calendar,
				Month:    then,
				ShowID:   ido.ShowID,
				JSON:     oo.JSON,
				Out:      cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}
	options.AddWithinArgs(cmd, wo)
	cmd.Flags().StringVar(&projectID, "project", "", "Only deadlines for this project.")
	_ = cmd.RegisterFlagCompletionFunc("project", idCompletions(app.KindProject))
	cmd.Flags().BoolVarP(&calendar, "calendar", "c", false, "Draw a month calendar instead of a table.")
	cmd.Flags().StringVar(&month, "month", "", "Month to draw, YYYY-MM. Implies --calendar.")
	options.AddShowIDArgs(cmd, ido)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addDeadlineEdit(parent *cobra.Command) {
	io := &options.InteractiveOptions{}
	wo := &options.WhenOptions{}
	var id, name, kind, projectID string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: base.Wrap80("Change a deadline. Only the flags given are changed. --project \"\" detaches it from its project."),
		Example: `
rpt deadline edit 71b0 --on 2025-6-8
rpt deadline edit 71b0 --type soft --project ""
`,
		Args:              idArg(io, &id),
		ValidArgsFunction: idCompletions(app.KindDeadline),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			if id == "" {
				choices := prompt.DeadlineChoices(app.SortDeadlines(s.Tracker.Deadlines()))
				if id, err = io.Prompter(cmd).Pick("Which deadline?", choices); err != nil {
					return oo.HandleError(err)
				}
			}

			var patch app.DeadlinePatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if wo.Set() {
				at, err := wo.Resolve(s.Tracker.Now())
				if err != nil {
					return oo.HandleError(err)
				}
				patch.Datetime = &at
			}
			if flags.Changed("type") {
				t, err := research.ParseDeadlineType(kind)
				if err != nil {
					return oo.HandleError(err)
				}
				patch.Type = &t
			}
			if flags.Changed("project") {
				patch.ProjectID = &projectID
			}
			r := deadline.Edit{
				Tracker: s.Tracker,
				ID:      id,
				Patch:   patch,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name.")
	options.AddWhenArgs(cmd, wo)
	cmd.Flags().StringVar(&kind, "type", "", "hard or soft.")
	cmd.Flags().StringVar(&projectID, "project", "", "Move to this project; empty detaches.")
	options.InteractiveArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addDeadlineRemove(parent *cobra.Command) {
	io := &options.InteractiveOptions{}
	var id string

	cmd := &cobra.Command{
		Use:     "rm",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a deadline. Its project is untouched.",
		Example: `
rpt deadline rm 71b0
`,
		Args:              idArg(io, &id),
		ValidArgsFunction: idCompletions(app.KindDeadline),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			if id == "" {
				choices := prompt.DeadlineChoices(app.SortDeadlines(s.Tracker.Deadlines()))
				if id, err = io.Prompter(cmd).Pick("Delete which deadline?", choices); err != nil {
					return oo.HandleError(err)
				}
			}
			r := deadline.Remove{
				Tracker: s.Tracker,
				ID:      id,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}
	options.InteractiveArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}
