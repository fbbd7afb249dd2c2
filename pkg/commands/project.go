package commands

import (
	"context"
	"fmt"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/commands/options"
	"tableflip.dev/rpt/pkg/prompt"
	"tableflip.dev/rpt/pkg/research"
	"tableflip.dev/rpt/pkg/runner/project"
)

func addProject(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "p"},
		Short:   base.Wrap80("Move projects through the pipeline: Idea, Reading, Design, Data, Writing, Submit, Revise, Done."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addProjectAdd(cmd)
	addProjectList(cmd)
	addProjectShow(cmd)
	addProjectEdit(cmd)
	addProjectAdvance(cmd)
	addProjectRemove(cmd)

	topLevel.AddCommand(cmd)
}

// projectFields are the editable project flags shared by add and edit.
type projectFields struct {
	title, goal, stage, priority, next string
}

func (f *projectFields) addFlags(cmd *cobra.Command, withTitle bool) {
	if withTitle {
		cmd.Flags().StringVar(&f.title, "title", "", "Project title.")
	}
	cmd.Flags().StringVarP(&f.next, "next", "n", "", "The very next concrete step.")
	cmd.Flags().StringVarP(&f.goal, "goal", "g", "", "What the project is for.")
	cmd.Flags().StringVar(&f.stage, "stage", "", "Pipeline stage.")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "Priority: high, medium or low.")
}

func (f *projectFields) patch(cmd *cobra.Command) (app.ProjectPatch, error) {
	var patch app.ProjectPatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch.Title = &f.title
	}
	if flags.Changed("goal") {
		patch.Goal = &f.goal
	}
	if flags.Changed("next") {
		patch.NextAction = &f.next
	}
	if flags.Changed("stage") {
		st, err := research.ParseStage(f.stage)
		if err != nil {
			return patch, err
		}
		patch.Stage = &st
	}
	if flags.Changed("priority") {
		pr, err := research.ParsePriority(f.priority)
		if err != nil {
			return patch, err
		}
		patch.Priority = &pr
	}
	return patch, nil
}

func addProjectAdd(parent *cobra.Command) {
	io := &options.InteractiveOptions{}
	f := &projectFields{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Start a new project. A title and a next action are required.",
		Example: `
rpt project add Syntax probes survey --next "collect 20 papers" --priority high
rpt project add -i
`,
		Args: textArg(io, &f.title, "title"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			in := app.ProjectInput{Title: f.title, Goal: f.goal, NextAction: f.next}
			var err error
			if f.stage != "" {
				if in.Stage, err = research.ParseStage(f.stage); err != nil {
					return oo.HandleError(err)
				}
			}
			if f.priority != "" {
				if in.Priority, err = research.ParsePriority(f.priority); err != nil {
					return oo.HandleError(err)
				}
			}
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			if io.Interactive {
				if in, err = io.Prompter(cmd).Project(in); err != nil {
					return oo.HandleError(err)
				}
			}
			r := project.Add{
				Tracker: s.Tracker,
				Input:   in,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}
	f.addFlags(cmd, false)
	options.InteractiveArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addProjectList(parent *cobra.Command) {
	fo := &options.ProjectFilterOptions{}
	ido := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects by priority. Finished projects are hidden unless --all or --stage Done.",
		Example: `
rpt project list
rpt project list --stage writing
rpt project list --all --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			filter, err := fo.Filter()
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			r := project.List{
				Tracker: s.Tracker,
				Filter:  filter,
				All:     fo.All,
				ShowID:  ido.ShowID,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}
	options.AddProjectFilterArgs(cmd, fo)
	options.AddShowIDArgs(cmd, ido)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addProjectShow(parent *cobra.Command) {
	io := &options.InteractiveOptions{}
	ido := &options.IDOptions{}
	var id string

	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"get"},
		Short:   "Show one project with its pipeline, source ideas and deadlines.",
		Example: `
rpt project show 9c1e
`,
		Args:              idArg(io, &id),
		ValidArgsFunction: idCompletions(app.KindProject),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			if id == "" {
				if id, err = io.Prompter(cmd).Pick("Which project?", prompt.ProjectChoices(s.Tracker.Projects())); err != nil {
					return oo.HandleError(err)
				}
			}
			r := project.Show{
				Tracker: s.Tracker,
				ID:      id,
				ShowID:  ido.ShowID,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}
	options.InteractiveArgs(cmd, io)
	options.AddShowIDArgs(cmd, ido)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addProjectEdit(parent *cobra.Command) {
	io := &options.InteractiveOptions{}
	f := &projectFields{}
	var id string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change a project. Only the flags given are changed; the project is always marked as touched.",
		Example: `
rpt project edit 9c1e --next "rerun the ablation"
rpt project edit 9c1e --stage writing --priority high
`,
		Args:              idArg(io, &id),
		ValidArgsFunction: idCompletions(app.KindProject),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			patch, err := f.patch(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			if id == "" {
				if id, err = io.Prompter(cmd).Pick("Which project?", prompt.ProjectChoices(s.Tracker.Projects())); err != nil {
					return oo.HandleError(err)
				}
			}
			r := project.Edit{
				Tracker: s.Tracker,
				ID:      id,
				Patch:   patch,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}
	f.addFlags(cmd, true)
	options.InteractiveArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addProjectAdvance(parent *cobra.Command) {
	io := &options.InteractiveOptions{}
	var id string

	cmd := &cobra.Command{
		Use:     "advance",
		Aliases: []string{"next"},
		Short:   "Move a project to the next pipeline stage.",
		Example: `
rpt project advance 9c1e
`,
		Args:              idArg(io, &id),
		ValidArgsFunction: idCompletions(app.KindProject),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			if id == "" {
				var active []research.Project
				for _, p := range s.Tracker.Projects() {
					if !p.Done() {
						active = append(active, p)
					}
				}
				if id, err = io.Prompter(cmd).Pick("Advance which project?", prompt.ProjectChoices(active)); err != nil {
					return oo.HandleError(err)
				}
			}
			r := project.Advance{
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

func addProjectRemove(parent *cobra.Command) {
	io := &options.InteractiveOptions{}
	var id string

	cmd := &cobra.Command{
		Use:     "rm",
		Aliases: []string{"remove", "delete"},
		Short:   base.Wrap80("Delete a project and its deadlines. Ideas it came from go back to parked."),
		Example: `
rpt project rm 9c1e
rpt project rm -i
`,
		Args:              idArg(io, &id),
		ValidArgsFunction: idCompletions(app.KindProject),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			if io.Interactive {
				p := io.Prompter(cmd)
				if id == "" {
					if id, err = p.Pick("Delete which project?", prompt.ProjectChoices(s.Tracker.Projects())); err != nil {
						return oo.HandleError(err)
					}
				}
				if id, err = s.Tracker.Resolve(app.KindProject, id); err != nil {
					return oo.HandleError(err)
				}
				n := len(s.Tracker.ProjectDeadlines(id))
				ok, err := p.Confirm(fmt.Sprintf("Delete this project and its %d deadline(s)?", n))
				if err != nil || !ok {
					return oo.HandleError(err)
				}
			}
			r := project.Remove{
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
