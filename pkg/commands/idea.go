package commands

import (
	"context"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/commands/options"
	"tableflip.dev/rpt/pkg/prompt"
	"tableflip.dev/rpt/pkg/research"
	"tableflip.dev/rpt/pkg/runner/idea"
)

func addIdea(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "idea",
		Aliases: []string{"ideas", "i"},
		Short:   base.Wrap80("Park, browse and promote research ideas."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addIdeaAdd(cmd)
	addIdeaList(cmd)
	addIdeaTags(cmd)
	addIdeaEdit(cmd)
	addIdeaRemove(cmd)
	addIdeaConvert(cmd)

	topLevel.AddCommand(cmd)
}

func addIdeaAdd(parent *cobra.Command) {
	io := &options.InteractiveOptions{}
	var title, pitch, tags, status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Park a new idea.",
		Example: `
rpt idea add Probing attention heads for syntax --pitch "do heads track trees?" --tags interp,nlp
rpt idea add -i
`,
		Args: textArg(io, &title, "title"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()

			in := app.IdeaInput{Title: title, OneLinePitch: pitch, Tags: research.SplitTags(tags)}
			if status != "" {
				if in.Status, err = research.ParseIdeaStatus(status); err != nil {
					return oo.HandleError(err)
				}
			}
			if io.Interactive {
				if in, err = io.Prompter(cmd).Idea(in); err != nil {
					return oo.HandleError(err)
				}
			}
			r := idea.Add{
				Tracker: s.Tracker,
				Input:   in,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}
	cmd.Flags().StringVar(&pitch, "pitch", "", "One line pitch.")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma separated tags.")
	cmd.Flags().StringVar(&status, "status", "", "Initial status, parked by default.")
	options.InteractiveArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addIdeaList(parent *cobra.Command) {
	fo := &options.IdeaFilterOptions{}
	ido := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List ideas, optionally filtered.",
		Example: `
rpt idea list
rpt idea list --tag nlp --status parked
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			f, err := fo.Filter()
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			r := idea.List{
				Tracker: s.Tracker,
				Filter:  f,
				ShowID:  ido.ShowID,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}
	options.AddIdeaFilterArgs(cmd, fo)
	_ = cmd.RegisterFlagCompletionFunc("tag", tagCompletions)
	options.AddShowIDArgs(cmd, ido)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addIdeaTags(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List every tag in use.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			r := idea.Tags{
				Tracker: s.Tracker,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addIdeaEdit(parent *cobra.Command) {
	io := &options.InteractiveOptions{}
	var id, title, pitch, tags, status string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change an idea. Only the flags given are changed.",
		Example: `
rpt idea edit 3f2a --status archived
rpt idea edit 3f2a --tags "nlp, probing"
`,
		Args:              idArg(io, &id),
		ValidArgsFunction: idCompletions(app.KindIdea),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			if id == "" {
				if id, err = io.Prompter(cmd).Pick("Which idea?", prompt.IdeaChoices(s.Tracker.Ideas())); err != nil {
					return oo.HandleError(err)
				}
			}

			var patch app.IdeaPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("pitch") {
				patch.OneLinePitch = &pitch
			}
			if flags.Changed("tags") {
				t := research.SplitTags(tags)
				patch.Tags = &t
			}
			if flags.Changed("status") {
				st, err := research.ParseIdeaStatus(status)
				if err != nil {
					return oo.HandleError(err)
				}
				patch.Status = &st
			}
			r := idea.Edit{
				Tracker: s.Tracker,
				ID:      id,
				Patch:   patch,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title.")
	cmd.Flags().StringVar(&pitch, "pitch", "", "New one line pitch.")
	cmd.Flags().StringVar(&tags, "tags", "", "Replace the tags, comma separated.")
	cmd.Flags().StringVar(&status, "status", "", "New status: parked, active or archived.")
	options.InteractiveArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addIdeaRemove(parent *cobra.Command) {
	io := &options.InteractiveOptions{}
	var id string

	cmd := &cobra.Command{
		Use:     "rm",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete an idea. A project made from it is kept.",
		Example: `
rpt idea rm 3f2a
`,
		Args:              idArg(io, &id),
		ValidArgsFunction: idCompletions(app.KindIdea),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			if id == "" {
				if id, err = io.Prompter(cmd).Pick("Delete which idea?", prompt.IdeaChoices(s.Tracker.Ideas())); err != nil {
					return oo.HandleError(err)
				}
			}
			r := idea.Remove{
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

func addIdeaConvert(parent *cobra.Command) {
	io := &options.InteractiveOptions{}
	var id string

	cmd := &cobra.Command{
		Use:     "convert",
		Aliases: []string{"promote"},
		Short:   base.Wrap80("Promote an idea to a new project at the Idea stage. The idea becomes active and links to the project."),
		Example: `
rpt idea convert 3f2a
rpt idea convert -i
`,
		Args:              idArg(io, &id),
		ValidArgsFunction: idCompletions(app.KindIdea),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			if id == "" {
				parked := app.FilterIdeas(s.Tracker.Ideas(), app.IdeaFilter{Status: research.IdeaParked})
				if id, err = io.Prompter(cmd).Pick("Promote which idea?", prompt.IdeaChoices(parked)); err != nil {
					return oo.HandleError(err)
				}
			}
			r := idea.Convert{
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
