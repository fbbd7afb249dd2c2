package commands

import (
	"context"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/rpt/pkg/commands/options"
	"tableflip.dev/rpt/pkg/runner/checkin"
)

func addCheckIn(topLevel *cobra.Command) {
	var force, dismiss bool

	cmd := &cobra.Command{
		Use:     "checkin",
		Aliases: []string{"today", "c"},
		Short:   base.Wrap80("Today's check-in: what is coming up, what slipped, what has gone quiet, and where to focus."),
		Example: `
rpt checkin
rpt checkin --force
rpt checkin --dismiss
rpt checkin time 08:30
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			r := checkin.CheckIn{
				Tracker: s.Tracker,
				Force:   force,
				Dismiss: dismiss,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Show the check-in even if dismissed today or before the check time.")
	cmd.Flags().BoolVarP(&dismiss, "dismiss", "d", false, "Hide the check-in until tomorrow.")
	options.AddOutputArg(cmd, oo)

	addCheckInTime(cmd)

	topLevel.AddCommand(cmd)
}

func addCheckInTime(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "time HH:MM",
		Short: "Set the time of day after which the check-in shows.",
		Example: `
rpt checkin time 09:00
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			r := checkin.SetTime{
				Tracker: s.Tracker,
				Clock:   args[0],
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}
