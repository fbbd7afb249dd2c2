package commands

import (
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tableflip.dev/rpt/pkg/commands/options"
	"tableflip.dev/rpt/pkg/logging"
	"tableflip.dev/rpt/pkg/runner/checkin"
	"tableflip.dev/rpt/pkg/store"
)

var (
	oo = &options.OutputOptions{}
)

func New() *cobra.Command {
	var level string

	cmd := &cobra.Command{
		Use:   "rpt",
		Short: base.Wrap80("Track research ideas, projects and deadlines on the command line, with a gentle daily check-in."),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Setup(cmd.ErrOrStderr(), logLevel(level))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				log.Debug().Err(err).Msg("skipping check-in")
				return cmd.Help()
			}
			defer s.Close()
			c := checkin.CheckIn{
				Tracker: s.Tracker,
				Quiet:   true,
				Out:     cmd.OutOrStdout(),
			}
			if shown, err := c.Show(); err != nil || shown {
				return err
			}
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&level, "log-level", "",
		"Log level: debug, info, warn or error. Overrides RPT_LOG_LEVEL and log.level in .rpt.yaml.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addIdea(topLevel)
	addProject(topLevel)
	addDeadline(topLevel)
	addCheckIn(topLevel)
	addExport(topLevel)
	addImport(topLevel)
	addKey(topLevel)
	addInfo(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// logLevel prefers the flag, then whatever config and environment say.
func logLevel(flag string) string {
	if flag != "" {
		return flag
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return ""
	}
	return cfg.LogLevel()
}

// idArg takes the single id argument, unless the command is interactive and
// the id will be picked instead.
func idArg(io *options.InteractiveOptions, dst *string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			if io != nil && io.Interactive {
				return nil
			}
			return errors.New("requires an id, or a unique prefix of one")
		}
		if len(args) > 1 {
			return errors.New("expects exactly one id")
		}
		*dst = strings.TrimSpace(args[0])
		return nil
	}
}

// textArg joins the remaining arguments into dst.
func textArg(io *options.InteractiveOptions, dst *string, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && (io == nil || !io.Interactive) {
			return errors.New("requires a " + what)
		}
		*dst = strings.Join(args, " ")
		return nil
	}
}
