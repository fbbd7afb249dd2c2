package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/rpt/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Where rpt keeps its data, and how much is there.",
		Example: `
rpt info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			r := info.Info{
				Config:      s.Config,
				Persistence: s.Persistence,
				Tracker:     s.Tracker,
				Out:         cmd.OutOrStdout(),
			}
			return r.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
