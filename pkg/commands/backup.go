package commands

import (
	"context"
	"errors"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/rpt/pkg/runner/backup"
)

func addExport(topLevel *cobra.Command) {
	var path string
	var compress bool

	cmd := &cobra.Command{
		Use:       "export [json|csv]",
		Aliases:   []string{"backup"},
		Short:     base.Wrap80("Export everything as a JSON backup, or projects and deadlines as CSV."),
		ValidArgs: []string{string(backup.FormatJSON), string(backup.FormatCSV)},
		Example: `
rpt export
rpt export csv -o deadlines.csv
rpt export json --compress
rpt export json -o - | jq .ideas
`,
		Args: cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			format := backup.FormatJSON
			if len(args) == 1 {
				format = backup.Format(args[0])
			}
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			r := backup.Export{
				Tracker:  s.Tracker,
				Format:   format,
				Path:     path,
				Compress: compress,
				Out:      cmd.OutOrStdout(),
			}
			return r.Do(context.Background())
		},
	}
	cmd.Flags().StringVarP(&path, "output", "o", "",
		`File to write, "-" for stdout. Defaults to research-pipeline-YYYY-MM-DD.json or .csv.`)
	cmd.Flags().BoolVarP(&compress, "compress", "z", false, "Compress a JSON backup with zstd.")

	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	var strict bool

	cmd := &cobra.Command{
		Use:     "import FILE",
		Aliases: []string{"restore"},
		Short:   base.Wrap80("Restore a JSON backup. Each collection in the file replaces the current one; collections missing from the file are kept."),
		Example: `
rpt import research-pipeline-2025-05-12.json
rpt import backup.json.zst --strict
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires a backup file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			r := backup.Import{
				Tracker: s.Tracker,
				Path:    args[0],
				Strict:  strict,
				Out:     cmd.OutOrStdout(),
			}
			return r.Do(context.Background())
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Warn about references that point at nothing after the restore.")

	topLevel.AddCommand(cmd)
}
