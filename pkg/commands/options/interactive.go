package options

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/rpt/pkg/prompt"
)

// InteractiveOptions
type InteractiveOptions struct {
	Interactive bool
	Accessible  bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Interactive input of subcommands or options.`)
	cmd.Flags().BoolVar(&o.Accessible, "accessible", false,
		`Use plain line prompts instead of the form UI.`)
}

// Prompter builds a prompter on the command's streams. Accessible mode is
// forced when stdin is not a terminal.
func (o *InteractiveOptions) Prompter(cmd *cobra.Command) prompt.Prompter {
	accessible := o.Accessible || !isatty.IsTerminal(os.Stdin.Fd())
	return prompt.Prompter{
		In:         cmd.InOrStdin(),
		Out:        cmd.OutOrStdout(),
		Accessible: accessible,
	}
}
