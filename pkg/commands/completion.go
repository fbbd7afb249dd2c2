package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/rpt/pkg/app"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generates shell completion scripts",
		Long: `To load completion run

. <(rpt completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(rpt completion)
`,
		ValidArgs: []string{"bash", "zsh", "fish"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			shell := "bash"
			if len(args) == 1 {
				shell = args[0]
			}
			switch shell {
			case "zsh":
				return topLevel.GenZshCompletion(out)
			case "fish":
				return topLevel.GenFishCompletion(out, true)
			default:
				return topLevel.GenBashCompletion(out)
			}
		},
	}

	topLevel.AddCommand(cmd)
}

// tagCompletions offers the tags already in use.
func tagCompletions(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	s, err := openSession()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer s.Close()
	var out []string
	for _, tag := range app.AllTags(s.Tracker.Ideas()) {
		if strings.HasPrefix(tag, toComplete) {
			out = append(out, tag)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// idCompletions offers ids of kind, described by their titles.
func idCompletions(kind app.Kind) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		s, err := openSession()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		defer s.Close()
		var out []string
		add := func(id, label string) {
			if strings.HasPrefix(id, toComplete) {
				out = append(out, id+"\t"+label)
			}
		}
		switch kind {
		case app.KindIdea:
			for _, i := range s.Tracker.Ideas() {
				add(i.ID, i.Title)
			}
		case app.KindProject:
			for _, p := range s.Tracker.Projects() {
				add(p.ID, p.Title)
			}
		case app.KindDeadline:
			for _, d := range s.Tracker.Deadlines() {
				add(d.ID, d.Name)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
