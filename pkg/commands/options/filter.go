// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/research"
)

// IdeaFilterOptions narrows idea listings.
type IdeaFilterOptions struct {
	Status string
	Tag    string
	Search string
}

func AddIdeaFilterArgs(cmd *cobra.Command, o *IdeaFilterOptions) {
	cmd.Flags().StringVar(&o.Status, "status", "",
		"Only ideas with this status: parked, active or archived.")
	cmd.Flags().StringVarP(&o.Tag, "tag", "t", "",
		"Only ideas carrying this tag.")
	cmd.Flags().StringVarP(&o.Search, "search", "s", "",
		"Only ideas whose title or pitch contains this text.")
}

func (o *IdeaFilterOptions) Filter() (app.IdeaFilter, error) {
	f := app.IdeaFilter{Tag: o.Tag, Search: o.Search}
	if o.Status != "" {
		st, err := research.ParseIdeaStatus(o.Status)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	return f, nil
}

// ProjectFilterOptions narrows project listings.
type ProjectFilterOptions struct {
	Stage    string
	Priority string
	Search   string
	All      bool
}

func AddProjectFilterArgs(cmd *cobra.Command, o *ProjectFilterOptions) {
	cmd.Flags().StringVar(&o.Stage, "stage", "",
		"Only projects at this pipeline stage.")
	cmd.Flags().StringVarP(&o.Priority, "priority", "p", "",
		"Only projects with this priority: high, medium or low.")
	cmd.Flags().StringVarP(&o.Search, "search", "s", "",
		"Only projects whose title contains this text.")
	cmd.Flags().BoolVarP(&o.All, "all", "a", false,
		"Include finished projects.")
}

func (o *ProjectFilterOptions) Filter() (app.ProjectFilter, error) {
	f := app.ProjectFilter{Search: o.Search}
	if o.Stage != "" {
		st, err := research.ParseStage(o.Stage)
		if err != nil {
			return f, err
		}
		f.Stage = st
	}
	if o.Priority != "" {
		pr, err := research.ParsePriority(o.Priority)
		if err != nil {
			return f, err
		}
		f.Priority = pr
	}
	return f, nil
}
