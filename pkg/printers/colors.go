package printers

import (
	"github.com/fatih/color"

	"tableflip.dev/rpt/pkg/countdown"
	"tableflip.dev/rpt/pkg/research"
)

// ToneColor picks the color a countdown is drawn in.
func ToneColor(t countdown.Tone) *color.Color {
	switch t {
	case countdown.Overdue:
		return color.New(color.FgRed)
	case countdown.Today:
		return color.New(color.FgHiMagenta, color.Bold)
	case countdown.Soon:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func stageColor(s research.Stage) *color.Color {
	switch s {
	case research.StageDone:
		return color.New(color.FgGreen)
	case research.StageSubmit, research.StageRevise:
		return color.New(color.FgMagenta)
	case research.StageWriting:
		return color.New(color.FgBlue)
	case research.StageIdea:
		return color.New(color.Faint)
	default:
		return color.New(color.FgCyan)
	}
}

func priorityColor(p research.Priority) *color.Color {
	switch p {
	case research.PriorityHigh:
		return color.New(color.FgRed, color.Bold)
	case research.PriorityLow:
		return color.New(color.Faint)
	default:
		return color.New(color.FgYellow)
	}
}

func statusColor(s research.IdeaStatus) *color.Color {
	switch s {
	case research.IdeaActive:
		return color.New(color.FgGreen)
	case research.IdeaArchived:
		return color.New(color.Faint, color.CrossedOut)
	default:
		return color.New(color.FgCyan)
	}
}
