// Package ui holds the terminal styles used by the habitquest CLI.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	IconSparkle = "✨"
	IconFire    = "🔥"
	IconTrophy  = "🏆"
	IconCheck   = "✅"
	IconEmpty   = "⬜"
	IconPause   = "⏸️"
	IconBox     = "📦"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconKey     = "🔑"
	IconCloud   = "☁️"
	IconLocal   = "💾"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// HabitStatus colors a habit status
func HabitStatus(status string) string {
	switch status {
	case "Active":
		return Good.Render(status)
	case "Paused":
		return Warn.Render(status)
	default:
		return Muted.Render(status)
	}
}

// Notice styles a transient notice by kind
func Notice(kind, message string) string {
	switch kind {
	case "xp":
		return Gold.Render(message)
	case "achievement":
		return Title.Render(IconTrophy + " " + message)
	case "error":
		return Bad.Render(IconError + " " + message)
	default:
		return Good.Render(message)
	}
}

// Bar renders a width-cell progress bar for pct in [0, 100]
func Bar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(pct / 100 * float64(width))
	filled = max(0, min(filled, width))
	return Good.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}
