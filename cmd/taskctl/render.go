package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/tasktrack/tasktrack/internal/client"
)

var (
	colorHigh   = lipgloss.Color("#FF5A87")
	colorMedium = lipgloss.Color("#FFB84D")
	colorLow    = lipgloss.Color("#00D9A5")
	colorMuted  = lipgloss.Color("#6B7B8C")
	colorInfo   = lipgloss.Color("#00ADD8")
)

// styles are bound to one writer so colours are only emitted to terminals.
type styles struct {
	done, high, medium, low, muted lipgloss.Style
	success, failure, info         lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		done:    r.NewStyle().Foreground(colorMuted).Strikethrough(true),
		high:    r.NewStyle().Foreground(colorHigh).Bold(true),
		medium:  r.NewStyle().Foreground(colorMedium),
		low:     r.NewStyle().Foreground(colorLow),
		muted:   r.NewStyle().Foreground(colorMuted).Italic(true),
		success: r.NewStyle().Foreground(colorLow).Bold(true),
		failure: r.NewStyle().Foreground(colorHigh).Bold(true),
		info:    r.NewStyle().Foreground(colorInfo),
	}
}

func (s styles) priority(p int) string {
	switch p {
	case 1:
		return s.high.Render("high")
	case 2:
		return s.medium.Render("medium")
	case 3:
		return s.low.Render("low")
	default:
		return fmt.Sprint(p)
	}
}

func renderTasks(w io.Writer, tasks []client.Task, state *client.State) {
	st := newStyles(w)

	if len(tasks) == 0 {
		fmt.Fprintln(w, st.muted.Render("no tasks"))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tPRIORITY\tCATEGORY\tDUE\tTITLE\tTAGS")

	for _, t := range tasks {
		mark := "[ ]"
		title := t.Title
		if t.Done {
			mark = "[x]"
			title = st.done.Render(title)
		}
		if state != nil && state.IsSelected(t.ID) {
			mark = "*" + mark
		}

		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, mark, st.priority(t.Priority), t.Category, due, title, strings.Join(t.Tags, ","))
	}
	_ = tw.Flush()
}

func renderNotification(w io.Writer, n client.Notification) string {
	st := newStyles(w)

	switch n.Type {
	case client.NotifySuccess:
		return st.success.Render("✔ " + n.Message)
	case client.NotifyError:
		return st.failure.Render("✘ " + n.Message)
	default:
		return st.info.Render("• " + n.Message)
	}
}
