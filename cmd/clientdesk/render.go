package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"clientdesk/internal/client"
	"clientdesk/internal/notify"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerCell = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell       = lipgloss.NewStyle().Padding(0, 1)

	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	toastColors = map[notify.Kind]lipgloss.Color{
		notify.KindSuccess: lipgloss.Color("42"),
		notify.KindError:   lipgloss.Color("196"),
		notify.KindWarning: lipgloss.Color("214"),
		notify.KindInfo:    lipgloss.Color("39"),
	}
	toastIcons = map[notify.Kind]string{
		notify.KindSuccess: "✓",
		notify.KindError:   "✗",
		notify.KindWarning: "!",
		notify.KindInfo:    "i",
	}
)

// renderToast formats one toast as a bordered box.
func renderToast(t notify.Toast) string {
	color, ok := toastColors[t.Kind]
	if !ok {
		color = toastColors[notify.KindInfo]
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)

	head := lipgloss.NewStyle().Foreground(color).Bold(true).
		Render(toastIcons[t.Kind] + " " + t.Title)
	if t.Message == "" {
		return style.Render(head)
	}
	return style.Render(head + "\n" + t.Message)
}

func printToasts(w io.Writer, toasts []notify.Toast) {
	for _, t := range toasts {
		fmt.Fprintln(w, renderToast(t))
	}
}

func renderStatus(s client.Status) string {
	if s == client.StatusInactive {
		return inactiveStyle.Render(string(s))
	}
	return activeStyle.Render(string(s))
}

// renderClientTable lays clients out as a table.
func renderClientTable(clients []client.Client) string {
	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.Email,
			c.Phone,
			c.Company,
			string(c.Status),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers("ID", "NAME", "EMAIL", "PHONE", "COMPANY", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return cell
		})
	return t.String()
}

// renderClient formats a single client as aligned key/value lines.
func renderClient(c client.Client) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("#%d %s", c.ID, c.Name)))
	b.WriteByte('\n')
	line := func(k, v string) {
		if v == "" {
			v = dimStyle.Render("-")
		}
		fmt.Fprintf(&b, "  %-9s %s\n", k, v)
	}
	line("Email", c.Email)
	line("Phone", c.Phone)
	line("Company", c.Company)
	line("Address", c.Address)
	line("Status", renderStatus(c.Status))
	line("Created", c.CreatedAt.Format("2006-01-02 15:04"))
	line("Updated", c.UpdatedAt.Format("2006-01-02 15:04"))
	return b.String()
}
