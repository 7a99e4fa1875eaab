package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/johnqtcg/giteaview/internal/bridge"
	"github.com/johnqtcg/giteaview/internal/gitea"
	"github.com/johnqtcg/giteaview/internal/host"
)

const terminalWidth = 100

var (
	colorOpen   = lipgloss.Color("#50FA7B")
	colorClosed = lipgloss.Color("#6272A4")
	colorMerged = lipgloss.Color("#BD93F9")

	numberStyle = lipgloss.NewStyle().Width(7).Bold(true)
	stateStyle  = lipgloss.NewStyle().Width(8)
	authorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BFBFBF"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// renderTerminalMarkdown styles markdown for a terminal.
func renderTerminalMarkdown(markdown []byte) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(terminalWidth),
	)
	if err != nil {
		return "", fmt.Errorf("create terminal renderer: %w", err)
	}
	out, err := r.Render(string(markdown))
	if err != nil {
		return "", fmt.Errorf("render terminal markdown: %w", err)
	}
	return out, nil
}

// listRow is one line of a list table, shared by both item kinds.
type listRow struct {
	Number int
	State  string
	Title  string
	Author string
}

func rowsOf(data any) ([]listRow, error) {
	switch items := data.(type) {
	case []gitea.Issue:
		rows := make([]listRow, 0, len(items))
		for _, it := range items {
			rows = append(rows, listRow{Number: it.Number, State: string(it.State), Title: it.Title, Author: it.User.Login})
		}
		return rows, nil
	case []gitea.PullRequest:
		rows := make([]listRow, 0, len(items))
		for _, pr := range items {
			state := string(pr.State)
			if pr.Merged {
				state = "merged"
			}
			rows = append(rows, listRow{Number: pr.Number, State: state, Title: pr.Title, Author: pr.User.Login})
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unexpected list payload %T", data)
	}
}

func stateBadge(state string) string {
	color := colorOpen
	switch state {
	case string(gitea.StateClosed):
		color = colorClosed
	case "merged":
		color = colorMerged
	}
	return stateStyle.Foreground(color).Render(state)
}

func writeListTable(w io.Writer, kind gitea.ItemKind, rows []listRow) error {
	var b strings.Builder
	title := "Issues"
	if kind == gitea.KindPullRequest {
		title = "Pull requests"
	}
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("%s (%d)", title, len(rows))))
	if len(rows) == 0 {
		b.WriteString("none\n")
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "%s%s %s %s\n",
			numberStyle.Render(fmt.Sprintf("#%d", row.Number)),
			stateBadge(row.State),
			row.Title,
			authorStyle.Render("@"+row.Author),
		)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write list: %w", err)
	}
	return nil
}

// writeJSONLines prints each outbound message as one JSON object per line.
func writeJSONLines(w io.Writer, posts []bridge.Outbound) error {
	for _, msg := range posts {
		data, err := bridge.Encode(msg)
		if err != nil {
			return fmt.Errorf("encode %s message: %w", msg.Kind(), err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("write %s message: %w", msg.Kind(), err)
		}
	}
	return nil
}

func writeNotices(w io.Writer, notices []host.Notice) {
	for _, n := range notices {
		if _, err := fmt.Fprintf(w, "%s: %s\n", n.Level, n.Text); err != nil {
			return
		}
	}
}
