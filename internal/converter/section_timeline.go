package converter

import (
	"fmt"
	"strings"

	"github.com/johnqtcg/giteaview/internal/gitea"
	"github.com/johnqtcg/giteaview/internal/timeline"
)

func renderReactionsSection(reactions []gitea.ReactionSummary) string {
	var b strings.Builder

	b.WriteString("## Reactions\n")
	if len(reactions) == 0 {
		b.WriteString("- none\n")
		return b.String()
	}
	for _, summary := range reactions {
		fmt.Fprintf(&b, "- %s %d (%s)\n", summary.Content, summary.Count, joinLogins(summary.Users))
	}
	return b.String()
}

func renderTimelineSection(events []gitea.TimelineEvent, include bool) string {
	var b strings.Builder

	b.WriteString("## Timeline\n")
	if !include {
		b.WriteString("Timeline omitted (--timeline=false).\n")
		return b.String()
	}
	if len(events) == 0 {
		b.WriteString("- none\n")
		return b.String()
	}

	for i, event := range events {
		fmt.Fprintf(&b, "- %s | %s | %s\n", event.CreatedAt, actorOf(event), describeEvent(events, i))
		if event.Type == gitea.EventComment && strings.TrimSpace(event.Body) != "" {
			for _, line := range strings.Split(strings.TrimRight(event.Body, "\n"), "\n") {
				fmt.Fprintf(&b, "  > %s\n", line)
			}
		}
		if len(event.Reactions) > 0 {
			fmt.Fprintf(&b, "  reactions: %s\n", compactReactions(event.Reactions))
		}
	}
	return b.String()
}

func actorOf(event gitea.TimelineEvent) string {
	if event.User == nil || event.User.Login == "" {
		return "ghost"
	}
	return event.User.Login
}

func compactReactions(reactions []gitea.ReactionSummary) string {
	parts := make([]string, 0, len(reactions))
	for _, summary := range reactions {
		parts = append(parts, fmt.Sprintf("%s %d", summary.Content, summary.Count))
	}
	return strings.Join(parts, ", ")
}

// describeEvent phrases events[i] as a short activity line.
func describeEvent(events []gitea.TimelineEvent, i int) string {
	event := events[i]
	switch event.Type {
	case gitea.EventComment:
		return "commented"
	case "comment_ref", "issue_ref", "pull_ref":
		return describeReference(event)
	case "label":
		return describeLabel(events, i)
	case gitea.EventPullPush:
		payload, err := timeline.ParsePush(event)
		if err != nil {
			return "pushed commits"
		}
		n := len(payload.CommitIDs)
		text := fmt.Sprintf("pushed %d commit", n)
		if n != 1 {
			text += "s"
		}
		if payload.IsForcePush {
			text += " (force push)"
		}
		return text
	case "change_title":
		return fmt.Sprintf("changed title from %q to %q", event.OldTitle, event.NewTitle)
	case "change_target_branch":
		return fmt.Sprintf("changed target branch from %q to %q", event.OldRef, event.NewRef)
	case "merge_pull":
		return "merged this pull request"
	case "delete_branch":
		return fmt.Sprintf("deleted branch %q", event.OldRef)
	case "assignees":
		if event.Assignee == nil {
			return "changed assignees"
		}
		if event.RemovedAssignee {
			return "unassigned " + event.Assignee.Login
		}
		return "assigned " + event.Assignee.Login
	case "milestone":
		if event.Milestone != nil {
			return fmt.Sprintf("added to milestone %q", event.Milestone.Title)
		}
		return "removed from milestone"
	case "commit_ref":
		return "referenced this in a commit"
	case "review":
		return "reviewed"
	case "close":
		return "closed this"
	case "reopen":
		return "reopened this"
	default:
		return strings.ReplaceAll(event.Type, "_", " ")
	}
}

// describeLabel decides between added and removed by counting earlier events
// for the same label: odd occurrences add, even ones remove.
func describeLabel(events []gitea.TimelineEvent, i int) string {
	current := events[i]
	if current.Label == nil {
		return "modified labels"
	}
	occurrences := 0
	for _, event := range events[:i+1] {
		if event.Type == "label" && event.Label != nil && event.Label.ID == current.Label.ID {
			occurrences++
		}
	}
	action := "added"
	if occurrences%2 == 0 {
		action = "removed"
	}
	return fmt.Sprintf("%s label %q", action, current.Label.Name)
}

func describeReference(event gitea.TimelineEvent) string {
	if event.RefIssue == nil {
		return "referenced this"
	}
	itemType := "issue"
	if strings.Contains(event.RefIssue.HTMLURL, "/pulls/") {
		itemType = "pull request"
	}
	target := fmt.Sprintf("%s #%d", itemType, event.RefIssue.Number)

	switch strings.ToLower(event.RefAction) {
	case "close", "closes":
		return "referenced " + target + " that will close this"
	case "fix", "fixes":
		return "referenced " + target + " that will fix this"
	case "resolve", "resolves":
		return "referenced " + target + " that will resolve this"
	case "mention", "mentions":
		return "mentioned this in " + target
	default:
		return "referenced this in " + target
	}
}
