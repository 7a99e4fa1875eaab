package converter

import (
	"fmt"
	"strings"

	"github.com/johnqtcg/giteaview/internal/gitea"
	"github.com/johnqtcg/giteaview/internal/timeline"
)

func renderPRMetadata(pr *gitea.PullRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "- head: %s\n", pr.Head.Ref)
	fmt.Fprintf(&b, "- base: %s\n", pr.Base.Ref)
	fmt.Fprintf(&b, "- merged: %t\n", pr.Merged)
	if pr.MergedAt != nil && *pr.MergedAt != "" {
		fmt.Fprintf(&b, "- merged_at: %s\n", *pr.MergedAt)
	}
	fmt.Fprintf(&b, "- mergeable: %s\n", mergeableText(pr.Mergeable))
	return b.String()
}

func mergeableText(mergeable *bool) string {
	switch {
	case mergeable == nil:
		return "unknown"
	case *mergeable:
		return "yes"
	default:
		return "no"
	}
}

func renderPushedCommits(events []gitea.TimelineEvent) string {
	ids := timeline.CommitIDs(events)
	if len(ids) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("- Pushed commits:\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "  - %s\n", id)
	}
	return b.String()
}
