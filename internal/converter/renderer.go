package converter

import (
	"fmt"
	"strings"

	"github.com/johnqtcg/giteaview/internal/gitea"
)

// RenderOptions controls markdown rendering behavior.
type RenderOptions struct {
	IncludeTimeline bool
}

// Document is one item together with its enriched timeline.
// Exactly one of Issue and Pull is set, matching Ref.Kind.
type Document struct {
	Ref      gitea.ItemRef
	Issue    *gitea.Issue
	Pull     *gitea.PullRequest
	Timeline []gitea.TimelineEvent
}

// Renderer converts an item and its timeline into markdown output.
type Renderer interface {
	Render(doc Document, opts RenderOptions) ([]byte, error)
}

type renderer struct{}

// NewRenderer creates a markdown renderer instance.
func NewRenderer() Renderer {
	return renderer{}
}

func (renderer) Render(doc Document, opts RenderOptions) ([]byte, error) {
	head, err := headerOf(doc)
	if err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	front, err := renderFrontMatter(doc, head)
	if err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	var b strings.Builder
	b.WriteString(front)
	fmt.Fprintf(&b, "# %s\n\n", head.Title)
	b.WriteString(renderMetadataSection(doc, head))

	b.WriteString("\n## Description\n\n")
	if strings.TrimSpace(head.Body) == "" {
		b.WriteString("(empty)\n")
	} else {
		b.WriteString(head.Body)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderReactionsSection(head.Reactions))
	b.WriteString("\n")
	b.WriteString(renderTimelineSection(doc.Timeline, opts.IncludeTimeline))

	b.WriteString("\n## References\n")
	fmt.Fprintf(&b, "- Original URL: %s\n", head.URL)
	if doc.Ref.Kind == gitea.KindPullRequest {
		b.WriteString(renderPushedCommits(doc.Timeline))
	}

	return []byte(b.String()), nil
}

// header holds the fields shared by both item kinds.
type header struct {
	Title     string
	Body      string
	State     gitea.State
	Author    string
	CreatedAt string
	UpdatedAt string
	URL       string
	Labels    []gitea.Label
	Assignees []gitea.User
	Reactions []gitea.ReactionSummary
}

func headerOf(doc Document) (header, error) {
	switch doc.Ref.Kind {
	case gitea.KindIssue:
		if doc.Issue == nil {
			return header{}, fmt.Errorf("missing issue data for %s", doc.Ref)
		}
		it := doc.Issue
		return header{
			Title: it.Title, Body: it.Body, State: it.State, Author: it.User.Login,
			CreatedAt: it.CreatedAt, UpdatedAt: it.UpdatedAt, URL: it.HTMLURL,
			Labels: it.Labels, Assignees: it.Assignees, Reactions: it.Reactions,
		}, nil
	case gitea.KindPullRequest:
		if doc.Pull == nil {
			return header{}, fmt.Errorf("missing pull request data for %s", doc.Ref)
		}
		pr := doc.Pull
		return header{
			Title: pr.Title, Body: pr.Body, State: pr.State, Author: pr.User.Login,
			CreatedAt: pr.CreatedAt, UpdatedAt: pr.UpdatedAt, URL: pr.HTMLURL,
			Labels: pr.Labels, Assignees: pr.Assignees, Reactions: pr.Reactions,
		}, nil
	default:
		return header{}, fmt.Errorf("unsupported item kind %q", doc.Ref.Kind)
	}
}

func renderMetadataSection(doc Document, head header) string {
	var b strings.Builder

	b.WriteString("## Metadata\n")
	fmt.Fprintf(&b, "- type: %s\n", doc.Ref.Kind)
	fmt.Fprintf(&b, "- number: %d\n", doc.Ref.Number)
	fmt.Fprintf(&b, "- state: %s\n", head.State)
	fmt.Fprintf(&b, "- author: %s\n", head.Author)
	fmt.Fprintf(&b, "- created_at: %s\n", head.CreatedAt)
	fmt.Fprintf(&b, "- updated_at: %s\n", head.UpdatedAt)
	fmt.Fprintf(&b, "- url: %s\n", head.URL)
	fmt.Fprintf(&b, "- labels: %s\n", joinLabels(head.Labels))
	fmt.Fprintf(&b, "- assignees: %s\n", joinLogins(head.Assignees))

	if doc.Ref.Kind == gitea.KindPullRequest {
		b.WriteString(renderPRMetadata(doc.Pull))
	}
	return b.String()
}

func joinLabels(labels []gitea.Label) string {
	if len(labels) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, label.Name)
	}
	return strings.Join(parts, ", ")
}

func joinLogins(users []gitea.User) string {
	if len(users) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(users))
	for _, user := range users {
		parts = append(parts, user.Login)
	}
	return strings.Join(parts, ", ")
}
