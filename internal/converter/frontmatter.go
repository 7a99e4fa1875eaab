package converter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/johnqtcg/giteaview/internal/gitea"
)

type frontMatter struct {
	Type      string   `yaml:"type"`
	Title     string   `yaml:"title"`
	Number    int      `yaml:"number"`
	State     string   `yaml:"state"`
	Author    string   `yaml:"author"`
	CreatedAt string   `yaml:"created_at"`
	UpdatedAt string   `yaml:"updated_at"`
	URL       string   `yaml:"url"`
	Labels    []string `yaml:"labels"`
	Assignees []string `yaml:"assignees"`
	Head      string   `yaml:"head,omitempty"`
	Base      string   `yaml:"base,omitempty"`
	Merged    *bool    `yaml:"merged,omitempty"`
	MergedAt  string   `yaml:"merged_at,omitempty"`
	Mergeable *bool    `yaml:"mergeable,omitempty"`
}

func renderFrontMatter(doc Document, head header) (string, error) {
	fm := frontMatter{
		Type:      string(doc.Ref.Kind),
		Title:     head.Title,
		Number:    doc.Ref.Number,
		State:     string(head.State),
		Author:    head.Author,
		CreatedAt: head.CreatedAt,
		UpdatedAt: head.UpdatedAt,
		URL:       head.URL,
		Labels:    make([]string, 0, len(head.Labels)),
		Assignees: make([]string, 0, len(head.Assignees)),
	}
	for _, label := range head.Labels {
		fm.Labels = append(fm.Labels, label.Name)
	}
	for _, user := range head.Assignees {
		fm.Assignees = append(fm.Assignees, user.Login)
	}
	if pr := doc.Pull; doc.Ref.Kind == gitea.KindPullRequest && pr != nil {
		merged := pr.Merged
		fm.Head = pr.Head.Ref
		fm.Base = pr.Base.Ref
		fm.Merged = &merged
		if pr.MergedAt != nil {
			fm.MergedAt = *pr.MergedAt
		}
		fm.Mergeable = pr.Mergeable
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	buf.WriteString("---\n\n")
	return buf.String(), nil
}
