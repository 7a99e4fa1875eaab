package cli

import (
	"fmt"
	"strings"

	"github.com/johnqtcg/giteaview/internal/gitea"
)

// ExportResult is the outcome of exporting one item reference.
type ExportResult struct {
	// Input is the reference as the user wrote it.
	Input string
	// Ref is zero when Input did not parse.
	Ref  gitea.ItemRef
	Path string
	Err  error
}

// OK reports whether the item was written.
func (r ExportResult) OK() bool { return r.Err == nil }

// StatusLine renders the per-item line printed after each export.
func (r ExportResult) StatusLine() string {
	if r.OK() {
		return fmt.Sprintf("OK ref=%s type=%s output=%s", r.Input, kindLabel(r.Ref.Kind), r.Path)
	}
	return fmt.Sprintf("FAILED ref=%s type=%s reason=%s", r.Input, kindLabel(r.Ref.Kind), r.Err)
}

// BatchReport tallies the exports of one --input-file run.
type BatchReport struct {
	failures []ExportResult
	exported map[gitea.ItemKind]int
	total    int
}

// Add records one export.
func (b *BatchReport) Add(r ExportResult) {
	b.total++
	if !r.OK() {
		b.failures = append(b.failures, r)
		return
	}
	if b.exported == nil {
		b.exported = make(map[gitea.ItemKind]int)
	}
	b.exported[r.Ref.Kind]++
}

// Total is the number of references read.
func (b *BatchReport) Total() int { return b.total }

// Failed is the number of references that were not written.
func (b *BatchReport) Failed() int { return len(b.failures) }

// Succeeded is the number of documents written.
func (b *BatchReport) Succeeded() int { return b.total - len(b.failures) }

// String renders the run summary followed by one line per failure.
func (b *BatchReport) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "OK total=%d succeeded=%d failed=%d issues=%d pulls=%d",
		b.Total(), b.Succeeded(), b.Failed(),
		b.exported[gitea.KindIssue], b.exported[gitea.KindPullRequest])
	for _, r := range b.failures {
		sb.WriteString("\n")
		sb.WriteString(r.StatusLine())
	}
	return sb.String()
}

func kindLabel(kind gitea.ItemKind) string {
	if kind == "" {
		return "unknown"
	}
	return string(kind)
}
