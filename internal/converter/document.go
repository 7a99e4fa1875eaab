package converter

import (
	"github.com/johnqtcg/giteaview/internal/bridge"
	"github.com/johnqtcg/giteaview/internal/gitea"
)

// DocumentFromMessages assembles a Document from what a detail view posted
// during its load: the last updateData and timelineData win.
func DocumentFromMessages(ref gitea.ItemRef, msgs []bridge.Outbound) Document {
	doc := Document{Ref: ref}
	for _, msg := range msgs {
		switch m := msg.(type) {
		case bridge.UpdateData:
			switch item := m.Data.(type) {
			case *gitea.Issue:
				doc.Issue = item
			case *gitea.PullRequest:
				doc.Pull = item
			}
		case bridge.TimelineData:
			doc.Timeline = m.Data
		}
	}
	return doc
}
