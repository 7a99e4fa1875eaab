package converter

import "github.com/johnqtcg/giteaview/internal/gitea"

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func sampleIssueDoc() Document {
	alice := gitea.User{ID: 1, Login: "alice"}
	bob := gitea.User{ID: 2, Login: "bob"}
	bug := gitea.Label{ID: 10, Name: "bug"}

	return Document{
		Ref: gitea.ItemRef{Kind: gitea.KindIssue, Number: 123},
		Issue: &gitea.Issue{
			Number:    123,
			Title:     "Panic on nil config",
			Body:      "App panics when config is nil.",
			State:     gitea.StateOpen,
			User:      alice,
			Labels:    []gitea.Label{bug, {ID: 11, Name: "help wanted"}},
			Assignees: []gitea.User{bob},
			CreatedAt: "2026-01-01T10:00:00Z",
			UpdatedAt: "2026-01-02T11:00:00Z",
			HTMLURL:   "https://gitea.example.com/octo/repo/issues/123",
			Reactions: []gitea.ReactionSummary{
				{Content: "+1", Count: 2, Users: []gitea.User{alice, bob}},
			},
		},
		Timeline: []gitea.TimelineEvent{
			{ID: 1, Type: "label", User: &alice, CreatedAt: "2026-01-01T10:30:00Z", Label: &bug},
			{
				ID:        2,
				Type:      gitea.EventComment,
				User:      &bob,
				CreatedAt: "2026-01-01T12:00:00Z",
				Body:      "I can reproduce this.\nOn main too.",
				Reactions: []gitea.ReactionSummary{{Content: "heart", Count: 1, Users: []gitea.User{alice}}},
			},
			{ID: 3, Type: "label", User: &alice, CreatedAt: "2026-01-01T13:00:00Z", Label: &bug},
			{ID: 4, Type: "close", User: &alice, CreatedAt: "2026-01-02T11:00:00Z"},
		},
	}
}

func samplePRDoc() Document {
	carol := gitea.User{ID: 3, Login: "carol"}

	return Document{
		Ref: gitea.ItemRef{Kind: gitea.KindPullRequest, Number: 42},
		Pull: &gitea.PullRequest{
			Number:    42,
			Title:     "Fix nil config panic",
			Body:      "",
			State:     gitea.StateClosed,
			User:      carol,
			Head:      gitea.BranchRef{Ref: "fix-nil"},
			Base:      gitea.BranchRef{Ref: "main"},
			Merged:    true,
			MergedAt:  strPtr("2026-01-04T09:30:00Z"),
			CreatedAt: "2026-01-03T10:00:00Z",
			UpdatedAt: "2026-01-04T09:30:00Z",
			HTMLURL:   "https://gitea.example.com/octo/repo/pulls/42",
		},
		Timeline: []gitea.TimelineEvent{
			{ID: 5, Type: gitea.EventPullPush, User: &carol, CreatedAt: "2026-01-03T11:00:00Z", Body: `{"is_force_push":false,"commit_ids":["abc123","def456"]}`},
			{ID: 6, Type: gitea.EventPullPush, User: &carol, CreatedAt: "2026-01-03T12:00:00Z", Body: `{"is_force_push":true,"commit_ids":["0a1b2c"]}`},
			{ID: 7, Type: "merge_pull", User: &carol, CreatedAt: "2026-01-04T09:30:00Z"},
		},
	}
}
