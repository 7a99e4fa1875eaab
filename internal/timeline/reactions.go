package timeline

import "github.com/johnqtcg/giteaview/internal/gitea"

// AvailableReactions is the reaction set a Gitea instance accepts by default.
var AvailableReactions = []string{"+1", "-1", "laugh", "hooray", "confused", "heart", "rocket", "eyes"}

// IsAvailableReaction reports whether content is one of AvailableReactions.
func IsAvailableReaction(content string) bool {
	for _, r := range AvailableReactions {
		if r == content {
			return true
		}
	}
	return false
}

// Summarize groups raw reactions by content in first-occurrence order.
// Repeated rows by the same user are counted individually. Me is set when
// me matches any reacting user by ID or by login.
func Summarize(reactions []gitea.Reaction, me *gitea.User) []gitea.ReactionSummary {
	out := make([]gitea.ReactionSummary, 0, len(reactions))
	index := make(map[string]int, len(reactions))

	for _, r := range reactions {
		i, ok := index[r.Content]
		if !ok {
			i = len(out)
			index[r.Content] = i
			out = append(out, gitea.ReactionSummary{Content: r.Content, Users: []gitea.User{}})
		}
		s := &out[i]
		s.Count++
		s.Users = append(s.Users, r.User)
		if !s.Me && isMe(r.User, me) {
			s.Me = true
		}
	}
	return out
}

func isMe(u gitea.User, me *gitea.User) bool {
	if me == nil {
		return false
	}
	if me.ID != 0 && u.ID == me.ID {
		return true
	}
	return me.Login != "" && u.Login == me.Login
}
