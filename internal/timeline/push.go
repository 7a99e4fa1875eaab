package timeline

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/johnqtcg/giteaview/internal/gitea"
)

// ErrNotPushEvent is returned by ParsePush for events of another type.
var ErrNotPushEvent = errors.New("timeline event is not a pull_push event")

// PushPayload is the JSON document Gitea stores in a pull_push event body.
type PushPayload struct {
	IsForcePush bool     `json:"is_force_push"`
	CommitIDs   []string `json:"commit_ids"`
}

// ParsePush decodes the push payload embedded in a pull_push event.
func ParsePush(event gitea.TimelineEvent) (PushPayload, error) {
	if event.Type != gitea.EventPullPush {
		return PushPayload{}, ErrNotPushEvent
	}
	var payload PushPayload
	if err := json.Unmarshal([]byte(event.Body), &payload); err != nil {
		return PushPayload{}, fmt.Errorf("decode push payload of event %d: %w", event.ID, err)
	}
	return payload, nil
}

// CommitIDs collects the commit SHAs of every decodable push event, in
// timeline order.
func CommitIDs(events []gitea.TimelineEvent) []string {
	var ids []string
	for _, event := range events {
		payload, err := ParsePush(event)
		if err != nil {
			continue
		}
		ids = append(ids, payload.CommitIDs...)
	}
	return ids
}
