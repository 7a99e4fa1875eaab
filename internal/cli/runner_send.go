package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnqtcg/giteaview/internal/bridge"
	"github.com/johnqtcg/giteaview/internal/gitea"
)

func (a *App) newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <ref> <message>",
		Short: "Drive one bridge message through a detail view",
		Long: `Send opens the item in a detail view, delivers one inbound message and
prints every outbound message it produced as a JSON line. Notices go to
stderr.

Example:
  giteaview send issues/12 '{"type":"addComment","body":"LGTM"}'`,
		Args: exactArgs(2, "<ref> <message>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := bridge.Decode([]byte(args[1]))
			if err != nil {
				return fmt.Errorf("decode message: %w", err)
			}
			s, err := a.openSession(cmd.Flags())
			if err != nil {
				return err
			}
			ref, err := a.resolveRef(s, args[0])
			if err != nil {
				return err
			}
			return a.runSend(cmd.Context(), s, ref, msg)
		},
	}
}

func (a *App) runSend(ctx context.Context, s *session, ref gitea.ItemRef, msg bridge.Inbound) error {
	surface := &captureSurface{}
	view, err := s.host.OpenDetail(ctx, ref, surface)
	if err != nil {
		return fmt.Errorf("open %s: %w", ref, err)
	}
	defer view.Dispose()

	// The initial load is not part of the reply.
	_, notices := surface.drain()
	if err := firstError(notices); err != nil {
		return fmt.Errorf("load %s: %w", ref, err)
	}

	handleErr := view.Handle(ctx, msg)
	posts, notices := surface.drain()
	if err := writeJSONLines(a.stdout, posts); err != nil {
		return err
	}
	writeNotices(a.stderr, notices)
	if handleErr != nil {
		return fmt.Errorf("handle %s: %w", msg.Kind(), handleErr)
	}
	return nil
}
