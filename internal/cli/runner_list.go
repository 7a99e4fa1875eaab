package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnqtcg/giteaview/internal/bridge"
	"github.com/johnqtcg/giteaview/internal/config"
	"github.com/johnqtcg/giteaview/internal/gitea"
)

func (a *App) newListCmd(use string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   use + " issues|pulls",
		Short: "List the repository's open issues or pull requests",
		Args:  exactArgs(1, "issues or pulls"),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseListKind(args[0])
			if err != nil {
				return err
			}
			s, err := a.openSession(cmd.Flags())
			if err != nil {
				return err
			}
			return a.runList(cmd.Context(), s, kind, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the updateData message as JSON")
	return cmd
}

func parseListKind(raw string) (gitea.ItemKind, error) {
	switch raw {
	case "issues", "issue":
		return gitea.KindIssue, nil
	case "pulls", "pull", "prs":
		return gitea.KindPullRequest, nil
	default:
		return "", config.NewValidationError("kind", fmt.Sprintf("%q is not issues or pulls", raw))
	}
}

func (a *App) runList(ctx context.Context, s *session, kind gitea.ItemKind, asJSON bool) error {
	surface := &captureSurface{}
	view, err := s.host.OpenList(ctx, kind, surface, nil)
	if err != nil {
		return fmt.Errorf("open list: %w", err)
	}
	defer view.Dispose()

	posts, notices := surface.drain()
	if err := firstError(notices); err != nil {
		return fmt.Errorf("list %ss: %w", kind, err)
	}
	if asJSON {
		return writeJSONLines(a.stdout, posts)
	}

	for _, msg := range posts {
		update, ok := msg.(bridge.UpdateData)
		if !ok {
			continue
		}
		rows, err := rowsOf(update.Data)
		if err != nil {
			return err
		}
		return writeListTable(a.stdout, kind, rows)
	}
	return fmt.Errorf("list %ss: no data received", kind)
}
