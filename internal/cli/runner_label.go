package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/johnqtcg/giteaview/internal/config"
	"github.com/johnqtcg/giteaview/internal/gitea"
)

func (a *App) newLabelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Inspect labels and attach or detach them",
		Args:  exactArgs(0, "a label subcommand"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <label-id>",
		Short: "Show one repository label",
		Args:  exactArgs(1, "<label-id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseLabelIDs(args)
			if err != nil {
				return err
			}
			s, err := a.openSession(cmd.Flags())
			if err != nil {
				return err
			}
			label, err := s.api.GetLabel(cmd.Context(), ids[0])
			if err != nil {
				return err
			}
			return a.writeLabels([]gitea.Label{*label})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <ref> <label-id>...",
		Short: "Attach labels to an issue or pull request",
		Args:  minArgs(2, "<ref> <label-id>..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLabelChange(cmd, args, true)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <ref> <label-id>...",
		Short: "Detach labels from an issue or pull request",
		Args:  minArgs(2, "<ref> <label-id>..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLabelChange(cmd, args, false)
		},
	})
	return cmd
}

func (a *App) runLabelChange(cmd *cobra.Command, args []string, add bool) error {
	ids, err := parseLabelIDs(args[1:])
	if err != nil {
		return err
	}
	s, err := a.openSession(cmd.Flags())
	if err != nil {
		return err
	}
	ref, err := a.resolveRef(s, args[0])
	if err != nil {
		return err
	}
	if add {
		labels, err := s.api.AddLabels(cmd.Context(), ref.Number, ids)
		if err != nil {
			return err
		}
		return a.writeLabels(labels)
	}
	return a.removeLabels(cmd.Context(), s, ref, ids)
}

func (a *App) removeLabels(ctx context.Context, s *session, ref gitea.ItemRef, ids []int64) error {
	for _, id := range ids {
		if err := s.api.RemoveLabel(ctx, ref.Number, id); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(a.stdout, "OK ref=%s removed=%d\n", ref, id); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	return nil
}

func (a *App) writeLabels(labels []gitea.Label) error {
	for _, label := range labels {
		if _, err := fmt.Fprintf(a.stdout, "%d\t#%s\t%s\n", label.ID, label.Color, label.Name); err != nil {
			return fmt.Errorf("write labels: %w", err)
		}
	}
	return nil
}

func parseLabelIDs(raw []string) ([]int64, error) {
	ids := make([]int64, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return nil, config.NewValidationError("label-id", fmt.Sprintf("%q is not a label id", s))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
