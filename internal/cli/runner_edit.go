package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnqtcg/giteaview/internal/config"
	"github.com/johnqtcg/giteaview/internal/gitea"
)

func (a *App) newCreateCmd() *cobra.Command {
	var (
		title  string
		body   string
		labels []int64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an issue",
		Args:  exactArgs(0, "no arguments"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if title == "" {
				return config.NewValidationError("title", "--title is required")
			}
			s, err := a.openSession(cmd.Flags())
			if err != nil {
				return err
			}
			return a.runCreate(cmd.Context(), s, gitea.CreateIssueOptions{Title: title, Body: body, Labels: labels})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "issue title")
	cmd.Flags().StringVar(&body, "body", "", "issue body")
	cmd.Flags().Int64SliceVar(&labels, "label", nil, "label id (repeatable)")
	return cmd
}

func (a *App) runCreate(ctx context.Context, s *session, opts gitea.CreateIssueOptions) error {
	issue, err := s.api.CreateIssue(ctx, opts)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(a.stdout, "OK ref=issues/%d url=%s\n", issue.Number, issue.HTMLURL); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func (a *App) newEditCmd() *cobra.Command {
	var title, body string

	cmd := &cobra.Command{
		Use:   "edit <ref>",
		Short: "Edit the title or body of an issue or pull request",
		Args:  exactArgs(1, "<ref>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed("title") || cmd.Flags().Changed("body")
			if !changed {
				return config.NewValidationError("edit", "set --title or --body")
			}
			s, err := a.openSession(cmd.Flags())
			if err != nil {
				return err
			}
			ref, err := a.resolveRef(s, args[0])
			if err != nil {
				return err
			}

			var titlePtr, bodyPtr *string
			if cmd.Flags().Changed("title") {
				titlePtr = &title
			}
			if cmd.Flags().Changed("body") {
				bodyPtr = &body
			}
			return a.runEdit(cmd.Context(), s, ref, titlePtr, bodyPtr)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&body, "body", "", "new body")
	return cmd
}

func (a *App) runEdit(ctx context.Context, s *session, ref gitea.ItemRef, title, body *string) error {
	var url string
	switch ref.Kind {
	case gitea.KindPullRequest:
		pr, err := s.api.EditPullRequest(ctx, ref.Number, gitea.EditPullRequestOptions{Title: title, Body: body})
		if err != nil {
			return err
		}
		url = pr.HTMLURL
	default:
		issue, err := s.api.EditIssue(ctx, ref.Number, gitea.EditIssueOptions{Title: title, Body: body})
		if err != nil {
			return err
		}
		url = issue.HTMLURL
	}
	if _, err := fmt.Fprintf(a.stdout, "OK ref=%s url=%s\n", ref, url); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
