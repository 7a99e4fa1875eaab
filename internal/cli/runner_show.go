package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/johnqtcg/giteaview/internal/bridge"
	"github.com/johnqtcg/giteaview/internal/converter"
	"github.com/johnqtcg/giteaview/internal/gitea"
)

func (a *App) newShowCmd() *cobra.Command {
	opts := ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show <ref>",
		Short: "Show an issue or pull request with its timeline",
		Long: `Show opens the item in a detail view and prints it as markdown.

<ref> is an item URL such as https://gitea.example.com/octo/repo/issues/12
or a shorthand such as issues/12 or pulls/7.`,
		RunE: func(cmd *cobra.Command, positional []string) error {
			args, err := ValidateArgs(opts, positional)
			if err != nil {
				return err
			}
			s, err := a.openSession(cmd.Flags())
			if err != nil {
				return err
			}
			if args.Mode == ModeBatch {
				return a.runBatch(cmd.Context(), s, opts)
			}
			return a.runShow(cmd.Context(), s, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.JSON, "json", false, "print the detail view's outbound messages as JSON lines")
	flags.BoolVar(&opts.Raw, "raw", false, "print plain markdown instead of terminal styled output")
	flags.BoolVar(&opts.Timeline, "timeline", true, "include the timeline")
	flags.StringVarP(&opts.Output, "output", "o", "", `write markdown to a file or directory ("-" for stdout)`)
	flags.BoolVar(&opts.Force, "force", false, "overwrite existing output files")
	flags.StringVar(&opts.InputFile, "input-file", "", "read one reference per line (\"-\" for stdin) and export each to --output")
	return cmd
}

func (a *App) runShow(ctx context.Context, s *session, args Args, opts ShowOptions) error {
	ref, err := a.resolveRef(s, args.Ref)
	if err != nil {
		return err
	}
	posts, err := a.loadDetail(ctx, s, ref)
	if err != nil {
		return err
	}

	if opts.JSON {
		return writeJSONLines(a.stdout, posts)
	}

	markdown, err := a.renderDocument(ref, posts, opts)
	if err != nil {
		return err
	}

	switch {
	case opts.Output != "":
		path, err := a.writer.Write(opts, ModeSingle, OutputTarget{Owner: s.cfg.Owner, Repo: s.cfg.Repo, Ref: ref}, markdown)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		status := a.stdout
		if opts.Output == OutputStdout {
			// Keep stdout pure markdown.
			status = a.stderr
		}
		writeStatusLine(status, ExportResult{Input: args.Ref, Ref: ref, Path: path})
		return nil
	case opts.Raw:
		if _, err := a.stdout.Write(markdown); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
		return nil
	default:
		styled, err := renderTerminalMarkdown(markdown)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(a.stdout, styled); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
		return nil
	}
}

// loadDetail opens a detail view for ref and returns what its initial load
// pushed. The first error notice fails the load.
func (a *App) loadDetail(ctx context.Context, s *session, ref gitea.ItemRef) ([]bridge.Outbound, error) {
	surface := &captureSurface{}
	view, err := s.host.OpenDetail(ctx, ref, surface)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ref, err)
	}
	defer view.Dispose()

	posts, notices := surface.drain()
	if err := firstError(notices); err != nil {
		return nil, fmt.Errorf("load %s: %w", ref, err)
	}
	return posts, nil
}

func (a *App) renderDocument(ref gitea.ItemRef, posts []bridge.Outbound, opts ShowOptions) ([]byte, error) {
	doc := converter.DocumentFromMessages(ref, posts)
	markdown, err := a.renderer.Render(doc, converter.RenderOptions{IncludeTimeline: opts.Timeline})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", ref, err)
	}
	return markdown, nil
}

func writeStatusLine(w io.Writer, result ExportResult) {
	_, _ = fmt.Fprintln(w, result.StatusLine())
}
