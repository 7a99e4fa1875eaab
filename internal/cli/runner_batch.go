package cli

import (
	"context"
	"fmt"
)

// batchFailure carries the batch outcome to Run so the summary decides the
// exit code.
type batchFailure struct {
	err    error
	failed int
}

func (e *batchFailure) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("%d item(s) failed", e.failed)
}

func (e *batchFailure) Unwrap() error { return e.err }

func (a *App) runBatch(ctx context.Context, s *session, opts ShowOptions) error {
	var report BatchReport

	readErr := a.inputReader.Read(opts.InputFile, func(line string) error {
		result := a.exportOne(ctx, s, line, opts)
		report.Add(result)
		writeStatusLine(a.stdout, result)
		return nil
	})

	if readErr != nil {
		readErr = fmt.Errorf("read batch input file %q: %w", opts.InputFile, readErr)
		writeErrorLine(a.stderr, readErr)
	}
	if _, err := fmt.Fprintln(a.stdout, report.String()); err != nil {
		writeErrorLine(a.stderr, fmt.Errorf("write summary output: %w", err))
	}
	if readErr != nil || report.Failed() > 0 {
		return &batchFailure{err: readErr, failed: report.Failed()}
	}
	return nil
}

func (a *App) exportOne(ctx context.Context, s *session, raw string, opts ShowOptions) ExportResult {
	result := ExportResult{Input: raw}

	ref, err := a.resolveRef(s, raw)
	if err != nil {
		result.Err = err
		return result
	}
	result.Ref = ref

	posts, err := a.loadDetail(ctx, s, ref)
	if err != nil {
		result.Err = err
		return result
	}
	markdown, err := a.renderDocument(ref, posts, opts)
	if err != nil {
		result.Err = err
		return result
	}
	result.Path, err = a.writer.Write(opts, ModeBatch, OutputTarget{Owner: s.cfg.Owner, Repo: s.cfg.Repo, Ref: ref}, markdown)
	if err != nil {
		result.Err = fmt.Errorf("write output: %w", err)
	}
	return result
}
