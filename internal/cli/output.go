package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/johnqtcg/giteaview/internal/gitea"
)

// ErrOutputConflict is returned when the export file exists and --force is not set.
var ErrOutputConflict = errors.New("output file already exists")

const outputPathStdout = "stdout"

// OutputTarget names the item a markdown document belongs to.
type OutputTarget struct {
	Owner string
	Repo  string
	Ref   gitea.ItemRef
}

// FileName is the export file name used when --output names a directory,
// e.g. octo-repo-issue-1.md or octo-repo-pr-2.md.
func (t OutputTarget) FileName() (string, error) {
	var kind string
	switch t.Ref.Kind {
	case gitea.KindIssue:
		kind = "issue"
	case gitea.KindPullRequest:
		kind = "pr"
	default:
		return "", fmt.Errorf("unsupported item kind %q", t.Ref.Kind)
	}
	return fmt.Sprintf("%s-%s-%s-%d.md", t.Owner, t.Repo, kind, t.Ref.Number), nil
}

// OutputWriter stores an exported document and returns where it went.
type OutputWriter interface {
	Write(opts ShowOptions, mode Mode, target OutputTarget, markdown []byte) (string, error)
}

type markdownWriter struct {
	stdout io.Writer
}

// NewOutputWriter writes exports to stdout for "-o -" and to files otherwise.
func NewOutputWriter(stdout io.Writer) OutputWriter {
	return markdownWriter{stdout: stdout}
}

func (w markdownWriter) Write(opts ShowOptions, mode Mode, target OutputTarget, markdown []byte) (string, error) {
	if opts.Output == OutputStdout {
		if _, err := w.stdout.Write(markdown); err != nil {
			return "", fmt.Errorf("write markdown to stdout: %w", err)
		}
		return outputPathStdout, nil
	}

	path, err := exportPath(opts.Output, mode, target)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	if !opts.Force {
		if err := refuseExisting(path); err != nil {
			return "", fmt.Errorf("validate output path %q: %w", path, err)
		}
	}
	if err := replaceFile(path, markdown); err != nil {
		return "", err
	}
	return path, nil
}

// exportPath picks the file for one export. Batch runs always write into
// the --output directory; a single export may name a file or a directory.
func exportPath(output string, mode Mode, target OutputTarget) (string, error) {
	name, err := target.FileName()
	if err != nil {
		return "", err
	}

	switch {
	case mode == ModeBatch && output == "":
		return "", fmt.Errorf("batch output path is empty")
	case mode == ModeBatch:
		return filepath.Join(output, name), nil
	case output == "":
		return name, nil
	}

	info, err := os.Stat(output)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(output, name), nil
	case err == nil:
		return output, nil
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("stat output path %q: %w", output, err)
	case strings.EqualFold(filepath.Ext(output), ".md"):
		return output, nil
	default:
		return filepath.Join(output, name), nil
	}
}

func refuseExisting(path string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return ErrOutputConflict
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("stat output file: %w", err)
	}
}

// replaceFile writes markdown to a temp file next to path and renames it
// into place, so a failed export never leaves a truncated document.
func replaceFile(path string, markdown []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".giteaview-*.md")
	if err != nil {
		return fmt.Errorf("create temp file in %q: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(markdown); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write output file %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output file %q: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod output file %q: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("move output file into %q: %w", path, err)
	}
	return nil
}
