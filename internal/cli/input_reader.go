package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// InputStdin as --input-file reads references from standard input.
const InputStdin = "-"

// InputReader streams item references from a batch input.
type InputReader interface {
	Read(path string, handle func(ref string) error) error
}

type refListReader struct {
	stdin io.Reader
}

// NewFileInputReader reads one reference per line from a file, or from
// stdin when the path is "-". Blank lines and lines starting with "//" are
// skipped.
func NewFileInputReader(stdin io.Reader) InputReader {
	return refListReader{stdin: stdin}
}

func (r refListReader) Read(path string, handle func(ref string) error) (err error) {
	if path == InputStdin {
		if r.stdin == nil {
			return fmt.Errorf("read references: stdin is not available")
		}
		return scanRefs("stdin", r.stdin, handle)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input file %q: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close input file %q: %w", path, closeErr)
		}
	}()
	return scanRefs(fmt.Sprintf("input file %q", path), file, handle)
}

func scanRefs(source string, in io.Reader, handle func(ref string) error) error {
	scanner := bufio.NewScanner(in)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		ref := strings.TrimSpace(scanner.Text())
		if ref == "" || strings.HasPrefix(ref, "//") {
			continue
		}
		if err := handle(ref); err != nil {
			return fmt.Errorf("%s line %d %q: %w", source, lineNo, ref, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", source, err)
	}
	return nil
}
