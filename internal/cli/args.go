package cli

import "github.com/johnqtcg/giteaview/internal/config"

// Mode identifies how show processes its references.
type Mode string

const (
	// ModeSingle processes one reference from positional args.
	ModeSingle Mode = "single"
	// ModeBatch processes many references from --input-file.
	ModeBatch Mode = "batch"
)

// OutputStdout is the --output value that writes markdown to stdout.
const OutputStdout = "-"

// ShowOptions are the flags of the show command.
type ShowOptions struct {
	JSON      bool
	Raw       bool
	Timeline  bool
	Output    string
	Force     bool
	InputFile string
}

// Args contains validated and normalized show inputs.
type Args struct {
	Mode Mode
	Ref  string
}

// ValidateArgs validates single-vs-batch constraints of the show command.
func ValidateArgs(opts ShowOptions, positional []string) (Args, error) {
	if opts.JSON && opts.Raw {
		return Args{}, config.NewConflictError("--json", "--raw")
	}
	if opts.JSON && opts.Output != "" {
		return Args{}, config.NewConflictError("--json", "--output")
	}

	if opts.InputFile != "" {
		if opts.Output == "" || opts.Output == OutputStdout {
			return Args{}, config.NewValidationError("output", "--output directory is required when --input-file is set")
		}
		if opts.JSON {
			return Args{}, config.NewConflictError("--json", "--input-file")
		}
		if len(positional) > 0 {
			return Args{}, config.NewValidationError("ref", "positional reference is not allowed when --input-file is set")
		}
		return Args{Mode: ModeBatch}, nil
	}

	if len(positional) != 1 {
		return Args{}, config.NewValidationError("ref", "exactly one item reference is required")
	}

	return Args{
		Mode: ModeSingle,
		Ref:  positional[0],
	}, nil
}
