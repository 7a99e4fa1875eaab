package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/johnqtcg/giteaview/internal/config"
	"github.com/johnqtcg/giteaview/internal/converter"
	"github.com/johnqtcg/giteaview/internal/gitea"
	"github.com/johnqtcg/giteaview/internal/host"
	"github.com/johnqtcg/giteaview/internal/parser"
)

// Runner executes the CLI application flow.
type Runner interface {
	Run(ctx context.Context, args []string) int
}

// API is the client surface the commands use. *gitea.Client satisfies it.
type API interface {
	host.API

	CreateIssue(ctx context.Context, opts gitea.CreateIssueOptions) (*gitea.Issue, error)
	EditIssue(ctx context.Context, number int, opts gitea.EditIssueOptions) (*gitea.Issue, error)
	EditPullRequest(ctx context.Context, number int, opts gitea.EditPullRequestOptions) (*gitea.PullRequest, error)
	GetLabel(ctx context.Context, id int64) (*gitea.Label, error)
	AddLabels(ctx context.Context, number int, ids []int64) ([]gitea.Label, error)
	RemoveLabel(ctx context.Context, number int, id int64) error
}

// APIFactory creates API clients from runtime config.
type APIFactory interface {
	New(cfg config.Config) (API, error)
}

// AppDeps defines dependencies for CLI app construction.
type AppDeps struct {
	Loader      config.Loader
	Parser      parser.RefParser
	APIFactory  APIFactory
	Renderer    converter.Renderer
	Writer      OutputWriter
	InputReader InputReader
	Opener      host.Opener
	// HTTPClient is handed to the default APIFactory.
	HTTPClient *http.Client
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

// App wires the cobra command tree to the view hosts.
type App struct {
	loader      config.Loader
	parser      parser.RefParser
	apiFactory  APIFactory
	renderer    converter.Renderer
	writer      OutputWriter
	inputReader InputReader
	opener      host.Opener
	stdout      io.Writer
	stderr      io.Writer
}

// NewApp creates a CLI runner with injected dependencies.
func NewApp(deps AppDeps) Runner {
	app := &App{
		loader:      deps.Loader,
		parser:      deps.Parser,
		apiFactory:  deps.APIFactory,
		renderer:    deps.Renderer,
		writer:      deps.Writer,
		inputReader: deps.InputReader,
		opener:      deps.Opener,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}
	app.setDefaults(deps.HTTPClient, deps.Stdin)
	return app
}

func (a *App) setDefaults(httpClient *http.Client, stdin io.Reader) {
	if a.loader == nil {
		a.loader = config.NewLoader()
	}
	if a.parser == nil {
		a.parser = parser.New()
	}
	if a.apiFactory == nil {
		a.apiFactory = defaultAPIFactory{httpClient: httpClient}
	}
	if a.renderer == nil {
		a.renderer = converter.NewRenderer()
	}
	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	if a.stderr == nil {
		a.stderr = os.Stderr
	}
	if a.writer == nil {
		a.writer = NewOutputWriter(a.stdout)
	}
	if a.inputReader == nil {
		if stdin == nil {
			stdin = os.Stdin
		}
		a.inputReader = NewFileInputReader(stdin)
	}
}

// Run executes the CLI workflow and returns an exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	root := a.newRootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	var batchErr *batchFailure
	if errors.As(err, &batchErr) {
		return ResolveExitCode(batchErr.err, true, batchErr.failed)
	}
	if err != nil {
		writeErrorLine(a.stderr, err)
	}
	return ResolveExitCode(err, false, 0)
}

func (a *App) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "giteaview",
		Short: "Browse and act on Gitea issues and pull requests",
		Long: `giteaview lists, shows and drives the issues and pull requests of one
Gitea repository. Settings come from flags, GITEA_* environment variables or
$HOME/.config/giteaview/config.yaml.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return config.NewValidationError("command", fmt.Sprintf("unknown command %q", args[0]))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return config.NewValidationError("flags", err.Error())
	})

	flags := root.PersistentFlags()
	config.RegisterFlags(flags)
	flags.BoolP("verbose", "v", false, "log API and host activity to stderr")

	root.AddCommand(a.newListCmd("list"))
	root.AddCommand(a.newListCmd("refresh"))
	root.AddCommand(a.newShowCmd())
	root.AddCommand(a.newSendCmd())
	root.AddCommand(a.newCreateCmd())
	root.AddCommand(a.newEditCmd())
	root.AddCommand(a.newLabelCmd())
	return root
}

// session is the per-command state shared by every subcommand.
type session struct {
	cfg    config.Config
	api    API
	host   *host.Host
	logger *log.Logger
}

func (a *App) openSession(flags *pflag.FlagSet) (*session, error) {
	cfg, err := a.loader.Load(flags)
	if err != nil {
		return nil, err
	}

	api, err := a.apiFactory.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}

	logger := log.New(io.Discard, "", 0)
	if verbose, _ := flags.GetBool("verbose"); verbose {
		logger = log.New(a.stderr, "giteaview: ", log.LstdFlags)
	}

	return &session{
		cfg:    cfg,
		api:    api,
		logger: logger,
		host: host.New(host.Deps{
			API:    api,
			Opener: a.opener,
			Logger: logger,
		}),
	}, nil
}

// resolveRef parses raw and checks that it points into the configured repository.
func (a *App) resolveRef(s *session, raw string) (gitea.ItemRef, error) {
	target, err := a.parser.Parse(raw)
	if err != nil {
		return gitea.ItemRef{}, fmt.Errorf("parse item reference: %w", err)
	}
	if !target.InRepository(s.cfg.Owner, s.cfg.Repo) {
		return gitea.ItemRef{}, config.NewValidationError("ref", fmt.Sprintf(
			"%s/%s is not the configured repository %s/%s", target.Owner, target.Repo, s.cfg.Owner, s.cfg.Repo))
	}
	return target.Ref, nil
}

type defaultAPIFactory struct {
	httpClient *http.Client
}

var _ API = (*gitea.Client)(nil)

func (f defaultAPIFactory) New(cfg config.Config) (API, error) {
	settings := cfg.Client()
	settings.HTTPClient = f.httpClient
	client, err := gitea.NewClient(settings)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return config.NewValidationError("args", fmt.Sprintf("expected %s", usage))
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return config.NewValidationError("args", fmt.Sprintf("expected %s", usage))
		}
		return nil
	}
}

func writeErrorLine(w io.Writer, err error) {
	if _, writeErr := fmt.Fprintf(w, "error: %v\n", err); writeErr != nil {
		return
	}
}
