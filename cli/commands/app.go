// Package commands implements the ocbot CLI on top of Cobra.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/petal-labs/ocbot/cli/config"
	"github.com/petal-labs/ocbot/cli/keystore"
	"github.com/petal-labs/ocbot/cli/logging"
	"github.com/petal-labs/ocbot/core"
	"github.com/petal-labs/ocbot/middleware"
	"github.com/petal-labs/ocbot/runtimes"
	"github.com/petal-labs/ocbot/runtimes/httpapi"
	_ "github.com/petal-labs/ocbot/runtimes/memory"
)

// ConfigLoader loads CLI config from a path.
type ConfigLoader func(path string) (*config.Config, error)

// RuntimeFactory creates the runtime named by --runtime or default_runtime.
type RuntimeFactory func(name string, token core.Secret, cfg *config.Config) (core.Runtime, error)

// KeystoreFactory creates a keystore instance.
type KeystoreFactory func() (keystore.Keystore, error)

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig    ConfigLoader
	createRuntime RuntimeFactory
	newKeystore   KeystoreFactory
	stdin         io.Reader
	stdout        io.Writer
	stderr        io.Writer
	logger        *slog.Logger
	cfg           *config.Config

	cfgFile     string
	runtimeName string
	botID       string
	chat        string
	community   string
	jsonOutput  bool
	verbose     bool
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithRuntimeFactory injects a runtime factory dependency.
func WithRuntimeFactory(factory RuntimeFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.createRuntime = factory
		}
	}
}

// WithKeystoreFactory injects a keystore factory dependency.
func WithKeystoreFactory(factory KeystoreFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newKeystore = factory
		}
	}
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig:    config.LoadConfig,
		createRuntime: defaultRuntimeFactory,
		newKeystore:   keystore.NewKeystore,
		stdin:         os.Stdin,
		stdout:        os.Stdout,
		stderr:        os.Stderr,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "ocbot",
		Short: "ocbot - act on a chat platform as a bot",
		Long: `ocbot is a command-line interface for the ocbot SDK.

Use ocbot to send messages, manage channels, read chats, store bot tokens
and scaffold new bot projects.

The memory runtime is an in-process fake for dry runs. Each invocation
starts fresh with the chats group:demo and channel:demo/general.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	// Global flags available to all commands.
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.ocbot/config.yaml)")
	root.PersistentFlags().StringVar(&a.runtimeName, "runtime", "", "runtime ID ("+joinNames(runtimes.List())+")")
	root.PersistentFlags().StringVar(&a.botID, "bot", "", "bot user ID")
	root.PersistentFlags().StringVar(&a.chat, "chat", "", "target chat (direct:<user>, group:<id>, channel:<community>/<channel>)")
	root.PersistentFlags().StringVar(&a.community, "community", "", "target community for channel commands")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(a.newSendCommand())
	root.AddCommand(a.newChannelCommand())
	root.AddCommand(a.newChatCommand())
	root.AddCommand(a.newKeysCommand())
	root.AddCommand(a.newInitCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// SetArgs overrides the command line arguments, mainly for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// Execute runs the root command. Errors not yet shown to the user are
// reported here; those without an exit code map to ExitValidation.
func (a *App) Execute() error {
	err := a.root.Execute()
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if !ee.reported {
			a.printError("validation_error", err.Error(), nil)
		}
		return err
	}
	a.printError("usage_error", err.Error(), nil)
	return exitWithCode(ExitValidation, err)
}

func (a *App) initConfig() error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := a.loadConfig(path)
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("loading config: %w", err))
	}
	a.cfg = cfg

	// Apply config defaults if flags not set.
	if a.runtimeName == "" {
		a.runtimeName = cfg.DefaultRuntime
	}
	if a.runtimeName == "" {
		a.runtimeName = "httpapi"
	}
	if a.botID == "" {
		a.botID = cfg.BotID
	}

	level := cfg.Logging.Level
	if a.verbose {
		level = "debug"
	}
	format := cfg.Logging.Format
	if a.jsonOutput && format == "" {
		format = "json"
	}
	logger, err := logging.New(a.stderr, level, format)
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}
	a.logger = logger

	return nil
}

// runtime builds the configured runtime with middleware from config.
func (a *App) runtime() (core.Runtime, error) {
	token, err := a.token()
	if err != nil {
		return nil, err
	}

	rt, err := a.createRuntime(a.runtimeName, token, a.cfg)
	if err != nil {
		return nil, exitWithCode(ExitValidation, err)
	}

	mws := []middleware.Middleware{middleware.WithLogging(a.logger)}
	m := a.cfg.Middleware
	if m.Timeout > 0 {
		mws = append(mws, middleware.WithTimeout(m.Timeout))
	}
	if m.Retries > 0 {
		mws = append(mws, middleware.WithRetry(middleware.NewRetryPolicy(middleware.RetryConfig{MaxRetries: m.Retries})))
	}
	if m.RateLimit > 0 {
		mws = append(mws, middleware.WithRateLimit(m.RateLimit, m.RateBurst))
	}
	return middleware.Wrap(rt, mws...), nil
}

// token resolves the bot token: OCBOT_TOKEN first, then the keystore entry
// named by token_ref, falling back to the runtime name.
func (a *App) token() (core.Secret, error) {
	if v := os.Getenv(httpapi.DefaultTokenEnvVar); v != "" {
		return core.NewSecret(v), nil
	}

	ref := a.runtimeName
	if rc := a.cfg.GetRuntime(a.runtimeName); rc != nil && rc.TokenRef != "" {
		ref = rc.TokenRef
	}

	ks, err := a.newKeystore()
	if err != nil {
		return core.Secret{}, exitWithCode(ExitValidation, fmt.Errorf("failed to open keystore: %w", err))
	}
	token, err := ks.Get(ref)
	if err != nil {
		var nf *keystore.ErrKeyNotFound
		if errors.As(err, &nf) {
			if a.runtimeName == "memory" {
				return core.Secret{}, nil
			}
			return core.Secret{}, exitWithCode(ExitValidation, fmt.Errorf("no token for %s: run 'ocbot keys set %s' first", ref, ref))
		}
		return core.Secret{}, exitWithCode(ExitValidation, fmt.Errorf("failed to read token: %w", err))
	}
	return token, nil
}

func defaultRuntimeFactory(name string, token core.Secret, cfg *config.Config) (core.Runtime, error) {
	if name == "httpapi" {
		var opts []httpapi.Option
		if rc := cfg.GetRuntime(name); rc != nil {
			if rc.BaseURL != "" {
				opts = append(opts, httpapi.WithBaseURL(rc.BaseURL))
			}
			if rc.Timeout > 0 {
				opts = append(opts, httpapi.WithTimeout(rc.Timeout))
			}
		}
		return httpapi.New(token.Expose(), opts...), nil
	}
	return runtimes.Create(name, token.Expose())
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}
