package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"sportadmin/internal/api"
	"sportadmin/internal/auth"
	"sportadmin/internal/config"
	"sportadmin/internal/format"
	"sportadmin/internal/logging"
	"sportadmin/internal/resource"
	"sportadmin/internal/store"
	"sportadmin/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	BaseURL   string
	Token     string
	Format    string
	Pretty    bool
	JQ        string
	Timeout   time.Duration
	LogLevel  string
	ConfigDir string

	cfg         config.Config
	log         *slog.Logger
	closeLog    func() error
	client      *api.Client
	resources   []resource.Resource
	tokenSource auth.Source
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sportadmin",
		Short:        "Sport platform admin client (TUI + scriptable CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  sportadmin

  # Scriptable commands
  sportadmin events list --format table
  sportadmin news create --slug cup --title "Cup" --thumbnail https://x.test/a.png --body "Hello"
  sportadmin clubs delete 12 --yes

  # Direct record lookup (shortcut for: sportadmin events show 12)
  sportadmin events/12
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.BaseURL, "base-url", "", "Backend base URL (env SPORTADMIN_BASE_URL)")
	pf.StringVar(&app.Token, "token", "", "Admin bearer token (overrides SPORTADMIN_TOKEN and the keyring)")
	pf.StringVar(&app.Format, "format", "", "Output format (json|edn|yaml|table)")
	pf.BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON/EDN output")
	pf.StringVar(&app.JQ, "jq", "", "jq query applied to the output envelope")
	pf.DurationVar(&app.Timeout, "timeout", 0, "Per-request timeout (0 = none)")
	pf.StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	pf.StringVar(&app.ConfigDir, "config-dir", "", "Config dir (default: $SPORTADMIN_CONFIG_DIR or ~/.sportadmin)")

	// Resource commands need the registry at construction time for their flags; endpoints
	// are re-resolved in setup once config and flags are known.
	for _, r := range resource.Registry(config.Default()) {
		cmd.AddCommand(newResourceCmd(app, r.Name))
	}
	cmd.AddCommand(newFieldsCmd(app))
	cmd.AddCommand(newSummaryCmd(app))
	cmd.AddCommand(newAuthCmd(app))
	cmd.AddCommand(newJournalCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	closeAfterRun(cmd, app)
	return cmd
}

// closeAfterRun makes every RunE close the log file on return. Cobra skips
// PersistentPostRunE when RunE fails, so it cannot do this.
func closeAfterRun(c *cobra.Command, app *App) {
	if run := c.RunE; run != nil {
		c.RunE = func(cmd *cobra.Command, args []string) error {
			defer app.close()
			return run(cmd, args)
		}
	}
	for _, sub := range c.Commands() {
		closeAfterRun(sub, app)
	}
}

// setup builds config, logger and client. Precedence: defaults < config.yaml < env < flags.
func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigDir)
	if err != nil {
		return writeErr(cmd, err)
	}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = strings.TrimSpace(app.BaseURL)
	}
	if flags.Changed("format") {
		cfg.Format = strings.TrimSpace(app.Format)
	}
	if flags.Changed("timeout") {
		cfg.Timeout = app.Timeout
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = app.LogLevel
	}
	if !format.Valid(cfg.Format) {
		return writeErr(cmd, fmt.Errorf("unknown format: %s (want json|edn|yaml|table)", cfg.Format))
	}
	app.Format = cfg.Format

	log, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile, cmd.ErrOrStderr())
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log, app.closeLog = log, closeLog

	flagToken := ""
	if flags.Changed("token") {
		flagToken = app.Token
	}
	cfg.Token, app.tokenSource = auth.Resolve(flagToken, cfg.Token, cfg.BaseURL)

	app.cfg = cfg
	app.resources = resource.Registry(cfg)
	app.client = api.NewClient(api.Options{
		Token:   cfg.Token,
		Timeout: cfg.Timeout,
		Logger:  log,
	})
	app.log.Debug("config loaded", "dir", cfg.Dir, "baseURL", cfg.BaseURL, "token", app.tokenSource)
	return nil
}

func (app *App) close() {
	if app.closeLog != nil {
		_ = app.closeLog()
		app.closeLog = nil
	}
}

func (app *App) resource(name string) (resource.Resource, error) {
	r, ok := resource.Lookup(app.resources, name)
	if !ok {
		return resource.Resource{}, fmt.Errorf("%w (known: %s)", errNotFound("resource", name), strings.Join(resource.Names(app.resources), ", "))
	}
	return r, nil
}

// withJournal opens the action journal for fn. A journal that cannot be opened is logged and
// fn runs without one.
func (app *App) withJournal(ctx context.Context, fn func(j *store.Journal) error) error {
	j, err := store.OpenJournal(ctx, app.cfg.Dir)
	if err != nil {
		app.log.Warn("journal unavailable", "dir", app.cfg.Dir, "err", err)
		return fn(nil)
	}
	defer func() { _ = j.Close() }()
	return fn(j)
}

func runTUI(cmd *cobra.Command, app *App) error {
	// The TUI owns the screen; logs only go to a file.
	if strings.TrimSpace(app.cfg.LogFile) == "" {
		app.log = logging.Discard()
		app.client = api.NewClient(api.Options{Token: app.cfg.Token, Timeout: app.cfg.Timeout, Logger: app.log})
	}
	return app.withJournal(cmd.Context(), func(j *store.Journal) error {
		return tui.Run(cmd.Context(), tui.Options{
			Resources: app.resources,
			Client:    app.client,
			Journal:   journalOf(j),
			Logger:    app.log,
		})
	})
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, format.Options{Format: app.Format, Pretty: app.Pretty, JQ: app.JQ})
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func stdin(cmd *cobra.Command) io.Reader { return cmd.InOrStdin() }
