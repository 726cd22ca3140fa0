package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stahnma/gh-pinstars/internal/config"
	ghub "github.com/stahnma/gh-pinstars/internal/github"
	"github.com/stahnma/gh-pinstars/internal/logging"
	"github.com/stahnma/gh-pinstars/internal/pinboard"
	"github.com/stahnma/gh-pinstars/internal/starsync"
)

// BookmarkStore is the Pinboard surface the sync uses.
type BookmarkStore interface {
	starsync.RecentLister
	starsync.Adder
}

// App holds shared application state.
type App struct {
	Config   config.Config
	Viper    *viper.Viper
	GHClient ghub.Client
	Store    BookmarkStore
	Logger   *slog.Logger
	HomeDir  string
	GitSHA   string
	GitDirty string
}

// NewApp creates a new App reading configuration from the environment and
// the flags of the root command.
func NewApp(gitSHA, gitDirty string) *App {
	home, _ := os.UserHomeDir()
	return &App{
		Viper:    config.NewViper(),
		Logger:   logging.Discard(),
		HomeDir:  home,
		GitSHA:   gitSHA,
		GitDirty: gitDirty,
	}
}

// LoadConfig resolves the configuration, falling back to token files, and
// validates it. It makes no network calls.
func (a *App) LoadConfig() error {
	cfg, err := config.Load(a.Viper).WithTokenFiles(a.HomeDir)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.Config = cfg
	return nil
}

// SetupLogging points the App logger at w and the configured log file.
func (a *App) SetupLogging(w io.Writer) io.Closer {
	logger, closer := logging.New(w, logging.Options{
		Debug: a.Config.DebugMode,
		File:  a.Config.LogFile,
	})
	a.Logger = logger
	return closer
}

// ensureClients creates the API clients if they don't exist.
func (a *App) ensureClients() error {
	if a.GHClient == nil {
		if a.Config.GitHubToken == "" {
			return config.ErrMissingGitHubToken
		}
		client, err := ghub.NewClient(a.Config.GitHubToken, a.Config.GitHubUser, a.Config.GitHubBaseURL)
		if err != nil {
			return err
		}
		a.GHClient = client
	}
	if a.Store == nil {
		if a.Config.PinboardToken == "" {
			return config.ErrMissingPinboardToken
		}
		a.Store = pinboard.NewClient(a.Config.PinboardToken,
			pinboard.WithBaseURL(a.Config.PinboardBaseURL),
			pinboard.WithUserAgent(a.userAgent()),
		)
	}
	return nil
}

// userAgent identifies the build in Pinboard requests.
func (a *App) userAgent() string {
	if a.GitSHA == "" {
		return "gh-pinstars"
	}
	return "gh-pinstars/" + a.GitSHA
}

// Sync runs one incremental import with the loaded configuration.
func (a *App) Sync(ctx context.Context) (starsync.Summary, error) {
	if err := a.ensureClients(); err != nil {
		return starsync.Summary{}, err
	}
	cfg := a.Config

	publisher := starsync.NewPublisher(a.Store, starsync.PublisherConfig{
		MarkerTag:  cfg.MarkerTag,
		Interval:   cfg.PublishInterval,
		MaxRetries: maxRetries(cfg.MaxRetries),
		DryRun:     cfg.DryRun,
	}, a.Logger)
	resolver := starsync.NewCursorResolver(a.Store, cfg.MarkerTag)
	pagers := func(d ghub.Direction) starsync.Pager {
		return ghub.NewStarPager(a.GHClient, d, cfg.PerPage)
	}
	return starsync.NewSyncer(resolver, pagers, publisher, a.Logger).Run(ctx)
}

// maxRetries maps the configured count onto PublisherConfig, where zero
// means the default.
func maxRetries(n int) int {
	if n == 0 {
		return -1
	}
	return n
}

// NewRootCommand creates the root cobra command with all subcommands.
func (a *App) NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gh-pinstars",
		Short: "Add starred GitHub repositories as Pinboard bookmarks.",
		Long: `Adds starred GitHub repositories as bookmarks in Pinboard. All such bookmarks
are tagged with 'github-star' and the project's language (if applicable).
Only stars newer than the most recent 'github-star' bookmark are added.

Tokens may be stored in ~/.github_oauth_token and ~/.pinboard_api_token
instead of passing them as flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSync(cmd)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	flags := rootCmd.Flags()
	flags.StringP("github-token", "g", "", "GitHub OAuth API token")
	flags.StringP("pinboard-token", "p", "", "Pinboard API token")
	flags.StringP("github-user", "u", "", "GitHub username (sent as user-agent for API requests)")
	flags.Bool("dry-run", false, "Show what would be bookmarked without adding anything")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("log-file", "", "Also write logs to this file (rotated)")
	flags.Duration("interval", 0, "Pause after each bookmark and backoff unit, must be positive (default 3s)")
	flags.Int("max-retries", 0, "Retries of a rate-limited bookmark (default 10)")
	flags.Bool("json", false, "Print the run summary as JSON")

	if err := config.BindFlags(a.Viper, flags); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(a.newVersionCommand())

	return rootCmd
}
