package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Viper keys. They double as environment variable names through
// AutomaticEnv.
const (
	KeyGitHubToken     = "GITHUB_TOKEN"
	KeyPinboardToken   = "PINBOARD_TOKEN"
	KeyGitHubUser      = "GITHUB_USER"
	KeyDebug           = "DEBUG"
	KeyDryRun          = "DRY_RUN"
	KeyLogFile         = "LOG_FILE"
	KeyMarkerTag       = "MARKER_TAG"
	KeyPublishInterval = "PUBLISH_INTERVAL"
	KeyMaxRetries      = "MAX_RETRIES"
	KeyPerPage         = "PER_PAGE"
	KeyGitHubBaseURL   = "GITHUB_API_URL"
	KeyPinboardBaseURL = "PINBOARD_API_URL"
)

// Token files read when a token is not given by flag or environment.
const (
	GitHubTokenFile   = "~/.github_oauth_token"
	PinboardTokenFile = "~/.pinboard_api_token"
)

var (
	ErrMissingGitHubToken   = errors.New("could not load GitHub OAuth token")
	ErrMissingPinboardToken = errors.New("could not load Pinboard API token")
	ErrMissingGitHubUser    = errors.New("GitHub username is required")
	ErrInvalidInterval      = errors.New("publish interval must be positive")
)

// Config holds application configuration. Build it once and pass it by value.
type Config struct {
	GitHubToken     string
	PinboardToken   string
	GitHubUser      string
	DebugMode       bool
	DryRun          bool
	LogFile         string
	MarkerTag       string
	PublishInterval time.Duration
	MaxRetries      int
	PerPage         int
	GitHubBaseURL   string
	PinboardBaseURL string
}

// NewViper returns a viper instance with defaults set and environment
// lookup enabled.
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(KeyMarkerTag, "github-star")
	v.SetDefault(KeyPublishInterval, 3*time.Second)
	v.SetDefault(KeyMaxRetries, 10)
	v.SetDefault(KeyPerPage, 30)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyDryRun, false)
	return v
}

// FlagKeys maps command-line flag names to the viper keys they override.
var FlagKeys = map[string]string{
	"github-token":   KeyGitHubToken,
	"pinboard-token": KeyPinboardToken,
	"github-user":    KeyGitHubUser,
	"dry-run":        KeyDryRun,
	"debug":          KeyDebug,
	"log-file":       KeyLogFile,
	"interval":       KeyPublishInterval,
	"max-retries":    KeyMaxRetries,
}

// BindFlags binds every flag of fs named in FlagKeys to v. Flags missing
// from fs are skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range FlagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads a Config from v.
func Load(v *viper.Viper) Config {
	return Config{
		GitHubToken:     strings.TrimSpace(v.GetString(KeyGitHubToken)),
		PinboardToken:   strings.TrimSpace(v.GetString(KeyPinboardToken)),
		GitHubUser:      strings.TrimSpace(v.GetString(KeyGitHubUser)),
		DebugMode:       truthy(v.GetString(KeyDebug)),
		DryRun:          truthy(v.GetString(KeyDryRun)),
		LogFile:         v.GetString(KeyLogFile),
		MarkerTag:       v.GetString(KeyMarkerTag),
		PublishInterval: v.GetDuration(KeyPublishInterval),
		MaxRetries:      v.GetInt(KeyMaxRetries),
		PerPage:         v.GetInt(KeyPerPage),
		GitHubBaseURL:   v.GetString(KeyGitHubBaseURL),
		PinboardBaseURL: v.GetString(KeyPinboardBaseURL),
	}
}

// WithTokenFiles fills empty tokens from the dotfiles under home.
func (c Config) WithTokenFiles(home string) (Config, error) {
	var err error
	if c.GitHubToken == "" {
		if c.GitHubToken, err = LoadToken(expand(GitHubTokenFile, home)); err != nil {
			return c, err
		}
	}
	if c.PinboardToken == "" {
		if c.PinboardToken, err = LoadToken(expand(PinboardTokenFile, home)); err != nil {
			return c, err
		}
	}
	return c, nil
}

// Validate reports missing credentials and unusable tunables.
func (c Config) Validate() error {
	switch {
	case c.GitHubToken == "":
		return ErrMissingGitHubToken
	case c.PinboardToken == "":
		return ErrMissingPinboardToken
	case c.GitHubUser == "":
		return ErrMissingGitHubUser
	case c.PublishInterval <= 0:
		return fmt.Errorf("%w, got %s", ErrInvalidInterval, c.PublishInterval)
	}
	return nil
}

// LoadToken returns the first line of filename, trimmed. A missing file
// yields an empty token and no error.
func LoadToken(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading token file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading token file %s: %w", filename, err)
	}
	return "", nil
}

func expand(path, home string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(home, rest)
	}
	return path
}

func truthy(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s != "" && s != "0" && s != "false"
}
