package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/johnqtcg/giteaview/internal/gitea"
)

// DefaultWebAddr is the listen address of the web server when none is set.
const DefaultWebAddr = ":8080"

// Config represents normalized runtime configuration.
type Config struct {
	InstanceURL string
	Token       string
	Owner       string
	Repo        string
	WebAddr     string
	// ConfigFile is the file that was read, empty when none was.
	ConfigFile string
}

// Client returns the settings for gitea.NewClient.
func (c Config) Client() gitea.Config {
	return gitea.Config{
		BaseURL: c.InstanceURL,
		Token:   c.Token,
		Owner:   c.Owner,
		Repo:    c.Repo,
	}
}

// Loader loads configuration from flags, environment variables and an
// optional YAML file.
type Loader interface {
	Load(flags *pflag.FlagSet) (Config, error)
}

// LoaderOption configures the default loader.
type LoaderOption func(*viperLoader)

// WithDefaultConfigPath overrides the file read when --config is not set.
// An empty path disables the default file.
func WithDefaultConfigPath(path string) LoaderOption {
	return func(l *viperLoader) {
		l.defaultPath = func() string { return path }
	}
}

// NewLoader constructs the default configuration loader.
func NewLoader(opts ...LoaderOption) Loader {
	l := &viperLoader{defaultPath: defaultConfigPath}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type setting struct {
	key  string
	flag string
	env  string
	help string
}

var settings = []setting{
	{key: "instance_url", flag: "instance-url", env: "GITEA_INSTANCE_URL", help: "Gitea instance URL, e.g. https://gitea.example.com"},
	{key: "token", flag: "token", env: "GITEA_TOKEN", help: "Gitea access token"},
	{key: "owner", flag: "owner", env: "GITEA_OWNER", help: "repository owner"},
	{key: "repo", flag: "repo", env: "GITEA_REPO", help: "repository name"},
	{key: "addr", flag: "addr", env: "GITEA_WEB_ADDR", help: "web server listen address"},
}

// RegisterFlags adds the configuration flags to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	for _, s := range settings {
		def := ""
		if s.key == "addr" {
			def = DefaultWebAddr
		}
		flags.String(s.flag, def, s.help)
	}
	flags.String("config", "", "config file (default: $HOME/.config/giteaview/config.yaml)")
}

type viperLoader struct {
	defaultPath func() string
}

func (l *viperLoader) Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetDefault("addr", DefaultWebAddr)

	for _, s := range settings {
		if err := v.BindEnv(s.key, s.env); err != nil {
			return Config{}, WrapError("bind env", err)
		}
		if flags == nil {
			continue
		}
		if f := flags.Lookup(s.flag); f != nil {
			if err := v.BindPFlag(s.key, f); err != nil {
				return Config{}, WrapError("bind flags", err)
			}
		}
	}

	path, explicit := l.configPath(flags)
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, WrapError("read file", err)
			}
			path = ""
		}
	}

	cfg := Config{
		InstanceURL: normalizeInstanceURL(v.GetString("instance_url")),
		Token:       strings.TrimSpace(v.GetString("token")),
		Owner:       strings.TrimSpace(v.GetString("owner")),
		Repo:        strings.TrimSpace(v.GetString("repo")),
		WebAddr:     strings.TrimSpace(v.GetString("addr")),
		ConfigFile:  path,
	}
	if cfg.WebAddr == "" {
		cfg.WebAddr = DefaultWebAddr
	}

	if err := validate(cfg); err != nil {
		return Config{}, WrapError("validate", err)
	}
	return cfg, nil
}

func (l *viperLoader) configPath(flags *pflag.FlagSet) (string, bool) {
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && strings.TrimSpace(f.Value.String()) != "" {
			return strings.TrimSpace(f.Value.String()), true
		}
	}
	if l.defaultPath == nil {
		return "", false
	}
	return l.defaultPath(), false
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "giteaview", "config.yaml")
}

func normalizeInstanceURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	u = strings.TrimSuffix(u, "/api/v1")
	return strings.TrimRight(u, "/")
}

func validate(cfg Config) error {
	required := []struct {
		value string
		s     setting
	}{
		{cfg.InstanceURL, settings[0]},
		{cfg.Token, settings[1]},
		{cfg.Owner, settings[2]},
		{cfg.Repo, settings[3]},
	}
	for _, r := range required {
		if r.value == "" {
			return missingSetting(r.s)
		}
	}

	u, err := url.Parse(cfg.InstanceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalidSetting(settings[0], "must be an http or https URL")
	}
	return nil
}
