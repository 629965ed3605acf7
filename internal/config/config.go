package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/Tiliavir/stress-proof-tracker/internal/digest"
	"github.com/Tiliavir/stress-proof-tracker/internal/keyring"
	"github.com/Tiliavir/stress-proof-tracker/internal/logger"
	"github.com/Tiliavir/stress-proof-tracker/internal/storage"
)

// Config is the root configuration for spt, stored in ~/.spt/config.json.
// The file supports single-line // comments for documentation purposes.
// Every key can be overridden by an SPT_ environment variable, e.g.
// SPT_REMOTE_SPREADSHEET_ID for remote.spreadsheet_id.
type Config struct {
	// DataDir holds the local tables and logs. Empty means the directory of
	// the spt executable.
	DataDir string       `mapstructure:"data_dir"`
	Remote  RemoteConfig `mapstructure:"remote"`
	Digest  DigestConfig `mapstructure:"digest"`
	Server  ServerConfig `mapstructure:"server"`
}

// RemoteConfig selects the spreadsheet backend. Credentials is the service
// account key, either as a JSON object or as a string holding the JSON
// document.
type RemoteConfig struct {
	SpreadsheetID   string      `mapstructure:"spreadsheet_id"`
	Credentials     interface{} `mapstructure:"credentials"`
	CredentialsFile string      `mapstructure:"credentials_file"`
}

// DigestConfig configures the headline digest.
type DigestConfig struct {
	TTLMinutes int           `mapstructure:"ttl_minutes"`
	Feeds      []digest.Feed `mapstructure:"feeds"`
}

// ServerConfig configures `spt serve`.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	APIKey         string   `mapstructure:"api_key"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SPT"
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "SPT_CONFIG"
	// DefaultAddr is the API listen address.
	DefaultAddr = ":8080"
	// DefaultTTLMinutes is the digest cache lifetime.
	DefaultTTLMinutes = 60
)

// DefaultFeeds are the digest sources used when none are configured.
var DefaultFeeds = []digest.Feed{
	{Name: "BBC World", URL: "https://feeds.bbci.co.uk/news/world/rss.xml"},
	{Name: "DW", URL: "https://rss.dw.com/rdf/rss-en-all"},
	{Name: "Hacker News", URL: "https://hnrss.org/frontpage"},
}

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		Digest: DigestConfig{TTLMinutes: DefaultTTLMinutes, Feeds: DefaultFeeds},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// spt configuration – ~/.spt/config.json
//
// All settings are optional; without a spreadsheet spt keeps its tables as
// CSV files beside the executable. Any key can be overridden from the
// environment: SPT_DATA_DIR, SPT_REMOTE_SPREADSHEET_ID, SPT_SERVER_ADDR, ...
{
  // Directory for the CSV tables and logs. Empty = next to the spt binary.
  // "~" is expanded, e.g. "~/.spt/data".
  "data_dir": "",

  // ── Remote spreadsheet (optional) ────────────────────────────────────────
  // When both a spreadsheet id and credentials are present, tables are read
  // from the spreadsheet and every write also goes to the local CSV copy.
  "remote": {
    // The id from the spreadsheet URL: /spreadsheets/d/<id>/edit
    "spreadsheet_id": "",

    // Service account key: paste the JSON object (or a JSON string holding
    // it) here, point credentials_file at the key file, or store it in the
    // OS keyring with: spt credentials set <key.json>
    "credentials": "",
    "credentials_file": ""
  },

  // ── Headline digest ──────────────────────────────────────────────────────
  "digest": {
    // Minutes a fetched digest is reused before the feeds are polled again.
    "ttl_minutes": 60,

    // RSS or Atom feeds; each contributes its 4 newest items, 12 in total.
    "feeds": [
      { "name": "BBC World", "url": "https://feeds.bbci.co.uk/news/world/rss.xml" },
      { "name": "DW", "url": "https://rss.dw.com/rdf/rss-en-all" },
      { "name": "Hacker News", "url": "https://hnrss.org/frontpage" }
    ]
  },

  // ── HTTP API (spt serve) ─────────────────────────────────────────────────
  "server": {
    "addr": ":8080",

    // When set, POST requests must carry this value in the X-API-Key header.
    "api_key": "",

    // Origins allowed by CORS, e.g. ["http://localhost:5173"]. Empty = none.
    "allowed_origins": []
  }
}
`

// FilePath returns the config file location: $SPT_CONFIG or ~/.spt/config.json.
func FilePath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return homedir.Expand(p)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".spt", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config file returned by FilePath.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		cfg, _ := fromViper(newViper())
		return cfg, err
	}
	return LoadFile(path)
}

// LoadFile reads path, creating it with annotated defaults on first run, and
// applies SPT_ environment overrides. Lines starting with // are treated as
// comments and stripped before JSON parsing.
func LoadFile(path string) (Config, error) {
	v := newViper()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		cfg, _ := fromViper(v)
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := v.ReadConfig(bytes.NewReader(stripLineComments(data))); err != nil {
			cfg, _ := fromViper(newViper())
			return cfg, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}
	return fromViper(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := defaultConfig()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("remote.spreadsheet_id", "")
	v.SetDefault("remote.credentials", "")
	v.SetDefault("remote.credentials_file", "")
	v.SetDefault("digest.ttl_minutes", d.Digest.TTLMinutes)
	v.SetDefault("digest.feeds", d.Digest.Feeds)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.api_key", "")
	v.SetDefault("server.allowed_origins", []string{})
	return v
}

func fromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return defaultConfig(), fmt.Errorf("decoding config: %w", err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	if cfg.Digest.TTLMinutes <= 0 {
		cfg.Digest.TTLMinutes = DefaultTTLMinutes
	}
	if len(cfg.Digest.Feeds) == 0 {
		cfg.Digest.Feeds = DefaultFeeds
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// DataPath returns the resolved data directory.
func (c Config) DataPath() (string, error) {
	if c.DataDir == "" {
		return storage.BaseDir()
	}
	return homedir.Expand(c.DataDir)
}

// DigestTTL returns the digest cache lifetime.
func (c Config) DigestTTL() time.Duration {
	return time.Duration(c.Digest.TTLMinutes) * time.Minute
}

// Remote is the resolved remote backend selection.
type Remote struct {
	SpreadsheetID string
	Credentials   []byte
}

// Enabled reports whether both a spreadsheet and credentials are present.
func (r Remote) Enabled() bool {
	return r.SpreadsheetID != "" && len(bytes.TrimSpace(r.Credentials)) > 0
}

// ResolveRemote picks the service account key from, in order, the config
// value (or SPT_REMOTE_CREDENTIALS), the credentials file and the OS keyring.
// Without a spreadsheet id nothing is looked up and the remote stays off.
func (c Config) ResolveRemote() (Remote, error) {
	r := Remote{SpreadsheetID: strings.TrimSpace(c.Remote.SpreadsheetID)}
	if r.SpreadsheetID == "" {
		return r, nil
	}

	creds, err := inlineCredentials(c.Remote.Credentials)
	if err != nil {
		return Remote{}, err
	}
	if len(creds) > 0 {
		r.Credentials = creds
		return r, nil
	}

	if c.Remote.CredentialsFile != "" {
		path, err := homedir.Expand(c.Remote.CredentialsFile)
		if err != nil {
			return Remote{}, fmt.Errorf("credentials_file: %w", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Remote{}, fmt.Errorf("reading credentials file: %w", err)
		}
		r.Credentials = data
		return r, nil
	}

	stored, err := keyring.GetCredentials()
	switch {
	case err == nil:
		r.Credentials = []byte(stored)
	case errors.Is(err, keyring.ErrNotFound):
		logger.Debug("no remote credentials stored in keyring")
	default:
		logger.Warn("keyring lookup failed", "err", err)
	}
	return r, nil
}

func inlineCredentials(v interface{}) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(strings.TrimSpace(x)), nil
	case []byte:
		return bytes.TrimSpace(x), nil
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return nil, fmt.Errorf("encoding remote.credentials: %w", err)
		}
		return data, nil
	}
}
