package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/Tiliavir/stress-proof-tracker/internal/config"
	"github.com/Tiliavir/stress-proof-tracker/internal/keyring"
)

const key = `{"type":"service_account","client_email":"bot@p.iam.gserviceaccount.com","private_key":"k"}`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileFirstRunWritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spt", "config.json")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Addr != config.DefaultAddr || cfg.Digest.TTLMinutes != config.DefaultTTLMinutes {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if len(cfg.Digest.Feeds) != len(config.DefaultFeeds) {
		t.Errorf("feeds = %d, want %d", len(cfg.Digest.Feeds), len(config.DefaultFeeds))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("template not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "// spt configuration") {
		t.Errorf("unexpected template start: %q", string(data[:40]))
	}

	// The template itself must load to the same defaults.
	again, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile(template): %v", err)
	}
	if again.Server.Addr != cfg.Server.Addr || again.Digest.Feeds[0] != cfg.Digest.Feeds[0] {
		t.Errorf("template config = %+v, want %+v", again, cfg)
	}
}

func TestLoadFileWithComments(t *testing.T) {
	path := writeConfig(t, `// comment
{
  // data lives elsewhere
  "data_dir": "/tmp/spt-data",
  "digest": {
    "ttl_minutes": 15,
    "feeds": [{"name": "Local", "url": "http://localhost/rss"}]
  },
  "server": {"api_key": "s3cret", "allowed_origins": ["http://localhost:5173"]}
}
`)
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.DataDir != "/tmp/spt-data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.DigestTTL() != 15*time.Minute {
		t.Errorf("DigestTTL = %v, want 15m", cfg.DigestTTL())
	}
	if len(cfg.Digest.Feeds) != 1 || cfg.Digest.Feeds[0].Name != "Local" {
		t.Errorf("Feeds = %+v", cfg.Digest.Feeds)
	}
	if cfg.Server.Addr != config.DefaultAddr {
		t.Errorf("Addr = %q, want default", cfg.Server.Addr)
	}
	if cfg.Server.APIKey != "s3cret" || len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestLoadFileInvalidJSON(t *testing.T) {
	path := writeConfig(t, `{"data_dir": `)
	cfg, err := config.LoadFile(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.Server.Addr != config.DefaultAddr {
		t.Errorf("defaults not returned on error: %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `{"server": {"addr": ":9000"}}`)
	t.Setenv("SPT_SERVER_ADDR", "127.0.0.1:7000")
	t.Setenv("SPT_DIGEST_TTL_MINUTES", "5")
	t.Setenv("SPT_REMOTE_SPREADSHEET_ID", "sheet-from-env")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Errorf("Addr = %q, want env value", cfg.Server.Addr)
	}
	if cfg.Digest.TTLMinutes != 5 {
		t.Errorf("TTLMinutes = %d, want 5", cfg.Digest.TTLMinutes)
	}
	if cfg.Remote.SpreadsheetID != "sheet-from-env" {
		t.Errorf("SpreadsheetID = %q", cfg.Remote.SpreadsheetID)
	}
}

func TestDataPathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg := config.Config{DataDir: "~/spt-data"}
	got, err := cfg.DataPath()
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "spt-data") {
		t.Errorf("DataPath = %q", got)
	}
}

func TestResolveRemote(t *testing.T) {
	gokeyring.MockInit()
	_ = keyring.DeleteCredentials()

	keyFile := filepath.Join(t.TempDir(), "key.json")
	if err := os.WriteFile(keyFile, []byte(key), 0o600); err != nil {
		t.Fatal(err)
	}
	var keyObj map[string]interface{}
	if err := json.Unmarshal([]byte(key), &keyObj); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		remote  config.RemoteConfig
		enabled bool
	}{
		{"nothing configured", config.RemoteConfig{}, false},
		{"credentials without spreadsheet", config.RemoteConfig{Credentials: key}, false},
		{"spreadsheet without credentials", config.RemoteConfig{SpreadsheetID: "abc"}, false},
		{"credentials as string", config.RemoteConfig{SpreadsheetID: "abc", Credentials: key}, true},
		{"credentials as object", config.RemoteConfig{SpreadsheetID: "abc", Credentials: keyObj}, true},
		{"credentials file", config.RemoteConfig{SpreadsheetID: "abc", CredentialsFile: keyFile}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := config.Config{Remote: tt.remote}.ResolveRemote()
			if err != nil {
				t.Fatalf("ResolveRemote: %v", err)
			}
			if r.Enabled() != tt.enabled {
				t.Errorf("Enabled = %v, want %v", r.Enabled(), tt.enabled)
			}
			if tt.enabled && !json.Valid(r.Credentials) {
				t.Errorf("Credentials not JSON: %q", r.Credentials)
			}
		})
	}
}

func TestResolveRemoteFromKeyring(t *testing.T) {
	gokeyring.MockInit()
	if err := keyring.SetCredentials(key); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = keyring.DeleteCredentials() }()

	r, err := config.Config{Remote: config.RemoteConfig{SpreadsheetID: "abc"}}.ResolveRemote()
	if err != nil {
		t.Fatal(err)
	}
	if !r.Enabled() || string(r.Credentials) != key {
		t.Errorf("Remote = %+v, want keyring credentials", r)
	}
}

func TestResolveRemoteMissingFile(t *testing.T) {
	cfg := config.Config{Remote: config.RemoteConfig{
		SpreadsheetID:   "abc",
		CredentialsFile: filepath.Join(t.TempDir(), "missing.json"),
	}}
	if _, err := cfg.ResolveRemote(); err == nil {
		t.Error("expected error for missing credentials file")
	}
}
