package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/johanlk/kvitt/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "version: v1\n")
	l, err := config.NewLoader(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := l.Config()
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeoutMs != 10000 {
		t.Errorf("ReadTimeoutMs = %d, want 10000", cfg.Server.ReadTimeoutMs)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
version: v1
server:
  addr: ":9090"
  read_timeout_ms: 2000
log:
  level: debug
`)
	l, err := config.NewLoader(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := l.Config()
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeoutMs != 2000 {
		t.Errorf("ReadTimeoutMs = %d, want 2000", cfg.Server.ReadTimeoutMs)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Log.Level)
	}
}

func TestReloadNotifies(t *testing.T) {
	path := writeConfig(t, "version: v1\nlog:\n  level: info\n")
	l, err := config.NewLoader(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var seen string
	l.OnChange(func(cfg *config.ServerConfig) { seen = cfg.Log.Level })

	if err := os.WriteFile(path, []byte("version: v1\nlog:\n  level: warn\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if _, err := l.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if seen != "warn" {
		t.Errorf("OnChange saw level %q, want warn", seen)
	}
	if l.Config().Log.Level != "warn" {
		t.Errorf("Config level = %q, want warn", l.Config().Log.Level)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.ServerConfig
		wantErr bool
	}{
		{"valid", config.ServerConfig{Version: "v1", Log: config.LogConf{Level: "info"}}, false},
		{"missing version", config.ServerConfig{Log: config.LogConf{Level: "info"}}, true},
		{"bad level", config.ServerConfig{Version: "v1", Log: config.LogConf{Level: "loud"}}, true},
		{"negative timeout", config.ServerConfig{
			Version: "v1",
			Server:  config.ServerConf{ReadTimeoutMs: -1},
			Log:     config.LogConf{Level: "info"},
		}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := config.Validate(&tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
