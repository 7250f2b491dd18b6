package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

type GlobalConfig struct {
	// Backend selects the blob store: sqlite (default), file, memory, redis, postgres.
	Backend string `json:"backend,omitempty"`

	// Key is the blob key the board is stored under (default "todoData").
	Key string `json:"key,omitempty"`

	// DataDir holds the sqlite database or the file backend's blobs.
	// Defaults to <config dir>/data.
	DataDir string `json:"dataDir,omitempty"`

	RedisURL    string `json:"redisURL,omitempty"`
	PostgresURL string `json:"postgresURL,omitempty"`

	// WebAddr is the default listen address for `taskboard web`.
	WebAddr string `json:"webAddr,omitempty"`

	// LegacyDisplacement enables the horizontal-drag heuristic for front ends without
	// list container targets.
	LegacyDisplacement bool `json:"legacyDisplacement,omitempty"`

	// TUI holds optional user preferences for the interactive board.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `json:"glyphs,omitempty"`
}

// Settings is the fully resolved configuration used to open a board.
type Settings struct {
	Backend            string `json:"backend"`
	Key                string `json:"key"`
	DataDir            string `json:"dataDir"`
	RedisURL           string `json:"redisURL,omitempty"`
	PostgresURL        string `json:"postgresURL,omitempty"`
	WebAddr            string `json:"webAddr"`
	LegacyDisplacement bool   `json:"legacyDisplacement"`
	Glyphs             string `json:"glyphs"`
}

const DefaultWebAddr = "127.0.0.1:7410"

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.taskboard).
	if v := strings.TrimSpace(os.Getenv("TASKBOARD_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskboard"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Keep a copy of the previous config so an accidental overwrite is recoverable.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// Settings resolves defaults for every unset field.
func (c *GlobalConfig) Settings() (Settings, error) {
	out := Settings{
		Backend:            strings.ToLower(strings.TrimSpace(c.Backend)),
		Key:                strings.TrimSpace(c.Key),
		DataDir:            strings.TrimSpace(c.DataDir),
		RedisURL:           strings.TrimSpace(c.RedisURL),
		PostgresURL:        strings.TrimSpace(c.PostgresURL),
		WebAddr:            strings.TrimSpace(c.WebAddr),
		LegacyDisplacement: c.LegacyDisplacement,
		Glyphs:             "unicode",
	}
	if out.Backend == "" {
		out.Backend = BackendSQLite
	}
	if out.Key == "" {
		out.Key = DefaultKey
	}
	if out.WebAddr == "" {
		out.WebAddr = DefaultWebAddr
	}
	if c.TUI != nil && strings.TrimSpace(c.TUI.Glyphs) != "" {
		out.Glyphs = strings.ToLower(strings.TrimSpace(c.TUI.Glyphs))
	}
	if out.DataDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return Settings{}, err
		}
		out.DataDir = filepath.Join(dir, "data")
	}
	return out, nil
}

// ConfigKeys lists the keys accepted by Set, sorted.
func ConfigKeys() []string {
	keys := []string{"backend", "key", "dataDir", "redisURL", "postgresURL", "webAddr", "legacyDisplacement", "tui.glyphs"}
	sort.Strings(keys)
	return keys
}

// Set assigns a single config value by key. An empty value clears the field.
func (c *GlobalConfig) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "backend":
		if value != "" && !containsString(Backends(), strings.ToLower(value)) {
			return fmt.Errorf("unknown backend: %s (expected %s)", value, strings.Join(Backends(), "|"))
		}
		c.Backend = strings.ToLower(value)
	case "key":
		c.Key = value
	case "dataDir":
		c.DataDir = value
	case "redisURL":
		c.RedisURL = value
	case "postgresURL":
		c.PostgresURL = value
	case "webAddr":
		c.WebAddr = value
	case "legacyDisplacement":
		if value == "" {
			c.LegacyDisplacement = false
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("legacyDisplacement: %w", err)
		}
		c.LegacyDisplacement = b
	case "tui.glyphs":
		switch strings.ToLower(value) {
		case "", "unicode", "ascii":
		default:
			return fmt.Errorf("unknown glyph set: %s (expected unicode|ascii)", value)
		}
		if c.TUI == nil {
			c.TUI = &TUIConfig{}
		}
		c.TUI.Glyphs = strings.ToLower(value)
	default:
		return fmt.Errorf("unknown config key: %s (expected one of %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	return nil
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
