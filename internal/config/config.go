// Package config builds the explicit configuration passed to the client and workflows.
//
// Precedence, lowest first: built-in defaults, config.yaml in the config dir, SPORTADMIN_*
// environment variables, command-line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix = "SPORTADMIN_"
	FileName  = "config.yaml"

	DefaultBaseURL = "http://localhost:8000"
)

// Endpoints are paths relative to BaseURL (absolute URLs are used as-is). Delete endpoints get
// "{id}/" appended.
type Endpoints struct {
	AllEvents   string `yaml:"all_events" json:"allEvents" env:"ALLEVENT_URL"`
	AllClubs    string `yaml:"all_clubs" json:"allClubs" env:"ALLSPORT_URL"`
	AllContents string `yaml:"all_contents" json:"allContents" env:"ALLCONTENT_URL"`
	AllUsers    string `yaml:"all_users" json:"allUsers" env:"ALLUSER_URL"`

	CreateEvent   string `yaml:"create_event" json:"createEvent" env:"CREATE_EVENT_URL"`
	CreateClub    string `yaml:"create_club" json:"createClub" env:"CREATE_CLUB_URL"`
	CreateContent string `yaml:"create_content" json:"createContent" env:"CREATE_CONTENT_URL"`

	DeleteEvent   string `yaml:"delete_event" json:"deleteEvent" env:"DELETE_EVENT_URL"`
	DeleteClub    string `yaml:"delete_club" json:"deleteClub" env:"DELETE_CLUB_URL"`
	DeleteContent string `yaml:"delete_content" json:"deleteContent" env:"DELETE_CONTENT_URL"`
	DeleteUser    string `yaml:"delete_user" json:"deleteUser" env:"DELETE_USER_URL"`
}

type Config struct {
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	// Token is never written to config.yaml; it comes from a flag, the environment or the keyring.
	Token    string        `yaml:"-" env:"TOKEN"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
	Format   string        `yaml:"format" env:"FORMAT"`
	LogLevel string        `yaml:"log_level" env:"LOG_LEVEL"`
	LogFile  string        `yaml:"log_file,omitempty" env:"LOG_FILE"`

	Endpoints Endpoints `yaml:"endpoints"`

	// Dir is where config.yaml and journal.sqlite live. Not persisted.
	Dir string `yaml:"-"`
}

func Default() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Format:   "json",
		LogLevel: "warn",
		Endpoints: Endpoints{
			AllEvents:     "/api/events/",
			AllClubs:      "/api/sportclubs/",
			AllContents:   "/api/contents/",
			AllUsers:      "/api/users/",
			CreateEvent:   "/api/events/",
			CreateClub:    "/api/sportclubs/",
			CreateContent: "/api/contents/",
			DeleteEvent:   "/api/events/",
			DeleteClub:    "/api/sportclubs/",
			DeleteContent: "/api/contents/",
			DeleteUser:    "/api/users/",
		},
	}
}

// Dir is SPORTADMIN_CONFIG_DIR, else ~/.sportadmin.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvPrefix + "CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sportadmin"), nil
}

// Load reads dir/config.yaml over the defaults, then the environment. An empty dir resolves
// via Dir. A missing file is not an error.
func Load(dir string) (Config, error) {
	if strings.TrimSpace(dir) == "" {
		d, err := Dir()
		if err != nil {
			return Config{}, err
		}
		dir = d
	}
	cfg, err := LoadFile(dir)
	if err != nil {
		return Config{}, err
	}
	// Fields without a matching variable keep their file or default value.
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Dir = dir
	return cfg, nil
}

// LoadFile is Load without the environment layer; `config set` edits this view so environment
// overrides are not written back to disk.
func LoadFile(dir string) (Config, error) {
	cfg := Default()
	cfg.Dir = dir
	b, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", FileName, err)
	}
	return cfg, nil
}

// Save writes cfg to cfg.Dir/config.yaml, keeping the previous file as config.yaml.bak.
func Save(cfg Config) error {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return errors.New("config: empty dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, FileName)
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, FileName+".bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, FileName+".*.tmp", path, b, 0o600)
}

// atomicWriteFile writes through a unique temp file and a rename so concurrent CLI and TUI
// processes never see a torn file.
func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

type setter func(c *Config, v string) error

func stringSetter(field func(c *Config) *string) setter {
	return func(c *Config, v string) error {
		*field(c) = strings.TrimSpace(v)
		return nil
	}
}

var setters = map[string]setter{
	"base_url":  stringSetter(func(c *Config) *string { return &c.BaseURL }),
	"format":    stringSetter(func(c *Config) *string { return &c.Format }),
	"log_level": stringSetter(func(c *Config) *string { return &c.LogLevel }),
	"log_file":  stringSetter(func(c *Config) *string { return &c.LogFile }),
	"timeout": func(c *Config, v string) error {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		c.Timeout = d
		return nil
	},
	"endpoints.all_events":     stringSetter(func(c *Config) *string { return &c.Endpoints.AllEvents }),
	"endpoints.all_clubs":      stringSetter(func(c *Config) *string { return &c.Endpoints.AllClubs }),
	"endpoints.all_contents":   stringSetter(func(c *Config) *string { return &c.Endpoints.AllContents }),
	"endpoints.all_users":      stringSetter(func(c *Config) *string { return &c.Endpoints.AllUsers }),
	"endpoints.create_event":   stringSetter(func(c *Config) *string { return &c.Endpoints.CreateEvent }),
	"endpoints.create_club":    stringSetter(func(c *Config) *string { return &c.Endpoints.CreateClub }),
	"endpoints.create_content": stringSetter(func(c *Config) *string { return &c.Endpoints.CreateContent }),
	"endpoints.delete_event":   stringSetter(func(c *Config) *string { return &c.Endpoints.DeleteEvent }),
	"endpoints.delete_club":    stringSetter(func(c *Config) *string { return &c.Endpoints.DeleteClub }),
	"endpoints.delete_content": stringSetter(func(c *Config) *string { return &c.Endpoints.DeleteContent }),
	"endpoints.delete_user":    stringSetter(func(c *Config) *string { return &c.Endpoints.DeleteUser }),
}

// Keys lists the keys accepted by Set, sorted.
func Keys() []string {
	out := make([]string, 0, len(setters))
	for k := range setters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Set assigns one key by its YAML path (e.g. "endpoints.all_events").
func (c *Config) Set(key, value string) error {
	s, ok := setters[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return s(c, value)
}
