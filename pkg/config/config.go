// Package config loads schemaflow's TOML configuration.
//
// A config file is optional. Values it sets overlay [Default]; flags given on
// the command line overlay the file.
//
//	[layout]
//	direction = "TB"
//	node_sep = 80
//
//	[render]
//	formats = ["svg", "png"]
//	style = "dark"
//
//	[cache]
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/schemaflow/pkg/erd"
	"github.com/matzehuels/schemaflow/pkg/errors"
	"github.com/matzehuels/schemaflow/pkg/layout"
	"github.com/matzehuels/schemaflow/pkg/render"
	"github.com/matzehuels/schemaflow/pkg/render/diagram"
)

// FileName is the config file looked up in the working directory.
const FileName = "schemaflow.toml"

// Config is the full configuration.
type Config struct {
	Layout Layout `toml:"layout"`
	Render Render `toml:"render"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Layout holds layout direction, spacing and table width.
type Layout struct {
	layout.Config
	NodeWidth float64 `toml:"node_width"`
}

// Render holds output settings.
type Render struct {
	Formats []string `toml:"formats"`
	Style   string   `toml:"style"`
	Scale   float64  `toml:"scale"`
	Labels  bool     `toml:"labels"`
}

// Cache configures the layout cache. RedisAddr selects Redis over the file
// cache in Dir.
type Cache struct {
	Disabled  bool          `toml:"disabled"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
}

// Server configures `schemaflow serve`. Sessions live in Redis when
// RedisAddr is set, in memory otherwise.
type Server struct {
	Addr       string        `toml:"addr"`
	RedisAddr  string        `toml:"redis_addr"`
	SessionTTL time.Duration `toml:"session_ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: Layout{Config: layout.DefaultConfig(), NodeWidth: erd.DefaultNodeWidth},
		Render: Render{
			Formats: []string{render.FormatSVG},
			Style:   diagram.StyleLight,
			Scale:   2,
			Labels:  true,
		},
		Cache:  Cache{TTL: 7 * 24 * time.Hour},
		Server: Server{Addr: ":8080", SessionTTL: 24 * time.Hour},
	}
}

// Load reads the config file at path over [Default]. With an empty path it
// tries [FileName] in the working directory, then
// $XDG_CONFIG_HOME/schemaflow/config.toml, and falls back to the defaults
// when neither exists. An explicit path that does not exist is an error.
func Load(path string) (Config, string, error) {
	cfg := Default()
	if path == "" {
		path = find()
		if path == "" {
			return cfg, "", nil
		}
	} else if _, err := os.Stat(path); err != nil {
		return cfg, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, path, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return cfg, path, errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys %s", path, strings.Join(names, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, path, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

// Decode parses TOML text over [Default].
func Decode(text string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	return cfg, cfg.Validate()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Layout.Config.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateSpacing("node_width", c.Layout.NodeWidth); err != nil {
		return err
	}
	if err := render.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if _, err := diagram.StyleByName(c.Render.Style); err != nil {
		return err
	}
	if c.Render.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render.scale must be positive, got %v", c.Render.Scale)
	}
	if c.Cache.TTL < 0 || c.Server.SessionTTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "durations must not be negative")
	}
	return nil
}

func find() string {
	candidates := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "schemaflow", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
