package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/session"
)

// configFileName is looked up in the working directory before the XDG config
// directory.
const configFileName = "masonry.toml"

// Config is the masonry.toml file.
//
//	[layout]
//	columns = 3
//	width = 960
//	caption_height = 24
//	labels = true
//
//	[serve]
//	addr = ":8080"
//	redis_addr = "localhost:6379"
//	session_ttl = "12h"
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Serve  ServeConfig  `toml:"serve"`
}

// LayoutConfig holds defaults for the layout, render and browse commands.
type LayoutConfig struct {
	Columns       int     `toml:"columns"`
	Width         float64 `toml:"width"`
	CaptionHeight float64 `toml:"caption_height"`
	Labels        bool    `toml:"labels"`
}

// ServeConfig holds defaults for the serve command.
type ServeConfig struct {
	Addr          string   `toml:"addr"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	RedisPrefix   string   `toml:"redis_prefix"`
	SessionDir    string   `toml:"session_dir"`
	SessionTTL    duration `toml:"session_ttl"`
}

// duration decodes TOML strings such as "90m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Serve: ServeConfig{
			Addr:       ":8080",
			SessionTTL: duration{session.DefaultTTL},
		},
	}
}

// loadConfig reads path, or the first config file found in the default
// locations when path is empty. A missing default file is not an error.
func loadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = findConfig()
		if path == "" {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil, merrors.New(merrors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return nil, merrors.Wrap(merrors.ErrCodeInvalidConfiguration, err, "parse config %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, merrors.New(merrors.ErrCodeInvalidConfiguration, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// findConfig returns the first existing default config path, or "".
func findConfig() string {
	candidates := []string{configFileName}
	if dir, err := configDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
