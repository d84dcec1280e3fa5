package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	StatsBackendFile  = "file"
	StatsBackendRedis = "redis"

	envPrefix = "ALTESSE_"
)

type StatsConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	RedisURL string `yaml:"redis_url"`
	RedisKey string `yaml:"redis_key"`
}

type FilesConfig struct {
	TempDir string `yaml:"temp_dir"`
	Workers int    `yaml:"workers"`
}

type AuthConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Secret      string        `yaml:"secret"`
	TokenExpiry time.Duration `yaml:"token_expiry"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type WebSocketConfig struct {
	PingInterval time.Duration `yaml:"ping_interval"`
}

type Config struct {
	Listen    string          `yaml:"listen"`
	LogLevel  string          `yaml:"log_level"`
	LogFormat string          `yaml:"log_format"`
	Stats     StatsConfig     `yaml:"stats"`
	Files     FilesConfig     `yaml:"files"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// Default returns the configuration used when no file is present.
// Stats live in Documents/AltesseTools like the desktop build.
func Default() *Config {
	statsPath := "stats.json"
	if home, err := os.UserHomeDir(); err == nil {
		statsPath = filepath.Join(home, "Documents", "AltesseTools", "stats.json")
	}

	return &Config{
		Listen:    "localhost:8080",
		LogLevel:  LogLevelInfo,
		LogFormat: "text",
		Stats: StatsConfig{
			Backend:  StatsBackendFile,
			Path:     statsPath,
			RedisKey: "altesse:stats",
		},
		Files: FilesConfig{
			TempDir: filepath.Join(os.TempDir(), "altesse_dropped_files"),
			Workers: runtime.NumCPU(),
		},
		Auth: AuthConfig{
			TokenExpiry: 90 * 24 * time.Hour,
		},
		WebSocket: WebSocketConfig{
			PingInterval: 30 * time.Second,
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies .env and
// ALTESSE_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("cannot read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("cannot parse config %s: %w", path, err)
			}
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	switch c.Stats.Backend {
	case StatsBackendFile:
		if c.Stats.Path == "" {
			return errors.New("stats.path is required for the file backend")
		}
	case StatsBackendRedis:
		if c.Stats.RedisURL == "" {
			return errors.New("stats.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown stats backend %q", c.Stats.Backend)
	}

	if c.Files.Workers <= 0 {
		c.Files.Workers = 1
	}

	return nil
}

func applyEnv(cfg *Config) error {
	str := map[string]*string{
		"LISTEN":          &cfg.Listen,
		"LOG_LEVEL":       &cfg.LogLevel,
		"LOG_FORMAT":      &cfg.LogFormat,
		"STATS_BACKEND":   &cfg.Stats.Backend,
		"STATS_PATH":      &cfg.Stats.Path,
		"STATS_REDIS_URL": &cfg.Stats.RedisURL,
		"STATS_REDIS_KEY": &cfg.Stats.RedisKey,
		"FILES_TEMP_DIR":  &cfg.Files.TempDir,
		"AUTH_SECRET":     &cfg.Auth.Secret,
	}
	for name, dst := range str {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "AUTH_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sAUTH_ENABLED: %w", envPrefix, err)
		}
		cfg.Auth.Enabled = enabled
	}

	if v, ok := os.LookupEnv(envPrefix + "FILES_WORKERS"); ok {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sFILES_WORKERS: %w", envPrefix, err)
		}
		cfg.Files.Workers = workers
	}

	if v, ok := os.LookupEnv(envPrefix + "CORS_ALLOWED_ORIGINS"); ok {
		cfg.CORS.AllowedOrigins = strings.Split(v, ",")
	}

	return nil
}
