package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// SecretEnvVar overrides the configured session secret. Without either,
// a random per-process secret is generated and every restart expires
// all sessions.
const SecretEnvVar = "AIBOX_SESSION_SECRET"

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Data    DataConfig    `yaml:"data"`
	Scan    ScanConfig    `yaml:"scan"`
}

// Duration decodes YAML values like "10s" or "10m" via
// time.ParseDuration, with bare integers read as seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var secs int64
	if err := value.Decode(&secs); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts back to the standard library type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type ServerConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	IdleTimeout  Duration `yaml:"idle_timeout"`
}

type SessionConfig struct {
	Secret   string `yaml:"secret"`
	File     string `yaml:"file"`
	UserFile string `yaml:"user_file"`
	TTLHours int    `yaml:"ttl_hours"`
}

func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

type DataConfig struct {
	CandleDir       string   `yaml:"candle_dir"`
	FundamentalsDir string   `yaml:"fundamentals_dir"`
	MinRows         int      `yaml:"min_rows"`
	RedisAddr       string   `yaml:"redis_addr"` // empty disables the history cache
	CacheTTL        Duration `yaml:"cache_ttl"`
	BreakerTrips    uint32   `yaml:"breaker_trips"`
}

type ScanConfig struct {
	Workers       int     `yaml:"workers"`
	RatePerSecond float64 `yaml:"rate_per_second"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			ReadTimeout:  Duration(10 * time.Second),
			WriteTimeout: Duration(10 * time.Second),
			IdleTimeout:  Duration(60 * time.Second),
		},
		Session: SessionConfig{
			File:     "sessions.json",
			UserFile: "users.json",
			TTLHours: 72,
		},
		Data: DataConfig{
			CandleDir:       "data/candles",
			FundamentalsDir: "data/fundamentals",
			MinRows:         10,
			CacheTTL:        Duration(10 * time.Minute),
			BreakerTrips:    5,
		},
		Scan: ScanConfig{
			Workers:       4,
			RatePerSecond: 5,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveSecret returns the session secret: environment first, then
// the config file, then a logged random fallback.
func (c Config) ResolveSecret() []byte {
	if env := os.Getenv(SecretEnvVar); env != "" {
		return []byte(env)
	}
	if c.Session.Secret != "" {
		return []byte(c.Session.Secret)
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken anyway
		panic(fmt.Sprintf("cannot generate session secret: %v", err))
	}
	log.Warn().Msgf("%s not set; generated a temporary secret, sessions will not survive restart", SecretEnvVar)
	return []byte(hex.EncodeToString(buf))
}
