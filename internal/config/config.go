// Package config loads the server and CLI settings. Values are layered:
// built-in defaults, then an optional YAML file, then .env files, then
// CRMFORMS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "CRMFORMS_"

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type HTTP struct {
	Addr string `yaml:"addr"`
	// PublicURL is the externally reachable base of the public routes.
	PublicURL       string        `yaml:"public_url"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Database struct {
	Store string `yaml:"store"`
	DSN   string `yaml:"dsn"`
}

type Kafka struct {
	// Brokers left empty disables publishing.
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	ClientID string   `yaml:"client_id"`
}

type CEP struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the complete settings tree.
type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Database Database `yaml:"database"`
	Kafka    Kafka    `yaml:"kafka"`
	CEP      CEP      `yaml:"cep"`
	Log      Log      `yaml:"log"`
	Locale   string   `yaml:"locale"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		HTTP: HTTP{
			Addr:            ":8080",
			PublicURL:       "http://localhost:8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: Database{Store: StoreMemory},
		Kafka:    Kafka{Topic: "crmforms-submissions", ClientID: "crmforms"},
		CEP:      CEP{BaseURL: "https://viacep.com.br", Timeout: 3 * time.Second},
		Log:      Log{Level: "info", Format: FormatText},
		Locale:   "pt-BR",
	}
}

// Options select the sources Load reads.
type Options struct {
	// File is an optional YAML file; a missing file is an error.
	File string
	// EnvFiles are read in order when present; missing ones are skipped.
	// Nil means ".env".
	EnvFiles []string
}

// Load layers the configured sources over Default and validates the result.
func Load(opts Options) (Config, error) {
	cfg := Default()
	if opts.File != "" {
		raw, err := os.ReadFile(opts.File)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", opts.File, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", opts.File, err)
		}
	}

	files := opts.EnvFiles
	if files == nil {
		files = []string{".env"}
	}
	if extra := os.Getenv(envPrefix + "ENV_FILES"); extra != "" {
		files = append(files, strings.Split(extra, ",")...)
	}
	dotenv, err := readEnvFiles(files)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if value, ok := os.LookupEnv(envPrefix + key); ok {
			return value, true
		}
		value, ok := dotenv[envPrefix+key]
		return value, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	values := map[string]string{}
	for _, file := range files {
		file = strings.TrimSpace(file)
		if file == "" {
			continue
		}
		if _, err := os.Stat(file); err != nil {
			continue
		}
		read, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
		for key, value := range read {
			values[key] = value
		}
	}
	return values, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dest *string) {
		if value, ok := lookup(key); ok {
			*dest = strings.TrimSpace(value)
		}
	}
	dur := func(key string, dest *time.Duration) error {
		value, ok := lookup(key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", envPrefix, key, err)
		}
		*dest = d
		return nil
	}

	str("HTTP_ADDR", &c.HTTP.Addr)
	str("PUBLIC_URL", &c.HTTP.PublicURL)
	str("STORE", &c.Database.Store)
	str("DATABASE_DSN", &c.Database.DSN)
	str("KAFKA_TOPIC", &c.Kafka.Topic)
	str("KAFKA_CLIENT_ID", &c.Kafka.ClientID)
	str("CEP_BASE_URL", &c.CEP.BaseURL)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LOCALE", &c.Locale)
	if value, ok := lookup("KAFKA_BROKERS"); ok {
		c.Kafka.Brokers = splitList(value)
	}
	for key, dest := range map[string]*time.Duration{
		"HTTP_READ_TIMEOUT":     &c.HTTP.ReadTimeout,
		"HTTP_WRITE_TIMEOUT":    &c.HTTP.WriteTimeout,
		"HTTP_SHUTDOWN_TIMEOUT": &c.HTTP.ShutdownTimeout,
		"CEP_TIMEOUT":           &c.CEP.Timeout,
	} {
		if err := dur(key, dest); err != nil {
			return err
		}
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	var errs []error
	switch c.Database.Store {
	case StoreMemory:
	case StorePostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			errs = append(errs, errors.New("config: postgres store requires a dsn"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown store %q", c.Database.Store))
	}
	if len(c.Kafka.Brokers) > 0 && strings.TrimSpace(c.Kafka.Topic) == "" {
		errs = append(errs, errors.New("config: kafka topic is required"))
	}
	if c.CEP.Timeout <= 0 {
		errs = append(errs, errors.New("config: cep timeout must be positive"))
	}
	switch c.Log.Format {
	case FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("config: unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// KafkaEnabled reports whether submissions are published.
func (c Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}
