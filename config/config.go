// Package config loads the runtime settings of oneshot from the environment.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
)

// Prefix of every environment variable read by Load.
const Prefix = "ONESHOT_"

// Defaults.
const (
	DefaultServer    = "http://localhost:5000"
	DefaultTimeout   = 2 * time.Minute
	DefaultLogLevel  = "warn"
	DefaultOutputDir = "."
)

// LogLevels maps the accepted log level names to logrus levels.
var LogLevels = map[string]logrus.Level{
	"trace": logrus.TraceLevel,
	"debug": logrus.DebugLevel,
	"info":  logrus.InfoLevel,
	"warn":  logrus.WarnLevel,
	"error": logrus.ErrorLevel,
	"off":   logrus.PanicLevel,
}

// LevelNames returns the accepted log level names, sorted.
func LevelNames() []string {
	names := make([]string, 0, len(LogLevels))
	for name := range LogLevels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config holds the settings loaded from the environment.
type Config struct {
	Server    string        `validate:"required,url"`
	Timeout   time.Duration `validate:"gt=0"`
	LogLevel  string        `validate:"required"`
	OutputDir string        `validate:"required"`
	Schedules string        // optional YAML schedules file
}

// Level returns the logrus level of c.LogLevel.
func (c *Config) Level() (logrus.Level, error) {
	level, ok := LogLevels[strings.ToLower(c.LogLevel)]
	if !ok {
		return 0, fmt.Errorf("invalid log level %q, must be one of %v", c.LogLevel, LevelNames())
	}
	return level, nil
}

var validate = validator.New()

// Load reads configuration from environment variables and an optional .env
// file in the current directory. Variables already set win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	trim := func(s string) string { return strings.ToLower(strings.TrimPrefix(s, Prefix)) }
	if err := k.Load(env.Provider(Prefix, ".", trim), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		Server:    valueOrDefault(k.String("server"), DefaultServer),
		LogLevel:  valueOrDefault(k.String("log_level"), DefaultLogLevel),
		OutputDir: valueOrDefault(k.String("output_dir"), DefaultOutputDir),
		Schedules: strings.TrimSpace(k.String("schedules")),
	}

	var errs error
	timeout, err := parseDuration(k.String("timeout"), DefaultTimeout)
	if err != nil {
		errs = errors.Join(errs, err)
	}
	cfg.Timeout = timeout
	if _, err := cfg.Level(); err != nil {
		errs = errors.Join(errs, fmt.Errorf("%sLOG_LEVEL: %w", Prefix, err))
	}
	if err := validate.Struct(cfg); err != nil {
		errs = errors.Join(errs, describe(err))
	}
	if errs != nil {
		return nil, errs
	}
	return cfg, nil
}

// MustLoad behaves like Load but panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// describe turns validation errors into the names of the faulty variables.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var errs error
	for _, fe := range verrs {
		name := Prefix + strings.ToUpper(toSnake(fe.Field()))
		errs = errors.Join(errs, fmt.Errorf("%s: invalid value %v (%s)", name, fe.Value(), fe.Tag()))
	}
	return errs
}

// toSnake converts OutputDir to output_dir.
func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

func valueOrDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback, fmt.Errorf("%sTIMEOUT: invalid duration %q: %w", Prefix, value, err)
	}
	return d, nil
}
