// Package config handles tabula's configuration, read from a YAML file and the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/datasource"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/internal/compress"
	"github.com/go-sif/tabula/internal/util"
	"github.com/go-sif/tabula/logging"
	"github.com/go-sif/tabula/writer"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Environment variables which override file configuration
const (
	EnvLogLevel    = "TABULA_LOG_LEVEL"
	EnvLogFormat   = "TABULA_LOG_FORMAT"
	EnvParallelism = "TABULA_PARALLELISM"
	EnvWarehouse   = "TABULA_WAREHOUSE"
)

// LoaderConfig holds the defaults used when loading files
type LoaderConfig struct {
	Format      string `yaml:"format,omitempty"` // empty means "detect from the file extension"
	Header      bool   `yaml:"header"`
	InferSchema bool   `yaml:"infer-schema"`
	Multiline   bool   `yaml:"multiline"`
	Delimiter   string `yaml:"delimiter,omitempty"`
	NilValue    string `yaml:"nil-value,omitempty"`
	DateFormat  string `yaml:"date-format,omitempty"`
}

// WriterConfig holds the defaults used when writing files
type WriterConfig struct {
	Format      string `yaml:"format"`
	Mode        string `yaml:"mode"`
	Compression string `yaml:"compression"`
	Header      bool   `yaml:"header"`
	Delimiter   string `yaml:"delimiter,omitempty"`
	NilValue    string `yaml:"nil-value,omitempty"`
	DateFormat  string `yaml:"date-format,omitempty"`
}

// Config holds the configuration of the tabula command
type Config struct {
	LogLevel      string       `yaml:"log-level"`   // trace, debug, info, warn, error or fatal
	LogFormat     string       `yaml:"log-format"`  // text or json
	Parallelism   int          `yaml:"parallelism"` // 0 keeps the default of GOMAXPROCS
	Loader        LoaderConfig `yaml:"loader"`
	Writer        WriterConfig `yaml:"writer"`
	WarehousePath string       `yaml:"warehouse,omitempty"`
}

// Default returns the configuration used when nothing is configured
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Loader: LoaderConfig{
			Header: true,
		},
		Writer: WriterConfig{
			Format:      string(datasource.FormatColumnar),
			Mode:        writer.ModeErrorIfExists.String(),
			Compression: string(compress.None),
			Header:      true,
		},
	}
}

// LoadFile reads a YAML configuration file. Keys missing from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse reads a YAML configuration. Keys missing from data keep their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides configuration with any TABULA_* environment variables which are set
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok {
		c.LogFormat = v
	}
	if v, ok := os.LookupEnv(EnvWarehouse); ok {
		c.WarehousePath = v
	}
	if v, ok := os.LookupEnv(EnvParallelism); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.InvalidArgumentError{Argument: EnvParallelism, Reason: "must be an integer, not " + v}
		}
		c.Parallelism = n
	}
	return nil
}

// Validate checks the whole configuration, reporting every problem found
func (c *Config) Validate() error {
	var errs *multierror.Error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = multierror.Append(errs, err)
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		errs = multierror.Append(errs, errors.InvalidArgumentError{Argument: "log-format", Reason: "must be text or json, not " + c.LogFormat})
	}
	if c.Parallelism < 0 {
		errs = multierror.Append(errs, errors.InvalidArgumentError{Argument: "parallelism", Reason: "cannot be negative"})
	}
	if len(c.Loader.Format) > 0 {
		if _, err := datasource.ParseFormat(c.Loader.Format); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("loader: %w", err))
		}
	}
	if err := validDelimiter(c.Loader.Delimiter); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("loader: %w", err))
	}
	format, err := datasource.ParseFormat(c.Writer.Format)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("writer: %w", err))
	}
	if _, err := writer.ParseMode(c.Writer.Mode); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("writer: %w", err))
	}
	codec, err := compress.ParseCodec(c.Writer.Compression)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("writer: %w", err))
	} else if codec != compress.None && len(format) > 0 && !format.Compressible() {
		errs = multierror.Append(errs, fmt.Errorf("writer: %w", errors.InvalidArgumentError{
			Argument: "compression",
			Reason:   string(format) + " output cannot be compressed",
		}))
	}
	if err := validDelimiter(c.Writer.Delimiter); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("writer: %w", err))
	}
	if errs != nil {
		errs.ErrorFormat = util.FormatMultiError
	}
	return errs.ErrorOrNil()
}

func validDelimiter(d string) error {
	if utf8.RuneCountInString(d) > 1 {
		return errors.InvalidArgumentError{Argument: "delimiter", Reason: fmt.Sprintf("must be a single character, not %q", d)}
	}
	return nil
}

func delimiter(d string) rune {
	r, _ := utf8.DecodeRuneInString(d)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

// SlogLevel maps the LogLevel string to an slog.Level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return logging.InfoLevel
	}
	return level
}

// Logger creates the logger described by this configuration, writing to w
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	return logging.New(w, c.LogLevel, c.LogFormat)
}

// Apply configures process-wide settings, such as parallelism
func (c *Config) Apply() {
	if c.Parallelism > 0 {
		tabula.SetParallelism(c.Parallelism)
	}
}

// LoaderOptions converts the loader configuration into datasource.Options
func (c *Config) LoaderOptions(logger *slog.Logger) datasource.Options {
	return datasource.Options{
		Header:      c.Loader.Header,
		InferSchema: c.Loader.InferSchema,
		Multiline:   c.Loader.Multiline,
		Delimiter:   delimiter(c.Loader.Delimiter),
		NilValue:    c.Loader.NilValue,
		DateFormat:  c.Loader.DateFormat,
		Logger:      logger,
	}
}

// WriterOptions converts the writer configuration into writer.Options
func (c *Config) WriterOptions(logger *slog.Logger) writer.Options {
	return writer.Options{
		Header:      c.Writer.Header,
		Delimiter:   delimiter(c.Writer.Delimiter),
		NilValue:    c.Writer.NilValue,
		DateFormat:  c.Writer.DateFormat,
		Compression: c.Writer.Compression,
		Logger:      logger,
	}
}
