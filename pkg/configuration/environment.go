package configuration

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"
	"github.com/iota-uz/utils/fs"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orgaudit/pkg/logging"
)

var DefaultEnvFiles = []string{".env", ".env.local"}

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if fs.FileExists(file) {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type AuditOptions struct {
	MaxReportingDepth int     `env:"ORGAUDIT_MAX_REPORTING_DEPTH" envDefault:"4"`
	BigRatio          float64 `env:"ORGAUDIT_SALARY_BIG_RATIO" envDefault:"1.5"`
	SmallRatio        float64 `env:"ORGAUDIT_SALARY_SMALL_RATIO" envDefault:"1.2"`
	// ThresholdsFile is a TOML or YAML file whose values override the three above.
	ThresholdsFile string `env:"ORGAUDIT_THRESHOLDS_FILE"`
}

// Validate checks the audit thresholds
func (a *AuditOptions) Validate() error {
	if a.MaxReportingDepth < 0 {
		return fmt.Errorf("max reporting depth must be non-negative, got %d", a.MaxReportingDepth)
	}
	if !validRatio(a.BigRatio) {
		return fmt.Errorf("big salary ratio must be a positive number, got %v", a.BigRatio)
	}
	if !validRatio(a.SmallRatio) {
		return fmt.Errorf("small salary ratio must be a positive number, got %v", a.SmallRatio)
	}
	return nil
}

func validRatio(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

type InputOptions struct {
	Delimiter string `env:"ORGAUDIT_CSV_DELIMITER" envDefault:","`
	XLSXSheet string `env:"ORGAUDIT_XLSX_SHEET"`
}

// Comma returns the CSV delimiter as a rune.
func (i *InputOptions) Comma() rune {
	r, _ := utf8.DecodeRuneInString(i.Delimiter)
	return r
}

type OutputOptions struct {
	Format          string `env:"ORGAUDIT_REPORT_FORMAT" envDefault:"text"`
	MetricsTextfile string `env:"ORGAUDIT_METRICS_TEXTFILE"`
}

type Configuration struct {
	Audit  AuditOptions
	Input  InputOptions
	Output OutputOptions

	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`
	// LogPath mirrors logs as JSON into a file when set.
	LogPath string `env:"LOG_PATH"`

	logFile *os.File
	logger  *logrus.Logger
}

// Load reads the env files that exist, then the process environment, then
// the thresholds file if one is configured.
func Load(envFiles []string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

// ParseLogLevel maps silent|error|warn|info|debug onto logrus levels.
func ParseLogLevel(s string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return logrus.PanicLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	case "", "warn":
		return logrus.WarnLevel, nil
	case "info":
		return logrus.InfoLevel, nil
	case "debug":
		return logrus.DebugLevel, nil
	default:
		return logrus.WarnLevel, fmt.Errorf("invalid log level %q (expected silent|error|warn|info|debug)", s)
	}
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	level, _ := ParseLogLevel(c.LogLevel)
	return level
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	if c.Audit.ThresholdsFile != "" {
		t, err := LoadThresholds(c.Audit.ThresholdsFile)
		if err != nil {
			return err
		}
		t.Apply(&c.Audit)
	}
	if err := c.Validate(); err != nil {
		return err
	}

	if c.LogPath != "" {
		f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
		if err != nil {
			return err
		}
		c.logFile = f
		c.logger = logger
	} else {
		c.logger = logging.ConsoleLogger(c.LogrusLogLevel(), os.Stderr)
	}

	if n == 0 {
		wd, _ := os.Getwd()
		fields := logrus.Fields{}
		for i, file := range envFiles {
			fields[fmt.Sprintf("tried_%d", i)] = filepath.Join(wd, file)
		}
		c.logger.WithFields(fields).Debug("orgaudit.config.no_env_files")
	}
	return nil
}

func (c *Configuration) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if err := c.Audit.Validate(); err != nil {
		return fmt.Errorf("audit configuration error: %w", err)
	}
	if err := c.validateInput(); err != nil {
		return err
	}
	return c.validateOutput()
}

func (c *Configuration) validateInput() error {
	d := c.Input.Delimiter
	if utf8.RuneCountInString(d) != 1 {
		return fmt.Errorf("invalid ORGAUDIT_CSV_DELIMITER=%q (expected a single character)", d)
	}
	switch r := c.Input.Comma(); r {
	case '"', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("invalid ORGAUDIT_CSV_DELIMITER=%q", d)
	}
	return nil
}

func (c *Configuration) validateOutput() error {
	format := strings.ToLower(strings.TrimSpace(c.Output.Format))
	if format == "" {
		format = "text"
	}
	switch format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid ORGAUDIT_REPORT_FORMAT=%q (expected text|json|yaml)", c.Output.Format)
	}
	c.Output.Format = format
	return nil
}

// Unload closes the log file, if any.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
		c.logFile = nil
	}
}
