package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var orgauditEnv = []string{
	"LOG_LEVEL",
	"LOG_PATH",
	"ORGAUDIT_MAX_REPORTING_DEPTH",
	"ORGAUDIT_SALARY_BIG_RATIO",
	"ORGAUDIT_SALARY_SMALL_RATIO",
	"ORGAUDIT_THRESHOLDS_FILE",
	"ORGAUDIT_CSV_DELIMITER",
	"ORGAUDIT_XLSX_SHEET",
	"ORGAUDIT_REPORT_FORMAT",
	"ORGAUDIT_METRICS_TEXTFILE",
	"ORGAUDIT_TEST_ENV_LOAD",
}

// clearEnv unsets every variable the loader reads and restores them after
// the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range orgauditEnv {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	origWd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	require.NoError(t, os.Chdir(dir))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	c, err := Load(DefaultEnvFiles)
	require.NoError(t, err)
	t.Cleanup(c.Unload)

	require.Equal(t, 4, c.Audit.MaxReportingDepth)
	require.InDelta(t, 1.5, c.Audit.BigRatio, 1e-9)
	require.InDelta(t, 1.2, c.Audit.SmallRatio, 1e-9)
	require.Equal(t, "text", c.Output.Format)
	require.Equal(t, ',', c.Input.Comma())
	require.Equal(t, logrus.WarnLevel, c.LogrusLogLevel())
	require.NotNil(t, c.Logger())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("ORGAUDIT_MAX_REPORTING_DEPTH", "2")
	t.Setenv("ORGAUDIT_SALARY_BIG_RATIO", "2.0")
	t.Setenv("ORGAUDIT_CSV_DELIMITER", ";")
	t.Setenv("ORGAUDIT_REPORT_FORMAT", "JSON")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := Load(DefaultEnvFiles)
	require.NoError(t, err)
	t.Cleanup(c.Unload)

	require.Equal(t, 2, c.Audit.MaxReportingDepth)
	require.InDelta(t, 2.0, c.Audit.BigRatio, 1e-9)
	require.Equal(t, ';', c.Input.Comma())
	require.Equal(t, "json", c.Output.Format)
	require.Equal(t, logrus.DebugLevel, c.LogrusLogLevel())
}

func TestLoadEnv_ReadsFilesInWorkingDirectory(t *testing.T) {
	clearEnv(t)
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, ".env.local"), "ORGAUDIT_TEST_ENV_LOAD=ok\n")
	chdir(t, tmp)

	n, err := LoadEnv(DefaultEnvFiles)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "ok", os.Getenv("ORGAUDIT_TEST_ENV_LOAD"))
}

func TestLoad_EnvFileDoesNotOverrideProcessEnv(t *testing.T) {
	clearEnv(t)
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, ".env"), "ORGAUDIT_MAX_REPORTING_DEPTH=9\nORGAUDIT_SALARY_SMALL_RATIO=1.1\n")
	chdir(t, tmp)
	t.Setenv("ORGAUDIT_MAX_REPORTING_DEPTH", "3")

	c, err := Load(DefaultEnvFiles)
	require.NoError(t, err)
	t.Cleanup(c.Unload)

	require.Equal(t, 3, c.Audit.MaxReportingDepth)
	require.InDelta(t, 1.1, c.Audit.SmallRatio, 1e-9)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "negative depth", key: "ORGAUDIT_MAX_REPORTING_DEPTH", val: "-1"},
		{name: "not a number", key: "ORGAUDIT_MAX_REPORTING_DEPTH", val: "four"},
		{name: "zero big ratio", key: "ORGAUDIT_SALARY_BIG_RATIO", val: "0"},
		{name: "negative small ratio", key: "ORGAUDIT_SALARY_SMALL_RATIO", val: "-1.2"},
		{name: "two char delimiter", key: "ORGAUDIT_CSV_DELIMITER", val: ";;"},
		{name: "quote delimiter", key: "ORGAUDIT_CSV_DELIMITER", val: `"`},
		{name: "unknown format", key: "ORGAUDIT_REPORT_FORMAT", val: "xml"},
		{name: "missing thresholds file", key: "ORGAUDIT_THRESHOLDS_FILE", val: "does-not-exist.toml"},
		{name: "unknown log level", key: "LOG_LEVEL", val: "verbose"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.val)

			c, err := Load(DefaultEnvFiles)
			require.Error(t, err)
			require.Nil(t, c)
		})
	}
}

func TestLoad_ThresholdsFileOverridesEnv(t *testing.T) {
	clearEnv(t)
	tmp := t.TempDir()
	chdir(t, tmp)
	path := filepath.Join(tmp, "thresholds.toml")
	writeFile(t, path, "max_reporting_depth = 6\nbig_ratio = 1.8\n")
	t.Setenv("ORGAUDIT_THRESHOLDS_FILE", path)
	t.Setenv("ORGAUDIT_MAX_REPORTING_DEPTH", "2")

	c, err := Load(DefaultEnvFiles)
	require.NoError(t, err)
	t.Cleanup(c.Unload)

	require.Equal(t, 6, c.Audit.MaxReportingDepth)
	require.InDelta(t, 1.8, c.Audit.BigRatio, 1e-9)
	require.InDelta(t, 1.2, c.Audit.SmallRatio, 1e-9)
}

func TestLoad_LogPathWritesFile(t *testing.T) {
	clearEnv(t)
	tmp := t.TempDir()
	chdir(t, tmp)
	path := filepath.Join(tmp, "logs", "orgaudit.log")
	t.Setenv("LOG_PATH", path)
	t.Setenv("LOG_LEVEL", "info")

	c, err := Load(DefaultEnvFiles)
	require.NoError(t, err)
	c.Logger().Info("orgaudit.test")
	c.Unload()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), `"msg":"orgaudit.test"`)
}

func TestConfiguration_LogrusLogLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"silent":  logrus.PanicLevel,
		"error":   logrus.ErrorLevel,
		"warn":    logrus.WarnLevel,
		"info":    logrus.InfoLevel,
		"debug":   logrus.DebugLevel,
		"verbose": logrus.WarnLevel,
	}
	for in, want := range tests {
		c := &Configuration{LogLevel: in}
		require.Equal(t, want, c.LogrusLogLevel(), in)
	}
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel(" INFO ")
	require.NoError(t, err)
	require.Equal(t, logrus.InfoLevel, level)

	level, err = ParseLogLevel("")
	require.NoError(t, err)
	require.Equal(t, logrus.WarnLevel, level)

	_, err = ParseLogLevel("trace")
	require.Error(t, err)
}
