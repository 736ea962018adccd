package configuration

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

// Thresholds is the content of a thresholds file. Fields left out of the
// file stay nil and do not override anything.
type Thresholds struct {
	MaxReportingDepth *int     `toml:"max_reporting_depth" yaml:"max_reporting_depth"`
	BigRatio          *float64 `toml:"big_ratio" yaml:"big_ratio"`
	SmallRatio        *float64 `toml:"small_ratio" yaml:"small_ratio"`
}

// LoadThresholds decodes path as YAML for .yaml/.yml files and as TOML
// otherwise. Unknown keys are rejected.
func LoadThresholds(path string) (Thresholds, error) {
	var t Thresholds
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return t, errors.Wrap(err, "open thresholds file")
		}
		defer func() { _ = f.Close() }()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
			return t, errors.Wrapf(err, "decode %s", path)
		}
	default:
		md, err := toml.DecodeFile(path, &t)
		if err != nil {
			return t, errors.Wrapf(err, "decode %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return t, errors.Errorf("decode %s: unknown key %q", path, undecoded[0].String())
		}
	}
	return t, nil
}

// Apply copies the values present in the file onto a.
func (t Thresholds) Apply(a *AuditOptions) {
	if t.MaxReportingDepth != nil {
		a.MaxReportingDepth = *t.MaxReportingDepth
	}
	if t.BigRatio != nil {
		a.BigRatio = *t.BigRatio
	}
	if t.SmallRatio != nil {
		a.SmallRatio = *t.SmallRatio
	}
}
