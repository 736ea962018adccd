package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"

	"github.com/iota-uz/orgaudit/modules/orgaudit/services"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown report format")

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.Errorf("%q: %w", s, ErrUnknownFormat)
	}
}

// Write renders r to w in the given format.
func Write(w io.Writer, r services.Report, f Format) error {
	switch f {
	case FormatText, "":
		return WriteText(w, r)
	default:
		return encode(w, newDocument(r), f)
	}
}

func encode(w io.Writer, v any, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "json encode")
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "yaml encode")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(err, "yaml encode")
		}
		return nil
	default:
		return errors.Errorf("%q: %w", f, ErrUnknownFormat)
	}
}

// WriteText prints each section title followed by one line per entry.
func WriteText(w io.Writer, r services.Report) error {
	var b strings.Builder
	for i, s := range r.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s:\n", s.Title)
		if !s.Available {
			b.WriteString(NoData + "\n")
			continue
		}
		for _, e := range s.Entries {
			b.WriteString(textLine(s.Name, e))
			b.WriteString("\n")
		}
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, "write report")
	}
	return nil
}

func textLine(name services.SectionName, e services.Entry) string {
	emp := e.Employee
	prefix := fmt.Sprintf("id: %d, name: %s, last name: %s", emp.ID, emp.FirstName, emp.LastName)
	switch name {
	case services.SectionReportingLine:
		return fmt.Sprintf("%s, reporting line: %d", prefix, int(e.Value))
	case services.SectionOverpaid:
		return fmt.Sprintf("%s, earns more by: %s", prefix, FormatAmount(e.Value))
	case services.SectionUnderpaid:
		return fmt.Sprintf("%s, earns less by: %s", prefix, FormatAmount(e.Value))
	default:
		return fmt.Sprintf("%s, value: %s", prefix, FormatAmount(e.Value))
	}
}
