package ingest

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-faster/errors"
)

var ErrMissingHeader = errors.New("missing header")

func openCSV(path string, comma rune) (*csv.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	br := bufio.NewReader(f)
	br = stripUTF8BOM(br)

	r := csv.NewReader(br)
	if comma != 0 {
		r.Comma = comma
	}
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = false
	return r, f.Close, nil
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

func readHeader(r *csv.Reader) ([]string, error) {
	h, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrMissingHeader
		}
		return nil, err
	}
	return normalizeHeader(h)
}

func normalizeHeader(h []string) ([]string, error) {
	if len(h) == 0 {
		return nil, ErrMissingHeader
	}
	out := make([]string, len(h))
	for i := range h {
		if !utf8.ValidString(h[i]) {
			return nil, errors.New("invalid header encoding")
		}
		out[i] = strings.TrimSpace(h[i])
	}
	return out, nil
}
