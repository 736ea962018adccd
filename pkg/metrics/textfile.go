package metrics

import (
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile dumps the gatherer in the node_exporter textfile format. A
// batch run has no scrape endpoint, so this is how its counters get out.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return nil
	}
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "mkdir %s", filepath.Dir(path))
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return errors.Wrapf(err, "write metrics textfile %s", path)
	}
	return nil
}
