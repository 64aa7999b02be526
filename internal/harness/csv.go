package harness

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// csvHeader is the fixed column set of the per-run export.
var csvHeader = []string{"trial", "result", "latency_ms", "server_total", "server_last"}

// CSVFilename returns the timestamped per-run filename so successive runs
// never overwrite each other.
func CSVFilename(t time.Time) string {
	return fmt.Sprintf("webtrial-run-%s.csv", t.Format("20060102-150405"))
}

// WriteCSV exports the trial ledger to dir under the timestamped filename,
// one row per trial in trial order. Server fields stay blank for trials
// the aggregator never polled. Returns the written path.
func WriteCSV(dir string, startedAt time.Time, trials []Trial) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, CSVFilename(startedAt))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range trials {
		total := ""
		if t.ServerTotal != nil {
			total = strconv.Itoa(*t.ServerTotal)
		}
		row := []string{
			strconv.Itoa(t.Seq),
			string(t.Outcome),
			strconv.FormatInt(t.LatencyMS, 10),
			total,
			t.ServerLast,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row %d: %w", t.Seq, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return path, nil
}
