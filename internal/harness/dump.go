package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Fixed filenames for first-trial diagnostic dumps. Fixed names keep the
// latest empty-extraction payload easy to find; only the first trial writes
// them so repeated failures don't churn the directory.
const (
	DumpFirstRaw   = "snapshot-first-raw.json"
	DumpFirstRetry = "snapshot-first-retry.json"
)

// DumpPayload pretty-prints a raw snapshot payload to name inside dir,
// creating the directory as needed. Returns the written path.
func DumpPayload(dir, name string, payload any) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create dump dir: %w", err)
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write dump: %w", err)
	}
	return path, nil
}
