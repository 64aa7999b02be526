package harness

import "errors"

// Outcome is the terminal state of one trial.
type Outcome string

const (
	OutcomePass  Outcome = "PASS"
	OutcomeFail  Outcome = "FAIL"
	OutcomeError Outcome = "ERROR"
)

// Sentinel errors for the per-trial failure taxonomy. Transport failures
// keep the underlying error; these two mark the harness-level conditions.
var (
	// ErrNoNodes means extraction produced zero nodes even after the
	// single retry.
	ErrNoNodes = errors.New("no nodes extracted")

	// ErrTargetNotFound means no button matched any intent phrase.
	ErrTargetNotFound = errors.New("target not found")
)

// Trial is the immutable record of one completed trial. ServerTotal and
// ServerLast are filled by the aggregator when metrics polling is enabled
// and stay empty otherwise.
type Trial struct {
	Seq         int     `yaml:"trial"                  json:"trial"`
	Outcome     Outcome `yaml:"result"                 json:"result"`
	LatencyMS   int64   `yaml:"latency_ms"             json:"latency_ms"`
	Message     string  `yaml:"message,omitempty"      json:"message,omitempty"`
	ServerTotal *int    `yaml:"server_total,omitempty" json:"server_total,omitempty"`
	ServerLast  string  `yaml:"server_last,omitempty"  json:"server_last,omitempty"`
}
