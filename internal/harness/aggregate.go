package harness

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mj1618/webtrial/internal/logger"
	"github.com/mj1618/webtrial/internal/verify"
)

// VerdictSource is the optional server-side metrics poller. The production
// implementation is the verify.Client; nil disables polling.
type VerdictSource interface {
	Reset(ctx context.Context) error
	Metrics(ctx context.Context) (verify.Metrics, error)
}

// RunSummary is the final record of one run: the full trial ledger plus
// derived counts and latency statistics.
type RunSummary struct {
	RunID      string    `yaml:"run_id"       json:"run_id"`
	StartedAt  time.Time `yaml:"started_at"   json:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"  json:"finished_at"`
	DurationMS int64     `yaml:"duration_ms"  json:"duration_ms"`
	Trials     []Trial   `yaml:"trials"       json:"trials"`
	Passed     int       `yaml:"passed"       json:"passed"`
	Failed     int       `yaml:"failed"       json:"failed"`
	Errored    int       `yaml:"errored"      json:"errored"`
	Latencies  []int64   `yaml:"latencies_ms" json:"latencies_ms"`
	Stats      Stats     `yaml:"stats"        json:"stats"`
}

// FailedCombined folds ERROR trials into the failure count, the way the
// scoreboard reports them. The ledger keeps the outcomes distinct.
func (s *RunSummary) FailedCombined() int {
	return s.Failed + s.Errored
}

// Aggregator drives the runner through N sequential trials. Trial i+1
// never starts before trial i's outcome is final, so the target page is
// never touched by two trials at once.
type Aggregator struct {
	runner *Runner
	trials int
	source VerdictSource
	log    logger.Logger
}

// NewAggregator builds an aggregator for a fixed trial count. source may
// be nil to skip server-side polling.
func NewAggregator(runner *Runner, trials int, source VerdictSource, log logger.Logger) *Aggregator {
	return &Aggregator{runner: runner, trials: trials, source: source, log: log}
}

// Run executes the whole run and returns its summary. Per-trial failures
// are already absorbed by the runner; nothing here aborts the run.
func (a *Aggregator) Run(ctx context.Context) *RunSummary {
	summary := &RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}

	if a.source != nil {
		if err := a.source.Reset(ctx); err != nil {
			a.log.Warn(ctx, "server metrics reset failed", map[string]interface{}{"error": err.Error()})
		}
	}

	for seq := 1; seq <= a.trials; seq++ {
		trial := a.runner.RunTrial(ctx, seq)
		if a.source != nil {
			a.poll(ctx, &trial)
		}
		summary.append(trial)
		a.logTrial(ctx, trial, summary)
	}

	summary.FinishedAt = time.Now()
	summary.DurationMS = summary.FinishedAt.Sub(summary.StartedAt).Milliseconds()
	summary.Stats = ComputeStats(summary.Latencies)
	return summary
}

// poll reads the server-side counters once and stores them on the trial.
// Poll failures leave the fields empty; the snapshot verdict stands alone.
func (a *Aggregator) poll(ctx context.Context, trial *Trial) {
	m, err := a.source.Metrics(ctx)
	if err != nil {
		a.log.Warn(ctx, "metrics poll failed", map[string]interface{}{
			"trial": trial.Seq,
			"error": err.Error(),
		})
		return
	}
	total := m.Total
	trial.ServerTotal = &total
	trial.ServerLast = m.Last
}

func (s *RunSummary) append(t Trial) {
	s.Trials = append(s.Trials, t)
	s.Latencies = append(s.Latencies, t.LatencyMS)
	switch t.Outcome {
	case OutcomePass:
		s.Passed++
	case OutcomeFail:
		s.Failed++
	case OutcomeError:
		s.Errored++
	}
}

func (a *Aggregator) logTrial(ctx context.Context, t Trial, s *RunSummary) {
	fields := map[string]interface{}{
		"trial":      t.Seq,
		"of":         a.trials,
		"result":     string(t.Outcome),
		"latency_ms": t.LatencyMS,
		"pass":       s.Passed,
		"fail":       s.FailedCombined(),
	}
	if t.Message != "" {
		fields["message"] = t.Message
	}
	if t.ServerTotal != nil {
		fields["server_total"] = *t.ServerTotal
		fields["server_last"] = t.ServerLast
	}
	a.log.Info(ctx, "trial complete", fields)
}
