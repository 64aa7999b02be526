package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mj1618/webtrial/internal/imaging"
	"github.com/mj1618/webtrial/internal/logger"
	"github.com/mj1618/webtrial/internal/mcp"
	"github.com/mj1618/webtrial/internal/model"
)

// RunnerOptions configure how each trial drives the page.
type RunnerOptions struct {
	TargetURL        string
	SettleSeconds    int
	Intents          []string
	PassPhrases      []string
	FailPhrases      []string
	DumpDir          string
	ScreenshotOnFail bool
}

// Runner executes one trial at a time against the remote browser.
type Runner struct {
	inv  mcp.Invoker
	log  logger.Logger
	opts RunnerOptions
}

// NewRunner builds a Runner over a connected invoker.
func NewRunner(inv mcp.Invoker, log logger.Logger, opts RunnerOptions) *Runner {
	return &Runner{inv: inv, log: log, opts: opts}
}

// RunTrial drives one complete trial. Every remote failure is absorbed
// into an ERROR-outcome Trial; errors never escape the trial boundary.
func (r *Runner) RunTrial(ctx context.Context, seq int) Trial {
	start := time.Now()
	outcome, msg, err := r.attempt(ctx, seq)
	if err != nil {
		outcome = OutcomeError
		msg = err.Error()
	}

	trial := Trial{
		Seq:       seq,
		Outcome:   outcome,
		LatencyMS: time.Since(start).Milliseconds(),
		Message:   msg,
	}

	if trial.Outcome != OutcomePass && r.opts.ScreenshotOnFail {
		r.captureFailure(ctx, seq)
	}
	return trial
}

// attempt walks the trial state machine: navigate, settle, snapshot (with
// one retry), locate target, activate, settle, snapshot, resolve verdict.
// A non-nil error means ERROR outcome; otherwise the returned outcome is
// PASS or FAIL with an optional diagnostic message.
func (r *Runner) attempt(ctx context.Context, seq int) (Outcome, string, error) {
	if err := mcp.Navigate(ctx, r.inv, r.opts.TargetURL); err != nil {
		return OutcomeError, "", fmt.Errorf("navigate: %w", err)
	}

	nodes, err := r.snapshotWithRetry(ctx, seq)
	if err != nil {
		return OutcomeError, "", err
	}

	target := model.FindActionTarget(nodes, r.opts.Intents)
	if target == nil {
		sample := strings.Join(model.SampleNodes(nodes, 8), ", ")
		return OutcomeError, "", fmt.Errorf("%w: %d nodes seen, sample [%s]", ErrTargetNotFound, len(nodes), sample)
	}
	r.log.Debug(ctx, "action target located", map[string]interface{}{
		"trial": seq,
		"role":  target.Role,
		"name":  target.Name,
		"ref":   target.Ref,
	})

	if err := r.activate(ctx, target); err != nil {
		return OutcomeError, "", err
	}

	if err := mcp.WaitSeconds(ctx, r.inv, r.opts.SettleSeconds); err != nil {
		return OutcomeError, "", fmt.Errorf("settle after activate: %w", err)
	}
	resp, err := mcp.Snapshot(ctx, r.inv)
	if err != nil {
		return OutcomeError, "", fmt.Errorf("verdict snapshot: %w", err)
	}
	after := model.Normalize(resp.AsSnapshotPayload())

	return r.resolveVerdict(after)
}

// snapshotWithRetry performs the settle wait and first snapshot, retrying
// exactly once when the capture fails or normalizes to zero nodes. On the
// first trial the raw payloads of empty captures are dumped for offline
// inspection.
func (r *Runner) snapshotWithRetry(ctx context.Context, seq int) ([]model.AccessibleNode, error) {
	nodes, err := r.capture(ctx, seq, DumpFirstRaw)
	if err == nil && len(nodes) > 0 {
		return nodes, nil
	}
	if err != nil {
		r.log.Warn(ctx, "snapshot failed, retrying once", map[string]interface{}{"trial": seq, "error": err.Error()})
	} else {
		r.log.Warn(ctx, "extraction empty, retrying once", map[string]interface{}{"trial": seq})
	}

	nodes, err = r.capture(ctx, seq, DumpFirstRetry)
	if err != nil {
		return nil, fmt.Errorf("snapshot retry: %w", err)
	}
	if len(nodes) == 0 {
		return nil, ErrNoNodes
	}
	return nodes, nil
}

// capture waits for the page to settle, snapshots and normalizes. dumpName
// is written when the first trial's capture yields no nodes.
func (r *Runner) capture(ctx context.Context, seq int, dumpName string) ([]model.AccessibleNode, error) {
	if err := mcp.WaitSeconds(ctx, r.inv, r.opts.SettleSeconds); err != nil {
		return nil, fmt.Errorf("settle wait: %w", err)
	}
	resp, err := mcp.Snapshot(ctx, r.inv)
	if err != nil {
		return nil, err
	}
	payload := resp.AsSnapshotPayload()
	nodes := model.Normalize(payload)
	if len(nodes) == 0 && seq == 1 && r.opts.DumpDir != "" {
		if path, derr := DumpPayload(r.opts.DumpDir, dumpName, payload); derr != nil {
			r.log.Warn(ctx, "payload dump failed", map[string]interface{}{"error": derr.Error()})
		} else {
			r.log.Info(ctx, "raw payload dumped", map[string]interface{}{"path": path})
		}
	}
	return nodes, nil
}

// activate clicks the target, falling back to a single Enter key press
// when the click invocation itself is rejected.
func (r *Runner) activate(ctx context.Context, target *model.AccessibleNode) error {
	clickErr := mcp.Click(ctx, r.inv, target.Name, target.Ref)
	if clickErr == nil {
		return nil
	}
	r.log.Warn(ctx, "click rejected, pressing Enter", map[string]interface{}{"error": clickErr.Error()})
	if pressErr := mcp.PressKey(ctx, r.inv, "Enter"); pressErr != nil {
		return fmt.Errorf("activate target: click: %v; enter fallback: %w", clickErr, pressErr)
	}
	return nil
}

// resolveVerdict maps the post-activation node list to PASS or FAIL. A
// pass-phrase verdict node means PASS; anything else, including an absent
// verdict element, is FAIL.
func (r *Runner) resolveVerdict(nodes []model.AccessibleNode) (Outcome, string, error) {
	if v := model.FindVerdict(nodes, r.opts.PassPhrases); v != nil {
		return OutcomePass, "", nil
	}
	if v := model.FindVerdict(nodes, r.opts.FailPhrases); v != nil {
		return OutcomeFail, fmt.Sprintf("verdict %q", v.Name), nil
	}
	return OutcomeFail, "no verdict element found", nil
}

// captureFailure saves a screenshot of the failed state to the dump dir.
// Failures here are logged and swallowed; the trial outcome is already
// decided.
func (r *Runner) captureFailure(ctx context.Context, seq int) {
	data, _, err := mcp.TakeScreenshot(ctx, r.inv)
	if err != nil {
		r.log.Warn(ctx, "failure screenshot not captured", map[string]interface{}{"trial": seq, "error": err.Error()})
		return
	}
	if converted, cerr := imaging.ToPNG(data, 0); cerr == nil {
		data = converted
	} else {
		r.log.Warn(ctx, "screenshot not re-encoded, saving raw bytes", map[string]interface{}{"trial": seq, "error": cerr.Error()})
	}
	if err := os.MkdirAll(r.opts.DumpDir, 0755); err != nil {
		r.log.Warn(ctx, "failure screenshot not saved", map[string]interface{}{"trial": seq, "error": err.Error()})
		return
	}
	path := filepath.Join(r.opts.DumpDir, fmt.Sprintf("trial-%d-fail.png", seq))
	if err := os.WriteFile(path, data, 0644); err != nil {
		r.log.Warn(ctx, "failure screenshot not saved", map[string]interface{}{"trial": seq, "error": err.Error()})
		return
	}
	r.log.Info(ctx, "failure screenshot saved", map[string]interface{}{"trial": seq, "path": path})
}
