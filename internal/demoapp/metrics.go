package demoapp

import (
	"sync"
	"time"
)

// MetricsView is the JSON shape of GET /metrics. Last is "PASS", "FAIL"
// or "MISSING", empty before the first verification.
type MetricsView struct {
	Total  int    `json:"total"`
	Passed int    `json:"passed"`
	Failed int    `json:"failed"`
	LastMS int64  `json:"last_ms"`
	Last   string `json:"last"`
	LastTS int64  `json:"last_ts"`
}

// metrics is the mutex-guarded per-process counter set. Handlers run
// concurrently, so every access goes through the lock.
type metrics struct {
	mu   sync.Mutex
	view MetricsView
}

// record folds one verification attempt into the counters. A missing
// token counts as a failure but reports MISSING instead of FAIL.
func (m *metrics) record(success, missingToken bool, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view.Total++
	m.view.LastMS = elapsed.Milliseconds()
	m.view.LastTS = time.Now().UnixMilli()
	switch {
	case success:
		m.view.Last = "PASS"
		m.view.Passed++
	case missingToken:
		m.view.Last = "MISSING"
		m.view.Failed++
	default:
		m.view.Last = "FAIL"
		m.view.Failed++
	}
}

func (m *metrics) snapshot() MetricsView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

func (m *metrics) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view = MetricsView{}
}
