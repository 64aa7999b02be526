package harness

import (
	"math"
	"sort"
)

// Stats summarizes a latency series in milliseconds.
type Stats struct {
	MeanMS int64 `yaml:"mean_ms" json:"mean_ms"`
	P50MS  int64 `yaml:"p50_ms"  json:"p50_ms"`
	P90MS  int64 `yaml:"p90_ms"  json:"p90_ms"`
	P95MS  int64 `yaml:"p95_ms"  json:"p95_ms"`
	P99MS  int64 `yaml:"p99_ms"  json:"p99_ms"`
}

// Percentile returns the p-th percentile of values using the nearest-rank
// method: sort ascending, take index ceil(p/100*n)-1 clamped to the valid
// range. Empty input yields 0.
func Percentile(values []int64, p float64) int64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]int64, n)
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(math.Ceil(p/100*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return sorted[idx]
}

// ComputeStats returns the mean (rounded to the nearest integer) and the
// standard percentile set. All fields are 0 for empty input.
func ComputeStats(values []int64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	mean := int64(math.Round(float64(sum) / float64(len(values))))
	return Stats{
		MeanMS: mean,
		P50MS:  Percentile(values, 50),
		P90MS:  Percentile(values, 90),
		P95MS:  Percentile(values, 95),
		P99MS:  Percentile(values, 99),
	}
}
