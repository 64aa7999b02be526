package history

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mj1618/webtrial/internal/harness"
)

// ErrRunNotFound is returned when no run exists for the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one persisted run record.
type Run struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	StartedAt  time.Time `json:"started_at"  gorm:"not null"`
	FinishedAt time.Time `json:"finished_at" gorm:"not null"`
	Trials     int       `json:"trials"      gorm:"not null"`
	Passed     int       `json:"passed"      gorm:"not null"`
	Failed     int       `json:"failed"      gorm:"not null"`
	Errored    int       `json:"errored"     gorm:"not null"`
	MeanMS     int64     `json:"mean_ms"`
	P50MS      int64     `json:"p50_ms"`
	P90MS      int64     `json:"p90_ms"`
	P95MS      int64     `json:"p95_ms"`
	P99MS      int64     `json:"p99_ms"`
	CSVPath    string    `json:"csv_path"    gorm:"type:varchar(512)"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate fills the ID when the caller did not supply one.
func (r *Run) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// NewRunFromSummary flattens a run summary into its persisted form.
func NewRunFromSummary(s *harness.RunSummary, csvPath string) *Run {
	return &Run{
		ID:         s.RunID,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Trials:     len(s.Trials),
		Passed:     s.Passed,
		Failed:     s.Failed,
		Errored:    s.Errored,
		MeanMS:     s.Stats.MeanMS,
		P50MS:      s.Stats.P50MS,
		P90MS:      s.Stats.P90MS,
		P95MS:      s.Stats.P95MS,
		P99MS:      s.Stats.P99MS,
		CSVPath:    csvPath,
	}
}
