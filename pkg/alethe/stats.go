package alethe

import (
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// StepStat is one checked step's timing record (§6: the statistics sink
// receives one (file, step-id, rule-name, duration) tuple per command).
type StepStat struct {
	File     string
	StepID   string
	Rule     string
	Duration time.Duration
}

// StatsSink collects per-step timing and, optionally, logs each record
// through an hclog.Logger as it arrives. It is safe for concurrent use so
// a single sink can be shared across the goroutines internal/batch spins
// up when checking many proofs at once.
type StatsSink struct {
	mu      sync.Mutex
	logger  hclog.Logger
	started map[string]time.Time
	records []StepStat
}

// NewStatsSink returns a StatsSink. A nil logger disables logging; records
// are still collected.
func NewStatsSink(logger hclog.Logger) *StatsSink {
	return &StatsSink{logger: logger, started: make(map[string]time.Time)}
}

// Begin marks the start of a step's validation; pair with Record.
func (s *StatsSink) Begin(stepID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started[stepID] = time.Now()
}

// Record stores a completed step's timing, computing duration from a prior
// Begin call if one was made (otherwise duration is zero).
func (s *StatsSink) Record(file, stepID, rule string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var d time.Duration
	if start, ok := s.started[stepID]; ok {
		d = time.Since(start)
		delete(s.started, stepID)
	}
	rec := StepStat{File: file, StepID: stepID, Rule: rule, Duration: d}
	s.records = append(s.records, rec)
	if s.logger != nil {
		s.logger.Debug("checked step", "file", file, "id", stepID, "rule", rule, "duration", d)
	}
}

// Records returns a copy of every step recorded so far.
func (s *StatsSink) Records() []StepStat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StepStat, len(s.records))
	copy(out, s.records)
	return out
}

// ByRule aggregates total time spent per rule name, for a quick profile
// summary.
func (s *StatsSink) ByRule() map[string]time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]time.Duration)
	for _, r := range s.records {
		out[r.Rule] += r.Duration
	}
	return out
}
