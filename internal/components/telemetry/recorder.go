package telemetry

import (
	"strings"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelWarning
	LevelBroken
	LevelCount
)

// Report is a single call made against a Recorder.
type Report struct {
	Level  Level
	ID     string
	Params []any
	Count  int64
}

// Recorder is an API that keeps every report in memory, it is meant for tests
// that assert on what a component reported.
type Recorder struct {
	mutex   sync.Mutex
	reports []Report
}

func (r *Recorder) add(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add(Report{Level: LevelBroken, ID: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add(Report{Level: LevelWarning, ID: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add(Report{Level: LevelDebug, ID: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add(Report{Level: LevelCount, ID: id, Count: count})
}

// Reports returns a copy of the reports of the given level.
func (r *Recorder) Reports(level Level) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Level == level {
			out = append(out, report)
		}
	}
	return out
}

// Broken returns true if a broken report with an id ending in `suffix` was recorded.
func (r *Recorder) Broken(suffix string) bool {
	for _, report := range r.Reports(LevelBroken) {
		if strings.HasSuffix(report.ID, suffix) {
			return true
		}
	}
	return false
}
